package repository

import (
	"fmt"

	"github.com/quickepk/quickepk/internal/models"
	"gorm.io/gorm"
)

// ClickRepository defines the data-access methods for click events.
type ClickRepository interface {
	CreateClick(click *models.ClickEvent) error
	ListClicksByPressKit(pressKitID string) ([]models.ClickEvent, error)
	DistinctElementURLs() ([]string, error)
}

// GormClickRepository is the GORM implementation of ClickRepository.
type GormClickRepository struct {
	db *gorm.DB
}

// NewClickRepository creates and returns a new GormClickRepository.
func NewClickRepository(db *gorm.DB) *GormClickRepository {
	return &GormClickRepository{db: db}
}

// CreateClick inserts a new click event into the database.
func (r *GormClickRepository) CreateClick(click *models.ClickEvent) error {
	if err := r.db.Create(click).Error; err != nil {
		return fmt.Errorf("failed to create click event: %w", err)
	}
	return nil
}

// DistinctElementURLs returns every distinct outbound URL that has received
// at least one click, across all press kits. The link monitor health-checks
// these periodically.
func (r *GormClickRepository) DistinctElementURLs() ([]string, error) {
	var urls []string
	if err := r.db.Model(&models.ClickEvent{}).
		Distinct("element_url").Pluck("element_url", &urls).Error; err != nil {
		return nil, fmt.Errorf("failed to list distinct element URLs: %w", err)
	}
	return urls, nil
}

// ListClicksByPressKit retrieves the full click history for one press kit,
// most recent first.
func (r *GormClickRepository) ListClicksByPressKit(pressKitID string) ([]models.ClickEvent, error) {
	var clicks []models.ClickEvent
	if err := r.db.Where("press_kit_id = ?", pressKitID).
		Order("clicked_at DESC").Find(&clicks).Error; err != nil {
		return nil, fmt.Errorf("failed to list clicks for press kit %s: %w", pressKitID, err)
	}
	return clicks, nil
}
