package repository

import (
	"errors"
	"fmt"
	"time"

	apperrors "github.com/quickepk/quickepk/internal/errors"
	"github.com/quickepk/quickepk/internal/models"
	"gorm.io/gorm"
)

// PressKitRepository defines the data-access methods for press kits.
type PressKitRepository interface {
	CreatePressKit(kit *models.PressKit) error
	GetPressKitByID(id string) (*models.PressKit, error)
	GetPressKitBySlug(slug string) (*models.PressKit, error)
	UpdateLastNotificationAt(id string, at time.Time) error
}

// GormPressKitRepository is the GORM implementation of PressKitRepository.
type GormPressKitRepository struct {
	db *gorm.DB
}

// NewPressKitRepository creates and returns a new GormPressKitRepository.
func NewPressKitRepository(db *gorm.DB) *GormPressKitRepository {
	return &GormPressKitRepository{db: db}
}

// CreatePressKit inserts a new press kit into the database.
func (r *GormPressKitRepository) CreatePressKit(kit *models.PressKit) error {
	if err := r.db.Create(kit).Error; err != nil {
		return fmt.Errorf("failed to create press kit: %w", err)
	}
	return nil
}

// GetPressKitByID retrieves a press kit by its primary key.
func (r *GormPressKitRepository) GetPressKitByID(id string) (*models.PressKit, error) {
	var kit models.PressKit
	if err := r.db.Where("id = ?", id).First(&kit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPressKitNotFound
		}
		return nil, fmt.Errorf("failed to retrieve press kit %s: %w", id, err)
	}
	return &kit, nil
}

// GetPressKitBySlug retrieves a press kit by its public slug.
func (r *GormPressKitRepository) GetPressKitBySlug(slug string) (*models.PressKit, error) {
	var kit models.PressKit
	if err := r.db.Where("slug = ?", slug).First(&kit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrPressKitNotFound
		}
		return nil, fmt.Errorf("failed to retrieve press kit for slug %s: %w", slug, err)
	}
	return &kit, nil
}

// UpdateLastNotificationAt stamps the last successful notification dispatch.
// Single-column update so concurrent kit edits are not clobbered.
func (r *GormPressKitRepository) UpdateLastNotificationAt(id string, at time.Time) error {
	if err := r.db.Model(&models.PressKit{}).Where("id = ?", id).
		Update("last_notification_at", at).Error; err != nil {
		return fmt.Errorf("failed to update last notification time for press kit %s: %w", id, err)
	}
	return nil
}
