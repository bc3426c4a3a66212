package repository

import (
	"errors"
	"fmt"

	apperrors "github.com/quickepk/quickepk/internal/errors"
	"github.com/quickepk/quickepk/internal/models"
	"gorm.io/gorm"
)

// ViewRepository defines the data-access methods for view events.
type ViewRepository interface {
	CreateView(view *models.ViewEvent) error
	GetViewByID(id string) (*models.ViewEvent, error)
	UpdateTimeOnPage(id string, seconds int) error
	AppendSectionViewed(id string, section string) error
	ListViewsByPressKit(pressKitID string) ([]models.ViewEvent, error)
}

// GormViewRepository is the GORM implementation of ViewRepository.
type GormViewRepository struct {
	db *gorm.DB
}

// NewViewRepository creates and returns a new GormViewRepository.
func NewViewRepository(db *gorm.DB) *GormViewRepository {
	return &GormViewRepository{db: db}
}

// CreateView inserts a new view event into the database.
func (r *GormViewRepository) CreateView(view *models.ViewEvent) error {
	if err := r.db.Create(view).Error; err != nil {
		return fmt.Errorf("failed to create view event: %w", err)
	}
	return nil
}

// GetViewByID retrieves a single view event by its primary key.
func (r *GormViewRepository) GetViewByID(id string) (*models.ViewEvent, error) {
	var view models.ViewEvent
	if err := r.db.Where("id = ?", id).First(&view).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrViewNotFound
		}
		return nil, fmt.Errorf("failed to retrieve view event %s: %w", id, err)
	}
	return &view, nil
}

// UpdateTimeOnPage sets the duration field of one view event.
// Last write wins: the unload beacon occasionally fires twice and the later
// value simply replaces the earlier one.
func (r *GormViewRepository) UpdateTimeOnPage(id string, seconds int) error {
	if err := r.db.Model(&models.ViewEvent{}).Where("id = ?", id).
		Update("time_on_page", seconds).Error; err != nil {
		return fmt.Errorf("failed to update time on page for view %s: %w", id, err)
	}
	return nil
}

// AppendSectionViewed adds a section name to the view's deduplicated set.
// Adding a section that is already present is a no-op.
func (r *GormViewRepository) AppendSectionViewed(id string, section string) error {
	view, err := r.GetViewByID(id)
	if err != nil {
		return err
	}
	for _, s := range view.SectionsViewed {
		if s == section {
			return nil
		}
	}
	sections := append(view.SectionsViewed, section)
	if err := r.db.Model(&models.ViewEvent{}).Where("id = ?", id).
		Update("sections_viewed", sections).Error; err != nil {
		return fmt.Errorf("failed to append viewed section for view %s: %w", id, err)
	}
	return nil
}

// ListViewsByPressKit retrieves the full view history for one press kit,
// most recent first. The aggregation engine consumes this ordering directly
// for its recent-views list.
func (r *GormViewRepository) ListViewsByPressKit(pressKitID string) ([]models.ViewEvent, error) {
	var views []models.ViewEvent
	if err := r.db.Where("press_kit_id = ?", pressKitID).
		Order("viewed_at DESC").Find(&views).Error; err != nil {
		return nil, fmt.Errorf("failed to list views for press kit %s: %w", pressKitID, err)
	}
	return views, nil
}
