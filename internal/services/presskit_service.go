package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/quickepk/quickepk/internal/models"
	"github.com/quickepk/quickepk/internal/repository"

	apperrors "github.com/quickepk/quickepk/internal/errors"
)

var slugStrip = regexp.MustCompile(`[^a-z0-9_\s-]`)
var slugDashes = regexp.MustCompile(`[\s_-]+`)

// PressKitService provides the thin press-kit operations the analytics core
// needs: creating a kit (so there is something to track) and fetching it by
// ID or public slug. The full content editor lives elsewhere.
type PressKitService struct {
	pressKits repository.PressKitRepository
}

// NewPressKitService creates and returns a new PressKitService.
func NewPressKitService(pressKits repository.PressKitRepository) *PressKitService {
	return &PressKitService{pressKits: pressKits}
}

// Slugify lowercases the artist name and collapses it to a URL-safe slug.
func Slugify(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	s = slugStrip.ReplaceAllString(s, "")
	s = slugDashes.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// CreatePressKit creates a press kit for an account. The slug defaults to the
// slugified artist name and must be globally unique; a collision is reported
// as ErrSlugTaken rather than leaking a database constraint error.
func (s *PressKitService) CreatePressKit(accountID, artistName, slug string, notifyOnView bool) (*models.PressKit, error) {
	if accountID == "" || artistName == "" {
		return nil, apperrors.ErrMissingField
	}

	if slug == "" {
		slug = Slugify(artistName)
	}
	if slug == "" {
		return nil, fmt.Errorf("artist name %q yields an empty slug", artistName)
	}

	// Check slug availability up front for a clean error. The unique index
	// still backstops the benign race with a concurrent create.
	if _, err := s.pressKits.GetPressKitBySlug(slug); err == nil {
		return nil, apperrors.ErrSlugTaken
	} else if !errors.Is(err, apperrors.ErrPressKitNotFound) {
		return nil, err
	}

	kit := &models.PressKit{
		ID:           uuid.New().String(),
		AccountID:    accountID,
		Slug:         slug,
		ArtistName:   artistName,
		IsPublished:  true,
		NotifyOnView: notifyOnView,
	}

	if err := s.pressKits.CreatePressKit(kit); err != nil {
		return nil, err
	}
	return kit, nil
}

// GetPressKitByID retrieves a press kit by its primary key.
func (s *PressKitService) GetPressKitByID(id string) (*models.PressKit, error) {
	return s.pressKits.GetPressKitByID(id)
}

// GetPressKitBySlug retrieves a press kit by its public slug.
func (s *PressKitService) GetPressKitBySlug(slug string) (*models.PressKit, error) {
	return s.pressKits.GetPressKitBySlug(slug)
}
