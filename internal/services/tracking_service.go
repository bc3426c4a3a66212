// Package services contains the business logic layer for the press-kit
// analytics service.
package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/quickepk/quickepk/internal/geo"
	"github.com/quickepk/quickepk/internal/iphash"
	"github.com/quickepk/quickepk/internal/models"
	"github.com/quickepk/quickepk/internal/repository"

	apperrors "github.com/quickepk/quickepk/internal/errors"
)

// TrackingService implements the event-ingest operations: recording views,
// clicks, durations and viewed sections. After a view is durably stored it
// publishes a ViewRecorded fact on the notification channel; that publish is
// non-blocking so the public tracking path never waits on the notifier.
type TrackingService struct {
	views   repository.ViewRepository
	clicks  repository.ClickRepository
	locator geo.Locator
	// notifyChan receives one ViewRecorded per stored view. Nil disables
	// the handoff entirely (CLI commands run without workers).
	notifyChan chan<- models.ViewRecorded
}

// NewTrackingService creates and returns a new TrackingService.
func NewTrackingService(
	views repository.ViewRepository,
	clicks repository.ClickRepository,
	locator geo.Locator,
	notifyChan chan<- models.ViewRecorded,
) *TrackingService {
	return &TrackingService{
		views:      views,
		clicks:     clicks,
		locator:    locator,
		notifyChan: notifyChan,
	}
}

// RecordView stores one page-view event for a press kit.
//
// The viewer address is hashed before it is persisted; the raw address is
// only passed to the geolocation lookup, which is best effort - a failed or
// slow lookup leaves the location nil and never fails the caller. The only
// error a caller can see is a store write failure.
func (s *TrackingService) RecordView(ctx context.Context, pressKitID, referrer, clientIP, userAgent string) (*models.ViewEvent, error) {
	if pressKitID == "" {
		return nil, apperrors.ErrMissingField
	}

	// Best-effort location. Failures are logged for operators and swallowed.
	var location *string
	if s.locator != nil {
		if loc, err := s.locator.Locate(ctx, clientIP); err == nil {
			location = &loc
		} else {
			log.Printf("[GEO] lookup skipped: %v", err)
		}
	}

	view := &models.ViewEvent{
		ID:             uuid.New().String(),
		PressKitID:     pressKitID,
		ViewerHash:     iphash.Hash(clientIP),
		ViewerLocation: location,
		Referrer:       optional(referrer),
		UserAgent:      optional(userAgent),
		ViewedAt:       time.Now().UTC(),
		SectionsViewed: []string{},
	}

	if err := s.views.CreateView(view); err != nil {
		return nil, apperrors.ErrViewRecordingFailed{PressKitID: pressKitID, Reason: err.Error()}
	}

	s.publishViewRecorded(view)

	return view, nil
}

// publishViewRecorded hands the stored view to the notification workers with
// a non-blocking send. When the buffer is full the fact is dropped: a missed
// notification is preferable to delaying the viewer's response.
func (s *TrackingService) publishViewRecorded(view *models.ViewEvent) {
	if s.notifyChan == nil {
		return
	}

	// Shutdown closes the channel after the HTTP server stops accepting
	// requests, but a view racing that close must not crash the process -
	// the view is already stored, only the notification fact is lost.
	defer func() {
		if recover() != nil {
			log.Printf("WARNING: notification channel closed, dropping view-recorded fact for press kit %s", view.PressKitID)
		}
	}()

	fact := models.ViewRecorded{
		PressKitID:     view.PressKitID,
		ViewEventID:    view.ID,
		ViewerLocation: view.ViewerLocation,
		Referrer:       view.Referrer,
		ViewedAt:       view.ViewedAt,
	}

	select {
	case s.notifyChan <- fact:
	default:
		log.Printf("WARNING: notification channel full, dropping view-recorded fact for press kit %s", view.PressKitID)
	}
}

// RecordClick stores one click event. The element type must be one of the
// four tracked categories; anything else is rejected with a validation error
// and nothing is written.
func (s *TrackingService) RecordClick(pressKitID, viewEventID string, elementType models.ElementType, elementURL string) error {
	if pressKitID == "" || elementType == "" || elementURL == "" {
		return apperrors.ErrMissingField
	}
	if !models.ValidElementType(elementType) {
		return apperrors.ErrInvalidElementType
	}

	click := &models.ClickEvent{
		ID:          uuid.New().String(),
		PressKitID:  pressKitID,
		ViewEventID: optional(viewEventID),
		ElementType: elementType,
		ElementURL:  elementURL,
		ClickedAt:   time.Now().UTC(),
	}

	return s.clicks.CreateClick(click)
}

// RecordDuration patches the time-on-page field of one view event.
// The unload beacon that triggers it is unreliable, so a view that never
// receives a duration is a normal terminal state. Duplicate calls are
// tolerated: last write wins.
func (s *TrackingService) RecordDuration(viewEventID string, seconds int) error {
	if viewEventID == "" {
		return apperrors.ErrMissingField
	}
	if seconds < 0 {
		return apperrors.ErrNegativeDuration
	}
	return s.views.UpdateTimeOnPage(viewEventID, seconds)
}

// RecordSection adds a section name to the view's deduplicated viewed-sections
// set. Re-reporting a section the visitor already reached is a no-op.
func (s *TrackingService) RecordSection(viewEventID, section string) error {
	if viewEventID == "" || section == "" {
		return apperrors.ErrMissingField
	}
	return s.views.AppendSectionViewed(viewEventID, section)
}

// optional maps an empty string to nil so absent request fields persist as NULL.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
