package errors

import (
	"errors"
	"fmt"
)

// Custom error types for the press-kit analytics service

// ErrPressKitNotFound is returned when a press kit ID or slug doesn't exist
var ErrPressKitNotFound = errors.New("press kit not found")

// ErrViewNotFound is returned when a view event ID doesn't exist
var ErrViewNotFound = errors.New("view event not found")

// ErrInvalidElementType is returned when a click reports an element type
// outside the music/video/social/contact enumeration
var ErrInvalidElementType = errors.New("invalid element type")

// ErrMissingField is returned when a tracking request omits a required field
var ErrMissingField = errors.New("missing required field")

// ErrNegativeDuration is returned when a duration update carries a negative
// time-on-page value
var ErrNegativeDuration = errors.New("time on page cannot be negative")

// ErrSlugTaken is returned when creating a press kit with a slug already in use
var ErrSlugTaken = errors.New("slug already in use")

// ErrDatabaseConnection is returned when database connection fails
var ErrDatabaseConnection = errors.New("database connection failed")

// ErrViewRecordingFailed is returned when persisting a view event fails
type ErrViewRecordingFailed struct {
	PressKitID string
	Reason     string
}

func (e ErrViewRecordingFailed) Error() string {
	return fmt.Sprintf("failed to record view for press kit %s: %s", e.PressKitID, e.Reason)
}

// ErrNotificationFailed is returned when a view notification cannot be delivered.
// It never reaches the public tracking path; the notifier only logs it.
type ErrNotificationFailed struct {
	PressKitID string
	Reason     string
}

func (e ErrNotificationFailed) Error() string {
	return fmt.Sprintf("failed to notify owner of press kit %s: %s", e.PressKitID, e.Reason)
}

// ErrGeoLookupFailed is returned when the geolocation lookup fails.
// Callers swallow it and record the view without a location.
type ErrGeoLookupFailed struct {
	Address string
	Reason  string
}

func (e ErrGeoLookupFailed) Error() string {
	return fmt.Sprintf("failed to geolocate %s: %s", e.Address, e.Reason)
}
