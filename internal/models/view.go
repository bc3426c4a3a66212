package models

import (
	"time"

	"gorm.io/datatypes"
)

// ViewEvent represents one recorded page load of a press kit by a visitor.
// Rows are immutable history except for TimeOnPage (patched once by the page
// unload beacon, best effort) and SectionsViewed (append-only, deduplicated).
type ViewEvent struct {
	// ID is a UUID string primary key
	ID string `gorm:"primaryKey;size:36"`

	// PressKitID is the foreign key to the viewed kit
	// - index: analytics reads load the full history of one kit
	PressKitID string `gorm:"size:36;index;not null"`

	// ViewerHash is the privacy-hashed viewer address (see the iphash package).
	// The raw address is never stored; equality on the hash gives the
	// approximate unique-visitor count.
	ViewerHash string `gorm:"size:16;not null"`

	// ViewerLocation is the best-effort "City, Country" resolved at record
	// time. Nil when the geolocation lookup failed or was skipped.
	ViewerLocation *string `gorm:"size:255"`

	// Referrer is the raw document.referrer reported by the client, nil when
	// the visit was direct.
	Referrer *string `gorm:"size:500"`

	// UserAgent stores the browser/client information from the HTTP request
	UserAgent *string `gorm:"size:255"`

	ViewedAt time.Time `gorm:"index;not null"`

	// TimeOnPage is the duration in seconds, set at most once after creation
	// by the unload beacon. Nil is a normal terminal state: the beacon may
	// never fire if the tab is killed.
	TimeOnPage *int

	// SectionsViewed is the deduplicated set of section names the visitor
	// scrolled into, stored as a JSON string array.
	SectionsViewed datatypes.JSONSlice[string]
}

// ViewRecorded is the lightweight fact published on the notification channel
// after a ViewEvent is durably stored. It carries only what the notification
// gate needs, so the hot view-recording path never blocks on it.
type ViewRecorded struct {
	PressKitID     string    // Which kit was viewed
	ViewEventID    string    // The stored ViewEvent row
	ViewerLocation *string   // Best-effort location, nil when unresolved
	Referrer       *string   // Raw referrer, nil for direct visits
	ViewedAt       time.Time // When the view was recorded
}
