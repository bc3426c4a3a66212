package models

import "time"

// PressKit represents an artist's electronic press kit (EPK) stored in the database.
// It is the aggregate root: view and click events reference it by ID, and the
// notification settings (NotifyOnView, LastNotificationAt) live directly on it.
type PressKit struct {
	// ID is a UUID string primary key
	ID string `gorm:"primaryKey;size:36"`

	// AccountID references the owning account. The account's email address
	// is resolved through the account directory when a view notification fires.
	AccountID string `gorm:"size:36;index;not null"`

	// Slug is the public identifier used in the kit's URL (e.g. /the-midnight-sons).
	// Unique among kits so a published slug can never collide.
	Slug string `gorm:"uniqueIndex;size:100;not null"`

	// Display fields shown on the public page. The content editor that
	// maintains them is outside this service; we only carry them so the
	// notification email can name the artist.
	ArtistName   string `gorm:"size:255;not null"`
	Bio          string
	Genre        string `gorm:"size:100"`
	Location     string `gorm:"size:255"`
	ContactEmail string `gorm:"size:255"`

	IsPublished bool `gorm:"default:false"`

	// NotifyOnView enables the view-notification email for this kit.
	NotifyOnView bool `gorm:"default:false"`

	// LastNotificationAt records the last successful notification dispatch.
	// Nil until the first notification goes out. The notifier enforces the
	// cooldown window against this timestamp.
	LastNotificationAt *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
