package models

import "time"

// ElementType classifies the trackable elements on a public press kit page.
type ElementType string

const (
	ElementMusic   ElementType = "music"
	ElementVideo   ElementType = "video"
	ElementSocial  ElementType = "social"
	ElementContact ElementType = "contact"
)

// ValidElementType reports whether t is one of the four tracked categories.
func ValidElementType(t ElementType) bool {
	switch t {
	case ElementMusic, ElementVideo, ElementSocial, ElementContact:
		return true
	}
	return false
}

// ClickEvent represents one recorded interaction with a trackable element
// (music, video, social or contact link) on a press kit page.
// Immutable once created.
type ClickEvent struct {
	// ID is a UUID string primary key
	ID string `gorm:"primaryKey;size:36"`

	// PressKitID is the foreign key to the kit the click happened on
	PressKitID string `gorm:"size:36;index;not null"`

	// ViewEventID ties the click to the originating view session when the
	// client still has one; nil for unattributed clicks.
	ViewEventID *string `gorm:"size:36"`

	ElementType ElementType `gorm:"size:20;not null"`
	ElementURL  string      `gorm:"size:500;not null"`

	ClickedAt time.Time `gorm:"index;not null"`
}
