package models

import "time"

// Account is the owner of one or more press kits. Authentication and session
// handling live elsewhere; this service only needs the contact email when a
// view notification has to be delivered.
type Account struct {
	ID        string    `gorm:"primaryKey;size:36"`
	Email     string    `gorm:"size:255;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
