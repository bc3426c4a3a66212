package repository

import (
	"errors"
	"fmt"

	"github.com/quickepk/quickepk/internal/models"
	"gorm.io/gorm"
)

// ErrAccountNotFound is returned when an account reference cannot be resolved.
var ErrAccountNotFound = errors.New("account not found")

// AccountDirectory resolves an account reference to its contact email.
// The notifier treats a failed lookup as a skip, never as a caller-visible error.
type AccountDirectory interface {
	EmailForAccount(accountID string) (string, error)
}

// GormAccountRepository is the GORM implementation of AccountDirectory.
type GormAccountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates and returns a new GormAccountRepository.
func NewAccountRepository(db *gorm.DB) *GormAccountRepository {
	return &GormAccountRepository{db: db}
}

// EmailForAccount looks up the contact email for an account ID.
func (r *GormAccountRepository) EmailForAccount(accountID string) (string, error) {
	var account models.Account
	if err := r.db.Where("id = ?", accountID).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrAccountNotFound
		}
		return "", fmt.Errorf("failed to look up account %s: %w", accountID, err)
	}
	return account.Email, nil
}
