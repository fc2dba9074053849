package messagerepo

import (
	"errors"

	"github.com/robert8597/swifthackathon/internal/domain"
)

var (
	ErrNotFound     = errors.New("message not found")
	ErrDuplicateKey = errors.New("message id already exists")
)

// IMessageRepository is the single source of truth for message records.
// Callers must read a fresh copy, merge their change and write it back;
// Update replaces the whole record, last write wins.
type IMessageRepository interface {
	// Put inserts a new record, failing with ErrDuplicateKey when the id
	// already exists.
	Put(message *domain.StoredMessage) error

	// GetByID returns a copy of the current record or ErrNotFound.
	GetByID(messageID string) (*domain.StoredMessage, error)

	// ListAll returns a snapshot of every stored record.
	ListAll() ([]domain.StoredMessage, error)

	// Update atomically replaces the record with a matching id, failing
	// with ErrNotFound when absent.
	Update(message *domain.StoredMessage) error
}
