package session

import (
	"context"

	"github.com/google/uuid"
)

// Store defines the persistence interface for session records.
// Implementations must handle concurrent access safely.
type Store[Data any] interface {
	// Get returns the record for id, or ErrNotFound.
	Get(ctx context.Context, id uuid.UUID) (*Session[Data], error)

	// Save creates or replaces a record.
	Save(ctx context.Context, sess *Session[Data]) error

	// Delete removes a record permanently. Deleting an absent record is
	// not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	// All returns every stored record in unspecified order.
	All(ctx context.Context) ([]Session[Data], error)
}
