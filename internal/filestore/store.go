// Package filestore persists uploaded file records. Two interchangeable
// backends exist: an ephemeral in-process store and a client for a remote
// record API. The backend is selected at construction time.
package filestore

import (
	"context"
	"errors"

	"github.com/fileflow/backend/internal/models"
)

// ErrNotFound is returned when a record id is unknown to the store.
var ErrNotFound = errors.New("file record not found")

// Store is the persistence collaborator contract for uploaded files.
type Store interface {
	// RecordUpload persists a snapshot of the tracked file and returns the
	// stored record.
	RecordUpload(ctx context.Context, f *models.TrackedFile) (*models.StoredFile, error)
	// List returns all stored records, most recent first.
	List(ctx context.Context) ([]*models.StoredFile, error)
	// Get returns one record or ErrNotFound.
	Get(ctx context.Context, id string) (*models.StoredFile, error)
	// Delete removes one record or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
	// Clear removes every stored record.
	Clear(ctx context.Context) error
}
