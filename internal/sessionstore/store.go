// Package sessionstore manages upload-session records. Like filestore, it
// offers an ephemeral in-process backend and a remote record API client
// behind one interface, chosen at construction time.
package sessionstore

import (
	"context"
	"errors"
	"time"

	"github.com/fileflow/backend/internal/models"
)

// ErrNotFound is returned when a session id is unknown to the store.
var ErrNotFound = errors.New("upload session not found")

// ErrCompleted is returned when mutating a session that already completed.
// Completion is terminal; sessions are append-only afterwards.
var ErrCompleted = errors.New("upload session already completed")

// Update carries the mutable fields of an active session.
type Update struct {
	UploadedFiles *int
}

// Store is the upload-session lifecycle contract.
type Store interface {
	// Create opens an active session scoped to one upload invocation.
	Create(ctx context.Context, totalFiles int, totalSize int64, startTime time.Time) (*models.UploadSession, error)
	// Complete finalizes a session exactly once. Returns ErrNotFound for an
	// unknown id and ErrCompleted if the session is already terminal.
	Complete(ctx context.Context, id string, endTime time.Time, uploadedFiles int) (*models.UploadSession, error)
	// Update adjusts an active session. Rejected after completion.
	Update(ctx context.Context, id string, upd Update) (*models.UploadSession, error)
	// Get returns one session or ErrNotFound.
	Get(ctx context.Context, id string) (*models.UploadSession, error)
	// List returns all sessions, most recently created first.
	List(ctx context.Context) ([]*models.UploadSession, error)
	// Active returns sessions that have not completed yet.
	Active(ctx context.Context) ([]*models.UploadSession, error)
	// Delete removes one session or returns ErrNotFound.
	Delete(ctx context.Context, id string) error
}
