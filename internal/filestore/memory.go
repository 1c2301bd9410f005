package filestore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/fileflow/backend/internal/models"
)

// MemoryStore keeps uploaded file records in process memory. Records do not
// survive a restart. A fixed latency is applied per call to mimic a hosted
// backend; zero disables it.
type MemoryStore struct {
	mu      sync.RWMutex
	files   map[string]*models.StoredFile
	latency time.Duration
}

// NewMemoryStore creates an empty in-memory file store.
func NewMemoryStore(latency time.Duration) *MemoryStore {
	return &MemoryStore{
		files:   make(map[string]*models.StoredFile),
		latency: latency,
	}
}

func (s *MemoryStore) wait(ctx context.Context) error {
	if s.latency <= 0 {
		return nil
	}
	select {
	case <-time.After(s.latency):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RecordUpload persists a snapshot of the tracked file.
func (s *MemoryStore) RecordUpload(ctx context.Context, f *models.TrackedFile) (*models.StoredFile, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	stored := models.NewStoredFile(f, time.Now())

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[stored.ID] = stored

	out := *stored
	return &out, nil
}

// List returns all stored records, most recent first.
func (s *MemoryStore) List(ctx context.Context) ([]*models.StoredFile, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*models.StoredFile, 0, len(s.files))
	for _, f := range s.files {
		c := *f
		list = append(list, &c)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].UploadedAt.After(list[j].UploadedAt)
	})
	return list, nil
}

// Get returns one record by id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*models.StoredFile, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.files[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	c := *f
	return &c, nil
}

// Delete removes one record by id.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.files, id)
	return nil
}

// Clear removes every stored record.
func (s *MemoryStore) Clear(ctx context.Context) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.files = make(map[string]*models.StoredFile)
	return nil
}

var _ Store = (*MemoryStore)(nil)
