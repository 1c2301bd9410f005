package sessionstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fileflow/backend/internal/models"
)

// MemoryStore keeps upload sessions in process memory. A fixed latency is
// applied per call to mimic a hosted backend; zero disables it.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*models.UploadSession
	latency  time.Duration
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore(latency time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*models.UploadSession),
		latency:  latency,
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

// Create opens an active session.
func (s *MemoryStore) Create(ctx context.Context, totalFiles int, totalSize int64, startTime time.Time) (*models.UploadSession, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	sess := models.NewUploadSession(uuid.New().String(), totalFiles, totalSize, startTime)

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	return sess.Clone(), nil
}

// Complete finalizes a session exactly once.
func (s *MemoryStore) Complete(ctx context.Context, id string, endTime time.Time, uploadedFiles int) (*models.UploadSession, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if sess.Status == models.SessionStatusCompleted {
		return nil, fmt.Errorf("%w: %s", ErrCompleted, id)
	}

	next := sess.Clone()
	next.Status = models.SessionStatusCompleted
	next.EndTime = &endTime
	next.UploadedFiles = uploadedFiles
	now := time.Now()
	next.UpdatedAt = &now

	s.sessions[id] = next
	return next.Clone(), nil
}

// Update adjusts an active session.
func (s *MemoryStore) Update(ctx context.Context, id string, upd Update) (*models.UploadSession, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if sess.Status == models.SessionStatusCompleted {
		return nil, fmt.Errorf("%w: %s", ErrCompleted, id)
	}

	next := sess.Clone()
	if upd.UploadedFiles != nil {
		next.UploadedFiles = *upd.UploadedFiles
	}
	now := time.Now()
	next.UpdatedAt = &now

	s.sessions[id] = next
	return next.Clone(), nil
}

// Get returns one session by id.
func (s *MemoryStore) Get(ctx context.Context, id string) (*models.UploadSession, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sess.Clone(), nil
}

// List returns all sessions, most recently created first.
func (s *MemoryStore) List(ctx context.Context) ([]*models.UploadSession, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]*models.UploadSession, 0, len(s.sessions))
	for _, sess := range s.sessions {
		list = append(list, sess.Clone())
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list, nil
}

// Active returns sessions that have not completed yet.
func (s *MemoryStore) Active(ctx context.Context) ([]*models.UploadSession, error) {
	list, err := s.List(ctx)
	if err != nil {
		return nil, err
	}

	out := list[:0]
	for _, sess := range list {
		if sess.Status == models.SessionStatusActive {
			out = append(out, sess)
		}
	}
	return out, nil
}

// Delete removes one session by id.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.sessions, id)
	return nil
}

var _ Store = (*MemoryStore)(nil)
