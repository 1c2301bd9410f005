// Package testutil provides in-memory fakes shared by package tests.
package testutil

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/fileflow/backend/internal/models"
	"github.com/fileflow/backend/internal/sessionstore"
)

// Message is one captured notification.
type Message struct {
	Level models.NotificationLevel
	Text  string
}

// RecordingNotifier captures notifications for assertions.
type RecordingNotifier struct {
	mu       sync.Mutex
	messages []Message
}

// NewRecordingNotifier creates an empty recorder.
func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

func (r *RecordingNotifier) record(level models.NotificationLevel, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, Message{Level: level, Text: msg})
}

func (r *RecordingNotifier) Success(msg string) { r.record(models.NotifySuccess, msg) }
func (r *RecordingNotifier) Error(msg string)   { r.record(models.NotifyError, msg) }
func (r *RecordingNotifier) Warning(msg string) { r.record(models.NotifyWarning, msg) }
func (r *RecordingNotifier) Info(msg string)    { r.record(models.NotifyInfo, msg) }

// Messages returns a snapshot of all captured notifications in order.
func (r *RecordingNotifier) Messages() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.messages))
	copy(out, r.messages)
	return out
}

// ByLevel returns the captured messages with the given level.
func (r *RecordingNotifier) ByLevel(level models.NotificationLevel) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, m := range r.messages {
		if m.Level == level {
			out = append(out, m.Text)
		}
	}
	return out
}

// FlakyFileStore is a file store that fails RecordUpload for chosen file
// names and otherwise records in memory.
type FlakyFileStore struct {
	mu       sync.Mutex
	FailFor  map[string]bool
	Recorded []*models.StoredFile
}

// NewFlakyFileStore creates a store failing uploads for the given names.
func NewFlakyFileStore(failFor ...string) *FlakyFileStore {
	fails := make(map[string]bool, len(failFor))
	for _, n := range failFor {
		fails[n] = true
	}
	return &FlakyFileStore{FailFor: fails}
}

func (s *FlakyFileStore) RecordUpload(ctx context.Context, f *models.TrackedFile) (*models.StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailFor[f.Name] {
		return nil, errors.New("simulated upload failure")
	}
	stored := models.NewStoredFile(f, time.Now())
	s.Recorded = append(s.Recorded, stored)
	return stored, nil
}

func (s *FlakyFileStore) List(ctx context.Context) ([]*models.StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.StoredFile, len(s.Recorded))
	copy(out, s.Recorded)
	return out, nil
}

func (s *FlakyFileStore) Get(ctx context.Context, id string) (*models.StoredFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, f := range s.Recorded {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, errors.New("file record not found")
}

func (s *FlakyFileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.Recorded {
		if f.ID == id {
			s.Recorded = append(s.Recorded[:i], s.Recorded[i+1:]...)
			return nil
		}
	}
	return errors.New("file record not found")
}

func (s *FlakyFileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Recorded = nil
	return nil
}

// FailingSessionStore wraps a real store and injects failures on Create or
// Complete, for exercising the session-failure path.
type FailingSessionStore struct {
	sessionstore.Store
	FailCreate   bool
	FailComplete bool
}

func (s *FailingSessionStore) Create(ctx context.Context, totalFiles int, totalSize int64, startTime time.Time) (*models.UploadSession, error) {
	if s.FailCreate {
		return nil, errors.New("simulated session create failure")
	}
	return s.Store.Create(ctx, totalFiles, totalSize, startTime)
}

func (s *FailingSessionStore) Complete(ctx context.Context, id string, endTime time.Time, uploadedFiles int) (*models.UploadSession, error) {
	if s.FailComplete {
		return nil, errors.New("simulated session complete failure")
	}
	return s.Store.Complete(ctx, id, endTime, uploadedFiles)
}
