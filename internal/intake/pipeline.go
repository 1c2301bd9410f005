// Package intake turns raw selected/dropped files into tracked records and
// owns the tracked-file list.
package intake

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/fileflow/backend/internal/models"
	"github.com/fileflow/backend/internal/notify"
	"github.com/fileflow/backend/internal/preview"
	"github.com/fileflow/backend/internal/validate"
)

// RawFile is one file as received from the UI collaborator.
type RawFile struct {
	Name         string
	MimeType     string
	Size         int64
	LastModified int64 // Unix ms
	Data         []byte
}

// Manager owns the tracked-file list. All mutations are whole-record
// replacements under the lock; readers always see consistent records.
type Manager struct {
	mu        sync.RWMutex
	files     []*models.TrackedFile
	validator *validate.Validator
	notifier  notify.Notifier
	log       *log.Logger
}

// NewManager creates a tracked-file manager.
func NewManager(validator *validate.Validator, notifier notify.Notifier, logger *log.Logger) *Manager {
	return &Manager{
		validator: validator,
		notifier:  notifier,
		log:       logger,
	}
}

// Intake processes a batch of raw files: each is validated and, for images,
// given an inline preview. Every file becomes a tracked record appended to
// the list in batch order. It returns snapshots of the batch's own records,
// in batch order, plus the subset that passed validation; callers must not
// re-derive them from the shared list, which other intakes may be growing
// concurrently. Preview generation runs concurrently across the batch.
func (m *Manager) Intake(batch []RawFile) (created, valid []*models.TrackedFile) {
	if len(batch) == 0 {
		return nil, nil
	}

	records := make([]*models.TrackedFile, len(batch))

	var wg sync.WaitGroup
	for i := range batch {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			records[i] = m.buildRecord(batch[i])
		}(i)
	}
	wg.Wait()

	m.mu.Lock()
	m.files = append(m.files, records...)
	m.mu.Unlock()

	created = make([]*models.TrackedFile, len(records))
	valid = make([]*models.TrackedFile, 0, len(records))
	for i, rec := range records {
		created[i] = rec.Clone()
		if rec.Status == models.FileStatusError {
			m.notifier.Error(fmt.Sprintf("%s: %s", rec.Name, rec.Error))
			continue
		}
		valid = append(valid, created[i])
	}

	m.log.Debug("intake complete", "batch", len(batch), "valid", len(valid))
	return created, valid
}

func (m *Manager) buildRecord(rf RawFile) *models.TrackedFile {
	rec := &models.TrackedFile{
		ID:           uuid.New().String(),
		Name:         rf.Name,
		Size:         rf.Size,
		MimeType:     rf.MimeType,
		LastModified: rf.LastModified,
		Status:       models.FileStatusPending,
		Data:         rf.Data,
	}

	res := m.validator.Check(rf.MimeType, rf.Size)

	p, err := preview.Generate(rf.MimeType, rf.Data)
	rec.Preview = p

	switch {
	case !res.Valid:
		rec.Status = models.FileStatusError
		rec.Error = res.Error
	case err != nil:
		rec.Status = models.FileStatusError
		rec.Error = "Unable to read file content"
	}
	return rec
}

// List returns a snapshot of the tracked list in arrival order.
func (m *Manager) List() []*models.TrackedFile {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]*models.TrackedFile, len(m.files))
	for i, f := range m.files {
		out[i] = f.Clone()
	}
	return out
}

// Get returns a snapshot of one record.
func (m *Manager) Get(id string) (*models.TrackedFile, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, f := range m.files {
		if f.ID == id {
			return f.Clone(), true
		}
	}
	return nil, false
}

// Pending returns snapshots of the records eligible for upload, in order.
func (m *Manager) Pending() []*models.TrackedFile {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []*models.TrackedFile
	for _, f := range m.files {
		if f.Status == models.FileStatusPending {
			out = append(out, f.Clone())
		}
	}
	return out
}

// Remove deletes exactly one record by id, leaving the relative order of the
// others unchanged. It reports whether the record existed.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	removed := false
	for i, f := range m.files {
		if f.ID == id {
			m.files = append(m.files[:i], m.files[i+1:]...)
			removed = true
			break
		}
	}
	m.mu.Unlock()

	if removed {
		m.notifier.Success("File removed")
	}
	return removed
}

// Clear empties the tracked list regardless of prior statuses.
func (m *Manager) Clear() {
	m.mu.Lock()
	m.files = nil
	m.mu.Unlock()

	m.notifier.Success("All files cleared")
}

// Count returns the number of tracked records.
func (m *Manager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.files)
}

// update replaces the record with the given id using fn applied to a clone.
func (m *Manager) update(id string, fn func(*models.TrackedFile)) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, f := range m.files {
		if f.ID == id {
			next := f.Clone()
			fn(next)
			m.files[i] = next
			return true
		}
	}
	return false
}

// SetUploading transitions a record to uploading with progress reset.
// Records already in a terminal state stay where they are.
func (m *Manager) SetUploading(id string) bool {
	return m.update(id, func(f *models.TrackedFile) {
		if f.Status.Terminal() {
			return
		}
		f.Status = models.FileStatusUploading
		f.UploadProgress = 0
	})
}

// SetProgress advances upload progress. Progress never moves backwards while
// a file is uploading.
func (m *Manager) SetProgress(id string, progress int) bool {
	return m.update(id, func(f *models.TrackedFile) {
		if f.Status == models.FileStatusUploading && progress > f.UploadProgress {
			f.UploadProgress = progress
		}
	})
}

// SetCompleted marks a record as successfully uploaded.
func (m *Manager) SetCompleted(id string) bool {
	return m.update(id, func(f *models.TrackedFile) {
		f.Status = models.FileStatusCompleted
		f.UploadProgress = 100
		f.Error = ""
	})
}

// SetError marks a record as failed with the given message.
func (m *Manager) SetError(id string, msg string) bool {
	return m.update(id, func(f *models.TrackedFile) {
		f.Status = models.FileStatusError
		f.UploadProgress = 0
		f.Error = msg
	})
}
