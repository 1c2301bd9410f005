package filestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fileflow/backend/internal/models"
)

// fileRecord is the wire shape of a stored file at the remote record API.
// The translation to and from the in-memory StoredFile is isolated here.
type fileRecord struct {
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Size         int64  `json:"size"`
	Type         string `json:"type"`
	LastModified int64  `json:"last_modified"`
	Preview      string `json:"preview,omitempty"`
	UploadedAt   int64  `json:"uploaded_at"` // Unix ms
}

func (r *fileRecord) toModel() *models.StoredFile {
	return &models.StoredFile{
		ID:           r.ID,
		Name:         r.Name,
		Size:         r.Size,
		MimeType:     r.Type,
		LastModified: r.LastModified,
		Preview:      r.Preview,
		UploadedAt:   time.UnixMilli(r.UploadedAt),
	}
}

// RemoteStore persists file records through a hosted record API. Credentials
// are supplied externally; the client never probes the environment.
type RemoteStore struct {
	baseURL   string
	projectID string
	apiKey    string
	client    *http.Client
}

// NewRemoteStore creates a client for the hosted record API.
func NewRemoteStore(baseURL, projectID, apiKey string, timeout time.Duration) *RemoteStore {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &RemoteStore{
		baseURL:   baseURL,
		projectID: projectID,
		apiKey:    apiKey,
		client:    &http.Client{Timeout: timeout},
	}
}

func (s *RemoteStore) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Project-Id", s.projectID)
	req.Header.Set("Authorization", "Bearer "+s.apiKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("calling record API: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode >= 400:
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("record API %s %s: status %d: %s", method, path, resp.StatusCode, msg)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// RecordUpload persists a snapshot of the tracked file remotely.
func (s *RemoteStore) RecordUpload(ctx context.Context, f *models.TrackedFile) (*models.StoredFile, error) {
	req := &fileRecord{
		ID:           f.ID,
		Name:         f.Name,
		Size:         f.Size,
		Type:         f.MimeType,
		LastModified: f.LastModified,
		Preview:      f.Preview,
		UploadedAt:   time.Now().UnixMilli(),
	}
	var rec fileRecord
	if err := s.do(ctx, http.MethodPost, "/files", req, &rec); err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

// List returns all stored records.
func (s *RemoteStore) List(ctx context.Context) ([]*models.StoredFile, error) {
	var recs []fileRecord
	if err := s.do(ctx, http.MethodGet, "/files", nil, &recs); err != nil {
		return nil, err
	}
	out := make([]*models.StoredFile, len(recs))
	for i := range recs {
		out[i] = recs[i].toModel()
	}
	return out, nil
}

// Get returns one record by id.
func (s *RemoteStore) Get(ctx context.Context, id string) (*models.StoredFile, error) {
	var rec fileRecord
	if err := s.do(ctx, http.MethodGet, "/files/"+id, nil, &rec); err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

// Delete removes one record by id.
func (s *RemoteStore) Delete(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/files/"+id, nil, nil)
}

// Clear removes every stored record.
func (s *RemoteStore) Clear(ctx context.Context) error {
	return s.do(ctx, http.MethodDelete, "/files", nil, nil)
}

var _ Store = (*RemoteStore)(nil)
