package sessionstore

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

// sessionRecord is the wire shape of an upload session at the remote record
// API. Translation to the in-memory UploadSession is isolated here.
type sessionRecord struct {
	ID            string `json:"id,omitempty"`
	TotalFiles    int    `json:"total_files"`
	TotalSize     int64  `json:"total_size"`
	UploadedFiles int    `json:"uploaded_files"`
	StartTime     int64  `json:"start_time"`         // Unix ms
	EndTime       *int64 `json:"end_time,omitempty"` // Unix ms
	Status        string `json:"status"`
	CreatedAt     int64  `json:"created_at"`
	UpdatedAt     *int64 `json:"updated_at,omitempty"`
}

func (r *sessionRecord) toModel() *models.UploadSession {
	sess := &models.UploadSession{
		ID:            r.ID,
		TotalFiles:    r.TotalFiles,
		TotalSize:     r.TotalSize,
		UploadedFiles: r.UploadedFiles,
		StartTime:     time.UnixMilli(r.StartTime),
		Status:        models.SessionStatus(r.Status),
		CreatedAt:     time.UnixMilli(r.CreatedAt),
	}
	if r.EndTime != nil {
		t := time.UnixMilli(*r.EndTime)
		sess.EndTime = &t
	}
	if r.UpdatedAt != nil {
		t := time.UnixMilli(*r.UpdatedAt)
		sess.UpdatedAt = &t
	}
	return sess
}

// RemoteStore persists upload sessions through a hosted record API.
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
	case resp.StatusCode == http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrCompleted, path)
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

// Create opens an active session.
func (s *RemoteStore) Create(ctx context.Context, totalFiles int, totalSize int64, startTime time.Time) (*models.UploadSession, error) {
	req := &sessionRecord{
		TotalFiles: totalFiles,
		TotalSize:  totalSize,
		StartTime:  startTime.UnixMilli(),
		Status:     string(models.SessionStatusActive),
	}
	var rec sessionRecord
	if err := s.do(ctx, http.MethodPost, "/sessions", req, &rec); err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

// Complete finalizes a session exactly once.
func (s *RemoteStore) Complete(ctx context.Context, id string, endTime time.Time, uploadedFiles int) (*models.UploadSession, error) {
	end := endTime.UnixMilli()
	req := &sessionRecord{
		EndTime:       &end,
		UploadedFiles: uploadedFiles,
		Status:        string(models.SessionStatusCompleted),
	}
	var rec sessionRecord
	if err := s.do(ctx, http.MethodPost, "/sessions/"+id+"/complete", req, &rec); err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

// Update adjusts an active session.
func (s *RemoteStore) Update(ctx context.Context, id string, upd Update) (*models.UploadSession, error) {
	body := map[string]any{}
	if upd.UploadedFiles != nil {
		body["uploaded_files"] = *upd.UploadedFiles
	}
	var rec sessionRecord
	if err := s.do(ctx, http.MethodPatch, "/sessions/"+id, body, &rec); err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

// Get returns one session by id.
func (s *RemoteStore) Get(ctx context.Context, id string) (*models.UploadSession, error) {
	var rec sessionRecord
	if err := s.do(ctx, http.MethodGet, "/sessions/"+id, nil, &rec); err != nil {
		return nil, err
	}
	return rec.toModel(), nil
}

// List returns all sessions.
func (s *RemoteStore) List(ctx context.Context) ([]*models.UploadSession, error) {
	var recs []sessionRecord
	if err := s.do(ctx, http.MethodGet, "/sessions", nil, &recs); err != nil {
		return nil, err
	}
	out := make([]*models.UploadSession, len(recs))
	for i := range recs {
		out[i] = recs[i].toModel()
	}
	return out, nil
}

// Active returns sessions that have not completed yet.
func (s *RemoteStore) Active(ctx context.Context) ([]*models.UploadSession, error) {
	var recs []sessionRecord
	if err := s.do(ctx, http.MethodGet, "/sessions?status=active", nil, &recs); err != nil {
		return nil, err
	}
	out := make([]*models.UploadSession, len(recs))
	for i := range recs {
		out[i] = recs[i].toModel()
	}
	return out, nil
}

// Delete removes one session by id.
func (s *RemoteStore) Delete(ctx context.Context, id string) error {
	return s.do(ctx, http.MethodDelete, "/sessions/"+id, nil, nil)
}

var _ Store = (*RemoteStore)(nil)
