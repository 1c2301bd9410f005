package models

import "time"

// SessionStatus represents the status of an upload session.
type SessionStatus string

const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

// UploadSession summarizes one batch-upload attempt. TotalFiles and TotalSize
// are a snapshot taken at creation; a session holds no live references to
// individual tracked files. Once completed it is terminal.
type UploadSession struct {
	ID            string        `json:"id"`
	TotalFiles    int           `json:"totalFiles"`
	TotalSize     int64         `json:"totalSize"`
	UploadedFiles int           `json:"uploadedFiles"`
	StartTime     time.Time     `json:"startTime"`
	EndTime       *time.Time    `json:"endTime,omitempty"`
	Status        SessionStatus `json:"status"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     *time.Time    `json:"updatedAt,omitempty"`
}

// NewUploadSession creates an active session with the given scope snapshot.
func NewUploadSession(id string, totalFiles int, totalSize int64, startTime time.Time) *UploadSession {
	return &UploadSession{
		ID:         id,
		TotalFiles: totalFiles,
		TotalSize:  totalSize,
		StartTime:  startTime,
		Status:     SessionStatusActive,
		CreatedAt:  time.Now(),
	}
}

// Clone returns a copy of the session.
func (s *UploadSession) Clone() *UploadSession {
	c := *s
	if s.EndTime != nil {
		t := *s.EndTime
		c.EndTime = &t
	}
	if s.UpdatedAt != nil {
		t := *s.UpdatedAt
		c.UpdatedAt = &t
	}
	return &c
}
