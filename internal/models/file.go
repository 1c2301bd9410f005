package models

import "time"

// FileStatus represents the upload state of a tracked file.
type FileStatus string

const (
	FileStatusPending   FileStatus = "pending"
	FileStatusUploading FileStatus = "uploading"
	FileStatusCompleted FileStatus = "completed"
	FileStatusError     FileStatus = "error"
)

// Terminal reports whether no further automatic transition occurs from s.
func (s FileStatus) Terminal() bool {
	return s == FileStatusCompleted || s == FileStatusError
}

// TrackedFile represents one user-selected file under management, from
// selection through terminal upload outcome.
type TrackedFile struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	Size           int64      `json:"size"`
	MimeType       string     `json:"mimeType"`
	LastModified   int64      `json:"lastModified"` // Unix ms
	UploadProgress int        `json:"uploadProgress"`
	Status         FileStatus `json:"status"`
	Error          string     `json:"error,omitempty"`
	Preview        string     `json:"preview,omitempty"` // data URL, images only

	// Data holds the raw file content between intake and upload.
	// Never serialized.
	Data []byte `json:"-" msgpack:"-"`
}

// Clone returns a copy of the file sharing the underlying content bytes.
// Mutations to the tracked list are whole-record replacements, so readers
// always observe a consistent record.
func (f *TrackedFile) Clone() *TrackedFile {
	c := *f
	return &c
}

// StoredFile is the record shape at the persistence-store boundary: a
// snapshot of a successfully uploaded file. It carries no content bytes.
type StoredFile struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Size         int64     `json:"size"`
	MimeType     string    `json:"mimeType"`
	LastModified int64     `json:"lastModified"`
	Preview      string    `json:"preview,omitempty"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// NewStoredFile builds the stored snapshot for a tracked file.
func NewStoredFile(f *TrackedFile, uploadedAt time.Time) *StoredFile {
	return &StoredFile{
		ID:           f.ID,
		Name:         f.Name,
		Size:         f.Size,
		MimeType:     f.MimeType,
		LastModified: f.LastModified,
		Preview:      f.Preview,
		UploadedAt:   uploadedAt,
	}
}
