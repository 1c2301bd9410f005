// handlers.go - Handler wiring and shared request/response types
package api

import (
	"github.com/charmbracelet/log"

	"github.com/fileflow/backend/internal/filestore"
	"github.com/fileflow/backend/internal/intake"
	"github.com/fileflow/backend/internal/sessionstore"
	"github.com/fileflow/backend/internal/uploader"
	"github.com/fileflow/backend/internal/validate"
)

// Handler carries the dependencies shared by all endpoint handlers.
type Handler struct {
	files     *intake.Manager
	uploads   *uploader.Orchestrator
	records   filestore.Store
	sessions  sessionstore.Store
	archive   *sessionstore.Archive
	validator *validate.Validator
	log       *log.Logger
	version   string
}

// Dependencies holds everything a Handler needs.
type Dependencies struct {
	Files     *intake.Manager
	Uploads   *uploader.Orchestrator
	Records   filestore.Store
	Sessions  sessionstore.Store
	Archive   *sessionstore.Archive // optional
	Validator *validate.Validator
	Log       *log.Logger
	Version   string
}

// NewHandler creates the API handler.
func NewHandler(deps Dependencies) *Handler {
	return &Handler{
		files:     deps.Files,
		uploads:   deps.Uploads,
		records:   deps.Records,
		sessions:  deps.Sessions,
		archive:   deps.Archive,
		validator: deps.Validator,
		log:       deps.Log,
		version:   deps.Version,
	}
}

// intakeFileRequest is one raw file in an intake batch. Data is the base64
// encoded content.
type intakeFileRequest struct {
	Name         string `json:"name"`
	Type         string `json:"type"`
	LastModified int64  `json:"lastModified"`
	Data         string `json:"data"`
}

// intakeRequest carries a batch of selected or dropped files.
type intakeRequest struct {
	Files []intakeFileRequest `json:"files"`
}

func (r *intakeRequest) validate() error {
	if len(r.Files) == 0 {
		return NewValidationError("files")
	}
	for _, f := range r.Files {
		if f.Name == "" {
			return NewValidationError("name")
		}
		if f.Type == "" {
			return NewValidationError("type")
		}
	}
	return nil
}
