// handlers_files.go - Tracked-file list operations (intake, list, remove)
package api

import (
	"encoding/base64"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/fileflow/backend/internal/intake"
	"github.com/fileflow/backend/internal/stats"
)

// HandleIntakeFiles accepts a batch of selected/dropped files as base64 JSON
// and adds them to the tracked list. Responds with every new record, valid
// and invalid alike; the UI shows both.
func (h *Handler) HandleIntakeFiles(c echo.Context) error {
	var req intakeRequest
	if err := c.Bind(&req); err != nil {
		return NewBadRequestError("invalid JSON body", err)
	}
	if err := req.validate(); err != nil {
		return err
	}

	batch := make([]intake.RawFile, 0, len(req.Files))
	for _, f := range req.Files {
		data, err := base64.StdEncoding.DecodeString(f.Data)
		if err != nil {
			return NewBadRequestError("invalid base64 data for "+f.Name, err)
		}
		batch = append(batch, intake.RawFile{
			Name:         f.Name,
			MimeType:     f.Type,
			Size:         int64(len(data)),
			LastModified: f.LastModified,
			Data:         data,
		})
	}

	created, valid := h.files.Intake(batch)

	return c.JSON(http.StatusCreated, map[string]any{
		"files":    created,
		"accepted": len(valid),
	})
}

// HandleListFiles returns the tracked list in arrival order.
func (h *Handler) HandleListFiles(c echo.Context) error {
	return c.JSON(http.StatusOK, h.files.List())
}

// HandleListFilesMsgpack returns the tracked list msgpack-encoded, for
// clients that prefer the compact binary form.
func (h *Handler) HandleListFilesMsgpack(c echo.Context) error {
	payload, err := msgpack.Marshal(h.files.List())
	if err != nil {
		return NewInternalError("failed to encode file list", err)
	}
	return c.Blob(http.StatusOK, "application/x-msgpack", payload)
}

// HandleFileStats returns the aggregate upload statistics, the records the
// summary covers and the orchestrator's busy flag.
func (h *Handler) HandleFileStats(c echo.Context) error {
	list := h.files.List()
	return c.JSON(http.StatusOK, map[string]any{
		"stats":       stats.Compute(list),
		"files":       stats.Displayable(list),
		"isUploading": h.uploads.IsUploading(),
	})
}

// HandleGetFile returns one tracked record, preview included.
func (h *Handler) HandleGetFile(c echo.Context) error {
	id := c.Param("id")
	f, ok := h.files.Get(id)
	if !ok {
		return NewNotFoundError("file", id)
	}
	return c.JSON(http.StatusOK, f)
}

// HandleRemoveFile removes exactly one tracked record.
func (h *Handler) HandleRemoveFile(c echo.Context) error {
	id := c.Param("id")
	if !h.files.Remove(id) {
		return NewNotFoundError("file", id)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleClearFiles empties the tracked list.
func (h *Handler) HandleClearFiles(c echo.Context) error {
	h.files.Clear()
	return c.NoContent(http.StatusNoContent)
}

// HandleAcceptedTypes reports the MIME allow-list so the UI can set the
// file-picker accept attribute.
func (h *Handler) HandleAcceptedTypes(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"acceptedTypes": h.validator.Accepted(),
	})
}
