// handlers_upload.go - Upload trigger and stored-record operations
package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fileflow/backend/internal/filestore"
	"github.com/fileflow/backend/internal/uploader"
)

// HandleStartUpload kicks off an upload batch for all pending files. The
// batch runs in the background; progress is observable through the file list
// and the notification feed.
func (h *Handler) HandleStartUpload(c echo.Context) error {
	if h.uploads.IsUploading() {
		return NewConflictError("an upload is already in progress")
	}

	go func() {
		// The batch is never aborted mid-flight; see the orchestrator.
		if err := h.uploads.Upload(context.Background()); err != nil {
			if errors.Is(err, uploader.ErrBusy) {
				return
			}
			h.log.Error("upload batch failed", "err", err)
		}
	}()

	return c.JSON(http.StatusAccepted, map[string]any{
		"status": "started",
	})
}

// HandleListRecords returns all stored upload records.
func (h *Handler) HandleListRecords(c echo.Context) error {
	records, err := h.records.List(c.Request().Context())
	if err != nil {
		return NewInternalError("failed to list records", err)
	}
	return c.JSON(http.StatusOK, records)
}

// HandleGetRecord returns one stored upload record.
func (h *Handler) HandleGetRecord(c echo.Context) error {
	id := c.Param("id")
	rec, err := h.records.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			return NewNotFoundError("record", id)
		}
		return NewInternalError("failed to get record", err)
	}
	return c.JSON(http.StatusOK, rec)
}

// HandleDeleteRecord removes one stored upload record.
func (h *Handler) HandleDeleteRecord(c echo.Context) error {
	id := c.Param("id")
	if err := h.records.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, filestore.ErrNotFound) {
			return NewNotFoundError("record", id)
		}
		return NewInternalError("failed to delete record", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleClearRecords removes every stored upload record.
func (h *Handler) HandleClearRecords(c echo.Context) error {
	if err := h.records.Clear(c.Request().Context()); err != nil {
		return NewInternalError("failed to clear records", err)
	}
	return c.NoContent(http.StatusNoContent)
}
