// handlers_sessions.go - Upload session operations
package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/fileflow/backend/internal/sessionstore"
)

// HandleListSessions returns all upload sessions, newest first.
func (h *Handler) HandleListSessions(c echo.Context) error {
	sessions, err := h.sessions.List(c.Request().Context())
	if err != nil {
		return NewInternalError("failed to list sessions", err)
	}
	return c.JSON(http.StatusOK, sessions)
}

// HandleActiveSessions returns sessions that have not completed yet.
func (h *Handler) HandleActiveSessions(c echo.Context) error {
	sessions, err := h.sessions.Active(c.Request().Context())
	if err != nil {
		return NewInternalError("failed to list active sessions", err)
	}
	return c.JSON(http.StatusOK, sessions)
}

// HandleGetSession returns one upload session.
func (h *Handler) HandleGetSession(c echo.Context) error {
	id := c.Param("id")
	sess, err := h.sessions.Get(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) {
			return NewNotFoundError("session", id)
		}
		return NewInternalError("failed to get session", err)
	}
	return c.JSON(http.StatusOK, sess)
}

// HandleDeleteSession removes one upload session.
func (h *Handler) HandleDeleteSession(c echo.Context) error {
	id := c.Param("id")
	if err := h.sessions.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, sessionstore.ErrNotFound) {
			return NewNotFoundError("session", id)
		}
		return NewInternalError("failed to delete session", err)
	}
	return c.NoContent(http.StatusNoContent)
}

// HandleSessionHistory returns archived sessions from the durable archive.
func (h *Handler) HandleSessionHistory(c echo.Context) error {
	if h.archive == nil {
		return c.JSON(http.StatusOK, []any{})
	}

	limit := 50
	if raw := c.QueryParam("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return NewBadRequestError("invalid limit", err)
		}
		limit = n
	}

	sessions, err := h.archive.Recent(c.Request().Context(), limit)
	if err != nil {
		return NewInternalError("failed to read session history", err)
	}
	return c.JSON(http.StatusOK, sessions)
}
