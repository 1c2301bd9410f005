// handlers_health.go - Health check
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

var startTime = time.Now()

// HandleHealth reports service liveness and basic runtime info.
func (h *Handler) HandleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":        "ok",
		"version":       h.version,
		"uptimeSeconds": int(time.Since(startTime).Seconds()),
		"trackedFiles":  h.files.Count(),
		"isUploading":   h.uploads.IsUploading(),
	})
}
