// routes.go - Route registration
package api

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes registers all API routes with the Echo instance.
func RegisterRoutes(e *echo.Echo, h *Handler, ws *WebSocketHandler) {
	apiGroup := e.Group("/api")

	apiGroup.GET("/health", h.HandleHealth)
	apiGroup.GET("/ws/notifications", ws.HandleNotifications)

	// Tracked files (UI intents: select/drop, remove, clear, preview)
	apiGroup.POST("/files", h.HandleIntakeFiles)
	apiGroup.GET("/files", h.HandleListFiles)
	apiGroup.GET("/files/msgpack", h.HandleListFilesMsgpack)
	apiGroup.GET("/files/stats", h.HandleFileStats)
	apiGroup.GET("/files/accepted-types", h.HandleAcceptedTypes)
	apiGroup.GET("/files/:id", h.HandleGetFile)
	apiGroup.DELETE("/files", h.HandleClearFiles)
	apiGroup.DELETE("/files/:id", h.HandleRemoveFile)

	// Upload trigger
	apiGroup.POST("/uploads", h.HandleStartUpload)

	// Stored upload records
	apiGroup.GET("/records", h.HandleListRecords)
	apiGroup.GET("/records/:id", h.HandleGetRecord)
	apiGroup.DELETE("/records", h.HandleClearRecords)
	apiGroup.DELETE("/records/:id", h.HandleDeleteRecord)

	// Upload sessions
	apiGroup.GET("/sessions", h.HandleListSessions)
	apiGroup.GET("/sessions/active", h.HandleActiveSessions)
	apiGroup.GET("/sessions/history", h.HandleSessionHistory)
	apiGroup.GET("/sessions/:id", h.HandleGetSession)
	apiGroup.DELETE("/sessions/:id", h.HandleDeleteSession)
}
