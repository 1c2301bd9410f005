package main

import (
	"flag"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/fileflow/backend/internal/api"
	"github.com/fileflow/backend/internal/config"
	"github.com/fileflow/backend/internal/filestore"
	"github.com/fileflow/backend/internal/intake"
	"github.com/fileflow/backend/internal/logging"
	"github.com/fileflow/backend/internal/notify"
	"github.com/fileflow/backend/internal/sessionstore"
	"github.com/fileflow/backend/internal/uploader"
	"github.com/fileflow/backend/internal/validate"
)

// Version info (set during build)
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	configPath := flag.String("config", "fileflow.yaml", "path to YAML configuration")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.DefaultLogger.Fatal("failed to load configuration", "err", err)
	}

	logging.Init(cfg.LogLevel)
	logger := logging.DefaultLogger

	// Notification hub feeding the UI over WebSocket.
	hub := notify.NewHub()
	notifier := notify.NewService(hub, logger)

	validator := validate.New(cfg.Upload.AcceptedTypes, cfg.Upload.MaxFileSize)
	files := intake.NewManager(validator, notifier, logger)

	// Store backends: in-memory by default, remote record API when configured.
	var (
		records  filestore.Store
		sessions sessionstore.Store
	)
	if cfg.Remote.Enabled {
		records = filestore.NewRemoteStore(cfg.Remote.BaseURL, cfg.Remote.ProjectID, cfg.Remote.APIKey, cfg.RemoteTimeout())
		sessions = sessionstore.NewRemoteStore(cfg.Remote.BaseURL, cfg.Remote.ProjectID, cfg.Remote.APIKey, cfg.RemoteTimeout())
		logger.Info("using remote record store", "baseUrl", cfg.Remote.BaseURL)
	} else {
		records = filestore.NewMemoryStore(cfg.StoreLatency())
		sessions = sessionstore.NewMemoryStore(cfg.StoreLatency())
		logger.Info("using in-memory stores")
	}

	var archive *sessionstore.Archive
	if cfg.Sessions.ArchiveEnabled {
		archive, err = sessionstore.NewArchive(cfg.Sessions.ArchivePath)
		if err != nil {
			logger.Warn("session archive unavailable", "path", cfg.Sessions.ArchivePath, "err", err)
		} else {
			defer archive.Close()
		}
	}

	uploads := uploader.New(files, records, sessions, archive, notifier, logger, cfg.ProgressTick())

	h := api.NewHandler(api.Dependencies{
		Files:     files,
		Uploads:   uploads,
		Records:   records,
		Sessions:  sessions,
		Archive:   archive,
		Validator: validator,
		Log:       logger,
		Version:   Version,
	})
	ws := api.NewWebSocketHandler(hub)

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = api.ErrorHandler

	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Skipper: func(c echo.Context) bool {
			path := c.Request().URL.Path
			return path == "/api/health" || strings.HasSuffix(path, "/stats")
		},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 1024 * 4,
	}))
	e.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	if cfg.Server.EnableCORS {
		origins := strings.Split(cfg.Server.AllowOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		if len(origins) == 0 || (len(origins) == 1 && origins[0] == "") {
			origins = []string{"*"}
		}
		e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
		}))
	}

	api.RegisterRoutes(e, h, ws)

	s := &http.Server{
		Addr:         cfg.Addr(),
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	logger.Info("fileflow server starting",
		"version", Version,
		"buildTime", BuildTime,
		"addr", cfg.Addr(),
		"maxFileSize", cfg.Upload.MaxFileSize,
	)

	if err := e.StartServer(s); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server exited", "err", err)
	}
}
