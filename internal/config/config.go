// Package config loads the server configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Upload   UploadConfig   `yaml:"upload"`
	Sessions SessionsConfig `yaml:"sessions"`
	Remote   RemoteConfig   `yaml:"remote"`
	LogLevel string         `yaml:"logLevel"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int    `yaml:"port"`
	BindAddress  string `yaml:"bindAddress"`
	EnableCORS   bool   `yaml:"enableCors"`
	AllowOrigins string `yaml:"allowOrigins"`
	ReadTimeout  int    `yaml:"readTimeoutSeconds"`
	WriteTimeout int    `yaml:"writeTimeoutSeconds"`
	IdleTimeout  int    `yaml:"idleTimeoutSeconds"`
	BodyLimit    string `yaml:"bodyLimit"`
}

// UploadConfig contains intake and orchestration settings. AcceptedTypes and
// MaxFileSize are the only externally meaningful validation constants.
type UploadConfig struct {
	AcceptedTypes  []string `yaml:"acceptedTypes"`
	MaxFileSize    int64    `yaml:"maxFileSize"`
	ProgressTickMs int      `yaml:"progressTickMs"`
	StoreLatencyMs int      `yaml:"storeLatencyMs"`
}

// SessionsConfig controls the session archive.
type SessionsConfig struct {
	ArchiveEnabled bool   `yaml:"archiveEnabled"`
	ArchivePath    string `yaml:"archivePath"`
}

// RemoteConfig selects and configures the hosted record API backend. When
// disabled, the in-memory stores are used.
type RemoteConfig struct {
	Enabled        bool   `yaml:"enabled"`
	BaseURL        string `yaml:"baseUrl"`
	ProjectID      string `yaml:"projectId"`
	APIKey         string `yaml:"apiKey"`
	TimeoutSeconds int    `yaml:"timeoutSeconds"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         8090,
			BindAddress:  "127.0.0.1",
			EnableCORS:   true,
			AllowOrigins: "*",
			ReadTimeout:  60,
			WriteTimeout: 60,
			IdleTimeout:  120,
			BodyLimit:    "64M",
		},
		Upload: UploadConfig{
			MaxFileSize:    50 * 1024 * 1024,
			ProgressTickMs: 100,
			StoreLatencyMs: 200,
		},
		Sessions: SessionsConfig{
			ArchiveEnabled: true,
			ArchivePath:    "./data/sessions.duckdb",
		},
		Remote: RemoteConfig{
			TimeoutSeconds: 30,
		},
		LogLevel: "info",
	}
}

// Load reads the YAML config at path, applying defaults for absent fields.
// A missing file is not an error; defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("invalid max file size: %d", c.Upload.MaxFileSize)
	}
	if c.Remote.Enabled {
		if c.Remote.BaseURL == "" {
			return fmt.Errorf("remote store enabled but baseUrl is empty")
		}
		if c.Remote.ProjectID == "" || c.Remote.APIKey == "" {
			return fmt.Errorf("remote store enabled but credentials are missing")
		}
	}
	return nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.BindAddress, c.Server.Port)
}

// ProgressTick returns the pause between simulated progress increments.
func (c *Config) ProgressTick() time.Duration {
	return time.Duration(c.Upload.ProgressTickMs) * time.Millisecond
}

// StoreLatency returns the simulated latency for the in-memory stores.
func (c *Config) StoreLatency() time.Duration {
	return time.Duration(c.Upload.StoreLatencyMs) * time.Millisecond
}

// RemoteTimeout returns the HTTP timeout for the remote record API client.
func (c *Config) RemoteTimeout() time.Duration {
	return time.Duration(c.Remote.TimeoutSeconds) * time.Second
}
