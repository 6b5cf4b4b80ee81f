// Package config provides configuration management for the WealthLens CLI.
//
// Configuration is layered with koanf. Precedence, highest to lowest:
// command-line flags, WEALTHLENS_ environment variables, a
// wealthlens.yaml file, built-in defaults.
package config

import "github.com/google/uuid"

// Config holds all CLI configuration options.
type Config struct {
	BackendURL          string `koanf:"backend_url"`
	UserID              string `koanf:"user_id"`
	TimeoutSeconds      int    `koanf:"timeout_seconds"`
	QueryTimeoutSeconds int    `koanf:"query_timeout_seconds"`
	PageSize            int    `koanf:"page_size"`
	HistoryFile         string `koanf:"history_file"`
	OutputFormat        string `koanf:"output"`
	Verbose             bool   `koanf:"verbose"`
}

// Default configuration values.
const (
	DefaultBackendURL          = "http://localhost:8000"
	DefaultUserID              = "default_user"
	DefaultTimeoutSeconds      = 30
	DefaultQueryTimeoutSeconds = 60
	DefaultPageSize            = 10
	DefaultHistoryFile         = ".wealthlens/history"
	DefaultOutput              = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// ResolveUserID returns the effective user identifier. The sentinel
// "anonymous" is replaced with a random per-session identity so the
// backend can still distinguish concurrent sessions.
func (c *Config) ResolveUserID() string {
	if c.UserID == "anonymous" {
		return "anon-" + uuid.NewString()
	}
	return c.UserID
}
