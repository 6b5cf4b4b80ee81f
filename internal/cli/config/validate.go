package config

import (
	"fmt"
	"net/url"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return fmt.Errorf("backend_url is required")
	}
	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("backend_url must be a valid http(s) URL, got %q", c.BackendURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("backend_url scheme must be http or https, got %q", u.Scheme)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("timeout_seconds must be positive, got %d", c.TimeoutSeconds)
	}
	if c.QueryTimeoutSeconds <= 0 {
		return fmt.Errorf("query_timeout_seconds must be positive, got %d", c.QueryTimeoutSeconds)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page_size must be positive, got %d", c.PageSize)
	}
	switch c.OutputFormat {
	case "", "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("output must be one of auto, text, markdown, json; got %q", c.OutputFormat)
	}
	return nil
}
