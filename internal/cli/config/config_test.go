package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultBackendURL, cfg.BackendURL)
	assert.Equal(t, DefaultUserID, cfg.UserID)
	assert.Equal(t, DefaultTimeoutSeconds, cfg.TimeoutSeconds)
	assert.Equal(t, DefaultQueryTimeoutSeconds, cfg.QueryTimeoutSeconds)
	assert.Equal(t, DefaultPageSize, cfg.PageSize)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.False(t, cfg.Verbose)
	assert.Empty(t, GetConfigFileUsed())
}

func TestLoadConfigFromFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)

	content := `backend_url: http://backend.internal:9000
user_id: analyst_7
page_size: 25
verbose: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wealthlens.yaml"), []byte(content), 0644))

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "http://backend.internal:9000", cfg.BackendURL)
	assert.Equal(t, "analyst_7", cfg.UserID)
	assert.Equal(t, 25, cfg.PageSize)
	assert.True(t, cfg.Verbose)
	// Unset keys keep their defaults
	assert.Equal(t, DefaultTimeoutSeconds, cfg.TimeoutSeconds)
	assert.Equal(t, filepath.Join(dir, "wealthlens.yaml"), GetConfigFileUsed())
}

func TestLoadConfigFindsFileInParentDir(t *testing.T) {
	ResetConfig()
	parent := t.TempDir()
	child := filepath.Join(parent, "reports", "q3")
	require.NoError(t, os.MkdirAll(child, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "wealthlens.yml"),
		[]byte("user_id: from_parent\n"), 0644))
	t.Chdir(child)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "from_parent", cfg.UserID)
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "wealthlens.yaml"),
		[]byte("backend_url: http://from-file:8000\npage_size: 25\n"), 0644))
	t.Setenv("WEALTHLENS_BACKEND_URL", "http://from-env:8000")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "http://from-env:8000", cfg.BackendURL)
	assert.Equal(t, 25, cfg.PageSize, "file value survives for keys env does not set")
}

func TestLoadConfigFlagsOverrideEverything(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())
	t.Setenv("WEALTHLENS_BACKEND_URL", "http://from-env:8000")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("backend", "", "")
	flags.String("user", "", "")
	flags.Int("page-size", 0, "")
	require.NoError(t, flags.Parse([]string{
		"--backend=http://from-flag:8000",
		"--user=flag_user",
		"--page-size=5",
	}))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, "http://from-flag:8000", cfg.BackendURL)
	assert.Equal(t, "flag_user", cfg.UserID)
	assert.Equal(t, 5, cfg.PageSize)
}

func TestLoadConfigIgnoresUnchangedFlags(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("backend", "http://flag-default:1234", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := LoadConfig("", flags)
	require.NoError(t, err)

	assert.Equal(t, DefaultBackendURL, cfg.BackendURL,
		"flag defaults must not override config defaults")
}

func TestLoadConfigExplicitFile(t *testing.T) {
	ResetConfig()
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("user_id: custom\n"), 0644))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "custom", cfg.UserID)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			BackendURL:          "http://localhost:8000",
			UserID:              "u",
			TimeoutSeconds:      30,
			QueryTimeoutSeconds: 60,
			PageSize:            10,
			OutputFormat:        "auto",
		}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		errSubstr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty backend url", mutate: func(c *Config) { c.BackendURL = "" }, errSubstr: "backend_url is required"},
		{name: "not a url", mutate: func(c *Config) { c.BackendURL = "not a url" }, errSubstr: "valid http(s) URL"},
		{name: "bad scheme", mutate: func(c *Config) { c.BackendURL = "ftp://host:21" }, errSubstr: "scheme must be http or https"},
		{name: "zero timeout", mutate: func(c *Config) { c.TimeoutSeconds = 0 }, errSubstr: "timeout_seconds"},
		{name: "negative query timeout", mutate: func(c *Config) { c.QueryTimeoutSeconds = -1 }, errSubstr: "query_timeout_seconds"},
		{name: "zero page size", mutate: func(c *Config) { c.PageSize = 0 }, errSubstr: "page_size"},
		{name: "bad output", mutate: func(c *Config) { c.OutputFormat = "xml" }, errSubstr: "output must be one of"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errSubstr)
			}
		})
	}
}

func TestResolveUserID(t *testing.T) {
	cfg := Config{UserID: "analyst_7"}
	assert.Equal(t, "analyst_7", cfg.ResolveUserID())

	cfg.UserID = "anonymous"
	first := cfg.ResolveUserID()
	second := cfg.ResolveUserID()
	assert.True(t, strings.HasPrefix(first, "anon-"))
	assert.NotEqual(t, first, second, "anonymous identities are per-call random")
}
