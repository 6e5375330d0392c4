package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-linkora/identity"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "linkora.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "localhost:7070", cfg.Endpoint)
	assert.Equal(t, zerolog.WarnLevel, cfg.Level())

	caller, err := cfg.CallerID()
	require.NoError(t, err)
	assert.True(t, caller.IsZero())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
endpoint: linkora.example.org:443
caller: AAAAA-AA
log_level: debug
timeout: 3s
cache:
  capacity: 500
  num_shards: 8
  ttl: 1h
  eviction_percentage: 20
breaker:
  max_failures: 2
  open_timeout: 5s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "linkora.example.org:443", cfg.Endpoint)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 500, cfg.Cache.Capacity)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)
	assert.Equal(t, uint32(2), cfg.Breaker.MaxFailures)
	assert.Equal(t, zerolog.DebugLevel, cfg.Level())

	caller, err := cfg.CallerID()
	require.NoError(t, err)
	assert.True(t, caller.Equal(identity.MustParse("aaaaa-aa")))

	remote := cfg.Remote()
	assert.Equal(t, cfg.Endpoint, remote.Endpoint)
	assert.Equal(t, 5*time.Second, remote.Breaker.OpenTimeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "endpoint: from-file:1\naccess_token: file-token\n")
	t.Setenv(EnvEndpoint, "from-env:2")
	t.Setenv(EnvToken, "env-token")
	t.Setenv(EnvCaller, "bbbbb-bb")
	t.Setenv(EnvLogLevel, "error")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env:2", cfg.Endpoint)
	assert.Equal(t, "env-token", cfg.AccessToken)
	assert.Equal(t, "bbbbb-bb", cfg.Caller)
	assert.Equal(t, zerolog.ErrorLevel, cfg.Level())
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "endpoint: [unterminated"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "cache:\n  capacity: -1\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(*Config)
		field string
	}{
		{"empty endpoint", func(c *Config) { c.Endpoint = "" }, "Endpoint"},
		{"bad log level", func(c *Config) { c.LogLevel = "loud" }, "LogLevel"},
		{"negative timeout", func(c *Config) { c.Timeout = -time.Second }, "Timeout"},
		{"malformed caller", func(c *Config) { c.Caller = "not an id!" }, "Caller"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mod(&cfg)

			err := cfg.Validate()
			var fields validation.Errors
			require.ErrorAs(t, err, &fields)
			assert.Contains(t, fields, tt.field)
		})
	}
}
