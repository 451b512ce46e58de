// Quizfinder Web
// Copyright (c) 2026 The Quizfinder Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Quizfinder Web.
//
// Quizfinder Web is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Quizfinder Web is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Quizfinder Web.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	apimiddleware "github.com/quizfinder/quizfinder-web/pkg/api/middleware"
	"github.com/quizfinder/quizfinder-web/pkg/database/venuedb"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), CfgFile)
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o600))
	return cfgPath
}

func loadInstance(t *testing.T, content string) (*Instance, error) {
	t.Helper()
	cfg := &Instance{
		cfgPath:  writeConfig(t, content),
		vals:     BaseDefaults,
		defaults: BaseDefaults,
	}
	return cfg, cfg.Load()
}

func TestNewConfig_WritesDefaults(t *testing.T) {
	// t.Setenv is incompatible with t.Parallel
	t.Setenv(CfgEnv, "")

	configDir := filepath.Join(t.TempDir(), "nested")
	cfg, err := NewConfig(configDir, BaseDefaults)
	require.NoError(t, err)

	cfgPath := filepath.Join(configDir, CfgFile)
	assert.Equal(t, cfgPath, cfg.Path())
	assert.FileExists(t, cfgPath)

	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "config_schema = 1")
	assert.Contains(t, string(data), "listen_addr")
	assert.Contains(t, string(data), DefaultListenAddr)

	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr())
	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout())
	assert.Equal(t, filepath.Join(configDir, CatalogFile), cfg.CatalogPath())
}

func TestNewConfig_EnvPath(t *testing.T) {
	cfgPath := writeConfig(t, fmt.Sprintf("config_schema = %d\n[server]\nlisten_addr = '127.0.0.1:9000'\n", SchemaVersion))
	t.Setenv(CfgEnv, cfgPath)

	cfg, err := NewConfig(t.TempDir(), BaseDefaults)
	require.NoError(t, err)
	assert.Equal(t, cfgPath, cfg.Path())
	assert.Equal(t, "127.0.0.1:9000", cfg.ListenAddr())
}

func TestLoad_PreservesDefaultsForMissingFields(t *testing.T) {
	t.Parallel()

	cfg, err := loadInstance(t, fmt.Sprintf("config_schema = %d\n", SchemaVersion))
	require.NoError(t, err)

	assert.Equal(t, DefaultListenAddr, cfg.ListenAddr())
	perMinute, burst := cfg.RateLimit()
	assert.Equal(t, DefaultRateLimitPerMinute, perMinute)
	assert.Equal(t, DefaultRateLimitBurst, burst)
	failures, timeout := cfg.CatalogBreaker()
	assert.Equal(t, uint32(DefaultBreakerFailures), failures)
	assert.Equal(t, DefaultBreakerTimeout, timeout)
	ttl, cleanup := cfg.MatchCache()
	assert.Equal(t, DefaultCacheTTL, ttl)
	assert.Equal(t, DefaultCacheCleanup, cleanup)
	assert.Equal(t, "production", cfg.TelemetryEnvironment())
	assert.False(t, cfg.ErrorReporting())
	assert.False(t, cfg.TrustProxyHeaders())
}

func TestDefaults_MatchComponentDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := loadInstance(t, fmt.Sprintf("config_schema = %d\n", SchemaVersion))
	require.NoError(t, err)

	assert.Equal(t, venuedb.DefaultQueryTimeout, cfg.CatalogQueryTimeout())
	failures, timeout := cfg.CatalogBreaker()
	assert.Equal(t, uint32(venuedb.DefaultBreakerFailures), failures)
	assert.Equal(t, venuedb.DefaultBreakerTimeout, timeout)
	perMinute, burst := cfg.RateLimit()
	assert.Equal(t, apimiddleware.DefaultRequestsPerMinute, perMinute)
	assert.Equal(t, apimiddleware.DefaultBurstSize, burst)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := loadInstance(t, fmt.Sprintf(`config_schema = %d
debug_logging = true
error_reporting = true

[server]
listen_addr = '0.0.0.0:8081'
request_timeout = '5s'
allowed_origins = ['https://quizfinder.example']
rate_limit_per_minute = 0
rate_limit_burst = 0
trust_proxy_headers = true

[catalog]
path = '/var/lib/quizfinder/catalog.db'
query_timeout = '500ms'
breaker_failures = 3
breaker_timeout = '1m'

[matcher]
cache_ttl = '1h'
cache_cleanup = '2h'

[telemetry]
dsn = 'https://key@sentry.example/1'
environment = 'staging'
`, SchemaVersion))
	require.NoError(t, err)

	assert.True(t, cfg.DebugLogging())
	assert.True(t, cfg.ErrorReporting())
	assert.Equal(t, "0.0.0.0:8081", cfg.ListenAddr())
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout())
	assert.Equal(t, []string{"https://quizfinder.example"}, cfg.AllowedOrigins())
	perMinute, burst := cfg.RateLimit()
	assert.Zero(t, perMinute)
	assert.Zero(t, burst)
	assert.True(t, cfg.TrustProxyHeaders())
	assert.Equal(t, "/var/lib/quizfinder/catalog.db", cfg.CatalogPath())
	assert.Equal(t, 500*time.Millisecond, cfg.CatalogQueryTimeout())
	failures, timeout := cfg.CatalogBreaker()
	assert.Equal(t, uint32(3), failures)
	assert.Equal(t, time.Minute, timeout)
	ttl, cleanup := cfg.MatchCache()
	assert.Equal(t, time.Hour, ttl)
	assert.Equal(t, 2*time.Hour, cleanup)
	assert.Equal(t, "https://key@sentry.example/1", cfg.TelemetryDSN())
	assert.Equal(t, "staging", cfg.TelemetryEnvironment())
}

func TestLoad_SchemaMismatch(t *testing.T) {
	t.Parallel()

	_, err := loadInstance(t, "config_schema = 99\n")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema version mismatch")
}

func TestLoad_MalformedTOML(t *testing.T) {
	t.Parallel()

	_, err := loadInstance(t, "config_schema = \n[server")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to unmarshal config")
}

func TestLoad_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		field   string
	}{
		{
			name:    "bad duration",
			content: "[server]\nrequest_timeout = 'soon'\n",
			field:   "RequestTimeout",
		},
		{
			name:    "negative duration",
			content: "[matcher]\ncache_ttl = '-5m'\n",
			field:   "CacheTTL",
		},
		{
			name:    "listen addr without port",
			content: "[server]\nlisten_addr = 'localhost'\n",
			field:   "ListenAddr",
		},
		{
			name:    "negative rate limit",
			content: "[server]\nrate_limit_per_minute = -1\n",
			field:   "RateLimitPerMinute",
		},
		{
			name:    "zero breaker failures",
			content: "[catalog]\nbreaker_failures = 0\n",
			field:   "BreakerFailures",
		},
		{
			name:    "empty catalog path",
			content: "[catalog]\npath = ''\n",
			field:   "Path",
		},
		{
			name:    "bad dsn",
			content: "[telemetry]\ndsn = 'not a url'\n",
			field:   "DSN",
		},
		{
			name:    "empty origin",
			content: "[server]\nallowed_origins = ['']\n",
			field:   "AllowedOrigins",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			content := fmt.Sprintf("config_schema = %d\n%s", SchemaVersion, tt.content)
			cfg, err := loadInstance(t, content)
			require.ErrorIs(t, err, ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.field)

			// rejected values never replace the current ones
			assert.Equal(t, BaseDefaults.Server, cfg.vals.Server)
		})
	}
}

func TestLoad_NoPath(t *testing.T) {
	t.Parallel()

	cfg := &Instance{}
	require.Error(t, cfg.Load())
	require.Error(t, cfg.Save())
}

func TestSave_RoundTrip(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), CfgFile)
	cfg := &Instance{cfgPath: cfgPath, vals: BaseDefaults, defaults: BaseDefaults}
	cfg.SetListenAddr("127.0.0.1:7000")
	cfg.vals.ConfigSchema = 0
	require.NoError(t, cfg.Save())

	reloaded := &Instance{cfgPath: cfgPath, vals: BaseDefaults, defaults: BaseDefaults}
	require.NoError(t, reloaded.Load())
	assert.Equal(t, "127.0.0.1:7000", reloaded.ListenAddr())
	assert.Equal(t, SchemaVersion, reloaded.vals.ConfigSchema)
}

func TestCatalogPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfgPath string
		path    string
		want    string
	}{
		{name: "relative", cfgPath: "/etc/quizfinder/config.toml", path: "data/catalog.db", want: "/etc/quizfinder/data/catalog.db"},
		{name: "absolute", cfgPath: "/etc/quizfinder/config.toml", path: "/srv/catalog.db", want: "/srv/catalog.db"},
		{name: "empty", cfgPath: "/etc/quizfinder/config.toml", path: "", want: "/etc/quizfinder/catalog.db"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := &Instance{cfgPath: tt.cfgPath}
			cfg.vals.Catalog.Path = tt.path
			assert.Equal(t, tt.want, cfg.CatalogPath())
		})
	}
}

func TestDurationGetters_FallBackOnBadValues(t *testing.T) {
	t.Parallel()

	cfg := &Instance{}
	cfg.vals.Server.RequestTimeout = "whenever"
	cfg.vals.Catalog.QueryTimeout = ""

	assert.Equal(t, DefaultRequestTimeout, cfg.RequestTimeout())
	assert.Equal(t, DefaultQueryTimeout, cfg.CatalogQueryTimeout())
}

//nolint:paralleltest // modifies the global zerolog level
func TestSetDebugLogging(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(prev)
	})

	cfg := &Instance{}

	cfg.SetDebugLogging(true)
	assert.True(t, cfg.DebugLogging())
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	cfg.SetDebugLogging(false)
	assert.False(t, cfg.DebugLogging())
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
