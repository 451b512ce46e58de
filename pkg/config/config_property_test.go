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

	"pgregory.net/rapid"
)

// ============================================================================
// Generators
// ============================================================================

func durationGen() *rapid.Generator[time.Duration] {
	return rapid.Custom(func(t *rapid.T) time.Duration {
		n := rapid.Int64Range(0, 10_000).Draw(t, "n")
		unit := rapid.SampledFrom([]time.Duration{
			time.Millisecond, time.Second, time.Minute, time.Hour,
		}).Draw(t, "unit")
		return time.Duration(n) * unit
	})
}

// ============================================================================
// Load Property Tests
// ============================================================================

// TestPropertyDurationsRoundTrip verifies any non-negative duration written
// to the file is what the getters return.
func TestPropertyDurationsRoundTrip(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	rapid.Check(t, func(t *rapid.T) {
		ttl := durationGen().Draw(t, "ttl")
		timeout := durationGen().Draw(t, "timeout")

		content := fmt.Sprintf(
			"config_schema = %d\n[server]\nrequest_timeout = '%s'\n[matcher]\ncache_ttl = '%s'\n",
			SchemaVersion, timeout, ttl,
		)
		cfgPath := filepath.Join(dir, "property.toml")
		if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cfg := &Instance{cfgPath: cfgPath, vals: BaseDefaults, defaults: BaseDefaults}
		if err := cfg.Load(); err != nil {
			t.Fatalf("Load failed for ttl=%s timeout=%s: %v", ttl, timeout, err)
		}

		if got := cfg.RequestTimeout(); got != timeout {
			t.Fatalf("RequestTimeout() = %s, want %s", got, timeout)
		}
		if got, _ := cfg.MatchCache(); got != ttl {
			t.Fatalf("MatchCache() ttl = %s, want %s", got, ttl)
		}
	})
}

// TestPropertyRateLimitNegativeRejected verifies negative rate limits never load.
func TestPropertyRateLimitNegativeRejected(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	rapid.Check(t, func(t *rapid.T) {
		perMinute := rapid.IntRange(-1000, -1).Draw(t, "perMinute")

		content := fmt.Sprintf("config_schema = %d\n[server]\nrate_limit_per_minute = %d\n", SchemaVersion, perMinute)
		cfgPath := filepath.Join(dir, "property.toml")
		if err := os.WriteFile(cfgPath, []byte(content), 0o600); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cfg := &Instance{cfgPath: cfgPath, vals: BaseDefaults, defaults: BaseDefaults}
		if err := cfg.Load(); err == nil {
			t.Fatalf("Load accepted rate_limit_per_minute = %d", perMinute)
		}
	})
}
