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
	"path/filepath"
	"time"

	"github.com/quizfinder/quizfinder-web/pkg/database/venuedb"
)

const (
	DefaultQueryTimeout    = venuedb.DefaultQueryTimeout
	DefaultBreakerFailures = venuedb.DefaultBreakerFailures
	DefaultBreakerTimeout  = venuedb.DefaultBreakerTimeout
	DefaultCacheTTL        = 10 * time.Minute
	DefaultCacheCleanup    = 15 * time.Minute
)

type Catalog struct {
	// Path to the catalog database. Relative paths resolve against the
	// config file's directory.
	Path            string `toml:"path" validate:"required"`
	QueryTimeout    string `toml:"query_timeout" validate:"duration"`
	BreakerTimeout  string `toml:"breaker_timeout" validate:"duration"`
	BreakerFailures uint32 `toml:"breaker_failures" validate:"gte=1"`
}

type Matcher struct {
	CacheTTL     string `toml:"cache_ttl" validate:"duration"`
	CacheCleanup string `toml:"cache_cleanup" validate:"duration"`
}

func (c *Instance) CatalogPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	path := c.vals.Catalog.Path
	if path == "" {
		path = CatalogFile
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(filepath.Dir(c.cfgPath), path)
}

func (c *Instance) CatalogQueryTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDuration(c.vals.Catalog.QueryTimeout, DefaultQueryTimeout)
}

// CatalogBreaker returns how many consecutive query failures open the
// catalog circuit breaker and how long it stays open.
func (c *Instance) CatalogBreaker() (failures uint32, timeout time.Duration) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	failures = c.vals.Catalog.BreakerFailures
	if failures == 0 {
		failures = DefaultBreakerFailures
	}
	return failures, parseDuration(c.vals.Catalog.BreakerTimeout, DefaultBreakerTimeout)
}

// MatchCache returns the slug match cache TTL and its expired-entry sweep
// interval.
func (c *Instance) MatchCache() (ttl, cleanup time.Duration) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDuration(c.vals.Matcher.CacheTTL, DefaultCacheTTL),
		parseDuration(c.vals.Matcher.CacheCleanup, DefaultCacheCleanup)
}
