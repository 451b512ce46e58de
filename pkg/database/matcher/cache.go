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

package matcher

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/quizfinder/quizfinder-web/pkg/metrics"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// ComputeFunc produces the outcome for a raw slug on a cache miss.
type ComputeFunc func(ctx context.Context, slug string) (Outcome, error)

// ResultCache memoizes match outcomes per raw input slug for the lifetime of
// the process. Concurrent misses for the same slug share one computation.
// Failed computations are not stored.
type ResultCache struct {
	store *cache.Cache
	group singleflight.Group
}

// NewResultCache creates a cache whose entries expire after ttl. A ttl of
// zero or less keeps entries until Flush. cleanupInterval controls how often
// expired entries are purged; zero disables the background purge and
// expired entries are then dropped on access.
func NewResultCache(ttl, cleanupInterval time.Duration) *ResultCache {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	return &ResultCache{
		store: cache.New(ttl, cleanupInterval),
	}
}

// GetOrCompute returns the cached outcome for slug or computes, stores and
// returns it.
func (c *ResultCache) GetOrCompute(ctx context.Context, slug string, compute ComputeFunc) (Outcome, error) {
	if out, ok := c.get(slug); ok {
		metrics.MatchCacheHits.Inc()
		return out, nil
	}

	// the shared computation must not die with whichever request started it
	shared := context.WithoutCancel(ctx)

	v, err, _ := c.group.Do(slug, func() (any, error) {
		if out, ok := c.get(slug); ok {
			return out, nil
		}
		metrics.MatchCacheMisses.Inc()

		out, err := compute(shared, slug)
		if err != nil {
			return nil, err
		}
		c.store.SetDefault(slug, out)
		return out, nil
	})
	if err != nil {
		return NoMatch(), err //nolint:wrapcheck // compute errors pass through untouched
	}

	out, ok := v.(Outcome)
	if !ok {
		return NoMatch(), fmt.Errorf("unexpected cached value type %T", v)
	}
	return out, nil
}

func (c *ResultCache) get(slug string) (Outcome, bool) {
	v, ok := c.store.Get(slug)
	if !ok {
		return Outcome{}, false
	}
	out, ok := v.(Outcome)
	if !ok {
		log.Warn().Str("slug", slug).Msgf("discarding cached value of type %T", v)
		c.store.Delete(slug)
		return Outcome{}, false
	}
	return out, true
}

// Len returns the number of cached outcomes, including expired entries not
// yet purged.
func (c *ResultCache) Len() int {
	return c.store.ItemCount()
}

// Flush drops every cached outcome.
func (c *ResultCache) Flush() {
	c.store.Flush()
	log.Debug().Msg("flushed slug match result cache")
}
