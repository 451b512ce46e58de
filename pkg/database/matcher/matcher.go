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

// Package matcher resolves venue slugs from stale or legacy URLs to current
// catalog venues. A match either redirects to a single confident hit, offers
// a short "did you mean" list, or reports no match.
package matcher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quizfinder/quizfinder-web/pkg/database"
	"github.com/quizfinder/quizfinder-web/pkg/database/slugs"
	"github.com/quizfinder/quizfinder-web/pkg/metrics"
	"github.com/rs/zerolog/log"
)

// Matcher finds the venue a stale slug most likely refers to. It is safe for
// concurrent use.
type Matcher struct {
	catalog database.VenueCatalog
	cache   *ResultCache
}

// NewMatcher creates a Matcher reading from catalog. cache may be nil, in
// which case every call is computed fresh.
func NewMatcher(catalog database.VenueCatalog, cache *ResultCache) *Matcher {
	return &Matcher{
		catalog: catalog,
		cache:   cache,
	}
}

// FindSimilar matches a slug that failed direct lookup. Results are served
// from the result cache when one is configured, keyed by the raw slug.
//
// A returned error always wraps database.ErrCatalogUnavailable and means the
// answer could not be determined, which is different from NoMatch.
func (m *Matcher) FindSimilar(ctx context.Context, missingSlug string) (Outcome, error) {
	var (
		out Outcome
		err error
	)
	if m.cache != nil {
		out, err = m.cache.GetOrCompute(ctx, missingSlug, m.findSimilar)
	} else {
		out, err = m.findSimilar(ctx, missingSlug)
	}

	if err != nil {
		metrics.MatchOutcomes.WithLabelValues("error").Inc()
		return NoMatch(), err
	}
	metrics.MatchOutcomes.WithLabelValues(out.Kind.String()).Inc()
	return out, nil
}

func (m *Matcher) findSimilar(ctx context.Context, missingSlug string) (Outcome, error) {
	start := time.Now()
	defer func() {
		metrics.MatchDuration.Observe(time.Since(start).Seconds())
	}()

	normalized := slugs.NormalizeLegacy(missingSlug)
	if normalized == "" {
		log.Debug().Str("slug", missingSlug).Msg("slug normalized to nothing, skipping catalog")
		return NoMatch(), nil
	}

	exact, err := m.catalog.FindVenueBySlug(ctx, normalized)
	if err != nil {
		return NoMatch(), catalogError("exact venue lookup", err)
	}
	if exact != nil {
		log.Debug().
			Str("slug", missingSlug).
			Str("normalized", normalized).
			Int64("venue_id", exact.DBID).
			Msg("normalized slug matched venue exactly")
		return RedirectTo(*exact, 1.0), nil
	}

	venues, err := RetrieveCandidates(ctx, m.catalog, normalized, missingSlug)
	if err != nil {
		return NoMatch(), catalogError("candidate retrieval", err)
	}

	candidates := make([]Candidate, 0, len(venues))
	for i := range venues {
		confidence := Score(venues[i].Slug, missingSlug, normalized)

		if confidence >= SuggestionThreshold {
			log.Debug().
				Str("slug", missingSlug).
				Str("candidate", venues[i].Slug).
				Float64("confidence", confidence).
				Msg("slug match candidate evaluation")
		}

		candidates = append(candidates, Candidate{
			Venue:      venues[i],
			Confidence: confidence,
		})
	}

	out := Classify(candidates)

	log.Debug().
		Str("slug", missingSlug).
		Str("normalized", normalized).
		Int("candidates", len(venues)).
		Str("outcome", out.Kind.String()).
		Float64("confidence", out.Confidence).
		Msg("slug match complete")

	return out, nil
}

func catalogError(op string, err error) error {
	if errors.Is(err, database.ErrCatalogUnavailable) {
		return fmt.Errorf("%s failed: %w", op, err)
	}
	return fmt.Errorf("%s failed: %w: %w", op, database.ErrCatalogUnavailable, err)
}
