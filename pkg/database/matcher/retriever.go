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
	"strings"
	"unicode"

	"github.com/quizfinder/quizfinder-web/pkg/database"
	"golang.org/x/sync/errgroup"
)

const (
	// SearchLimit bounds each individual catalog search.
	SearchLimit = 20
	// MaxCandidates bounds the merged candidate set.
	MaxCandidates = 50
	// MinPrefixTokenLen is the shortest leading token worth a prefix search.
	MinPrefixTokenLen = 3
)

// RetrieveCandidates pulls plausible venues for a stale slug from the
// catalog. It runs up to three bounded searches concurrently: slugs
// containing normalized, slugs containing original (in case normalization
// was too aggressive) and slugs starting with the first token of normalized.
// Results are merged in that order, deduplicated by venue ID and cut to
// MaxCandidates. An empty result is not an error.
func RetrieveCandidates(
	ctx context.Context,
	catalog database.VenueCatalog,
	normalized string,
	original string,
) ([]database.Venue, error) {
	if normalized == "" {
		return nil, nil
	}

	var bySubstring, byOriginal, byPrefix []database.Venue

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		venues, err := catalog.SearchVenuesBySlugSubstring(gctx, normalized, SearchLimit)
		if err != nil {
			return fmt.Errorf("failed to search venues containing normalized slug: %w", err)
		}
		bySubstring = venues
		return nil
	})

	// identical to the first search when normalization changed nothing
	original = strings.TrimSpace(original)
	if original != "" && !strings.EqualFold(original, normalized) {
		g.Go(func() error {
			venues, err := catalog.SearchVenuesBySlugSubstring(gctx, original, SearchLimit)
			if err != nil {
				return fmt.Errorf("failed to search venues containing original slug: %w", err)
			}
			byOriginal = venues
			return nil
		})
	}

	if token := FirstToken(normalized); len(token) >= MinPrefixTokenLen {
		g.Go(func() error {
			venues, err := catalog.SearchVenuesBySlugPrefix(gctx, token, SearchLimit)
			if err != nil {
				return fmt.Errorf("failed to search venues by slug prefix: %w", err)
			}
			byPrefix = venues
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err //nolint:wrapcheck // already wrapped per search
	}

	return mergeVenues(MaxCandidates, bySubstring, byOriginal, byPrefix), nil
}

// FirstToken returns the leading whitespace- or hyphen-delimited token of s.
func FirstToken(s string) string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '-' || unicode.IsSpace(r)
	})
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// mergeVenues concatenates result sets in order, keeping the first venue
// seen for each ID, until limit venues are collected.
func mergeVenues(limit int, sets ...[]database.Venue) []database.Venue {
	seen := make(map[int64]struct{})
	merged := make([]database.Venue, 0, limit)
	for _, set := range sets {
		for i := range set {
			if len(merged) >= limit {
				return merged
			}
			if _, dup := seen[set[i].DBID]; dup {
				continue
			}
			seen[set[i].DBID] = struct{}{}
			merged = append(merged, set[i])
		}
	}
	return merged
}
