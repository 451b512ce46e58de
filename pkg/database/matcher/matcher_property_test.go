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
	"strings"
	"testing"

	"github.com/quizfinder/quizfinder-web/pkg/database"
	"github.com/quizfinder/quizfinder-web/pkg/database/slugs"
	"github.com/quizfinder/quizfinder-web/pkg/testing/helpers"
	"pgregory.net/rapid"
)

// ============================================================================
// Generators
// ============================================================================

var slugWords = []string{
	"the", "crown", "hop", "pole", "city", "ale", "house", "border", "albion",
	"hotel", "downtown", "works", "quiz", "at", "bar", "pub", "arms", "inn",
}

// venueSlugGen generates catalog-style slugs built from pub-name words.
func venueSlugGen() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		count := rapid.IntRange(1, 4).Draw(t, "wordCount")
		parts := make([]string, count)
		for i := 0; i < count; i++ {
			parts[i] = rapid.SampledFrom(slugWords).Draw(t, "word")
		}
		return strings.Join(parts, "-")
	})
}

// inboundSlugGen generates slugs as they might arrive from stale links.
func inboundSlugGen() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		s := venueSlugGen().Draw(t, "base")
		if rapid.Bool().Draw(t, "eventPrefix") {
			s = "quiz-night-at-" + s
		}
		if rapid.Bool().Draw(t, "idSuffix") {
			s += "-" + rapid.StringMatching(`[0-9]{1,10}`).Draw(t, "digits")
		}
		return s
	})
}

func candidateSliceGen() *rapid.Generator[[]Candidate] {
	return rapid.Custom(func(t *rapid.T) []Candidate {
		n := rapid.IntRange(0, 30).Draw(t, "n")
		out := make([]Candidate, n)
		for i := 0; i < n; i++ {
			out[i] = Candidate{
				Venue: database.Venue{
					DBID: int64(i + 1),
					Slug: venueSlugGen().Draw(t, "slug"),
				},
				Confidence: rapid.Float64Range(0.0, 1.0).Draw(t, "confidence"),
			}
		}
		return out
	})
}

func assertOutcomeInvariants(t *rapid.T, out Outcome) {
	switch out.Kind {
	case OutcomeRedirect:
		if out.Redirect == nil {
			t.Fatalf("redirect without venue")
		}
		if out.Confidence < RedirectThreshold {
			t.Fatalf("redirect with confidence %f", out.Confidence)
		}
	case OutcomeSuggestions:
		if len(out.Suggestions) == 0 || len(out.Suggestions) > MaxSuggestions {
			t.Fatalf("suggestion count %d", len(out.Suggestions))
		}
		for i, s := range out.Suggestions {
			if s.Confidence < SuggestionThreshold || s.Confidence >= RedirectThreshold {
				t.Fatalf("suggestion %d confidence %f out of range", i, s.Confidence)
			}
			if i > 0 && s.Confidence > out.Suggestions[i-1].Confidence {
				t.Fatalf("suggestions not sorted at %d", i)
			}
		}
	case OutcomeNoMatch:
		if out.Redirect != nil || len(out.Suggestions) != 0 {
			t.Fatalf("no match carries results")
		}
	default:
		t.Fatalf("unknown outcome kind %d", out.Kind)
	}
}

// ============================================================================
// Score Property Tests
// ============================================================================

func TestPropertyScoreBounds(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		candidate := rapid.OneOf(venueSlugGen(), rapid.String()).Draw(t, "candidate")
		original := inboundSlugGen().Draw(t, "original")
		normalized := slugs.NormalizeLegacy(original)
		if normalized == "" {
			t.Skip("empty normalized slug")
		}

		score := Score(candidate, original, normalized)
		if score < 0.0 || score > 1.0 {
			t.Fatalf("score %f out of bounds for %q/%q/%q", score, candidate, original, normalized)
		}
	})
}

func TestPropertyScoreExactMatchFloor(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		original := inboundSlugGen().Draw(t, "original")
		normalized := slugs.NormalizeLegacy(original)
		if normalized == "" {
			t.Skip("empty normalized slug")
		}

		if score := Score(normalized, original, normalized); score < ExactMatchWeight {
			t.Fatalf("exact candidate scored %f", score)
		}
	})
}

// ============================================================================
// Classification Property Tests
// ============================================================================

func TestPropertyClassifyInvariants(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		candidates := candidateSliceGen().Draw(t, "candidates")
		out := Classify(candidates)
		assertOutcomeInvariants(t, out)

		best := 0.0
		for _, c := range candidates {
			best = max(best, c.Confidence)
		}
		switch {
		case best >= RedirectThreshold:
			if out.Kind != OutcomeRedirect {
				t.Fatalf("best %f should redirect, got %s", best, out.Kind)
			}
		case best >= SuggestionThreshold:
			if out.Kind != OutcomeSuggestions {
				t.Fatalf("best %f should suggest, got %s", best, out.Kind)
			}
		default:
			if out.Kind != OutcomeNoMatch {
				t.Fatalf("best %f should not match, got %s", best, out.Kind)
			}
		}
	})
}

func TestPropertyFindSimilarInvariants(t *testing.T) {
	t.Parallel()
	rapid.Check(t, func(t *rapid.T) {
		slugSet := rapid.SliceOfNDistinct(venueSlugGen(), 0, 25, rapid.ID[string]).Draw(t, "catalog")
		venues := make([]database.Venue, len(slugSet))
		for i, s := range slugSet {
			venues[i] = database.Venue{DBID: int64(i + 1), Slug: s, Name: s}
		}
		m := NewMatcher(helpers.NewInMemoryCatalog(venues...), nil)

		missing := inboundSlugGen().Draw(t, "missing")
		out, err := m.FindSimilar(context.Background(), missing)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		assertOutcomeInvariants(t, out)

		normalized := slugs.NormalizeLegacy(missing)
		for _, v := range venues {
			if v.Slug == normalized {
				if out.Kind != OutcomeRedirect || out.Redirect.Slug != normalized || out.Confidence != 1.0 {
					t.Fatalf("exact slug %q not short-circuited: %+v", normalized, out)
				}
			}
		}
	})
}
