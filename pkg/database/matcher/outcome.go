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
	"sort"

	"github.com/quizfinder/quizfinder-web/pkg/database"
)

const (
	// RedirectThreshold is the confidence at which a single candidate is
	// trusted enough to redirect to without asking.
	RedirectThreshold = 0.90
	// SuggestionThreshold is the lowest confidence worth showing as a
	// "did you mean" entry.
	SuggestionThreshold = 0.70
	// MaxSuggestions caps the "did you mean" list.
	MaxSuggestions = 5
)

// OutcomeKind tags which branch of an Outcome is populated.
type OutcomeKind int

const (
	OutcomeNoMatch OutcomeKind = iota
	OutcomeRedirect
	OutcomeSuggestions
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeRedirect:
		return "redirect"
	case OutcomeSuggestions:
		return "suggestions"
	case OutcomeNoMatch:
		return "no_match"
	default:
		return "unknown"
	}
}

// Candidate is a catalog venue scored against one searched slug.
type Candidate struct {
	Venue      database.Venue
	Confidence float64
}

// Outcome is the result of matching a stale slug. Exactly one of the
// following holds:
//   - Kind == OutcomeRedirect: Redirect is set and Confidence >= RedirectThreshold.
//   - Kind == OutcomeSuggestions: Suggestions holds 1..MaxSuggestions entries,
//     each >= SuggestionThreshold, sorted by descending confidence.
//   - Kind == OutcomeNoMatch: nothing else is set.
//
// Outcomes may be shared through the result cache and must not be modified.
type Outcome struct {
	Redirect    *database.Venue
	Suggestions []Candidate
	Confidence  float64
	Kind        OutcomeKind
}

// NoMatch reports that no catalog venue is close enough to suggest.
func NoMatch() Outcome {
	return Outcome{Kind: OutcomeNoMatch}
}

// RedirectTo sends the caller straight to venue.
func RedirectTo(venue database.Venue, confidence float64) Outcome {
	return Outcome{
		Kind:       OutcomeRedirect,
		Redirect:   &venue,
		Confidence: confidence,
	}
}

// Suggest offers candidates as alternatives. candidates must be non-empty and
// already sorted best first.
func Suggest(candidates []Candidate) Outcome {
	return Outcome{
		Kind:        OutcomeSuggestions,
		Suggestions: candidates,
		Confidence:  candidates[0].Confidence,
	}
}

// Classify turns scored candidates into an Outcome. Candidates below
// SuggestionThreshold are dropped; if the best remaining one reaches
// RedirectThreshold it wins outright, otherwise the top MaxSuggestions are
// offered. Ties are ordered by slug so the result is deterministic. The
// input slice is not modified.
func Classify(candidates []Candidate) Outcome {
	kept := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.Confidence >= SuggestionThreshold {
			kept = append(kept, c)
		}
	}
	if len(kept) == 0 {
		return NoMatch()
	}

	sort.SliceStable(kept, func(i, j int) bool {
		if kept[i].Confidence != kept[j].Confidence {
			return kept[i].Confidence > kept[j].Confidence
		}
		return kept[i].Venue.Slug < kept[j].Venue.Slug
	})

	top := kept[0]
	if top.Confidence >= RedirectThreshold {
		return RedirectTo(top.Venue, top.Confidence)
	}

	if len(kept) > MaxSuggestions {
		kept = kept[:MaxSuggestions]
	}
	return Suggest(kept)
}
