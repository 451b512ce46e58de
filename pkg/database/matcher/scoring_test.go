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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_IdenticalSlugs(t *testing.T) {
	t.Parallel()

	// every signal except the prefix extension fires
	got := Score("hop-pole", "hop-pole", "hop-pole")
	assert.InDelta(t, 0.90, got, 1e-9)
}

func TestScore_DisambiguatingSuffix(t *testing.T) {
	t.Parallel()

	got := Score("city-ale-house", "city-ale", "city-ale")
	assert.GreaterOrEqual(t, got, SuggestionThreshold)
	assert.Less(t, got, RedirectThreshold)
	assert.InDelta(t, 0.7257, got, 0.001)
}

func TestScore_CandidateWithLegacySuffixIsCapped(t *testing.T) {
	t.Parallel()

	got := Score("hop-pole-1234567", "hop-pole-1234567", "hop-pole")
	assert.InDelta(t, 1.0, got, 1e-9)
}

func TestScore_UnrelatedSlug(t *testing.T) {
	t.Parallel()

	got := Score("downtown-ale-works", "city-ale", "city-ale")
	assert.Less(t, got, SuggestionThreshold)
}

func TestScore_ContainmentWithoutPrefix(t *testing.T) {
	t.Parallel()

	got := Score("border-city-ale-house", "city-ale", "city-ale")
	assert.Less(t, got, SuggestionThreshold)
	assert.GreaterOrEqual(t, got, ContainmentWeight)
}

func TestScore_OriginalCanBeCloser(t *testing.T) {
	t.Parallel()

	withCloseOriginal := Score("quiz-night-at-the-crown", "quiz-night-at-the-crown", "the-crown")
	withFarOriginal := Score("quiz-night-at-the-crown", "zzz", "the-crown")
	assert.Greater(t, withCloseOriginal, withFarOriginal)
}

func TestIsPrefixExtension(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		s        string
		prefix   string
		expected bool
	}{
		{name: "hyphen extension", s: "city-ale-house", prefix: "city-ale", expected: true},
		{name: "glued extension", s: "city-alehouse", prefix: "city-ale", expected: true},
		{name: "identical", s: "city-ale", prefix: "city-ale", expected: false},
		{name: "shorter", s: "city", prefix: "city-ale", expected: false},
		{name: "different start", s: "the-city-ale", prefix: "city-ale", expected: false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, isPrefixExtension(tt.s, tt.prefix))
		})
	}
}

func TestCommonPrefixRatio(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, commonPrefixRatio("city-ale-house", "city-ale"), 1e-9)
	assert.InDelta(t, 0.5, commonPrefixRatio("abcd", "abxy"), 1e-9)
	assert.InDelta(t, 0.0, commonPrefixRatio("abc", "xbc"), 1e-9)
	assert.InDelta(t, 0.0, commonPrefixRatio("", "abc"), 1e-9)
}
