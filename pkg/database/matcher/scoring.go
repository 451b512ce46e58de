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
	"strings"

	"github.com/hbollon/go-edlib"
	"github.com/quizfinder/quizfinder-web/pkg/database/slugs"
)

// Signal weights for Score. They were tuned by hand against real dead links
// and add up to more than 1.0, so the sum is capped.
const (
	ExactMatchWeight      = 0.40
	PrefixExtensionWeight = 0.25
	JaroWinklerWeight     = 0.20
	BestJaroWeight        = 0.05
	CommonPrefixWeight    = 0.15
	ContainmentWeight     = 0.10
)

// Score rates how likely candidate is the venue a stale URL pointed at, from
// 0.0 to 1.0. original is the slug as it arrived and normalized is its
// slugs.NormalizeLegacy form; callers must not pass an empty normalized slug.
//
// The signals favour prefix and containment relationships because the usual
// failure is the same venue name with a different disambiguating suffix, not
// a typo.
func Score(candidate, original, normalized string) float64 {
	candidateNorm := slugs.NormalizeLegacy(candidate)

	var score float64

	if candidateNorm == normalized || candidate == normalized {
		score += ExactMatchWeight
	}

	if isPrefixExtension(candidate, normalized) || isPrefixExtension(candidateNorm, normalized) {
		score += PrefixExtensionWeight
	}

	score += JaroWinklerWeight * float64(edlib.JaroWinklerSimilarity(candidate, normalized))

	bestJaro := max(
		edlib.JaroSimilarity(candidate, normalized),
		edlib.JaroSimilarity(candidate, original),
	)
	score += BestJaroWeight * float64(bestJaro)

	score += CommonPrefixWeight * commonPrefixRatio(candidate, normalized)

	if strings.Contains(candidate, normalized) || strings.Contains(normalized, candidate) {
		score += ContainmentWeight
	}

	return min(score, 1.0)
}

// isPrefixExtension reports whether s is prefix plus something more, e.g.
// "city-ale-house" extends "city-ale".
func isPrefixExtension(s, prefix string) bool {
	if strings.HasPrefix(s, prefix+"-") {
		return true
	}
	return strings.HasPrefix(s, prefix) && s != prefix
}

// commonPrefixRatio is the length of the shared leading run of a and b
// divided by the length of the shorter string.
func commonPrefixRatio(a, b string) float64 {
	shorter := min(len(a), len(b))
	if shorter == 0 {
		return 0
	}
	n := 0
	for n < shorter && a[n] == b[n] {
		n++
	}
	return float64(n) / float64(shorter)
}
