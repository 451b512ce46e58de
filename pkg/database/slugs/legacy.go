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

package slugs

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// EventVenueSeparator joins an event name to a venue name in old event URLs,
// e.g. "pub-quiz-at-hop-pole".
const EventVenueSeparator = "-at-"

// MinLegacyIDDigits is the shortest numeric run treated as an appended ID.
// Shorter runs are usually part of the name ("venue-99", "bar-2024").
const MinLegacyIDDigits = 7

var legacyIDSuffixRe = regexp.MustCompile(`-[0-9]{7,}$`)

// NormalizeLegacy turns a possibly stale venue slug from an old URL into the
// canonical form current venue slugs use. It strips appended numeric IDs,
// keeps only the venue part of "<event>-at-<venue>" slugs and reduces the
// result to lowercase ASCII letters, digits and single hyphens.
//
// The pipeline is repeated until the slug stops changing, so the result is
// always a fixed point:
//
//	NormalizeLegacy("albion-hotel-1759813035")                 → "albion-hotel"
//	NormalizeLegacy("00s-quiz-vol-1-at-border-city-ale-house") → "border-city-ale-house"
//	NormalizeLegacy("venue-99")                                → "venue-99"
func NormalizeLegacy(raw string) string {
	s := raw
	for {
		next := normalizeLegacyPass(s)
		if next == s {
			return next
		}
		s = next
	}
}

func normalizeLegacyPass(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = removeDiacritics(s)
	s = StripLegacyIDSuffix(s)
	s = ExtractEventVenue(s)
	return CleanSlug(s)
}

// StripLegacyIDSuffix removes a trailing "-" followed by at least
// MinLegacyIDDigits digits.
func StripLegacyIDSuffix(s string) string {
	return legacyIDSuffixRe.ReplaceAllString(s, "")
}

// ExtractEventVenue returns the part of s after the last EventVenueSeparator,
// or s unchanged when it has none.
func ExtractEventVenue(s string) string {
	idx := strings.LastIndex(s, EventVenueSeparator)
	if idx < 0 {
		return s
	}
	return s[idx+len(EventVenueSeparator):]
}

// CleanSlug replaces every character outside [a-z0-9-] with a hyphen,
// collapses hyphen runs and trims hyphens from both ends.
func CleanSlug(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastHyphen := true // suppresses leading hyphens
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// removeDiacritics strips combining marks so "café" folds to "cafe" instead
// of being cut to "caf-". Fullwidth forms fold to their ASCII equivalents.
func removeDiacritics(s string) string {
	t := transform.Chain(
		width.Fold,
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	if normalized, _, err := transform.String(t, s); err == nil {
		return normalized
	}
	return s
}
