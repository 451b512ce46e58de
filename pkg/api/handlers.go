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

package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/goccy/go-json"
	"github.com/quizfinder/quizfinder-web/pkg/database"
	"github.com/quizfinder/quizfinder-web/pkg/database/matcher"
	"github.com/rs/zerolog/log"
)

const notFoundMessage = "venue not found"

type suggestionResponse struct {
	Name       string  `json:"name"`
	Slug       string  `json:"slug"`
	URL        string  `json:"url"`
	City       string  `json:"city,omitempty"`
	Confidence float64 `json:"confidence"`
}

type notFoundResponse struct {
	Error       string               `json:"error"`
	Slug        string               `json:"slug"`
	Suggestions []suggestionResponse `json:"suggestions,omitempty"`
}

type venueHandler struct {
	catalog database.VenueCatalog
	matcher SlugMatcher
}

func venueURL(slug string) string {
	return "/venues/" + url.PathEscape(slug)
}

func (h *venueHandler) getVenue(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")
	logger := log.With().
		Str("request_id", middleware.GetReqID(ctx)).
		Str("slug", slug).
		Logger()

	venue, err := h.catalog.FindVenueBySlug(ctx, slug)
	if err != nil {
		logger.Error().Err(err).Msg("venue lookup failed")
		writeNotFound(w, slug, nil)
		return
	}
	if venue != nil {
		writeJSON(w, http.StatusOK, venue)
		return
	}

	outcome, err := h.matcher.FindSimilar(ctx, slug)
	if err != nil {
		// a broken catalog must look the same as a missing venue
		logger.Error().Err(err).Msg("slug match failed")
		writeNotFound(w, slug, nil)
		return
	}

	switch outcome.Kind {
	case matcher.OutcomeRedirect:
		logger.Info().
			Str("target", outcome.Redirect.Slug).
			Float64("confidence", outcome.Confidence).
			Msg("redirecting stale venue slug")
		http.Redirect(w, r, venueURL(outcome.Redirect.Slug), http.StatusMovedPermanently)
	case matcher.OutcomeSuggestions:
		suggestions := make([]suggestionResponse, 0, len(outcome.Suggestions))
		for _, c := range outcome.Suggestions {
			suggestions = append(suggestions, suggestionResponse{
				Name:       c.Venue.Name,
				Slug:       c.Venue.Slug,
				URL:        venueURL(c.Venue.Slug),
				City:       c.Venue.CityName,
				Confidence: c.Confidence,
			})
		}
		writeNotFound(w, slug, suggestions)
	default:
		writeNotFound(w, slug, nil)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeNotFound(w http.ResponseWriter, slug string, suggestions []suggestionResponse) {
	writeJSON(w, http.StatusNotFound, notFoundResponse{
		Error:       notFoundMessage,
		Slug:        slug,
		Suggestions: suggestions,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal response")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		log.Debug().Err(err).Msg("failed to write response")
	}
}
