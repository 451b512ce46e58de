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

// Package metrics holds the Prometheus collectors for the venue front door.
// Collectors register on the default registry at init and are served by the
// API's /metrics route.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// MatchOutcomes counts fuzzy slug match results by kind
	// ("redirect", "suggestions", "no_match", "error").
	MatchOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizfinder_slug_match_outcomes_total",
			Help: "Total number of fuzzy venue slug match outcomes",
		},
		[]string{"outcome"},
	)

	MatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "quizfinder_slug_match_duration_seconds",
			Help:    "Duration of uncached fuzzy venue slug matches in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	MatchCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quizfinder_slug_match_cache_hits_total",
			Help: "Total number of slug match results served from cache",
		},
	)

	MatchCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quizfinder_slug_match_cache_misses_total",
			Help: "Total number of slug match results computed on demand",
		},
	)

	CatalogQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizfinder_catalog_query_errors_total",
			Help: "Total number of failed venue catalog queries",
		},
		[]string{"operation"},
	)

	CatalogBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "quizfinder_catalog_breaker_state",
			Help: "Venue catalog circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quizfinder_http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		},
		[]string{"route", "status"},
	)
)
