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

// Package api is the HTTP front door for the venue catalog. Venue pages that
// no longer resolve are handed to the slug matcher, which either redirects
// to the venue's current page or offers "did you mean" suggestions.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	apimiddleware "github.com/quizfinder/quizfinder-web/pkg/api/middleware"
	"github.com/quizfinder/quizfinder-web/pkg/config"
	"github.com/quizfinder/quizfinder-web/pkg/database"
	"github.com/quizfinder/quizfinder-web/pkg/database/matcher"
	"github.com/rs/zerolog/log"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 15 * time.Second
)

// SlugMatcher finds the venue a stale slug most likely refers to.
type SlugMatcher interface {
	FindSimilar(ctx context.Context, missingSlug string) (matcher.Outcome, error)
}

// NewRouter builds the HTTP handler. A nil limiter disables per-IP rate
// limiting.
func NewRouter(
	cfg *config.Instance,
	catalog database.VenueCatalog,
	slugMatcher SlugMatcher,
	limiter *apimiddleware.IPRateLimiter,
) http.Handler {
	r := chi.NewRouter()

	r.Use(apimiddleware.RequestID)
	if cfg.TrustProxyHeaders() {
		r.Use(middleware.RealIP)
	}
	r.Use(apimiddleware.RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.RequestTimeout()))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins(),
		AllowedMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowedHeaders: []string{"Accept", apimiddleware.RequestIDHeader},
		ExposedHeaders: []string{apimiddleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.Handler())

	h := &venueHandler{catalog: catalog, matcher: slugMatcher}
	r.Group(func(r chi.Router) {
		if limiter != nil {
			r.Use(apimiddleware.HTTPRateLimitMiddleware(limiter))
		}
		r.Get("/venues/{slug}", h.getVenue)
	})

	return r
}

// Start serves the API on the configured listen address until ctx is
// cancelled, then shuts down gracefully.
func Start(
	ctx context.Context,
	cfg *config.Instance,
	catalog database.VenueCatalog,
	slugMatcher SlugMatcher,
) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", cfg.ListenAddr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddr(), err)
	}

	var limiter *apimiddleware.IPRateLimiter
	perMinute, burst := cfg.RateLimit()
	if perMinute > 0 {
		limiter = apimiddleware.NewIPRateLimiter(perMinute, burst, clockwork.NewRealClock())
		limiter.StartCleanup(ctx)
	} else {
		log.Warn().Msg("per-IP rate limiting disabled")
	}

	return serve(ctx, ln, NewRouter(cfg, catalog, slugMatcher, limiter))
}

func serve(ctx context.Context, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("api server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("api server stopped: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down api server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down api server: %w", err)
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server stopped: %w", err)
	}
	return nil
}
