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

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/quizfinder/quizfinder-web/internal/telemetry"
	"github.com/quizfinder/quizfinder-web/pkg/api"
	"github.com/quizfinder/quizfinder-web/pkg/cli"
	"github.com/quizfinder/quizfinder-web/pkg/config"
	"github.com/quizfinder/quizfinder-web/pkg/database/matcher"
	"github.com/quizfinder/quizfinder-web/pkg/database/venuedb"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := run(); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags(flag.CommandLine)
	if err := flags.Parse(os.Args[1:]); err != nil {
		return err
	}

	if *flags.Version {
		_, _ = fmt.Printf("Quizfinder Web v%s\n", config.AppVersion)
		return nil
	}

	var logWriters []io.Writer
	if *flags.Daemon {
		logWriters = []io.Writer{os.Stderr}
	}

	cfg, err := cli.Setup(flags, config.BaseDefaults, logWriters)
	if err != nil {
		return err
	}
	defer telemetry.Close()

	defer func() {
		if err := recover(); err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %s\n", err)
			log.Fatal().Msgf("panic: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	breakerFailures, breakerTimeout := cfg.CatalogBreaker()
	catalog, err := venuedb.OpenVenueDB(ctx, venuedb.Options{
		Path:            cfg.CatalogPath(),
		QueryTimeout:    cfg.CatalogQueryTimeout(),
		BreakerFailures: breakerFailures,
		BreakerTimeout:  breakerTimeout,
	})
	if err != nil {
		log.Error().Err(err).Msg("error opening venue catalog")
		return fmt.Errorf("error opening venue catalog: %w", err)
	}
	defer func() {
		if err := catalog.Close(); err != nil {
			log.Error().Err(err).Msg("error closing venue catalog")
		}
	}()

	cacheTTL, cacheCleanup := cfg.MatchCache()
	slugMatcher := matcher.NewMatcher(catalog, matcher.NewResultCache(cacheTTL, cacheCleanup))

	if err := api.Start(ctx, cfg, catalog, slugMatcher); err != nil {
		log.Error().Err(err).Msg("error running api server")
		return fmt.Errorf("error running api server: %w", err)
	}

	log.Info().Msg("quizfinder web stopped")
	return nil
}
