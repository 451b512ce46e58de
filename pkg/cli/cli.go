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

// Package cli holds the command line flags and startup sequence shared by
// the server entrypoints.
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/quizfinder/quizfinder-web/internal/telemetry"
	"github.com/quizfinder/quizfinder-web/pkg/config"
	"github.com/quizfinder/quizfinder-web/pkg/helpers"
	"github.com/rs/zerolog/log"
)

type Flags struct {
	ConfigDir *string
	Version   *bool
	Daemon    *bool
	fs        *flag.FlagSet
}

// DefaultConfigDir is the per-user config directory, falling back to the
// working directory when the OS doesn't provide one.
func DefaultConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return filepath.Join(dir, config.AppName)
}

// SetupFlags registers the server flags on fs.
func SetupFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		fs: fs,
		ConfigDir: fs.String(
			"config",
			DefaultConfigDir(),
			"directory holding config.toml and logs",
		),
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
		Daemon: fs.Bool(
			"daemon",
			false,
			"run in the foreground and also log to stderr",
		),
	}
}

func (f *Flags) Parse(args []string) error {
	if err := f.fs.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	return nil
}

// LogDir is where the rotated log file is written.
func (f *Flags) LogDir() string {
	return filepath.Join(*f.ConfigDir, "logs")
}

// Setup initialises logging, loads the config and turns on error reporting
// if it is configured.
//
//nolint:gocritic // config struct copied for immutability
func Setup(flags *Flags, defaultConfig config.Values, writers []io.Writer) (*config.Instance, error) {
	err := helpers.InitLogging(flags.LogDir(), false, writers)
	if err != nil {
		return nil, fmt.Errorf("error initializing logging: %w", err)
	}

	cfg, err := config.NewConfig(*flags.ConfigDir, defaultConfig)
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	cfg.SetDebugLogging(cfg.DebugLogging())

	if err := telemetry.Init(telemetry.Options{
		Enabled:     cfg.ErrorReporting(),
		DSN:         cfg.TelemetryDSN(),
		Environment: cfg.TelemetryEnvironment(),
		Release:     config.AppVersion,
	}); err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}

	log.Info().
		Str("version", config.AppVersion).
		Str("config", cfg.Path()).
		Msg("quizfinder web starting")

	return cfg, nil
}
