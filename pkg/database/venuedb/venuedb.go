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

// Package venuedb is a read-only client for the venue catalog SQLite
// database. The catalog is written by the ingestion system; this package
// opens it in read-only mode and never runs DDL or DML against it.
package venuedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/quizfinder/quizfinder-web/pkg/database"
	"github.com/quizfinder/quizfinder-web/pkg/metrics"
	"github.com/rs/zerolog/log"
	gobreaker "github.com/sony/gobreaker/v2"

	_ "github.com/mattn/go-sqlite3"
)

var (
	ErrNullSQL      = errors.New("VenueDB is not connected")
	ErrInvalidLimit = errors.New("search limit must be positive")
)

const sqliteConnParams = "?mode=ro&_query_only=true&_busy_timeout=5000"

const (
	DefaultQueryTimeout    = 2 * time.Second
	DefaultBreakerFailures = 5
	DefaultBreakerTimeout  = 30 * time.Second
)

type Options struct {
	Path string
	// QueryTimeout bounds each catalog query on top of the caller's context.
	QueryTimeout time.Duration
	// BreakerFailures is the number of consecutive failed queries that
	// opens the circuit breaker.
	BreakerFailures uint32
	// BreakerTimeout is how long the breaker stays open before letting a
	// trial query through.
	BreakerTimeout time.Duration
}

type VenueDB struct {
	sql     *sql.DB
	breaker *gobreaker.CircuitBreaker[[]database.Venue]
	opts    Options
}

var _ database.CatalogDBI = (*VenueDB)(nil)

// NewVenueDB prepares a catalog client without connecting. Zero option
// values fall back to the package defaults.
func NewVenueDB(opts Options) *VenueDB {
	if opts.QueryTimeout <= 0 {
		opts.QueryTimeout = DefaultQueryTimeout
	}
	if opts.BreakerFailures == 0 {
		opts.BreakerFailures = DefaultBreakerFailures
	}
	if opts.BreakerTimeout <= 0 {
		opts.BreakerTimeout = DefaultBreakerTimeout
	}
	return &VenueDB{
		opts:    opts,
		breaker: newBreaker(opts),
	}
}

// OpenVenueDB creates a catalog client and connects to the database at
// opts.Path.
func OpenVenueDB(ctx context.Context, opts Options) (*VenueDB, error) {
	db := NewVenueDB(opts)
	err := db.Open(ctx)
	return db, err
}

func newBreaker(opts Options) *gobreaker.CircuitBreaker[[]database.Venue] {
	const name = "venue-catalog"
	metrics.CatalogBreakerState.WithLabelValues(name).Set(float64(gobreaker.StateClosed))

	return gobreaker.NewCircuitBreaker[[]database.Venue](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     opts.BreakerTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= opts.BreakerFailures
		},
		// a client hanging up is not the catalog's fault
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.CatalogBreakerState.WithLabelValues(name).Set(float64(to))
			log.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("venue catalog circuit breaker state changed")
		},
	})
}

// Open connects to the catalog in read-only mode. The database file must
// already exist.
func (db *VenueDB) Open(ctx context.Context) error {
	if db.opts.Path == "" {
		return errors.New("venue catalog path not set")
	}
	if _, err := os.Stat(db.opts.Path); err != nil {
		return fmt.Errorf("failed to stat venue catalog: %w", err)
	}

	sqlInstance, err := sql.Open("sqlite3", "file:"+db.opts.Path+sqliteConnParams)
	if err != nil {
		return fmt.Errorf("failed to open venue catalog: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, db.opts.QueryTimeout)
	defer cancel()
	if err := sqlInstance.PingContext(pingCtx); err != nil {
		if closeErr := sqlInstance.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close venue catalog after ping failure")
		}
		return fmt.Errorf("failed to ping venue catalog: %w", err)
	}

	db.sql = sqlInstance
	log.Info().Str("path", db.opts.Path).Msg("opened venue catalog")
	return nil
}

func (db *VenueDB) GetDBPath() string {
	return db.opts.Path
}

func (db *VenueDB) Close() error {
	if db.sql == nil {
		return nil
	}
	err := db.sql.Close()
	if err != nil {
		return fmt.Errorf("failed to close venue catalog: %w", err)
	}
	return nil
}

// SetSQLForTesting allows injection of a sql.DB instance for testing purposes.
// This method should only be used in tests.
func (db *VenueDB) SetSQLForTesting(sqlDB *sql.DB) {
	db.sql = sqlDB
}

// BreakerState reports the circuit breaker state, e.g. "closed" or "open".
func (db *VenueDB) BreakerState() string {
	return db.breaker.State().String()
}

// FindVenueBySlug returns the venue whose slug equals slug, or nil if there
// is none.
func (db *VenueDB) FindVenueBySlug(ctx context.Context, slug string) (*database.Venue, error) {
	venues, err := db.query(ctx, "find_by_slug", func(ctx context.Context, conn *sql.DB) ([]database.Venue, error) {
		return sqlFindVenueBySlug(ctx, conn, slug)
	})
	if err != nil {
		return nil, err
	}
	if len(venues) == 0 {
		return nil, nil
	}
	return &venues[0], nil
}

// SearchVenuesBySlugSubstring returns up to limit venues whose slug contains
// term, case-insensitively, ordered by slug.
func (db *VenueDB) SearchVenuesBySlugSubstring(
	ctx context.Context,
	term string,
	limit int,
) ([]database.Venue, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	return db.query(ctx, "search_substring", func(ctx context.Context, conn *sql.DB) ([]database.Venue, error) {
		return sqlSearchVenuesBySlugLike(ctx, conn, "%"+escapeLike(term)+"%", limit)
	})
}

// SearchVenuesBySlugPrefix returns up to limit venues whose slug starts with
// prefix, case-insensitively, ordered by slug.
func (db *VenueDB) SearchVenuesBySlugPrefix(
	ctx context.Context,
	prefix string,
	limit int,
) ([]database.Venue, error) {
	if limit <= 0 {
		return nil, ErrInvalidLimit
	}
	return db.query(ctx, "search_prefix", func(ctx context.Context, conn *sql.DB) ([]database.Venue, error) {
		return sqlSearchVenuesBySlugLike(ctx, conn, escapeLike(prefix)+"%", limit)
	})
}

// query runs fn under the per-query timeout and the circuit breaker. Every
// failure is reported as database.ErrCatalogUnavailable.
func (db *VenueDB) query(
	ctx context.Context,
	op string,
	fn func(ctx context.Context, conn *sql.DB) ([]database.Venue, error),
) ([]database.Venue, error) {
	if db.sql == nil {
		return nil, fmt.Errorf("%w: %w", database.ErrCatalogUnavailable, ErrNullSQL)
	}

	queryCtx, cancel := context.WithTimeout(ctx, db.opts.QueryTimeout)
	defer cancel()

	venues, err := db.breaker.Execute(func() ([]database.Venue, error) {
		return fn(queryCtx, db.sql)
	})
	if err != nil {
		metrics.CatalogQueryErrors.WithLabelValues(op).Inc()
		log.Error().Err(err).Str("op", op).Msg("venue catalog query failed")
		return nil, fmt.Errorf("%w: %s: %w", database.ErrCatalogUnavailable, op, err)
	}
	return venues, nil
}
