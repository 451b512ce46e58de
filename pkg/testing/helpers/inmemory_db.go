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

package helpers

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/quizfinder/quizfinder-web/pkg/database"
	"github.com/quizfinder/quizfinder-web/pkg/database/venuedb"
	"github.com/quizfinder/quizfinder-web/pkg/testing/fixtures"
)

// NewCatalogFile writes a seeded venue catalog to a temporary SQLite file
// and returns its path. The file is removed with the test's temp dir.
func NewCatalogFile(t *testing.T, venues []database.Venue) string {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "catalog_test.db")

	// the service only ever opens the catalog read-only, so seed it over a
	// separate writable connection first
	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open test catalog: %v", err)
	}
	defer func() {
		if closeErr := sqlDB.Close(); closeErr != nil {
			t.Errorf("Failed to close seeding connection: %v", closeErr)
		}
	}()

	if err := fixtures.SeedCatalog(context.Background(), sqlDB, venues); err != nil {
		t.Fatalf("Failed to seed test catalog: %v", err)
	}

	return dbPath
}

// NewInMemoryVenueDB opens a read-only VenueDB over a temp catalog seeded
// with the given venues, or with fixtures.Venues.Collection if none are
// given.
func NewInMemoryVenueDB(t *testing.T, venues ...database.Venue) (db *venuedb.VenueDB, cleanup func()) {
	t.Helper()

	if len(venues) == 0 {
		venues = fixtures.Venues.Collection
	}
	dbPath := NewCatalogFile(t, venues)

	db, err := venuedb.OpenVenueDB(context.Background(), venuedb.Options{
		Path:         dbPath,
		QueryTimeout: 5 * time.Second,
	})
	if err != nil {
		t.Fatalf("Failed to open VenueDB: %v", err)
	}

	cleanup = func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close VenueDB: %v", err)
		}
	}

	return db, cleanup
}
