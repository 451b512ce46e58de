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

package database

import (
	"context"
	"errors"
)

/*
 * The venue catalog is owned by an external system. Everything in this
 * package describes the read-only view the web front door has of it.
 */

// ErrCatalogUnavailable marks a failure to reach the venue catalog
// (connectivity, timeout, open circuit breaker). It is never returned for a
// query that simply matched nothing.
var ErrCatalogUnavailable = errors.New("venue catalog unavailable")

/*
 * Structs for SQL records
 */

type Venue struct {
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug"`
	CityName    string   `json:"city"`
	CountryCode string   `json:"countryCode"`
	DBID        int64    `json:"id"`
	CityDBID    int64    `json:"cityId"`
	CountryDBID int64    `json:"countryId"`
}

/*
 * Interfaces for external deps
 */

// VenueCatalog is the read access the matcher and web layer need from the
// catalog. Implementations must bound every search by limit.
type VenueCatalog interface {
	// FindVenueBySlug returns the venue whose slug equals slug exactly, or
	// nil with no error if there is none.
	FindVenueBySlug(ctx context.Context, slug string) (*Venue, error)
	// SearchVenuesBySlugSubstring returns venues whose slug contains term,
	// case-insensitively.
	SearchVenuesBySlugSubstring(ctx context.Context, term string, limit int) ([]Venue, error)
	// SearchVenuesBySlugPrefix returns venues whose slug starts with prefix,
	// case-insensitively.
	SearchVenuesBySlugPrefix(ctx context.Context, prefix string, limit int) ([]Venue, error)
}

type CatalogDBI interface {
	VenueCatalog
	Open(ctx context.Context) error
	Close() error
	GetDBPath() string
}
