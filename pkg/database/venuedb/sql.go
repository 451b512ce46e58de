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

package venuedb

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/quizfinder/quizfinder-web/pkg/database"
	"github.com/rs/zerolog/log"
)

// Cities and countries are left joined so a venue with a dangling reference
// still resolves. The catalog is owned elsewhere, so nullable venue columns
// are coalesced too.
const venueSelect = `
	select
		venues.id,
		coalesce(venues.name, ''),
		venues.slug,
		coalesce(venues.city_id, 0),
		coalesce(cities.name, ''),
		coalesce(cities.country_id, 0),
		coalesce(countries.code, ''),
		venues.latitude,
		venues.longitude
	from venues
	left join cities
		on cities.id = venues.city_id
	left join countries
		on countries.id = cities.country_id
`

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike lowercases s and escapes LIKE wildcards so it matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(strings.ToLower(s))
}

func sqlFindVenueBySlug(ctx context.Context, db *sql.DB, slug string) ([]database.Venue, error) {
	rows, err := db.QueryContext(ctx, venueSelect+`
		where venues.slug = ?
		limit 1
	`, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to execute venue slug lookup: %w", err)
	}
	return scanVenues(rows)
}

func sqlSearchVenuesBySlugLike(ctx context.Context, db *sql.DB, pattern string, limit int) ([]database.Venue, error) {
	rows, err := db.QueryContext(ctx, venueSelect+`
		where lower(venues.slug) like ? escape '\'
		order by venues.slug
		limit ?
	`, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to execute venue slug search: %w", err)
	}
	return scanVenues(rows)
}

func scanVenues(rows *sql.Rows) ([]database.Venue, error) {
	defer func() {
		if closeErr := rows.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close venue rows")
		}
	}()

	venues := make([]database.Venue, 0)
	for rows.Next() {
		var (
			v        database.Venue
			lat, lon sql.NullFloat64
		)
		err := rows.Scan(
			&v.DBID,
			&v.Name,
			&v.Slug,
			&v.CityDBID,
			&v.CityName,
			&v.CountryDBID,
			&v.CountryCode,
			&lat,
			&lon,
		)
		if err != nil {
			// a malformed catalog row is not a catalog outage
			log.Warn().Err(err).Msg("skipping unreadable venue row")
			continue
		}
		if lat.Valid {
			v.Latitude = &lat.Float64
		}
		if lon.Valid {
			v.Longitude = &lon.Float64
		}
		venues = append(venues, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("venue rows iteration error: %w", err)
	}
	return venues, nil
}
