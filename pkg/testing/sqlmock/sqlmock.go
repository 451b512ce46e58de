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

// Package sqlmock provides SQL mocking utilities for testing.
// This package is separate from helpers to avoid import cycles with database packages.
package sqlmock

import (
	"database/sql"
	"fmt"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/quizfinder/quizfinder-web/pkg/database"
)

// VenueColumns is the column set every venue catalog query selects.
var VenueColumns = []string{
	"id", "name", "slug", "city_id", "city_name", "country_id", "country_code", "latitude", "longitude",
}

// NewSQLMock creates a sqlmock with regex query matching enabled.
func NewSQLMock() (*sql.DB, sqlmock.Sqlmock, error) {
	db, mockDB, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create sqlmock: %w", err)
	}
	return db, mockDB, nil
}

// VenueRows builds a result set in VenueColumns order.
func VenueRows(venues ...database.Venue) *sqlmock.Rows {
	rows := sqlmock.NewRows(VenueColumns)
	for i := range venues {
		v := &venues[i]
		var lat, lon any
		if v.Latitude != nil {
			lat = *v.Latitude
		}
		if v.Longitude != nil {
			lon = *v.Longitude
		}
		rows.AddRow(v.DBID, v.Name, v.Slug, v.CityDBID, v.CityName, v.CountryDBID, v.CountryCode, lat, lon)
	}
	return rows
}
