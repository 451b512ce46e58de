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

package fixtures

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/quizfinder/quizfinder-web/pkg/database"
)

// Venue catalog fixtures for testing. The catalog schema belongs to the
// ingestion system; CatalogSchema mirrors the columns this service reads.

const CatalogSchema = `
	create table countries (
		id INTEGER PRIMARY KEY,
		name text not null,
		code text not null
	);

	create table cities (
		id INTEGER PRIMARY KEY,
		name text not null,
		slug text not null,
		country_id integer not null references countries(id)
	);

	create table venues (
		id INTEGER PRIMARY KEY,
		name text,
		slug text unique not null,
		city_id integer references cities(id),
		latitude real,
		longitude real
	);

	create index venues_slug_idx on venues (slug);
`

func floatPtr(f float64) *float64 {
	return &f
}

// Venues provides sample catalog venues. All of them sit in Windsor, CA,
// except the Albion Hotel in London, GB.
var Venues = struct {
	HopPole            database.Venue
	BorderCityAleHouse database.Venue
	CityAleHouse       database.Venue
	DowntownAleWorks   database.Venue
	AlbionHotel        database.Venue
	TheCrown           database.Venue
	TheCrownIslington  database.Venue
	Collection         []database.Venue
}{}

func init() {
	Venues.HopPole = database.Venue{
		DBID: 1, Name: "Hop Pole", Slug: "hop-pole",
		CityDBID: 1, CityName: "Windsor", CountryDBID: 1, CountryCode: "CA",
		Latitude: floatPtr(42.3149), Longitude: floatPtr(-83.0364),
	}
	Venues.BorderCityAleHouse = database.Venue{
		DBID: 2, Name: "Border City Ale House", Slug: "border-city-ale-house",
		CityDBID: 1, CityName: "Windsor", CountryDBID: 1, CountryCode: "CA",
	}
	Venues.CityAleHouse = database.Venue{
		DBID: 3, Name: "City Ale House", Slug: "city-ale-house",
		CityDBID: 1, CityName: "Windsor", CountryDBID: 1, CountryCode: "CA",
	}
	Venues.DowntownAleWorks = database.Venue{
		DBID: 4, Name: "Downtown Ale Works", Slug: "downtown-ale-works",
		CityDBID: 1, CityName: "Windsor", CountryDBID: 1, CountryCode: "CA",
	}
	Venues.AlbionHotel = database.Venue{
		DBID: 5, Name: "Albion Hotel", Slug: "albion-hotel",
		CityDBID: 2, CityName: "London", CountryDBID: 2, CountryCode: "GB",
		Latitude: floatPtr(51.5390), Longitude: floatPtr(-0.1426),
	}
	Venues.TheCrown = database.Venue{
		DBID: 6, Name: "The Crown", Slug: "the-crown",
		CityDBID: 2, CityName: "London", CountryDBID: 2, CountryCode: "GB",
	}
	Venues.TheCrownIslington = database.Venue{
		DBID: 7, Name: "The Crown (Islington)", Slug: "the-crown-islington",
		CityDBID: 2, CityName: "London", CountryDBID: 2, CountryCode: "GB",
	}
	Venues.Collection = []database.Venue{
		Venues.HopPole,
		Venues.BorderCityAleHouse,
		Venues.CityAleHouse,
		Venues.DowntownAleWorks,
		Venues.AlbionHotel,
		Venues.TheCrown,
		Venues.TheCrownIslington,
	}
}

// SeedCatalog creates the catalog schema in db and inserts venues along
// with the cities and countries they reference.
func SeedCatalog(ctx context.Context, db *sql.DB, venues []database.Venue) error {
	if _, err := db.ExecContext(ctx, CatalogSchema); err != nil {
		return fmt.Errorf("failed to create catalog schema: %w", err)
	}

	countries := make(map[int64]bool)
	cities := make(map[int64]bool)
	for i := range venues {
		v := &venues[i]
		if !countries[v.CountryDBID] {
			_, err := db.ExecContext(ctx,
				"insert into countries (id, name, code) values (?, ?, ?)",
				v.CountryDBID, v.CountryCode, v.CountryCode)
			if err != nil {
				return fmt.Errorf("failed to insert country %d: %w", v.CountryDBID, err)
			}
			countries[v.CountryDBID] = true
		}
		if !cities[v.CityDBID] {
			_, err := db.ExecContext(ctx,
				"insert into cities (id, name, slug, country_id) values (?, ?, lower(?), ?)",
				v.CityDBID, v.CityName, v.CityName, v.CountryDBID)
			if err != nil {
				return fmt.Errorf("failed to insert city %d: %w", v.CityDBID, err)
			}
			cities[v.CityDBID] = true
		}
		_, err := db.ExecContext(ctx,
			"insert into venues (id, name, slug, city_id, latitude, longitude) values (?, ?, ?, ?, ?, ?)",
			v.DBID, v.Name, v.Slug, v.CityDBID, v.Latitude, v.Longitude)
		if err != nil {
			return fmt.Errorf("failed to insert venue %q: %w", v.Slug, err)
		}
	}
	return nil
}
