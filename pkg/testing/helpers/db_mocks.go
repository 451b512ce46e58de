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

// Package helpers provides testing utilities for venue catalog consumers.
//
// MockVenueCatalog is a testify mock for asserting exact catalog calls.
// InMemoryCatalog is a working catalog over a slice of venues for tests that
// care about results rather than calls.
//
// Example usage:
//
//	func TestLookup(t *testing.T) {
//		catalog := helpers.NewMockVenueCatalog()
//		catalog.On("FindVenueBySlug", mock.Anything, "hop-pole").
//			Return(&fixtures.Venues.HopPole, nil)
//
//		err := MyFunction(catalog)
//
//		require.NoError(t, err)
//		catalog.AssertExpectations(t)
//	}
package helpers

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/quizfinder/quizfinder-web/pkg/database"
	"github.com/quizfinder/quizfinder-web/pkg/testing/sqlmock"
	"github.com/stretchr/testify/mock"
)

// NewSQLMock re-exports the regex-matching sqlmock constructor.
var NewSQLMock = sqlmock.NewSQLMock

// MockVenueCatalog is a mock implementation of database.VenueCatalog using testify/mock.
type MockVenueCatalog struct {
	mock.Mock
}

func NewMockVenueCatalog() *MockVenueCatalog {
	return &MockVenueCatalog{}
}

func (m *MockVenueCatalog) FindVenueBySlug(ctx context.Context, slug string) (*database.Venue, error) {
	args := m.Called(ctx, slug)
	if err := args.Error(1); err != nil {
		return nil, fmt.Errorf("mock operation failed: %w", err)
	}
	if venue, ok := args.Get(0).(*database.Venue); ok {
		return venue, nil
	}
	return nil, nil
}

func (m *MockVenueCatalog) SearchVenuesBySlugSubstring(
	ctx context.Context, term string, limit int,
) ([]database.Venue, error) {
	args := m.Called(ctx, term, limit)
	if err := args.Error(1); err != nil {
		return nil, fmt.Errorf("mock operation failed: %w", err)
	}
	if venues, ok := args.Get(0).([]database.Venue); ok {
		return venues, nil
	}
	return nil, nil
}

func (m *MockVenueCatalog) SearchVenuesBySlugPrefix(
	ctx context.Context, prefix string, limit int,
) ([]database.Venue, error) {
	args := m.Called(ctx, prefix, limit)
	if err := args.Error(1); err != nil {
		return nil, fmt.Errorf("mock operation failed: %w", err)
	}
	if venues, ok := args.Get(0).([]database.Venue); ok {
		return venues, nil
	}
	return nil, nil
}

// ErrLimit is returned by InMemoryCatalog for non-positive limits, matching
// the SQL catalog.
var ErrLimit = errors.New("search limit must be positive")

// InMemoryCatalog answers catalog queries from a fixed venue list, ordered
// by slug like the SQL catalog.
type InMemoryCatalog struct {
	venues []database.Venue
	// Err, when set, is returned by every query wrapped in
	// database.ErrCatalogUnavailable.
	Err error
}

func NewInMemoryCatalog(venues ...database.Venue) *InMemoryCatalog {
	sorted := make([]database.Venue, len(venues))
	copy(sorted, venues)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Slug < sorted[j].Slug
	})
	return &InMemoryCatalog{venues: sorted}
}

func (c *InMemoryCatalog) FindVenueBySlug(_ context.Context, slug string) (*database.Venue, error) {
	if c.Err != nil {
		return nil, fmt.Errorf("%w: %w", database.ErrCatalogUnavailable, c.Err)
	}
	for i := range c.venues {
		if c.venues[i].Slug == slug {
			v := c.venues[i]
			return &v, nil
		}
	}
	return nil, nil
}

func (c *InMemoryCatalog) SearchVenuesBySlugSubstring(
	_ context.Context, term string, limit int,
) ([]database.Venue, error) {
	return c.search(term, limit, strings.Contains)
}

func (c *InMemoryCatalog) SearchVenuesBySlugPrefix(
	_ context.Context, prefix string, limit int,
) ([]database.Venue, error) {
	return c.search(prefix, limit, strings.HasPrefix)
}

func (c *InMemoryCatalog) search(term string, limit int, match func(s, term string) bool) ([]database.Venue, error) {
	if c.Err != nil {
		return nil, fmt.Errorf("%w: %w", database.ErrCatalogUnavailable, c.Err)
	}
	if limit <= 0 {
		return nil, ErrLimit
	}
	term = strings.ToLower(term)
	results := make([]database.Venue, 0)
	for i := range c.venues {
		if len(results) >= limit {
			break
		}
		if match(strings.ToLower(c.venues[i].Slug), term) {
			results = append(results, c.venues[i])
		}
	}
	return results, nil
}
