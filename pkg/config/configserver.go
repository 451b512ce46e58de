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

package config

import (
	"time"

	apimiddleware "github.com/quizfinder/quizfinder-web/pkg/api/middleware"
)

const (
	DefaultListenAddr         = ":8080"
	DefaultRequestTimeout     = 30 * time.Second
	DefaultRateLimitPerMinute = apimiddleware.DefaultRequestsPerMinute
	DefaultRateLimitBurst     = apimiddleware.DefaultBurstSize
)

type Server struct {
	ListenAddr     string   `toml:"listen_addr" validate:"required,hostname_port"`
	RequestTimeout string   `toml:"request_timeout" validate:"duration"`
	AllowedOrigins []string `toml:"allowed_origins,omitempty" validate:"dive,required"`
	// RateLimitPerMinute of 0 turns per-IP rate limiting off.
	RateLimitPerMinute int `toml:"rate_limit_per_minute" validate:"gte=0"`
	RateLimitBurst     int `toml:"rate_limit_burst" validate:"gte=0"`
	// TrustProxyHeaders takes the client address from X-Forwarded-For,
	// X-Real-IP or True-Client-IP. Only enable behind a reverse proxy that
	// overwrites them.
	TrustProxyHeaders bool `toml:"trust_proxy_headers"`
}

func (c *Instance) ListenAddr() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Server.ListenAddr == "" {
		return DefaultListenAddr
	}
	return c.vals.Server.ListenAddr
}

func (c *Instance) SetListenAddr(addr string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Server.ListenAddr = addr
}

func (c *Instance) RequestTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return parseDuration(c.vals.Server.RequestTimeout, DefaultRequestTimeout)
}

func (c *Instance) AllowedOrigins() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Server.AllowedOrigins
}

// RateLimit returns the per-IP request allowance per minute and the burst
// size.
func (c *Instance) RateLimit() (perMinute, burst int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Server.RateLimitPerMinute, c.vals.Server.RateLimitBurst
}

func (c *Instance) TrustProxyHeaders() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Server.TrustProxyHeaders
}
