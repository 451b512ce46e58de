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

//go:build !deadlock

// Package syncutil wraps the sync mutexes so that builds tagged "deadlock"
// swap in go-deadlock's lock-order and timeout detection.
package syncutil

import "sync"

// DeadlockEnabled reports whether this build carries the deadlock detector.
const DeadlockEnabled = false

type Mutex struct {
	sync.Mutex //nolint:forbidigo // wrapper
}

type RWMutex struct {
	sync.RWMutex //nolint:forbidigo // wrapper
}
