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
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/quizfinder/quizfinder-web/pkg/config"
)

// NewTestConfig loads a config from a temp directory. extra is appended to
// the file after config_schema, so it can set top-level keys and sections.
func NewTestConfig(t *testing.T, extra string) (*config.Instance, error) {
	t.Helper()

	configDir := t.TempDir()
	content := fmt.Sprintf("config_schema = %d\n%s", config.SchemaVersion, extra)
	err := os.WriteFile(filepath.Join(configDir, config.CfgFile), []byte(content), 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to write test config: %w", err)
	}

	cfg, err := config.NewConfig(configDir, config.BaseDefaults)
	if err != nil {
		return nil, fmt.Errorf("failed to load test config: %w", err)
	}
	return cfg, nil
}
