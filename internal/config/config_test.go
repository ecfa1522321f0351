/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package config

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaults(t *testing.T) {
	cfg := Defaults()
	if cfg.ConfigVersion != 1 {
		t.Fatalf("config version: %d", cfg.ConfigVersion)
	}
	if cfg.Editor.IndentSize != 4 || !cfg.Editor.InsertBlankLines {
		t.Fatalf("editor defaults: %+v", cfg.Editor)
	}
	if cfg.Editor.SnapshotKeep != 50 {
		t.Fatalf("snapshot keep: %d", cfg.Editor.SnapshotKeep)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("logging defaults: %+v", cfg.Logging)
	}
	if !cfg.General.Autosave {
		t.Fatalf("autosave should default on")
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	cfg := Defaults()
	cfg.General.Theme = "dark"
	cfg.Editor.IndentSize = 2

	data, err := yaml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal: %+v", err)
	}
	if !strings.Contains(string(data), "indent_size: 2") {
		t.Fatalf("missing key in yaml:\n%s", data)
	}

	got := Defaults()
	if err := yaml.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %+v", err)
	}
	if got.General.Theme != "dark" || got.Editor.IndentSize != 2 {
		t.Fatalf("round trip mismatch: %+v", got)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	cfg := Defaults()
	partial := "editor:\n  indent_size: 8\n"
	if err := yaml.Unmarshal([]byte(partial), &cfg); err != nil {
		t.Fatalf("unmarshal: %+v", err)
	}
	if cfg.Editor.IndentSize != 8 {
		t.Fatalf("indent size not applied: %d", cfg.Editor.IndentSize)
	}
	if !cfg.General.Autosave {
		t.Fatalf("absent key should keep default autosave")
	}
	if cfg.Editor.SnapshotKeep != 50 {
		t.Fatalf("absent key should keep default snapshot keep")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RVE_THEME", "light")
	t.Setenv("RVE_AUTOSAVE", "false")
	t.Setenv("RVE_INDENT_SIZE", "2")
	t.Setenv("RVE_INSERT_BLANK_LINES", "false")
	t.Setenv("RVE_SNAPSHOT_KEEP", "10")
	t.Setenv("RVE_LOG_LEVEL", "DEBUG")
	t.Setenv("RVE_LOG_FORMAT", "JSON")
	t.Setenv("RVE_LOG_FILE", "/tmp/rve.log")

	cfg := Defaults()
	applyEnvOverrides(&cfg)

	if cfg.General.Theme != "light" || cfg.General.Autosave {
		t.Fatalf("general overrides: %+v", cfg.General)
	}
	if cfg.Editor.IndentSize != 2 || cfg.Editor.InsertBlankLines || cfg.Editor.SnapshotKeep != 10 {
		t.Fatalf("editor overrides: %+v", cfg.Editor)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" || cfg.Logging.File != "/tmp/rve.log" {
		t.Fatalf("logging overrides: %+v", cfg.Logging)
	}
}

func TestEnvOverridesIgnoreInvalid(t *testing.T) {
	t.Setenv("RVE_INDENT_SIZE", "zero")
	t.Setenv("RVE_AUTOSAVE", "maybe")
	cfg := Defaults()
	applyEnvOverrides(&cfg)
	if cfg.Editor.IndentSize != 4 {
		t.Fatalf("invalid indent size should be ignored: %d", cfg.Editor.IndentSize)
	}
	if !cfg.General.Autosave {
		t.Fatalf("invalid bool should be ignored")
	}
}

func TestConfigPath(t *testing.T) {
	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("config path: %+v", err)
	}
	if !strings.HasSuffix(path, "config.yaml") {
		t.Fatalf("unexpected path: %s", path)
	}
}
