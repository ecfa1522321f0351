/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package config loads and persists user-scope editor configuration as YAML.
// Values resolve in three layers: built-in defaults, the config file, then
// RVE_* environment variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the root configuration document.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Editor        EditorConfig  `yaml:"editor"`
	Logging       LoggingConfig `yaml:"logging"`
}

type GeneralConfig struct {
	Theme    string `yaml:"theme"`
	Autosave bool   `yaml:"autosave"`
}

// EditorConfig controls script generation and history behavior.
type EditorConfig struct {
	IndentSize       int  `yaml:"indent_size"`
	InsertBlankLines bool `yaml:"insert_blank_lines"`
	SnapshotKeep     int  `yaml:"snapshot_keep"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General: GeneralConfig{
			Theme:    "system",
			Autosave: true,
		},
		Editor: EditorConfig{
			IndentSize:       4,
			InsertBlankLines: true,
			SnapshotKeep:     50,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// ConfigPath returns the per-user config file location for the current OS.
func ConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	var dir string
	switch runtime.GOOS {
	case "windows", "darwin":
		dir = filepath.Join(base, "RenpyVisualEditor")
	default:
		dir = filepath.Join(base, "renpy-visual-editor")
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads the config file if present, merges it over defaults, then applies
// environment overrides. A missing file is not an error.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			applyEnvOverrides(&cfg)
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	// Unmarshal over the defaults so absent keys keep their default values.
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		cfg = Defaults()
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes cfg to the per-user config path, creating the directory.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace config: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv("RVE_THEME"); v != "" {
		cfg.General.Theme = v
	}
	if v := os.Getenv("RVE_AUTOSAVE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.General.Autosave = b
		}
	}
	if v := os.Getenv("RVE_INDENT_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Editor.IndentSize = n
		}
	}
	if v := os.Getenv("RVE_INSERT_BLANK_LINES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Editor.InsertBlankLines = b
		}
	}
	if v := os.Getenv("RVE_SNAPSHOT_KEEP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Editor.SnapshotKeep = n
		}
	}
	if v := os.Getenv("RVE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("RVE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := os.Getenv("RVE_LOG_FILE"); v != "" {
		cfg.Logging.File = v
	}
}
