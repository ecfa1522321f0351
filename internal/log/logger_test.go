/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package log

import (
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range cases {
		if got := parseLevel(in); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("RVE_LOG_LEVEL", "")
	t.Setenv("RVE_LOG_FORMAT", "")
	t.Setenv("RVE_LOG_FILE", "")
	opts := FromEnv()
	if opts.Level != "info" || opts.Format != "console" || opts.File != "" {
		t.Fatalf("unexpected defaults: %+v", opts)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("RVE_LOG_LEVEL", "debug")
	t.Setenv("RVE_LOG_FORMAT", "json")
	t.Setenv("RVE_LOG_SOURCE", "true")
	t.Setenv("RVE_LOG_FILE", "/tmp/rve.log")
	opts := FromEnv()
	if opts.Level != "debug" || opts.Format != "json" || opts.File != "/tmp/rve.log" {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if !opts.AddSource {
		t.Fatalf("source flag not read")
	}
}

func TestPrettyHandlerOutput(t *testing.T) {
	var sb strings.Builder
	h := &prettyHandler{level: slog.LevelInfo, w: &sb}
	logger := slog.New(h).With(slog.String("component", "parser"))

	logger.Info("parsed file", slog.Int("statements", 7))

	out := sb.String()
	if !strings.Contains(out, "INF") {
		t.Fatalf("missing level marker in %q", out)
	}
	if !strings.Contains(out, "parsed file") {
		t.Fatalf("missing message in %q", out)
	}
	if !strings.Contains(out, "component=parser") {
		t.Fatalf("missing bound attr in %q", out)
	}
	if !strings.Contains(out, "statements=7") {
		t.Fatalf("missing record attr in %q", out)
	}
}

func TestPrettyHandlerLevelFilter(t *testing.T) {
	h := &prettyHandler{level: slog.LevelWarn, w: &strings.Builder{}}
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Fatalf("info should be filtered at warn level")
	}
	if !h.Enabled(context.Background(), slog.LevelError) {
		t.Fatalf("error should pass at warn level")
	}
}

func TestWithComponent(t *testing.T) {
	Init(Options{Level: "error", Format: "json"})
	l := WithComponent("generator")
	if l == nil {
		t.Fatalf("expected logger")
	}
	l2 := WithOperation(l, "emit")
	if l2 == nil {
		t.Fatalf("expected logger")
	}
}
