/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/libangli218/renpy-visual-editor-sub000/internal/config"
)

func runCLI(t *testing.T, args ...string) error {
	t.Helper()
	root := newRootCmd(config.Defaults())
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	return root.Execute()
}

func TestFmtWriteFormatsInPlace(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.rpy")
	messy := "label start:\n        \"Hello.\"\n"
	if err := os.WriteFile(path, []byte(messy), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	if err := runCLI(t, "fmt", "-w", path); err != nil {
		t.Fatalf("fmt: %+v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := "label start:\n    \"Hello.\"\n"
	if string(got) != want {
		t.Fatalf("formatted content %q, want %q", got, want)
	}
}

func TestFmtWriteRestoresOnFailure(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "a.rpy")
	original := "label start:\n        \"Hello.\"\n"
	if err := os.WriteFile(good, []byte(original), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	missing := filepath.Join(dir, "nope.rpy")

	if err := runCLI(t, "fmt", "-w", good, missing); err == nil {
		t.Fatalf("expected error for missing file")
	}

	got, err := os.ReadFile(good)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(got) != original {
		t.Fatalf("file not restored after failed run: %q", got)
	}
}

func TestFmtStdoutLeavesFileUntouched(t *testing.T) {
	path := filepath.Join(t.TempDir(), "script.rpy")
	messy := "label start:\n        \"Hello.\"\n"
	if err := os.WriteFile(path, []byte(messy), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	root := newRootCmd(config.Defaults())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"fmt", path})
	if err := root.Execute(); err != nil {
		t.Fatalf("fmt: %+v", err)
	}

	if out.String() != "label start:\n    \"Hello.\"\n" {
		t.Fatalf("stdout: %q", out.String())
	}
	got, _ := os.ReadFile(path)
	if string(got) != messy {
		t.Fatalf("file should be untouched: %q", got)
	}
}
