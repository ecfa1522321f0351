/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package crash

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/libangli218/renpy-visual-editor-sub000/internal/storage"
)

func TestRecoverWritesReport(t *testing.T) {
	root := t.TempDir()
	ph, err := storage.InitProject(root, "crashy")
	if err != nil {
		t.Fatalf("init: %+v", err)
	}

	exited := -1
	exitFn = func(code int) { exited = code }
	defer func() { exitFn = os.Exit }()

	func() {
		defer func() { Recover(ph) }()
		panic("boom")
	}()

	if exited != 2 {
		t.Fatalf("exit code: %d", exited)
	}

	entries, err := os.ReadDir(storage.DerivedDir(root))
	if err != nil {
		t.Fatalf("read derived dir: %v", err)
	}
	var report string
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), "crash-") && strings.HasSuffix(e.Name(), ".log") {
			report = filepath.Join(storage.DerivedDir(root), e.Name())
		}
	}
	if report == "" {
		t.Fatalf("no crash report written")
	}
	data, err := os.ReadFile(report)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(data), "Panic: boom") {
		t.Fatalf("report missing panic value:\n%s", data)
	}
	if !strings.Contains(string(data), "Stack:") {
		t.Fatalf("report missing stack:\n%s", data)
	}
}

func TestRecoverNoPanicIsNoop(t *testing.T) {
	exited := -1
	exitFn = func(code int) { exited = code }
	defer func() { exitFn = os.Exit }()

	func() {
		defer func() { Recover(nil) }()
	}()

	if exited != -1 {
		t.Fatalf("exit should not be called without a panic")
	}
}
