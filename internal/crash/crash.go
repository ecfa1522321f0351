/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package crash turns panics into crash report files instead of bare stack
// dumps on stderr.
package crash

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"time"

	applog "github.com/libangli218/renpy-visual-editor-sub000/internal/log"
	"github.com/libangli218/renpy-visual-editor-sub000/internal/storage"
	"github.com/libangli218/renpy-visual-editor-sub000/internal/version"
)

// exitFn allows testing Recover without terminating the test process.
var exitFn = os.Exit

// Recover captures a panic, logs it with the stack trace, and writes a crash
// report file. Reports go to the project's derived-data directory when a
// project is open, otherwise to the system temp dir.
//
// Usage: defer func() { crash.Recover(ph) }()
func Recover(ph *storage.ProjectHandle) {
	if r := recover(); r != nil {
		l := applog.WithComponent("crash")
		stack := debug.Stack()
		l.Error("panic recovered", slog.Any("panic", r), slog.String("stack", string(stack)))

		reportPath, err := writeReport(ph, r, stack)
		if err != nil {
			l.Error("crash report write failed", slog.Any("err", err))
		}

		fmt.Fprintf(os.Stderr, "A fatal error occurred. A crash report was saved to: %s\n", reportPath)
		fmt.Fprintf(os.Stderr, "Version: %s\nOS/Arch: %s/%s\n", version.String(), runtime.GOOS, runtime.GOARCH)
		exitFn(2)
	}
}

func writeReport(ph *storage.ProjectHandle, panicVal any, stack []byte) (string, error) {
	dir := os.TempDir()
	if ph != nil && ph.Root != "" {
		dir = storage.DerivedDir(ph.Root)
		_ = os.MkdirAll(dir, 0o755)
	}
	stamp := time.Now().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("crash-%s.log", stamp))

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "Renpy Visual Editor Crash Report\n")
	fmt.Fprintf(&buf, "Timestamp: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&buf, "Version: %s\n", version.String())
	fmt.Fprintf(&buf, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	if ph != nil {
		fmt.Fprintf(&buf, "ProjectRoot: %s\n", ph.Root)
	}
	fmt.Fprintf(&buf, "\nPanic: %v\n\n", panicVal)
	fmt.Fprintf(&buf, "Stack:\n%s\n", string(stack))

	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return path, err
	}
	return path, nil
}
