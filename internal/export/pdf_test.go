/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/libangli218/renpy-visual-editor-sub000/internal/script"
)

const screenplaySource = `label start:
    scene bg park
    show eileen happy
    e "Welcome to the park."
    "The sun was already low."
    menu:
        "Stay a while":
            e "Good choice."
        "Leave":
            jump ending

label ending:
    return
`

func TestExportScriptPDF(t *testing.T) {
	s, rep := script.Parse(screenplaySource, "game/script.rpy")
	if len(rep.Errors) != 0 {
		t.Fatalf("parse errors: %+v", rep.Errors)
	}

	out := filepath.Join(t.TempDir(), "script.pdf")
	err := ExportScriptPDF(s, out, PDFOptions{
		Title:         "Park Scene",
		Author:        "test",
		IncludeLogic:  true,
		SpeakerLookup: map[string]string{"e": "Eileen"},
	})
	if err != nil {
		t.Fatalf("export: %+v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF")) {
		t.Fatalf("not a pdf, %d bytes", len(data))
	}
	if len(data) < 500 {
		t.Fatalf("suspiciously small pdf: %d bytes", len(data))
	}
}

func TestExportScriptPDFNilScript(t *testing.T) {
	if err := ExportScriptPDF(nil, "out.pdf", PDFOptions{}); err == nil {
		t.Fatalf("expected error for nil script")
	}
}
