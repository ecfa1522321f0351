/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package extract

import (
	"testing"

	"github.com/libangli218/renpy-visual-editor-sub000/internal/script"
)

const rosterSource = `define e = Character("Eileen", color="#c8ffc8")
define m = Character('Marc')
define narrator_style = "plain"
default affection = 0
default seen_intro = False

label start:
    e "Hello."
    jump chapter1

label chapter1:
    menu:
        "Go left":
            call lookup
        "Go right":
            jump finale

label lookup:
    return

label unreachable:
    return
`

func parseRoster(t *testing.T) *script.Script {
	t.Helper()
	s, rep := script.Parse(rosterSource, "game/script.rpy")
	if len(rep.Errors) != 0 {
		t.Fatalf("parse errors: %+v", rep.Errors)
	}
	return s
}

func TestCharacters(t *testing.T) {
	chars := Characters(parseRoster(t))
	if len(chars) != 2 {
		t.Fatalf("characters: %+v", chars)
	}
	if chars[0].ID != "e" || chars[0].DisplayName != "Eileen" {
		t.Fatalf("first character: %+v", chars[0])
	}
	if chars[1].ID != "m" || chars[1].DisplayName != "Marc" {
		t.Fatalf("second character: %+v", chars[1])
	}
	if chars[0].Definition != `Character("Eileen", color="#c8ffc8")` {
		t.Fatalf("definition not preserved: %q", chars[0].Definition)
	}
}

func TestVariables(t *testing.T) {
	vars := Variables(parseRoster(t))
	if len(vars) != 3 {
		t.Fatalf("variables: %+v", vars)
	}
	if vars[0].Name != "narrator_style" || vars[0].Default {
		t.Fatalf("define variable: %+v", vars[0])
	}
	if vars[1].Name != "affection" || !vars[1].Default || vars[1].Value != "0" {
		t.Fatalf("default variable: %+v", vars[1])
	}
	if vars[2].Name != "seen_intro" || vars[2].Value != "False" {
		t.Fatalf("default variable: %+v", vars[2])
	}
}

func TestLabelCrossRefs(t *testing.T) {
	cr := LabelCrossRefs(parseRoster(t))

	wantLabels := []string{"start", "chapter1", "lookup", "unreachable"}
	if len(cr.Labels) != len(wantLabels) {
		t.Fatalf("labels: %+v", cr.Labels)
	}
	for i, name := range wantLabels {
		if cr.Labels[i] != name {
			t.Fatalf("label %d: %q want %q", i, cr.Labels[i], name)
		}
	}

	if len(cr.Refs) != 3 {
		t.Fatalf("refs: %+v", cr.Refs)
	}
	if len(cr.ByName["chapter1"]) != 1 || cr.ByName["chapter1"][0].Kind != "jump" {
		t.Fatalf("chapter1 refs: %+v", cr.ByName["chapter1"])
	}
	if len(cr.ByName["lookup"]) != 1 || cr.ByName["lookup"][0].Kind != "call" {
		t.Fatalf("lookup refs: %+v", cr.ByName["lookup"])
	}

	// finale is jumped to but never declared
	if len(cr.Orphan) != 1 || cr.Orphan[0].Target != "finale" {
		t.Fatalf("orphans: %+v", cr.Orphan)
	}

	// start and unreachable are never referenced
	if len(cr.Unused) != 2 || cr.Unused[0] != "start" || cr.Unused[1] != "unreachable" {
		t.Fatalf("unused: %+v", cr.Unused)
	}
}

func TestCrossRefsAcrossScripts(t *testing.T) {
	a, _ := script.Parse("label start:\n    jump other\n", "a.rpy")
	b, _ := script.Parse("label other:\n    return\n", "b.rpy")
	cr := LabelCrossRefs(a, b)
	if len(cr.Orphan) != 0 {
		t.Fatalf("cross-file target should resolve: %+v", cr.Orphan)
	}
	if len(cr.ByName["other"]) != 1 {
		t.Fatalf("refs: %+v", cr.ByName)
	}
}
