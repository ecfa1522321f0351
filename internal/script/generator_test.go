/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"strings"
	"testing"
)

func TestGenerateShowCanonicalClauseOrder(t *testing.T) {
	sh := NewShow("eileen")
	sh.Attributes = []string{"happy"}
	sh.AsTag = "e"
	sh.AtPosition = "center"
	sh.BehindTag = "lucy"
	sh.OnLayer = "master"
	sh.ZOrder = "5"
	sh.WithTransition = "dissolve"
	s := &Script{Statements: []Stmt{sh}}
	got := Generate(s, nil)
	want := "show eileen happy as e at center behind lucy onlayer master zorder 5 with dissolve\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGenerateNarrationEscaping(t *testing.T) {
	d := NewDialogue("", "He said \"Hello\"\nNew line")
	got := Generate(&Script{Statements: []Stmt{d}}, nil)
	want := `"He said \"Hello\"\nNew line"` + "\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGenerateEmptyLabelPlaceholder(t *testing.T) {
	lbl := NewLabel("empty", nil)
	got := Generate(&Script{Statements: []Stmt{lbl}}, nil)
	if got != "label empty:\n    pass\n" {
		t.Fatalf("got %q", got)
	}
}

func TestGenerateEmptyChoiceAndBranchPlaceholders(t *testing.T) {
	m := NewMenu()
	m.Choices = append(m.Choices, NewMenuChoice("Stay"))
	iff := NewIf("ready")
	got := Generate(&Script{Statements: []Stmt{m, iff}}, nil)
	want := strings.Join([]string{
		"menu:",
		"    \"Stay\":",
		"        pass",
		"if ready:",
		"    pass",
	}, "\n") + "\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGenerateBlankLinePolicy(t *testing.T) {
	def1 := NewDefine("e", `Character("Eileen")`)
	def2 := NewDefault("points", "0")
	lbl := NewLabel("start", nil)
	lbl.Body = []Stmt{NewDialogue("e", "Hi")}
	jump := NewJump("start")
	s := &Script{Statements: []Stmt{def1, def2, lbl, jump}}

	got := Generate(s, nil)
	want := strings.Join([]string{
		`define e = Character("Eileen")`,
		"default points = 0",
		"",
		"label start:",
		`    e "Hi"`,
		"",
		"jump start",
	}, "\n") + "\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGenerateNoBlankLinesWhenDisabled(t *testing.T) {
	lbl := NewLabel("a", nil)
	lbl.Body = []Stmt{NewDialogue("", "x")}
	raw := NewRaw("screen s():\n    pass")
	s := &Script{Statements: []Stmt{NewDefine("v", "1"), lbl, raw, NewJump("a")}}
	opts := GenerateOptions{IndentSize: 4}
	got := Generate(s, &opts)
	if strings.Contains(got, "\n\n") {
		t.Fatalf("blank lines present despite disabled policy: %q", got)
	}
}

func TestGeneratePythonBlankCodeLinesFollowPolicy(t *testing.T) {
	py := NewPython("a = 1\n\nb = 2", true)
	s := &Script{Statements: []Stmt{py}}

	off := Generate(s, &GenerateOptions{IndentSize: 4})
	if strings.Contains(off, "\n\n") {
		t.Fatalf("blank code line leaked despite disabled policy: %q", off)
	}
	if off != "python:\n    a = 1\n    b = 2\n" {
		t.Fatalf("unexpected output: %q", off)
	}

	on := Generate(s, &GenerateOptions{IndentSize: 4, InsertBlankLines: true})
	if on != "python:\n    a = 1\n\n    b = 2\n" {
		t.Fatalf("unexpected output with policy on: %q", on)
	}
}

func TestGenerateBlankLinesAroundRawBlock(t *testing.T) {
	raw := NewRaw("screen s():\n    pass")
	s := &Script{Statements: []Stmt{NewJump("a"), raw, NewJump("b")}}
	got := Generate(s, nil)
	want := "jump a\n\nscreen s():\n    pass\n\njump b\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestGenerateIndentationInvariant(t *testing.T) {
	src := strings.Join([]string{
		"label start:",
		"    menu:",
		"        \"Go\":",
		"            if x:",
		"                jump a",
		"            else:",
		"                jump b",
	}, "\n")
	s, _ := Parse(src, "")
	for _, size := range []int{2, 4, 8} {
		opts := GenerateOptions{IndentSize: size, InsertBlankLines: true}
		out := Generate(s, &opts)
		for _, line := range strings.Split(out, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			lead := len(line) - len(strings.TrimLeft(line, " "))
			if lead%size != 0 {
				t.Fatalf("size %d: line %q has %d leading spaces", size, line, lead)
			}
		}
	}
}

func TestGeneratePlayStopAndNvl(t *testing.T) {
	pl := NewPlay(ChannelMusic, "theme.ogg")
	pl.FadeIn = "2.0"
	pl.Loop = "loop"
	pl.Volume = "0.8"
	pl.IfChanged = true
	q := NewPlay(ChannelSound, "door.ogg")
	q.Queue = true
	q.Loop = "noloop"
	st := NewStop(ChannelMusic)
	st.FadeOut = "1.5"
	n := NewNVL(NVLShow)
	n.Transition = "dissolve"
	got := Generate(&Script{Statements: []Stmt{pl, q, st, n}}, nil)
	want := strings.Join([]string{
		`play music "theme.ogg" fadein 2.0 loop volume 0.8 if_changed`,
		`queue sound "door.ogg" noloop`,
		"stop music fadeout 1.5",
		"nvl show dissolve",
	}, "\n") + "\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestEscapeUnescapeInverse(t *testing.T) {
	cases := []string{
		"",
		"plain",
		`with "quotes"`,
		"line\nbreak\tand tab",
		`backslash \ and \" pair`,
		`\\n is not a newline`,
		"trailing backslash \\",
	}
	for _, in := range cases {
		if got := UnescapeString(EscapeString(in)); got != in {
			t.Fatalf("round trip of %q gave %q", in, got)
		}
	}
}
