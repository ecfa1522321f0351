/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package extract derives project-level views from parsed script trees:
// the character roster, declared variables, and the label reference graph.
package extract

import (
	"regexp"
	"strings"

	"github.com/libangli218/renpy-visual-editor-sub000/internal/script"
)

// Character is a speaker declared with a Character(...) define.
type Character struct {
	ID          string // the variable the character is bound to
	DisplayName string // the first string argument, if any
	Definition  string // the full right-hand side as written
}

// Variable is a define or default that does not declare a character.
type Variable struct {
	Name    string
	Value   string
	Default bool // true for default, false for define
}

// LabelRef says where a label is jumped to or called from.
type LabelRef struct {
	Target string
	Kind   string // "jump" or "call"
	Line   int
}

// CrossRefs summarizes the label graph of one or more scripts.
type CrossRefs struct {
	Labels []string             // declared labels in source order
	Refs   []LabelRef           // every jump and call
	Orphan []LabelRef           // refs whose target has no declaration
	Unused []string             // labels never referenced
	ByName map[string][]LabelRef
}

var reCharacterCall = regexp.MustCompile(`^Character\s*\(\s*(?:"((?:[^"\\]|\\.)*)"|'((?:[^'\\]|\\.)*)')?`)

// Characters returns the characters declared by top-level defines whose value
// is a Character(...) call.
func Characters(s *script.Script) []Character {
	var out []Character
	for _, st := range s.Statements {
		d, ok := st.(*script.Define)
		if !ok {
			continue
		}
		m := reCharacterCall.FindStringSubmatch(strings.TrimSpace(d.Value))
		if m == nil {
			continue
		}
		name := m[1]
		if name == "" {
			name = m[2]
		}
		out = append(out, Character{ID: d.Name, DisplayName: script.UnescapeString(name), Definition: d.Value})
	}
	return out
}

// Variables returns defaults plus the defines that are not character
// declarations.
func Variables(s *script.Script) []Variable {
	var out []Variable
	for _, st := range s.Statements {
		switch d := st.(type) {
		case *script.Define:
			if reCharacterCall.MatchString(strings.TrimSpace(d.Value)) {
				continue
			}
			out = append(out, Variable{Name: d.Name, Value: d.Value})
		case *script.Default:
			out = append(out, Variable{Name: d.Name, Value: d.Value, Default: true})
		}
	}
	return out
}

// LabelCrossRefs builds the label reference graph across the given scripts.
// Jumps and calls inside nested bodies are found as well.
func LabelCrossRefs(scripts ...*script.Script) *CrossRefs {
	cr := &CrossRefs{ByName: make(map[string][]LabelRef)}
	declared := make(map[string]bool)

	for _, s := range scripts {
		for _, st := range s.Statements {
			if l, ok := st.(*script.Label); ok && !declared[l.Name] {
				declared[l.Name] = true
				cr.Labels = append(cr.Labels, l.Name)
			}
		}
	}
	for _, s := range scripts {
		script.Walk(s.Statements, func(st script.Stmt) bool {
			switch n := st.(type) {
			case *script.Jump:
				cr.addRef(LabelRef{Target: n.Target, Kind: "jump", Line: n.SrcLine()})
			case *script.Call:
				cr.addRef(LabelRef{Target: n.Target, Kind: "call", Line: n.SrcLine()})
			}
			return true
		})
	}

	for _, ref := range cr.Refs {
		if !declared[ref.Target] {
			cr.Orphan = append(cr.Orphan, ref)
		}
	}
	for _, name := range cr.Labels {
		if len(cr.ByName[name]) == 0 {
			cr.Unused = append(cr.Unused, name)
		}
	}
	return cr
}

func (cr *CrossRefs) addRef(ref LabelRef) {
	cr.Refs = append(cr.Refs, ref)
	cr.ByName[ref.Target] = append(cr.ByName[ref.Target], ref)
}
