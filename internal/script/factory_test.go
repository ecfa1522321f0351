/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "testing"

func TestNodeIDsMonotonic(t *testing.T) {
	ResetNodeIDs()
	a := NewLabel("a", nil)
	b := NewDialogue("", "x")
	c := NewJump("a")
	if a.NodeID() != 1 || b.NodeID() != 2 || c.NodeID() != 3 {
		t.Fatalf("ids not monotonic from 1: %d %d %d", a.NodeID(), b.NodeID(), c.NodeID())
	}
	ResetNodeIDs()
	if d := NewReturn(); d.NodeID() != 1 {
		t.Fatalf("reset did not restart allocation: %d", d.NodeID())
	}
}

func TestFactoryDefaultsOptionalFieldsAbsent(t *testing.T) {
	sh := NewShow("eileen")
	if sh.AsTag != "" || sh.AtPosition != "" || sh.BehindTag != "" ||
		sh.OnLayer != "" || sh.ZOrder != "" || sh.WithTransition != "" {
		t.Fatalf("optional fields not absent: %+v", sh)
	}
	if sh.SrcLine() != 0 {
		t.Fatalf("factory nodes carry no source line: %d", sh.SrcLine())
	}
	pl := NewPlay(ChannelMusic, "f.ogg")
	if pl.FadeIn != "" || pl.Loop != "" || pl.Volume != "" || pl.IfChanged || pl.Queue {
		t.Fatalf("play options not absent: %+v", pl)
	}
}

func TestParserAssignsIDs(t *testing.T) {
	ResetNodeIDs()
	s, _ := Parse("label start:\n    \"a\"\n    \"b\"", "")
	seen := map[NodeID]bool{}
	Walk(s.Statements, func(st Stmt) bool {
		if st.NodeID() == 0 || seen[st.NodeID()] {
			t.Fatalf("missing or duplicate id on %+v", st)
		}
		seen[st.NodeID()] = true
		return true
	})
	if len(seen) != 3 {
		t.Fatalf("expected 3 nodes, got %d", len(seen))
	}
}
