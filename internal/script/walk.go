/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

// Walk visits every statement in pre-order, descending into label bodies,
// menu-choice bodies and if-branch bodies at any depth. visit returning false
// stops the traversal; Walk then returns false as well.
//
// All synchronizer lookups go through this single walker so that traversal
// semantics stay identical everywhere.
func Walk(stmts []Stmt, visit func(Stmt) bool) bool {
	for _, st := range stmts {
		if !visit(st) {
			return false
		}
		switch n := st.(type) {
		case *Label:
			if !Walk(n.Body, visit) {
				return false
			}
		case *Menu:
			for _, ch := range n.Choices {
				if !Walk(ch.Body, visit) {
					return false
				}
			}
		case *If:
			for _, br := range n.Branches {
				if !Walk(br.Body, visit) {
					return false
				}
			}
		}
	}
	return true
}

// FindByID returns the first statement with the given id in pre-order, or nil.
func FindByID(s *Script, id NodeID) Stmt {
	var found Stmt
	Walk(s.Statements, func(st Stmt) bool {
		if st.NodeID() == id {
			found = st
			return false
		}
		return true
	})
	return found
}
