/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

// Synchronizer: targeted mutation operations issued by the interactive editor
// layer. All operations mutate the tree in place, report failure through
// return values, and leave the tree untouched on failure. They assume
// single-writer access; the editor calls them serially.

// DialogueData describes a dialogue line to insert.
type DialogueData struct {
	Speaker string // empty for narration
	Text    string
}

// ChoiceData describes one menu choice to insert.
type ChoiceData struct {
	Text      string
	Condition string
}

// MenuData describes a menu to insert.
type MenuData struct {
	Prompt        string
	PromptSpeaker string
	Choices       []ChoiceData
}

// ErrTypeDuplicateLabel is the error type reported by AddLabel when a
// top-level label with the requested name already exists.
const ErrTypeDuplicateLabel = "duplicate_label"

// LabelError describes why AddLabel refused the operation.
type LabelError struct {
	Type    string
	Message string
}

// AddLabelResult is AddLabel's outcome.
type AddLabelResult struct {
	Success bool
	Err     *LabelError
}

// InsertDialogue appends a new Dialogue node to the named top-level label's
// body, or inserts it immediately after the direct child with id afterID when
// that id is found there (append otherwise). Returns the new node's id and
// true, or 0 and false when the label does not exist.
func InsertDialogue(labelName string, data DialogueData, s *Script, afterID NodeID) (NodeID, bool) {
	lbl := findTopLabel(s, labelName)
	if lbl == nil {
		return 0, false
	}
	d := NewDialogue(data.Speaker, data.Text)
	lbl.Body = insertAfter(lbl.Body, d, afterID)
	return d.NodeID(), true
}

// InsertMenu builds a Menu node from data and places it with the same
// semantics as InsertDialogue.
func InsertMenu(labelName string, data MenuData, s *Script, afterID NodeID) (NodeID, bool) {
	lbl := findTopLabel(s, labelName)
	if lbl == nil {
		return 0, false
	}
	m := NewMenu()
	m.Prompt = data.Prompt
	m.PromptSpeaker = data.PromptSpeaker
	for _, cd := range data.Choices {
		ch := NewMenuChoice(cd.Text)
		ch.Condition = cd.Condition
		m.Choices = append(m.Choices, ch)
	}
	lbl.Body = insertAfter(lbl.Body, m, afterID)
	return m.NodeID(), true
}

// InsertJumpIntoLabel appends a Jump to the named top-level label's body.
func InsertJumpIntoLabel(labelName, target string, s *Script) bool {
	lbl := findTopLabel(s, labelName)
	if lbl == nil {
		return false
	}
	lbl.Body = append(lbl.Body, NewJump(target))
	return true
}

// InsertCallIntoLabel appends a Call to the named top-level label's body.
func InsertCallIntoLabel(labelName, target string, s *Script) bool {
	lbl := findTopLabel(s, labelName)
	if lbl == nil {
		return false
	}
	lbl.Body = append(lbl.Body, NewCall(target))
	return true
}

// InsertJumpIntoChoice locates the Menu with the given id anywhere in the
// tree (whole-tree pre-order search) and appends a Jump to the body of the
// choice at choiceIndex. Returns false when the menu is not found or the
// index is out of range.
func InsertJumpIntoChoice(menuID NodeID, choiceIndex int, target string, s *Script) bool {
	var menu *Menu
	Walk(s.Statements, func(st Stmt) bool {
		if m, ok := st.(*Menu); ok && m.NodeID() == menuID {
			menu = m
			return false
		}
		return true
	})
	if menu == nil || choiceIndex < 0 || choiceIndex >= len(menu.Choices) {
		return false
	}
	ch := menu.Choices[choiceIndex]
	ch.Body = append(ch.Body, NewJump(target))
	return true
}

// AddLabel appends a new empty-body Label at the end of the top-level
// statement list. Label names are unique (case-sensitive) among top-level
// labels; a duplicate is refused with ErrTypeDuplicateLabel and the tree is
// left unchanged. The parser itself does not enforce this invariant.
func AddLabel(name string, s *Script) AddLabelResult {
	for _, st := range s.Statements {
		if lbl, ok := st.(*Label); ok && lbl.Name == name {
			return AddLabelResult{Err: &LabelError{
				Type:    ErrTypeDuplicateLabel,
				Message: "label " + name + " already exists",
			}}
		}
	}
	s.Statements = append(s.Statements, NewLabel(name, nil))
	return AddLabelResult{Success: true}
}

// findTopLabel scans the top-level statement list only; nested labels are not
// legal insertion targets.
func findTopLabel(s *Script, name string) *Label {
	for _, st := range s.Statements {
		if lbl, ok := st.(*Label); ok && lbl.Name == name {
			return lbl
		}
	}
	return nil
}

// insertAfter splices st into body directly after the child with id afterID.
// afterID of zero, or an id not among body's direct children, appends.
func insertAfter(body []Stmt, st Stmt, afterID NodeID) []Stmt {
	if afterID != 0 {
		for i, n := range body {
			if n.NodeID() == afterID {
				out := make([]Stmt, 0, len(body)+1)
				out = append(out, body[:i+1]...)
				out = append(out, st)
				out = append(out, body[i+1:]...)
				return out
			}
		}
	}
	return append(body, st)
}
