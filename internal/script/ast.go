/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

// NodeID identifies a statement node. IDs are allocated monotonically by the
// factory (see factory.go), are never reused within a session, and stay stable
// across synchronizer mutations so the editor layer can address nodes.
type NodeID int64

// Stmt is the closed set of statement node variants. Parser and generator both
// dispatch over the concrete types; adding a variant means touching the matcher
// list in parser.go and the switch in generator.go.
type Stmt interface {
	stmtNode()
	NodeID() NodeID
	// SrcLine is the 1-based source line the node was parsed from, 0 for
	// nodes created by the factory after parsing. Diagnostics only.
	SrcLine() int
}

// Script is an ordered sequence of top-level statements plus the identifier of
// the source file it was parsed from (may be empty for in-memory scripts).
// Statement order is execution order in the target language.
type Script struct {
	FilePath   string
	Statements []Stmt
}

type baseStmt struct {
	id   NodeID
	line int
}

func (b *baseStmt) stmtNode()      {}
func (b *baseStmt) NodeID() NodeID { return b.id }
func (b *baseStmt) SrcLine() int   { return b.line }

// Label is a named entry point owning an ordered body of statements.
// Parameters are the raw names from the optional parenthesized list.
type Label struct {
	baseStmt
	Name   string
	Params []string
	Body   []Stmt
}

// Dialogue is a displayed text line. An empty Speaker means narration.
// Attributes are the optional unquoted tokens between speaker and text.
type Dialogue struct {
	baseStmt
	Speaker        string
	Attributes     []string
	Text           string
	WithTransition string
}

// MenuChoice is one selectable option of a Menu. Condition is an optional
// guard expression; an empty body is a valid state and generates a pass line.
type MenuChoice struct {
	Text      string
	Condition string
	Body      []Stmt
}

// Menu is a branch point. Prompt is the optional quoted line shown before the
// choices; PromptSpeaker attributes it to a speaker (dialogue-as-prompt).
// BindVar and Screen are the optional parenthesized header clauses.
type Menu struct {
	baseStmt
	Name          string
	Prompt        string
	PromptSpeaker string
	BindVar       string
	Screen        string
	Choices       []*MenuChoice
}

// Scene clears the stage and shows an image. Image keeps the free-form
// image-name/attribute tokens as written.
type Scene struct {
	baseStmt
	Image          string
	OnLayer        string
	WithTransition string
}

// Show displays an image. Optional clauses follow the canonical order
// as/at/behind/onlayer/zorder/with; empty string means the clause is absent.
type Show struct {
	baseStmt
	Image          string
	Attributes     []string
	AsTag          string
	AtPosition     string
	BehindTag      string
	OnLayer        string
	ZOrder         string
	WithTransition string
}

// Hide removes an image from the stage.
type Hide struct {
	baseStmt
	Image          string
	OnLayer        string
	WithTransition string
}

// With applies a standalone transition.
type With struct {
	baseStmt
	Transition string
}

// Jump transfers control to a label.
type Jump struct {
	baseStmt
	Target string
}

// Call invokes a label and returns afterwards. Arguments, when present, is the
// raw parenthesized argument text including the parentheses.
type Call struct {
	baseStmt
	Target    string
	Arguments string
}

// Return ends the current call. Value is an optional return expression.
type Return struct {
	baseStmt
	Value string
}

// IfBranch is one arm of an If. An empty Condition marks the else branch;
// branch 0 always carries a condition.
type IfBranch struct {
	Condition string
	Body      []Stmt
}

// If is an ordered list of branches.
type If struct {
	baseStmt
	Branches []*IfBranch
}

// Set is a one-line assignment. Operator is one of =, +=, -=, *=, /=.
type Set struct {
	baseStmt
	Name     string
	Operator string
	Value    string
}

// Python holds embedded code: either a single line (Block=false) or an
// indented block (Block=true) with the optional early/hide modifiers.
// Code preserves relative indentation of the block lines.
type Python struct {
	baseStmt
	Code  string
	Block bool
	Early bool
	Hide  bool
}

// Define declares a value at definition time.
type Define struct {
	baseStmt
	Name  string
	Value string
}

// Default declares a variable with a default value.
type Default struct {
	baseStmt
	Name  string
	Value string
}

// Audio channels accepted by Play and Stop.
const (
	ChannelMusic = "music"
	ChannelSound = "sound"
	ChannelVoice = "voice"
)

// Play starts (or, with Queue set, queues) audio playback on a channel.
// Loop is "loop", "noloop" or empty for unspecified; FadeIn, FadeOut and
// Volume keep the numeric text as written, empty when absent.
type Play struct {
	baseStmt
	Channel   string
	File      string
	FadeIn    string
	FadeOut   string
	Loop      string
	Volume    string
	IfChanged bool
	Queue     bool
}

// Stop stops playback on a channel. It accepts the same option set as Play;
// fadeout is the one with effect, the rest are kept so they survive editing.
type Stop struct {
	baseStmt
	Channel   string
	FadeIn    string
	FadeOut   string
	Loop      string
	Volume    string
	IfChanged bool
}

// Pause waits, optionally for a fixed duration.
type Pause struct {
	baseStmt
	Duration string
}

// NVL actions.
const (
	NVLShow  = "show"
	NVLHide  = "hide"
	NVLClear = "clear"
)

// NVL controls the NVL window: show/hide with an optional transition, clear.
type NVL struct {
	baseStmt
	Action     string
	Transition string
}

// Raw preserves source text the grammar does not recognize. Text is
// byte-identical to the original span including its indentation and is
// reproduced unchanged by the generator. May span multiple lines.
type Raw struct {
	baseStmt
	Text string
}

// IsBlock reports whether the raw span covers more than one line.
func (r *Raw) IsBlock() bool {
	for i := 0; i < len(r.Text); i++ {
		if r.Text[i] == '\n' {
			return true
		}
	}
	return false
}
