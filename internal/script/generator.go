/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "strings"

// GenerateOptions controls canonical output formatting.
type GenerateOptions struct {
	// IndentSize is the indent unit width in spaces.
	IndentSize int
	// InsertBlankLines enables the blank-line layout policy between
	// top-level statements. When off the output contains no blank lines.
	InsertBlankLines bool
	// PreserveComments is reserved; the preprocessor currently drops
	// comment lines before they reach the tree.
	PreserveComments bool
}

// DefaultGenerateOptions returns the canonical formatting configuration.
func DefaultGenerateOptions() GenerateOptions {
	return GenerateOptions{IndentSize: 4, InsertBlankLines: true}
}

// Generate walks the tree and emits canonically formatted source text.
// It has no failure mode for well-formed trees; nodes with contradictory
// optional-field combinations are the caller's responsibility.
func Generate(s *Script, opts *GenerateOptions) string {
	o := DefaultGenerateOptions()
	if opts != nil {
		o = *opts
		if o.IndentSize <= 0 {
			o.IndentSize = 4
		}
	}
	g := &generator{opts: o}

	var out []string
	var prev Stmt
	for _, st := range s.Statements {
		if prev != nil && o.InsertBlankLines && needsBlankBetween(prev, st) {
			out = append(out, "")
		}
		out = g.appendStmt(out, st, 0)
		prev = st
	}
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}

// Blank-line policy: separate labels from their neighbors, separate a
// define/default run from whatever follows it, and isolate multi-line Raw
// blocks. Consecutive define/default statements stay packed.
func needsBlankBetween(prev, cur Stmt) bool {
	if _, ok := prev.(*Label); ok {
		return true
	}
	if _, ok := cur.(*Label); ok {
		return true
	}
	if isDeclaration(prev) && !isDeclaration(cur) {
		return true
	}
	if r, ok := prev.(*Raw); ok && r.IsBlock() {
		return true
	}
	if r, ok := cur.(*Raw); ok && r.IsBlock() {
		return true
	}
	return false
}

func isDeclaration(st Stmt) bool {
	switch st.(type) {
	case *Define, *Default:
		return true
	}
	return false
}

type generator struct {
	opts GenerateOptions
}

func (g *generator) indent(depth int) string {
	return strings.Repeat(" ", depth*g.opts.IndentSize)
}

// appendStmt emits one statement (and its nested bodies) as output lines.
func (g *generator) appendStmt(out []string, st Stmt, depth int) []string {
	ind := g.indent(depth)
	switch n := st.(type) {
	case *Label:
		header := "label " + n.Name
		if len(n.Params) > 0 {
			header += "(" + strings.Join(n.Params, ", ") + ")"
		}
		out = append(out, ind+header+":")
		out = g.appendBody(out, n.Body, depth+1)

	case *Dialogue:
		parts := make([]string, 0, 4)
		if n.Speaker != "" {
			parts = append(parts, n.Speaker)
			parts = append(parts, n.Attributes...)
		}
		parts = append(parts, `"`+EscapeString(n.Text)+`"`)
		if n.WithTransition != "" {
			parts = append(parts, "with", n.WithTransition)
		}
		out = append(out, ind+strings.Join(parts, " "))

	case *Menu:
		header := "menu"
		if n.Name != "" {
			header += " " + n.Name
		}
		if n.BindVar != "" {
			header += " (bind " + n.BindVar + ")"
		}
		if n.Screen != "" {
			header += " (screen " + n.Screen + ")"
		}
		out = append(out, ind+header+":")
		inner := g.indent(depth + 1)
		if n.Prompt != "" {
			prompt := `"` + EscapeString(n.Prompt) + `"`
			if n.PromptSpeaker != "" {
				prompt = n.PromptSpeaker + " " + prompt
			}
			out = append(out, inner+prompt)
		}
		for _, ch := range n.Choices {
			line := `"` + EscapeString(ch.Text) + `"`
			if ch.Condition != "" {
				line += " if " + ch.Condition
			}
			out = append(out, inner+line+":")
			out = g.appendBody(out, ch.Body, depth+2)
		}

	case *Scene:
		line := "scene"
		if n.Image != "" {
			line += " " + n.Image
		}
		if n.OnLayer != "" {
			line += " onlayer " + n.OnLayer
		}
		if n.WithTransition != "" {
			line += " with " + n.WithTransition
		}
		out = append(out, ind+line)

	case *Show:
		// Canonical clause order; the parser strips these right-to-left
		// in exactly the reverse order.
		parts := append([]string{"show", n.Image}, n.Attributes...)
		if n.AsTag != "" {
			parts = append(parts, "as", n.AsTag)
		}
		if n.AtPosition != "" {
			parts = append(parts, "at", n.AtPosition)
		}
		if n.BehindTag != "" {
			parts = append(parts, "behind", n.BehindTag)
		}
		if n.OnLayer != "" {
			parts = append(parts, "onlayer", n.OnLayer)
		}
		if n.ZOrder != "" {
			parts = append(parts, "zorder", n.ZOrder)
		}
		if n.WithTransition != "" {
			parts = append(parts, "with", n.WithTransition)
		}
		out = append(out, ind+strings.Join(parts, " "))

	case *Hide:
		line := "hide " + n.Image
		if n.OnLayer != "" {
			line += " onlayer " + n.OnLayer
		}
		if n.WithTransition != "" {
			line += " with " + n.WithTransition
		}
		out = append(out, ind+line)

	case *With:
		out = append(out, ind+"with "+n.Transition)

	case *Jump:
		out = append(out, ind+"jump "+n.Target)

	case *Call:
		out = append(out, ind+"call "+n.Target+n.Arguments)

	case *Return:
		line := "return"
		if n.Value != "" {
			line += " " + n.Value
		}
		out = append(out, ind+line)

	case *If:
		for i, br := range n.Branches {
			switch {
			case i == 0:
				out = append(out, ind+"if "+br.Condition+":")
			case br.Condition != "":
				out = append(out, ind+"elif "+br.Condition+":")
			default:
				out = append(out, ind+"else:")
			}
			out = g.appendBody(out, br.Body, depth+1)
		}

	case *Set:
		out = append(out, ind+"$ "+n.Name+" "+n.Operator+" "+n.Value)

	case *Python:
		if !n.Block {
			out = append(out, ind+"$ "+n.Code)
			break
		}
		header := "python"
		if n.Early {
			header += " early"
		}
		if n.Hide {
			header += " hide"
		}
		out = append(out, ind+header+":")
		if n.Code == "" {
			out = append(out, g.indent(depth+1)+"pass")
			break
		}
		inner := g.indent(depth + 1)
		for _, cl := range strings.Split(n.Code, "\n") {
			if cl == "" {
				// Blank code lines would contradict the no-blank-lines
				// contract when the policy is off; the preprocessor drops
				// them on reparse either way.
				if g.opts.InsertBlankLines {
					out = append(out, "")
				}
				continue
			}
			out = append(out, inner+cl)
		}

	case *Define:
		out = append(out, ind+"define "+n.Name+" = "+n.Value)

	case *Default:
		out = append(out, ind+"default "+n.Name+" = "+n.Value)

	case *Play:
		verb := "play"
		if n.Queue {
			verb = "queue"
		}
		parts := []string{verb, n.Channel, `"` + EscapeString(n.File) + `"`}
		if n.FadeIn != "" {
			parts = append(parts, "fadein", n.FadeIn)
		}
		if n.FadeOut != "" {
			parts = append(parts, "fadeout", n.FadeOut)
		}
		if n.Loop != "" {
			parts = append(parts, n.Loop)
		}
		if n.Volume != "" {
			parts = append(parts, "volume", n.Volume)
		}
		if n.IfChanged {
			parts = append(parts, "if_changed")
		}
		out = append(out, ind+strings.Join(parts, " "))

	case *Stop:
		parts := []string{"stop", n.Channel}
		if n.FadeIn != "" {
			parts = append(parts, "fadein", n.FadeIn)
		}
		if n.FadeOut != "" {
			parts = append(parts, "fadeout", n.FadeOut)
		}
		if n.Loop != "" {
			parts = append(parts, n.Loop)
		}
		if n.Volume != "" {
			parts = append(parts, "volume", n.Volume)
		}
		if n.IfChanged {
			parts = append(parts, "if_changed")
		}
		out = append(out, ind+strings.Join(parts, " "))

	case *Pause:
		line := "pause"
		if n.Duration != "" {
			line += " " + n.Duration
		}
		out = append(out, ind+line)

	case *NVL:
		line := "nvl " + n.Action
		if n.Transition != "" {
			line += " " + n.Transition
		}
		out = append(out, ind+line)

	case *Raw:
		// Verbatim, at its original indentation.
		out = append(out, strings.Split(n.Text, "\n")...)
	}
	return out
}

// appendBody emits a nested body, substituting the no-op placeholder for an
// empty one so the construct stays syntactically valid and re-parses to the
// same empty state.
func (g *generator) appendBody(out []string, body []Stmt, depth int) []string {
	if len(body) == 0 {
		return append(out, g.indent(depth)+"pass")
	}
	for _, st := range body {
		out = g.appendStmt(out, st, depth)
	}
	return out
}
