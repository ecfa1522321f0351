/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import (
	"regexp"
	"strings"
)

// ParseIssue is a diagnostic with position context.
type ParseIssue struct {
	Line    int
	Message string
}

// ParseReport carries advisory diagnostics. Unrecognized syntax never lands
// here; it becomes Raw nodes instead (never fail to parse).
type ParseReport struct {
	Errors   []ParseIssue
	Warnings []ParseIssue
}

// Statement matchers. One pattern per statement kind, tried in a fixed
// priority order by parseStatement. The quoted-string fragment accepts
// backslash escapes so escaped quotes do not end the string early.
const qstr = `"((?:[^"\\]|\\.)*)"`

var (
	reLabel   = regexp.MustCompile(`^label\s+([a-zA-Z_]\w*)\s*(?:\(([^)]*)\))?\s*:$`)
	reJump    = regexp.MustCompile(`^jump\s+([a-zA-Z_][\w.]*)$`)
	reCall    = regexp.MustCompile(`^call\s+([a-zA-Z_][\w.]*)\s*(\(.*\))?$`)
	reReturn  = regexp.MustCompile(`^return(?:\s+(.+))?$`)
	reMenu    = regexp.MustCompile(`^menu(?:\s+([a-zA-Z_]\w*))?(?:\s+\(bind\s+([a-zA-Z_][\w.]*)\))?(?:\s+\(screen\s+([a-zA-Z_]\w*)\))?\s*:$`)
	reIf      = regexp.MustCompile(`^if\s+(.+?)\s*:$`)
	reElif    = regexp.MustCompile(`^elif\s+(.+?)\s*:$`)
	reElse    = regexp.MustCompile(`^else\s*:$`)
	reScene   = regexp.MustCompile(`^scene(?:\s+(.+))?$`)
	reShow    = regexp.MustCompile(`^show\s+(.+)$`)
	reHide    = regexp.MustCompile(`^hide\s+(.+)$`)
	reWith    = regexp.MustCompile(`^with\s+(\S+)$`)
	rePlay    = regexp.MustCompile(`^(play|queue)\s+(music|sound|voice)\s+` + qstr + `(.*)$`)
	reStop    = regexp.MustCompile(`^stop\s+(music|sound|voice)(.*)$`)
	reVoice   = regexp.MustCompile(`^voice\s+` + qstr + `$`)
	rePause   = regexp.MustCompile(`^pause(?:\s+(\S+))?$`)
	reNVL     = regexp.MustCompile(`^nvl\s+(show|hide|clear)(?:\s+(\S+))?$`)
	reDefine  = regexp.MustCompile(`^define\s+([a-zA-Z_][\w.]*)\s*=\s*(.+)$`)
	reDefault = regexp.MustCompile(`^default\s+([a-zA-Z_][\w.]*)\s*=\s*(.+)$`)
	reSet     = regexp.MustCompile(`^\$\s*([a-zA-Z_][\w.]*)\s*([+\-*/]?=)\s*([^=].*)$`)
	rePython  = regexp.MustCompile(`^\$\s*(.+)$`)
	rePyBlock = regexp.MustCompile(`^python(\s+early)?(\s+hide)?\s*:$`)

	reNarration = regexp.MustCompile(`^` + qstr + `(?:\s+with\s+(\S+))?$`)
	reSpeaker   = regexp.MustCompile(`^([a-zA-Z_]\w*)((?:\s+[a-zA-Z_]\w*)*)\s+` + qstr + `(?:\s+with\s+(\S+))?$`)

	// Menu body patterns: a quoted line with a trailing colon is a choice
	// (optionally guarded); without one it is the prompt.
	reChoice        = regexp.MustCompile(`^` + qstr + `(?:\s+if\s+(.+?))?\s*:$`)
	rePrompt        = regexp.MustCompile(`^` + qstr + `$`)
	rePromptSpeaker = regexp.MustCompile(`^([a-zA-Z_]\w*)\s+` + qstr + `$`)

	// Play/Stop option tokens are located by independent substring search;
	// their order in the source is irrelevant, unlike Show/Scene/Hide clauses.
	reOptFadeIn    = regexp.MustCompile(`\bfadein\s+(\S+)`)
	reOptFadeOut   = regexp.MustCompile(`\bfadeout\s+(\S+)`)
	reOptVolume    = regexp.MustCompile(`\bvolume\s+(\S+)`)
	reOptNoLoop    = regexp.MustCompile(`\bnoloop\b`)
	reOptLoop      = regexp.MustCompile(`\bloop\b`)
	reOptIfChanged = regexp.MustCompile(`\bif_changed\b`)
)

// Trailing-clause patterns for Scene/Show/Hide. These are stripped
// right-to-left in the canonical order the generator emits them in; the two
// sides must never diverge or round-trip breaks.
var clauseRes = map[string]*regexp.Regexp{
	"with":    regexp.MustCompile(`\s+with\s+(\S+)$`),
	"zorder":  regexp.MustCompile(`\s+zorder\s+(\S+)$`),
	"onlayer": regexp.MustCompile(`\s+onlayer\s+(\S+)$`),
	"behind":  regexp.MustCompile(`\s+behind\s+(\S+)$`),
	"at":      regexp.MustCompile(`\s+at\s+(\S+)$`),
	"as":      regexp.MustCompile(`\s+as\s+(\S+)$`),
}

// cutTrailingClause removes "<keyword> <value>" from the end of text,
// returning the shortened text and the value, or text unchanged and "".
func cutTrailingClause(text, keyword string) (string, string) {
	m := clauseRes[keyword].FindStringSubmatch(text)
	if m == nil {
		return text, ""
	}
	return strings.TrimSpace(text[:len(text)-len(m[0])]), m[1]
}

type parser struct {
	lines  []LogicalLine
	pos    int
	report ParseReport
}

// Parse turns source text into a script tree. It never fails: any construct
// the grammar does not recognize is preserved verbatim as a Raw node, so a
// file full of editor-unsupported constructs still round-trips losslessly.
func Parse(source, filePath string) (*Script, ParseReport) {
	p := &parser{lines: SplitLines(source)}
	s := &Script{FilePath: filePath}
	s.Statements = p.parseBlock(0)
	return s, p.report
}

// parseBlock parses statements at minIndent until the stream is exhausted or
// a dedent returns control to the caller. A line deeper than minIndent while
// the block is still empty is orphaned content and is captured as a single
// Raw node; well-formed sources do not produce this.
func (p *parser) parseBlock(minIndent int) []Stmt {
	var body []Stmt
	for p.pos < len(p.lines) {
		ln := p.lines[p.pos]
		if ln.Indent < minIndent {
			break
		}
		if ln.Indent > minIndent && len(body) == 0 {
			r := NewRaw(ln.Raw)
			r.line = ln.Num
			p.pos++
			body = append(body, r)
			continue
		}
		if st := p.parseStatement(); st != nil {
			body = append(body, st)
		}
	}
	return body
}

// parseBody parses the nested body following a header line: the next line's
// indent becomes the child block indent. No deeper line means an empty body.
func (p *parser) parseBody(headerIndent int) []Stmt {
	if p.pos >= len(p.lines) || p.lines[p.pos].Indent <= headerIndent {
		return nil
	}
	return p.parseBlock(p.lines[p.pos].Indent)
}

// parseStatement consumes one statement starting at the current line. Matcher
// order is significant: set must precede python (both start with "$", set
// matches the narrower assignment shape), and dialogue comes last because its
// free-form pattern would swallow earlier constructs.
func (p *parser) parseStatement() Stmt {
	ln := p.lines[p.pos]
	c := ln.Content

	// "pass" is the empty-body placeholder and is invisible in the tree.
	if c == "pass" {
		p.pos++
		return nil
	}

	for _, try := range []func(LogicalLine) Stmt{
		p.tryLabel, p.tryJump, p.tryCall, p.tryReturn, p.tryMenu, p.tryIf,
		p.tryScene, p.tryShow, p.tryHide, p.tryWith, p.tryPlay, p.tryStop,
		p.tryVoice, p.tryPause, p.tryNVL, p.tryDefine, p.tryDefault,
		p.trySet, p.tryPython, p.tryDialogue,
	} {
		if st := try(ln); st != nil {
			return st
		}
	}

	// Unsupported block: swallow the header plus every deeper line as one
	// verbatim Raw node so unknown constructs are preserved wholesale.
	if strings.HasSuffix(c, ":") {
		raw := []string{ln.Raw}
		p.pos++
		for p.pos < len(p.lines) && p.lines[p.pos].Indent > ln.Indent {
			raw = append(raw, p.lines[p.pos].Raw)
			p.pos++
		}
		r := NewRaw(strings.Join(raw, "\n"))
		r.line = ln.Num
		return r
	}

	r := NewRaw(ln.Raw)
	r.line = ln.Num
	p.pos++
	return r
}

func (p *parser) tryLabel(ln LogicalLine) Stmt {
	m := reLabel.FindStringSubmatch(ln.Content)
	if m == nil {
		return nil
	}
	lbl := NewLabel(m[1], splitParams(m[2]))
	lbl.line = ln.Num
	p.pos++
	lbl.Body = p.parseBody(ln.Indent)
	return lbl
}

func (p *parser) tryJump(ln LogicalLine) Stmt {
	m := reJump.FindStringSubmatch(ln.Content)
	if m == nil {
		return nil
	}
	j := NewJump(m[1])
	j.line = ln.Num
	p.pos++
	return j
}

func (p *parser) tryCall(ln LogicalLine) Stmt {
	m := reCall.FindStringSubmatch(ln.Content)
	if m == nil {
		return nil
	}
	cl := NewCall(m[1])
	cl.Arguments = m[2]
	cl.line = ln.Num
	p.pos++
	return cl
}

func (p *parser) tryReturn(ln LogicalLine) Stmt {
	m := reReturn.FindStringSubmatch(ln.Content)
	if m == nil {
		return nil
	}
	r := NewReturn()
	r.Value = strings.TrimSpace(m[1])
	r.line = ln.Num
	p.pos++
	return r
}

func (p *parser) tryMenu(ln LogicalLine) Stmt {
	m := reMenu.FindStringSubmatch(ln.Content)
	if m == nil {
		return nil
	}
	menu := NewMenu()
	menu.Name, menu.BindVar, menu.Screen = m[1], m[2], m[3]
	menu.line = ln.Num
	p.pos++
	if p.pos >= len(p.lines) || p.lines[p.pos].Indent <= ln.Indent {
		return menu
	}
	bodyIndent := p.lines[p.pos].Indent
	for p.pos < len(p.lines) {
		bl := p.lines[p.pos]
		if bl.Indent != bodyIndent {
			break
		}
		if mm := reChoice.FindStringSubmatch(bl.Content); mm != nil {
			ch := NewMenuChoice(UnescapeString(mm[1]))
			ch.Condition = strings.TrimSpace(mm[2])
			p.pos++
			ch.Body = p.parseBody(bl.Indent)
			menu.Choices = append(menu.Choices, ch)
			continue
		}
		if len(menu.Choices) == 0 && menu.Prompt == "" {
			if mm := rePromptSpeaker.FindStringSubmatch(bl.Content); mm != nil {
				menu.PromptSpeaker = mm[1]
				menu.Prompt = UnescapeString(mm[2])
				p.pos++
				continue
			}
			if mm := rePrompt.FindStringSubmatch(bl.Content); mm != nil {
				menu.Prompt = UnescapeString(mm[1])
				p.pos++
				continue
			}
		}
		// Not menu content; leave it for the caller's Raw fallback.
		break
	}
	return menu
}

func (p *parser) tryIf(ln LogicalLine) Stmt {
	m := reIf.FindStringSubmatch(ln.Content)
	if m == nil {
		return nil
	}
	iff := NewIf(strings.TrimSpace(m[1]))
	iff.line = ln.Num
	p.pos++
	iff.Branches[0].Body = p.parseBody(ln.Indent)
	// Sibling lines at the header's indent extend the branch list; an else
	// branch stops the scan.
	for p.pos < len(p.lines) && p.lines[p.pos].Indent == ln.Indent {
		c := p.lines[p.pos].Content
		if mm := reElif.FindStringSubmatch(c); mm != nil {
			br := &IfBranch{Condition: strings.TrimSpace(mm[1])}
			p.pos++
			br.Body = p.parseBody(ln.Indent)
			iff.Branches = append(iff.Branches, br)
			continue
		}
		if reElse.MatchString(c) {
			br := &IfBranch{}
			p.pos++
			br.Body = p.parseBody(ln.Indent)
			iff.Branches = append(iff.Branches, br)
		}
		break
	}
	return iff
}

func (p *parser) tryScene(ln LogicalLine) Stmt {
	m := reScene.FindStringSubmatch(ln.Content)
	if m == nil {
		return nil
	}
	sc := NewScene("")
	rest := m[1]
	rest, sc.WithTransition = cutTrailingClause(rest, "with")
	rest, sc.OnLayer = cutTrailingClause(rest, "onlayer")
	sc.Image = rest
	sc.line = ln.Num
	p.pos++
	return sc
}

func (p *parser) tryShow(ln LogicalLine) Stmt {
	m := reShow.FindStringSubmatch(ln.Content)
	if m == nil {
		return nil
	}
	rest := m[1]
	sh := NewShow("")
	// Right-to-left stripping in the generator's reverse emission order is
	// the only way to disambiguate the clauses from the free-form leading
	// image and attribute tokens.
	rest, sh.WithTransition = cutTrailingClause(rest, "with")
	rest, sh.ZOrder = cutTrailingClause(rest, "zorder")
	rest, sh.OnLayer = cutTrailingClause(rest, "onlayer")
	rest, sh.BehindTag = cutTrailingClause(rest, "behind")
	rest, sh.AtPosition = cutTrailingClause(rest, "at")
	rest, sh.AsTag = cutTrailingClause(rest, "as")
	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return nil
	}
	sh.Image = fields[0]
	if len(fields) > 1 {
		sh.Attributes = fields[1:]
	}
	sh.line = ln.Num
	p.pos++
	return sh
}

func (p *parser) tryHide(ln LogicalLine) Stmt {
	m := reHide.FindStringSubmatch(ln.Content)
	if m == nil {
		return nil
	}
	rest := m[1]
	h := NewHide("")
	rest, h.WithTransition = cutTrailingClause(rest, "with")
	rest, h.OnLayer = cutTrailingClause(rest, "onlayer")
	if rest == "" {
		return nil
	}
	h.Image = rest
	h.line = ln.Num
	p.pos++
	return h
}

func (p *parser) tryWith(ln LogicalLine) Stmt {
	m := reWith.FindStringSubmatch(ln.Content)
	if m == nil {
		return nil
	}
	w := NewWith(m[1])
	w.line = ln.Num
	p.pos++
	return w
}

func (p *parser) tryPlay(ln LogicalLine) Stmt {
	m := rePlay.FindStringSubmatch(ln.Content)
	if m == nil {
		return nil
	}
	opts, ok := parseAudioOptions(m[4])
	if !ok {
		// Tokens outside the option grammar; refuse the match so the line
		// survives verbatim as Raw instead of losing text.
		return nil
	}
	pl := NewPlay(m[2], UnescapeString(m[3]))
	pl.Queue = m[1] == "queue"
	pl.FadeIn, pl.FadeOut = opts.FadeIn, opts.FadeOut
	pl.Loop, pl.Volume, pl.IfChanged = opts.Loop, opts.Volume, opts.IfChanged
	pl.line = ln.Num
	p.pos++
	return pl
}

func (p *parser) tryStop(ln LogicalLine) Stmt {
	m := reStop.FindStringSubmatch(ln.Content)
	if m == nil {
		return nil
	}
	opts, ok := parseAudioOptions(m[2])
	if !ok {
		return nil
	}
	st := NewStop(m[1])
	st.FadeIn, st.FadeOut = opts.FadeIn, opts.FadeOut
	st.Loop, st.Volume, st.IfChanged = opts.Loop, opts.Volume, opts.IfChanged
	st.line = ln.Num
	p.pos++
	return st
}

func (p *parser) tryVoice(ln LogicalLine) Stmt {
	m := reVoice.FindStringSubmatch(ln.Content)
	if m == nil {
		return nil
	}
	pl := NewPlay(ChannelVoice, UnescapeString(m[1]))
	pl.line = ln.Num
	p.pos++
	return pl
}

func (p *parser) tryPause(ln LogicalLine) Stmt {
	m := rePause.FindStringSubmatch(ln.Content)
	if m == nil {
		return nil
	}
	pa := NewPause(m[1])
	pa.line = ln.Num
	p.pos++
	return pa
}

func (p *parser) tryNVL(ln LogicalLine) Stmt {
	m := reNVL.FindStringSubmatch(ln.Content)
	if m == nil {
		return nil
	}
	n := NewNVL(m[1])
	n.Transition = m[2]
	n.line = ln.Num
	p.pos++
	return n
}

func (p *parser) tryDefine(ln LogicalLine) Stmt {
	m := reDefine.FindStringSubmatch(ln.Content)
	if m == nil {
		return nil
	}
	d := NewDefine(m[1], strings.TrimSpace(m[2]))
	d.line = ln.Num
	p.pos++
	return d
}

func (p *parser) tryDefault(ln LogicalLine) Stmt {
	m := reDefault.FindStringSubmatch(ln.Content)
	if m == nil {
		return nil
	}
	d := NewDefault(m[1], strings.TrimSpace(m[2]))
	d.line = ln.Num
	p.pos++
	return d
}

func (p *parser) trySet(ln LogicalLine) Stmt {
	m := reSet.FindStringSubmatch(ln.Content)
	if m == nil {
		return nil
	}
	s := NewSet(m[1], m[2], strings.TrimSpace(m[3]))
	s.line = ln.Num
	p.pos++
	return s
}

func (p *parser) tryPython(ln LogicalLine) Stmt {
	if m := rePyBlock.FindStringSubmatch(ln.Content); m != nil {
		py := NewPython("", true)
		py.Early = m[1] != ""
		py.Hide = m[2] != ""
		py.line = ln.Num
		p.pos++
		py.Code = p.collectPythonBlock(ln.Indent)
		return py
	}
	m := rePython.FindStringSubmatch(ln.Content)
	if m == nil {
		return nil
	}
	py := NewPython(strings.TrimSpace(m[1]), false)
	py.line = ln.Num
	p.pos++
	return py
}

// collectPythonBlock captures the deeper-indented lines verbatim, dedented by
// the block's minimum indent so relative indentation survives the round trip.
func (p *parser) collectPythonBlock(headerIndent int) string {
	start := p.pos
	minIndent := -1
	for p.pos < len(p.lines) && p.lines[p.pos].Indent > headerIndent {
		if minIndent < 0 || p.lines[p.pos].Indent < minIndent {
			minIndent = p.lines[p.pos].Indent
		}
		p.pos++
	}
	if p.pos == start {
		return ""
	}
	lines := make([]string, 0, p.pos-start)
	for _, ln := range p.lines[start:p.pos] {
		lines = append(lines, ln.Raw[minIndent:])
	}
	code := strings.Join(lines, "\n")
	if code == "pass" {
		// The generator's empty-body placeholder; an empty block and a
		// lone pass are the same state.
		return ""
	}
	return code
}

func (p *parser) tryDialogue(ln LogicalLine) Stmt {
	if m := reNarration.FindStringSubmatch(ln.Content); m != nil {
		d := NewDialogue("", UnescapeString(m[1]))
		d.WithTransition = m[2]
		d.line = ln.Num
		p.pos++
		return d
	}
	m := reSpeaker.FindStringSubmatch(ln.Content)
	if m == nil {
		return nil
	}
	d := NewDialogue(m[1], UnescapeString(m[3]))
	d.Attributes = strings.Fields(m[2])
	d.WithTransition = m[4]
	d.line = ln.Num
	p.pos++
	return d
}

func splitParams(list string) []string {
	if strings.TrimSpace(list) == "" {
		return nil
	}
	parts := strings.Split(list, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// audioOptions holds the shared Play/Stop trailing-option set.
type audioOptions struct {
	FadeIn    string
	FadeOut   string
	Loop      string
	Volume    string
	IfChanged bool
}

// parseAudioOptions locates the known options in rest by substring search,
// order-insensitive. It reports false when rest contains any token outside
// the option grammar; the caller then declines the match so the whole line
// is preserved verbatim.
func parseAudioOptions(rest string) (audioOptions, bool) {
	var o audioOptions
	toks := strings.Fields(rest)
	for i := 0; i < len(toks); i++ {
		switch toks[i] {
		case "fadein", "fadeout", "volume":
			i++
			if i >= len(toks) {
				return o, false
			}
		case "loop", "noloop", "if_changed":
		default:
			return o, false
		}
	}
	if m := reOptFadeIn.FindStringSubmatch(rest); m != nil {
		o.FadeIn = m[1]
	}
	if m := reOptFadeOut.FindStringSubmatch(rest); m != nil {
		o.FadeOut = m[1]
	}
	if m := reOptVolume.FindStringSubmatch(rest); m != nil {
		o.Volume = m[1]
	}
	switch {
	case reOptNoLoop.MatchString(rest):
		o.Loop = "noloop"
	case reOptLoop.MatchString(rest):
		o.Loop = "loop"
	}
	o.IfChanged = reOptIfChanged.MatchString(rest)
	return o, true
}
