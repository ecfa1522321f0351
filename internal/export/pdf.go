/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package export renders script trees into shareable documents.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/libangli218/renpy-visual-editor-sub000/internal/script"
)

// PDFOptions controls screenplay PDF export.
// Built-in Helvetica keeps text vector without font embedding.
type PDFOptions struct {
	Title         string
	Author        string
	FontSize      float64 // body size in points; 0 means 11
	IncludeLogic  bool    // include jumps, calls, conditions and raw lines
	SpeakerLookup map[string]string // optional speaker id to display name
}

// ExportScriptPDF renders the script as a screenplay-style PDF at outPath.
// Labels become scene headings, dialogue is indented under the speaker name,
// and narration runs full width.
func ExportScriptPDF(s *script.Script, outPath string, opt PDFOptions) error {
	if s == nil {
		return fmt.Errorf("script is nil")
	}
	size := opt.FontSize
	if size <= 0 {
		size = 11
	}

	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetTitle(titleFor(s, opt), false)
	if opt.Author != "" {
		pdf.SetAuthor(opt.Author, false)
	}
	pdf.SetMargins(54, 54, 54)
	pdf.SetAutoPageBreak(true, 54)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", size+4)
	pdf.MultiCell(0, size+8, titleFor(s, opt), "", "C", false)
	pdf.Ln(size)

	w := &pdfWriter{pdf: pdf, size: size, opt: opt}
	w.writeBody(s.Statements, 0)

	if !filepath.IsAbs(outPath) {
		outPath = filepath.Join(".", outPath)
	}
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("ensure out dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func titleFor(s *script.Script, opt PDFOptions) string {
	if opt.Title != "" {
		return opt.Title
	}
	if s.FilePath != "" {
		return filepath.Base(s.FilePath)
	}
	return "Script"
}

type pdfWriter struct {
	pdf  *gofpdf.Fpdf
	size float64
	opt  PDFOptions
}

func (w *pdfWriter) writeBody(stmts []script.Stmt, depth int) {
	for _, st := range stmts {
		w.writeStmt(st, depth)
	}
}

func (w *pdfWriter) writeStmt(st script.Stmt, depth int) {
	indent := float64(depth) * 18
	switch n := st.(type) {
	case *script.Label:
		w.pdf.Ln(w.size)
		w.pdf.SetFont("Helvetica", "B", w.size+1)
		w.line(indent, strings.ToUpper(n.Name))
		w.writeBody(n.Body, depth)
	case *script.Dialogue:
		if n.Speaker != "" {
			w.pdf.SetFont("Helvetica", "B", w.size)
			w.line(indent+108, w.speakerName(n.Speaker))
			w.pdf.SetFont("Helvetica", "", w.size)
			w.paragraph(indent+72, n.Text)
		} else {
			w.pdf.SetFont("Helvetica", "", w.size)
			w.paragraph(indent, n.Text)
		}
		w.pdf.Ln(w.size / 2)
	case *script.Menu:
		w.pdf.SetFont("Helvetica", "I", w.size)
		if n.Prompt != "" {
			w.paragraph(indent, n.Prompt)
		}
		for i, c := range n.Choices {
			w.pdf.SetFont("Helvetica", "I", w.size)
			w.line(indent+18, fmt.Sprintf("%d) %s", i+1, c.Text))
			w.writeBody(c.Body, depth+2)
		}
	case *script.If:
		if !w.opt.IncludeLogic {
			for _, b := range n.Branches {
				w.writeBody(b.Body, depth)
			}
			return
		}
		for _, b := range n.Branches {
			w.pdf.SetFont("Courier", "", w.size-1)
			if b.Condition == "" {
				w.line(indent, "else:")
			} else {
				w.line(indent, "if "+b.Condition+":")
			}
			w.writeBody(b.Body, depth+1)
		}
	case *script.Jump:
		if w.opt.IncludeLogic {
			w.pdf.SetFont("Courier", "", w.size-1)
			w.line(indent, "-> "+n.Target)
		}
	case *script.Call:
		if w.opt.IncludeLogic {
			w.pdf.SetFont("Courier", "", w.size-1)
			w.line(indent, "call "+n.Target+n.Arguments)
		}
	case *script.Scene:
		w.pdf.SetFont("Helvetica", "I", w.size)
		w.line(indent, "[Scene: "+n.Image+"]")
	case *script.Show:
		w.pdf.SetFont("Helvetica", "I", w.size)
		text := n.Image
		if len(n.Attributes) > 0 {
			text += " " + strings.Join(n.Attributes, " ")
		}
		w.line(indent, "[Show: "+text+"]")
	case *script.Raw:
		if w.opt.IncludeLogic {
			w.pdf.SetFont("Courier", "", w.size-1)
			for _, l := range strings.Split(n.Text, "\n") {
				w.line(indent, l)
			}
		}
	}
}

func (w *pdfWriter) speakerName(id string) string {
	if name, ok := w.opt.SpeakerLookup[id]; ok && name != "" {
		return strings.ToUpper(name)
	}
	return strings.ToUpper(id)
}

func (w *pdfWriter) line(indent float64, text string) {
	left, _, _, _ := w.pdf.GetMargins()
	w.pdf.SetX(left + indent)
	w.pdf.MultiCell(0, w.size*1.4, text, "", "L", false)
}

func (w *pdfWriter) paragraph(indent float64, text string) {
	left, _, _, _ := w.pdf.GetMargins()
	w.pdf.SetX(left + indent)
	w.pdf.MultiCell(0, w.size*1.4, text, "", "L", false)
}
