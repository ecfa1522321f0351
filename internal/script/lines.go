/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package script

import "strings"

// LogicalLine is one surviving source line after preprocessing.
type LogicalLine struct {
	// Num is the 1-based line number in the original source.
	Num int
	// Indent counts leading space characters before the first non-space one.
	Indent int
	// Content is the line with leading whitespace stripped.
	Content string
	// Raw is the original untouched line (no trailing newline).
	Raw string
}

const commentMarker = "#"

// SplitLines splits raw source into logical lines, dropping blank lines and
// lines whose first non-whitespace character starts a comment. The result is
// consumed strictly left-to-right by the parser's cursor.
func SplitLines(source string) []LogicalLine {
	var out []LogicalLine
	for i, raw := range strings.Split(source, "\n") {
		line := strings.TrimSuffix(raw, "\r")
		content := strings.TrimLeft(line, " \t")
		if content == "" || strings.HasPrefix(content, commentMarker) {
			continue
		}
		indent := 0
		for indent < len(line) && line[indent] == ' ' {
			indent++
		}
		out = append(out, LogicalLine{
			Num:     i + 1,
			Indent:  indent,
			Content: content,
			Raw:     line,
		})
	}
	return out
}
