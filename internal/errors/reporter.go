// SPDX-License-Identifier: Apache-2.0

// Package errors formats compiler diagnostics with source context, in the
// caret-and-gutter style used across the toolchain.
package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"

	"scriptum/token"
)

type Level string

const (
	Error   Level = "error"
	Warning Level = "warning"
	Note    Level = "note"
)

// Diagnostic is one renderable message anchored to a source span.
type Diagnostic struct {
	Level   Level
	Code    string
	Message string
	Span    token.Span
}

// Reporter renders diagnostics against one source file.
type Reporter struct {
	filename string
	source   string
	lines    []string
}

func NewReporter(filename, source string) *Reporter {
	return &Reporter{
		filename: filename,
		source:   source,
		lines:    strings.Split(source, "\n"),
	}
}

// Format renders a diagnostic with its source line and a caret marker.
func (r *Reporter) Format(d Diagnostic) string {
	line, column := r.lineColumn(d.Span.Start)

	levelColor := r.levelColor(d.Level)
	dim := color.New(color.Faint).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	var sb strings.Builder
	if d.Code != "" {
		fmt.Fprintf(&sb, "%s[%s]: %s\n", levelColor(string(d.Level)), d.Code, d.Message)
	} else {
		fmt.Fprintf(&sb, "%s: %s\n", levelColor(string(d.Level)), d.Message)
	}

	width := len(fmt.Sprintf("%d", line))
	if width < 3 {
		width = 3
	}
	indent := strings.Repeat(" ", width)
	fmt.Fprintf(&sb, "%s %s %s:%d:%d\n", indent, dim("-->"), r.filename, line, column)
	fmt.Fprintf(&sb, "%s %s\n", indent, dim("│"))

	if line-1 < len(r.lines) && line > 0 {
		content := r.lines[line-1]
		fmt.Fprintf(&sb, "%s %s %s\n", bold(fmt.Sprintf("%*d", width, line)), dim("│"), content)

		length := d.Span.End - d.Span.Start
		if length < 1 {
			length = 1
		}
		marker := strings.Repeat(" ", column-1) + levelColor(strings.Repeat("^", length))
		fmt.Fprintf(&sb, "%s %s %s\n", indent, dim("│"), marker)
	}
	sb.WriteString("\n")
	return sb.String()
}

func (r *Reporter) levelColor(level Level) func(...interface{}) string {
	switch level {
	case Warning:
		return color.New(color.FgYellow, color.Bold).SprintFunc()
	case Note:
		return color.New(color.FgBlue, color.Bold).SprintFunc()
	default:
		return color.New(color.FgRed, color.Bold).SprintFunc()
	}
}

// lineColumn converts a byte offset into 1-based line and column numbers.
func (r *Reporter) lineColumn(offset int) (int, int) {
	if offset > len(r.source) {
		offset = len(r.source)
	}
	line := 1 + strings.Count(r.source[:offset], "\n")
	lineStart := strings.LastIndexByte(r.source[:offset], '\n') + 1
	return line, offset - lineStart + 1
}
