// Package errors renders diagnostic strings from internal/diagnostics with
// surrounding source context and a caret pointing at the offending column,
// for the CLI's verbose output mode.
package errors

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var wireFormat = regexp.MustCompile(`^error:(\d+):(\d+): (.*) \[(\w+)\]$`)

// Diagnostic is a parsed diagnostic: line, column, message, and code pulled
// back out of the wire format a pass emitted.
type Diagnostic struct {
	Line    int
	Column  int
	Message string
	Code    string
	Raw     string
}

// Parse splits a diagnostic string in the "error:<line>:<col>: <message>
// [<code>]" shape back into its fields. If raw doesn't match that shape
// (e.g. it came from somewhere other than internal/diagnostics), Parse
// returns a Diagnostic carrying just Raw as Message with Line/Column zero.
func Parse(raw string) Diagnostic {
	m := wireFormat.FindStringSubmatch(raw)
	if m == nil {
		return Diagnostic{Message: raw, Raw: raw}
	}
	line, _ := strconv.Atoi(m[1])
	col, _ := strconv.Atoi(m[2])
	return Diagnostic{Line: line, Column: col, Message: m[3], Code: m[4], Raw: raw}
}

// Render formats one diagnostic with the source line it points at and a
// caret under the offending column. If color is true, ANSI codes highlight
// the caret and message.
func Render(raw, source, file string, color bool) string {
	d := Parse(raw)
	var sb strings.Builder

	if file != "" {
		sb.WriteString(fmt.Sprintf("%s:%d:%d: ", file, d.Line, d.Column))
	} else {
		sb.WriteString(fmt.Sprintf("%d:%d: ", d.Line, d.Column))
	}
	if color {
		sb.WriteString("\033[1m")
	}
	sb.WriteString(d.Message)
	if d.Code != "" {
		sb.WriteString(" [" + d.Code + "]")
	}
	if color {
		sb.WriteString("\033[0m")
	}
	sb.WriteString("\n")

	if line := sourceLine(source, d.Line); line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", d.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+max(d.Column-1, 0)))
		if color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString("^")
		if color {
			sb.WriteString("\033[0m")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// RenderAll formats every diagnostic in diags in order, separated by a blank
// line, prefixed with a one-line summary when there is more than one.
func RenderAll(diags []string, source, file string, color bool) string {
	if len(diags) == 0 {
		return ""
	}
	if len(diags) == 1 {
		return Render(diags[0], source, file, color)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d diagnostic(s):\n\n", len(diags)))
	for i, d := range diags {
		sb.WriteString(Render(d, source, file, color))
		if i < len(diags)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}
