package diagnostic

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
)

// colorCodes maps the {red}...{reset}-style template tags to fatih/color
// attributes. Colors are resolved at construction time, not at write
// time (TTY detection is a separate, caller-owned concern), matching
// spec.md §4.2.
var colorCodes = map[string]*color.Color{
	"red":    color.New(color.FgRed),
	"yellow": color.New(color.FgYellow),
	"blue":   color.New(color.FgBlue),
	"green":  color.New(color.FgGreen),
	"bold":   color.New(color.Bold),
}

// SourceLineReader reads the cited source line for {code} rendering.
// The core does no file I/O itself except through this hook (spec.md
// §6), so callers supply it (normally backed by the file table built
// during intake).
type SourceLineReader func(file string, line int) (string, bool)

// FormatTemplate expands a template string against d. Recognized
// placeholders: {id} {severity} {cwe} {message} {callstack} {file}
// {line} {column} {code} {inconclusive:text} and {color}...{reset} color
// spans (spec.md §4.2). useColor disables color emission entirely when
// false (e.g. output is not a TTY).
func FormatTemplate(tmpl string, d Diagnostic, src SourceLineReader, useColor bool) string {
	var out strings.Builder
	i := 0
	for i < len(tmpl) {
		if tmpl[i] != '{' {
			out.WriteByte(tmpl[i])
			i++
			continue
		}
		end := strings.IndexByte(tmpl[i:], '}')
		if end < 0 {
			out.WriteString(tmpl[i:])
			break
		}
		tag := tmpl[i+1 : i+end]
		out.WriteString(expandTag(tag, d, src, useColor))
		i += end + 1
	}
	return out.String()
}

func expandTag(tag string, d Diagnostic, src SourceLineReader, useColor bool) string {
	if tag == "reset" {
		if useColor {
			return color.New(color.Reset).Sprint("")
		}
		return ""
	}
	if c, ok := colorCodes[tag]; ok {
		if !useColor {
			return ""
		}
		return c.Sprint("")
	}
	if strings.HasPrefix(tag, "inconclusive:") {
		if d.Certainty == CertaintyInconclusive {
			return tag[len("inconclusive:"):]
		}
		return ""
	}

	var frame Frame
	if len(d.CallStack) > 0 {
		frame = d.CallStack[len(d.CallStack)-1]
	}

	switch tag {
	case "id":
		return d.ID
	case "severity":
		return d.Severity.String()
	case "cwe":
		if d.CWE == 0 {
			return ""
		}
		return strconv.Itoa(d.CWE)
	case "message":
		return d.ShortMessage
	case "callstack":
		return formatCallstack(d.CallStack)
	case "file":
		return frame.SimplifiedPath
	case "line":
		return strconv.Itoa(frame.Line)
	case "column":
		return strconv.Itoa(frame.Column)
	case "code":
		if src == nil {
			return ""
		}
		line, ok := src(frame.SimplifiedPath, frame.Line)
		if !ok {
			return ""
		}
		caret := strings.Repeat(" ", max(frame.Column-1, 0)) + "^"
		return line + "\n" + caret
	default:
		return "{" + tag + "}"
	}
}

func formatCallstack(stack []Frame) string {
	parts := make([]string, 0, len(stack))
	for _, f := range stack {
		parts = append(parts, fmt.Sprintf("%s:%d", f.SimplifiedPath, f.Line))
	}
	return strings.Join(parts, " -> ")
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
