// Package diagnostic implements the Diagnostic value every checker
// produces: construction, message templating, wire serialization and
// XML/plist rendering (spec.md §4.2).
package diagnostic

import "strings"

// Severity mirrors spec.md §3's Diagnostic severities.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityError
	SeverityWarning
	SeverityStyle
	SeverityPerformance
	SeverityPortability
	SeverityInformation
	SeverityDebug
	SeverityInternal
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityStyle:
		return "style"
	case SeverityPerformance:
		return "performance"
	case SeverityPortability:
		return "portability"
	case SeverityInformation:
		return "information"
	case SeverityDebug:
		return "debug"
	case SeverityInternal:
		return "internal"
	default:
		return "none"
	}
}

func SeverityFromString(s string) Severity {
	switch s {
	case "error":
		return SeverityError
	case "warning":
		return SeverityWarning
	case "style":
		return SeverityStyle
	case "performance":
		return SeverityPerformance
	case "portability":
		return SeverityPortability
	case "information":
		return SeverityInformation
	case "debug":
		return SeverityDebug
	case "internal":
		return SeverityInternal
	default:
		return SeverityNone
	}
}

// Certainty mirrors spec.md §3.
type Certainty int

const (
	CertaintyNormal Certainty = iota
	CertaintyInconclusive
)

// Frame is one entry of a Diagnostic's call stack, outermost-to-innermost
// in CallStack order (ToXML emits frames innermost-first; ToPlist keeps
// CallStack order).
type Frame struct {
	File           string
	Line           int
	Column         int
	SimplifiedPath string
	OriginalPath   string
	Info           string
}

// Diagnostic is the value every checker emits, matching spec.md §3.
type Diagnostic struct {
	ID                string
	Severity          Severity
	Certainty         Certainty
	CWE               int
	ShortMessage      string
	VerboseMessage    string
	Remark            string
	SymbolNames       []string
	GuidelineTag      string
	ClassificationTag string
	Hash              uint64
	CallStack         []Frame
	File0             string
}

// criticalIDs are the identifiers the checker host treats as sufficient
// reason to abandon the remaining checkers for a translation unit
// (spec.md §7).
var criticalIDs = map[string]bool{
	"syntaxError":              true,
	"unknownMacro":             true,
	"internalError":            true,
	"cppcheckError":            true,
	"cppcheckLimit":            true,
	"instantiationError":       true,
	"internalAstError":         true,
	"preprocessorErrorDirective": true,
}

// IsCritical reports whether d.ID is in the critical set.
func (d Diagnostic) IsCritical() bool { return criticalIDs[d.ID] }

// New builds a Diagnostic from a call-stack and a message whose first
// line is the short form and remaining lines are the verbose form,
// following embedded "$symbol:name" pragmas the way cppcheck's
// ErrorMessage::setmsg does.
func New(callStack []Frame, severity Severity, id, msgText string, certainty Certainty) Diagnostic {
	d := Diagnostic{
		ID:        id,
		Severity:  severity,
		Certainty: certainty,
		CallStack: callStack,
	}
	if len(callStack) > 0 {
		d.File0 = callStack[0].File
	}
	d.setMessage(msgText)
	return d
}

// setMessage splits msg on the first '\n' into short/verbose forms and
// resolves "$symbol:name" / "$symbol" placeholders, matching
// ErrorMessage::setmsg's semantics.
func (d *Diagnostic) setMessage(msg string) {
	symbolName := ""
	if strings.HasPrefix(msg, "$symbol:") {
		rest := msg[len("$symbol:"):]
		if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
			symbolName = rest[:nl]
			msg = rest[nl+1:]
		} else {
			d.SymbolNames = append(d.SymbolNames, rest)
			return
		}
		d.SymbolNames = append(d.SymbolNames, symbolName)
	}

	short, verbose := msg, msg
	if nl := strings.IndexByte(msg, '\n'); nl >= 0 {
		short, verbose = msg[:nl], msg[nl+1:]
	}
	d.ShortMessage = strings.ReplaceAll(short, "$symbol", symbolName)
	d.VerboseMessage = strings.ReplaceAll(verbose, "$symbol", symbolName)
}

// FromInternalError builds the Diagnostic issued when a pass reports a
// typed error (spec.md §7's propagation rule).
func FromInternalError(kind, filename string, line, column int, detail string) Diagnostic {
	d := New([]Frame{{File: filename, Line: line, Column: column}}, SeverityError, kind, detail, CertaintyNormal)
	return d
}

// FixInvalidChars escapes every byte outside printable ASCII as \ooo,
// matching cppcheck's fixInvalidChars, so serialized/XML output never
// carries raw control bytes (spec.md §8 invariant).
func FixInvalidChars(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c >= 0x20 && c < 0x7f {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('\\')
		b.WriteByte('0' + (c>>6)&7)
		b.WriteByte('0' + (c>>3)&7)
		b.WriteByte('0' + c&7)
	}
	return b.String()
}
