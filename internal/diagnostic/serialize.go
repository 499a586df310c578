package diagnostic

import (
	"fmt"
	"strconv"
	"strings"
)

// Serialize encodes d into cppcheck's length-prefixed wire framing: ten
// header fields, each "<len> <bytes>", followed by a decimal frame count
// and that many "<len> <tab-joined-frame>" entries (spec.md §6).
func Serialize(d Diagnostic) string {
	var b strings.Builder
	writeField(&b, d.ID)
	writeField(&b, d.Severity.String())
	writeField(&b, strconv.Itoa(d.CWE))
	writeField(&b, strconv.FormatUint(d.Hash, 10))
	writeField(&b, FixInvalidChars(d.Remark))
	writeField(&b, d.File0)
	if d.Certainty == CertaintyInconclusive {
		writeField(&b, "1")
	} else {
		writeField(&b, "0")
	}
	writeField(&b, FixInvalidChars(d.ShortMessage))
	writeField(&b, FixInvalidChars(d.VerboseMessage))
	writeField(&b, strings.Join(d.SymbolNames, ","))

	fmt.Fprintf(&b, "%d ", len(d.CallStack))
	for _, f := range d.CallStack {
		frame := fmt.Sprintf("%d\t%d\t%s\t%s\t%s", f.Line, f.Column, f.SimplifiedPath, f.OriginalPath, f.Info)
		writeField(&b, frame)
	}
	return b.String()
}

func writeField(b *strings.Builder, s string) {
	fmt.Fprintf(b, "%d ", len(s))
	b.WriteString(s)
}

// DeserializationError is returned by Deserialize on truncated or
// malformed input, corresponding to the core's "deserializationError"
// diagnostic (spec.md §4.2).
type DeserializationError struct {
	Reason string
}

func (e *DeserializationError) Error() string {
	return "deserializationError: " + e.Reason
}

// Deserialize parses the wire format produced by Serialize.
// Deserialize(Serialize(d)) reproduces the ten header fields and, for each
// call-stack frame, its line, column, simplified path, original path and
// info (spec.md §8). Frame.File is not part of the wire format and comes
// back empty, and non-printable bytes that Serialize escaped stay escaped.
func Deserialize(data string) (Diagnostic, error) {
	var d Diagnostic
	r := &reader{data: data}

	fields := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		f, err := r.readField()
		if err != nil {
			return d, err
		}
		fields = append(fields, f)
	}

	d.ID = fields[0]
	d.Severity = SeverityFromString(fields[1])
	if fields[2] != "" {
		cwe, err := strconv.Atoi(fields[2])
		if err != nil {
			return d, &DeserializationError{Reason: "invalid CWE id"}
		}
		d.CWE = cwe
	}
	if fields[3] != "" {
		hash, err := strconv.ParseUint(fields[3], 10, 64)
		if err != nil {
			return d, &DeserializationError{Reason: "invalid hash"}
		}
		d.Hash = hash
	}
	d.Remark = fields[4]
	d.File0 = fields[5]
	if fields[6] == "1" {
		d.Certainty = CertaintyInconclusive
	}
	d.ShortMessage = fields[7]
	d.VerboseMessage = fields[8]
	if fields[9] != "" {
		d.SymbolNames = strings.Split(fields[9], ",")
	}

	count, err := r.readInt()
	if err != nil {
		return d, err
	}
	for i := 0; i < count; i++ {
		raw, err := r.readField()
		if err != nil {
			return d, err
		}
		parts := strings.SplitN(raw, "\t", 5)
		if len(parts) != 5 {
			return d, &DeserializationError{Reason: "malformed call-stack frame"}
		}
		line, err := strconv.Atoi(parts[0])
		if err != nil {
			return d, &DeserializationError{Reason: "invalid frame line"}
		}
		column, err := strconv.Atoi(parts[1])
		if err != nil {
			return d, &DeserializationError{Reason: "invalid frame column"}
		}
		d.CallStack = append(d.CallStack, Frame{
			Line:           line,
			Column:         column,
			SimplifiedPath: parts[2],
			OriginalPath:   parts[3],
			Info:           parts[4],
		})
	}
	return d, nil
}

// reader walks the "<len> <bytes>" framed wire format.
type reader struct {
	data string
	pos  int
}

func (r *reader) readInt() (int, error) {
	start := r.pos
	for r.pos < len(r.data) && r.data[r.pos] != ' ' {
		r.pos++
	}
	if r.pos >= len(r.data) {
		return 0, &DeserializationError{Reason: "premature end of data"}
	}
	n, err := strconv.Atoi(r.data[start:r.pos])
	if err != nil {
		return 0, &DeserializationError{Reason: "invalid length"}
	}
	r.pos++ // skip separator space
	return n, nil
}

func (r *reader) readField() (string, error) {
	n, err := r.readInt()
	if err != nil {
		return "", err
	}
	if r.pos+n > len(r.data) {
		return "", &DeserializationError{Reason: "premature end of data"}
	}
	s := r.data[r.pos : r.pos+n]
	r.pos += n
	return s, nil
}
