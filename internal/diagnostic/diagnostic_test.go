package diagnostic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStack() []Frame {
	return []Frame{
		{File: "a.cpp", Line: 3, Column: 5, SimplifiedPath: "a.cpp", OriginalPath: "a.cpp", Info: "called from here"},
		{File: "a.cpp", Line: 10, Column: 1, SimplifiedPath: "a.cpp", OriginalPath: "a.cpp"},
	}
}

func TestNewSplitsShortAndVerbose(t *testing.T) {
	d := New(sampleStack(), SeverityWarning, "staticStringCompare", "short form\nverbose form with detail", CertaintyNormal)
	assert.Equal(t, "short form", d.ShortMessage)
	assert.Equal(t, "verbose form with detail", d.VerboseMessage)
}

func TestNewResolvesSymbolPragma(t *testing.T) {
	d := New(sampleStack(), SeverityStyle, "unreadVariable", "$symbol:x\nvariable $symbol is assigned a value that is never used.\nverbose: $symbol unused", CertaintyNormal)
	require.Equal(t, []string{"x"}, d.SymbolNames)
	assert.Equal(t, "variable x is assigned a value that is never used.", d.ShortMessage)
	assert.NotContains(t, d.ShortMessage, "$symbol")
}

func TestIsCritical(t *testing.T) {
	d := Diagnostic{ID: "syntaxError"}
	assert.True(t, d.IsCritical())
	d.ID = "staticStringCompare"
	assert.False(t, d.IsCritical())
}

func TestFixInvalidCharsEscapesControlBytes(t *testing.T) {
	out := FixInvalidChars("ok\x01\x02bye")
	assert.Equal(t, "ok\\001\\002bye", out)
	for _, r := range out {
		assert.True(t, r < 0x80)
	}
}

func TestSerializeDeserializeRoundTrips(t *testing.T) {
	d := New(sampleStack(), SeverityError, "shiftTooManyBits", "Shifting 32-bit value by 33 bits is undefined behaviour", CertaintyInconclusive)
	d.CWE = 758
	d.Hash = 123456
	d.Remark = "note"

	wire := Serialize(d)
	got, err := Deserialize(wire)
	require.NoError(t, err)

	assert.Equal(t, d.ID, got.ID)
	assert.Equal(t, d.Severity, got.Severity)
	assert.Equal(t, d.CWE, got.CWE)
	assert.Equal(t, d.Hash, got.Hash)
	assert.Equal(t, d.Remark, got.Remark)
	assert.Equal(t, d.Certainty, got.Certainty)
	assert.Equal(t, d.ShortMessage, got.ShortMessage)
	assert.Equal(t, d.VerboseMessage, got.VerboseMessage)
	require.Len(t, got.CallStack, len(d.CallStack))
	for i := range d.CallStack {
		assert.Equal(t, d.CallStack[i].Line, got.CallStack[i].Line)
		assert.Equal(t, d.CallStack[i].Column, got.CallStack[i].Column)
		assert.Equal(t, d.CallStack[i].SimplifiedPath, got.CallStack[i].SimplifiedPath)
	}
}

func TestDeserializeTruncatedFails(t *testing.T) {
	_, err := Deserialize("3 ab")
	assert.Error(t, err)
	var derr *DeserializationError
	assert.ErrorAs(t, err, &derr)
}

func TestFormatTemplatePlaceholders(t *testing.T) {
	d := New(sampleStack(), SeverityWarning, "nullPointer", "possible null pointer dereference", CertaintyNormal)
	out := FormatTemplate("{file}:{line}:{column}: {severity}: {message} [{id}]", d, nil, false)
	assert.Equal(t, "a.cpp:10:1: warning: possible null pointer dereference [nullPointer]", out)
}

func TestFormatTemplateInconclusive(t *testing.T) {
	d := New(sampleStack(), SeverityWarning, "x", "msg", CertaintyInconclusive)
	out := FormatTemplate("{message}{inconclusive: (inconclusive)}", d, nil, false)
	assert.Equal(t, "msg (inconclusive)", out)

	d.Certainty = CertaintyNormal
	out = FormatTemplate("{message}{inconclusive: (inconclusive)}", d, nil, false)
	assert.Equal(t, "msg", out)
}

func TestFormatTemplateCode(t *testing.T) {
	d := New(sampleStack(), SeverityError, "x", "msg", CertaintyNormal)
	src := func(file string, line int) (string, bool) {
		if file == "a.cpp" && line == 10 {
			return "    int *p = nullptr;", true
		}
		return "", false
	}
	out := FormatTemplate("{code}", d, src, false)
	assert.Contains(t, out, "int *p = nullptr;")
	assert.Contains(t, out, "^")
}

func TestToXMLWellFormed(t *testing.T) {
	d := New(sampleStack(), SeverityError, "nullPointer", "deref\nfull detail", CertaintyNormal)
	d.SymbolNames = []string{"p"}
	out, err := ToXML(d)
	require.NoError(t, err)
	assert.Contains(t, out, `id="nullPointer"`)
	assert.Contains(t, out, "<location")
	assert.Contains(t, out, "<symbol>p</symbol>")
}

func TestToPlistContainsRequiredKeys(t *testing.T) {
	d := New(sampleStack(), SeverityWarning, "nullPointer", "deref", CertaintyNormal)
	out := ToPlist(d)
	assert.Contains(t, out, "<key>description</key>")
	assert.Contains(t, out, "<key>category</key>")
	assert.Contains(t, out, "<key>check_name</key>")
}

func TestCanonicalKeyStableForIdenticalDiagnostics(t *testing.T) {
	d1 := New(sampleStack(), SeverityWarning, "x", "same message", CertaintyNormal)
	d2 := New(sampleStack(), SeverityWarning, "x", "same message", CertaintyNormal)
	assert.Equal(t, CanonicalKey(d1), CanonicalKey(d2))
}
