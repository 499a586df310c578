package lexer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanSplitsSimpleDeclaration(t *testing.T) {
	raws, directives := Scan("int x = 1;", 1)
	assert.Empty(t, directives)
	require.Len(t, raws, 5)
	want := []string{"int", "x", "=", "1", ";"}
	for i, w := range want {
		assert.Equal(t, w, raws[i].Lexeme)
	}
}

func TestScanStripsComments(t *testing.T) {
	raws, _ := Scan("int x; // trailing\n/* block */ int y;", 1)
	var got []string
	for _, r := range raws {
		got = append(got, r.Lexeme)
	}
	assert.Equal(t, []string{"int", "x", ";", "int", "y", ";"}, got)
}

func TestScanCollectsDirectiveLines(t *testing.T) {
	raws, directives := Scan("#define MAX 10\nint x = MAX;", 1)
	require.Len(t, directives, 1)
	assert.Equal(t, "#define MAX 10", directives[0].Text)
	assert.Equal(t, 1, directives[0].Line)

	var got []string
	for _, r := range raws {
		got = append(got, r.Lexeme)
	}
	assert.Equal(t, []string{"int", "x", "=", "MAX", ";"}, got)
}

func TestScanRecognizesMultiCharOperators(t *testing.T) {
	raws, _ := Scan("a <<= b; c >= d;", 1)
	var got []string
	for _, r := range raws {
		got = append(got, r.Lexeme)
	}
	assert.Equal(t, []string{"a", "<<=", "b", ";", "c", ">=", "d", ";"}, got)
}

func TestScanKeepsStringAndCharLiteralsIntact(t *testing.T) {
	raws, _ := Scan(`char *s = "hi \"there\""; char c = '\n';`, 1)
	var got []string
	for _, r := range raws {
		got = append(got, r.Lexeme)
	}
	assert.Contains(t, got, `"hi \"there\""`)
	assert.Contains(t, got, `'\n'`)
}

func TestScanTracksLineAndColumn(t *testing.T) {
	raws, _ := Scan("int x;\nint y;", 1)
	require.Len(t, raws, 6)
	assert.Equal(t, 1, raws[0].Line)
	assert.Equal(t, 2, raws[3].Line)
}
