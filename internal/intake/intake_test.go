package intake

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhnc-oss/cppcheck-sub000/internal/library"
	"github.com/jhnc-oss/cppcheck-sub000/internal/settings"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

func TestClassify(t *testing.T) {
	cases := map[string]token.Class{
		"int":    token.Keyword,
		"true":   token.Boolean,
		"(":      token.Bracket,
		"++":     token.OpIncDec,
		"==":     token.OpComparison,
		"&&":     token.OpLogical,
		"+":      token.OpArithmetic,
		`"hi"`:   token.StringLiteral,
		"'a'":    token.CharLiteral,
		"123":    token.Number,
		"foo_1":  token.Name,
		"=":      token.OpAssignment,
	}
	for lexeme, want := range cases {
		assert.Equal(t, want, Classify(lexeme), "lexeme %q", lexeme)
	}
}

func TestNewUnitBuildsStream(t *testing.T) {
	raws := []RawToken{
		{FileIndex: 1, Line: 1, Column: 1, Lexeme: "int"},
		{FileIndex: 1, Line: 1, Column: 5, Lexeme: "main"},
		{FileIndex: 1, Line: 1, Column: 9, Lexeme: "("},
		{FileIndex: 1, Line: 1, Column: 10, Lexeme: ")"},
	}
	files := NewFileTable()
	files.Intern("main.cpp")
	u := NewUnit(raws, nil, files, settings.Default(), library.Std(), "")
	assert.Equal(t, []string{"int", "main", "(", ")"}, u.Tokens.Lexemes())
}

func TestHasConditionalBetween(t *testing.T) {
	u := &Unit{Directives: []Directive{
		{FileIndex: 1, Line: 5, Text: "#if defined(X)"},
		{FileIndex: 1, Line: 7, Text: "#endif"},
	}}
	assert.True(t, u.HasConditionalBetween(1, 1, 10))
	assert.False(t, u.HasConditionalBetween(1, 8, 20))
}

func TestPragmaPackAt(t *testing.T) {
	u := &Unit{Directives: []Directive{
		{FileIndex: 1, Line: 2, Text: "#pragma pack(1)"},
	}}
	n, ok := u.PragmaPackAt(1, 10)
	assert.True(t, ok)
	assert.Equal(t, 1, n)

	_, ok = u.PragmaPackAt(1, 1)
	assert.False(t, ok)
}

func TestParsePragmaPackPushForm(t *testing.T) {
	n, ok := parsePragmaPack("#pragma pack(push, 2)")
	assert.True(t, ok)
	assert.Equal(t, 2, n)
}
