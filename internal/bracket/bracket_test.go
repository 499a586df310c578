package bracket

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/internal/library"
	"github.com/jhnc-oss/cppcheck-sub000/internal/settings"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

func buildUnit(lexemes []string) *intake.Unit {
	files := intake.NewFileTable()
	fi := files.Intern("test.cpp")
	var raws []intake.RawToken
	for i, lex := range lexemes {
		raws = append(raws, intake.RawToken{FileIndex: fi, Line: 1, Column: i + 1, Lexeme: lex})
	}
	return intake.NewUnit(raws, nil, files, settings.Default(), library.Std(), "")
}

func tokenAt(u *intake.Unit, n int) *token.Token {
	cur := u.Tokens.Front()
	for i := 0; i < n; i++ {
		cur = u.Tokens.Next(cur)
	}
	return u.Tokens.Get(cur)
}

func TestLinkTemplateAngleBracketsFlagsSimpleArgument(t *testing.T) {
	u := buildUnit([]string{"Foo", "<", "T", ">", "x", ";"})
	diags, err := LinkTemplateAngleBrackets(u)
	require.NoError(t, err)
	assert.Empty(t, diags)

	open := tokenAt(u, 1)
	assert.NotEqual(t, token.NoRef, open.BracketLink)

	arg := tokenAt(u, 2)
	assert.True(t, arg.HasFlag(token.FlagTemplateArg), "T should be flagged as a template argument")
}

func TestLinkTemplateAngleBracketsIgnoresKnownVariableComparison(t *testing.T) {
	u := buildUnit([]string{"a", "<", "b", ">", "c", ";"})
	tokenAt(u, 0).VarID = 1 // simulate varid already resolved for "a"

	diags, err := LinkTemplateAngleBrackets(u)
	require.NoError(t, err)
	assert.Empty(t, diags)

	lt := tokenAt(u, 1)
	assert.Equal(t, token.NoRef, lt.BracketLink, "a known variable on the left must not open a template list")

	b := tokenAt(u, 2)
	assert.False(t, b.HasFlag(token.FlagTemplateArg))
}

func TestLinkTemplateAngleBracketsSplitsDoubleCloseForNestedTemplates(t *testing.T) {
	u := buildUnit([]string{"Foo", "<", "Bar", "<", "int", ">>", "x", ";"})
	diags, err := LinkTemplateAngleBrackets(u)
	require.NoError(t, err)
	assert.Empty(t, diags)

	require.NoError(t, u.Tokens.CheckBracketInvariant())

	innerArg := tokenAt(u, 4) // "int"
	assert.True(t, innerArg.HasFlag(token.FlagTemplateArg))

	outerArg := tokenAt(u, 2) // "Bar"
	assert.True(t, outerArg.HasFlag(token.FlagTemplateArg))
}

func TestLinkTemplateAngleBracketsResetsStackAtStatementBoundary(t *testing.T) {
	u := buildUnit([]string{"a", "<", "b", ";", "c", ">", "d", ";"})
	diags, err := LinkTemplateAngleBrackets(u)
	require.NoError(t, err)
	assert.Empty(t, diags)

	lt := tokenAt(u, 1)
	assert.Equal(t, token.NoRef, lt.BracketLink, "';' must clear any pending '<' before it can be linked")
}
