package typedef

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/internal/library"
	"github.com/jhnc-oss/cppcheck-sub000/internal/settings"
)

func buildUnit(src []string) *intake.Unit {
	files := intake.NewFileTable()
	fi := files.Intern("test.cpp")
	var raws []intake.RawToken
	for i, lex := range src {
		raws = append(raws, intake.RawToken{FileIndex: fi, Line: 1, Column: i + 1, Lexeme: lex})
	}
	return intake.NewUnit(raws, nil, files, settings.Default(), library.Std(), "")
}

func TestSimplifyExpandsPlainTypedef(t *testing.T) {
	u := buildUnit([]string{
		"typedef", "int", "myint", ";",
		"myint", "x", ";",
	})
	diags, err := Simplify(u)
	require.NoError(t, err)
	assert.Empty(t, diags)
	assert.Equal(t, []string{"int", "x", ";"}, u.Tokens.Lexemes())
	require.Len(t, u.TypedefInfo, 1)
	assert.True(t, u.TypedefInfo[0].Used)
	assert.Equal(t, "myint", u.TypedefInfo[0].Name)
}

func TestSimplifyMarksUnusedTypedef(t *testing.T) {
	u := buildUnit([]string{"typedef", "int", "myint", ";", "int", "y", ";"})
	_, err := Simplify(u)
	require.NoError(t, err)
	assert.Equal(t, []string{"int", "y", ";"}, u.Tokens.Lexemes())
	require.Len(t, u.TypedefInfo, 1)
	assert.False(t, u.TypedefInfo[0].Used)
}

func TestSimplifyExpandsUsingAlias(t *testing.T) {
	u := buildUnit([]string{
		"using", "myint", "=", "int", ";",
		"myint", "x", ";",
	})
	_, err := Simplify(u)
	require.NoError(t, err)
	assert.Equal(t, []string{"int", "x", ";"}, u.Tokens.Lexemes())
}

func TestSimplifySkipsMemberAccess(t *testing.T) {
	u := buildUnit([]string{
		"typedef", "int", "myint", ";",
		"obj", ".", "myint", ";",
	})
	_, err := Simplify(u)
	require.NoError(t, err)
	assert.Equal(t, []string{"obj", ".", "myint", ";"}, u.Tokens.Lexemes())
}
