package varid

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/internal/library"
	"github.com/jhnc-oss/cppcheck-sub000/internal/settings"
)

func buildUnit(t *testing.T, src []string) *intake.Unit {
	t.Helper()
	files := intake.NewFileTable()
	fi := files.Intern("test.cpp")
	var raws []intake.RawToken
	for i, lex := range src {
		raws = append(raws, intake.RawToken{FileIndex: fi, Line: 1, Column: i + 1, Lexeme: lex})
	}
	return intake.NewUnit(raws, nil, files, settings.Default(), library.Std(), "")
}

func TestAssignDistinctIDsPerDeclaration(t *testing.T) {
	u := buildUnit(t, []string{"int", "x", ";", "int", "y", ";", "x", "=", "y", ";"})
	count := Assign(u)
	require.Equal(t, 2, count)

	lexemes := u.Tokens.Lexemes()
	assert.Equal(t, []string{"int", "x", ";", "int", "y", ";", "x", "=", "y", ";"}, lexemes)

	var xDeclID, yDeclID int
	cur := u.Tokens.Front()
	i := 0
	for cur != 0 {
		tok := u.Tokens.Get(cur)
		if i == 1 {
			xDeclID = tok.VarID
		}
		if i == 4 {
			yDeclID = tok.VarID
		}
		if i == 6 {
			assert.Equal(t, xDeclID, tok.VarID)
		}
		if i == 8 {
			assert.Equal(t, yDeclID, tok.VarID)
		}
		cur = u.Tokens.Next(cur)
		i++
	}
	assert.NotEqual(t, xDeclID, yDeclID)
	assert.NotZero(t, xDeclID)
	assert.NotZero(t, yDeclID)
}

func TestShadowingInNestedScope(t *testing.T) {
	u := buildUnit(t, []string{
		"int", "x", ";",
		"{", "int", "x", ";", "x", "=", "x", ";", "}",
		"x", "=", "x", ";",
	})
	Assign(u)

	var ids []int
	forEach(u, func(i int, varid int) { ids = append(ids, varid) })

	outerDecl := ids[1]
	innerDecl := ids[5]
	assert.NotEqual(t, outerDecl, innerDecl)
	assert.Equal(t, innerDecl, ids[7])
	assert.Equal(t, innerDecl, ids[9])
	assert.Equal(t, outerDecl, ids[12])
	assert.Equal(t, outerDecl, ids[14])
}

func forEach(u *intake.Unit, visit func(index int, varid int)) {
	i := 0
	for cur := u.Tokens.Front(); cur != 0; cur = u.Tokens.Next(cur) {
		visit(i, u.Tokens.Get(cur).VarID)
		i++
	}
}
