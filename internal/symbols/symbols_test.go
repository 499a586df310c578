package symbols

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/internal/library"
	"github.com/jhnc-oss/cppcheck-sub000/internal/settings"
	"github.com/jhnc-oss/cppcheck-sub000/internal/varid"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

func buildUnit(src []string) *intake.Unit {
	files := intake.NewFileTable()
	fi := files.Intern("test.cpp")
	var raws []intake.RawToken
	for i, lex := range src {
		raws = append(raws, intake.RawToken{FileIndex: fi, Line: 1, Column: i + 1, Lexeme: lex})
	}
	u := intake.NewUnit(raws, nil, files, settings.Default(), library.Std(), "")
	linkBrackets(u)
	return u
}

// linkBrackets is a minimal stack-based bracket linker standing in for
// pipeline.LinkBracketsPass1 (kept out of this package to avoid a
// symbols<->pipeline import cycle).
func linkBrackets(u *intake.Unit) {
	var stack []token.Ref
	for cur := u.Tokens.Front(); cur != token.NoRef; cur = u.Tokens.Next(cur) {
		lex := u.Tokens.Get(cur).Lexeme
		switch lex {
		case "(", "[", "{":
			stack = append(stack, cur)
		case ")", "]", "}":
			if len(stack) == 0 {
				continue
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			u.Tokens.CreateMutualLink(open, cur)
		}
	}
}

func TestBuildRecognizesFunctionAndVariables(t *testing.T) {
	u := buildUnit([]string{
		"int", "add", "(", "int", "a", ",", "int", "b", ")", "{",
		"int", "c", ";", "c", "=", "a", ";", "return", "c", ";",
		"}",
	})
	varid.Assign(u)
	db := Build(u)

	require.Len(t, db.Functions, 1)
	assert.Equal(t, "add", db.Functions[0].Name)
	assert.NotEmpty(t, db.Variables)

	var names []string
	for _, v := range db.Variables {
		names = append(names, v.Name)
	}
	assert.Contains(t, names, "a")
	assert.Contains(t, names, "c")
}

func TestBuildTracksNestedScopes(t *testing.T) {
	u := buildUnit([]string{
		"int", "f", "(", ")", "{", "int", "x", ";", "{", "int", "y", ";", "}", "}",
	})
	varid.Assign(u)
	db := Build(u)

	require.Len(t, db.Scopes, 3) // file, function body, nested block
	assert.Equal(t, "function", db.Scopes[1].Kind)
	assert.Equal(t, "block", db.Scopes[2].Kind)
	assert.Equal(t, db.Scopes[1].ID, db.Scopes[2].Parent)
}

// TestBuildScopeHierarchyMatchesExpectedShape diffs the whole scope
// slice at once rather than field by field, so a change that reorders
// or drops a scope shows up as a single readable diff.
func TestBuildScopeHierarchyMatchesExpectedShape(t *testing.T) {
	u := buildUnit([]string{
		"int", "f", "(", ")", "{", "int", "x", ";", "{", "int", "y", ";", "}", "}",
	})
	varid.Assign(u)
	db := Build(u)

	want := []Scope{
		{ID: 0, Parent: -1, Kind: "file"},
		{ID: 1, Parent: 0, Kind: "function"},
		{ID: 2, Parent: 1, Kind: "block"},
	}
	got := make([]Scope, len(db.Scopes))
	copy(got, db.Scopes)
	for i := range got {
		got[i].BodyFrom, got[i].BodyTo = 0, 0
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("scope hierarchy mismatch (-want +got):\n%s", diff)
	}
}
