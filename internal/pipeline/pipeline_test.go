package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/internal/library"
	"github.com/jhnc-oss/cppcheck-sub000/internal/settings"
	"github.com/jhnc-oss/cppcheck-sub000/token"
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

func TestRunSimpleFunctionEndToEnd(t *testing.T) {
	u := buildUnit(t, []string{
		"int", "add", "(", "int", "a", ",", "int", "b", ")", "{",
		"return", "a", "+", "b", ";",
		"}",
	})
	diags, err := Run(u)
	require.NoError(t, err)
	assert.Empty(t, diags)
	require.NoError(t, u.Tokens.CheckBracketInvariant())
	require.NotNil(t, u.Symbols)
}

func TestLinkBracketsPass1ReportsUnmatched(t *testing.T) {
	u := buildUnit(t, []string{"int", "x", "=", "(", "1", "+", "2", ";"})
	diags, err := LinkBracketsPass1(u)
	require.Error(t, err)
	assert.Empty(t, diags)
}

func TestCombineStringLiteralsJoinsAdjacent(t *testing.T) {
	u := buildUnit(t, []string{`"abc"`, `"def"`, ";"})
	_, err := CombineStringLiterals(u)
	require.NoError(t, err)
	assert.Equal(t, []string{`"abcdef"`, ";"}, u.Tokens.Lexemes())
}

func TestInsertBracesWrapsBracelessIf(t *testing.T) {
	u := buildUnit(t, []string{"if", "(", "x", ")", "y", "=", "1", ";"})
	_, err := LinkBracketsPass1(u)
	require.NoError(t, err)
	_, err = InsertBraces(u)
	require.NoError(t, err)
	assert.Equal(t, []string{"if", "(", "x", ")", "{", "y", "=", "1", ";", "}"}, u.Tokens.Lexemes())
}

func TestRemoveExternCUnwrapsBlock(t *testing.T) {
	u := buildUnit(t, []string{"extern", `"C"`, "{", "int", "f", "(", ")", ";", "}"})
	_, err := LinkBracketsPass1(u)
	require.NoError(t, err)
	_, err = RemoveExternC(u)
	require.NoError(t, err)
	assert.Equal(t, []string{"int", "f", "(", ")", ";"}, u.Tokens.Lexemes())
}

func TestSplitCommaDeclarations(t *testing.T) {
	u := buildUnit(t, []string{"int", "a", ",", "b", ";"})
	_, err := ConvertKandRAndSplitDecls(u)
	require.NoError(t, err)
	assert.Equal(t, []string{"int", "a", ";", "int", "b", ";"}, u.Tokens.Lexemes())
}

// TestConvertKandRAndSplitDeclsInlinesTrailingDeclarations exercises the
// §8 K&R scenario: "int f(a,b) int a; char* b; { return a; }" gathers
// the trailing declarations into the parameter parens as ANSI types.
func TestConvertKandRAndSplitDeclsInlinesTrailingDeclarations(t *testing.T) {
	u := buildUnit(t, []string{
		"int", "f", "(", "a", ",", "b", ")",
		"int", "a", ";", "char", "*", "b", ";",
		"{", "return", "a", ";", "}",
	})
	_, err := LinkBracketsPass1(u)
	require.NoError(t, err)
	_, err = ConvertKandRAndSplitDecls(u)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"int", "f", "(", "int", "a", ",", "char", "*", "b", ")",
		"{", "return", "a", ";", "}",
	}, u.Tokens.Lexemes())
}

// TestSplitStructDeclNamesAnonymousAggregate exercises the §8 anonymous
// struct scenario: "struct { int x; } s;" is given a synthetic
// Anonymous0 name and its instance declaration drops the bare struct
// keyword.
func TestSplitStructDeclNamesAnonymousAggregate(t *testing.T) {
	u := buildUnit(t, []string{
		"struct", "{", "int", "x", ";", "}", "s", ";",
	})
	_, err := LinkBracketsPass1(u)
	require.NoError(t, err)
	_, err = SplitStructDecl(u)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"struct", "Anonymous0", "{", "int", "x", ";", "}", ";", "Anonymous0", "s", ";",
	}, u.Tokens.Lexemes())

	nameRef := u.Tokens.Find(u.Tokens.Front(), func(tok *token.Token) bool {
		return tok.Lexeme == "Anonymous0"
	}, token.NoRef)
	require.NotEqual(t, token.NoRef, nameRef)
	assert.True(t, u.Tokens.Get(nameRef).HasFlag(token.FlagAnonymous))
}

// TestFlattenNestedNamespacesResolvesAlias exercises the §8 namespace
// alias scenario: "namespace N = ::std;" is removed and every later
// "N ::" use is rewritten to "::std::".
func TestFlattenNestedNamespacesResolvesAlias(t *testing.T) {
	u := buildUnit(t, []string{
		"namespace", "N", "=", "::", "std", ";",
		"N", "::", "vector", "v", ";",
	})
	_, err := FlattenNestedNamespaces(u)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"::", "std", "::", "vector", "v", ";",
	}, u.Tokens.Lexemes())
}

// TestInsertBracesWrapsBracelessDoBody exercises the §8 quantified
// property for "do": a braceless do-body is wrapped the same way an
// if/for/while body is.
func TestInsertBracesWrapsBracelessDoBody(t *testing.T) {
	u := buildUnit(t, []string{
		"do", "x", "=", "1", ";", "while", "(", "x", ")", ";",
	})
	_, err := LinkBracketsPass1(u)
	require.NoError(t, err)
	_, err = InsertBraces(u)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"do", "{", "x", "=", "1", ";", "}", "while", "(", "x", ")", ";",
	}, u.Tokens.Lexemes())
}
