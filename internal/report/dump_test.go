package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/internal/library"
	"github.com/jhnc-oss/cppcheck-sub000/internal/settings"
	"github.com/jhnc-oss/cppcheck-sub000/internal/symbols"
)

func buildDumpUnit(src []string) *intake.Unit {
	files := intake.NewFileTable()
	fi := files.Intern("test.cpp")
	var raws []intake.RawToken
	for i, lex := range src {
		raws = append(raws, intake.RawToken{FileIndex: fi, Line: 1, Column: i + 1, Lexeme: lex})
	}
	cfg := settings.Default()
	cfg.DebugNormal = true
	cfg.DebugSymDB = true
	return intake.NewUnit(raws, nil, files, cfg, library.Std(), "")
}

func TestDumpIncludesTokenList(t *testing.T) {
	u := buildDumpUnit([]string{"int", "x", ";"})
	out := Dump(u, nil)
	assert.Contains(t, out, "<tokenlist>")
	assert.Contains(t, out, `str="int"`)
	assert.Contains(t, out, "</dump>")
}

func TestDumpIncludesSymbolDatabaseEntries(t *testing.T) {
	u := buildDumpUnit([]string{"int", "x", ";"})
	db := symbols.Build(u)
	out := Dump(u, db)
	assert.Contains(t, out, "<symboldatabase>")
	assert.Contains(t, out, `type="file"`)
}

func TestDumpIncludesTypedefInfo(t *testing.T) {
	u := buildDumpUnit([]string{"int", "x", ";"})
	u.TypedefInfo = []intake.TypedefRecord{{Name: "myint", File: 1, Line: 1, Column: 1, Used: true}}
	out := Dump(u, nil)
	assert.Contains(t, out, `name="myint"`)
	assert.Contains(t, out, `used="true"`)
}

func TestDumpEscapesXMLSpecialCharsInDirectiveText(t *testing.T) {
	u := buildDumpUnit([]string{"x", ";"})
	u.Directives = []intake.Directive{{FileIndex: 1, Line: 1, Text: `#define LT(a,b) ((a)<(b))`}}
	out := Dump(u, nil)
	assert.Contains(t, out, "&lt;")
	assert.NotContains(t, out, "((a)<(b))")
}
