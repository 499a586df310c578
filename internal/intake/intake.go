// Package intake builds a token.List from the preprocessor's output and
// keeps the per-translation-unit bookkeeping (file table, directive
// list) that later passes and the diagnostic model consult (spec.md §6
// "Input").
package intake

import (
	"github.com/jhnc-oss/cppcheck-sub000/internal/library"
	"github.com/jhnc-oss/cppcheck-sub000/internal/settings"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

// TypedefRecord is the per-declaration bookkeeping the typedef pass
// exposes for dump output (spec.md §3 "TypedefInfo").
type TypedefRecord struct {
	Name              string
	File              int
	Line              int
	Column            int
	Used              bool
	IsFunctionPointer bool
}

// SymbolDatabase is the narrow interface the pipeline's final stage
// fills in (internal/symbols.Database implements it); kept as an
// interface here so intake does not import internal/symbols, matching
// this package's role as the earliest stage in the pipeline.
type SymbolDatabase interface{}

// RawToken is one (file-index, line, column, lexeme) tuple as received
// from the preprocessor (spec.md §6).
type RawToken struct {
	FileIndex int
	Line      int
	Column    int
	Lexeme    string
}

// Directive is a preserved preprocessor line (spec.md §3).
type Directive struct {
	FileIndex int
	Line      int
	Text      string
	Columns   []int // per-token column info within Text
}

// FileTable maps file indices to paths, shared across the whole
// translation unit (spec.md §3 "ownership at a glance").
type FileTable struct {
	paths []string
}

func NewFileTable() *FileTable { return &FileTable{paths: []string{""}} }

func (ft *FileTable) Intern(path string) int {
	for i, p := range ft.paths {
		if p == path {
			return i
		}
	}
	ft.paths = append(ft.paths, path)
	return len(ft.paths) - 1
}

func (ft *FileTable) Path(index int) string {
	if index < 0 || index >= len(ft.paths) {
		return ""
	}
	return ft.paths[index]
}

// Unit bundles everything a translation unit's analysis threads through
// the pipeline: the token stream, file table, directive list, the
// settings and library database in effect (spec.md §6).
type Unit struct {
	Tokens     *token.List
	Files      *FileTable
	Directives []Directive
	Settings   *settings.Settings
	Library    *library.Database
	ConfigTag  string // the "compilation-configuration tag" (spec.md §4.3)
	Symbols    SymbolDatabase  // populated by pipeline.BuildASTAndSymbols
	TypedefInfo []TypedefRecord // populated by typedef.Simplify
}

// NewUnit builds a token.List from raw preprocessor tuples, classifying
// each lexeme with the table in classify.go. Directives are threaded
// through unchanged; they are not tokens and never enter the stream.
func NewUnit(raws []RawToken, directives []Directive, files *FileTable, cfg *settings.Settings, lib *library.Database, configTag string) *Unit {
	u := &Unit{
		Tokens:     token.NewList(),
		Files:      files,
		Directives: directives,
		Settings:   cfg,
		Library:    lib,
		ConfigTag:  configTag,
	}
	for _, raw := range raws {
		class := Classify(raw.Lexeme)
		u.Tokens.Append(token.Token{
			Lexeme: raw.Lexeme,
			Class:  class,
			Loc: token.Location{
				FileIndex: raw.FileIndex,
				Line:      raw.Line,
				Column:    raw.Column,
			},
		})
	}
	u.Tokens.AssignProgressValues()
	return u
}

// HasConditionalBetween reports whether a #if/#ifdef/#ifndef/#else/#elif
// directive appears between two source lines of the same file, the
// query spec.md §3 calls out for Directive ("is there a conditional
// between these two points?").
func (u *Unit) HasConditionalBetween(fileIndex, fromLine, toLine int) bool {
	if fromLine > toLine {
		fromLine, toLine = toLine, fromLine
	}
	for _, d := range u.Directives {
		if d.FileIndex != fileIndex {
			continue
		}
		if d.Line < fromLine || d.Line > toLine {
			continue
		}
		if isConditionalDirective(d.Text) {
			return true
		}
	}
	return false
}

// PragmaPackAt returns the byte-alignment argument of the nearest
// #pragma pack(N) preceding the given line in the given file, or (0,
// false) if none is in effect — answering "was this struct declared
// under #pragma pack(1)?" (spec.md §3).
func (u *Unit) PragmaPackAt(fileIndex, line int) (int, bool) {
	best := -1
	bestAlign := 0
	for _, d := range u.Directives {
		if d.FileIndex != fileIndex || d.Line > line {
			continue
		}
		if align, ok := parsePragmaPack(d.Text); ok {
			if d.Line > best {
				best = d.Line
				bestAlign = align
			}
		}
	}
	if best < 0 {
		return 0, false
	}
	return bestAlign, true
}
