package checker

import (
	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/internal/symbols"
)

func init() {
	Register(Checker{Name: "unusedTypedef", Run: checkUnusedTypedef})
	Register(Checker{Name: "unusedVariable", Run: checkUnusedVariable})
}

// checkUnusedTypedef reports a style diagnostic for every
// TypedefRecord the typedef pass marked unused, the invariant spec.md
// §8 states directly: "for every typedef t with used=false ... no
// post-pipeline token references t as a type".
func checkUnusedTypedef(u *intake.Unit, _ *symbols.Database, report func(diagnostic.Diagnostic)) {
	for _, t := range u.TypedefInfo {
		if t.Used {
			continue
		}
		report(diagnostic.New(
			[]diagnostic.Frame{{File: u.Files.Path(t.File), Line: t.Line, Column: t.Column, SimplifiedPath: u.Files.Path(t.File)}},
			diagnostic.SeverityStyle, "unusedTypedef", "$symbol:"+t.Name+"\nTypedef '$symbol' is never used.", diagnostic.CertaintyNormal))
	}
}

// checkUnusedVariable reports a style diagnostic for every variable
// recorded in the symbol graph whose declaration token is never
// referenced again in the stream — a direct, minimal reading of
// spec.md §2 item 6's "checkers consult the symbol graph read-only".
func checkUnusedVariable(u *intake.Unit, db *symbols.Database, report func(diagnostic.Diagnostic)) {
	if db == nil {
		return
	}
	refCount := make(map[int]int)
	for cur := u.Tokens.Front(); cur != 0; cur = u.Tokens.Next(cur) {
		tok := u.Tokens.Get(cur)
		if tok.VarID != 0 {
			refCount[tok.VarID]++
		}
	}
	for id, v := range db.Variables {
		if refCount[id] > 1 {
			continue // declaration itself counts as one reference
		}
		tok := u.Tokens.Get(v.DeclToken)
		if tok == nil {
			continue
		}
		report(diagnostic.New(
			[]diagnostic.Frame{{File: u.Files.Path(tok.Loc.FileIndex), Line: tok.Loc.Line, Column: tok.Loc.Column, SimplifiedPath: u.Files.Path(tok.Loc.FileIndex)}},
			diagnostic.SeverityStyle, "unusedVariable", "$symbol:"+v.Name+"\nVariable '$symbol' is assigned a value that is never used.", diagnostic.CertaintyNormal))
	}
}
