package pipeline

import (
	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

// DetectGarbageTemplates flags a template instantiation with an empty
// argument list: a Name directly followed by "<" ">". The contents of
// non-empty argument lists are not examined, and template-template names
// are not told apart from other names (spec.md §4.3 step 24,
// "garbage-template detection").
func DetectGarbageTemplates(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	var diags []diagnostic.Diagnostic
	forEachToken(u, func(r token.Ref) bool {
		tok := u.Tokens.Get(r)
		if tok.Class != token.Name {
			return true
		}
		next := u.Tokens.Next(r)
		if lexemeAt(u, next) != "<" {
			return true
		}
		afterAngle := u.Tokens.Next(next)
		if lexemeAt(u, afterAngle) == ">" {
			diags = append(diags, diagnostic.New(
				[]diagnostic.Frame{{File: u.Files.Path(tok.Loc.FileIndex), Line: tok.Loc.Line, Column: tok.Loc.Column, SimplifiedPath: u.Files.Path(tok.Loc.FileIndex)}},
				diagnostic.SeverityError, "syntaxError", "template instantiation with empty argument list", diagnostic.CertaintyNormal))
		}
		return true
	})
	return diags, nil
}

// garbageBinaryPairs are adjacent token pairs that can never appear in valid
// C/C++ and mark a translation unit as beyond repair, the core subset of
// cppcheck's Tokenizer::findGarbageCode battery (spec.md §7, "code
// health check").
var garbageBinaryPairs = map[[2]string]bool{
	{"+", "+"}: false, // '++' is folded earlier; a literal double '+' never survives to here
	{",", ")"}: true,
	{"(", ","}: true,
	{",", ","}: true,
	{";", ")"}: true,
}

// CodeHealthCheck scans for token sequences that are never valid
// regardless of surrounding context, reporting a syntaxError diagnostic
// (not a PipelineError — the stream can still be handed to checkers on a
// best-effort basis) for each one found (spec.md §7).
func CodeHealthCheck(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	var diags []diagnostic.Diagnostic
	forEachToken(u, func(r token.Ref) bool {
		next := u.Tokens.Next(r)
		if next == token.NoRef {
			return true
		}
		pair := [2]string{lexemeAt(u, r), lexemeAt(u, next)}
		if bad, known := garbageBinaryPairs[pair]; known && bad {
			tok := u.Tokens.Get(r)
			diags = append(diags, diagnostic.New(
				[]diagnostic.Frame{{File: u.Files.Path(tok.Loc.FileIndex), Line: tok.Loc.Line, Column: tok.Loc.Column, SimplifiedPath: u.Files.Path(tok.Loc.FileIndex)}},
				diagnostic.SeverityError, "syntaxError", "invalid token sequence '"+pair[0]+" "+pair[1]+"'", diagnostic.CertaintyNormal))
		}
		return true
	})
	return diags, nil
}
