package pipeline

import (
	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

// LinkBracketsPass1 links (), [] and {} pairs with a simple bracket
// stack. Angle brackets are deliberately left unlinked here: they need
// the template-aware heuristics of LinkTemplateAngleBrackets, which runs
// much later, once variable ids are known, so a '<' after a variable can
// be told apart from a template opener (spec.md §4.6).
func LinkBracketsPass1(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	var stack []token.Ref
	var diags []diagnostic.Diagnostic
	forEachToken(u, func(r token.Ref) bool {
		tok := u.Tokens.Get(r)
		switch tok.Lexeme {
		case "(", "[", "{":
			stack = append(stack, r)
		case ")", "]", "}":
			if len(stack) == 0 {
				diags = append(diags, diagnostic.New(
					[]diagnostic.Frame{{File: u.Files.Path(tok.Loc.FileIndex), Line: tok.Loc.Line, Column: tok.Loc.Column, SimplifiedPath: u.Files.Path(tok.Loc.FileIndex)}},
					diagnostic.SeverityError, "syntaxError", "unmatched closing bracket '"+tok.Lexeme+"'", diagnostic.CertaintyNormal))
				return true
			}
			open := stack[len(stack)-1]
			openTok := u.Tokens.Get(open)
			if !token.IsBracketPairKind(openTok.Lexeme, tok.Lexeme) {
				diags = append(diags, diagnostic.New(
					[]diagnostic.Frame{{File: u.Files.Path(tok.Loc.FileIndex), Line: tok.Loc.Line, Column: tok.Loc.Column, SimplifiedPath: u.Files.Path(tok.Loc.FileIndex)}},
					diagnostic.SeverityError, "syntaxError", "mismatched bracket '"+openTok.Lexeme+"'/'"+tok.Lexeme+"'", diagnostic.CertaintyNormal))
				stack = stack[:len(stack)-1]
				return true
			}
			stack = stack[:len(stack)-1]
			u.Tokens.CreateMutualLink(open, r)
		}
		return true
	})
	if len(stack) > 0 {
		unmatched := u.Tokens.Get(stack[0])
		return diags, &PipelineError{
			ID: "syntaxError", Message: "unmatched opening bracket '" + unmatched.Lexeme + "'",
			Line: unmatched.Loc.Line, Column: unmatched.Loc.Column, File: unmatched.Loc.FileIndex,
		}
	}
	return diags, nil
}
