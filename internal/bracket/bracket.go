// Package bracket implements the second, template-aware bracket-linking
// pass of spec.md §4.6. Pass 1 ("()[]{}") runs early in internal/pipeline
// before variable ids exist; pass 2 runs only once variable ids are known,
// because distinguishing a template-opening '<' from a less-than
// comparison needs to know whether the name to its left is a variable.
// The two-phase split between internal/pipeline and this package exists
// because angle-bracket resolution is the one bracket kind that can't be
// decided locally.
package bracket

import (
	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

// LinkTemplateAngleBrackets heuristically links '<'/'>' pairs that form a
// template argument list: an identifier that is not a known variable (or
// "template"/"operator") immediately followed by '<', whose matching '>'
// is found without crossing a ';' or brace, the way
// TemplateSimplifier::findClosingBracket scans forward. A ">>" that
// closes two nested lists is split into two '>' tokens and each is
// linked to its own opener. Comparisons that merely look like a template
// ("a < b > c") are rejected because they cross a token that cannot
// appear inside a template-argument list, or because the name to their
// left already carries a variable id (spec.md §4.6).
func LinkTemplateAngleBrackets(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	var stack []token.Ref
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		tok := u.Tokens.Get(cur)
		switch tok.Lexeme {
		case "<":
			if tok.BracketLink == token.NoRef && opensTemplateList(u, cur) {
				stack = append(stack, cur)
			}
		case ">", ">>":
			if len(stack) == 0 {
				break
			}
			if tok.Lexeme == ">>" && len(stack) >= 2 {
				tok.Lexeme = ">"
				second := u.Tokens.InsertAfter(cur, ">", token.Bracket)
				open1 := stack[len(stack)-1]
				open2 := stack[len(stack)-2]
				stack = stack[:len(stack)-2]
				u.Tokens.CreateMutualLink(open1, cur)
				u.Tokens.CreateMutualLink(open2, second)
				markTemplateArgs(u, open1, cur)
				markTemplateArgs(u, open2, second)
				next = u.Tokens.Next(second)
				break
			}
			open := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			u.Tokens.CreateMutualLink(open, cur)
			markTemplateArgs(u, open, cur)
		case ";", "{", "}":
			stack = nil
		}
		cur = next
	}
	return nil, nil
}

// opensTemplateList applies the heuristics of spec.md §4.6: preceded by a
// name that is not a (known) variable and not a standalone keyword, or
// preceded by "template"/"operator", or the '<' is eventually followed by
// '>'/'>>' before a statement terminator — the forward scan in the caller
// already enforces the terminator half, so this only checks the left
// context.
func opensTemplateList(u *intake.Unit, ltRef token.Ref) bool {
	prev := u.Tokens.Prev(ltRef)
	if prev == token.NoRef {
		return false
	}
	prevTok := u.Tokens.Get(prev)
	if prevTok.Lexeme == "template" || prevTok.Lexeme == "operator" {
		return true
	}
	if prevTok.Class != token.Name {
		return false
	}
	return prevTok.VarID == 0
}

// markTemplateArgs flags every token strictly between open and close as
// a template argument, the bookkeeping the debug dump's
// "template-varid-usage" section reads (spec.md §6).
func markTemplateArgs(u *intake.Unit, open, closeTok token.Ref) {
	for t := u.Tokens.Next(open); t != token.NoRef && t != closeTok; t = u.Tokens.Next(t) {
		u.Tokens.Get(t).SetFlag(token.FlagTemplateArg)
	}
}
