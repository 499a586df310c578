package pipeline

import (
	"strconv"

	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

// SplitTemplateRightAngle splits a ">>" lexeme into two ">" tokens when
// it closes nested template argument lists (e.g. "vector<vector<int>>"),
// the classic C++03 "most vexing >>" lexer ambiguity. Intake classifies
// ">>" as a single shift operator; this pass undoes that inside template
// contexts so LinkTemplateAngleBrackets later sees balanced brackets
// (spec.md §4.3 step 8).
func SplitTemplateRightAngle(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	// depth tracks how many unmatched '<' we believe are open, using the
	// same "identifier immediately before '<'" heuristic as the later
	// linking pass, since full linking hasn't run yet.
	depth := 0
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		tok := u.Tokens.Get(cur)
		next := u.Tokens.Next(cur)
		switch tok.Lexeme {
		case "<":
			prev := u.Tokens.Prev(cur)
			if prev != token.NoRef && (u.Tokens.Get(prev).Class == token.Name || lexemeAt(u, prev) == "template") {
				depth++
			}
		case ">":
			if depth > 0 {
				depth--
			}
		case ">>":
			if depth >= 2 {
				tok.Lexeme = ">"
				ins := u.Tokens.InsertAfter(cur, ">", token.OpComparison)
				depth -= 2
				next = u.Tokens.Next(ins)
			}
		case ";", "{", "}", "(", ")":
			depth = 0
		}
		cur = next
	}
	return nil, nil
}

// RemoveExtraTemplateKeyword drops a disambiguating "template" keyword
// that appears before a dependent member name (e.g. "obj.template
// foo<T>()"), which has no meaning once the stream is no longer being
// parsed with two-phase lookup in mind (spec.md §4.3 step 9).
func RemoveExtraTemplateKeyword(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		if lexemeAt(u, cur) == "template" {
			prev := u.Tokens.Prev(cur)
			if prev != token.NoRef && (lexemeAt(u, prev) == "." || lexemeAt(u, prev) == "->") {
				_ = u.Tokens.Erase(cur, next)
			}
		}
		cur = next
	}
	return nil, nil
}

// SimplifyTemplateNumericArgs folds a parenthesized constant-arithmetic
// template argument like "Array<1 + 2>" down to its numeric literal
// ("Array<3>"), matching TemplateSimplifier's constant folding of
// non-type template parameters for the handful of operators that are
// unambiguous without a full expression evaluator (spec.md §4.3 step 20).
func SimplifyTemplateNumericArgs(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	forEachToken(u, func(r token.Ref) bool {
		tok := u.Tokens.Get(r)
		if tok.Lexeme != "<" || tok.BracketLink == token.NoRef {
			return true
		}
		closeTok := tok.BracketLink
		a := u.Tokens.Next(r)
		if a == token.NoRef || a == closeTok {
			return true
		}
		op := u.Tokens.Next(a)
		if op == token.NoRef || op == closeTok {
			return true
		}
		b := u.Tokens.Next(op)
		if b == token.NoRef {
			return true
		}
		after := u.Tokens.Next(b)
		if after != closeTok {
			return true
		}
		at, ot, bt := u.Tokens.Get(a), u.Tokens.Get(op), u.Tokens.Get(b)
		if at.Class != token.Number || bt.Class != token.Number {
			return true
		}
		av, errA := strconv.Atoi(at.Lexeme)
		bv, errB := strconv.Atoi(bt.Lexeme)
		if errA != nil || errB != nil {
			return true
		}
		var result int
		switch ot.Lexeme {
		case "+":
			result = av + bv
		case "-":
			result = av - bv
		case "*":
			result = av * bv
		default:
			return true
		}
		at.Lexeme = strconv.Itoa(result)
		_ = u.Tokens.Erase(op, closeTok)
		return true
	})
	return nil, nil
}
