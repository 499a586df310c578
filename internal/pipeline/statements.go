package pipeline

import (
	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

// SimplifyCompoundStatement removes redundant nested braces that
// introduce no new declarations ("{ { stmt; } }" -> "{ stmt; }"),
// matching Tokenizer::simplifyCompoundStatements (spec.md §4.3 step 17).
func SimplifyCompoundStatement(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		if lexemeAt(u, cur) == "{" {
			inner := u.Tokens.Next(cur)
			if lexemeAt(u, inner) == "{" {
				innerClose := u.Tokens.FindClosingBracket(inner)
				outerClose := u.Tokens.FindClosingBracket(cur)
				if innerClose != token.NoRef && outerClose != token.NoRef && u.Tokens.Next(innerClose) == outerClose {
					u.Tokens.ClearLink(inner)
					after := u.Tokens.Next(inner)
					_ = u.Tokens.Erase(inner, after)
					afterClose := u.Tokens.Next(innerClose)
					_ = u.Tokens.Erase(innerClose, afterClose)
					next = cur
				}
			}
		}
		cur = next
	}
	return nil, nil
}

// InsertBraces wraps the single-statement body of if/for/while/do in
// braces so later passes never special-case a braceless body (spec.md
// §4.3 step 18).
func InsertBraces(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	forEachToken(u, func(r token.Ref) bool {
		lex := lexemeAt(u, r)
		if lex == "do" {
			bodyStart := u.Tokens.Next(r)
			if bodyStart == token.NoRef || lexemeAt(u, bodyStart) == "{" {
				return true
			}
			end := findStatementEnd(u, bodyStart)
			if end == token.NoRef {
				return true
			}
			open := u.Tokens.InsertAfter(r, "{", token.Bracket)
			closeTok := u.Tokens.InsertAfter(end, "}", token.Bracket)
			u.Tokens.CreateMutualLink(open, closeTok)
			return true
		}
		if lex != "if" && lex != "for" && lex != "while" {
			return true
		}
		if lex == "while" && isDoWhileTrailer(u, r) {
			return true
		}
		paren := u.Tokens.Next(r)
		if lexemeAt(u, paren) != "(" {
			return true
		}
		closeParen := u.Tokens.FindClosingBracket(paren)
		if closeParen == token.NoRef {
			return true
		}
		bodyStart := u.Tokens.Next(closeParen)
		if lexemeAt(u, bodyStart) == "{" || bodyStart == token.NoRef {
			return true
		}
		end := findStatementEnd(u, bodyStart)
		if end == token.NoRef {
			return true
		}
		open := u.Tokens.InsertAfter(closeParen, "{", token.Bracket)
		closeTok := u.Tokens.InsertAfter(end, "}", token.Bracket)
		u.Tokens.CreateMutualLink(open, closeTok)
		return true
	})
	return nil, nil
}

// isDoWhileTrailer reports whether the "while" at r is the trailing
// condition keyword of a "do { ... } while ( cond ) ;" statement rather
// than the head of its own while-loop: the only way a "while" keyword is
// immediately preceded by a "}" whose matching "{" is itself immediately
// preceded by "do".
func isDoWhileTrailer(u *intake.Unit, r token.Ref) bool {
	prev := u.Tokens.Prev(r)
	if prev == token.NoRef || lexemeAt(u, prev) != "}" {
		return false
	}
	open := u.Tokens.FindOpeningBracket(prev)
	if open == token.NoRef {
		return false
	}
	return lexemeAt(u, u.Tokens.Prev(open)) == "do"
}

// InsertElseIfBraces extends InsertBraces to the "else" arm: a braceless
// "else" body is wrapped in braces. An "else if" arm is left as it is
// (no braces are placed around the "if" statement itself); its "if" body
// is braced by InsertBraces. It runs after the primary if/for/while pass
// so it sees braces already placed on any preceding arm (spec.md §4.3
// step 37).
func InsertElseIfBraces(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	forEachToken(u, func(r token.Ref) bool {
		if lexemeAt(u, r) != "else" {
			return true
		}
		bodyStart := u.Tokens.Next(r)
		if bodyStart == token.NoRef || lexemeAt(u, bodyStart) == "{" || lexemeAt(u, bodyStart) == "if" {
			return true
		}
		end := findStatementEnd(u, bodyStart)
		if end == token.NoRef {
			return true
		}
		open := u.Tokens.InsertAfter(r, "{", token.Bracket)
		closeTok := u.Tokens.InsertAfter(end, "}", token.Bracket)
		u.Tokens.CreateMutualLink(open, closeTok)
		return true
	})
	return nil, nil
}

// findStatementEnd scans forward from a braceless statement's first
// token to its terminating ';', honoring nested brackets so a call's
// internal ';'-free argument list doesn't confuse it, and honoring one
// level of a nested if/for/while's own braceless body.
func findStatementEnd(u *intake.Unit, start token.Ref) token.Ref {
	depth := 0
	cur := start
	for cur != token.NoRef {
		lex := lexemeAt(u, cur)
		switch lex {
		case "(", "[":
			depth++
		case ")", "]":
			depth--
		case "{":
			return u.Tokens.FindClosingBracket(cur)
		case ";":
			if depth == 0 {
				return cur
			}
		}
		cur = u.Tokens.Next(cur)
	}
	return token.NoRef
}

// ParenthesizeSizeof adds parentheses around a "sizeof expr" call that
// omitted them for a simple unary operand, e.g. "sizeof x" -> "sizeof
// (x)" (spec.md §4.3 step 19).
func ParenthesizeSizeof(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	forEachToken(u, func(r token.Ref) bool {
		if lexemeAt(u, r) != "sizeof" {
			return true
		}
		next := u.Tokens.Next(r)
		if next == token.NoRef || lexemeAt(u, next) == "(" {
			return true
		}
		end := next
		for {
			n := u.Tokens.Next(end)
			if n == token.NoRef {
				break
			}
			nt := u.Tokens.Get(n)
			if nt.Lexeme == "." || nt.Lexeme == "->" || nt.Lexeme == "[" {
				if nt.Lexeme == "[" {
					end = u.Tokens.FindClosingBracket(n)
					continue
				}
				end = u.Tokens.Next(n)
				continue
			}
			break
		}
		open := u.Tokens.InsertAfter(r, "(", token.Bracket)
		closeTok := u.Tokens.InsertAfter(end, ")", token.Bracket)
		u.Tokens.CreateMutualLink(open, closeTok)
		return true
	})
	return nil, nil
}

// CanonicalizeArrayAccess rewrites pointer-arithmetic array access
// ("*(p + i)") into subscript form ("p[i]") where the operand shapes
// make the equivalence unambiguous, matying the canonical form
// value-flow's array-index analysis expects (spec.md §4.3 step 21).
func CanonicalizeArrayAccess(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	forEachToken(u, func(r token.Ref) bool {
		if lexemeAt(u, r) != "*" {
			return true
		}
		paren := u.Tokens.Next(r)
		if lexemeAt(u, paren) != "(" {
			return true
		}
		closeParen := u.Tokens.FindClosingBracket(paren)
		if closeParen == token.NoRef {
			return true
		}
		base := u.Tokens.Next(paren)
		if u.Tokens.Get(base) == nil || u.Tokens.Get(base).Class != token.Name {
			return true
		}
		plus := u.Tokens.Next(base)
		if lexemeAt(u, plus) != "+" {
			return true
		}
		idxStart := u.Tokens.Next(plus)
		if idxStart == closeParen {
			return true
		}
		idxEnd := u.Tokens.Prev(closeParen)
		open := u.Tokens.InsertAfter(base, "[", token.Bracket)
		u.Tokens.MoveRange(idxStart, idxEnd, open)
		closeTok := u.Tokens.InsertAfter(idxEnd, "]", token.Bracket)
		u.Tokens.CreateMutualLink(open, closeTok)
		u.Tokens.ClearLink(paren)
		_ = u.Tokens.Erase(plus, u.Tokens.Next(plus))
		_ = u.Tokens.Erase(closeParen, u.Tokens.Next(closeParen))
		_ = u.Tokens.Erase(r, base)
		return true
	})
	return nil, nil
}
