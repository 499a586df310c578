package pipeline

import (
	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

// FoldBlockAssignment rewrites a struct/array block-initializer
// assignment ("a = {1, 2, 3};" stays as-is, but "a = (Type){1, 2};"
// compound-literal syntax loses its redundant cast parentheses) so later
// passes see "a = {1, 2};" uniformly (spec.md §4.3 step 30).
func FoldBlockAssignment(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	forEachToken(u, func(r token.Ref) bool {
		if lexemeAt(u, r) != "=" {
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
		brace := u.Tokens.Next(closeParen)
		if lexemeAt(u, brace) != "{" {
			return true
		}
		// Only strip when the parenthesized span is a single type name
		// (a bare cast target), not an arbitrary parenthesized expression.
		inner := u.Tokens.Next(paren)
		if inner == token.NoRef || u.Tokens.Get(inner).Class != token.Name || u.Tokens.Next(inner) != closeParen {
			return true
		}
		_ = u.Tokens.Erase(paren, brace)
		return true
	})
	return nil, nil
}

// ExpandMultipleAssignment rewrites a chained assignment statement
// ("a = b = c;") into two statements ("b = c; a = b;") so value-flow's
// single-assignment-per-statement model applies uniformly (spec.md §4.3
// step 31).
func ExpandMultipleAssignment(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		if u.Tokens.Get(cur).Class == token.Name {
			eq1 := u.Tokens.Next(cur)
			if lexemeAt(u, eq1) == "=" {
				rhsStart := u.Tokens.Next(eq1)
				if u.Tokens.Get(rhsStart) != nil && u.Tokens.Get(rhsStart).Class == token.Name {
					eq2 := u.Tokens.Next(rhsStart)
					if lexemeAt(u, eq2) == "=" {
						semi := findStatementEnd(u, u.Tokens.Next(eq2))
						if semi != token.NoRef {
							lhsName := u.Tokens.Get(cur).Lexeme
							midName := u.Tokens.Get(rhsStart).Lexeme
							closeOfSecond := semi
							insertAt := closeOfSecond
							insertAt = u.Tokens.InsertAfter(insertAt, lhsName, token.Name)
							insertAt = u.Tokens.InsertAfter(insertAt, "=", token.OpAssignment)
							insertAt = u.Tokens.InsertAfter(insertAt, midName, token.Name)
							insertAt = u.Tokens.InsertAfter(insertAt, ";", token.Other)
							afterFirstEq := u.Tokens.Next(eq1)
							_ = u.Tokens.Erase(cur, afterFirstEq)
							next = afterFirstEq
						}
					}
				}
			}
		}
		cur = next
	}
	return nil, nil
}

// FoldOperatorName merges "operator" followed by a symbolic token
// ("operator" "+" -> "operator+") back into the single lexeme intake
// would have produced had whitespace not separated them, so the AST
// builder only has to recognize one spelling per overloaded operator
// name (spec.md §4.3 step 32).
func FoldOperatorName(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		if lexemeAt(u, cur) == "operator" {
			sym := next
			if sym != token.NoRef && lexemeAt(u, sym) != "(" {
				tok := u.Tokens.Get(cur)
				tok.Lexeme = "operator" + lexemeAt(u, sym)
				after := u.Tokens.Next(sym)
				_ = u.Tokens.Erase(sym, after)
				next = after
			}
		}
		cur = next
	}
	return nil, nil
}

// RemoveRedundantParens drops a parenthesized group around a single atom
// ("(x)" -> "x", "(42)" -> "42") when it is not part of a function call
// or cast, matching Tokenizer::simplifyRedundantParenthesis's
// conservative subset (spec.md §4.3 step 35).
func RemoveRedundantParens(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	forEachToken(u, func(r token.Ref) bool {
		if lexemeAt(u, r) != "(" {
			return true
		}
		prev := u.Tokens.Prev(r)
		if prev != token.NoRef {
			pt := u.Tokens.Get(prev)
			if pt.Class == token.Name || lexemeAt(u, prev) == ")" || lexemeAt(u, prev) == "]" {
				return true // call-like context, not a bare grouping
			}
		}
		inner := u.Tokens.Next(r)
		closeTok := u.Tokens.FindClosingBracket(r)
		if closeTok == token.NoRef || inner == token.NoRef {
			return true
		}
		if u.Tokens.Next(inner) != closeTok {
			return true
		}
		it := u.Tokens.Get(inner)
		if it.Class != token.Name && it.Class != token.Number {
			return true
		}
		after := u.Tokens.Next(closeTok)
		u.Tokens.MoveRange(inner, inner, r)
		u.Tokens.ClearLink(r)
		_ = u.Tokens.Erase(r, inner)
		_ = u.Tokens.Erase(closeTok, after)
		return true
	})
	return nil, nil
}

// ConvertInitializerToAssignment rewrites a parenthesized direct
// initializer ("T x(expr);") into copy-assignment form ("T x = expr;")
// for the simple single-argument case, so expression analysis treats
// every initialization as an "=" assignment AST node (spec.md §4.3 step
// 36).
func ConvertInitializerToAssignment(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		if u.Tokens.Get(cur).Class == token.Keyword && typeKeywords[lexemeAt(u, cur)] {
			nameTok := u.Tokens.Next(cur)
			if nameTok != token.NoRef && u.Tokens.Get(nameTok).Class == token.Name {
				paren := u.Tokens.Next(nameTok)
				if lexemeAt(u, paren) == "(" {
					closeTok := u.Tokens.FindClosingBracket(paren)
					if closeTok != token.NoRef && u.Tokens.Next(closeTok) != token.NoRef &&
						lexemeAt(u, u.Tokens.Next(closeTok)) == ";" {
						inner := u.Tokens.Next(paren)
						innerIsParamList := inner != token.NoRef && u.Tokens.Get(inner).Class == token.Keyword &&
							typeKeywords[lexemeAt(u, inner)]
						if inner != closeTok && !innerIsParamList {
							u.Tokens.ClearLink(paren)
							eqTok := u.Tokens.Get(paren)
							eqTok.Lexeme = "="
							eqTok.Class = token.OpAssignment
							eqTok.SetFlag(token.FlagInitBracket)
							_ = u.Tokens.Erase(closeTok, u.Tokens.Next(closeTok))
							next = u.Tokens.Next(paren)
						}
					}
				}
			}
		}
		cur = next
	}
	return nil, nil
}
