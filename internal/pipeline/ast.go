package pipeline

import (
	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/internal/symbols"
	"github.com/jhnc-oss/cppcheck-sub000/internal/varid"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

// AssignVariableIDs runs the two-pass variable-id assignment
// (spec.md §4.5), delegating to internal/varid now that the stream's
// brace structure and declarations are in final form.
func AssignVariableIDs(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	varid.Assign(u)
	return nil, nil
}

var overloadableOperators = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "==": true, "!=": true,
	"<": true, ">": true, "<=": true, ">=": true, "[]": true,
}

// RewriteOverloadedOperatorCalls rewrites "a.operator+(b)" member-call
// syntax back into plain operator-expression form ("a + b") so the
// expression-AST builder that follows only has to understand one
// calling convention per operator (spec.md §4.3 step 49).
func RewriteOverloadedOperatorCalls(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	forEachToken(u, func(r token.Ref) bool {
		tok := u.Tokens.Get(r)
		if (tok.Class != token.Name && tok.Class != token.Keyword) || len(tok.Lexeme) <= len("operator") || tok.Lexeme[:len("operator")] != "operator" {
			return true
		}
		opLexeme := tok.Lexeme[len("operator"):]
		if !overloadableOperators[opLexeme] {
			return true
		}
		dot := u.Tokens.Prev(r)
		if lexemeAt(u, dot) != "." {
			return true
		}
		receiver := u.Tokens.Prev(dot)
		if receiver == token.NoRef || u.Tokens.Get(receiver).Class != token.Name {
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
		arg := u.Tokens.Next(paren)
		if arg == closeParen {
			return true
		}
		opTok := u.Tokens.Get(r)
		opTok.Lexeme = opLexeme
		opTok.Class = classifyOperatorLexeme(opLexeme)
		u.Tokens.ClearLink(paren)
		_ = u.Tokens.Erase(dot, r)
		_ = u.Tokens.Erase(paren, arg)
		after := u.Tokens.Next(closeParen)
		_ = u.Tokens.Erase(closeParen, after)
		return true
	})
	return nil, nil
}

var binaryPrecedence = map[string]int{
	"||": 1, "&&": 2,
	"==": 3, "!=": 3,
	"<": 4, ">": 4, "<=": 4, ">=": 4,
	"+": 5, "-": 5,
	"*": 6, "/": 6, "%": 6,
}

// BuildASTAndSymbols is the pipeline's final stage: it links each
// top-level statement's expression into a binary-operator AST with
// precedence climbing (spec.md §4.3 step 50's "minimal AST"), then
// builds the scope/variable/function graph in internal/symbols and
// attaches it to the Unit for the checker host to query.
func BuildASTAndSymbols(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	linkExpressionASTs(u)
	u.Symbols = symbols.Build(u)
	return nil, nil
}

// linkExpressionASTs scans for ';'-terminated (or unterminated, at EOF)
// expression runs outside of declarations and links each into a binary
// tree by precedence climbing over tokens that are themselves already
// leaves (names, numbers, string/char literals) or bracketed
// subexpressions (left untouched with no further descent — their
// internal structure, if any, was linked when they were themselves
// visited as a top-level run by an earlier statement, matching the
// conservative "do not re-descend into bracketed groups" shape of a
// best-effort normalizer's AST).
func linkExpressionASTs(u *intake.Unit) {
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		tok := u.Tokens.Get(cur)
		if isExpressionLeaf(tok) {
			end := cur
			for {
				n := u.Tokens.Next(end)
				if n == token.NoRef || lexemeAt(u, n) == ";" || lexemeAt(u, n) == "{" || lexemeAt(u, n) == "}" {
					break
				}
				end = n
			}
			if end != cur {
				linkRange(u, cur, end)
			}
			cur = u.Tokens.Next(end)
			continue
		}
		cur = u.Tokens.Next(cur)
	}
}

func isExpressionLeaf(tok *token.Token) bool {
	switch tok.Class {
	case token.Name, token.Number, token.StringLiteral, token.CharLiteral, token.Boolean:
		return true
	}
	return false
}

// linkRange builds operand/operator refs for [from, to] using a simple
// left-to-right precedence-climbing pass, treating any bracketed group
// encountered as a single opaque operand.
func linkRange(u *intake.Unit, from, to token.Ref) {
	type node struct {
		tok  token.Ref
		prec int
	}
	var operands []token.Ref
	var operators []node

	apply := func() {
		if len(operators) == 0 || len(operands) < 2 {
			return
		}
		op := operators[len(operators)-1]
		rhs := operands[len(operands)-1]
		lhs := operands[len(operands)-2]
		operands = operands[:len(operands)-2]
		operators = operators[:len(operators)-1]
		u.Tokens.LinkAst(op.tok, lhs, rhs)
		operands = append(operands, op.tok)
	}

	cur := from
	expectOperand := true
	for {
		lex := lexemeAt(u, cur)
		if expectOperand {
			if token.IsOpenBracket(lex) && lex != "<" {
				closeTok := u.Tokens.FindClosingBracket(cur)
				operands = append(operands, cur)
				if closeTok != token.NoRef && closeTok != to {
					cur = u.Tokens.Next(closeTok)
				} else {
					break
				}
				expectOperand = false
				continue
			}
			operands = append(operands, cur)
			expectOperand = false
		} else {
			prec, ok := binaryPrecedence[lex]
			if !ok {
				break
			}
			for len(operators) > 0 && operators[len(operators)-1].prec >= prec {
				apply()
			}
			operators = append(operators, node{tok: cur, prec: prec})
			expectOperand = true
		}
		if cur == to {
			break
		}
		n := u.Tokens.Next(cur)
		if n == token.NoRef {
			break
		}
		cur = n
	}
	for len(operators) > 0 {
		apply()
	}
}
