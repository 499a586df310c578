package pipeline

import (
	"strings"

	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

// JoinSpaceshipAndAttributes fuses "<" "=" ">" into the three-way
// comparison operator "<=>" when intake left them split, and rewrites a
// "[[ attr ]]" bracket pair into the single FlagAttr* bits on the
// following token instead of leaving it in the stream as dead syntax
// (spec.md §4.3 step 10).
func JoinSpaceshipAndAttributes(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		if lexemeAt(u, cur) == "<" && matchSeq(u, cur, "<", "=", ">") {
			tok := u.Tokens.Get(cur)
			tok.Lexeme = "<=>"
			tok.Class = token.OpComparison
			third := advance(u, cur, 2)
			after := u.Tokens.Next(third)
			_ = u.Tokens.Erase(next, after)
			cur = after
			continue
		}
		if lexemeAt(u, cur) == "[[" || (lexemeAt(u, cur) == "[" && lexemeAt(u, next) == "[") {
			closeOuter := findAttributeClose(u, cur)
			if closeOuter != token.NoRef {
				applyAttributeFlags(u, cur, closeOuter)
				after := u.Tokens.Next(closeOuter)
				prev := u.Tokens.Prev(cur)
				_ = u.Tokens.Erase(cur, after)
				cur = u.Tokens.Next(prev)
				if cur == token.NoRef {
					cur = after
				}
				continue
			}
		}
		cur = next
	}
	return nil, nil
}

func findAttributeClose(u *intake.Unit, open token.Ref) token.Ref {
	cur := open
	for cur != token.NoRef {
		if lexemeAt(u, cur) == "]]" {
			return cur
		}
		if lexemeAt(u, cur) == "]" && lexemeAt(u, u.Tokens.Next(cur)) == "]" {
			return u.Tokens.Next(cur)
		}
		if lexemeAt(u, cur) == ";" {
			return token.NoRef
		}
		cur = u.Tokens.Next(cur)
	}
	return token.NoRef
}

var attributeFlagNames = map[string]token.Flags{
	"noreturn":      token.FlagAttrNoreturn,
	"nodiscard":     token.FlagAttrNodiscard,
	"maybe_unused":  token.FlagAttrMaybeUnused,
	"fallthrough":   token.FlagAttrFallthrough,
}

func applyAttributeFlags(u *intake.Unit, open, closeTok token.Ref) {
	after := u.Tokens.Next(closeTok)
	if after == token.NoRef {
		return
	}
	target := u.Tokens.Get(after)
	for cur := open; cur != closeTok; cur = u.Tokens.Next(cur) {
		lex := lexemeAt(u, cur)
		if flag, ok := attributeFlagNames[lex]; ok {
			target.SetFlag(flag)
		}
	}
}

// cppcheckAttributeWords are the attribute words inside __attribute__/__declspec
// decoded into the same Flag bits as C++11 [[attr]] syntax (spec.md §4.3
// step 13).
var cppcheckAttributeWords = map[string]token.Flags{
	"constructor": token.FlagAttrConstructor,
	"destructor":  token.FlagAttrDestructor,
	"pure":        token.FlagAttrPure,
	"const":       token.FlagAttrConst,
	"noreturn":    token.FlagAttrNoreturn,
	"nothrow":     token.FlagAttrNothrow,
	"unused":      token.FlagAttrUnused,
	"used":        token.FlagAttrUsed,
	"packed":      token.FlagAttrPacked,
	"aligned":     token.FlagAttrAligned,
	"dllexport":   token.FlagAttrExport,
}

// DecodeCppcheckAttributes folds "__attribute__((...))" and
// "__declspec(...)" into Flag bits on the following token and removes
// the bracketed text, the GCC/MSVC equivalent of C++11 attributes.
func DecodeCppcheckAttributes(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		lex := lexemeAt(u, cur)
		if (lex == "__attribute__" || lex == "__attribute") && lexemeAt(u, next) == "(" {
			inner := u.Tokens.FindClosingBracket(next)
			if inner != token.NoRef {
				after := u.Tokens.Next(inner)
				applyCppcheckAttributeWords(u, cur, after)
				prev := u.Tokens.Prev(cur)
				_ = u.Tokens.Erase(cur, after)
				cur = after
				_ = prev
				continue
			}
		}
		if lex == "__declspec" && lexemeAt(u, next) == "(" {
			closeTok := u.Tokens.FindClosingBracket(next)
			if closeTok != token.NoRef {
				after := u.Tokens.Next(closeTok)
				applyCppcheckAttributeWords(u, cur, after)
				_ = u.Tokens.Erase(cur, after)
				cur = after
				continue
			}
		}
		cur = next
	}
	return nil, nil
}

func applyCppcheckAttributeWords(u *intake.Unit, from, to token.Ref) {
	if to == token.NoRef {
		return
	}
	target := u.Tokens.Get(to)
	for cur := from; cur != to && cur != token.NoRef; cur = u.Tokens.Next(cur) {
		lex := strings.Trim(lexemeAt(u, cur), `"`)
		if flag, ok := cppcheckAttributeWords[lex]; ok {
			target.SetFlag(flag)
		}
	}
}

// FoldOperators combines the two- and three-character compound operator
// spellings intake may leave split ("+" "=" -> "+=", "-" ">" -> "->",
// ":" ":" -> "::") into single tokens (spec.md §4.3 step 14).
func FoldOperators(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	pairs := []struct {
		a, b, joined string
		class        token.Class
	}{
		{"+", "=", "+=", token.OpAssignment},
		{"-", "=", "-=", token.OpAssignment},
		{"*", "=", "*=", token.OpAssignment},
		{"/", "=", "/=", token.OpAssignment},
		{"-", ">", "->", token.Other},
		{":", ":", "::", token.Other},
		{"=", "=", "==", token.OpComparison},
		{"!", "=", "!=", token.OpComparison},
		{"<", "=", "<=", token.OpComparison},
		{">", "=", ">=", token.OpComparison},
	}
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		matched := false
		for _, p := range pairs {
			if lexemeAt(u, cur) == p.a && lexemeAt(u, next) == p.b {
				tok := u.Tokens.Get(cur)
				tok.Lexeme = p.joined
				tok.Class = p.class
				after := u.Tokens.Next(next)
				_ = u.Tokens.Erase(next, after)
				cur = after
				matched = true
				break
			}
		}
		if !matched {
			cur = next
		}
	}
	return nil, nil
}

// ConcatSignedNumbers folds a unary +/- immediately before a numeric
// literal into the literal's lexeme when the preceding context cannot be
// a binary operator (start of expression, after '(', ',', '=', "return",
// or another operator), so later arithmetic passes see one signed
// literal instead of a unary-operator AST node (spec.md §4.3 step 15).
func ConcatSignedNumbers(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		lex := lexemeAt(u, cur)
		if (lex == "+" || lex == "-") && u.Tokens.Get(next) != nil && u.Tokens.Get(next).Class == token.Number {
			prev := u.Tokens.Prev(cur)
			if isUnaryContext(u, prev) {
				numTok := u.Tokens.Get(next)
				numTok.Lexeme = lex + numTok.Lexeme
				after := u.Tokens.Next(next)
				p := u.Tokens.Prev(cur)
				_ = u.Tokens.Erase(cur, next)
				cur = u.Tokens.Next(p)
				if cur == token.NoRef {
					cur = after
				}
				continue
			}
		}
		cur = next
	}
	return nil, nil
}

func isUnaryContext(u *intake.Unit, r token.Ref) bool {
	if r == token.NoRef {
		return true
	}
	lex := lexemeAt(u, r)
	switch lex {
	case "(", "[", "{", ",", "=", "+", "-", "*", "/", "return", ":", "?", "<", ">", "<=", ">=", "==", "!=", "&&", "||":
		return true
	}
	return false
}

// RemoveExternC strips the `extern "C" { ... }` wrapper (and the
// single-declaration form without braces), leaving the enclosed
// declarations in place, since linkage specification has no bearing on
// later checker-visible semantics (spec.md §4.3 step 16).
func RemoveExternC(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		if lexemeAt(u, cur) == "extern" && isStringLexemeC(lexemeAt(u, next)) {
			after := u.Tokens.Next(next)
			if lexemeAt(u, after) == "{" {
				closeTok := u.Tokens.FindClosingBracket(after)
				if closeTok != token.NoRef {
					openAfter := u.Tokens.Next(after)
					closeBefore := u.Tokens.Prev(closeTok)
					prev := u.Tokens.Prev(cur)
					u.Tokens.ClearLink(after)
					_ = u.Tokens.Erase(cur, openAfter)
					next2 := u.Tokens.Next(closeTok)
					if closeBefore != token.NoRef {
						_ = u.Tokens.Erase(closeTok, next2)
					}
					cur = openAfter
					_ = prev
					continue
				}
			}
			prev := u.Tokens.Prev(cur)
			_ = u.Tokens.Erase(cur, after)
			cur = u.Tokens.Next(prev)
			if cur == token.NoRef {
				cur = after
			}
			continue
		}
		cur = next
	}
	return nil, nil
}

func isStringLexemeC(lex string) bool {
	return lex == `"C"` || lex == `"C++"`
}

// CleanupDoublePlusMinus collapses a run of consecutive unary +/-
// operators applied to the same operand ("- - x" -> "x" or "-x"
// depending on parity, "+ + x" -> "x"), the fold cppcheck applies after
// variable IDs are assigned so value-flow sees canonical sign chains
// (spec.md §4.3 step 45).
func CleanupDoublePlusMinus(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		lex := lexemeAt(u, cur)
		if (lex == "+" || lex == "-") && isUnaryContext(u, u.Tokens.Prev(cur)) {
			nlex := lexemeAt(u, next)
			if nlex == "+" || nlex == "-" {
				combined := signOf(lex) * signOf(nlex)
				after := u.Tokens.Next(next)
				prev := u.Tokens.Prev(cur)
				_ = u.Tokens.Erase(cur, after)
				sign := "+"
				if combined < 0 {
					sign = "-"
				}
				ins := u.Tokens.InsertAfter(prev, sign, token.OpArithmetic)
				cur = ins
				continue
			}
			if lex == "+" {
				after := u.Tokens.Next(cur)
				prev := u.Tokens.Prev(cur)
				_ = u.Tokens.Erase(cur, after)
				cur = u.Tokens.Next(prev)
				if cur == token.NoRef {
					cur = after
				}
				continue
			}
		}
		cur = next
	}
	return nil, nil
}

func signOf(lex string) int {
	if lex == "-" {
		return -1
	}
	return 1
}
