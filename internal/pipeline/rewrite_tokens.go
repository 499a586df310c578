package pipeline

import (
	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

// noParenLibraryCalls lists library functions cppcheck's configuration
// sometimes sees invoked without parentheses by macro trickery (e.g.
// "assert foo" after a macro that strips the call syntax); the pass
// rewrites "name arg ;" into "name ( arg ) ;" so later passes can treat
// every call uniformly.
var noParenLibraryCalls = map[string]bool{
	"assert": true,
}

// ParenthesizeLibraryCalls inserts parentheses around the argument of a
// known library call that intake saw without them (spec.md §4.3 step 5).
func ParenthesizeLibraryCalls(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	forEachToken(u, func(r token.Ref) bool {
		tok := u.Tokens.Get(r)
		if tok.Class != token.Name || !noParenLibraryCalls[tok.Lexeme] {
			return true
		}
		next := u.Tokens.Next(r)
		if next == token.NoRef || lexemeAt(u, next) == "(" {
			return true
		}
		end := next
		for end != token.NoRef && lexemeAt(u, end) != ";" {
			end = u.Tokens.Next(end)
		}
		if end == token.NoRef {
			return true
		}
		open := u.Tokens.InsertAfter(r, "(", token.Bracket)
		u.Tokens.MoveRange(next, u.Tokens.Prev(end), open)
		closeTok := u.Tokens.InsertBefore(end, ")", token.Bracket)
		u.Tokens.CreateMutualLink(open, closeTok)
		return true
	})
	return nil, nil
}

// debugIntrinsics are compiler-debug no-ops that cppcheck folds to
// nothing so the rest of the pipeline does not have to special-case them
// (spec.md §4.3 step 6).
var debugIntrinsics = map[string]bool{
	"__builtin_trap":          true,
	"__builtin_unreachable":   true,
	"__debugbreak":            true,
	"__builtin_expect_with_probability": true,
}

// FoldDebugIntrinsics replaces a debug-intrinsic call expression with a
// single ";" statement.
func FoldDebugIntrinsics(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		tok := u.Tokens.Get(cur)
		next := u.Tokens.Next(cur)
		if tok.Class == token.Name && debugIntrinsics[tok.Lexeme] && lexemeAt(u, next) == "(" {
			closeTok := u.Tokens.FindClosingBracket(next)
			if closeTok != token.NoRef {
				end := u.Tokens.Next(closeTok)
				prev := u.Tokens.Prev(cur)
				_ = u.Tokens.Erase(cur, end)
				semi := u.Tokens.InsertAfter(prev, ";", token.Other)
				cur = u.Tokens.Next(semi)
				continue
			}
		}
		cur = next
	}
	return nil, nil
}

// alternativeTokens maps the ISO C++ alternative spellings to their
// primary-token lexeme (spec.md §4.3 step 7).
var alternativeTokens = map[string]string{
	"and": "&&", "or": "||", "not": "!", "not_eq": "!=",
	"bitand": "&", "bitor": "|", "xor": "^", "compl": "~",
	"and_eq": "&=", "or_eq": "|=", "xor_eq": "^=",
}

var prunedHeaderNames = map[string]bool{
	"<windows.h>": true, "<afx.h>": true,
}

// StripPragmasAndAltTokens bundles the cluster of cheap lexical
// normalizations that don't need bracket context: #pragma removal,
// alternative-token expansion, header-pruning of platform headers the
// library database already models, and bare inline-asm block elision
// down to a single marker token (spec.md §4.3 step 7).
func StripPragmasAndAltTokens(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		tok := u.Tokens.Get(cur)
		next := u.Tokens.Next(cur)

		if tok.Class == token.Name {
			if alt, ok := alternativeTokens[tok.Lexeme]; ok {
				tok.OriginalName = tok.Lexeme
				tok.Lexeme = alt
				tok.Class = classifyOperatorLexeme(alt)
			}
		}

		if tok.Lexeme == "#include" && prunedHeaderNames[lexemeAt(u, next)] {
			end := u.Tokens.Next(next)
			_ = u.Tokens.Erase(cur, end)
			cur = end
			continue
		}

		if tok.Lexeme == "#pragma" {
			end := next
			for end != token.NoRef && u.Tokens.Get(end).Loc.Line == tok.Loc.Line {
				end = u.Tokens.Next(end)
			}
			prev := u.Tokens.Prev(cur)
			_ = u.Tokens.Erase(cur, end)
			cur = end
			_ = prev
			continue
		}

		if tok.Lexeme == "asm" && lexemeAt(u, next) == "(" {
			closeTok := u.Tokens.FindClosingBracket(next)
			if closeTok != token.NoRef {
				end := u.Tokens.Next(closeTok)
				prev := u.Tokens.Prev(cur)
				_ = u.Tokens.Erase(cur, end)
				semi := u.Tokens.InsertAfter(prev, ";", token.Other)
				cur = u.Tokens.Next(semi)
				continue
			}
		}

		cur = next
	}
	return nil, nil
}

func classifyOperatorLexeme(lex string) token.Class {
	switch lex {
	case "&&", "||", "!":
		return token.OpLogical
	case "!=", "==":
		return token.OpComparison
	case "&", "|", "^", "~", "&=", "|=", "^=":
		return token.OpArithmetic
	default:
		return token.Other
	}
}
