package pipeline

import (
	"strings"

	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

// EarlyValidation rejects obvious garbage before any rewriting pass
// touches the stream: stray '@' outside an attribute/Objective-C
// context, and unmatched quote characters that intake could not turn
// into a single string/char literal token (spec.md §4.3 step 1).
func EarlyValidation(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	var diags []diagnostic.Diagnostic
	forEachToken(u, func(r token.Ref) bool {
		tok := u.Tokens.Get(r)
		if tok.Lexeme == "@" {
			diags = append(diags, diagnostic.New(
				[]diagnostic.Frame{{File: u.Files.Path(tok.Loc.FileIndex), Line: tok.Loc.Line, Column: tok.Loc.Column, SimplifiedPath: u.Files.Path(tok.Loc.FileIndex)}},
				diagnostic.SeverityError, "syntaxError", "stray '@' in program", diagnostic.CertaintyNormal))
		}
		unescaped := strings.NewReplacer(`\\`, "", `\"`, "").Replace(tok.Lexeme)
		if tok.Class != token.CharLiteral && strings.Count(unescaped, `"`)%2 != 0 {
			diags = append(diags, diagnostic.New(
				[]diagnostic.Frame{{File: u.Files.Path(tok.Loc.FileIndex), Line: tok.Loc.Line, Column: tok.Loc.Column, SimplifiedPath: u.Files.Path(tok.Loc.FileIndex)}},
				diagnostic.SeverityError, "syntaxError", "unmatched quote in token", diagnostic.CertaintyNormal))
		}
		return true
	})
	return diags, nil
}

// CombineStringLiterals concatenates adjacent StringLiteral-class tokens
// into one token, folding L"x" "y" style pairs (the result keeps an L
// prefix if either side has one; u8/u/U prefixes are dropped). Escape
// sequences are kept as written, not decoded. Char literals are never
// combined (spec.md §4.3 step 2).
func CombineStringLiterals(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		tok := u.Tokens.Get(cur)
		next := u.Tokens.Next(cur)
		if tok.Class == token.StringLiteral {
			for next != token.NoRef {
				nt := u.Tokens.Get(next)
				if nt.Class != token.StringLiteral {
					break
				}
				merged := mergeStringLiterals(tok.Lexeme, nt.Lexeme)
				tok.Lexeme = merged
				after := u.Tokens.Next(next)
				_ = u.Tokens.Erase(next, after)
				next = after
			}
		}
		cur = u.Tokens.Next(cur)
	}
	return nil, nil
}

func mergeStringLiterals(a, b string) string {
	trim := func(s string) string {
		s = strings.TrimPrefix(s, "L")
		s = strings.TrimPrefix(s, "u8")
		s = strings.TrimPrefix(s, "u")
		s = strings.TrimPrefix(s, "U")
		return strings.Trim(s, `"`)
	}
	prefix := ""
	if strings.HasPrefix(a, "L") || strings.HasPrefix(b, "L") {
		prefix = "L"
	}
	return prefix + `"` + trim(a) + trim(b) + `"`
}

// ElideSQLBlocks replaces "EXEC SQL ... ;" embedded-SQL blocks with a
// single asm("...") surrogate token, the way cppcheck keeps the rest of
// the pipeline moving over embedded-SQL TUs it cannot otherwise parse
// (spec.md §4.3 step 3).
func ElideSQLBlocks(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		if matchSeq(u, cur, "EXEC", "SQL") {
			end := cur
			for end != token.NoRef && lexemeAt(u, end) != ";" {
				end = u.Tokens.Next(end)
			}
			if end == token.NoRef {
				break
			}
			after := u.Tokens.Next(end)
			prev := u.Tokens.Prev(cur)
			_ = u.Tokens.Erase(cur, after)
			surrogate := u.Tokens.InsertAfter(prev, "asm", token.Keyword)
			open := u.Tokens.InsertAfter(surrogate, "(", token.Bracket)
			str := u.Tokens.InsertAfter(open, `"SQL"`, token.StringLiteral)
			closeTok := u.Tokens.InsertAfter(str, ")", token.Bracket)
			u.Tokens.CreateMutualLink(open, closeTok)
			semi := u.Tokens.InsertAfter(closeTok, ";", token.Other)
			cur = u.Tokens.Next(semi)
			continue
		}
		cur = u.Tokens.Next(cur)
	}
	return nil, nil
}
