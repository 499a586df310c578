package pipeline

import (
	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

// ConvertKandRAndSplitDecls rewrites K&R-style parameter declarations
// ("int f(a, b) int a; char *b; { ... }") into ANSI form, and splits a
// multi-name declaration ("int a, b;") into one declaration per name
// ("int a; int b;") so every later pass can assume one name per
// declaration statement (spec.md §4.3 step 22). The K&R conversion runs
// first, so a comma-joined K&R declaration such as "int a, b;" after the
// parameter list is not converted.
func ConvertKandRAndSplitDecls(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	convertKandR(u)
	splitCommaDecls(u)
	return nil, nil
}

// kandrTok is a type-token snapshot (lexeme + class), copied out of a
// trailing K&R declaration before that declaration is erased.
type kandrTok struct {
	lexeme string
	class  token.Class
}

// convertKandR finds "name ( p1 , p2 , ... ) TYPE p1 ; TYPE p2 ; {"
// declarator patterns — a parenthesized list of bare parameter names
// immediately followed by their separate declarations — and rewrites
// them to ANSI form: the declared type of each parameter is inlined
// into the parameter list in place of the bare name, and the trailing
// declaration statements are erased.
func convertKandR(u *intake.Unit) {
	for cur := u.Tokens.Front(); cur != token.NoRef; {
		next := u.Tokens.Next(cur)
		if lexemeAt(u, cur) == "(" {
			if applied, after := tryConvertKandR(u, cur); applied {
				next = after
			}
		}
		cur = next
	}
}

// tryConvertKandR attempts a K&R conversion for the parameter list
// opened at `open`. It reports whether a conversion was applied and,
// if so, the token to resume scanning from.
func tryConvertKandR(u *intake.Unit, open token.Ref) (bool, token.Ref) {
	closeTok := u.Tokens.Get(open).BracketLink
	if closeTok == token.NoRef {
		return false, token.NoRef
	}
	prev := u.Tokens.Prev(open)
	if prev == token.NoRef || u.Tokens.Get(prev).Class != token.Name {
		return false, token.NoRef
	}
	after := u.Tokens.Next(closeTok)
	if after == token.NoRef {
		return false, token.NoRef
	}
	afterTok := u.Tokens.Get(after)
	if afterTok.Class != token.Keyword || !typeKeywords[afterTok.Lexeme] {
		return false, token.NoRef
	}

	names := kandrParamNames(u, open, closeTok)
	if names == nil {
		return false, token.NoRef
	}
	decls, bodyBrace, ok := collectKandrDecls(u, after)
	if !ok {
		return false, token.NoRef
	}

	for _, nameRef := range names {
		typeToks, ok := decls[u.Tokens.Get(nameRef).Lexeme]
		if !ok {
			continue
		}
		for _, tt := range typeToks {
			u.Tokens.InsertBefore(nameRef, tt.lexeme, tt.class)
		}
	}
	if err := u.Tokens.Erase(after, bodyBrace); err != nil {
		return false, token.NoRef
	}
	return true, u.Tokens.Next(closeTok)
}

// kandrParamNames returns the Refs of the bare parameter names between
// open and closeTok if every token in between is a Name or a comma
// separator (the shape a K&R parameter list has before conversion), or
// nil if the list is empty or contains anything else (already-typed
// ANSI parameters, "void", an expression, ...).
func kandrParamNames(u *intake.Unit, open, closeTok token.Ref) []token.Ref {
	var names []token.Ref
	expectName := true
	for cur := u.Tokens.Next(open); cur != closeTok; cur = u.Tokens.Next(cur) {
		if cur == token.NoRef {
			return nil
		}
		tok := u.Tokens.Get(cur)
		if expectName {
			if tok.Class != token.Name {
				return nil
			}
			names = append(names, cur)
		} else if tok.Lexeme != "," {
			return nil
		}
		expectName = !expectName
	}
	if len(names) == 0 || !expectName {
		return nil
	}
	return names
}

// collectKandrDecls parses the sequence of "TYPE [*...] name ;"
// declarations starting at `start`, stopping at the first "{". It
// returns the declared type tokens keyed by parameter name, and the
// Ref of that "{", or ok=false if the sequence isn't a clean run of
// declarations (meaning `start` wasn't actually a K&R declaration
// block after all).
func collectKandrDecls(u *intake.Unit, start token.Ref) (map[string][]kandrTok, token.Ref, bool) {
	decls := make(map[string][]kandrTok)
	cur := start
	for cur != token.NoRef && lexemeAt(u, cur) != "{" {
		var typeToks []kandrTok
		for {
			tok := u.Tokens.Get(cur)
			if tok == nil {
				return nil, token.NoRef, false
			}
			if (tok.Class == token.Keyword && typeKeywords[tok.Lexeme]) || tok.Lexeme == "*" {
				typeToks = append(typeToks, kandrTok{tok.Lexeme, tok.Class})
				cur = u.Tokens.Next(cur)
				continue
			}
			break
		}
		if len(typeToks) == 0 {
			return nil, token.NoRef, false
		}
		nameTok := u.Tokens.Get(cur)
		if nameTok == nil || nameTok.Class != token.Name {
			return nil, token.NoRef, false
		}
		decls[nameTok.Lexeme] = typeToks
		cur = u.Tokens.Next(cur)
		if lexemeAt(u, cur) != ";" {
			return nil, token.NoRef, false
		}
		cur = u.Tokens.Next(cur)
	}
	if cur == token.NoRef {
		return nil, token.NoRef, false
	}
	return decls, cur, true
}

// SplitVarDeclsSecondPass repeats the comma-split after pointer/array
// declarator and template-argument rewriting may have produced new
// comma-joined declarations (spec.md §4.3 step 38).
func SplitVarDeclsSecondPass(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	splitCommaDecls(u)
	return nil, nil
}

var typeKeywords = map[string]bool{
	"int": true, "char": true, "long": true, "short": true, "unsigned": true,
	"signed": true, "float": true, "double": true, "bool": true, "void": true,
	"auto": true, "const": true, "static": true,
}

// splitCommaDecls finds "TYPE name, name2, name3;" declaration
// statements with no initializers or function parameters in the way,
// and rewrites them to one declaration per name ("TYPE name; TYPE
// name2; TYPE name3;"), tagging each synthesized separator with
// FlagSplitVarDeclComma so the symbol builder can recognize synthesized
// statement boundaries.
func splitCommaDecls(u *intake.Unit) {
	cur := u.Tokens.Front()
	parenDepth := 0
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		switch lexemeAt(u, cur) {
		case "(":
			parenDepth++
		case ")":
			if parenDepth > 0 {
				parenDepth--
			}
		}
		if parenDepth == 0 && u.Tokens.Get(cur).Class == token.Keyword && typeKeywords[lexemeAt(u, cur)] {
			typeEnd := cur
			for typeKeywords[lexemeAt(u, u.Tokens.Next(typeEnd))] {
				typeEnd = u.Tokens.Next(typeEnd)
			}
			nameTok := u.Tokens.Next(typeEnd)
			if nameTok == token.NoRef || u.Tokens.Get(nameTok).Class != token.Name {
				cur = next
				continue
			}
			if lexemeAt(u, u.Tokens.Next(nameTok)) != "," {
				cur = next
				continue
			}
			// Snapshot the type tokens so they can be replayed before
			// every name after the first.
			var typeLexemes []string
			var typeClasses []token.Class
			for t := cur; t != u.Tokens.Next(typeEnd); t = u.Tokens.Next(t) {
				tt := u.Tokens.Get(t)
				typeLexemes = append(typeLexemes, tt.Lexeme)
				typeClasses = append(typeClasses, tt.Class)
			}

			insertAt := nameTok
			for lexemeAt(u, u.Tokens.Next(insertAt)) == "," {
				comma := u.Tokens.Next(insertAt)
				nextName := u.Tokens.Next(comma)
				if nextName == token.NoRef || u.Tokens.Get(nextName).Class != token.Name {
					break
				}
				commaTok := u.Tokens.Get(comma)
				commaTok.Lexeme = ";"
				commaTok.Class = token.Other
				commaTok.SetFlag(token.FlagSplitVarDeclComma)
				at := comma
				for i, lex := range typeLexemes {
					at = u.Tokens.InsertAfter(at, lex, typeClasses[i])
				}
				u.Tokens.MoveRange(nextName, nextName, at)
				insertAt = nextName
			}
			next = u.Tokens.Next(cur)
		}
		cur = next
	}
}
