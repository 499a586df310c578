package pipeline

import (
	"strconv"

	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

var cppCastKeywords = map[string]bool{
	"static_cast": true, "dynamic_cast": true, "const_cast": true, "reinterpret_cast": true,
}

// MarkCppCasts sets FlagCast on a C++-style cast's angle-bracket-delimited
// target-type token so later passes can recognize a cast without
// re-parsing "static_cast<T>(expr)" syntax (spec.md §4.3 step 39).
func MarkCppCasts(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	forEachToken(u, func(r token.Ref) bool {
		if !cppCastKeywords[lexemeAt(u, r)] {
			return true
		}
		angle := u.Tokens.Next(r)
		if lexemeAt(u, angle) != "<" {
			return true
		}
		closeAngle := u.Tokens.FindClosingBracket(angle)
		if closeAngle == token.NoRef {
			return true
		}
		for t := u.Tokens.Next(angle); t != closeAngle; t = u.Tokens.Next(t) {
			u.Tokens.Get(t).SetFlag(token.FlagCast)
		}
		return true
	})
	return nil, nil
}

// InferArraySize fills in an omitted array bound from its brace
// initializer's element count ("int a[] = {1, 2, 3};" -> the "]"
// token's paired "[" gets a synthesized "3" between them), the way
// Tokenizer::arraySize avoids leaving array-bounds checks without a
// size to reason about (spec.md §4.3 step 40).
func InferArraySize(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	forEachToken(u, func(r token.Ref) bool {
		if lexemeAt(u, r) != "[" {
			return true
		}
		closeBracket := u.Tokens.FindClosingBracket(r)
		if closeBracket == token.NoRef || u.Tokens.Next(r) != closeBracket {
			return true
		}
		eq := u.Tokens.Next(closeBracket)
		if lexemeAt(u, eq) != "=" {
			return true
		}
		brace := u.Tokens.Next(eq)
		if lexemeAt(u, brace) != "{" {
			return true
		}
		braceClose := u.Tokens.FindClosingBracket(brace)
		if braceClose == token.NoRef {
			return true
		}
		count := 0
		depth := 0
		for t := u.Tokens.Next(brace); t != braceClose; t = u.Tokens.Next(t) {
			lex := lexemeAt(u, t)
			switch lex {
			case "{", "(", "[":
				depth++
			case "}", ")", "]":
				depth--
			case ",":
				if depth == 0 {
					continue
				}
			}
			if depth == 0 && lex != "," {
				if prev := u.Tokens.Prev(t); prev == brace || lexemeAt(u, prev) == "," {
					count++
				}
			}
		}
		if count == 0 && u.Tokens.Next(brace) != braceClose {
			count = 1
		}
		ins := u.Tokens.InsertAfter(r, strconv.Itoa(count), token.Number)
		_ = ins
		return true
	})
	return nil, nil
}

var stdContainerNames = map[string]bool{
	"vector": true, "map": true, "set": true, "string": true, "unordered_map": true,
	"unordered_set": true, "list": true, "deque": true, "pair": true, "unique_ptr": true,
	"shared_ptr": true, "array": true,
}

// PrefixStdNames prefixes a bare standard-library container/smart-pointer
// name with "std::" when it appears without qualification but a "using
// namespace std;" directive is in scope for the translation unit,
// letting later passes always match on the qualified spelling (spec.md
// §4.3 step 41).
func PrefixStdNames(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	if !hasUsingNamespaceStd(u) {
		return nil, nil
	}
	forEachToken(u, func(r token.Ref) bool {
		tok := u.Tokens.Get(r)
		if tok.Class != token.Name || !stdContainerNames[tok.Lexeme] {
			return true
		}
		prev := u.Tokens.Prev(r)
		if lexemeAt(u, prev) == "::" {
			return true
		}
		u.Tokens.InsertBefore(r, "std", token.Name)
		colon := u.Tokens.InsertBefore(r, "::", token.Other)
		_ = colon
		return true
	})
	return nil, nil
}

func hasUsingNamespaceStd(u *intake.Unit) bool {
	found := false
	forEachToken(u, func(r token.Ref) bool {
		if matchSeq(u, r, "using", "namespace", "std", ";") {
			found = true
			return false
		}
		return true
	})
	return found
}

// StampProgressAndIndexes re-runs the monotone progress stamp (every
// bulk rewrite above inserted tokens without renumbering) and assigns
// the final dense Index values the symbol builder and diagnostics use to
// refer to token positions (spec.md §4.3 step 46).
func StampProgressAndIndexes(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	u.Tokens.AssignProgressValues()
	u.Tokens.AssignIndexes()
	return nil, nil
}

// RemoveRedundantSemicolons drops an empty statement (";;" -> ";"), a
// stray ";" directly after "{", and a lone void parameter list's
// redundant keyword ("f(void)" -> "f()"), tagging the removed void
// parameter with FlagRemovedVoidParameter is not needed since the token
// is gone, so instead the enclosing "(" is flagged (spec.md §4.3 step
// 47).
func RemoveRedundantSemicolons(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		lex := lexemeAt(u, cur)
		if lex == ";" && (lexemeAt(u, next) == ";" || lexemeAt(u, u.Tokens.Prev(cur)) == "{") {
			_ = u.Tokens.Erase(cur, next)
			cur = next
			continue
		}
		if lex == "(" {
			inner := u.Tokens.Next(cur)
			if lexemeAt(u, inner) == "void" {
				closeTok := u.Tokens.Next(inner)
				if lexemeAt(u, closeTok) == ")" {
					_ = u.Tokens.Erase(inner, closeTok)
					u.Tokens.Get(cur).SetFlag(token.FlagRemovedVoidParameter)
					next = closeTok
				}
			}
		}
		cur = next
	}
	return nil, nil
}

// ExtractInitStatements hoists an if/switch "init-statement" that is
// followed by a ';' before the condition ("if (auto x = f(); x)") out in
// front of the if/switch as its own statement; for statements are left
// unchanged. This is the way cppcheck's
// simplifyIfSwitchForInit avoids teaching every later analysis about C++17
// init-statement scoping (spec.md §4.3 step 48).
func ExtractInitStatements(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	forEachToken(u, func(r token.Ref) bool {
		lex := lexemeAt(u, r)
		if lex != "if" && lex != "switch" {
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
		semi := token.NoRef
		depth := 0
		for t := u.Tokens.Next(paren); t != closeParen; t = u.Tokens.Next(t) {
			switch lexemeAt(u, t) {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
			case ";":
				if depth == 0 {
					semi = t
				}
			}
			if semi != token.NoRef {
				break
			}
		}
		if semi == token.NoRef {
			return true
		}
		prevStmt := u.Tokens.Prev(r)
		initStart := u.Tokens.Next(paren)
		u.Tokens.MoveRange(initStart, semi, prevStmt)
		return true
	})
	return nil, nil
}
