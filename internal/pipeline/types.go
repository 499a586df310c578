package pipeline

import (
	"errors"
	"fmt"

	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

var errNotDigits = errors.New("not a digit string")

var callingConventions = map[string]bool{
	"__cdecl": true, "__stdcall": true, "__fastcall": true, "__thiscall": true, "WINAPI": true, "CALLBACK": true,
}

// RemoveCallingConvention drops MSVC calling-convention keywords, which
// have no checker-visible meaning once platform ABI is fixed by Settings
// (spec.md §4.3 step 24).
func RemoveCallingConvention(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		if callingConventions[lexemeAt(u, cur)] {
			prev := u.Tokens.Prev(cur)
			_ = u.Tokens.Erase(cur, next)
			cur = u.Tokens.Next(prev)
			if cur == token.NoRef {
				cur = next
			}
			continue
		}
		cur = next
	}
	return nil, nil
}

var noiseMacros = map[string]bool{
	"NOEXCEPT": true, "OVERRIDE": true, "FINAL": true, "EXPORT_SYMBOL": true,
}

// CleanupMacros removes the "noise" macros listed in the fixed
// noiseMacros table (the library database is not read), so a project's
// homegrown EXPORT_SYMBOL/OVERRIDE-style macros don't appear as bare
// identifiers in the declarations that follow them (spec.md §4.3 step
// 25).
func CleanupMacros(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		if noiseMacros[lexemeAt(u, cur)] {
			prev := u.Tokens.Prev(cur)
			_ = u.Tokens.Erase(cur, next)
			cur = u.Tokens.Next(prev)
			if cur == token.NoRef {
				cur = next
			}
			continue
		}
		cur = next
	}
	return nil, nil
}

// MapPlatformTypes rewrites platform-specific integer typedefs
// (size_t/intptr_t/DWORD/...) to their fixed-width equivalent as given
// by u.Library.PlatformType; Settings.Platform is not consulted (spec.md
// §4.3 step 26).
func MapPlatformTypes(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	forEachToken(u, func(r token.Ref) bool {
		tok := u.Tokens.Get(r)
		if tok.Class != token.Name {
			return true
		}
		size, ok := u.Library.PlatformType(tok.Lexeme)
		if !ok {
			return true
		}
		mapped := fixedWidthSpelling(size.SizeBytes, size.Signed)
		if mapped == "" {
			return true
		}
		tok.OriginalName = tok.Lexeme
		tok.Lexeme = mapped
		return true
	})
	return nil, nil
}

// fixedWidthSpelling returns the canonical C spelling for an N-byte
// integer of the given signedness, or "" for a size the pipeline does
// not recognize as one of the standard widths.
func fixedWidthSpelling(size int, signed bool) string {
	switch size {
	case 1:
		if signed {
			return "signed char"
		}
		return "unsigned char"
	case 2:
		if signed {
			return "short"
		}
		return "unsigned short"
	case 4:
		if signed {
			return "int"
		}
		return "unsigned int"
	case 8:
		if signed {
			return "long long"
		}
		return "unsigned long long"
	default:
		return ""
	}
}

var standardTypeAliases = map[string]string{
	"int8_t": "signed char", "uint8_t": "unsigned char",
	"int16_t": "short", "uint16_t": "unsigned short",
	"int32_t": "int", "uint32_t": "unsigned int",
	"int64_t": "long long", "uint64_t": "unsigned long long",
}

// CollapseStandardTypes rewrites the fixed-width <cstdint> aliases to
// the base arithmetic type they name, so later arithmetic/overflow
// checks only have one spelling of each width to recognize (spec.md
// §4.3 step 27).
func CollapseStandardTypes(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	forEachToken(u, func(r token.Ref) bool {
		tok := u.Tokens.Get(r)
		if tok.Class != token.Name {
			return true
		}
		if alias, ok := standardTypeAliases[tok.Lexeme]; ok {
			tok.OriginalName = tok.Lexeme
			tok.Lexeme = alias
		}
		return true
	})
	return nil, nil
}

// SimplifyBitfields records a bit-field width on the declarator's Token
// (Token.BitField) and removes the ": N" suffix from the stream, so
// downstream passes see an ordinary member declaration (spec.md §4.3
// step 28).
func SimplifyBitfields(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		if u.Tokens.Get(cur).Class == token.Name {
			colon := next
			if lexemeAt(u, colon) == ":" {
				widthTok := u.Tokens.Next(colon)
				if u.Tokens.Get(widthTok) != nil && u.Tokens.Get(widthTok).Class == token.Number {
					term := u.Tokens.Next(widthTok)
					if lexemeAt(u, term) == ";" || lexemeAt(u, term) == "," {
						width, err := atoiSafe(lexemeAt(u, widthTok))
						if err == nil {
							u.Tokens.Get(cur).BitField = width
							_ = u.Tokens.Erase(colon, term)
							next = term
						}
					}
				}
			}
		}
		cur = next
	}
	return nil, nil
}

func atoiSafe(s string) (int, error) {
	n := 0
	for _, c := range s {
		if c < '0' || c > '9' {
			return 0, errNotDigits
		}
		n = n*10 + int(c-'0')
	}
	if len(s) == 0 {
		return 0, errNotDigits
	}
	return n, nil
}

// SplitStructDecl splits "struct S { ... } s1, s2;" into the struct
// definition followed by separate "struct S s1; struct S s2;"
// declarations, the struct-decl analogue of the var-decl comma split.
// An anonymous aggregate ("struct { ... } s;", no name between the
// struct/class/union keyword and its "{") is given a synthetic
// "AnonymousN" name, flagged with token.FlagAnonymous, and its instance
// declarations are emitted against that bare name rather than re-stating
// the struct/class/union keyword, matching how an anonymous struct's
// instances are named after its tag alone (spec.md §4.3 steps 29/30).
func SplitStructDecl(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	anonCount := 0
	forEachToken(u, func(r token.Ref) bool {
		lex := lexemeAt(u, r)
		if lex != "struct" && lex != "class" && lex != "union" {
			return true
		}
		nameTok := u.Tokens.Next(r)
		anonymous := u.Tokens.Get(nameTok) == nil || u.Tokens.Get(nameTok).Class != token.Name
		brace := nameTok
		if !anonymous {
			brace = u.Tokens.Next(nameTok)
		}
		if lexemeAt(u, brace) != "{" {
			return true
		}
		closeTok := u.Tokens.FindClosingBracket(brace)
		if closeTok == token.NoRef {
			return true
		}
		afterClose := u.Tokens.Next(closeTok)
		if afterClose == token.NoRef || u.Tokens.Get(afterClose).Class != token.Name {
			return true
		}

		var typeName string
		if anonymous {
			typeName = fmt.Sprintf("Anonymous%d", anonCount)
			anonCount++
			synthRef := u.Tokens.InsertAfter(r, typeName, token.Name)
			u.Tokens.Get(synthRef).SetFlag(token.FlagAnonymous)
		} else {
			typeName = u.Tokens.Get(nameTok).Lexeme
		}

		semi := afterClose
		for semi != token.NoRef && lexemeAt(u, semi) != ";" {
			semi = u.Tokens.Next(semi)
		}
		if semi == token.NoRef {
			return true
		}
		var names []string
		for cur := afterClose; cur != semi; cur = u.Tokens.Next(cur) {
			if u.Tokens.Get(cur).Class == token.Name {
				names = append(names, u.Tokens.Get(cur).Lexeme)
			}
		}
		_ = u.Tokens.Erase(afterClose, u.Tokens.Next(semi))
		insertAt := closeTok
		if anonymous {
			insertAt = u.Tokens.InsertAfter(insertAt, ";", token.Other)
		}
		for _, n := range names {
			if anonymous {
				insertAt = u.Tokens.InsertAfter(insertAt, typeName, token.Name)
			} else {
				insertAt = u.Tokens.InsertAfter(insertAt, lex, token.Keyword)
				insertAt = u.Tokens.InsertAfter(insertAt, typeName, token.Name)
			}
			insertAt = u.Tokens.InsertAfter(insertAt, n, token.Name)
			insertAt = u.Tokens.InsertAfter(insertAt, ";", token.Other)
		}
		return true
	})
	return nil, nil
}

var typeTraitRenames = map[string]string{
	"__is_same":         "is_same",
	"__is_base_of":      "is_base_of",
	"__is_enum":         "is_enum",
	"__is_pod":          "is_pod",
	"__has_trivial_copy": "has_trivial_copy_constructor",
}

// RenameTypeTraitIntrinsics renames compiler-intrinsic type-trait
// spellings to their <type_traits> names so checks keyed on the standard
// trait name also fire on the intrinsic form (spec.md §4.3 step 33).
func RenameTypeTraitIntrinsics(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	forEachToken(u, func(r token.Ref) bool {
		tok := u.Tokens.Get(r)
		if renamed, ok := typeTraitRenames[tok.Lexeme]; ok {
			tok.OriginalName = tok.Lexeme
			tok.Lexeme = renamed
		}
		return true
	})
	return nil, nil
}

// SimplifyPointerAndFunctionPointer removes a function pointer
// declarator's redundant outer parentheses when no calling convention or
// pointer star needs them to disambiguate from a function declaration:
// "int (f)(void)" -> "int f(void)" (spec.md §4.3 step 34).
func SimplifyPointerAndFunctionPointer(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	forEachToken(u, func(r token.Ref) bool {
		if lexemeAt(u, r) != "(" {
			return true
		}
		inner := u.Tokens.Next(r)
		if inner == token.NoRef || u.Tokens.Get(inner).Class != token.Name {
			return true
		}
		closeTok := u.Tokens.FindClosingBracket(r)
		if closeTok == token.NoRef || u.Tokens.Next(inner) != closeTok {
			return true
		}
		afterClose := u.Tokens.Next(closeTok)
		if lexemeAt(u, afterClose) != "(" {
			return true
		}
		prev := u.Tokens.Prev(r)
		if prev == token.NoRef || (u.Tokens.Get(prev).Class != token.Name && u.Tokens.Get(prev).Class != token.Keyword) {
			return true
		}
		u.Tokens.ClearLink(r)
		_ = u.Tokens.Erase(r, inner)
		_ = u.Tokens.Erase(closeTok, afterClose)
		return true
	})
	return nil, nil
}
