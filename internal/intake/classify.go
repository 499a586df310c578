package intake

import (
	"strconv"
	"strings"

	"github.com/jhnc-oss/cppcheck-sub000/token"
)

var keywords = map[string]bool{
	"alignas": true, "alignof": true, "asm": true, "auto": true, "bool": true,
	"break": true, "case": true, "catch": true, "char": true, "class": true,
	"concept": true, "const": true, "constexpr": true, "continue": true,
	"decltype": true, "default": true, "delete": true, "do": true, "double": true,
	"else": true, "enum": true, "explicit": true, "export": true, "extern": true,
	"false": true, "float": true, "for": true, "friend": true, "goto": true,
	"if": true, "inline": true, "int": true, "long": true, "mutable": true,
	"namespace": true, "new": true, "noexcept": true, "nullptr": true,
	"operator": true, "private": true, "protected": true, "public": true,
	"register": true, "requires": true, "return": true, "short": true,
	"signed": true, "sizeof": true, "static": true, "struct": true,
	"switch": true, "template": true, "this": true, "throw": true, "true": true,
	"try": true, "typedef": true, "typename": true, "union": true,
	"unsigned": true, "using": true, "virtual": true, "void": true,
	"volatile": true, "while": true, "restrict": true, "_Atomic": true,
	"_Complex": true, "coroutine": true, "co_await": true, "co_yield": true,
	"co_return": true,
}

var arithmeticOps = map[string]bool{
	"+": true, "-": true, "*": true, "/": true, "%": true,
	"+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"++": true, "--": true,
}

var incDecOps = map[string]bool{"++": true, "--": true}

var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true, "<=>": true,
}

var logicalOps = map[string]bool{
	"&&": true, "||": true, "!": true, "and": true, "or": true, "not": true,
}

var assignmentOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"&=": true, "|=": true, "^=": true, "<<=": true, ">>=": true,
}

var brackets = map[string]bool{
	"(": true, ")": true, "[": true, "]": true, "{": true, "}": true,
}

// Classify assigns a token.Class to a raw lexeme, using the ordering
// cues from grammar/lexer.go (keywords/identifiers checked before
// operators, punctuation last) generalized to full C/C++ lexical
// categories (spec.md §3).
func Classify(lexeme string) token.Class {
	if lexeme == "" {
		return token.Other
	}
	switch {
	case lexeme == "true" || lexeme == "false":
		return token.Boolean
	case keywords[lexeme]:
		return token.Keyword
	case brackets[lexeme]:
		return token.Bracket
	case incDecOps[lexeme]:
		return token.OpIncDec
	case assignmentOps[lexeme]:
		return token.OpAssignment
	case comparisonOps[lexeme]:
		return token.OpComparison
	case logicalOps[lexeme]:
		return token.OpLogical
	case arithmeticOps[lexeme]:
		return token.OpArithmetic
	case isStringLiteral(lexeme):
		return token.StringLiteral
	case isCharLiteral(lexeme):
		return token.CharLiteral
	case isNumber(lexeme):
		return token.Number
	case isIdentifier(lexeme):
		return token.Name
	default:
		return token.Other
	}
}

func isStringLiteral(s string) bool {
	return strings.HasPrefix(s, `"`) || strings.HasPrefix(s, `L"`) ||
		strings.HasPrefix(s, `u8"`) || strings.HasPrefix(s, `u"`) || strings.HasPrefix(s, `U"`)
}

func isCharLiteral(s string) bool {
	return strings.HasPrefix(s, "'") || strings.HasPrefix(s, "L'")
}

func isNumber(s string) bool {
	if s == "" {
		return false
	}
	c := s[0]
	return c >= '0' && c <= '9'
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return len(s) > 0
}

func isConditionalDirective(text string) bool {
	t := strings.TrimSpace(text)
	t = strings.TrimPrefix(t, "#")
	t = strings.TrimSpace(t)
	for _, kw := range []string{"if", "ifdef", "ifndef", "elif", "else"} {
		if t == kw || strings.HasPrefix(t, kw+" ") || strings.HasPrefix(t, kw+"(") {
			return true
		}
	}
	return false
}

// parsePragmaPack extracts N from "#pragma pack(N)" or "#pragma pack(push, N)".
func parsePragmaPack(text string) (int, bool) {
	t := strings.TrimSpace(text)
	if !strings.HasPrefix(t, "#") {
		return 0, false
	}
	t = strings.TrimSpace(t[1:])
	if !strings.HasPrefix(t, "pragma") {
		return 0, false
	}
	t = strings.TrimSpace(t[len("pragma"):])
	if !strings.HasPrefix(t, "pack") {
		return 0, false
	}
	open := strings.IndexByte(t, '(')
	close := strings.LastIndexByte(t, ')')
	if open < 0 || close < 0 || close < open {
		return 0, false
	}
	args := strings.Split(t[open+1:close], ",")
	last := strings.TrimSpace(args[len(args)-1])
	n, err := strconv.Atoi(last)
	if err != nil {
		return 0, false
	}
	return n, true
}
