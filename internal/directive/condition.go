// Package directive models preprocessor directives preserved alongside
// the token stream (spec.md §3 "Directive") and parses #if/#elif
// condition expressions with a small participle grammar covering the
// handful of operators C preprocessor conditions actually use.
package directive

import (
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// conditionLexer tokenizes a #if/#elif condition: identifiers/numbers
// before operators, punctuation last.
var conditionLexer = lexer.MustStateful(lexer.Rules{
	"Root": {
		{"Ident", `[a-zA-Z_][a-zA-Z0-9_]*`, nil},
		{"Integer", `0[xX][0-9a-fA-F]+|[0-9]+`, nil},
		{"Operator", `(&&|\|\||==|!=|<=|>=|[!<>])`, nil},
		{"Punctuation", `[()]`, nil},
		{"Whitespace", `[ \t\r\n]+`, nil},
	},
})

// Condition is the AST of a parsed #if/#elif expression.
type Condition struct {
	Or *OrExpr `@@`
}

type OrExpr struct {
	Left  *AndExpr   `@@`
	Right []*AndExpr `{ "||" @@ }`
}

type AndExpr struct {
	Left  *UnaryCond   `@@`
	Right []*UnaryCond `{ "&&" @@ }`
}

type UnaryCond struct {
	Negate  bool        `[ @"!" ]`
	Defined *DefinedExpr `(  @@`
	Compare *CompareExpr `  | @@`
	Paren   *Condition   `  | "(" @@ ")" )`
}

type DefinedExpr struct {
	Name string `"defined" "(" @Ident ")"`
}

type CompareExpr struct {
	Ident string  `( @Ident | @Integer )`
	Op    *string `[ @("==" | "!=" | "<=" | ">=" | "<" | ">") `
	Value *int    `  @Integer ]`
}

var conditionParser = participle.MustBuild[Condition](
	participle.Lexer(conditionLexer),
	participle.Elide("Whitespace"),
	participle.UseLookahead(2),
)

// ParseCondition parses the text following "#if"/"#elif" into a
// Condition AST. Malformed conditions are not fatal to the translation
// unit (spec.md's "best-effort normalizer" stance) — callers that can't
// parse a condition should fall back to treating it as opaque.
func ParseCondition(text string) (*Condition, error) {
	return conditionParser.ParseString("", text)
}

// Eval evaluates c against a set of macro names known to be defined and
// a table of their integer values (0 for object-like macros with no
// numeric value), matching the semantics #if/#elif use for simple
// macro-gated code.
func (c *Condition) Eval(defined map[string]bool, values map[string]int) bool {
	return c.Or.eval(defined, values)
}

func (o *OrExpr) eval(defined map[string]bool, values map[string]int) bool {
	result := o.Left.eval(defined, values)
	for _, r := range o.Right {
		result = result || r.eval(defined, values)
	}
	return result
}

func (a *AndExpr) eval(defined map[string]bool, values map[string]int) bool {
	result := a.Left.eval(defined, values)
	for _, r := range a.Right {
		result = result && r.eval(defined, values)
	}
	return result
}

func (u *UnaryCond) eval(defined map[string]bool, values map[string]int) bool {
	var v bool
	switch {
	case u.Defined != nil:
		v = defined[u.Defined.Name]
	case u.Compare != nil:
		v = u.Compare.eval(defined, values)
	case u.Paren != nil:
		v = u.Paren.Eval(defined, values)
	}
	if u.Negate {
		return !v
	}
	return v
}

func (c *CompareExpr) eval(defined map[string]bool, values map[string]int) bool {
	left, ok := values[c.Ident]
	if !ok {
		left = 0
		if n, err := strconv.ParseInt(c.Ident, 0, 0); err == nil {
			// An integer literal on the left evaluates to itself.
			left = int(n)
		} else if !defined[c.Ident] {
			// Undefined identifiers evaluate to 0 in #if expressions.
			left = 0
		}
	}
	if c.Op == nil {
		return left != 0
	}
	right := 0
	if c.Value != nil {
		right = *c.Value
	}
	switch *c.Op {
	case "==":
		return left == right
	case "!=":
		return left != right
	case "<":
		return left < right
	case ">":
		return left > right
	case "<=":
		return left <= right
	case ">=":
		return left >= right
	default:
		return false
	}
}
