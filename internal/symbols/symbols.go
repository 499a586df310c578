// Package symbols builds the minimal scope/variable/function/type graph
// spec.md §2 item 6 calls the "AST + symbol database + value-flow
// query interface", the read-only structure every Check consults once
// the normalization pipeline has finished rewriting the token stream.
// Generalized from module/function declaration scoping to C/C++
// translation-unit scopes (file, function and block scopes).
package symbols

import (
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

// Scope is one brace-delimited lexical region.
type Scope struct {
	ID       int
	Parent   int // 0 = none (file scope)
	Kind     string // "file", "function", "block"
	BodyFrom token.Ref
	BodyTo   token.Ref
}

// Variable is one declared name, keyed by the VarID the varid package
// assigned.
type Variable struct {
	ID        int
	Name      string
	ScopeID   int
	DeclToken token.Ref
	IsPointer bool
	IsArray   bool
}

// Function is one recognized function definition (name immediately
// followed by a parenthesized parameter list and a braced body, at any
// nesting depth).
type Function struct {
	Name      string
	NameToken token.Ref
	ScopeID   int
	BodyScope int
	IsNoReturn bool
}

// Database is the resulting graph, attached to the intake.Unit after
// BuildASTAndSymbols runs.
type Database struct {
	Scopes    []Scope
	Variables map[int]*Variable
	Functions []Function
}

func newDatabase() *Database {
	db := &Database{Variables: make(map[int]*Variable)}
	db.Scopes = append(db.Scopes, Scope{ID: 0, Parent: -1, Kind: "file"})
	return db
}

// Build walks u.Tokens once, recording a Scope per brace pair, a
// Variable per distinct VarID it first sees declared, and a Function per
// "name ( ... ) {" shape at any depth. Expects variable ids to
// already be assigned (spec.md §4.5 runs before this, per the pipeline's
// Steps order).
func Build(u *intake.Unit) *Database {
	db := newDatabase()
	scopeStack := []int{0}
	top := func() int { return scopeStack[len(scopeStack)-1] }

	cur := u.Tokens.Front()
	for cur != token.NoRef {
		tok := u.Tokens.Get(cur)
		switch tok.Lexeme {
		case "{":
			kind := "block"
			fn := recognizeFunctionHeader(u, cur)
			if fn != nil {
				kind = "function"
			}
			id := len(db.Scopes)
			closeTok := u.Tokens.FindClosingBracket(cur)
			db.Scopes = append(db.Scopes, Scope{ID: id, Parent: top(), Kind: kind, BodyFrom: cur, BodyTo: closeTok})
			if fn != nil {
				fn.BodyScope = id
				fn.ScopeID = top()
				db.Functions = append(db.Functions, *fn)
			}
			scopeStack = append(scopeStack, id)
		case "}":
			if len(scopeStack) > 1 {
				scopeStack = scopeStack[:len(scopeStack)-1]
			}
		default:
			if tok.Class == token.Name && tok.VarID != 0 {
				if _, seen := db.Variables[tok.VarID]; !seen {
					db.Variables[tok.VarID] = &Variable{
						ID: tok.VarID, Name: tok.Lexeme, ScopeID: top(), DeclToken: cur,
					}
				}
			}
		}
		cur = u.Tokens.Next(cur)
	}
	return db
}

// recognizeFunctionHeader reports whether the brace at bodyOpen opens a
// function body, returning the (unfinished) Function record if so.
func recognizeFunctionHeader(u *intake.Unit, bodyOpen token.Ref) *Function {
	closeParen := u.Tokens.Prev(bodyOpen)
	for closeParen != token.NoRef && (lexemeOf(u, closeParen) == "const" || lexemeOf(u, closeParen) == "noexcept" || lexemeOf(u, closeParen) == "override") {
		closeParen = u.Tokens.Prev(closeParen)
	}
	if lexemeOf(u, closeParen) != ")" {
		return nil
	}
	openParen := u.Tokens.FindOpeningBracket(closeParen)
	if openParen == token.NoRef {
		return nil
	}
	nameTok := u.Tokens.Prev(openParen)
	if nameTok == token.NoRef || u.Tokens.Get(nameTok).Class != token.Name {
		return nil
	}
	return &Function{Name: u.Tokens.Get(nameTok).Lexeme, NameToken: nameTok}
}

func lexemeOf(u *intake.Unit, r token.Ref) string {
	t := u.Tokens.Get(r)
	if t == nil {
		return ""
	}
	return t.Lexeme
}
