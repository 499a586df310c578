// Package varid implements the two-pass variable-id assignment of
// spec.md §4.5: pass one walks scope-introducing brace pairs to build a
// name->id table per scope, respecting shadowing; pass two stamps every
// Name-class token that resolves to a known declaration with its id.
// Generalized from a module-scoped symbol table to C's brace-scoped
// one: build-then-resolve in two passes so shadowing is decided against
// a complete table rather than a partial one built left to right.
package varid

import (
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

var declarationKeywords = map[string]bool{
	"int": true, "char": true, "long": true, "short": true, "unsigned": true,
	"signed": true, "float": true, "double": true, "bool": true, "void": true,
	"auto": true, "const": true, "static": true, "struct": true, "class": true,
}

type scope struct {
	parent *scope
	names  map[string]int
}

func newScope(parent *scope) *scope {
	return &scope{parent: parent, names: make(map[string]int)}
}

func (s *scope) resolve(name string) (int, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if id, ok := cur.names[name]; ok {
			return id, true
		}
	}
	return 0, false
}

// Assign runs both passes over u.Tokens: collecting declarations scope
// by scope and then stamping every reference, returning the number of
// distinct variable ids assigned (id 0 means "not a variable").
func Assign(u *intake.Unit) int {
	nextID := 1
	root := newScope(nil)
	cur := u.Tokens.Front()
	stack := []*scope{root}
	top := func() *scope { return stack[len(stack)-1] }
	var blockScopes []*scope

	for cur != token.NoRef {
		tok := u.Tokens.Get(cur)
		switch tok.Lexeme {
		case "{":
			s := newScope(top())
			blockScopes = append(blockScopes, s)
			stack = append(stack, s)
		case "}":
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		default:
			if tok.Class == token.Keyword && declarationKeywords[tok.Lexeme] {
				nameRef := declaratorNameAfter(u, cur)
				if nameRef != token.NoRef {
					name := u.Tokens.Get(nameRef).Lexeme
					top().names[name] = nextID
					u.Tokens.Get(nameRef).VarID = nextID
					nextID++
				}
			}
		}
		cur = u.Tokens.Next(cur)
	}

	stack = []*scope{root}
	nextBlock := 0
	cur = u.Tokens.Front()
	for cur != token.NoRef {
		tok := u.Tokens.Get(cur)
		switch tok.Lexeme {
		case "{":
			stack = append(stack, blockScopes[nextBlock])
			nextBlock++
		case "}":
			if len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		}
		if tok.Class == token.Name && tok.VarID == 0 {
			if id, ok := top().resolve(tok.Lexeme); ok {
				tok.VarID = id
			}
		}
		cur = u.Tokens.Next(cur)
	}
	return nextID - 1
}

// declaratorNameAfter walks past type-keyword tokens, pointer stars and
// reference markers to find the declared name, skipping function
// definitions (a name immediately followed by '(' is a function, not a
// plain variable, except when that '(' is itself the direct-initializer
// form "T x(expr);" which DOES declare a variable named x).
func declaratorNameAfter(u *intake.Unit, typeTok token.Ref) token.Ref {
	cur := u.Tokens.Next(typeTok)
	for cur != token.NoRef {
		tok := u.Tokens.Get(cur)
		if tok.Class == token.Keyword && declarationKeywords[tok.Lexeme] {
			cur = u.Tokens.Next(cur)
			continue
		}
		if tok.Lexeme == "*" || tok.Lexeme == "&" || tok.Lexeme == "&&" {
			cur = u.Tokens.Next(cur)
			continue
		}
		if tok.Class == token.Name {
			if isFunctionDeclarator(u, cur) {
				return token.NoRef
			}
			return cur
		}
		return token.NoRef
	}
	return token.NoRef
}

// isFunctionDeclarator reports whether the name at nameRef is followed by a
// parameter list whose close paren is itself followed by a function body
// ("{") or a prototype terminator (";"), i.e. it names a function rather
// than a variable. Bare '(' not linked yet (BracketLink unset) is treated
// as "not a function" so earlier passes can still run before bracket
// linking has occurred.
func isFunctionDeclarator(u *intake.Unit, nameRef token.Ref) bool {
	paren := u.Tokens.Next(nameRef)
	if paren == token.NoRef || u.Tokens.Get(paren).Lexeme != "(" {
		return false
	}
	closeTok := u.Tokens.FindClosingBracket(paren)
	if closeTok == token.NoRef {
		return false
	}
	after := u.Tokens.Next(closeTok)
	if after == token.NoRef {
		return false
	}
	return u.Tokens.Get(after).Lexeme == "{" || u.Tokens.Get(after).Lexeme == ";"
}
