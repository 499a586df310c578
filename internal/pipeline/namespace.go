package pipeline

import (
	"github.com/jhnc-oss/cppcheck-sub000/internal/diagnostic"
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

// FlattenNestedNamespaces resolves namespace aliases, rewrites C++17
// "namespace a::b::c { ... }" into the nested "namespace a { namespace b
// { namespace c { ... } } }" form every later pass already understands,
// and marks coroutine keywords (co_await/co_yield/co_return) used as
// bare identifiers with a parenthesized operand so they parse as
// ordinary unary expressions (spec.md §4.3 steps 11/12).
func FlattenNestedNamespaces(u *intake.Unit) ([]diagnostic.Diagnostic, error) {
	resolveNamespaceAliases(u)
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		if lexemeAt(u, cur) == "namespace" {
			names := []token.Ref{}
			scan := next
			for {
				nameTok := scan
				if nameTok == token.NoRef || u.Tokens.Get(nameTok).Class != token.Name {
					break
				}
				sep := u.Tokens.Next(nameTok)
				names = append(names, nameTok)
				if lexemeAt(u, sep) == "::" {
					scan = u.Tokens.Next(sep)
					continue
				}
				scan = sep
				break
			}
			if len(names) > 1 && lexemeAt(u, scan) == "{" {
				closeTok := u.Tokens.FindClosingBracket(scan)
				if closeTok != token.NoRef {
					_ = u.Tokens.Erase(u.Tokens.Next(names[0]), scan)
					var newOpens []token.Ref
					insertAt := names[0]
					for i := 1; i < len(names); i++ {
						insertAt = u.Tokens.InsertAfter(insertAt, "{", token.Bracket)
						newOpens = append(newOpens, insertAt)
						insertAt = u.Tokens.InsertAfter(insertAt, "namespace", token.Keyword)
						insertAt = u.Tokens.InsertAfter(insertAt, u.Tokens.Get(names[i]).Lexeme, token.Name)
					}
					braceEnd := closeTok
					for i := len(newOpens) - 1; i >= 0; i-- {
						braceEnd = u.Tokens.InsertAfter(braceEnd, "}", token.Bracket)
						u.Tokens.CreateMutualLink(newOpens[i], braceEnd)
					}
				}
				next = u.Tokens.Next(cur)
			}
		}
		lex := lexemeAt(u, cur)
		if lex == "co_await" || lex == "co_yield" || lex == "co_return" {
			after := u.Tokens.Next(cur)
			if after != token.NoRef && lexemeAt(u, after) != "(" {
				end := findStatementEnd(u, after)
				if end != token.NoRef && lexemeAt(u, end) == ";" {
					operandEnd := u.Tokens.Prev(end)
					open := u.Tokens.InsertAfter(cur, "(", token.Bracket)
					u.Tokens.MoveRange(after, operandEnd, open)
					closeTok := u.Tokens.InsertAfter(operandEnd, ")", token.Bracket)
					u.Tokens.CreateMutualLink(open, closeTok)
					next = u.Tokens.Next(cur)
				}
			}
		}
		cur = next
	}
	return nil, nil
}

// nsAlias is the qualified-name token sequence a "namespace N = ...;"
// alias declaration binds N to.
type nsAlias struct {
	lexemes []string
	classes []token.Class
}

// resolveNamespaceAliases finds "namespace N = qualified-name ;" alias
// declarations, removes them, and replaces every later "N ::" use of the
// alias with the aliased qualified name followed by the same trailing
// "::", so "namespace N = ::std; N::vector<int> v;" becomes
// ":: std :: vector < int > v ;" (spec.md §4.3 step 12).
func resolveNamespaceAliases(u *intake.Unit) {
	aliases := make(map[string]nsAlias)
	cur := u.Tokens.Front()
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		if lexemeAt(u, cur) == "namespace" {
			nameTok := u.Tokens.Next(cur)
			eq := u.Tokens.Next(nameTok)
			if u.Tokens.Get(nameTok) != nil && u.Tokens.Get(nameTok).Class == token.Name && lexemeAt(u, eq) == "=" {
				target := u.Tokens.Next(eq)
				var lexemes []string
				var classes []token.Class
				for target != token.NoRef && lexemeAt(u, target) != ";" {
					tt := u.Tokens.Get(target)
					lexemes = append(lexemes, tt.Lexeme)
					classes = append(classes, tt.Class)
					target = u.Tokens.Next(target)
				}
				if target != token.NoRef && len(lexemes) > 0 {
					aliases[u.Tokens.Get(nameTok).Lexeme] = nsAlias{lexemes, classes}
					after := u.Tokens.Next(target)
					_ = u.Tokens.Erase(cur, after)
					next = after
				}
			}
		}
		cur = next
	}
	if len(aliases) == 0 {
		return
	}

	cur = u.Tokens.Front()
	for cur != token.NoRef {
		next := u.Tokens.Next(cur)
		tok := u.Tokens.Get(cur)
		if tok.Class == token.Name {
			if target, ok := aliases[tok.Lexeme]; ok && lexemeAt(u, u.Tokens.Next(cur)) == "::" {
				tok.Lexeme = target.lexemes[0]
				tok.Class = target.classes[0]
				insertAt := cur
				for i := 1; i < len(target.lexemes); i++ {
					insertAt = u.Tokens.InsertAfter(insertAt, target.lexemes[i], target.classes[i])
				}
				next = u.Tokens.Next(insertAt)
			}
		}
		cur = next
	}
}
