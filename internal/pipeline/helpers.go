package pipeline

import (
	"github.com/jhnc-oss/cppcheck-sub000/internal/intake"
	"github.com/jhnc-oss/cppcheck-sub000/token"
)

// matchSeq reports whether the lexemes starting at `at` equal seq, in
// order, without crossing the end of the stream.
func matchSeq(u *intake.Unit, at token.Ref, seq ...string) bool {
	cur := at
	for _, want := range seq {
		tok := u.Tokens.Get(cur)
		if tok == nil || tok.Lexeme != want {
			return false
		}
		cur = u.Tokens.Next(cur)
	}
	return true
}

// advance steps n tokens forward from `at`, returning token.NoRef if the
// stream ends first.
func advance(u *intake.Unit, at token.Ref, n int) token.Ref {
	cur := at
	for i := 0; i < n && cur != token.NoRef; i++ {
		cur = u.Tokens.Next(cur)
	}
	return cur
}

// lexemeAt returns the lexeme at r, or "" if r is token.NoRef.
func lexemeAt(u *intake.Unit, r token.Ref) string {
	tok := u.Tokens.Get(r)
	if tok == nil {
		return ""
	}
	return tok.Lexeme
}

// forEachToken walks the live stream calling visit(ref); visit may
// return false to stop early.
func forEachToken(u *intake.Unit, visit func(token.Ref) bool) {
	for cur := u.Tokens.Front(); cur != token.NoRef; cur = u.Tokens.Next(cur) {
		if !visit(cur) {
			return
		}
	}
}

// isKeyword reports whether r's lexeme is kw and its class is Keyword.
func isKeyword(u *intake.Unit, r token.Ref, kw string) bool {
	tok := u.Tokens.Get(r)
	return tok != nil && tok.Class == token.Keyword && tok.Lexeme == kw
}
