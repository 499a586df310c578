package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSimple(lexemes ...string) *List {
	l := NewList()
	for _, lx := range lexemes {
		class := Other
		switch lx {
		case "(", ")", "{", "}", "[", "]", "<", ">":
			class = Bracket
		}
		l.Append(Token{Lexeme: lx, Class: class})
	}
	return l
}

func TestAppendAndLexemes(t *testing.T) {
	l := buildSimple("int", "main", "(", ")", "{", "}")
	assert.Equal(t, []string{"int", "main", "(", ")", "{", "}"}, l.Lexemes())
	assert.Equal(t, 6, l.Len())
}

func TestInsertAfterAndBefore(t *testing.T) {
	l := buildSimple("a", "b")
	a := l.Front()
	mid := l.InsertAfter(a, "x", Other)
	assert.Equal(t, []string{"a", "x", "b"}, l.Lexemes())

	l.InsertBefore(mid, "y", Other)
	assert.Equal(t, []string{"a", "y", "x", "b"}, l.Lexemes())

	// insert before head
	l.InsertBefore(l.Front(), "z", Other)
	assert.Equal(t, []string{"z", "a", "y", "x", "b"}, l.Lexemes())
}

func TestCreateMutualLinkAndErase(t *testing.T) {
	l := buildSimple("(", "1", ")")
	open, close_ := l.Front(), l.Back()
	l.CreateMutualLink(open, close_)
	require.NoError(t, l.CheckBracketInvariant())

	assert.Equal(t, close_, l.FindClosingBracket(open))
	assert.Equal(t, open, l.FindOpeningBracket(close_))

	// erasing a range that would sever the partnership is rejected
	err := l.Erase(open, close_)
	assert.Error(t, err)
}

func TestEraseRemovesRange(t *testing.T) {
	l := buildSimple("a", "b", "c", "d")
	b := l.Next(l.Front())
	d := l.Back()
	require.NoError(t, l.Erase(b, d))
	assert.Equal(t, []string{"a", "d"}, l.Lexemes())
}

func TestMismatchedBracketPanics(t *testing.T) {
	l := buildSimple("(", "]")
	open, close_ := l.Front(), l.Back()
	assert.Panics(t, func() { l.CreateMutualLink(open, close_) })
}

func TestCopyRangeDuplicatesLexemes(t *testing.T) {
	l := buildSimple("a", "b", "c")
	a := l.Front()
	c := l.Back()
	last := l.CopyRange(l.Back(), a, c)
	assert.Equal(t, []string{"a", "b", "c", "a", "b", "c"}, l.Lexemes())
	assert.NotEqual(t, NoRef, last)
}

func TestMoveRange(t *testing.T) {
	l := buildSimple("a", "b", "c", "d")
	b := l.Next(l.Front())
	c := l.Next(b)
	l.MoveRange(b, c, l.Back()) // move "b c" to after "d"
	assert.Equal(t, []string{"a", "d", "b", "c"}, l.Lexemes())
}

func TestAssignProgressValuesMonotone(t *testing.T) {
	l := buildSimple("a", "b", "c")
	l.AssignProgressValues()
	require.NoError(t, l.CheckProgressInvariant())
	var last *int
	for cur := l.Front(); cur != NoRef; cur = l.Next(cur) {
		p := l.Get(cur).Progress
		if last != nil {
			assert.GreaterOrEqual(t, p, *last)
		}
		last = &p
	}
}

func TestAssignIndexesDense(t *testing.T) {
	l := buildSimple("a", "b", "c")
	l.AssignIndexes()
	seen := map[int]bool{}
	for cur := l.Front(); cur != NoRef; cur = l.Next(cur) {
		idx := l.Get(cur).Index
		assert.False(t, seen[idx], "index %d assigned twice", idx)
		seen[idx] = true
	}
	assert.Len(t, seen, 3)
}

func TestFindHonorsLimit(t *testing.T) {
	l := buildSimple("a", "target", "b", "target")
	first := l.Front()
	secondTarget := l.Next(l.Next(l.Next(first)))
	found := l.Find(first, func(tok *Token) bool { return tok.Lexeme == "target" }, secondTarget)
	assert.Equal(t, "target", l.Get(found).Lexeme)
	assert.NotEqual(t, secondTarget, found)
}
