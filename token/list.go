package token

import "fmt"

// List is the mutable doubly-linked token stream for one translation
// unit. Tokens are owned by the arena; everything else holds Refs.
// head/tail are sentinel-free: Ref 0 is reserved as NoRef, so the arena's
// slot 0 is always a dead placeholder and real tokens start at index 1.
type List struct {
	arena []Token
	head  Ref
	tail  Ref

	terminated *bool // shared cancellation flag, see internal/settings
}

// NewList creates an empty stream.
func NewList() *List {
	l := &List{arena: make([]Token, 1)} // slot 0 == NoRef placeholder
	return l
}

// SetTerminationFlag wires the shared cancellation flag (spec.md §5).
func (l *List) SetTerminationFlag(flag *bool) { l.terminated = flag }

// Terminated reports whether analysis has been asked to stop.
func (l *List) Terminated() bool { return l.terminated != nil && *l.terminated }

func (l *List) Get(r Ref) *Token {
	if r == NoRef {
		return nil
	}
	return &l.arena[r]
}

func (l *List) Front() Ref { return l.head }
func (l *List) Back() Ref  { return l.tail }

func (l *List) Next(r Ref) Ref {
	if r == NoRef {
		return NoRef
	}
	return l.arena[r].next
}

func (l *List) Prev(r Ref) Ref {
	if r == NoRef {
		return NoRef
	}
	return l.arena[r].prev
}

// Append adds a token at the tail and returns its Ref. Used by intake,
// not by rewriting passes (which should use InsertAfter/InsertBefore so
// neighbors are always well-defined).
func (l *List) Append(tok Token) Ref {
	r := Ref(len(l.arena))
	tok.next = NoRef
	tok.prev = l.tail
	l.arena = append(l.arena, tok)
	if l.tail != NoRef {
		l.arena[l.tail].next = r
	} else {
		l.head = r
	}
	l.tail = r
	return r
}

// InsertAfter splices a new token with the given lexeme after `at`,
// copying `at`'s location. Returns the new token's Ref.
func (l *List) InsertAfter(at Ref, lexeme string, class Class) Ref {
	src := l.Get(at)
	loc := Location{}
	if src != nil {
		loc = src.Loc
	}
	r := Ref(len(l.arena))
	l.arena = append(l.arena, Token{Lexeme: lexeme, Class: class, Loc: loc})
	nt := &l.arena[r]

	if at == NoRef {
		nt.next = l.head
		nt.prev = NoRef
		if l.head != NoRef {
			l.arena[l.head].prev = r
		} else {
			l.tail = r
		}
		l.head = r
		return r
	}

	after := l.arena[at].next
	nt.prev = at
	nt.next = after
	l.arena[at].next = r
	if after != NoRef {
		l.arena[after].prev = r
	} else {
		l.tail = r
	}
	return r
}

// InsertBefore splices a new token with the given lexeme before `at`.
func (l *List) InsertBefore(at Ref, lexeme string, class Class) Ref {
	prev := l.Prev(at)
	if prev == NoRef {
		return l.InsertAfter(NoRef, lexeme, class)
	}
	return l.InsertAfter(prev, lexeme, class)
}

// Erase removes [from, toExclusive) from the stream. It is the caller's
// responsibility to ensure no surviving bracket partner points into the
// removed range. If it finds one, Erase returns an error (it does not
// panic) and the range stays linked in the stream, though the tokens
// checked before the offending one are already marked deleted.
func (l *List) Erase(from, toExclusive Ref) error {
	if from == NoRef {
		return nil
	}
	prev := l.Prev(from)
	cur := from
	for cur != NoRef && cur != toExclusive {
		tok := &l.arena[cur]
		if tok.BracketLink != NoRef {
			partner := l.Get(tok.BracketLink)
			if partner != nil && !l.inRange(tok.BracketLink, from, toExclusive) {
				return fmt.Errorf("token: erase would break bracket partnership at index %d", cur)
			}
		}
		tok.deleted = true
		cur = tok.next
	}
	if prev == NoRef {
		l.head = toExclusive
	} else {
		l.arena[prev].next = toExclusive
	}
	if toExclusive == NoRef {
		l.tail = prev
	} else {
		l.arena[toExclusive].prev = prev
	}
	return nil
}

func (l *List) inRange(r, from, toExclusive Ref) bool {
	for cur := from; cur != toExclusive && cur != NoRef; cur = l.arena[cur].next {
		if cur == r {
			return true
		}
	}
	return false
}

// CopyRange duplicates the lexemes/metadata of [from, toInclusive] and
// appends the copies after dest, returning the Ref of the last copy.
// Bracket partnerships inside the copied range are NOT relinked
// automatically: callers must call CreateMutualLink on the copies, per
// spec.md §4.1.
func (l *List) CopyRange(dest, from, toInclusive Ref) Ref {
	last := dest
	cur := from
	for {
		src := l.arena[cur]
		src.next, src.prev, src.BracketLink = NoRef, NoRef, NoRef
		src.astParent, src.astOp1, src.astOp2 = NoRef, NoRef, NoRef
		last = l.InsertAfter(last, src.Lexeme, src.Class)
		copied := l.Get(last)
		copied.Loc = src.Loc
		copied.Flags = src.Flags
		copied.VarID = src.VarID
		if cur == toInclusive {
			break
		}
		cur = l.arena[cur].next
	}
	return last
}

// MoveRange relocates [first, last] to sit immediately after `after`,
// in O(1), preserving the internal links of the moved segment.
func (l *List) MoveRange(first, last, after Ref) {
	beforeFirst := l.Prev(first)
	afterLast := l.Next(last)

	if beforeFirst == NoRef {
		l.head = afterLast
	} else {
		l.arena[beforeFirst].next = afterLast
	}
	if afterLast == NoRef {
		l.tail = beforeFirst
	} else {
		l.arena[afterLast].prev = beforeFirst
	}

	if after == NoRef {
		oldHead := l.head
		l.arena[last].next = oldHead
		if oldHead != NoRef {
			l.arena[oldHead].prev = last
		} else {
			l.tail = last
		}
		l.arena[first].prev = NoRef
		l.head = first
		return
	}

	oldNext := l.arena[after].next
	l.arena[after].next = first
	l.arena[first].prev = after
	l.arena[last].next = oldNext
	if oldNext != NoRef {
		l.arena[oldNext].prev = last
	} else {
		l.tail = last
	}
}

// CreateMutualLink marks a and b as matching bracket partners. It panics
// (an internalError at the call site's discretion) if the lexemes are
// not a valid bracket pair, per the stream invariant.
func (l *List) CreateMutualLink(a, b Ref) {
	ta, tb := &l.arena[a], &l.arena[b]
	if !IsBracketPairKind(ta.Lexeme, tb.Lexeme) {
		panic(fmt.Sprintf("token: mismatched bracket kinds %q/%q", ta.Lexeme, tb.Lexeme))
	}
	ta.BracketLink = b
	tb.BracketLink = a
}

// ClearLink removes t's bracket partnership, if any, on both sides.
func (l *List) ClearLink(t Ref) {
	tok := &l.arena[t]
	if tok.BracketLink == NoRef {
		return
	}
	l.arena[tok.BracketLink].BracketLink = NoRef
	tok.BracketLink = NoRef
}

// LinkAst records t as the AST parent of op1 (and op2, if given).
func (l *List) LinkAst(parent, op1, op2 Ref) {
	p := &l.arena[parent]
	p.astOp1 = op1
	p.astOp2 = op2
	if op1 != NoRef {
		l.arena[op1].astParent = parent
	}
	if op2 != NoRef {
		l.arena[op2].astParent = parent
	}
}

// Find scans forward from `start`, returning the first token for which
// predicate returns true, stopping before limit. The scan is linear, so
// tokens inside bracketed subranges are matched too. If limit is NoRef
// the whole remainder of the stream is scanned.
func (l *List) Find(start Ref, predicate func(*Token) bool, limit Ref) Ref {
	for cur := start; cur != NoRef && cur != limit; cur = l.arena[cur].next {
		if predicate(&l.arena[cur]) {
			return cur
		}
	}
	return NoRef
}

// FindClosingBracket returns the Ref linked to `open`, or NoRef.
func (l *List) FindClosingBracket(open Ref) Ref {
	return l.arena[open].BracketLink
}

// FindOpeningBracket returns the Ref linked to `closeTok`, or NoRef.
func (l *List) FindOpeningBracket(closeTok Ref) Ref {
	return l.arena[closeTok].BracketLink
}

// AssignProgressValues stamps strictly non-decreasing integers along the
// stream. Must be re-run after any bulk rewrite that inserts tokens
// without explicit ordering (spec.md §4.1).
func (l *List) AssignProgressValues() {
	n := 0
	for cur := l.head; cur != NoRef; cur = l.arena[cur].next {
		l.arena[cur].Progress = n
		n++
	}
}

// AssignIndexes stamps a dense 0-based index on every live token, once,
// after the pipeline completes (spec.md §4.1).
func (l *List) AssignIndexes() {
	n := 0
	for cur := l.head; cur != NoRef; cur = l.arena[cur].next {
		l.arena[cur].Index = n
		n++
	}
}

// Len counts live tokens by walking the stream (O(n); intended for tests
// and diagnostics, not hot paths).
func (l *List) Len() int {
	n := 0
	for cur := l.head; cur != NoRef; cur = l.arena[cur].next {
		n++
	}
	return n
}

// Lexemes collects the lexeme of every live token, for tests and debug
// dumps.
func (l *List) Lexemes() []string {
	out := make([]string, 0, l.Len())
	for cur := l.head; cur != NoRef; cur = l.arena[cur].next {
		out = append(out, l.arena[cur].Lexeme)
	}
	return out
}

// CheckBracketInvariant walks the stream and returns an error describing
// the first bracket whose partnership is not reciprocal or kind-
// consistent. pipeline.Run calls it after typedef simplification and
// after every step (spec.md §8).
func (l *List) CheckBracketInvariant() error {
	for cur := l.head; cur != NoRef; cur = l.arena[cur].next {
		tok := &l.arena[cur]
		if !IsOpenBracket(tok.Lexeme) && !IsCloseBracket(tok.Lexeme) {
			continue
		}
		if tok.BracketLink == NoRef {
			continue
		}
		partner := &l.arena[tok.BracketLink]
		if partner.BracketLink != cur {
			return fmt.Errorf("token: non-reciprocal bracket link at index %d", cur)
		}
		if !IsBracketPairKind(tok.Lexeme, partner.Lexeme) && !IsBracketPairKind(partner.Lexeme, tok.Lexeme) {
			return fmt.Errorf("token: mismatched bracket kinds %q/%q", tok.Lexeme, partner.Lexeme)
		}
	}
	return nil
}

// CheckProgressInvariant verifies progress values are monotone
// non-decreasing from head to tail.
func (l *List) CheckProgressInvariant() error {
	last := -1
	for cur := l.head; cur != NoRef; cur = l.arena[cur].next {
		if l.arena[cur].Progress < last {
			return fmt.Errorf("token: progress value decreased at index %d", cur)
		}
		last = l.arena[cur].Progress
	}
	return nil
}
