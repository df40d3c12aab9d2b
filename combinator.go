// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package influxql

import (
	"github.com/influxdata/influxql/lexer"
)

// defaultMaxDepth bounds recursive-descent recursion (subqueries, nested
// parens). Spec §5 calls for a configurable default of 64.
const defaultMaxDepth = 64

// cursor is the single mutable piece of state threaded through every
// combinator: a position in the input plus a recursion-depth budget. It
// wraps the generalized lexer.Lexer rune cursor (kept from the teacher's
// lexer package, extended with Mark/Reset for multi-rune backtracking).
type cursor struct {
	lx       *lexer.Lexer
	input    string
	depth    int
	maxDepth int
}

func newCursor(input string, maxDepth int) *cursor {
	if maxDepth <= 0 {
		maxDepth = defaultMaxDepth
	}
	return &cursor{lx: lexer.New(input), input: input, maxDepth: maxDepth}
}

func (c *cursor) mark() int      { return c.lx.Mark() }
func (c *cursor) reset(pos int)  { c.lx.Reset(pos) }
func (c *cursor) offset() int    { return c.lx.Off() }
func (c *cursor) rest() string   { return c.lx.Rest() }
func (c *cursor) eof() bool      { return c.lx.Len() == 0 }

// enterRecursion must be paired with a deferred leaveRecursion around every
// grammar production that can recurse (subqueries, parenthesised
// expressions). It trips the "nested too deeply" guard from spec §5.
func (c *cursor) enterRecursion() error {
	c.depth++
	if c.depth > c.maxDepth {
		return &failure{
			Offset:      c.offset(),
			Message:     "nested too deeply",
			Recoverable: false,
			sentinel:    ErrNestingTooDeep,
		}
	}
	return nil
}

func (c *cursor) leaveRecursion() { c.depth-- }

// failure is the internal error type every combinator communicates through.
// Recoverable failures are silently absorbed by alt/opt; unrecoverable ones
// (produced by expect/verify, or a tripped recursion guard) propagate to the
// caller of ParseSelect, where they are surfaced as a *ParseError.
type failure struct {
	Offset      int
	Message     string
	Recoverable bool
	Context     []string
	sentinel    error
}

func (f *failure) Error() string { return f.Message }

func recoverable(offset int, msg string) *failure {
	return &failure{Offset: offset, Message: msg, Recoverable: true}
}

func unrecoverable(offset int, msg string) *failure {
	return &failure{Offset: offset, Message: msg, Recoverable: false}
}

func asFailure(err error) (*failure, bool) {
	f, ok := err.(*failure)
	return f, ok
}

// toParseError converts a terminal failure into the public ParseError,
// pushing any accumulated production-name context.
func toParseError(err error) *ParseError {
	if err == nil {
		return nil
	}
	f, ok := asFailure(err)
	if !ok {
		return newParseError(ErrSyntax, 0, err.Error())
	}
	pe := newParseError(f.sentinel, f.Offset, f.Message)
	pe.Context = f.Context
	return pe
}

type parseFn[T any] func(c *cursor) (T, error)

// opt turns a recoverable failure into a zero value and a nil error,
// restoring the cursor to where p began. Unrecoverable failures propagate.
func opt[T any](c *cursor, p parseFn[T]) (T, bool, error) {
	var zero T
	start := c.mark()
	v, err := p(c)
	if err == nil {
		return v, true, nil
	}
	f, ok := asFailure(err)
	if ok && f.Recoverable {
		c.reset(start)
		return zero, false, nil
	}
	return zero, false, err
}

// alt tries each alternative left to right at the same starting position,
// succeeding on the first match. If every alternative fails recoverably,
// the failure reported is the one whose offset advanced furthest — the
// combinator contract in spec §4.1.
func alt[T any](c *cursor, ps ...parseFn[T]) (T, error) {
	var zero T
	start := c.mark()
	var furthest *failure
	for _, p := range ps {
		c.reset(start)
		v, err := p(c)
		if err == nil {
			return v, nil
		}
		f, ok := asFailure(err)
		if !ok {
			return zero, err
		}
		if !f.Recoverable {
			return zero, err
		}
		if furthest == nil || f.Offset > furthest.Offset {
			furthest = f
		}
	}
	c.reset(start)
	if furthest == nil {
		return zero, recoverable(start, "no alternative matched")
	}
	return zero, furthest
}

// pair runs two parsers in sequence and returns both results. A recoverable
// failure on the first parser stays recoverable (the whole pair "didn't
// apply"); a failure on the second is promoted to unrecoverable, since the
// first parser having matched commits the sequence.
func pair[A, B any](c *cursor, pa parseFn[A], pb parseFn[B]) (A, B, error) {
	var zeroA A
	var zeroB B
	a, err := pa(c)
	if err != nil {
		return zeroA, zeroB, err
	}
	b, err := pb(c)
	if err != nil {
		if f, ok := asFailure(err); ok && f.Recoverable {
			return zeroA, zeroB, unrecoverable(f.Offset, f.Message)
		}
		return zeroA, zeroB, err
	}
	return a, b, nil
}

// preceded runs `before` then `after`, discarding before's result.
func preceded[P, T any](c *cursor, before parseFn[P], after parseFn[T]) (T, error) {
	var zero T
	_, err := before(c)
	if err != nil {
		return zero, err
	}
	v, err := after(c)
	if err != nil {
		if f, ok := asFailure(err); ok && f.Recoverable {
			return zero, unrecoverable(f.Offset, f.Message)
		}
		return zero, err
	}
	return v, nil
}

// delimited runs left, inner, right, returning only inner's result.
func delimited[L, T, R any](c *cursor, left parseFn[L], inner parseFn[T], right parseFn[R]) (T, error) {
	var zero T
	if _, err := left(c); err != nil {
		return zero, err
	}
	v, err := inner(c)
	if err != nil {
		if f, ok := asFailure(err); ok && f.Recoverable {
			return zero, unrecoverable(f.Offset, f.Message)
		}
		return zero, err
	}
	if _, err := right(c); err != nil {
		if f, ok := asFailure(err); ok && f.Recoverable {
			return zero, unrecoverable(f.Offset, f.Message)
		}
		return zero, err
	}
	return v, nil
}

// separatedList1 parses one or more items separated by `,` with surrounding
// whitespace. Fails with errMsg if no item is present at all.
func separatedList1[T any](c *cursor, item parseFn[T], errMsg string) ([]T, error) {
	first, err := item(c)
	if err != nil {
		if f, ok := asFailure(err); ok && f.Recoverable {
			return nil, recoverable(f.Offset, errMsg)
		}
		return nil, err
	}
	items := []T{first}
	for {
		start := c.mark()
		skipWS0(c)
		if !matchRune(c, ',') {
			c.reset(start)
			break
		}
		skipWS0(c)
		v, err := item(c)
		if err != nil {
			if f, ok := asFailure(err); ok && f.Recoverable {
				c.reset(start)
				break
			}
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

// expect runs p; if it fails recoverably, the failure is promoted to
// unrecoverable and retagged with msg, positioned at the cursor where p was
// entered (not wherever the enclosing alternative started — spec §9's
// error-position-precision note).
func expect[T any](c *cursor, msg string, p parseFn[T]) (T, error) {
	var zero T
	start := c.mark()
	v, err := p(c)
	if err == nil {
		return v, nil
	}
	if f, ok := asFailure(err); ok && f.Recoverable {
		return zero, unrecoverable(start, msg)
	}
	return zero, err
}

// verify runs p, then applies predicate to its result; a false predicate
// produces an unrecoverable failure tagged msg.
func verify[T any](c *cursor, msg string, p parseFn[T], predicate func(T) bool) (T, error) {
	var zero T
	start := c.mark()
	v, err := p(c)
	if err != nil {
		return zero, err
	}
	if !predicate(v) {
		c.reset(start)
		return zero, unrecoverable(start, msg)
	}
	return v, nil
}
