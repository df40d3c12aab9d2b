// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package influxql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_opt(t *testing.T) {
	t.Parallel()

	t.Run("match", func(t *testing.T) {
		t.Parallel()
		c := newCursor("123rest", 0)
		v, ok, err := opt(c, parseUnsignedInteger)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, uint64(123), v)
		assert.Equal(t, "rest", c.rest())
	})

	t.Run("recoverable-failure-resets-cursor", func(t *testing.T) {
		t.Parallel()
		c := newCursor("abc", 0)
		_, ok, err := opt(c, parseUnsignedInteger)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, "abc", c.rest())
	})
}

func Test_alt(t *testing.T) {
	t.Parallel()

	t.Run("first-alternative-wins", func(t *testing.T) {
		t.Parallel()
		c := newCursor("123", 0)
		v, err := alt(c, parseUnsignedInteger, func(c *cursor) (uint64, error) {
			t.Fatal("second alternative should not run")
			return 0, nil
		})
		require.NoError(t, err)
		assert.Equal(t, uint64(123), v)
	})

	t.Run("falls-through-recoverable-failures", func(t *testing.T) {
		t.Parallel()
		c := newCursor("xyz", 0)
		always := func(c *cursor) (uint64, error) { return 0, recoverable(c.mark(), "nope") }
		_, err := alt(c, always, always)
		require.Error(t, err)
		f, ok := asFailure(err)
		require.True(t, ok)
		assert.True(t, f.Recoverable)
	})

	t.Run("unrecoverable-failure-short-circuits", func(t *testing.T) {
		t.Parallel()
		c := newCursor("xyz", 0)
		boom := func(c *cursor) (uint64, error) { return 0, unrecoverable(c.mark(), "boom") }
		called := false
		_, err := alt(c, boom, func(c *cursor) (uint64, error) {
			called = true
			return 0, nil
		})
		require.Error(t, err)
		assert.False(t, called)
	})
}

func Test_separatedList1(t *testing.T) {
	t.Parallel()

	t.Run("multiple-items", func(t *testing.T) {
		t.Parallel()
		c := newCursor("1, 2,3 rest", 0)
		got, err := separatedList1(c, parseUnsignedInteger, "expected unsigned integer")
		require.NoError(t, err)
		assert.Equal(t, []uint64{1, 2, 3}, got)
		assert.Equal(t, " rest", c.rest())
	})

	t.Run("empty-fails-with-errMsg", func(t *testing.T) {
		t.Parallel()
		c := newCursor("abc", 0)
		_, err := separatedList1(c, parseUnsignedInteger, "expected unsigned integer")
		require.Error(t, err)
		assert.ErrorContains(t, err, "expected unsigned integer")
	})

	t.Run("trailing-comma-does-not-consume-comma", func(t *testing.T) {
		t.Parallel()
		c := newCursor("1, ", 0)
		got, err := separatedList1(c, parseUnsignedInteger, "expected unsigned integer")
		require.NoError(t, err)
		assert.Equal(t, []uint64{1}, got)
		assert.Equal(t, ", ", c.rest())
	})
}

func Test_expect(t *testing.T) {
	t.Parallel()

	c := newCursor("abc", 0)
	_, err := expect(c, "custom message", parseUnsignedInteger)
	require.Error(t, err)
	f, ok := asFailure(err)
	require.True(t, ok)
	assert.False(t, f.Recoverable)
	assert.Equal(t, "custom message", f.Message)
}

func Test_verify(t *testing.T) {
	t.Parallel()

	t.Run("predicate-true", func(t *testing.T) {
		t.Parallel()
		c := newCursor("5", 0)
		v, err := verify(c, "must be a multiple of 5", parseUnsignedInteger, func(v uint64) bool { return v%5 == 0 })
		require.NoError(t, err)
		assert.Equal(t, uint64(5), v)
	})

	t.Run("predicate-false-resets-cursor", func(t *testing.T) {
		t.Parallel()
		c := newCursor("5rest", 0)
		_, err := verify(c, "must be even", parseUnsignedInteger, func(v uint64) bool { return v%2 == 0 })
		require.Error(t, err)
		assert.Equal(t, "5rest", c.rest())
	})
}

func Test_cursor_recursionGuard(t *testing.T) {
	t.Parallel()

	c := newCursor("", 2)
	require.NoError(t, c.enterRecursion())
	require.NoError(t, c.enterRecursion())
	err := c.enterRecursion()
	require.Error(t, err)
	f, ok := asFailure(err)
	require.True(t, ok)
	assert.False(t, f.Recoverable)
	assert.ErrorIs(t, toParseError(err), ErrNestingTooDeep)
}
