// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package influxql

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_ParseError_Error(t *testing.T) {
	t.Parallel()

	t.Run("no-context", func(t *testing.T) {
		t.Parallel()
		pe := newParseError(ErrSyntax, 12, "invalid FROM clause, expected identifier, regular expression or subquery")
		assert.Equal(t, "invalid FROM clause, expected identifier, regular expression or subquery at position 12", pe.Error())
	})

	t.Run("with-context", func(t *testing.T) {
		t.Parallel()
		pe := newParseError(ErrSyntax, 12, "expected duration").withContext("time_call").withContext("group_by_clause")
		assert.Equal(t, "expected duration at position 12 (in group_by_clause > time_call)", pe.Error())
	})
}

func Test_ParseError_Unwrap(t *testing.T) {
	t.Parallel()

	t.Run("explicit-sentinel", func(t *testing.T) {
		t.Parallel()
		pe := newParseError(ErrNestingTooDeep, 0, "nested too deeply")
		assert.True(t, errors.Is(pe, ErrNestingTooDeep))
		assert.False(t, errors.Is(pe, ErrSyntax))
	})

	t.Run("nil-sentinel-defaults-to-ErrSyntax", func(t *testing.T) {
		t.Parallel()
		pe := &ParseError{Offset: 0, Message: "boom"}
		assert.True(t, errors.Is(pe, ErrSyntax))
	})
}

func Test_toParseError_wrapsNonFailure(t *testing.T) {
	t.Parallel()

	pe := toParseError(errors.New("plain error"))
	require.NotNil(t, pe)
	assert.Equal(t, 0, pe.Offset)
	assert.Equal(t, "plain error", pe.Message)
	assert.True(t, errors.Is(pe, ErrSyntax))
}

func Test_toParseError_nil(t *testing.T) {
	t.Parallel()
	assert.Nil(t, toParseError(nil))
}
