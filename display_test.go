// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package influxql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Duration_String(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		d    Duration
		want string
	}{
		{name: "zero", d: 0, want: "0s"},
		{name: "seconds", d: Duration(30 * 1_000_000_000), want: "30s"},
		{name: "compound-minutes-seconds", d: Duration(90 * 1_000_000_000), want: "1m30s"},
		{name: "nanoseconds-only", d: Duration(1), want: "1ns"},
		{name: "week-and-day", d: Duration(8 * 24 * 3600 * 1_000_000_000), want: "1w1d"},
		{name: "negative", d: Duration(-30 * 1_000_000_000), want: "-30s"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, tc.d.String())
		})
	}
}

func Test_quoteIdentifier(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		id   Identifier
		want string
	}{
		{name: "bare", id: "host", want: "host"},
		{name: "bare-with-underscore", id: "cpu_1", want: "cpu_1"},
		{name: "needs-quoting-space", id: "a field", want: `"a field"`},
		{name: "needs-quoting-leading-digit", id: "1field", want: `"1field"`},
		{name: "escapes-quote", id: `a"b`, want: `"a\"b"`},
		{name: "escapes-backslash", id: `a\b`, want: `"a\\b"`},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, quoteIdentifier(tc.id))
		})
	}
}

func Test_escapeQuoted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: "hello", want: "hello"},
		{name: "newline", in: "a\nb", want: `a\nb`},
		{name: "backslash", in: `a\b`, want: `a\\b`},
		{name: "single-quote", in: "it's", want: `it\'s`},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, escapeQuoted(tc.in))
		})
	}
}

func Test_quoteRegex(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "/abc/", quoteRegex("abc"))
	assert.Equal(t, `/a\/b/`, quoteRegex("a/b"))
}

func Test_Display_roundTripsThroughStmt(t *testing.T) {
	t.Parallel()

	stmt, err := ParseSelect("SELECT value FROM foo WHERE a = 1")
	assert := assert.New(t)
	assert.NoError(err)
	assert.Equal("SELECT value FROM foo WHERE a = 1", Display(stmt))
}
