// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package influxql_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/influxdata/influxql"
)

func Test_ParseSelect_concreteScenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare-measurement",
			raw:  "SELECT value FROM foo",
			want: "SELECT value FROM foo",
		},
		{
			name: "regex-field-and-alias-and-condition",
			raw:  `SELECT f1,/f2/, f3 AS "a field" FROM foo WHERE host =~ /c1/`,
			want: `SELECT f1, /f2/, f3 AS "a field" FROM foo WHERE host =~ /c1/`,
		},
		{
			name: "group-by-time-and-fill",
			raw:  "SELECT sum(value) FROM foo GROUP BY time(5m), host FILL(previous)",
			want: "SELECT sum(value) FROM foo GROUP BY TIME(5m), host FILL(PREVIOUS)",
		},
		{
			name: "order-by-desc",
			raw:  "SELECT value FROM foo ORDER BY DESC",
			want: "SELECT value FROM foo ORDER BY TIME DESC",
		},
		{
			name: "timezone",
			raw:  "SELECT value FROM foo tz('Australia/Hobart')",
			want: "SELECT value FROM foo TZ('Australia/Hobart')",
		},
		{
			name: "subquery-and-series-limit-offset",
			raw:  "SELECT value FROM (SELECT * FROM cpu), /cpu/, diskio SLIMIT 25 SOFFSET 220",
			want: "SELECT value FROM (SELECT * FROM cpu), /cpu/, diskio SLIMIT 25 SOFFSET 220",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			stmt, err := influxql.ParseSelect(tc.raw)
			require.NoError(t, err)
			got := influxql.Display(stmt)
			assert.Equal(t, tc.want, got)

			// Round-trip: re-parsing the canonical display yields a
			// structurally equal AST (spec's round-trip property).
			stmt2, err := influxql.ParseSelect(got)
			require.NoError(t, err)
			assert.Equal(t, stmt, stmt2)

			// Idempotent display.
			assert.Equal(t, got, influxql.Display(stmt2))
		})
	}
}

func Test_ParseSelect_negativeScenarios(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		raw             string
		wantErrIs       error
		wantErrContains string
	}{
		{
			name:            "time-no-parens",
			raw:             "SELECT value FROM foo GROUP BY TIME",
			wantErrContains: "invalid TIME call, expected 1 or 2 arguments",
		},
		{
			name:            "time-non-duration-interval",
			raw:             "SELECT value FROM foo GROUP BY TIME(3)",
			wantErrContains: "invalid TIME call, expected duration",
		},
		{
			name:            "time-unterminated",
			raw:             "SELECT value FROM foo GROUP BY TIME(5m",
			wantErrContains: "invalid TIME call, expected ')'",
		},
		{
			name:            "from-non-identifier",
			raw:             "SELECT value FROM 1",
			wantErrContains: "invalid FROM clause, expected identifier, regular expression or subquery",
		},
		{
			name:            "from-bare-reserved-keyword",
			raw:             "SELECT value FROM WHERE",
			wantErrContains: "invalid FROM clause, expected identifier, regular expression or subquery",
		},
		{
			name:            "fill-invalid-option",
			raw:             "SELECT value FROM foo GROUP BY time(5m) FILL(foo)",
			wantErrContains: "invalid FILL option, expected NULL, NONE, PREVIOUS, LINEAR, or a number",
		},
		{
			name:            "group-missing-by",
			raw:             "SELECT value FROM foo GROUP time(5m)",
			wantErrContains: "invalid GROUP BY clause, expected BY",
		},
		{
			name:            "distinct-wildcard",
			raw:             "SELECT distinct * FROM foo",
			wantErrContains: "invalid DISTINCT expression, expected identifier",
		},
		{
			name:            "wildcard-bad-type",
			raw:             "SELECT *::foo FROM foo",
			wantErrContains: "invalid wildcard type specifier, expected TAG or FIELD",
		},
		{
			name:            "nesting-too-deep",
			raw:             "SELECT value FROM foo WHERE " + openParens(100) + "a=1" + closeParens(100),
			wantErrIs:       influxql.ErrNestingTooDeep,
			wantErrContains: "nested too deeply",
		},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := influxql.ParseSelect(tc.raw)
			require.Error(t, err)
			if tc.wantErrIs != nil {
				assert.True(t, errors.Is(err, tc.wantErrIs))
			}
			if tc.wantErrContains != "" {
				assert.ErrorContains(t, err, tc.wantErrContains)
			}
		})
	}
}

func openParens(n int) string {
	s := make([]byte, n)
	for i := range s {
		s[i] = '('
	}
	return string(s)
}

func closeParens(n int) string {
	s := make([]byte, n)
	for i := range s {
		s[i] = ')'
	}
	return string(s)
}

func Test_ParseSelect_wildcardNormalisation(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{
		"SELECT value FROM foo GROUP BY *",
		"SELECT value FROM foo GROUP BY *::tag",
		"SELECT value FROM foo GROUP BY *::field",
	} {
		raw := raw
		t.Run(raw, func(t *testing.T) {
			t.Parallel()

			stmt, err := influxql.ParseSelect(raw)
			require.NoError(t, err)
			require.Len(t, stmt.GroupBy, 1)
			_, ok := stmt.GroupBy[0].(*influxql.WildcardDimension)
			assert.True(t, ok)
		})
	}
}

func Test_ParseSelect_orderByAscElision(t *testing.T) {
	t.Parallel()

	stmt, err := influxql.ParseSelect("SELECT v FROM m ORDER BY TIME ASC")
	require.NoError(t, err)
	assert.Nil(t, stmt.OrderBy)
}

func Test_ParseSelect_nonEmptyInvariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty-field-list", raw: "SELECT FROM foo"},
		{name: "empty-from-list", raw: "SELECT value FROM"},
		{name: "empty-group-by-list", raw: "SELECT value FROM foo GROUP BY"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := influxql.ParseSelect(tc.raw)
			require.Error(t, err)
		})
	}
}

func Test_ParseSelect_leadingWhitespaceNotPermitted(t *testing.T) {
	t.Parallel()

	_, err := influxql.ParseSelect("  SELECT value FROM foo")
	require.Error(t, err)
}
