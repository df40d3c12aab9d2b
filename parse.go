// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package influxql

import "fmt"

// options mirrors the teacher package's functional-options shape
// (options.go), generalized to the one tunable this grammar exposes: the
// recursion-depth guard from spec §5.
type options struct {
	maxDepth int
}

// Option configures ParseSelect.
type Option func(*options) error

func getDefaultOptions() options {
	return options{maxDepth: defaultMaxDepth}
}

func getOpts(opt ...Option) (options, error) {
	opts := getDefaultOptions()
	for _, o := range opt {
		if err := o(&opts); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

// WithMaxDepth overrides the default recursion-depth guard (spec §5). A
// non-positive value is rejected.
func WithMaxDepth(depth int) Option {
	return func(o *options) error {
		if depth <= 0 {
			return fmt.Errorf("influxql.WithMaxDepth: %w: depth must be positive", ErrInvalidParameter)
		}
		o.maxDepth = depth
		return nil
	}
}

// ParseSelect parses a single InfluxQL SELECT statement (spec §6's
// parse_select). It does not skip leading whitespace before the SELECT
// keyword (spec §9 Open Question (b)); a SelectStatement is returned only
// when the entire input, aside from trailing whitespace, was consumed.
func ParseSelect(text string, opt ...Option) (*SelectStatement, error) {
	const op = "influxql.ParseSelect"

	opts, err := getOpts(opt...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	c := newCursor(text, opts.maxDepth)
	stmt, err := parseSelectStatement(c)
	if err != nil {
		pe := toParseError(err).withContext("select_statement")
		return nil, fmt.Errorf("%s: %w", op, pe)
	}

	skipWS0(c)
	if !c.eof() {
		pe := newParseError(ErrSyntax, c.offset(), "invalid SELECT statement, unexpected trailing input")
		return nil, fmt.Errorf("%s: %w", op, pe)
	}

	return stmt, nil
}
