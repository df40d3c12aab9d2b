// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package influxql

// Literal is the typed-value model for every literal kind this grammar
// constructs: Integer, Float, String, Boolean, Duration and Regex (spec
// §3). Timestamp literals are part of the broader InfluxQL literal model
// but no production in this grammar constructs one, so no Go type exists
// for it — adding a case nothing can reach would be dead code.
type Literal interface {
	isLiteral()
	String() string
}

// IntegerLiteral is a signed decimal integer literal.
type IntegerLiteral int64

func (IntegerLiteral) isLiteral() {}

// FloatLiteral is a decimal floating point literal.
type FloatLiteral float64

func (FloatLiteral) isLiteral() {}

// StringLiteral is a single-quoted string literal.
type StringLiteral string

func (StringLiteral) isLiteral() {}

// BooleanLiteral is `true` or `false`.
type BooleanLiteral bool

func (BooleanLiteral) isLiteral() {}

// Duration is a signed nanosecond count, the sum of one or more
// <integer><unit> pairs (spec §4.2, GLOSSARY "Duration literal").
type Duration int64

// DurationLiteral wraps a Duration as a Literal.
type DurationLiteral Duration

func (DurationLiteral) isLiteral() {}

// RegexLiteral is the unescaped pattern text of a /.../  literal (spec §3:
// "\/ inside is unescaped to /").
type RegexLiteral string

func (RegexLiteral) isLiteral() {}

// parseLiteral is the shared `literal` production referenced throughout the
// grammar (field operands, comparison right-hand sides): duration is tried
// before a bare number so that "5m" is not mistaken for the integer 5
// followed by an unconsumed "m".
func parseLiteral(c *cursor) (Literal, error) {
	start := c.mark()

	if d, err := parseDuration(c); err == nil {
		return DurationLiteral(d), nil
	}
	c.reset(start)

	if n, err := parseUnsignedNumber(c); err == nil {
		return n, nil
	}
	c.reset(start)

	if s, err := parseSingleQuotedString(c); err == nil {
		return StringLiteral(s), nil
	}
	c.reset(start)

	if r, err := parseRegexLiteral(c); err == nil {
		return RegexLiteral(r), nil
	}
	c.reset(start)

	if matchKeyword(c, "true") {
		return BooleanLiteral(true), nil
	}
	if matchKeyword(c, "false") {
		return BooleanLiteral(false), nil
	}

	return nil, recoverable(start, "expected literal")
}
