// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package influxql

import (
	"strconv"
	"strings"

	"github.com/influxdata/influxql/lexer"
)

// Identifier is a name: a column, tag, field, measurement, or bind
// parameter name. It carries no information about whether it was written
// bare or double-quoted in the source — display.go re-quotes on demand
// based on content, per spec §4.5.
type Identifier string

// reservedKeywords are the words the grammar itself uses; spec §4.2
// requires a bare identifier to be rejected when it collides with one of
// these (double-quoting still works, since that path never reaches the
// check in parseIdentifier below).
var reservedKeywords = map[string]bool{
	"SELECT":   true,
	"FROM":     true,
	"WHERE":    true,
	"GROUP":    true,
	"BY":       true,
	"ORDER":    true,
	"FILL":     true,
	"LIMIT":    true,
	"OFFSET":   true,
	"SLIMIT":   true,
	"SOFFSET":  true,
	"TZ":       true,
	"AS":       true,
	"ASC":      true,
	"DESC":     true,
	"AND":      true,
	"OR":       true,
	"NOT":      true,
	"TIME":     true,
	"NULL":     true,
	"NONE":     true,
	"PREVIOUS": true,
	"LINEAR":   true,
	"DISTINCT": true,
}

func isReservedKeyword(s string) bool {
	return reservedKeywords[strings.ToUpper(s)]
}

// skipWS0 consumes zero or more whitespace runes ("multispace0" in spec
// §4.1's terms). It cannot fail.
func skipWS0(c *cursor) {
	c.lx.Some(lexer.IsSpace)
}

// skipWS1 requires at least one whitespace rune ("multispace1").
func skipWS1(c *cursor) error {
	start := c.mark()
	if !lexer.IsSpace(c.lx.Peek()) {
		return recoverable(start, "expected whitespace")
	}
	c.lx.Some(lexer.IsSpace)
	return nil
}

// matchRune consumes the next rune if it equals r.
func matchRune(c *cursor, r rune) bool {
	return c.lx.Expect(lexer.Eq(r))
}

// matchKeyword performs the case-insensitive keyword match from spec §4.2:
// the keyword must match and be followed by a non-identifier-continuation
// rune (so "TIME" does not match a prefix of "TIMEZONE"). On success the
// keyword (and nothing past it) is consumed; on failure the cursor does not
// move.
func matchKeyword(c *cursor, kw string) bool {
	start := c.mark()
	n := len(kw)
	rest := c.rest()
	if len(rest) < n || !strings.EqualFold(rest[:n], kw) {
		return false
	}
	for i := 0; i < n; i++ {
		c.lx.Shift()
	}
	if lexer.IsIdentCont(c.lx.Peek()) {
		c.reset(start)
		return false
	}
	return true
}

// parseKeyword adapts matchKeyword to a parseFn that fails recoverably when
// the keyword is absent; callers wrap it in expect where the keyword is
// mandatory within a production that has already committed.
func parseKeyword(kw string) parseFn[struct{}] {
	return func(c *cursor) (struct{}, error) {
		start := c.mark()
		if !matchKeyword(c, kw) {
			return struct{}{}, recoverable(start, "expected "+kw)
		}
		return struct{}{}, nil
	}
}

// parseIdentifier parses a bare or double-quoted identifier (spec §3, §4.2).
func parseIdentifier(c *cursor) (Identifier, error) {
	start := c.mark()
	if matchRune(c, '"') {
		var sb strings.Builder
		for {
			r := c.lx.Shift()
			switch r {
			case lexer.RuneEOF:
				return "", unrecoverable(start, "expected identifier")
			case '"':
				return Identifier(sb.String()), nil
			case '\\':
				n := c.lx.Shift()
				switch n {
				case '"':
					sb.WriteRune('"')
				case '\\':
					sb.WriteRune('\\')
				default:
					sb.WriteRune('\\')
					sb.WriteRune(n)
				}
			default:
				sb.WriteRune(r)
			}
		}
	}

	if !lexer.IsIdentStart(c.lx.Peek()) {
		c.reset(start)
		return "", recoverable(start, "expected identifier")
	}
	var sb strings.Builder
	r := c.lx.Shift()
	sb.WriteRune(r)
	for lexer.IsIdentCont(c.lx.Peek()) {
		sb.WriteRune(c.lx.Shift())
	}
	name := sb.String()
	if isReservedKeyword(name) {
		c.reset(start)
		return "", recoverable(start, "expected identifier")
	}
	return Identifier(name), nil
}

// parseBindParameter parses a `$name` placeholder.
func parseBindParameter(c *cursor) (Identifier, error) {
	start := c.mark()
	if !matchRune(c, '$') {
		return "", recoverable(start, "expected bind parameter")
	}
	name, err := parseIdentifier(c)
	if err != nil {
		return "", unrecoverable(start, "expected identifier")
	}
	return name, nil
}

// parseSingleQuotedString parses '...'  with the escape table from spec
// §4.2: \n, \\, \', \".
func parseSingleQuotedString(c *cursor) (string, error) {
	start := c.mark()
	if !matchRune(c, '\'') {
		return "", recoverable(start, "expected string")
	}
	var sb strings.Builder
	for {
		r := c.lx.Shift()
		switch r {
		case lexer.RuneEOF:
			return "", unrecoverable(start, "expected string")
		case '\'':
			return sb.String(), nil
		case '\\':
			n := c.lx.Shift()
			switch n {
			case 'n':
				sb.WriteRune('\n')
			case '\\':
				sb.WriteRune('\\')
			case '\'':
				sb.WriteRune('\'')
			case '"':
				sb.WriteRune('"')
			default:
				sb.WriteRune('\\')
				sb.WriteRune(n)
			}
		default:
			sb.WriteRune(r)
		}
	}
}

// parseRegexLiteral parses /.../  with \/ unescaped to /.
func parseRegexLiteral(c *cursor) (string, error) {
	start := c.mark()
	if !matchRune(c, '/') {
		return "", recoverable(start, "expected regular expression")
	}
	var sb strings.Builder
	for {
		r := c.lx.Shift()
		switch r {
		case lexer.RuneEOF:
			return "", unrecoverable(start, "expected regular expression")
		case '/':
			return sb.String(), nil
		case '\\':
			n := c.lx.Peek()
			if n == '/' {
				c.lx.Shift()
				sb.WriteRune('/')
			} else {
				sb.WriteRune('\\')
			}
		default:
			sb.WriteRune(r)
		}
	}
}

// parseUnsignedInteger parses a sequence of digits and fits it into uint64,
// used by LIMIT/OFFSET/SLIMIT/SOFFSET.
func parseUnsignedInteger(c *cursor) (uint64, error) {
	start := c.mark()
	if !lexer.IsNumber(c.lx.Peek()) {
		return 0, recoverable(start, "expected unsigned integer")
	}
	var sb strings.Builder
	for lexer.IsNumber(c.lx.Peek()) {
		sb.WriteRune(c.lx.Shift())
	}
	v, err := strconv.ParseUint(sb.String(), 10, 64)
	if err != nil {
		return 0, unrecoverable(start, "expected unsigned integer")
	}
	return v, nil
}

// parseUnsignedNumber parses an unsigned decimal integer or float literal
// (spec §4.2). The unary minus is handled by the arithmetic expression
// grammar, not here, except where parseSignedNumber is used explicitly.
func parseUnsignedNumber(c *cursor) (Literal, error) {
	start := c.mark()
	if !lexer.IsNumber(c.lx.Peek()) {
		return nil, recoverable(start, "expected number")
	}
	var sb strings.Builder
	for lexer.IsNumber(c.lx.Peek()) {
		sb.WriteRune(c.lx.Shift())
	}
	isFloat := false
	if c.lx.Peek() == '.' {
		mark := c.mark()
		c.lx.Shift()
		if lexer.IsNumber(c.lx.Peek()) {
			isFloat = true
			sb.WriteRune('.')
			for lexer.IsNumber(c.lx.Peek()) {
				sb.WriteRune(c.lx.Shift())
			}
		} else {
			c.reset(mark)
		}
	}
	if r := c.lx.Peek(); r == 'e' || r == 'E' {
		mark := c.mark()
		c.lx.Shift()
		sign := ""
		if p := c.lx.Peek(); p == '+' || p == '-' {
			sign = string(p)
			c.lx.Shift()
		}
		if lexer.IsNumber(c.lx.Peek()) {
			isFloat = true
			sb.WriteRune('e')
			sb.WriteString(sign)
			for lexer.IsNumber(c.lx.Peek()) {
				sb.WriteRune(c.lx.Shift())
			}
		} else {
			c.reset(mark)
		}
	}
	if isFloat {
		f, err := strconv.ParseFloat(sb.String(), 64)
		if err != nil {
			return nil, unrecoverable(start, "expected number")
		}
		return FloatLiteral(f), nil
	}
	i, err := strconv.ParseInt(sb.String(), 10, 64)
	if err != nil {
		return nil, unrecoverable(start, "expected number")
	}
	return IntegerLiteral(i), nil
}

// parseSignedNumber accepts an optional leading '-' directly in the
// lexeme, used only inside FILL(...) per spec §4.2.
func parseSignedNumber(c *cursor) (Literal, error) {
	start := c.mark()
	neg := matchRune(c, '-')
	lit, err := parseUnsignedNumber(c)
	if err != nil {
		c.reset(start)
		return nil, recoverable(start, "expected number")
	}
	if !neg {
		return lit, nil
	}
	switch v := lit.(type) {
	case IntegerLiteral:
		return IntegerLiteral(-v), nil
	case FloatLiteral:
		return FloatLiteral(-v), nil
	default:
		return lit, nil
	}
}

var durationUnitNanos = map[string]int64{
	"ns": 1,
	"u":  1000,
	"µ":  1000,
	"us": 1000,
	"ms": 1_000_000,
	"s":  1_000_000_000,
	"m":  60 * 1_000_000_000,
	"h":  3600 * 1_000_000_000,
	"d":  24 * 3600 * 1_000_000_000,
	"w":  7 * 24 * 3600 * 1_000_000_000,
}

// parseDuration parses one or more <integer><unit> pairs and sums them into
// a signed nanosecond count (spec §4.2, §"GLOSSARY"). At least one pair is
// required.
func parseDuration(c *cursor) (Duration, error) {
	start := c.mark()
	var total int64
	count := 0
	for {
		mark := c.mark()
		if !lexer.IsNumber(c.lx.Peek()) {
			break
		}
		var digits strings.Builder
		for lexer.IsNumber(c.lx.Peek()) {
			digits.WriteRune(c.lx.Shift())
		}
		unit, ok := readDurationUnit(c)
		if !ok {
			c.reset(mark)
			break
		}
		n, err := strconv.ParseInt(digits.String(), 10, 64)
		if err != nil {
			c.reset(mark)
			break
		}
		total += n * durationUnitNanos[unit]
		count++
	}
	if count == 0 {
		c.reset(start)
		return 0, recoverable(start, "expected duration")
	}
	return Duration(total), nil
}

// readDurationUnit reads the longest matching unit suffix ("ns"/"us"/"ms"
// before the single-rune units).
func readDurationUnit(c *cursor) (string, bool) {
	if !lexer.IsDurationUnitStart(c.lx.Peek()) {
		return "", false
	}
	mark := c.mark()
	first := c.lx.Shift()
	if first == 'n' || first == 'u' {
		if second := c.lx.Peek(); second == 's' {
			c.lx.Shift()
			return string(first) + "s", true
		}
	}
	if first == 'm' {
		if second := c.lx.Peek(); second == 's' {
			c.lx.Shift()
			return "ms", true
		}
		return "m", true
	}
	unit := string(first)
	if _, ok := durationUnitNanos[unit]; ok {
		return unit, true
	}
	c.reset(mark)
	return "", false
}
