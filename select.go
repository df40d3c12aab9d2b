// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package influxql

// select_statement ::=
//     "SELECT" S field_list
//     S  from_clause
//   [ S  "WHERE" S condition ]
//   [ S  group_by_clause ]
//   [ S  fill_clause ]
//   [ S  order_by_clause ]
//   [ S  "LIMIT"  unsigned ]
//   [ S  "OFFSET" unsigned ]
//   [ S  "SLIMIT" unsigned ]
//   [ S  "SOFFSET" unsigned ]
//   [ S  "TZ" "(" single_quoted_string ")" ]

func parseSelectStatement(c *cursor) (*SelectStatement, error) {
	start := c.mark()
	if !matchKeyword(c, "SELECT") {
		return nil, recoverable(start, "expected SELECT")
	}
	skipWS0(c)

	fields, err := expect(c, "invalid SELECT statement, expected field", parseFieldList)
	if err != nil {
		return nil, err
	}

	skipWS0(c)
	from, err := expect(c, "invalid SELECT statement, expected FROM clause", parseFromClause)
	if err != nil {
		return nil, err
	}

	stmt := &SelectStatement{Fields: fields, From: from}

	if cond, ok, err := tryOptional(c, parseWhereClause); err != nil {
		return nil, err
	} else if ok {
		stmt.Condition = cond
	}

	if dims, ok, err := tryOptional(c, parseGroupByClause); err != nil {
		return nil, err
	} else if ok {
		stmt.GroupBy = dims
	}

	if fill, ok, err := tryOptional(c, parseFillClause); err != nil {
		return nil, err
	} else if ok {
		stmt.FillOption = fill
	}

	if dir, ok, err := tryOptional(c, parseOrderByClause); err != nil {
		return nil, err
	} else if ok {
		stmt.OrderBy = dir
	}

	if v, ok, err := tryOptional(c, func(c *cursor) (*uint64, error) {
		return parseUnsignedClause(c, "LIMIT", "invalid LIMIT clause, expected unsigned integer")
	}); err != nil {
		return nil, err
	} else if ok {
		stmt.Limit = v
	}

	if v, ok, err := tryOptional(c, func(c *cursor) (*uint64, error) {
		return parseUnsignedClause(c, "OFFSET", "invalid OFFSET clause, expected unsigned integer")
	}); err != nil {
		return nil, err
	} else if ok {
		stmt.Offset = v
	}

	if v, ok, err := tryOptional(c, func(c *cursor) (*uint64, error) {
		return parseUnsignedClause(c, "SLIMIT", "invalid SLIMIT clause, expected unsigned integer")
	}); err != nil {
		return nil, err
	} else if ok {
		stmt.SeriesLimit = v
	}

	// The original parser's SOFFSET clause reuses SLIMIT's error message
	// (spec §9(c)); this implementation corrects it rather than
	// replicating the bug (see DESIGN.md).
	if v, ok, err := tryOptional(c, func(c *cursor) (*uint64, error) {
		return parseUnsignedClause(c, "SOFFSET", "invalid SOFFSET clause, expected unsigned integer")
	}); err != nil {
		return nil, err
	} else if ok {
		stmt.SeriesOffset = v
	}

	if tz, ok, err := tryOptional(c, parseTZClause); err != nil {
		return nil, err
	} else if ok {
		stmt.Timezone = &tz
	}

	return stmt, nil
}

// tryOptional runs a clause parser after skipping leading whitespace,
// restoring the cursor if the clause is absent (recoverable failure).
// Unrecoverable failures (the clause's keyword matched but its body was
// malformed) propagate.
func tryOptional[T any](c *cursor, p parseFn[T]) (T, bool, error) {
	save := c.mark()
	skipWS0(c)
	v, ok, err := opt(c, p)
	if err != nil {
		return v, false, err
	}
	if !ok {
		c.reset(save)
	}
	return v, ok, nil
}

// field_list ::= field ( "," field )*
func parseFieldList(c *cursor) ([]Field, error) {
	return separatedList1(c, parseField, "invalid SELECT statement, expected field")
}

// field ::= field_expression ( S "AS" S identifier )?
func parseField(c *cursor) (Field, error) {
	expr, err := parseArithmetic(c, fieldOperand)
	if err != nil {
		return Field{}, err
	}
	save := c.mark()
	skipWS0(c)
	var alias *Identifier
	if matchKeyword(c, "AS") {
		skipWS0(c)
		id, err := expect(c, "invalid field alias, expected identifier", parseIdentifier)
		if err != nil {
			return Field{}, err
		}
		alias = &id
	} else {
		c.reset(save)
	}
	return Field{Expr: expr, Alias: alias}, nil
}

// from_clause ::= "FROM" S measurement ( "," measurement )*
func parseFromClause(c *cursor) ([]MeasurementSelection, error) {
	start := c.mark()
	if !matchKeyword(c, "FROM") {
		return nil, recoverable(start, "expected FROM")
	}
	skipWS0(c)
	const errMsg = "invalid FROM clause, expected identifier, regular expression or subquery"
	return expect(c, errMsg, func(c *cursor) ([]MeasurementSelection, error) {
		return separatedList1(c, parseMeasurementSelection, errMsg)
	})
}

// measurement ::= qualified_measurement_name | "(" select_statement ")"
func parseMeasurementSelection(c *cursor) (MeasurementSelection, error) {
	const errMsg = "invalid FROM clause, expected identifier, regular expression or subquery"
	start := c.mark()
	if matchRune(c, '(') {
		if err := c.enterRecursion(); err != nil {
			return nil, err
		}
		defer c.leaveRecursion()
		skipWS0(c)
		stmt, err := expect(c, errMsg, parseSelectStatement)
		if err != nil {
			return nil, err
		}
		skipWS0(c)
		if !matchRune(c, ')') {
			return nil, unrecoverable(c.offset(), "expected ')'")
		}
		return &SubquerySelection{Statement: stmt}, nil
	}
	c.reset(start)
	name, err := parseQualifiedMeasurementName(c)
	if err != nil {
		if f, ok := asFailure(err); ok && f.Recoverable {
			return nil, recoverable(f.Offset, errMsg)
		}
		return nil, err
	}
	return &MeasurementNameSelection{Name: name}, nil
}

// group_by_clause ::= "GROUP" S "BY" S dimension ( "," dimension )*
func parseGroupByClause(c *cursor) ([]Dimension, error) {
	start := c.mark()
	if !matchKeyword(c, "GROUP") {
		return nil, recoverable(start, "expected GROUP BY clause")
	}
	skipWS0(c)
	if _, err := expect(c, "invalid GROUP BY clause, expected BY", parseKeyword("BY")); err != nil {
		return nil, err
	}
	skipWS0(c)
	const errMsg = "invalid GROUP BY clause, expected wildcard, TIME, identifier or regular expression"
	return expect(c, errMsg, func(c *cursor) ([]Dimension, error) {
		return separatedList1(c, parseDimension, errMsg)
	})
}

// dimension ::= "*" | time_call | regex | identifier
func parseDimension(c *cursor) (Dimension, error) {
	return alt(c,
		parseWildcardDimension,
		parseTimeDimension,
		parseRegexDimension,
		parseTagDimension,
	)
}

func parseWildcardDimension(c *cursor) (Dimension, error) {
	start := c.mark()
	if !matchRune(c, '*') {
		return nil, recoverable(start, "expected dimension")
	}
	if matchDoubleColon(c) {
		// Spec §4.4: the wildcard type is intentionally discarded here,
		// unlike in a projection field.
		_, err := expect(c, "invalid wildcard type specifier, expected TAG or FIELD", func(c *cursor) (struct{}, error) {
			if matchKeyword(c, "tag") || matchKeyword(c, "field") {
				return struct{}{}, nil
			}
			return struct{}{}, recoverable(c.mark(), "")
		})
		if err != nil {
			return nil, err
		}
	}
	return &WildcardDimension{}, nil
}

func parseRegexDimension(c *cursor) (Dimension, error) {
	start := c.mark()
	r, err := parseRegexLiteral(c)
	if err != nil {
		return nil, recoverable(start, "expected dimension")
	}
	return &RegexDimension{Pattern: r}, nil
}

func parseTagDimension(c *cursor) (Dimension, error) {
	start := c.mark()
	name, err := parseIdentifier(c)
	if err != nil {
		return nil, recoverable(start, "expected dimension")
	}
	return &TagDimension{Name: name}, nil
}

// time_call ::= "TIME" "(" interval_expr ( "," offset_expr )? ")"
func parseTimeDimension(c *cursor) (Dimension, error) {
	start := c.mark()
	if !matchKeyword(c, "TIME") {
		return nil, recoverable(start, "expected TIME call")
	}
	skipWS0(c)
	const argCountErr = "invalid TIME call, expected 1 or 2 arguments"
	if !matchRune(c, '(') {
		return nil, unrecoverable(start, argCountErr)
	}
	if err := c.enterRecursion(); err != nil {
		return nil, err
	}
	defer c.leaveRecursion()
	skipWS0(c)
	if matchRune(c, ')') {
		return nil, unrecoverable(start, argCountErr)
	}

	interval, err := expect(c, "invalid TIME call, expected duration", func(c *cursor) (Expr, error) {
		return parseArithmetic(c, timeIntervalOperand)
	})
	if err != nil {
		return nil, err
	}
	skipWS0(c)

	var offset Expr
	if matchRune(c, ',') {
		skipWS0(c)
		if matchRune(c, ')') {
			return nil, unrecoverable(start, argCountErr)
		}
		offset, err = expect(c, "invalid TIME call, expected ')'", func(c *cursor) (Expr, error) {
			return parseArithmetic(c, timeOffsetOperand)
		})
		if err != nil {
			return nil, err
		}
		skipWS0(c)
	}

	if !matchRune(c, ')') {
		skipWS0(c)
		if matchRune(c, ',') {
			return nil, unrecoverable(c.offset(), argCountErr)
		}
		return nil, unrecoverable(c.offset(), "invalid TIME call, expected ')'")
	}
	return &TimeDimension{Interval: interval, Offset: offset}, nil
}

// fill_clause ::= "FILL" "(" fill_option ")"
func parseFillClause(c *cursor) (FillOption, error) {
	start := c.mark()
	if !matchKeyword(c, "FILL") {
		return nil, recoverable(start, "expected FILL clause")
	}
	skipWS0(c)
	const errMsg = "invalid FILL option, expected NULL, NONE, PREVIOUS, LINEAR, or a number"
	if !matchRune(c, '(') {
		return nil, unrecoverable(start, errMsg)
	}
	skipWS0(c)
	opt, err := expect(c, errMsg, parseFillOptionValue)
	if err != nil {
		return nil, err
	}
	skipWS0(c)
	if !matchRune(c, ')') {
		return nil, unrecoverable(c.offset(), errMsg)
	}
	return opt, nil
}

func parseFillOptionValue(c *cursor) (FillOption, error) {
	return alt(c,
		func(c *cursor) (FillOption, error) {
			if matchKeyword(c, "NULL") {
				return FillNull{}, nil
			}
			return nil, recoverable(c.mark(), "")
		},
		func(c *cursor) (FillOption, error) {
			if matchKeyword(c, "NONE") {
				return FillNone{}, nil
			}
			return nil, recoverable(c.mark(), "")
		},
		func(c *cursor) (FillOption, error) {
			if matchKeyword(c, "PREVIOUS") {
				return FillPrevious{}, nil
			}
			return nil, recoverable(c.mark(), "")
		},
		func(c *cursor) (FillOption, error) {
			if matchKeyword(c, "LINEAR") {
				return FillLinear{}, nil
			}
			return nil, recoverable(c.mark(), "")
		},
		func(c *cursor) (FillOption, error) {
			n, err := parseSignedNumber(c)
			if err != nil {
				return nil, err
			}
			return FillValue{Value: n}, nil
		},
	)
}

// tz_clause ::= "TZ" "(" single_quoted_string ")"
func parseTZClause(c *cursor) (string, error) {
	start := c.mark()
	if !matchKeyword(c, "TZ") {
		return "", recoverable(start, "expected TZ clause")
	}
	skipWS0(c)
	const errMsg = "invalid TZ clause, expected string"
	if !matchRune(c, '(') {
		return "", unrecoverable(start, errMsg)
	}
	skipWS0(c)
	s, err := expect(c, errMsg, parseSingleQuotedString)
	if err != nil {
		return "", err
	}
	skipWS0(c)
	if !matchRune(c, ')') {
		return "", unrecoverable(c.offset(), errMsg)
	}
	return s, nil
}
