// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package influxql

// This file holds the clauses shared across statements (spec §4.4's
// "Common clauses" component): WHERE, ORDER BY, LIMIT/OFFSET/SLIMIT/SOFFSET,
// and the qualified measurement name grammar resolved from original_source
// (spec §9 Open Question (a), recorded in DESIGN.md).

// parseWhereClause parses `WHERE <condition>`.
func parseWhereClause(c *cursor) (ConditionalExpr, error) {
	start := c.mark()
	if !matchKeyword(c, "WHERE") {
		return nil, recoverable(start, "expected WHERE clause")
	}
	skipWS0(c)
	return expect(c, "invalid WHERE clause, expected expression", parseConditionalExpr)
}

// parseOrderByClause parses `ORDER BY (TIME)? (ASC|DESC)`; the direction
// keyword is required. Per spec §4.4's tie-break, ASC is the default and is
// reported back as nil so display.go can elide it.
func parseOrderByClause(c *cursor) (*OrderDirection, error) {
	start := c.mark()
	if !matchKeyword(c, "ORDER") {
		return nil, recoverable(start, "expected ORDER BY clause")
	}
	skipWS0(c)
	if _, err := expect(c, "invalid ORDER BY clause, expected BY", parseKeyword("BY")); err != nil {
		return nil, err
	}
	skipWS0(c)
	matchKeyword(c, "TIME")
	skipWS0(c)
	dir, err := expect(c, "invalid ORDER BY clause, expected ASC or DESC", func(c *cursor) (OrderDirection, error) {
		if matchKeyword(c, "DESC") {
			return Desc, nil
		}
		if matchKeyword(c, "ASC") {
			return Asc, nil
		}
		return 0, recoverable(c.mark(), "")
	})
	if err != nil {
		return nil, err
	}
	if dir == Asc {
		return nil, nil
	}
	d := Desc
	return &d, nil
}

// parseUnsignedClause parses `<keyword> <unsigned integer>`, used for
// LIMIT/OFFSET/SLIMIT/SOFFSET.
func parseUnsignedClause(c *cursor, keyword, errMsg string) (*uint64, error) {
	start := c.mark()
	if !matchKeyword(c, keyword) {
		return nil, recoverable(start, "expected "+keyword+" clause")
	}
	skipWS0(c)
	v, err := expect(c, errMsg, parseUnsignedInteger)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// parseDBRPPrefix parses the optional database/retention-policy prefix of
// a qualified measurement name:
//
//	<db> "." [ <rp> ] "."   |   "." <rp> "."
func parseDBRPPrefix(c *cursor) (db, rp *Identifier) {
	save := c.mark()

	if matchRune(c, '.') {
		if rpIdent, err := parseIdentifier(c); err == nil && matchRune(c, '.') {
			return nil, &rpIdent
		}
		c.reset(save)
	}

	id1, err := parseIdentifier(c)
	if err != nil {
		c.reset(save)
		return nil, nil
	}
	if !matchRune(c, '.') {
		c.reset(save)
		return nil, nil
	}
	db1 := id1
	mark := c.mark()
	if id2, err := parseIdentifier(c); err == nil && matchRune(c, '.') {
		rp1 := id2
		return &db1, &rp1
	}
	c.reset(mark)
	if !matchRune(c, '.') {
		c.reset(save)
		return nil, nil
	}
	return &db1, nil
}

// parseQualifiedMeasurementName parses an optionally database- and
// retention-policy-qualified measurement reference, or a regex in that
// slot (spec GLOSSARY "Qualified measurement name").
func parseQualifiedMeasurementName(c *cursor) (QualifiedMeasurementName, error) {
	start := c.mark()
	db, rp := parseDBRPPrefix(c)

	name, err := alt(c,
		func(c *cursor) (MeasurementNameExpr, error) {
			id, err := parseIdentifier(c)
			if err != nil {
				return nil, err
			}
			return MeasurementNameIdent(id), nil
		},
		func(c *cursor) (MeasurementNameExpr, error) {
			r, err := parseRegexLiteral(c)
			if err != nil {
				return nil, err
			}
			return MeasurementNameRegex(r), nil
		},
	)
	if err != nil {
		c.reset(start)
		return QualifiedMeasurementName{}, err
	}
	return QualifiedMeasurementName{Database: db, RetentionPolicy: rp, Name: name}, nil
}
