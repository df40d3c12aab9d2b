// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package influxql

// conditional_expr ::= conditional_or
// conditional_or   ::= conditional_and ( "OR" conditional_and )*
// conditional_and  ::= conditional_unary ( "AND" conditional_unary )*
// conditional_unary::= "NOT" conditional_unary | conditional_atom
// conditional_atom ::= "(" conditional_expr ")" | comparison
// comparison       ::= expr comparison_op expr

// parseConditionOperand parses an Expr leaf of a ConditionalExpression
// (FieldExpression's operand grammar), additionally enforcing the
// is_valid_now_call invariant from spec §3.
func parseConditionOperand(c *cursor) (Expr, error) {
	return verify(c, "invalid now() call, expected no arguments",
		func(c *cursor) (Expr, error) { return parseArithmetic(c, fieldOperand) },
		validateNowCalls)
}

func parseConditionalExpr(c *cursor) (ConditionalExpr, error) {
	return parseConditionalOr(c)
}

func parseConditionalOr(c *cursor) (ConditionalExpr, error) {
	lhs, err := parseConditionalAnd(c)
	if err != nil {
		return nil, err
	}
	for {
		save := c.mark()
		skipWS0(c)
		if !matchKeyword(c, "OR") {
			c.reset(save)
			return lhs, nil
		}
		skipWS0(c)
		rhs, err := expect(c, "invalid WHERE clause, expected expression", parseConditionalAnd)
		if err != nil {
			return nil, err
		}
		lhs = &LogicalExpr{LHS: lhs, Op: OR, RHS: rhs}
	}
}

func parseConditionalAnd(c *cursor) (ConditionalExpr, error) {
	lhs, err := parseConditionalUnary(c)
	if err != nil {
		return nil, err
	}
	for {
		save := c.mark()
		skipWS0(c)
		if !matchKeyword(c, "AND") {
			c.reset(save)
			return lhs, nil
		}
		skipWS0(c)
		rhs, err := expect(c, "invalid WHERE clause, expected expression", parseConditionalUnary)
		if err != nil {
			return nil, err
		}
		lhs = &LogicalExpr{LHS: lhs, Op: AND, RHS: rhs}
	}
}

func parseConditionalUnary(c *cursor) (ConditionalExpr, error) {
	save := c.mark()
	if matchKeyword(c, "NOT") {
		skipWS0(c)
		inner, err := expect(c, "invalid WHERE clause, expected expression", parseConditionalUnary)
		if err != nil {
			return nil, err
		}
		return &NotExpr{Expr: inner}, nil
	}
	c.reset(save)
	return parseConditionalAtom(c)
}

func parseConditionalAtom(c *cursor) (ConditionalExpr, error) {
	start := c.mark()
	if matchRune(c, '(') {
		if err := c.enterRecursion(); err != nil {
			return nil, err
		}
		defer c.leaveRecursion()
		skipWS0(c)
		inner, err := expect(c, "invalid WHERE clause, expected expression", parseConditionalOr)
		if err != nil {
			return nil, err
		}
		skipWS0(c)
		if !matchRune(c, ')') {
			return nil, unrecoverable(c.offset(), "expected ')'")
		}
		return &ParenExpr{Expr: inner}, nil
	}
	c.reset(start)
	return parseComparisonExpr(c)
}

var comparisonOps = []struct {
	text string
	op   ComparisonOp
}{
	{"!=", NEQ},
	{"<>", NEQ},
	{"<=", LTE},
	{">=", GTE},
	{"=~", EQREGEX},
	{"!~", NEQREGEX},
	{"=", EQ},
	{"<", LT},
	{">", GT},
}

func matchComparisonOp(c *cursor) (ComparisonOp, bool) {
	for _, cand := range comparisonOps {
		start := c.mark()
		n := len(cand.text)
		rest := c.rest()
		if len(rest) >= n && rest[:n] == cand.text {
			for i := 0; i < n; i++ {
				c.lx.Shift()
			}
			return cand.op, true
		}
		c.reset(start)
	}
	return 0, false
}

func parseComparisonExpr(c *cursor) (ConditionalExpr, error) {
	start := c.mark()
	lhs, err := parseConditionOperand(c)
	if err != nil {
		return nil, err
	}
	skipWS0(c)
	op, ok := matchComparisonOp(c)
	if !ok {
		c.reset(start)
		return nil, recoverable(start, "expected comparison operator")
	}
	skipWS0(c)
	rhs, err := expect(c, "invalid WHERE clause, expected expression", parseConditionOperand)
	if err != nil {
		return nil, err
	}
	return &ComparisonExpr{LHS: lhs, Op: op, RHS: rhs}, nil
}
