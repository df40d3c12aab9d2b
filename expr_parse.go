// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package influxql

import "strings"

// This file implements the arithmetic expression engine from spec §4.3: a
// Pratt-style precedence climber parameterised on a pluggable operand
// grammar, exactly the "pass a function value" design note from spec §9.
// The climber itself (parseArithmetic/parseBinaryRHS) is generic over which
// operand function is supplied; three concrete operand grammars
// (fieldOperand, timeIntervalOperand, timeOffsetOperand) are defined below
// and plugged in by condition.go/select.go.

// binaryOpInfo pairs an operator rune's BinaryOp with its
// precedence (spec §4.3: 1 lowest .. 5 highest of the binary tier; unary
// minus is 6, call/atom is 7).
type binaryOpInfo struct {
	op   BinaryOp
	prec int
}

var singleRuneBinaryOps = map[rune]binaryOpInfo{
	'|': {BitOr, 1},
	'^': {BitXor, 2},
	'&': {BitAnd, 3},
	'+': {Add, 4},
	'-': {Sub, 4},
	'*': {Mul, 5},
	'/': {Div, 5},
	'%': {Mod, 5},
}

// peekBinaryOp reports the operator at the cursor, if any, without
// consuming it.
func peekBinaryOp(c *cursor) (BinaryOp, int, bool) {
	info, ok := singleRuneBinaryOps[c.lx.Peek()]
	if !ok {
		return 0, 0, false
	}
	return info.op, info.prec, true
}

func consumeBinaryOp(c *cursor) { c.lx.Shift() }

// parseArithmetic parses a full arithmetic expression: one atom via operand,
// followed by zero or more (binary-op, atom) pairs, left-associative,
// respecting precedence (spec §4.3).
func parseArithmetic(c *cursor, operand parseFn[Expr]) (Expr, error) {
	lhs, err := operand(c)
	if err != nil {
		return nil, err
	}
	return parseBinaryRHS(c, operand, lhs, 0)
}

func parseBinaryRHS(c *cursor, operand parseFn[Expr], lhs Expr, minPrec int) (Expr, error) {
	for {
		save := c.mark()
		skipWS0(c)
		op, prec, ok := peekBinaryOp(c)
		if !ok || prec < minPrec {
			c.reset(save)
			return lhs, nil
		}
		consumeBinaryOp(c)
		skipWS0(c)
		rhs, err := operand(c)
		if err != nil {
			return nil, err
		}
		for {
			save2 := c.mark()
			skipWS0(c)
			_, nextPrec, ok2 := peekBinaryOp(c)
			c.reset(save2)
			if !ok2 || nextPrec <= prec {
				break
			}
			rhs, err = parseBinaryRHS(c, operand, rhs, prec+1)
			if err != nil {
				return nil, err
			}
		}
		lhs = &BinaryExpr{LHS: lhs, Op: op, RHS: rhs}
	}
}

// withUnaryMinus wraps an atom parser so that a leading '-' negates a
// numeric literal atom. Spec §4.2: the sign is part of the arithmetic
// grammar, not the number lexeme (FILL's signed number is the one
// exception, handled separately in lex.go).
func withUnaryMinus(atom parseFn[Expr]) parseFn[Expr] {
	return func(c *cursor) (Expr, error) {
		start := c.mark()
		if !matchRune(c, '-') {
			return atom(c)
		}
		skipWS0(c)
		inner, err := atom(c)
		if err != nil {
			if f, ok := asFailure(err); ok && f.Recoverable {
				return nil, unrecoverable(start, "expected number")
			}
			return nil, err
		}
		negated, ok := negateExpr(inner)
		if !ok {
			return nil, unrecoverable(start, "expected number")
		}
		return negated, nil
	}
}

func negateExpr(e Expr) (Expr, bool) {
	le, ok := e.(*LiteralExpr)
	if !ok {
		return nil, false
	}
	switch v := le.Value.(type) {
	case IntegerLiteral:
		return &LiteralExpr{Value: IntegerLiteral(-v)}, true
	case FloatLiteral:
		return &LiteralExpr{Value: FloatLiteral(-v)}, true
	case DurationLiteral:
		return &LiteralExpr{Value: DurationLiteral(-v)}, true
	default:
		return nil, false
	}
}

func matchDoubleColon(c *cursor) bool {
	start := c.mark()
	if matchRune(c, ':') && matchRune(c, ':') {
		return true
	}
	c.reset(start)
	return false
}

var varRefDataTypes = []struct {
	name string
	typ  VarRefDataType
}{
	{"unsigned", Unsigned},
	{"float", Float},
	{"integer", Integer},
	{"string", StringDataType},
	{"boolean", Boolean},
	{"tag", Tag},
	{"field", FieldDataType},
}

// parseVarRefSuffix parses an optional `::<type>` suffix.
func parseVarRefSuffix(c *cursor) *VarRefDataType {
	if !matchDoubleColon(c) {
		return nil
	}
	for _, cand := range varRefDataTypes {
		if matchKeyword(c, cand.name) {
			dt := cand.typ
			return &dt
		}
	}
	return nil
}

// parseWildcardExpr parses `*`, optionally typed via `::tag`/`::field`
// (spec §4.4 error catalogue: wrong type specifier is a hard error).
func parseWildcardExpr(c *cursor) (Expr, error) {
	start := c.mark()
	if !matchRune(c, '*') {
		return nil, recoverable(start, "expected wildcard")
	}
	save := c.mark()
	if !matchDoubleColon(c) {
		return &WildcardExpr{}, nil
	}
	wt, err := expect(c, "invalid wildcard type specifier, expected TAG or FIELD", func(c *cursor) (WildcardType, error) {
		return alt(c,
			func(c *cursor) (WildcardType, error) {
				s := c.mark()
				if matchKeyword(c, "tag") {
					return WildcardTag, nil
				}
				return 0, recoverable(s, "")
			},
			func(c *cursor) (WildcardType, error) {
				s := c.mark()
				if matchKeyword(c, "field") {
					return WildcardField, nil
				}
				return 0, recoverable(s, "")
			},
		)
	})
	if err != nil {
		c.reset(save)
		return nil, err
	}
	return &WildcardExpr{Type: &wt}, nil
}

// parseDistinctExpr parses `DISTINCT <identifier>`.
func parseDistinctExpr(c *cursor) (Expr, error) {
	start := c.mark()
	if !matchKeyword(c, "DISTINCT") {
		return nil, recoverable(start, "expected DISTINCT")
	}
	skipWS0(c)
	name, err := expect(c, "invalid DISTINCT expression, expected identifier", parseIdentifier)
	if err != nil {
		return nil, err
	}
	return &DistinctExpr{Name: name}, nil
}

func literalAsFieldExpr(c *cursor) (Expr, error) {
	lit, err := parseLiteral(c)
	if err != nil {
		return nil, err
	}
	return &LiteralExpr{Value: lit}, nil
}

func bindParamAsExpr(c *cursor) (Expr, error) {
	name, err := parseBindParameter(c)
	if err != nil {
		return nil, err
	}
	return &BindParameterExpr{Name: name}, nil
}

// isValidNowCall is the predicate from spec §3/§9: `now()` is valid only
// with zero arguments.
func isValidNowCall(e Expr) bool {
	ce, ok := e.(*CallExpr)
	if !ok {
		return false
	}
	return strings.EqualFold(string(ce.Name), "now") && len(ce.Args) == 0
}

// validateNowCalls walks an Expr tree and rejects any call named `now` that
// does not have exactly zero arguments. Other call names are left alone
// (spec §3: "other calls are syntactically permitted; semantic validation
// is external").
func validateNowCalls(e Expr) bool {
	switch v := e.(type) {
	case *CallExpr:
		if strings.EqualFold(string(v.Name), "now") && len(v.Args) != 0 {
			return false
		}
		for _, a := range v.Args {
			if !validateNowCalls(a) {
				return false
			}
		}
		return true
	case *BinaryExpr:
		return validateNowCalls(v.LHS) && validateNowCalls(v.RHS)
	case *NestedExpr:
		return validateNowCalls(v.Expr)
	default:
		return true
	}
}

// parseCallOrVarRef parses `identifier` optionally followed by `(args)`,
// yielding a CallExpr or a VarRef (with optional `::type` suffix). args use
// the operand grammar passed in, recursively, per spec §4.3.
func parseCallOrVarRef(c *cursor, operand parseFn[Expr]) (Expr, error) {
	name, err := parseIdentifier(c)
	if err != nil {
		return nil, err
	}
	save := c.mark()
	skipWS0(c)
	if matchRune(c, '(') {
		if err := c.enterRecursion(); err != nil {
			return nil, err
		}
		defer c.leaveRecursion()
		args, err := parseCallArgs(c, operand)
		if err != nil {
			return nil, err
		}
		return &CallExpr{Name: name, Args: args}, nil
	}
	c.reset(save)
	dt := parseVarRefSuffix(c)
	return &VarRef{Name: name, DataType: dt}, nil
}

func parseCallArgs(c *cursor, operand parseFn[Expr]) ([]Expr, error) {
	skipWS0(c)
	if matchRune(c, ')') {
		return nil, nil
	}
	args, err := separatedList1(c, func(c *cursor) (Expr, error) {
		return parseArithmetic(c, operand)
	}, "expected call argument")
	if err != nil {
		return nil, err
	}
	skipWS0(c)
	if !matchRune(c, ')') {
		return nil, unrecoverable(c.offset(), "expected ')'")
	}
	return args, nil
}

// parseNestedExpr parses a parenthesised arithmetic sub-expression,
// preserved for display as NestedExpr.
func parseNestedExpr(c *cursor, operand parseFn[Expr]) (Expr, error) {
	start := c.mark()
	if !matchRune(c, '(') {
		return nil, recoverable(start, "expected '('")
	}
	if err := c.enterRecursion(); err != nil {
		return nil, err
	}
	defer c.leaveRecursion()
	skipWS0(c)
	inner, err := parseArithmetic(c, operand)
	if err != nil {
		return nil, err
	}
	skipWS0(c)
	if !matchRune(c, ')') {
		return nil, unrecoverable(c.offset(), "expected ')'")
	}
	return &NestedExpr{Expr: inner}, nil
}

// fieldAtom is the FieldExpression operand grammar's atom (spec §4.3):
// DISTINCT ident | wildcard | literal | nested | call/var-ref | bind param.
func fieldAtom(c *cursor) (Expr, error) {
	return alt(c,
		parseDistinctExpr,
		parseWildcardExpr,
		literalAsFieldExpr,
		func(c *cursor) (Expr, error) { return parseNestedExpr(c, fieldOperand) },
		func(c *cursor) (Expr, error) { return parseCallOrVarRef(c, fieldOperand) },
		bindParamAsExpr,
	)
}

// fieldOperand is the full FieldExpression operand grammar, including the
// unary-minus tier.
func fieldOperand(c *cursor) (Expr, error) {
	return withUnaryMinus(fieldAtom)(c)
}

// timeIntervalAtom is the TimeCallIntervalArgument operand grammar: duration
// literals only (spec §4.3).
func timeIntervalAtom(c *cursor) (Expr, error) {
	start := c.mark()
	d, err := parseDuration(c)
	if err != nil {
		return nil, recoverable(start, "expected duration")
	}
	return &LiteralExpr{Value: DurationLiteral(d)}, nil
}

func timeIntervalOperand(c *cursor) (Expr, error) {
	return withUnaryMinus(timeIntervalAtom)(c)
}

// timeOffsetAtom is the TimeCallOffsetArgument operand grammar: now() |
// duration | single-quoted string (spec §4.3).
func timeOffsetAtom(c *cursor) (Expr, error) {
	return alt(c,
		func(c *cursor) (Expr, error) {
			return verify(c, "invalid TIME call, expected ')'",
				func(c *cursor) (Expr, error) { return parseCallOrVarRef(c, fieldOperand) },
				isValidNowCall)
		},
		func(c *cursor) (Expr, error) {
			start := c.mark()
			d, err := parseDuration(c)
			if err != nil {
				return nil, recoverable(start, "expected duration")
			}
			return &LiteralExpr{Value: DurationLiteral(d)}, nil
		},
		func(c *cursor) (Expr, error) {
			start := c.mark()
			s, err := parseSingleQuotedString(c)
			if err != nil {
				return nil, recoverable(start, "expected string")
			}
			return &LiteralExpr{Value: StringLiteral(s)}, nil
		},
	)
}

func timeOffsetOperand(c *cursor) (Expr, error) {
	return withUnaryMinus(timeOffsetAtom)(c)
}
