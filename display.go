// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

package influxql

import (
	"strconv"
	"strings"
)

// This file implements spec §4.5/§6's canonical Display layer: every AST
// node renders to a textual form that re-parses to a structurally equal
// AST. Grounded on the teacher's fmt.Sprintf-building String() methods
// (expr.go's comparisonExpr/logicalExpr), extended to the full node set and
// the normalisation rules (ASC elision, wildcard type discard in GROUP BY,
// escape tables) resolved from original_source/select.rs's Display impls.

// Display renders any AST node to its canonical textual form (spec §6's
// display operation), total over every node type defined in this package.
func Display(node any) string {
	if s, ok := node.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

func (s *SelectStatement) String() string {
	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(joinStringers(fieldsToStringers(s.Fields)))
	b.WriteString(" FROM ")
	b.WriteString(joinStringers(measurementsToStringers(s.From)))

	if s.Condition != nil {
		b.WriteString(" WHERE ")
		b.WriteString(s.Condition.String())
	}
	if len(s.GroupBy) > 0 {
		b.WriteString(" GROUP BY ")
		b.WriteString(joinStringers(dimensionsToStringers(s.GroupBy)))
	}
	if s.FillOption != nil {
		b.WriteString(" FILL(")
		b.WriteString(s.FillOption.String())
		b.WriteString(")")
	}
	// ORDER BY TIME ASC is the default and is never emitted (spec §4.5).
	if s.OrderBy != nil && *s.OrderBy == Desc {
		b.WriteString(" ORDER BY TIME DESC")
	}
	if s.Limit != nil {
		b.WriteString(" LIMIT ")
		b.WriteString(strconv.FormatUint(*s.Limit, 10))
	}
	if s.Offset != nil {
		b.WriteString(" OFFSET ")
		b.WriteString(strconv.FormatUint(*s.Offset, 10))
	}
	if s.SeriesLimit != nil {
		b.WriteString(" SLIMIT ")
		b.WriteString(strconv.FormatUint(*s.SeriesLimit, 10))
	}
	if s.SeriesOffset != nil {
		b.WriteString(" SOFFSET ")
		b.WriteString(strconv.FormatUint(*s.SeriesOffset, 10))
	}
	if s.Timezone != nil {
		b.WriteString(" TZ('")
		b.WriteString(escapeQuoted(*s.Timezone))
		b.WriteString("')")
	}
	return b.String()
}

func joinStringers(ss []string) string { return strings.Join(ss, ", ") }

func fieldsToStringers(fields []Field) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.String()
	}
	return out
}

func measurementsToStringers(ms []MeasurementSelection) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.String()
	}
	return out
}

func dimensionsToStringers(ds []Dimension) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.String()
	}
	return out
}

func (f Field) String() string {
	s := f.Expr.String()
	if f.Alias != nil {
		s += " AS " + quoteIdentifier(*f.Alias)
	}
	return s
}

func (m *MeasurementNameSelection) String() string { return m.Name.String() }

func (m *SubquerySelection) String() string { return "(" + m.Statement.String() + ")" }

func (q QualifiedMeasurementName) String() string {
	var b strings.Builder
	switch {
	case q.Database != nil && q.RetentionPolicy != nil:
		b.WriteString(quoteIdentifier(*q.Database))
		b.WriteString(".")
		b.WriteString(quoteIdentifier(*q.RetentionPolicy))
		b.WriteString(".")
	case q.Database != nil:
		b.WriteString(quoteIdentifier(*q.Database))
		b.WriteString("..")
	case q.RetentionPolicy != nil:
		b.WriteString(".")
		b.WriteString(quoteIdentifier(*q.RetentionPolicy))
		b.WriteString(".")
	}
	b.WriteString(q.Name.String())
	return b.String()
}

func (n MeasurementNameIdent) String() string { return quoteIdentifier(Identifier(n)) }

func (n MeasurementNameRegex) String() string { return quoteRegex(string(n)) }

func (d *TimeDimension) String() string {
	if d.Offset != nil {
		return "TIME(" + d.Interval.String() + ", " + d.Offset.String() + ")"
	}
	return "TIME(" + d.Interval.String() + ")"
}

func (d *TagDimension) String() string { return quoteIdentifier(d.Name) }

func (d *RegexDimension) String() string { return quoteRegex(d.Pattern) }

func (d *WildcardDimension) String() string { return "*" }

func (FillNull) String() string     { return "NULL" }
func (FillNone) String() string     { return "NONE" }
func (FillPrevious) String() string { return "PREVIOUS" }
func (FillLinear) String() string   { return "LINEAR" }
func (v FillValue) String() string  { return v.Value.String() }

var varRefDataTypeNames = map[VarRefDataType]string{
	Float:          "float",
	Integer:        "integer",
	Unsigned:       "unsigned",
	StringDataType: "string",
	Boolean:        "boolean",
	Tag:            "tag",
	FieldDataType:  "field",
}

var wildcardTypeNames = map[WildcardType]string{
	WildcardTag:   "tag",
	WildcardField: "field",
}

var binaryOpSymbols = map[BinaryOp]string{
	Add:    "+",
	Sub:    "-",
	Mul:    "*",
	Div:    "/",
	Mod:    "%",
	BitAnd: "&",
	BitOr:  "|",
	BitXor: "^",
}

var comparisonOpSymbols = map[ComparisonOp]string{
	EQ:       "=",
	NEQ:      "!=",
	LT:       "<",
	LTE:      "<=",
	GT:       ">",
	GTE:      ">=",
	EQREGEX:  "=~",
	NEQREGEX: "!~",
}

var logicalOpSymbols = map[LogicalOp]string{
	AND: "AND",
	OR:  "OR",
}

func (v *VarRef) String() string {
	s := quoteIdentifier(v.Name)
	if v.DataType != nil {
		s += "::" + varRefDataTypeNames[*v.DataType]
	}
	return s
}

func (b *BindParameterExpr) String() string { return "$" + quoteIdentifier(b.Name) }

func (l *LiteralExpr) String() string { return l.Value.String() }

func (w *WildcardExpr) String() string {
	if w.Type != nil {
		return "*::" + wildcardTypeNames[*w.Type]
	}
	return "*"
}

func (d *DistinctExpr) String() string { return "DISTINCT " + quoteIdentifier(d.Name) }

func (c *CallExpr) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return quoteIdentifier(c.Name) + "(" + strings.Join(args, ", ") + ")"
}

func (b *BinaryExpr) String() string {
	return b.LHS.String() + " " + binaryOpSymbols[b.Op] + " " + b.RHS.String()
}

func (n *NestedExpr) String() string { return "(" + n.Expr.String() + ")" }

func (l *LogicalExpr) String() string {
	return l.LHS.String() + " " + logicalOpSymbols[l.Op] + " " + l.RHS.String()
}

func (n *NotExpr) String() string { return "NOT " + n.Expr.String() }

func (c *ComparisonExpr) String() string {
	return c.LHS.String() + " " + comparisonOpSymbols[c.Op] + " " + c.RHS.String()
}

func (p *ParenExpr) String() string { return "(" + p.Expr.String() + ")" }

func (v IntegerLiteral) String() string { return strconv.FormatInt(int64(v), 10) }

// String keeps a whole-valued float recognisable as a float on re-parse:
// 2.0 renders as "2.0", not "2".
func (v FloatLiteral) String() string {
	s := strconv.FormatFloat(float64(v), 'g', -1, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

func (v StringLiteral) String() string { return "'" + escapeQuoted(string(v)) + "'" }

func (v BooleanLiteral) String() string {
	if v {
		return "true"
	}
	return "false"
}

func (v DurationLiteral) String() string { return Duration(v).String() }

func (v RegexLiteral) String() string { return quoteRegex(string(v)) }

// durationUnitOrder lists units from largest to smallest for greedy
// decomposition on display; matches the unit table parseDuration sums over.
var durationUnitOrder = []struct {
	unit  string
	nanos int64
}{
	{"w", 7 * 24 * 3600 * 1_000_000_000},
	{"d", 24 * 3600 * 1_000_000_000},
	{"h", 3600 * 1_000_000_000},
	{"m", 60 * 1_000_000_000},
	{"s", 1_000_000_000},
	{"ms", 1_000_000},
	{"u", 1000},
	{"ns", 1},
}

// String renders a Duration by greedily decomposing it from the largest
// unit down, carrying each remainder to the next smaller unit, e.g.
// 90000000000ns -> "1m30s".
func (d Duration) String() string {
	n := int64(d)
	if n == 0 {
		return "0s"
	}
	var b strings.Builder
	if n < 0 {
		b.WriteString("-")
		n = -n
	}
	for _, u := range durationUnitOrder {
		if n >= u.nanos {
			count := n / u.nanos
			b.WriteString(strconv.FormatInt(count, 10))
			b.WriteString(u.unit)
			n -= count * u.nanos
		}
	}
	return b.String()
}

// quoteIdentifier renders an Identifier bare if it matches the plain
// identifier grammar (spec §4.2) and is not a reserved keyword,
// double-quoted with escaping otherwise.
func quoteIdentifier(id Identifier) string {
	s := string(id)
	if isBareIdentifier(s) && !isReservedKeyword(s) {
		return s
	}
	var b strings.Builder
	b.WriteString(`"`)
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteString(`"`)
	return b.String()
}

func isBareIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 {
			if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || r == '_') {
				return false
			}
			continue
		}
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z' || '0' <= r && r <= '9' || r == '_') {
			return false
		}
	}
	return true
}

// escapeQuoted applies the single-quoted-string/TZ escape table from spec
// §4.2/§4.5: newline, backslash, single- and double-quote.
func escapeQuoted(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '\n':
			b.WriteString(`\n`)
		case '\\':
			b.WriteString(`\\`)
		case '\'':
			b.WriteString(`\'`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// quoteRegex wraps a regex pattern in /.../, re-escaping any literal '/'
// that parseRegexLiteral would otherwise treat as the terminator.
func quoteRegex(pattern string) string {
	var b strings.Builder
	b.WriteString("/")
	for _, r := range pattern {
		if r == '/' {
			b.WriteString(`\/`)
		} else {
			b.WriteRune(r)
		}
	}
	b.WriteString("/")
	return b.String()
}
