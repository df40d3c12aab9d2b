// Copyright (c) HashiCorp, Inc.

/*
Package influxql parses InfluxQL SELECT statements into a typed AST and
renders that AST back to its canonical textual form.

The grammar is a hand-written recursive-descent parser built from a small
generic combinator toolkit (see combinator.go): alt, opt, separatedList1,
expect and verify compose the way the spec's own BNF reads, rather than
hiding it behind a parser-generator or struct-tag DSL.

	stmt, err := influxql.ParseSelect(`SELECT mean(value) FROM cpu WHERE host = 'a' GROUP BY time(5m)`)
	if err != nil {
		var pe *influxql.ParseError
		if errors.As(err, &pe) {
			// pe.Offset and pe.Message pinpoint the failure.
		}
		return err
	}
	fmt.Println(influxql.Display(stmt))

Parsing is a pure function: no global state, no I/O, safe to call from any
number of goroutines concurrently.
*/
package influxql
