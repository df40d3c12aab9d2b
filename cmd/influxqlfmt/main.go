// Copyright (c) HashiCorp, Inc.
// SPDX-License-Identifier: MPL-2.0

// Command influxqlfmt parses a SELECT statement from a file (or stdin) and
// prints its canonical display form, or reports a parse error with its
// byte offset.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/influxdata/influxql"
)

var (
	logpath  = flag.String("log", "", "log to file")
	check    = flag.Bool("check", false, "only validate, do not print the formatted statement")
	maxDepth = flag.Int("max-depth", 0, "override the recursion-depth guard (0 uses the default)")
)

func main() {
	flag.Usage = printUsage
	flag.Parse()

	log.SetFlags(log.Ltime | log.Lmicroseconds)
	if *logpath != "" {
		logFile, err := os.Create(*logpath)
		if err != nil {
			exitWithError(err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
	} else {
		log.SetOutput(io.Discard)
	}

	text, err := readInput()
	if err != nil {
		exitWithError(err)
	}

	var opts []influxql.Option
	if *maxDepth > 0 {
		opts = append(opts, influxql.WithMaxDepth(*maxDepth))
	}

	stmt, err := influxql.ParseSelect(text, opts...)
	if err != nil {
		var pe *influxql.ParseError
		if errors.As(err, &pe) {
			log.Printf("parse error at offset %d: %s", pe.Offset, pe.Message)
		}
		exitWithError(err)
	}

	if *check {
		return
	}
	fmt.Println(influxql.Display(stmt))
}

func readInput() (string, error) {
	if flag.NArg() == 0 {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(flag.Arg(0))
	return string(b), err
}

func printUsage() {
	f := flag.CommandLine.Output()
	fmt.Fprintf(f, "Usage: %s [OPTIONS] [path]\n", os.Args[0])
	fmt.Fprintf(f, "Parses a SELECT statement from path, or stdin if omitted.\n")
	flag.PrintDefaults()
}

func exitWithError(err error) {
	fmt.Fprintf(os.Stderr, "%v\n", err)
	os.Exit(1)
}
