// Command tagwire inspects and produces tagwire data.
//
//	tagwire dump [--framed] [--format text|json|yaml|cbor|diag|msgpack] [--skip-check] [file]
//	tagwire encode [--from json|yaml|cbor|msgpack] [--framed] [--compression zstd] [file]
//
// Input is read from the trailing file argument or stdin.
package main

import (
	"fmt"
	"io"
	"os"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// env carries the process streams so commands can be driven from tests.
type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	e := env{stdin: stdin, stdout: stdout, stderr: stderr}

	return rootCommand(e).execute(args)
}
