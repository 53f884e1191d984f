package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"
)

type command struct {
	name     string
	summary  string
	usage    string
	flags    func() *pflag.FlagSet
	run      func(args []string) error
	subs     []*command
	helpOut  io.Writer
}

func (c *command) execute(args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.printHelp()
		return nil
	}

	if len(c.subs) > 0 {
		if len(args) == 0 {
			c.printHelp()
			return fmt.Errorf("subcommand required")
		}
		for _, sub := range c.subs {
			if sub.name == args[0] {
				return sub.execute(args[1:])
			}
		}

		return fmt.Errorf("unknown command %q\n\nRun '%s --help' for usage.", args[0], c.name)
	}

	if c.flags != nil {
		fs := c.flags()
		fs.SetOutput(io.Discard)
		if err := fs.Parse(args); err != nil {
			if errors.Is(err, pflag.ErrHelp) {
				c.printHelp()
				return nil
			}

			return fmt.Errorf("%w\n\nRun 'tagwire %s --help' for usage.", err, c.name)
		}
		args = fs.Args()
	}

	return c.run(args)
}

func (c *command) printHelp() {
	w := c.helpOut
	fmt.Fprintf(w, "%s\n\nUsage:\n  %s\n", c.summary, c.usage)

	if len(c.subs) > 0 {
		fmt.Fprintf(w, "\nCommands:\n")
		for _, sub := range c.subs {
			fmt.Fprintf(w, "  %-8s %s\n", sub.name, sub.summary)
		}
	}

	if c.flags != nil {
		fmt.Fprintf(w, "\nFlags:\n%s", c.flags().FlagUsages())
	}
}

func isHelpFlag(arg string) bool {
	switch strings.TrimLeft(arg, "-") {
	case "h", "help":
		return true
	default:
		return false
	}
}

func rootCommand(e env) *command {
	return &command{
		name:    "tagwire",
		summary: "Inspect and produce tagwire self-describing data",
		usage:   "tagwire <command> [flags] [file]",
		subs: []*command{
			dumpCommand(e),
			encodeCommand(e),
		},
		helpOut: e.stderr,
	}
}
