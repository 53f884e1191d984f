package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"log/slog"
	"os"
	"unicode"

	"github.com/arloliu/tagwire/wire"
	"github.com/spf13/pflag"
)

// commonFlags are shared by every subcommand.
type commonFlags struct {
	verbose   bool
	hex       bool
	maxDepth  int
	maxLength int
}

func (f *commonFlags) register(fs *pflag.FlagSet) {
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "log decoder diagnostics to stderr")
	fs.BoolVarP(&f.hex, "hex", "x", false, "read binary input and write binary output as hex (whitespace ignored)")
	fs.IntVar(&f.maxDepth, "max-depth", wire.DefaultMaxDepth, "maximum container nesting while decoding")
	fs.IntVar(&f.maxLength, "max-length", wire.DefaultMaxLength, "maximum length of a single bytes, string or container")
}

// logger returns a text logger on stderr; --verbose lowers the level to Debug.
func (f *commonFlags) logger(stderr io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if f.verbose {
		level = slog.LevelDebug
	}

	return slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
}

func (f *commonFlags) contextOptions(logger *slog.Logger) []wire.ContextOption {
	return []wire.ContextOption{
		wire.WithLogger(logger),
		wire.WithMaxDepth(f.maxDepth),
		wire.WithMaxLength(f.maxLength),
	}
}

// readInput reads the file named by the single optional argument, or stdin.
func readInput(e env, args []string, hexMode bool) ([]byte, error) {
	var (
		data []byte
		err  error
	)

	switch len(args) {
	case 0:
		data, err = io.ReadAll(e.stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	case 1:
		data, err = os.ReadFile(args[0])
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", args[0], err)
		}
	default:
		return nil, fmt.Errorf("expected at most one input file, got %d arguments", len(args))
	}

	if hexMode {
		return decodeHexInput(data)
	}

	return data, nil
}

// decodeHexInput strips whitespace and decodes hex digits.
func decodeHexInput(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}

		return r
	}, data)

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	n, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}

	return decoded[:n], nil
}

// writeOutput writes binary data, hex encoded when hexMode is set.
func writeOutput(w io.Writer, data []byte, hexMode bool) error {
	if !hexMode {
		_, err := w.Write(data)
		return err
	}

	_, err := fmt.Fprintln(w, hex.EncodeToString(data))

	return err
}
