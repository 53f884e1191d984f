package main

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/arloliu/tagwire/descriptive"
	"github.com/arloliu/tagwire/frame"
	"github.com/arloliu/tagwire/transcode"
	"github.com/arloliu/tagwire/value"
	"github.com/arloliu/tagwire/wire"
	"github.com/spf13/pflag"
)

type dumpParams struct {
	commonFlags
	framed    bool
	format    string
	skipCheck bool
}

func dumpCommand(e env) *command {
	var p dumpParams

	return &command{
		name:    "dump",
		summary: "Decode tagwire data and print it as text, JSON, YAML, CBOR or MessagePack",
		usage:   "tagwire dump [--framed] [--format text|json|yaml|cbor|diag|msgpack] [--skip-check] [file]",
		flags: func() *pflag.FlagSet {
			p = dumpParams{}
			fs := pflag.NewFlagSet("dump", pflag.ContinueOnError)
			p.register(fs)
			fs.BoolVar(&p.framed, "framed", false, "input is a frame envelope")
			fs.StringVarP(&p.format, "format", "f", "text", "output format: text, json, yaml, cbor, diag or msgpack")
			fs.BoolVar(&p.skipCheck, "skip-check", false, "skip every value with the schema-less skipper before decoding")

			return fs
		},
		run: func(args []string) error {
			return runDump(e, &p, args)
		},
		helpOut: e.stderr,
	}
}

func runDump(e env, p *dumpParams, args []string) error {
	outFormat, err := transcode.ParseFormat(p.format)
	if err != nil {
		return err
	}

	data, err := readInput(e, args, p.hex)
	if err != nil {
		return err
	}

	logger := p.logger(e.stderr)
	opts := p.contextOptions(logger)

	payload := data
	if p.framed {
		h, raw, err := frame.Decode(data)
		if err != nil {
			return fmt.Errorf("unwrap frame: %w", err)
		}
		stats := h.Stats()
		logger.Info("frame header",
			slog.String("compression", h.Compression.String()),
			slog.Bool("checksum", h.HasChecksum()),
			slog.Int("raw_len", h.RawLen),
			slog.Int("body_len", h.BodyLen),
			slog.Float64("space_savings_pct", stats.SpaceSavings()),
		)
		payload = raw
	}

	if p.skipCheck {
		n, err := skipCheck(payload, opts, logger)
		if err != nil {
			return fmt.Errorf("skip check: %w", err)
		}
		logger.Info("skip check passed", slog.Int("values", n), slog.Int("bytes", len(payload)))
	}

	s, err := descriptive.NewStream(wire.NewSliceReader(payload), opts...)
	if err != nil {
		return err
	}
	values, err := value.DecodeAll(s)
	if err != nil {
		return fmt.Errorf("decode value %d: %w", len(values), err)
	}

	if !outFormat.Binary() || !p.hex {
		return transcode.Render(e.stdout, outFormat, values...)
	}

	var buf bytes.Buffer
	if err := transcode.Render(&buf, outFormat, values...); err != nil {
		return err
	}

	return writeOutput(e.stdout, buf.Bytes(), true)
}

// skipCheck walks payload with the schema-less skipper and returns the number
// of top-level values. It fails if any value is truncated or malformed at the
// tag level.
func skipCheck(payload []byte, opts []wire.ContextOption, logger *slog.Logger) (int, error) {
	r := wire.NewSliceReader(payload)
	s, err := descriptive.NewStream(r, opts...)
	if err != nil {
		return 0, err
	}

	for {
		start := r.Offset()
		d, ok, err := s.Next()
		if err != nil {
			return s.Count(), err
		}
		if !ok {
			return s.Count(), nil
		}
		if err := d.Skip(); err != nil {
			return s.Count(), err
		}
		logger.Debug("skipped value", slog.Int("index", s.Count()-1), slog.Int("offset", start), slog.Int("size", r.Offset()-start))
	}
}
