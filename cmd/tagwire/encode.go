package main

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/arloliu/tagwire/descriptive"
	"github.com/arloliu/tagwire/format"
	"github.com/arloliu/tagwire/frame"
	"github.com/arloliu/tagwire/transcode"
	"github.com/arloliu/tagwire/value"
	"github.com/spf13/pflag"
)

type encodeParams struct {
	commonFlags
	from        string
	framed      bool
	compression string
	noChecksum  bool
}

func encodeCommand(e env) *command {
	var p encodeParams

	return &command{
		name:    "encode",
		summary: "Convert JSON (with comments), YAML, CBOR or MessagePack into tagwire data",
		usage:   "tagwire encode [--from json|yaml|cbor|msgpack] [--framed] [--compression none|zstd|s2|lz4] [file]",
		flags: func() *pflag.FlagSet {
			p = encodeParams{}
			fs := pflag.NewFlagSet("encode", pflag.ContinueOnError)
			p.register(fs)
			fs.StringVarP(&p.from, "from", "i", "json", "input format: json, yaml, cbor or msgpack")
			fs.BoolVar(&p.framed, "framed", false, "wrap the output in a frame envelope")
			fs.StringVarP(&p.compression, "compression", "c", "none", "frame compression: none, zstd, s2 or lz4 (implies --framed)")
			fs.BoolVar(&p.noChecksum, "no-checksum", false, "omit the frame checksum")

			return fs
		},
		run: func(args []string) error {
			return runEncode(e, &p, args)
		},
		helpOut: e.stderr,
	}
}

func runEncode(e env, p *encodeParams, args []string) error {
	inFormat, err := transcode.ParseFormat(p.from)
	if err != nil {
		return err
	}
	ct, ok := format.ParseCompressionType(p.compression)
	if !ok {
		return fmt.Errorf("unknown compression %q", p.compression)
	}

	data, err := readInput(e, args, p.hex && inFormat.Binary())
	if err != nil {
		return err
	}

	values, err := transcode.Parse(inFormat, data)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("empty input: expected %s data", inFormat)
	}

	logger := p.logger(e.stderr)

	enc := descriptive.NewEncoder()
	defer enc.Release()
	for i, v := range values {
		if err := value.Encode(enc, v); err != nil {
			return fmt.Errorf("encode value %d: %w", i, err)
		}
	}
	out := bytes.Clone(enc.Bytes())
	logger.Debug("encoded payload", slog.Int("values", len(values)), slog.Int("bytes", len(out)))

	if p.framed || ct != format.CompressionNone {
		out, err = frame.Encode(out, frame.WithCompression(ct), frame.WithChecksum(!p.noChecksum))
		if err != nil {
			return err
		}
		logger.Debug("framed payload", slog.String("compression", ct.String()), slog.Int("bytes", len(out)))
	}

	return writeOutput(e.stdout, out, p.hex)
}
