package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	konghcl "github.com/alecthomas/kong-hcl/v2"
	log "github.com/sirupsen/logrus"
	"github.com/squareup/pgrow/common"
	"github.com/squareup/pgrow/conf"
	"github.com/squareup/pgrow/errors"
	plog "github.com/squareup/pgrow/log"
	"github.com/squareup/pgrow/metrics"
	"github.com/squareup/pgrow/metrics/prometheus"
)

type arguments struct {
	Config      kong.ConfigFlag `help:"Path to config file" type:"existingfile"`
	Log         plog.Config     `help:"Configuration for the logger" embed:"" prefix:"log-"`
	Client      conf.Config     `help:"Client configuration" embed:"" prefix:""`
	Columns     string          `help:"Column descriptor, for example 'id int4, name text'" required:""`
	Format      string          `help:"Encoding of the tuples, text or binary. Defaults to default-format"`
	Get         []string        `help:"Column to print, by position or name. All columns are printed if omitted"`
	Interactive bool            `help:"Read tuples from an interactive shell"`
	VI          bool            `help:"Enable VI mode in the shell."`
	Tuples      []string        `arg:"" optional:"" help:"Hex encoded tuples. Read from stdin if omitted"`
}

func main() {
	defer func() {
		if r := recover(); r != nil {
			err := common.LogInternalError(errors.Errorf("panic: %v", r))
			_, _ = fmt.Fprintln(os.Stderr, err.Error())
			os.Exit(1)
		}
	}()
	if err := run(os.Args[1:], os.Stdin, os.Stdout); err != nil {
		log.Fatal(err)
	}
}

func run(args []string, in io.Reader, out io.Writer) error {
	cfg, err := parseArgs(args)
	if err != nil {
		return err
	}
	if err := cfg.Log.Configure(); err != nil {
		return err
	}
	format := cfg.Client.Format()
	if cfg.Format != "" {
		f, ok := common.ParseFormat(cfg.Format)
		if !ok {
			return errors.NewInvalidConfigurationError("format must be either text or binary")
		}
		format = f
	}

	factory := metrics.NewNoopFactory()
	if cfg.Client.MetricsEnabled {
		factory = prometheus.NewFactory(cfg.Client.MetricsListenAddr)
	}
	if err := factory.Start(); err != nil {
		return err
	}
	defer func() {
		if err := factory.Stop(); err != nil {
			log.Warnf("failed to stop metrics server %v", err)
		}
	}()

	dec, err := newDecoder(cfg.Columns, format, cfg.Get, factory)
	if err != nil {
		return err
	}
	log.Debugf("decoding %s tuples with columns %v", format, dec.columns)
	if cfg.Interactive {
		return runShell(dec, out, cfg.Client.MaxLineWidth, cfg.VI)
	}
	return decodeAll(dec, cfg, in, out)
}

func parseArgs(args []string) (*arguments, error) {
	cfg := &arguments{}
	parser, err := kong.New(cfg, kong.Configuration(konghcl.Loader))
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if _, err := parser.Parse(args); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := cfg.Client.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeAll prints every tuple given as an argument, or every non-empty stdin line when there are
// none. It stops at the first tuple that fails to decode.
func decodeAll(dec *decoder, cfg *arguments, in io.Reader, out io.Writer) error {
	p := newPrinter(out, dec.outCols, cfg.Client.MaxLineWidth)
	handle := func(n int, tuple string) error {
		values, err := dec.decodeTuple(tuple)
		if err != nil {
			return errors.Wrapf(err, "tuple %d", n)
		}
		p.printRow(values)
		return nil
	}
	if len(cfg.Tuples) > 0 {
		for i, tuple := range cfg.Tuples {
			if err := handle(i+1, tuple); err != nil {
				return err
			}
		}
		p.finish()
		return nil
	}
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	n := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		n++
		if err := handle(n, line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return errors.WithStack(err)
	}
	p.finish()
	return nil
}
