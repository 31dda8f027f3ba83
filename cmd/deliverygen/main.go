// Command deliverygen compiles a delivery-stream manifest into a template.
//
//	deliverygen -m streams.toml -o template.json --pretty
//	deliverygen -m streams.yaml --validate-only
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/joeydtaylor/steeze-firehose/pkg/manifest"
	"github.com/joeydtaylor/steeze-firehose/pkg/middleware/logger"
	"github.com/joeydtaylor/steeze-firehose/pkg/template"
	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

type options struct {
	manifest     string
	out          string
	description  string
	retention    int
	validateOnly bool
	pretty       bool
	verbose      bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("deliverygen", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	var o options
	fs.StringVarP(&o.manifest, "manifest", "m", "", "manifest file (.toml, .yaml, .yml or .json)")
	fs.StringVarP(&o.out, "out", "o", "-", "template output file; - for stdout")
	fs.StringVar(&o.description, "description", "", "template description when the manifest has none")
	fs.IntVar(&o.retention, "log-retention-days", template.DefaultLogRetentionDays, "retention for generated log groups")
	fs.BoolVar(&o.validateOnly, "validate-only", false, "validate the manifest and exit")
	fs.BoolVar(&o.pretty, "pretty", false, "indent the template")
	fs.BoolVarP(&o.verbose, "verbose", "v", false, "log generated resources")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return 0
		}
		return 2
	}
	if o.manifest == "" {
		fmt.Fprintln(stderr, "deliverygen: --manifest is required")
		fs.PrintDefaults()
		return 2
	}

	log := logger.NewConsole(o.verbose)
	defer func() { _ = log.Sync() }()

	cfg, err := manifest.LoadConfig(o.manifest)
	if err != nil {
		report(log, o.manifest, err)
		return 1
	}
	if o.validateOnly {
		log.Info("manifest valid", zap.String("path", o.manifest), zap.Int("streams", len(cfg.Streams)))
		return 0
	}

	c := template.New(
		template.WithDescription(o.description),
		template.WithLogRetentionDays(o.retention),
		template.WithLogger(log),
	)
	out, err := c.Render(cfg, o.pretty)
	if err != nil {
		report(log, o.manifest, err)
		return 1
	}
	out = append(out, '\n')

	if o.out == "-" {
		_, err = stdout.Write(out)
	} else {
		err = os.WriteFile(o.out, out, 0o644)
	}
	if err != nil {
		log.Error("write template", zap.String("path", o.out), zap.Error(err))
		return 1
	}
	log.Info("template written", zap.String("path", o.out), zap.Int("streams", len(cfg.Streams)))
	return 0
}

// report logs each violation on its own line so editors can jump to them.
func report(log *zap.Logger, path string, err error) {
	var ve *manifest.ValidationError
	if errors.As(err, &ve) {
		for _, v := range ve.Violations() {
			log.Error(v, zap.String("path", path))
		}
		return
	}
	log.Error("manifest rejected", zap.String("path", path), zap.Error(err))
}
