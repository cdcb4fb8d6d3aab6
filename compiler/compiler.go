// Package compiler runs the mapbuilder pipeline: records are loaded from Go
// packages, builders are generated for them, and the results are emitted
// next to the records.
package compiler

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/syssam/mapbuilder/compiler/gen"
	"github.com/syssam/mapbuilder/compiler/load"
)

// Options configures a generation run.
type Options struct {
	// Patterns are the package patterns to load. Defaults to ".".
	Patterns []string
	// Load configures the record loader.
	Load *load.Config
	// Gen configures the generator. Defaults to gen.NewConfig().
	Gen *gen.Config
	// Emitter receives the generated units. Defaults to gen.FileEmitter.
	Emitter gen.Emitter
}

func (o *Options) defaults() (*Options, error) {
	opts := *o
	if len(opts.Patterns) == 0 {
		opts.Patterns = []string{"."}
	}
	if opts.Gen == nil {
		cfg, err := gen.NewConfig()
		if err != nil {
			return nil, err
		}
		opts.Gen = cfg
	}
	lc := load.Config{}
	if opts.Load != nil {
		lc = *opts.Load
	}
	if lc.Logger == nil {
		lc.Logger = opts.Gen.Logger
	}
	if lc.BuildTag == "" {
		lc.BuildTag = opts.Gen.BuildTag
	}
	opts.Load = &lc
	if opts.Emitter == nil {
		opts.Emitter = gen.FileEmitter{}
	}
	return &opts, nil
}

// Generate loads the records matched by the options and writes their
// builders.
//
// A load failure aborts the run and is returned. Records that cannot be
// generated are listed in the report and skipped; the others are still
// written. Write failures are returned along with the report.
func Generate(ctx context.Context, o *Options) (*gen.Report, error) {
	if o == nil {
		o = &Options{}
	}
	opts, err := o.defaults()
	if err != nil {
		return nil, err
	}
	log := opts.Gen.Logger
	records, err := load.Load(ctx, opts.Load, opts.Patterns...)
	if err != nil {
		return nil, errors.Wrap(err, "load records")
	}
	log.Info("loaded records",
		zap.Int("count", len(records)),
		zap.String("patterns", strings.Join(opts.Patterns, " ")),
	)

	g := gen.NewGenerator(opts.Gen)
	report := g.GenerateAll(ctx, records)
	if err := g.Write(ctx, report.Units, opts.Emitter); err != nil {
		return report, errors.Wrap(err, "write builders")
	}
	log.Info("generation finished",
		zap.Int("generated", len(report.Units)),
		zap.Int("failed", len(report.Failures)),
	)
	return report, nil
}
