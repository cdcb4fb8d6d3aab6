package main

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/syssam/mapbuilder/compiler"
	"github.com/syssam/mapbuilder/compiler/gen"
)

// flags shared by all commands.
type flags struct {
	config   string
	types    []string
	keyStyle string
	suffix   string
	workers  int
	jsonLog  bool
	verbose  bool
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:   "mapbuilder",
		Short: "Generate map-backed builders for Go record types",
		Long: `Generate map-backed builders for Go record types.

A record is a struct type whose declaration carries the //mapbuilder:record
directive, or that is named with --type. For a record User the generated
user_builder.go holds a UserBuilder storing field values by key, and a Build
method that checks them against the declared field types.

Settings are read from mapbuilder.yaml when present; flags take precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.StringVarP(&f.config, "config", "c", "", "Configuration file (default: "+compiler.DefaultConfigFile+" if present)")
	pf.StringSliceVarP(&f.types, "type", "t", nil, "Record type names, overriding the //mapbuilder:record directive")
	pf.StringVar(&f.keyStyle, "key-style", "", "Key style for untagged fields: snake, camel or field")
	pf.StringVar(&f.suffix, "suffix", "", "Builder type name suffix (default: "+gen.DefaultBuilderSuffix+")")
	pf.IntVarP(&f.workers, "workers", "w", 0, "Number of parallel workers (default: GOMAXPROCS)")
	pf.BoolVar(&f.jsonLog, "json-log", false, "Log as JSON")
	pf.BoolVarP(&f.verbose, "verbose", "v", false, "Log debug output")

	root.AddCommand(newGenerateCmd(f), newWatchCmd(f))
	return root
}

// options merges the configuration file, the flags and the patterns.
func (f *flags) options(cmd *cobra.Command, patterns []string, logger *zap.Logger) (*compiler.Options, error) {
	cfg, err := compiler.LoadConfigFile(f.config)
	if err != nil {
		return nil, err
	}
	pf := cmd.Flags()
	if pf.Changed("type") {
		cfg.Types = f.types
	}
	if pf.Changed("key-style") {
		cfg.KeyStyle = f.keyStyle
	}
	if pf.Changed("suffix") {
		cfg.BuilderSuffix = f.suffix
	}
	if pf.Changed("workers") {
		if f.workers <= 0 {
			return nil, errors.Newf("--workers must be positive, got %d", f.workers)
		}
		cfg.Workers = f.workers
	}
	if len(patterns) > 0 {
		cfg.Patterns = patterns
	}
	return cfg.Options("", logger)
}

// newLogger builds the command logger writing to w.
func (f *flags) newLogger(w io.Writer) *zap.Logger {
	level := zap.InfoLevel
	if f.verbose {
		level = zap.DebugLevel
	}
	var enc zapcore.Encoder
	if f.jsonLog {
		enc = zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
	} else {
		ec := zap.NewDevelopmentEncoderConfig()
		ec.TimeKey = ""
		ec.CallerKey = ""
		ec.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(ec)
	}
	return zap.New(zapcore.NewCore(enc, zapcore.AddSync(w), level))
}

// reportErr turns record failures into the command error.
func reportErr(report *gen.Report) error {
	if report == nil || !report.Failed() {
		return nil
	}
	return errors.Newf("%d of %d records failed", len(report.Failures), len(report.Failures)+len(report.Units))
}
