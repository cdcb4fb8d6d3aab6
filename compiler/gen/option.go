package gen

import (
	"errors"
	"go/token"
	"runtime"
	"strings"

	"go.uber.org/zap"
)

// Defaults used by NewConfig.
const (
	DefaultHeader        = "Code generated by mapbuilder. DO NOT EDIT."
	DefaultBuilderSuffix = "Builder"
	DefaultFileSuffix    = "_builder.go"
	DefaultBuildTag      = "mapbuilder"
	DefaultRuntimePkg    = "github.com/syssam/mapbuilder"
)

// Config holds the global code generation configuration.
type Config struct {
	// Header is the first comment line of every generated file.
	Header string
	// BuilderSuffix is appended to the record name to name its builder.
	BuilderSuffix string
	// FileSuffix is appended to the snake-cased record name to name its file.
	FileSuffix string
	// BuildTag excludes generated files when it is set. Generated files are
	// constrained with `//go:build !<BuildTag>`.
	BuildTag string
	// RuntimePkg is the import path of the runtime package.
	RuntimePkg string
	// Workers bounds the number of records generated or written concurrently.
	Workers int
	// Logger reports per-record progress and failures.
	Logger *zap.Logger
}

// Option configures code generation.
type Option func(*Config) error

// WithHeader sets the file header comment.
// The header is added at the top of each generated file.
func WithHeader(header string) Option {
	return func(c *Config) error {
		if strings.ContainsAny(header, "\r\n") {
			return NewConfigError("WithHeader", header, "header must be a single line")
		}
		c.Header = header
		return nil
	}
}

// WithBuilderSuffix sets the suffix of builder type names, e.g. "Builder"
// for UserBuilder.
func WithBuilderSuffix(suffix string) Option {
	return func(c *Config) error {
		if suffix == "" || !token.IsIdentifier("X"+suffix) {
			return NewConfigError("WithBuilderSuffix", suffix, "suffix must form a valid Go identifier")
		}
		c.BuilderSuffix = suffix
		return nil
	}
}

// WithFileSuffix sets the suffix of generated file names.
func WithFileSuffix(suffix string) Option {
	return func(c *Config) error {
		switch {
		case !strings.HasSuffix(suffix, ".go"):
			return NewConfigError("WithFileSuffix", suffix, "suffix must end with .go")
		case strings.HasSuffix(suffix, "_test.go"):
			return NewConfigError("WithFileSuffix", suffix, "generated files cannot be test files")
		case strings.ContainsAny(suffix, `/\`):
			return NewConfigError("WithFileSuffix", suffix, "suffix cannot contain path separators")
		}
		c.FileSuffix = suffix
		return nil
	}
}

// WithBuildTag sets the build tag that excludes generated files while
// records are loaded. An empty tag disables the build constraint.
func WithBuildTag(tag string) Option {
	return func(c *Config) error {
		if tag != "" && !token.IsIdentifier(strings.ReplaceAll(tag, ".", "_")) {
			return NewConfigError("WithBuildTag", tag, "invalid build tag")
		}
		c.BuildTag = tag
		return nil
	}
}

// WithRuntimePkg sets the import path of the runtime package used by
// generated builders.
func WithRuntimePkg(pkg string) Option {
	return func(c *Config) error {
		if pkg == "" {
			return NewConfigError("WithRuntimePkg", nil, "runtime package cannot be empty")
		}
		c.RuntimePkg = pkg
		return nil
	}
}

// WithWorkers sets the number of parallel workers.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return NewConfigError("WithWorkers", n, "workers must be positive")
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return NewConfigError("WithLogger", nil, "logger cannot be nil")
		}
		c.Logger = l
		return nil
	}
}

// Apply applies options to the config.
// It returns the first error encountered.
func (c *Config) Apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// ApplyAll applies options and collects all errors.
// Returns a joined error if any options failed.
func (c *Config) ApplyAll(opts ...Option) error {
	var errs []error
	for _, opt := range opts {
		if err := opt(c); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// NewConfig creates a new Config with defaults and the given options.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Header:        DefaultHeader,
		BuilderSuffix: DefaultBuilderSuffix,
		FileSuffix:    DefaultFileSuffix,
		BuildTag:      DefaultBuildTag,
		RuntimePkg:    DefaultRuntimePkg,
		Workers:       runtime.GOMAXPROCS(0),
		Logger:        zap.NewNop(),
	}
	if err := c.Apply(opts...); err != nil {
		return nil, err
	}
	return c, nil
}

// MustNewConfig creates a new Config with the given options.
// It panics if any option fails.
func MustNewConfig(opts ...Option) *Config {
	c, err := NewConfig(opts...)
	if err != nil {
		panic(err)
	}
	return c
}
