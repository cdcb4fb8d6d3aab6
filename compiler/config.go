package compiler

import (
	"bytes"
	"io"
	"io/fs"
	"os"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/syssam/mapbuilder/compiler/gen"
	"github.com/syssam/mapbuilder/compiler/load"
)

// DefaultConfigFile is read when no configuration file is given.
const DefaultConfigFile = "mapbuilder.yaml"

// FileConfig is the content of a mapbuilder.yaml file:
//
//	patterns: ./...
//	types: [User, Order]
//	key_style: camel
//	builder_suffix: Builder
//	file_suffix: _builder.go
//	build_tag: mapbuilder
//	workers: 4
//
// Zero values keep the defaults.
type FileConfig struct {
	Patterns      StringList `yaml:"patterns,omitempty"`
	Types         StringList `yaml:"types,omitempty"`
	KeyStyle      string     `yaml:"key_style,omitempty"`
	BuilderSuffix string     `yaml:"builder_suffix,omitempty"`
	FileSuffix    string     `yaml:"file_suffix,omitempty"`
	BuildTag      *string    `yaml:"build_tag,omitempty"`
	Workers       int        `yaml:"workers,omitempty"`
}

// StringList is a YAML value that is either a string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler for StringList.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return errors.Newf("line %d: expected string or list of strings", node.Line)
	}
}

// LoadConfigFile reads a configuration file. An empty path means
// DefaultConfigFile, which may be missing; an explicit path must exist.
// Unknown keys are rejected.
func LoadConfigFile(path string) (*FileConfig, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return &FileConfig{}, nil
		}
		return nil, errors.Wrap(err, "read config")
	}
	cfg := &FileConfig{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, errors.WithHint(
			errors.Wrapf(err, "parse config %s", path),
			"supported keys are patterns, types, key_style, builder_suffix, file_suffix, build_tag and workers",
		)
	}
	return cfg, nil
}

// Options returns generation options for the configuration. Records are
// loaded relative to dir.
func (c *FileConfig) Options(dir string, logger *zap.Logger) (*Options, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	style, err := load.ParseKeyStyle(c.KeyStyle)
	if err != nil {
		return nil, err
	}
	opts := []gen.Option{gen.WithLogger(logger)}
	if c.BuilderSuffix != "" {
		opts = append(opts, gen.WithBuilderSuffix(c.BuilderSuffix))
	}
	if c.FileSuffix != "" {
		opts = append(opts, gen.WithFileSuffix(c.FileSuffix))
	}
	if c.BuildTag != nil {
		opts = append(opts, gen.WithBuildTag(*c.BuildTag))
	}
	if c.Workers != 0 {
		opts = append(opts, gen.WithWorkers(c.Workers))
	}
	cfg, err := gen.NewConfig(opts...)
	if err != nil {
		return nil, err
	}
	return &Options{
		Patterns: c.Patterns,
		Load: &load.Config{
			Dir:      dir,
			Types:    c.Types,
			KeyStyle: style,
			Logger:   logger,
		},
		Gen: cfg,
	}, nil
}
