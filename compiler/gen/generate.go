package gen

import (
	"context"
	"errors"
	"fmt"
	"go/token"
	"path/filepath"
	"strings"

	"github.com/dave/jennifer/jen"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/syssam/mapbuilder/compiler/load"
)

// Generator generates map-backed builders for records using Jennifer.
// Imports are tracked by Jennifer, so no goimports pass is needed.
//
// A Generator holds no per-run state and is safe for concurrent use.
type Generator struct {
	cfg *Config
}

// NewGenerator creates a generator. A nil config means NewConfig().
func NewGenerator(cfg *Config) *Generator {
	if cfg == nil {
		cfg = MustNewConfig()
	}
	return &Generator{cfg: cfg}
}

// Config returns the generator configuration.
func (g *Generator) Config() *Config {
	return g.cfg
}

// Unit is the generated builder of one record.
type Unit struct {
	// Record the unit was generated for.
	Record *load.Record
	// File holds the generated declarations.
	File *jen.File
	// Path is the file the unit is emitted to.
	Path string
	// Builder is the name of the generated builder type.
	Builder string
	// decls are the top-level names declared by File.
	decls []string
}

// Generate generates the builder of a single record.
//
// It fails with a SchemaError if the record is not a non-generic struct,
// if two fields share a key, or if a field type cannot be resolved. In the
// last case the error also matches IsUnresolvedType.
func (g *Generator) Generate(r *load.Record) (*Unit, error) {
	if err := g.check(r); err != nil {
		return nil, err
	}
	fields := make([]*field, 0, len(r.Fields))
	for _, f := range r.Fields {
		ref, err := resolveIn(f.Type, r.PkgPath)
		if err != nil {
			return nil, fieldError(r, f, "", err)
		}
		fields = append(fields, &field{Field: f, ref: ref})
	}
	b := &builder{
		cfg:    g.cfg,
		record: r,
		fields: fields,
		name:   r.Name + g.cfg.BuilderSuffix,
	}
	return &Unit{
		Record:  r,
		File:    b.file(),
		Path:    g.path(r),
		Builder: b.name,
		decls:   b.decls(),
	}, nil
}

func (g *Generator) check(r *load.Record) error {
	switch {
	case r == nil:
		return NewSchemaError("", "", "nil record", nil)
	case r.Err != nil:
		return NewSchemaError(r.Name, "", "", r.Err)
	case !r.IsStruct:
		return NewSchemaError(r.Name, "", "not a record type: only struct types can have a builder", nil)
	case r.IsGeneric():
		return NewSchemaError(r.Name, "", fmt.Sprintf("generic records are not supported (type parameters %s)", strings.Join(r.TypeParams, ", ")), nil)
	}
	keys := make(map[string]string, len(r.Fields))
	for _, f := range r.Fields {
		switch {
		case f.Name == "_":
			return fieldError(r, f, "blank fields are not supported", nil)
		case f.Key == "":
			return fieldError(r, f, "empty builder key", nil)
		}
		if other, ok := keys[f.Key]; ok {
			return fieldError(r, f, fmt.Sprintf("duplicate key %q, also used by field %s", f.Key, other), nil)
		}
		keys[f.Key] = f.Name
	}
	return nil
}

func fieldError(r *load.Record, f *load.Field, message string, cause error) *SchemaError {
	err := NewSchemaError(r.Name, f.Name, message, cause)
	err.Pos = f.Pos
	return err
}

func (g *Generator) path(r *load.Record) string {
	return filepath.Join(r.Dir, load.Snake(r.Name)+g.cfg.FileSuffix)
}

// Failure is a record that could not be generated.
type Failure struct {
	Record *load.Record
	Err    error
}

// Error implements the error interface. The message starts with the
// position of the failing field, or else of the record.
func (f *Failure) Error() string {
	if pos := f.Pos(); pos.IsValid() {
		return fmt.Sprintf("%s: %s", pos, f.Err)
	}
	return f.Err.Error()
}

// Pos returns the position the failure is reported at.
func (f *Failure) Pos() token.Position {
	var schemaErr *SchemaError
	if errors.As(f.Err, &schemaErr) && schemaErr.Pos.IsValid() {
		return schemaErr.Pos
	}
	if f.Record == nil {
		return token.Position{}
	}
	return f.Record.Pos
}

// Unwrap returns the underlying error.
func (f *Failure) Unwrap() error {
	return f.Err
}

// Report is the outcome of a batch. Units and Failures keep the order of
// the records they were generated from.
type Report struct {
	Units    []*Unit
	Failures []*Failure
}

// Failed reports whether any record failed.
func (r *Report) Failed() bool {
	return len(r.Failures) > 0
}

// Err returns the failures joined in a single error, or nil.
func (r *Report) Err() error {
	errs := make([]error, len(r.Failures))
	for i, f := range r.Failures {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// GenerateAll generates the builders of all records with at most
// Config.Workers records in flight. A failing record is reported and
// skipped; it never stops the other records. Records not started before
// ctx is done fail with the context error. A record whose builder file or
// generated names clash with those of an earlier record of the same
// package fails with a SchemaError.
func (g *Generator) GenerateAll(ctx context.Context, records []*load.Record) *Report {
	var (
		units = make([]*Unit, len(records))
		errs  = make([]error, len(records))
		eg    errgroup.Group
	)
	eg.SetLimit(g.cfg.Workers)
	for i, r := range records {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			units[i], errs[i] = g.Generate(r)
			return nil
		})
	}
	_ = eg.Wait()
	clashes(records, units, errs)

	report := &Report{}
	for i, r := range records {
		if errs[i] != nil {
			report.Failures = append(report.Failures, &Failure{Record: r, Err: errs[i]})
			g.cfg.Logger.Error("skipping record", recordFields(r, zap.Error(errs[i]))...)
			continue
		}
		report.Units = append(report.Units, units[i])
		g.cfg.Logger.Debug("generated builder", recordFields(r, zap.String("builder", units[i].Builder))...)
	}
	return report
}

// clashes fails the units whose file or top-level names are already taken
// in their package, by a record type or by the unit of an earlier record.
func clashes(records []*load.Record, units []*Unit, errs []error) {
	var (
		paths  = make(map[string]string)
		owners = make(map[string]string)
	)
	for _, r := range records {
		if r != nil {
			owners[r.PkgPath+"."+r.Name] = "type " + r.Name
		}
	}
	for i, u := range units {
		if u == nil || errs[i] != nil {
			continue
		}
		r := u.Record
		if other, ok := paths[u.Path]; ok {
			units[i], errs[i] = nil, NewSchemaError(r.Name, "", fmt.Sprintf("builder file %s is also generated for %s", u.Path, other), nil)
			continue
		}
		if name, other, ok := taken(owners, r.PkgPath, u.decls); ok {
			units[i], errs[i] = nil, NewSchemaError(r.Name, "", fmt.Sprintf("generated name %s is already declared by %s", name, other), nil)
			continue
		}
		paths[u.Path] = r.Name
		for _, d := range u.decls {
			owners[r.PkgPath+"."+d] = "the builder of " + r.Name
		}
	}
}

func taken(owners map[string]string, pkg string, names []string) (string, string, bool) {
	for _, n := range names {
		if owner, ok := owners[pkg+"."+n]; ok {
			return n, owner, true
		}
	}
	return "", "", false
}

func recordFields(r *load.Record, extra ...zap.Field) []zap.Field {
	if r == nil {
		return extra
	}
	return append([]zap.Field{zap.String("record", r.String()), zap.Stringer("pos", r.Pos)}, extra...)
}
