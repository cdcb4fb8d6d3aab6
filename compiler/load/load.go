// Package load extracts record descriptors from Go packages.
//
// It is the explicit schema pass of the generator: packages are loaded and
// type-checked with golang.org/x/tools/go/packages, annotated type
// declarations are selected, and each one becomes a Record carrying its
// fields in declaration order.
package load

import (
	"context"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"
)

// DefaultDirective marks a type declaration as a record.
const DefaultDirective = "mapbuilder:record"

// DefaultBuildTag is set while loading so that generated files, which are
// constrained with `//go:build !mapbuilder`, are left out of type checking.
const DefaultBuildTag = "mapbuilder"

// Config controls how records are loaded.
type Config struct {
	// Dir is the working directory of the underlying build tool.
	Dir string
	// BuildTag excludes generated files from loading. Defaults to DefaultBuildTag.
	BuildTag string
	// BuildFlags are extra flags passed to the build tool.
	BuildFlags []string
	// Types selects records by name. When empty, declarations carrying
	// Directive are selected.
	Types []string
	// Directive is the comment directive marking records. Defaults to DefaultDirective.
	Directive string
	// KeyStyle derives builder keys for untagged fields. Defaults to KeySnake.
	KeyStyle KeyStyle
	// Logger receives debug output. Defaults to a no-op logger.
	Logger *zap.Logger
}

func (c *Config) withDefaults() *Config {
	cfg := *c
	if cfg.BuildTag == "" {
		cfg.BuildTag = DefaultBuildTag
	}
	if cfg.Directive == "" {
		cfg.Directive = DefaultDirective
	}
	if cfg.KeyStyle == "" {
		cfg.KeyStyle = KeySnake
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &cfg
}

// Load loads the packages matching the patterns and returns their records,
// in package order and then in source order.
//
// Listing and parse errors abort the load. Type errors are tolerated, as
// they are commonly caused by code referring to builders not generated yet.
func Load(ctx context.Context, cfg *Config, patterns ...string) ([]*Record, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg = cfg.withDefaults()
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	pkgs, err := packages.Load(&packages.Config{
		Context:    ctx,
		Dir:        cfg.Dir,
		Mode:       packages.NeedName | packages.NeedFiles | packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo,
		BuildFlags: append([]string{"-tags=" + cfg.BuildTag}, cfg.BuildFlags...),
	}, patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "load: packages %s", strings.Join(patterns, " "))
	}
	if len(pkgs) == 0 {
		return nil, errors.Newf("load: no packages found for %s", strings.Join(patterns, " "))
	}
	l := &loader{
		cfg:    cfg,
		wanted: make(map[string]bool, len(cfg.Types)),
	}
	for _, name := range cfg.Types {
		l.wanted[name] = false
	}
	for _, pkg := range pkgs {
		if err := l.check(pkg); err != nil {
			return nil, err
		}
		l.collect(pkg)
	}
	if missing := l.missing(); len(missing) > 0 {
		return nil, errors.WithHint(
			errors.Newf("load: types not found: %s", strings.Join(missing, ", ")),
			"check the package patterns and the spelling of the type names",
		)
	}
	return l.records, nil
}

// PackageDirs returns the sorted directories of the packages matching the
// patterns. Only package metadata is loaded.
func PackageDirs(ctx context.Context, cfg *Config, patterns ...string) ([]string, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	cfg = cfg.withDefaults()
	if len(patterns) == 0 {
		patterns = []string{"."}
	}
	pkgs, err := packages.Load(&packages.Config{
		Context:    ctx,
		Dir:        cfg.Dir,
		Mode:       packages.NeedName | packages.NeedFiles,
		BuildFlags: append([]string{"-tags=" + cfg.BuildTag}, cfg.BuildFlags...),
	}, patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "load: packages %s", strings.Join(patterns, " "))
	}
	var dirs []string
	for _, pkg := range pkgs {
		for _, f := range pkg.GoFiles {
			dirs = append(dirs, filepath.Dir(f))
		}
	}
	slices.Sort(dirs)
	return slices.Compact(dirs), nil
}

type loader struct {
	cfg     *Config
	wanted  map[string]bool // name -> found
	records []*Record
}

// check fails on errors that leave the package unusable.
func (l *loader) check(pkg *packages.Package) error {
	var msgs []string
	for _, e := range pkg.Errors {
		switch e.Kind {
		case packages.TypeError:
			l.cfg.Logger.Debug("tolerating type error", zap.String("package", pkg.PkgPath), zap.String("error", e.Error()))
		default:
			msgs = append(msgs, e.Error())
		}
	}
	if len(msgs) > 0 {
		return errors.Newf("load: package %s: %s", pkg.PkgPath, strings.Join(msgs, "; "))
	}
	if pkg.Types == nil {
		return errors.Newf("load: package %s has no type information", pkg.PkgPath)
	}
	return nil
}

// collect appends the selected records of pkg in source order.
func (l *loader) collect(pkg *packages.Package) {
	for _, file := range pkg.Syntax {
		for _, decl := range file.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				if !l.selected(ts, gd) {
					continue
				}
				obj, ok := pkg.Types.Scope().Lookup(ts.Name.Name).(*types.TypeName)
				if !ok {
					continue
				}
				l.records = append(l.records, l.record(pkg, obj))
			}
		}
	}
}

// selected reports whether the type spec is a requested record. An explicit
// type list takes precedence over directives.
func (l *loader) selected(ts *ast.TypeSpec, gd *ast.GenDecl) bool {
	if len(l.cfg.Types) > 0 {
		if _, ok := l.wanted[ts.Name.Name]; ok {
			l.wanted[ts.Name.Name] = true
			return true
		}
		return false
	}
	if hasDirective(ts.Doc, l.cfg.Directive) {
		return true
	}
	// A directive on an ungrouped declaration is attached to the GenDecl.
	return !gd.Lparen.IsValid() && hasDirective(gd.Doc, l.cfg.Directive)
}

func (l *loader) missing() []string {
	var names []string
	for name, found := range l.wanted {
		if !found {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	return names
}

// record describes one type declaration.
func (l *loader) record(pkg *packages.Package, obj *types.TypeName) *Record {
	pos := pkg.Fset.Position(obj.Pos())
	r := &Record{
		Name:    obj.Name(),
		PkgPath: pkg.PkgPath,
		PkgName: pkg.Name,
		Dir:     filepath.Dir(pos.Filename),
		Pos:     pos,
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		// Alias declarations are not records.
		return r
	}
	if tparams := named.TypeParams(); tparams != nil {
		for i := 0; i < tparams.Len(); i++ {
			r.TypeParams = append(r.TypeParams, tparams.At(i).Obj().Name())
		}
	}
	st, ok := named.Underlying().(*types.Struct)
	if !ok {
		return r
	}
	r.IsStruct = true
	for i := 0; i < st.NumFields(); i++ {
		v := st.Field(i)
		f, err := l.field(pkg, v, st.Tag(i))
		if err != nil {
			r.Err = errors.Wrapf(err, "field %s", v.Name())
			return r
		}
		r.Fields = append(r.Fields, f)
	}
	return r
}

func (l *loader) field(pkg *packages.Package, v *types.Var, tag string) (*Field, error) {
	ft, err := parseTag(tag)
	if err != nil {
		return nil, err
	}
	f := &Field{
		Name:       v.Name(),
		Key:        ft.key,
		Type:       v.Type(),
		Nullable:   ft.nullable || nullableByType(v.Type()),
		HasDefault: ft.def,
		Embedded:   v.Embedded(),
		Pos:        pkg.Fset.Position(v.Pos()),
	}
	if f.Key == "" {
		f.Key = l.cfg.KeyStyle.Key(f.Name)
	}
	if ft.nullable && !nilable(v.Type()) {
		return nil, errors.Newf("nullable option on non-nilable type %s", v.Type())
	}
	return f, nil
}

// hasDirective reports whether the comment group contains the directive line.
func hasDirective(cg *ast.CommentGroup, directive string) bool {
	if cg == nil {
		return false
	}
	for _, c := range cg.List {
		if strings.TrimSpace(c.Text) == "//"+directive {
			return true
		}
	}
	return false
}
