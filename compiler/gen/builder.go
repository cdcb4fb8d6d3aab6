package gen

import (
	"strings"

	"github.com/dave/jennifer/jen"

	"github.com/syssam/mapbuilder/compiler/load"
)

// field is a record field with its resolved type.
type field struct {
	*load.Field
	ref *TypeRef
}

// builder emits the builder file of one record.
type builder struct {
	cfg    *Config
	record *load.Record
	fields []*field
	name   string
}

// Receivers and locals are prefixed with an underscore so they never
// shadow a field-derived local.
const (
	recvBuilder = "_b"
	recvRecord  = "_x"
)

func (b *builder) file() *jen.File {
	f := jen.NewFilePathName(b.record.PkgPath, b.record.PkgName)
	header := "// " + b.cfg.Header
	if b.cfg.BuildTag != "" {
		header += "\n\n//go:build !" + b.cfg.BuildTag
	}
	f.HeaderComment(header)
	f.ImportName(b.cfg.RuntimePkg, "mapbuilder")

	b.keys(f)
	b.builderType(f)
	b.accessors(f)
	b.build(f)
	f.Var().Id("_").Qual(b.cfg.RuntimePkg, "Builder").Types(jen.Id(b.record.Name)).Op("=").
		Parens(jen.Op("*").Id(b.name)).Call(jen.Nil())
	b.provider(f)
	return f
}

// decls returns the top-level names declared by the builder file.
func (b *builder) decls() []string {
	names := []string{b.name, "New" + b.name}
	for _, fd := range b.fields {
		names = append(names, b.keyConst(fd))
	}
	return names
}

func (b *builder) keyConst(f *field) string {
	return b.record.Name + "Key" + f.Name
}

func (b *builder) local(f *field) string {
	return "_" + f.Name
}

func (b *builder) runtime(name string) *jen.Statement {
	return jen.Qual(b.cfg.RuntimePkg, name)
}

// keys emits one constant per field holding its builder key.
func (b *builder) keys(f *jen.File) {
	if len(b.fields) == 0 {
		return
	}
	f.Commentf("Builder keys of %s.", b.record.Name)
	f.Const().DefsFunc(func(group *jen.Group) {
		for _, fd := range b.fields {
			group.Id(b.keyConst(fd)).Op("=").Lit(fd.Key)
		}
	})
}

func (b *builder) builderType(f *jen.File) {
	f.Commentf("%s is a map-backed builder of %s. Values are kept by key until", b.name, b.record.Name)
	f.Comment("Build is called, which checks them against the declared field types.")
	var defaults []string
	for _, fd := range b.fields {
		if fd.HasDefault {
			defaults = append(defaults, fd.Name)
		}
	}
	if len(defaults) > 0 {
		f.Comment("")
		f.Commentf("Fields declared with a default: %s.", strings.Join(defaults, ", "))
		f.Comment("They are still required by Build unless they are nullable.")
	}
	f.Type().Id(b.name).Struct(
		jen.Id("values").Add(b.runtime("Values")),
	)

	f.Commentf("New%s returns an empty %s.", b.name, b.name)
	f.Func().Id("New"+b.name).Params().Op("*").Id(b.name).Block(
		jen.Return(jen.Op("&").Id(b.name).Values(jen.Dict{
			jen.Id("values"): b.runtime("Values").Values(),
		})),
	)
}

func (b *builder) accessors(f *jen.File) {
	recv := jen.Id(recvBuilder).Op("*").Id(b.name)
	values := jen.Id(recvBuilder).Dot("values")

	f.Comment("Contains reports whether a value, possibly nil, was put for name.")
	f.Func().Params(recv.Clone()).Id("Contains").Params(jen.Id("name").String()).Bool().Block(
		jen.Return(values.Clone().Dot("Contains").Call(jen.Id("name"))),
	)

	f.Comment("Get returns the value put for name, or nil if there is none.")
	f.Func().Params(recv.Clone()).Id("Get").Params(jen.Id("name").String()).Any().Block(
		jen.Return(values.Clone().Dot("Get").Call(jen.Id("name"))),
	)

	f.Comment("Put stores value for name, replacing any previous value.")
	f.Func().Params(recv.Clone()).Id("Put").Params(jen.Id("name").String(), jen.Id("value").Any()).Block(
		values.Clone().Dot("Put").Call(jen.Id("name"), jen.Id("value")),
	)
}

// build emits Build. Fields are extracted in declaration order and the
// first failing field is returned.
func (b *builder) build(f *jen.File) {
	zero := jen.Id(b.record.Name).Values()
	body := make([]jen.Code, 0, 2*len(b.fields)+1)
	for _, fd := range b.fields {
		extract := "RequireValue"
		if fd.Nullable {
			extract = "OptionalValue"
		}
		body = append(body,
			jen.List(jen.Id(b.local(fd)), jen.Err()).Op(":=").
				Add(b.runtime(extract)).Types(fd.ref.Code()).
				Call(jen.Id(recvBuilder).Dot("values"), jen.Id(b.keyConst(fd))),
			jen.If(jen.Err().Op("!=").Nil()).Block(
				jen.Return(zero.Clone(), jen.Err()),
			),
		)
	}
	body = append(body, jen.Return(
		jen.Id(b.record.Name).ValuesFunc(func(group *jen.Group) {
			for _, fd := range b.fields {
				group.Line().Id(fd.Name).Op(":").Id(b.local(fd))
			}
			if len(b.fields) > 0 {
				group.Line()
			}
		}),
		jen.Nil(),
	))

	f.Commentf("Build returns a new %s from the values put so far. It fails with a", b.record.Name)
	f.Comment("mapbuilder.MissingFieldError if a required field is missing or nil, and")
	f.Comment("with a mapbuilder.TypeMismatchError if a value has the wrong type.")
	f.Func().Params(jen.Id(recvBuilder).Op("*").Id(b.name)).Id("Build").Params().
		Params(jen.Id(b.record.Name), jen.Error()).
		Block(body...)
}

func (b *builder) provider(f *jen.File) {
	recv := jen.Id(recvRecord).Id(b.record.Name)

	f.Commentf("ToBuilder returns a %s holding every field of %s.", b.name, recvRecord)
	f.Func().Params(recv.Clone()).Id("ToBuilder").Params().Op("*").Id(b.name).BlockFunc(func(group *jen.Group) {
		group.Id(recvBuilder).Op(":=").Id("New" + b.name).Call()
		for _, fd := range b.fields {
			group.Id(recvBuilder).Dot("Put").Call(jen.Id(b.keyConst(fd)), jen.Id(recvRecord).Dot(fd.Name))
		}
		group.Return(jen.Id(recvBuilder))
	})

	f.Comment("MapBuilder implements mapbuilder.Provider.")
	f.Func().Params(recv.Clone()).Id("MapBuilder").Params().
		Add(b.runtime("Builder")).Types(jen.Id(b.record.Name)).Block(
		jen.Return(jen.Id(recvRecord).Dot("ToBuilder").Call()),
	)

	f.Commentf("Rebuild returns a copy of %s changed by configure, which runs on a", recvRecord)
	f.Commentf("builder seeded by ToBuilder.")
	f.Func().Params(recv.Clone()).Id("Rebuild").
		Params(jen.Id("configure").Func().Params(jen.Op("*").Id(b.name))).
		Params(jen.Id(b.record.Name), jen.Error()).Block(
		jen.Id(recvBuilder).Op(":=").Id(recvRecord).Dot("ToBuilder").Call(),
		jen.If(jen.Id("configure").Op("!=").Nil()).Block(
			jen.Id("configure").Call(jen.Id(recvBuilder)),
		),
		jen.Return(jen.Id(recvBuilder).Dot("Build").Call()),
	)
}
