package gen

import (
	"fmt"
	"go/types"
	"strings"

	"github.com/dave/jennifer/jen"
)

// maxTypeDepth bounds the nesting of composite types and type arguments.
const maxTypeDepth = 32

// TypeKind is the kind of a TypeRef.
type TypeKind uint8

// TypeRef kinds.
const (
	KindBasic TypeKind = iota
	KindNamed
	KindPointer
	KindSlice
	KindArray
	KindMap
	KindChan
	KindAny
	// KindEmptyStruct is struct{}, the only struct literal that is resolved.
	KindEmptyStruct
)

// TypeRef is the fully resolved name of a field type, including every
// type argument at every nesting level.
type TypeRef struct {
	Kind TypeKind
	// Name of a basic or named type.
	Name string
	// PkgPath of a named type. Empty for predeclared types like error.
	PkgPath string
	// Args are the type arguments of an instantiated named type.
	Args []*TypeRef
	// Key of a map type.
	Key *TypeRef
	// Elem of a pointer, slice, array, map or chan type.
	Elem *TypeRef
	// Len of an array type.
	Len int64
	// Dir of a chan type.
	Dir types.ChanDir
}

// ResolveTypeName resolves t to a TypeRef. It fails with an
// UnresolvedTypeError on type parameters, type literals that cannot be
// named (non-empty structs, functions, non-empty interfaces), invalid types, and
// types nested deeper than the supported bound.
func ResolveTypeName(t types.Type) (*TypeRef, error) {
	r := &resolver{visiting: make(map[types.Type]bool)}
	return r.resolve(t, 0)
}

// resolveIn is like ResolveTypeName, and additionally rejects unexported
// named types declared outside of pkgPath.
func resolveIn(t types.Type, pkgPath string) (*TypeRef, error) {
	r := &resolver{pkg: pkgPath, visiting: make(map[types.Type]bool)}
	return r.resolve(t, 0)
}

type resolver struct {
	pkg      string
	visiting map[types.Type]bool
}

func (r *resolver) resolve(t types.Type, depth int) (*TypeRef, error) {
	if depth > maxTypeDepth {
		return nil, NewUnresolvedTypeError(t.String(), fmt.Sprintf("type nesting exceeds %d levels", maxTypeDepth))
	}
	if r.visiting[t] {
		return nil, NewUnresolvedTypeError(t.String(), "cyclic type reference")
	}
	r.visiting[t] = true
	defer delete(r.visiting, t)

	switch t := t.(type) {
	case *types.Alias:
		return r.resolve(types.Unalias(t), depth)
	case *types.Basic:
		return r.basic(t)
	case *types.Named:
		return r.named(t, depth)
	case *types.TypeParam:
		return nil, NewUnresolvedTypeError(t.String(), "type parameters cannot be resolved")
	case *types.Pointer:
		elem, err := r.resolve(t.Elem(), depth+1)
		if err != nil {
			return nil, err
		}
		return &TypeRef{Kind: KindPointer, Elem: elem}, nil
	case *types.Slice:
		elem, err := r.resolve(t.Elem(), depth+1)
		if err != nil {
			return nil, err
		}
		return &TypeRef{Kind: KindSlice, Elem: elem}, nil
	case *types.Array:
		elem, err := r.resolve(t.Elem(), depth+1)
		if err != nil {
			return nil, err
		}
		return &TypeRef{Kind: KindArray, Elem: elem, Len: t.Len()}, nil
	case *types.Map:
		key, err := r.resolve(t.Key(), depth+1)
		if err != nil {
			return nil, err
		}
		elem, err := r.resolve(t.Elem(), depth+1)
		if err != nil {
			return nil, err
		}
		return &TypeRef{Kind: KindMap, Key: key, Elem: elem}, nil
	case *types.Chan:
		elem, err := r.resolve(t.Elem(), depth+1)
		if err != nil {
			return nil, err
		}
		return &TypeRef{Kind: KindChan, Elem: elem, Dir: t.Dir()}, nil
	case *types.Interface:
		if t.Empty() {
			return &TypeRef{Kind: KindAny, Name: "any"}, nil
		}
		return nil, NewUnresolvedTypeError(t.String(), "interface literals are not supported")
	case *types.Struct:
		if t.NumFields() == 0 {
			return &TypeRef{Kind: KindEmptyStruct, Name: "struct{}"}, nil
		}
		return nil, NewUnresolvedTypeError(t.String(), "struct literals are not supported")
	case *types.Signature:
		return nil, NewUnresolvedTypeError(t.String(), "function types are not supported")
	default:
		return nil, NewUnresolvedTypeError(t.String(), fmt.Sprintf("unsupported type %T", t))
	}
}

func (r *resolver) basic(t *types.Basic) (*TypeRef, error) {
	switch {
	case t.Kind() == types.Invalid:
		return nil, NewUnresolvedTypeError(t.String(), "invalid type")
	case t.Info()&types.IsUntyped != 0:
		return nil, NewUnresolvedTypeError(t.String(), "untyped constant type")
	case t.Kind() == types.UnsafePointer:
		return &TypeRef{Kind: KindNamed, PkgPath: "unsafe", Name: "Pointer"}, nil
	}
	return &TypeRef{Kind: KindBasic, Name: t.Name()}, nil
}

func (r *resolver) named(t *types.Named, depth int) (*TypeRef, error) {
	obj := t.Obj()
	ref := &TypeRef{Kind: KindNamed, Name: obj.Name()}
	if pkg := obj.Pkg(); pkg != nil {
		ref.PkgPath = pkg.Path()
		if r.pkg != "" && ref.PkgPath != r.pkg && !obj.Exported() {
			return nil, NewUnresolvedTypeError(t.String(), "unexported type of package "+ref.PkgPath)
		}
		if obj.Parent() != nil && obj.Parent() != pkg.Scope() {
			return nil, NewUnresolvedTypeError(t.String(), "function-local types are not supported")
		}
	}
	if tparams := t.TypeParams(); tparams.Len() > 0 && t.TypeArgs().Len() == 0 {
		return nil, NewUnresolvedTypeError(t.String(), "generic type without type arguments")
	}
	args := t.TypeArgs()
	for i := 0; i < args.Len(); i++ {
		arg, err := r.resolve(args.At(i), depth+1)
		if err != nil {
			return nil, err
		}
		ref.Args = append(ref.Args, arg)
	}
	return ref, nil
}

// Code returns the Jennifer code naming the type. Named types are
// qualified by their import path so that Jennifer manages imports.
func (t *TypeRef) Code() jen.Code {
	switch t.Kind {
	case KindBasic, KindAny:
		return jen.Id(t.Name)
	case KindEmptyStruct:
		return jen.Struct()
	case KindNamed:
		var s *jen.Statement
		if t.PkgPath == "" {
			s = jen.Id(t.Name)
		} else {
			s = jen.Qual(t.PkgPath, t.Name)
		}
		if len(t.Args) > 0 {
			args := make([]jen.Code, len(t.Args))
			for i, a := range t.Args {
				args[i] = a.Code()
			}
			s = s.Types(args...)
		}
		return s
	case KindPointer:
		return jen.Op("*").Add(t.Elem.Code())
	case KindSlice:
		return jen.Index().Add(t.Elem.Code())
	case KindArray:
		return jen.Index(jen.Lit(int(t.Len))).Add(t.Elem.Code())
	case KindMap:
		return jen.Map(t.Key.Code()).Add(t.Elem.Code())
	case KindChan:
		switch t.Dir {
		case types.SendOnly:
			return jen.Chan().Op("<-").Add(t.Elem.Code())
		case types.RecvOnly:
			return jen.Op("<-").Chan().Add(t.Elem.Code())
		default:
			if t.recvElem() {
				return jen.Chan().Parens(t.Elem.Code())
			}
			return jen.Chan().Add(t.Elem.Code())
		}
	}
	return jen.Null()
}

// String returns the fully qualified form of the type, as printed by
// go/types.
func (t *TypeRef) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t *TypeRef) write(b *strings.Builder) {
	switch t.Kind {
	case KindBasic, KindAny, KindEmptyStruct:
		b.WriteString(t.Name)
	case KindNamed:
		if t.PkgPath != "" {
			b.WriteString(t.PkgPath)
			b.WriteByte('.')
		}
		b.WriteString(t.Name)
		if len(t.Args) > 0 {
			b.WriteByte('[')
			for i, a := range t.Args {
				if i > 0 {
					b.WriteString(", ")
				}
				a.write(b)
			}
			b.WriteByte(']')
		}
	case KindPointer:
		b.WriteByte('*')
		t.Elem.write(b)
	case KindSlice:
		b.WriteString("[]")
		t.Elem.write(b)
	case KindArray:
		fmt.Fprintf(b, "[%d]", t.Len)
		t.Elem.write(b)
	case KindMap:
		b.WriteString("map[")
		t.Key.write(b)
		b.WriteByte(']')
		t.Elem.write(b)
	case KindChan:
		switch t.Dir {
		case types.SendOnly:
			b.WriteString("chan<- ")
		case types.RecvOnly:
			b.WriteString("<-chan ")
		default:
			b.WriteString("chan ")
		}
		if t.Dir == types.SendRecv && t.recvElem() {
			b.WriteByte('(')
			t.Elem.write(b)
			b.WriteByte(')')
			return
		}
		t.Elem.write(b)
	}
}

// recvElem reports whether the element of a chan type is a receive-only
// chan. `chan <-chan T` parses as `chan<- chan T`, so the element needs
// parentheses.
func (t *TypeRef) recvElem() bool {
	return t.Elem != nil && t.Elem.Kind == KindChan && t.Elem.Dir == types.RecvOnly
}
