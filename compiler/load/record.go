package load

import (
	"go/token"
	"go/types"
)

// Record describes an annotated type declaration loaded from a user package.
// Records are created once per load and are not modified afterwards.
type Record struct {
	// Name of the declared type, e.g. "User".
	Name string
	// PkgPath is the import path of the declaring package.
	PkgPath string
	// PkgName is the package name used by generated code.
	PkgName string
	// Dir is the directory of the declaring package. Generated files go there.
	Dir string
	// Pos is the position of the type declaration.
	Pos token.Position
	// IsStruct reports whether the declaration is a struct type. Other kinds
	// are still loaded so the generator can report them.
	IsStruct bool
	// TypeParams holds the names of the type parameters of a generic declaration.
	TypeParams []string
	// Fields in declaration order.
	Fields []*Field
	// Err holds a problem found while describing the record, such as an
	// invalid struct tag. The generator reports it against the record.
	Err error
}

// Field describes one field of a Record.
type Field struct {
	// Name is the Go field name. Embedded fields use their type name.
	Name string
	// Key is the builder key of the field.
	Key string
	// Type is the declared type, as resolved by the type checker.
	Type types.Type
	// Nullable reports whether nil is an accepted value for the field.
	Nullable bool
	// HasDefault reports whether the field is tagged with the default option.
	// It is informational and does not change extraction.
	HasDefault bool
	// Embedded reports whether the field is an embedded field.
	Embedded bool
	// Pos is the position of the field declaration.
	Pos token.Position
}

// String returns the qualified name of the record.
func (r *Record) String() string {
	if r.PkgPath == "" {
		return r.Name
	}
	return r.PkgPath + "." + r.Name
}

// Field returns the field with the given Go name.
func (r *Record) Field(name string) (*Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return nil, false
}

// IsGeneric reports whether the record declares type parameters.
func (r *Record) IsGeneric() bool {
	return len(r.TypeParams) > 0
}
