// Package mapbuilder is the runtime used by generated map-backed builders.
//
// For every record struct annotated with the //mapbuilder:record directive,
// the mapbuilder command generates a companion builder that keeps pending
// field values in a Values map and rebuilds a fully typed record on demand:
//
//	//mapbuilder:record
//	type User struct {
//		ID    int64
//		Name  string
//		Email *string
//	}
//
//	b := NewUserBuilder()
//	b.Put("id", int64(1))
//	b.Put("name", "Ann")
//	u, err := b.Build() // email is nil, id and name are required
//
// Non-nullable fields are extracted with RequireValue and nullable ones
// (pointers, interfaces or fields tagged `mapbuilder:",nullable"`) with
// OptionalValue. Both report failures as typed errors: MissingFieldError
// and TypeMismatchError.
package mapbuilder

// Builder is implemented by every generated builder.
type Builder[T any] interface {
	// Contains reports whether a value, possibly nil, was put for name.
	Contains(name string) bool
	// Get returns the value put for name, or nil if there is none.
	Get(name string) any
	// Put stores value for name, replacing any previous value.
	Put(name string, value any)
	// Build returns a new T from the stored values. It does not clear
	// the builder, so it may be called again.
	Build() (T, error)
}

// Provider is implemented by every record that has a generated builder.
type Provider[T any] interface {
	// MapBuilder returns a builder seeded with all fields of the receiver.
	MapBuilder() Builder[T]
}

// Copy returns a modified copy of the record held by p. The configure
// function runs synchronously on a builder seeded from p before it is built.
//
//	updated, err := mapbuilder.Copy(user, func(b mapbuilder.Builder[User]) {
//		b.Put("name", "Jane")
//	})
func Copy[T any](p Provider[T], configure func(Builder[T])) (T, error) {
	b := p.MapBuilder()
	if configure != nil {
		configure(b)
	}
	return b.Build()
}
