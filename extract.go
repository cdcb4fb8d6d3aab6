package mapbuilder

import "reflect"

// RequireValue extracts the value stored for name as a T.
//
// It fails with a MissingFieldError if name was never put or holds nil,
// and with a TypeMismatchError if the stored value is not a T.
// Generated builders call it for every non-nullable field.
func RequireValue[T any](values Values, name string) (T, error) {
	var zero T
	slot := values.Lookup(name)
	switch slot.State() {
	case SlotAbsent:
		return zero, NewMissingFieldError(name, false)
	case SlotNull:
		return zero, NewMissingFieldError(name, true)
	}
	v, ok := slot.Value().(T)
	if !ok {
		return zero, mismatch[T](name, slot.Value())
	}
	return v, nil
}

// OptionalValue extracts the value stored for a nullable field. T is the
// declared field type, usually a pointer such as *string.
//
// An absent key or a stored nil yields the zero T. A stored T is returned
// unchanged, even a typed nil pointer held by an interface type T. If T is
// a pointer *E and the stored value is an E, a pointer to a copy of it is
// returned. Any other value is a TypeMismatchError.
func OptionalValue[T any](values Values, name string) (T, error) {
	var zero T
	raw, ok := values[name]
	if !ok || raw == nil {
		return zero, nil
	}
	if v, ok := raw.(T); ok {
		return v, nil
	}
	if isNull(raw) {
		return zero, nil
	}
	if typ := reflect.TypeFor[T](); typ.Kind() == reflect.Pointer {
		rv := reflect.ValueOf(raw)
		if rv.Type() == typ.Elem() {
			ptr := reflect.New(typ.Elem())
			ptr.Elem().Set(rv)
			return ptr.Interface().(T), nil
		}
	}
	return zero, mismatch[T](name, raw)
}

func mismatch[T any](name string, v any) *TypeMismatchError {
	return NewTypeMismatchError(name, reflect.TypeFor[T]().String(), reflect.TypeOf(v).String())
}
