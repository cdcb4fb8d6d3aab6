package mapbuilder

import (
	"maps"
	"reflect"
)

// Values is the backing store of a generated builder. It maps a field key
// to the value put for it. A key that was never put is absent, which is
// different from a key that holds nil.
//
// Values is not safe for concurrent use.
type Values map[string]any

// Contains reports whether a value, possibly nil, was put for name.
func (v Values) Contains(name string) bool {
	_, ok := v[name]
	return ok
}

// Get returns the value stored for name, or nil if there is none.
// Callers that need to tell "absent" from "nil" use Contains or Lookup.
func (v Values) Get(name string) any {
	return v[name]
}

// Put stores value for name, replacing any previous value.
// A nil value is stored as an explicit null.
func (v Values) Put(name string, value any) {
	v[name] = value
}

// Lookup returns the tagged slot stored for name.
func (v Values) Lookup(name string) Slot {
	value, ok := v[name]
	switch {
	case !ok:
		return Slot{}
	case isNull(value):
		return Slot{state: SlotNull}
	default:
		return Slot{state: SlotValue, value: value}
	}
}

// Clone returns a shallow copy of v.
func (v Values) Clone() Values {
	if v == nil {
		return Values{}
	}
	return maps.Clone(v)
}

// SlotState is the state of a single entry in Values.
type SlotState uint8

const (
	// SlotAbsent means no value was ever put for the key.
	SlotAbsent SlotState = iota
	// SlotNull means nil (or a nil pointer) was put for the key.
	SlotNull
	// SlotValue means a non-nil value was put for the key.
	SlotValue
)

// String returns the name of the state.
func (s SlotState) String() string {
	switch s {
	case SlotAbsent:
		return "absent"
	case SlotNull:
		return "null"
	case SlotValue:
		return "value"
	default:
		return "unknown"
	}
}

// Slot is a three-state view of one entry: absent, null or holding a value.
type Slot struct {
	state SlotState
	value any
}

// State returns the state of the slot.
func (s Slot) State() SlotState { return s.state }

// Value returns the stored value. It is nil unless State is SlotValue.
func (s Slot) Value() any { return s.value }

// IsAbsent reports whether the key was never put.
func (s Slot) IsAbsent() bool { return s.state == SlotAbsent }

// IsNull reports whether the key holds an explicit nil.
func (s Slot) IsNull() bool { return s.state == SlotNull }

// isNull reports whether v is the absence marker. Nil slices and maps are
// regular values: they round-trip through non-nullable fields.
func isNull(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
