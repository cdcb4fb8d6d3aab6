package load

import (
	"fmt"
	"go/types"
	"reflect"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"
	"github.com/go-openapi/inflect"
)

// KeyStyle controls how builder keys are derived from Go field names
// when the field has no explicit key in its struct tag.
type KeyStyle string

const (
	// KeySnake derives snake_case keys: FullName -> full_name.
	KeySnake KeyStyle = "snake"
	// KeyCamel derives lowerCamelCase keys: FullName -> fullName.
	KeyCamel KeyStyle = "camel"
	// KeyField uses the Go field name unchanged.
	KeyField KeyStyle = "field"
)

// ParseKeyStyle parses a key style name. The empty string means KeySnake.
func ParseKeyStyle(s string) (KeyStyle, error) {
	switch style := KeyStyle(strings.ToLower(strings.TrimSpace(s))); style {
	case "":
		return KeySnake, nil
	case KeySnake, KeyCamel, KeyField:
		return style, nil
	default:
		return "", errors.WithHint(
			errors.Newf("load: unknown key style %q", s),
			"supported styles are snake, camel and field",
		)
	}
}

// Key returns the builder key for the Go field name.
func (s KeyStyle) Key(name string) string {
	switch s {
	case KeyField:
		return name
	case KeyCamel:
		return inflect.CamelizeDownFirst(Snake(name))
	default:
		return Snake(name)
	}
}

// Snake converts a Go identifier to snake_case.
//
//	Username => username
//	FullName => full_name
//	HTTPCode => http_code
//	UserIDs  => user_ids
func Snake(s string) string {
	var (
		j  int
		b  strings.Builder
		rs = []rune(s)
	)
	for i, r := range rs {
		// Put '_' if it is not a start or end of a word, current letter is uppercase,
		// and previous is lowercase (cases like: "UserInfo"), or next letter is also
		// a lowercase and previous letter is not "_".
		if i > 0 && i < len(rs)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rs[i-1]) ||
				j != i-1 && unicode.IsLower(rs[i+1]) && unicode.IsLetter(rs[i-1]) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// tagName is the struct tag key read by the loader.
const tagName = "mapbuilder"

// fieldTag is the parsed form of a `mapbuilder:"key,opts..."` struct tag.
type fieldTag struct {
	key      string
	nullable bool
	def      bool
}

func parseTag(tag string) (fieldTag, error) {
	var ft fieldTag
	value, ok := reflect.StructTag(tag).Lookup(tagName)
	if !ok {
		return ft, nil
	}
	parts := strings.Split(value, ",")
	ft.key = strings.TrimSpace(parts[0])
	for _, opt := range parts[1:] {
		switch strings.TrimSpace(opt) {
		case "nullable":
			ft.nullable = true
		case "default":
			ft.def = true
		case "":
		default:
			return ft, fmt.Errorf("unknown %s tag option %q", tagName, opt)
		}
	}
	return ft, nil
}

// nilable reports whether nil is a valid value of t.
func nilable(t types.Type) bool {
	if _, ok := t.(*types.TypeParam); ok {
		return false
	}
	switch t.Underlying().(type) {
	case *types.Pointer, *types.Interface, *types.Slice, *types.Map, *types.Chan, *types.Signature:
		return true
	}
	return false
}

// nullableByType reports whether a field of type t is nullable without
// being tagged: pointers and interfaces.
func nullableByType(t types.Type) bool {
	if _, ok := t.(*types.TypeParam); ok {
		return false
	}
	switch t.Underlying().(type) {
	case *types.Pointer, *types.Interface:
		return true
	}
	return false
}
