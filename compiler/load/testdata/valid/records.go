package valid

import "fmt"

// Pair is a generic value type used by record fields.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}

// Base is embedded into Account.
type Base struct {
	ID int64
}

// User is a record.
//
//mapbuilder:record
type User struct {
	ID       int64
	FullName string
	Email    *string
	Active   bool `mapbuilder:",default"`
	Tags     []string
	Scores   map[string]int
	Pairs    []Pair[string, int]
	Label    fmt.Stringer
	Nickname string `mapbuilder:"nick"`
	Aliases  []string `mapbuilder:",nullable"`
}

type (
	// Account is a record declared in a group.
	//
	//mapbuilder:record
	Account struct {
		Base
		Owner *User
	}

	// Status is not a record.
	//
	//mapbuilder:record
	Status string
)

// Shape is an interface, not a record.
//
//mapbuilder:record
type Shape interface {
	Area() float64
}

// Box is a generic record.
//
//mapbuilder:record
type Box[T any] struct {
	Value T
}

// Ignored carries no directive.
type Ignored struct {
	Name string
}
