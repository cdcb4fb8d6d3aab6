package buildflags

// User is a record whose builder file is stale.
//
//mapbuilder:record
type User struct {
	Name string
}
