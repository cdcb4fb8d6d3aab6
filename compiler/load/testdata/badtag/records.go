package badtag

// Unknown has an unknown tag option.
//
//mapbuilder:record
type Unknown struct {
	Name string `mapbuilder:"name,required"`
}

// NotNilable marks a value type as nullable.
//
//mapbuilder:record
type NotNilable struct {
	Count int `mapbuilder:",nullable"`
}
