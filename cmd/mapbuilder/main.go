// Command mapbuilder generates map-backed builders for Go record types.
//
//	mapbuilder generate ./...               # builders for //mapbuilder:record types
//	mapbuilder generate --type User ./model # builders for the named types
//	mapbuilder watch ./...                  # regenerate on change
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
