// Package gen generates map-backed builders for records loaded by the
// compiler/load package.
//
// # Architecture
//
// The code generation pipeline follows this flow:
//
//	Record declarations (//mapbuilder:record)
//	        ↓
//	   load.Record (explicit schema pass over go/packages)
//	        ↓
//	   Generator.Generate / GenerateAll (one Unit per record)
//	        ↓
//	   Emitter (FileEmitter, MemoryEmitter)
//	        ↓
//	   {record}_builder.go next to the record
//
// # Generated Output
//
// For a record User in package user, the generated user_builder.go holds:
//
//   - UserKeyXxx constants with the builder key of every field
//   - UserBuilder, a builder over mapbuilder.Values, and NewUserBuilder
//   - Contains, Get, Put and Build methods
//   - User.ToBuilder, User.MapBuilder and User.Rebuild
//
// Build extracts non-nullable fields with mapbuilder.RequireValue and
// nullable ones with mapbuilder.OptionalValue, using the fully resolved
// field type as the type argument:
//
//	_Email, err := mapbuilder.OptionalValue[*string](_b.values, UserKeyEmail)
//	_Pairs, err := mapbuilder.RequireValue[[]Pair[string, int]](_b.values, UserKeyPairs)
//
// Generated files are constrained with `//go:build !mapbuilder`, so that a
// stale builder never breaks the loading of its own record.
//
// # Error Handling
//
// The package uses structured error types:
//
//   - SchemaError: the record cannot have a builder
//   - UnresolvedTypeError: a field type has no name usable in generated code
//   - ConfigError: configuration errors
//   - GenerationError: emission errors
//
// A failing record never stops a batch:
//
//	report := g.GenerateAll(ctx, records)
//	for _, f := range report.Failures {
//	    if gen.IsUnresolvedType(f.Err) {
//	        // Handle unresolved type
//	    }
//	}
//	err := g.Write(ctx, report.Units, gen.FileEmitter{})
//
// # Configuration
//
// Configuration is done via the functional options pattern:
//
//	cfg, err := gen.NewConfig(
//	    gen.WithBuilderSuffix("Draft"),
//	    gen.WithWorkers(4),
//	    gen.WithLogger(logger),
//	)
//	g := gen.NewGenerator(cfg)
package gen
