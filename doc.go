// Package argskema compiles a record type into command-line arguments and
// materializes typed records from argv:
//
// - Schema -> argument specs: flag names, arity, converters, choices, required/positional status
// - Parsed values -> typed instance, with static defaults and per-call default factories
// - A stable error model: Issues for user input, SchemaError/SpecError for configuration
// - Exit mode (ParseOrExit) with argparse-compatible diagnostics and a replaceable exit function
//
// Records come from struct tags (Struct[T]), the builder in dsl/, or schema
// documents loaded by schemafile/. Converters and factories referenced by name
// live in codec/, and the CLI lives under cmd/argskema.
//
// Typical usage:
//
//	type Options struct {
//		NumOfFoo int      `default:"42" help:"how many foos"`
//		Name     string   `args:"name"`
//		Friends  []string `nargs:"2" default:"[]"`
//		Verbose  bool     `args:"-v|--verbose"`
//	}
//
//	opts, err := argskema.Parse[Options](os.Args[1:])
//	opts := argskema.ParseOrExit[Options](os.Args[1:])
package argskema
