// Package dsl provides an explicit builder for argskema records.
//
// Overview
//   - Builder API: declare fields in order with Object()/Field()/Default()/Args()/Nargs()/Choices() and Build()/MustBuild().
//   - Typed build: bind the same declarations to a struct with ObjectOf[T]().Field(...).MustBind().
//   - Types: String()/Int()/Float()/Bool()/List(elem)/Time()/Duration()/UUID(), Of[T]() for any
//     supported Go type, Custom(name, conv) and CustomOf[T] for converter-backed types, Codec(name)
//     for converters registered in the codec package.
//
// Builders are an alternative to struct tags: descriptors are produced once at
// Build time, while default factories registered with DefaultFunc still run on
// every parse call in which their field is absent.
//
// Example
//
//	rec := dsl.Object().
//	    Field("name", dsl.String()).Args("name").
//	    Field("friends", dsl.List(dsl.String())).Nargs(2).Default([]string{}).
//	    Field("level", dsl.Int()).Choices(1, 2, 3).Default(1).
//	    MustBuild()
//
//	v, err := argskema.ParseRecord(rec, os.Args[1:])
package dsl
