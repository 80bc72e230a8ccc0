package dsl

import (
	"github.com/reoring/argskema"
)

// ObjectOf returns a typed record builder that ends in Bind()/MustBind().
func ObjectOf[T any]() *objectBuilderT[T] { return &objectBuilderT[T]{inner: Object()} }

type objectBuilderT[T any] struct{ inner *objectBuilder }

// fieldStepT is a typed variant of fieldStep that keeps Bind reachable while
// chaining field options.
type fieldStepT[T any] struct {
	tb   *objectBuilderT[T]
	step *fieldStep
}

// Field registers a field and returns a typed field step for chaining.
func (tb *objectBuilderT[T]) Field(name string, t argskema.Type) *fieldStepT[T] {
	return &fieldStepT[T]{tb: tb, step: tb.inner.Field(name, t)}
}

// Bind validates the builder and binds its fields to the struct T.
func (tb *objectBuilderT[T]) Bind() (argskema.Record[T], error) { return Bind[T](tb.inner) }

// MustBind is like Bind but panics on error.
func (tb *objectBuilderT[T]) MustBind() argskema.Record[T] { return MustBind[T](tb.inner) }

func (f *fieldStepT[T]) Default(v any) *fieldStepT[T]             { f.step.Default(v); return f }
func (f *fieldStepT[T]) DefaultFunc(fn func() any) *fieldStepT[T] { f.step.DefaultFunc(fn); return f }
func (f *fieldStepT[T]) DefaultFactory(name string) *fieldStepT[T] {
	f.step.DefaultFactory(name)
	return f
}
func (f *fieldStepT[T]) Required() *objectBuilderT[T]          { f.step.Required(); return f.tb }
func (f *fieldStepT[T]) Args(args ...string) *fieldStepT[T]    { f.step.Args(args...); return f }
func (f *fieldStepT[T]) Positional() *fieldStepT[T]            { f.step.Positional(); return f }
func (f *fieldStepT[T]) Nargs(n int) *fieldStepT[T]            { f.step.Nargs(n); return f }
func (f *fieldStepT[T]) OneOrMore() *fieldStepT[T]             { f.step.OneOrMore(); return f }
func (f *fieldStepT[T]) Codec(name string) *fieldStepT[T]      { f.step.Codec(name); return f }
func (f *fieldStepT[T]) Choices(cs ...any) *fieldStepT[T]      { f.step.Choices(cs...); return f }
func (f *fieldStepT[T]) Help(s string) *fieldStepT[T]          { f.step.Help(s); return f }
func (f *fieldStepT[T]) Meta(key string, v any) *fieldStepT[T] { f.step.Meta(key, v); return f }
func (f *fieldStepT[T]) Convert(name string, conv argskema.Converter) *fieldStepT[T] {
	f.step.Convert(name, conv)
	return f
}
func (f *fieldStepT[T]) Field(name string, t argskema.Type) *fieldStepT[T] {
	return f.tb.Field(name, t)
}
func (f *fieldStepT[T]) Bind() (argskema.Record[T], error) { return f.tb.Bind() }
func (f *fieldStepT[T]) MustBind() argskema.Record[T]      { return f.tb.MustBind() }
