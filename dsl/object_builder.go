package dsl

import (
	"fmt"

	"github.com/reoring/argskema"
	"github.com/reoring/argskema/codec"
)

type objectBuilder struct {
	fields []argskema.FieldDescriptor
	index  map[string]int
	errs   []error
}

type fieldStep struct {
	b *objectBuilder
	i int // -1 when the field was rejected
}

// Object creates a new record builder. Fields keep their declaration order.
func Object() *objectBuilder {
	return &objectBuilder{index: map[string]int{}}
}

// Field registers a field with its declared type.
func (b *objectBuilder) Field(name string, t argskema.Type) *fieldStep {
	if name == "" {
		b.errs = append(b.errs, &argskema.SchemaError{Reason: "field without a name"})
		return &fieldStep{b: b, i: -1}
	}
	if _, dup := b.index[name]; dup {
		b.errs = append(b.errs, &argskema.SchemaError{Field: name, Reason: "duplicate field name"})
		return &fieldStep{b: b, i: -1}
	}
	b.index[name] = len(b.fields)
	b.fields = append(b.fields, argskema.FieldDescriptor{Name: name, Type: t})
	return &fieldStep{b: b, i: len(b.fields) - 1}
}

func (f *fieldStep) fd() *argskema.FieldDescriptor {
	if f.i < 0 {
		return &argskema.FieldDescriptor{}
	}
	return &f.b.fields[f.i]
}

// Default sets a static default for the current field, replacing any factory.
func (f *fieldStep) Default(v any) *fieldStep {
	fd := f.fd()
	fd.Default, fd.HasDefault, fd.DefaultFactory = v, true, nil
	return f
}

// DefaultFunc sets a default factory, invoked on every parse call in which the
// field is absent. It replaces any static default.
func (f *fieldStep) DefaultFunc(fn func() any) *fieldStep {
	fd := f.fd()
	fd.DefaultFactory, fd.Default, fd.HasDefault = fn, nil, false
	return f
}

// DefaultFactory sets the default factory registered under name in the codec package.
func (f *fieldStep) DefaultFactory(name string) *fieldStep {
	fn, ok := codec.LookupFactory(name)
	if !ok {
		f.b.errs = append(f.b.errs, &argskema.SchemaError{Field: f.fd().Name, Reason: fmt.Sprintf("unknown default factory %q", name)})
		return f
	}
	return f.DefaultFunc(fn)
}

// Required drops any default so the field must be supplied, and returns the builder.
func (f *fieldStep) Required() *objectBuilder {
	fd := f.fd()
	fd.Default, fd.HasDefault, fd.DefaultFactory = nil, false, nil
	return f.b
}

// Args sets explicit flag strings, or a single bare name for a positional.
func (f *fieldStep) Args(args ...string) *fieldStep {
	f.fd().Meta.Args = append([]string(nil), args...)
	return f
}

// Positional makes the field bind by position under its own name.
func (f *fieldStep) Positional() *fieldStep { return f.Args(f.fd().Name) }

// Nargs requests exactly n values for a list field.
func (f *fieldStep) Nargs(n int) *fieldStep {
	f.fd().Meta.Nargs = argskema.Nargs(n)
	return f
}

// OneOrMore requests one or more values for a list field ("+").
func (f *fieldStep) OneOrMore() *fieldStep {
	f.fd().Meta.Nargs = argskema.NargsOneOrMore
	return f
}

// Convert overrides the per-token converter of the field.
func (f *fieldStep) Convert(name string, conv argskema.Converter) *fieldStep {
	fd := f.fd()
	fd.Meta.Type, fd.Meta.TypeName = conv, name
	return f
}

// Codec overrides the per-token converter with one registered in the codec package.
func (f *fieldStep) Codec(name string) *fieldStep {
	conv, ok := codec.Lookup(name)
	if !ok {
		f.b.errs = append(f.b.errs, &argskema.SchemaError{Field: f.fd().Name, Reason: fmt.Sprintf("unknown converter %q", name)})
		return f
	}
	return f.Convert(name, conv)
}

// Choices restricts the field to a closed set of decoded values.
func (f *fieldStep) Choices(cs ...any) *fieldStep {
	f.fd().Meta.Choices = append([]any(nil), cs...)
	return f
}

// Help sets the help text.
func (f *fieldStep) Help(s string) *fieldStep {
	f.fd().Meta.Help = s
	return f
}

// Meta stores an extra metadata key. Extra keys are kept but never interpreted.
func (f *fieldStep) Meta(key string, v any) *fieldStep {
	fd := f.fd()
	if fd.Meta.Extra == nil {
		fd.Meta.Extra = map[string]any{}
	}
	fd.Meta.Extra[key] = v
	return f
}

func (f *fieldStep) Field(name string, t argskema.Type) *fieldStep    { return f.b.Field(name, t) }
func (f *fieldStep) Build() (argskema.Record[map[string]any], error)  { return f.b.Build() }
func (f *fieldStep) MustBuild() argskema.Record[map[string]any]       { return f.b.MustBuild() }
func (f *fieldStep) Descriptors() ([]argskema.FieldDescriptor, error) { return f.b.Descriptors() }

// Descriptors validates the builder and returns the field descriptors.
// Static defaults are decoded against the field type so "42" and 42 both
// declare an int default.
func (b *objectBuilder) Descriptors() ([]argskema.FieldDescriptor, error) {
	if len(b.errs) > 0 {
		return nil, b.errs[0]
	}
	if len(b.fields) == 0 {
		return nil, &argskema.SchemaError{Reason: "record declares no fields"}
	}
	out := make([]argskema.FieldDescriptor, len(b.fields))
	copy(out, b.fields)
	for i := range out {
		fd := &out[i]
		if !fd.HasDefault || fd.Type.GoType == nil {
			continue
		}
		v, err := argskema.DecodeDefault(*fd, fd.Default)
		if err != nil {
			return nil, &argskema.SchemaError{Field: fd.Name, Reason: "invalid default", Cause: err}
		}
		fd.Default = v
	}
	return out, nil
}

// Build validates the builder and returns a record materialized as map[string]any.
func (b *objectBuilder) Build() (argskema.Record[map[string]any], error) {
	fields, err := b.Descriptors()
	if err != nil {
		return nil, err
	}
	return argskema.NewRecord[map[string]any](fields), nil
}

// MustBuild is like Build but panics on error.
func (b *objectBuilder) MustBuild() argskema.Record[map[string]any] {
	r, err := b.Build()
	if err != nil {
		panic(err)
	}
	return r
}
