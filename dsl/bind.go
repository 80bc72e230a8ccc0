package dsl

import (
	"fmt"
	"reflect"

	"github.com/reoring/argskema"
)

// Bind validates the builder and binds its fields to struct type T (free
// function for Go version compatibility). Every field must resolve to a
// struct field by record name (name tag or snake_case of the Go name).
func Bind[T any](b *objectBuilder) (argskema.Record[T], error) {
	fields, err := b.Descriptors()
	if err != nil {
		return nil, err
	}
	rt := reflect.TypeFor[T]()
	st := rt
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return nil, &argskema.SchemaError{Type: rt.String(), Reason: "Bind[T] requires struct T"}
	}
	for i := range fields {
		idx, ok := argskema.FieldIndex(st, fields[i].Name)
		if !ok {
			return nil, &argskema.SchemaError{Type: rt.String(), Field: fields[i].Name, Reason: fmt.Sprintf("struct %s has no field for %q", st.Name(), fields[i].Name)}
		}
		fields[i].Index = idx
	}
	return argskema.NewRecord[T](fields), nil
}

// MustBind is like Bind but panics on error (free function for Go version compatibility).
func MustBind[T any](b *objectBuilder) argskema.Record[T] {
	r, err := Bind[T](b)
	if err != nil {
		panic(err)
	}
	return r
}
