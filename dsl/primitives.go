package dsl

import (
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/reoring/argskema"
	"github.com/reoring/argskema/codec"
)

// Of returns the declared type inferred from the Go type T, exactly as a
// struct field of type T would be described. It panics on unsupported types.
func Of[T any]() argskema.Type {
	t, err := argskema.TypeOf(reflect.TypeFor[T]())
	if err != nil {
		panic(err)
	}
	return t
}

// String returns the str type.
func String() argskema.Type { return Of[string]() }

// StringOf returns the str type materialized as the string-kinded type T.
func StringOf[T ~string]() argskema.Type { return Of[T]() }

// Int returns the int type materialized as int.
func Int() argskema.Type { return Of[int]() }

// IntOf returns the int type materialized as the integer type T.
func IntOf[T ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64]() argskema.Type {
	return Of[T]()
}

// Float returns the float type materialized as float64.
func Float() argskema.Type { return Of[float64]() }

// FloatOf returns the float type materialized as the float type T.
func FloatOf[T ~float32 | ~float64]() argskema.Type { return Of[T]() }

// Bool returns the bool type. Bool fields are presence flags unless positional.
func Bool() argskema.Type { return Of[bool]() }

// Time returns the ISO-8601 datetime type.
func Time() argskema.Type { return Of[time.Time]() }

// Duration returns the Go duration type ("1h30m").
func Duration() argskema.Type { return Of[time.Duration]() }

// UUID returns the UUID type.
func UUID() argskema.Type { return Of[uuid.UUID]() }

// List returns the list-of-elem type.
func List(elem argskema.Type) argskema.Type {
	t := argskema.Type{Kind: argskema.KindList, Elem: &elem}
	if elem.GoType != nil {
		t.GoType = reflect.SliceOf(elem.GoType)
	}
	return t
}

// Custom returns a type whose tokens are decoded by conv. Values are kept as
// conv returns them.
func Custom(name string, conv argskema.Converter) argskema.Type {
	return argskema.Type{Kind: argskema.KindCustom, Name: name, Convert: conv}
}

// CustomOf returns a type whose tokens are decoded by a typed converter.
func CustomOf[T any](name string, conv func(string) (T, error)) argskema.Type {
	return argskema.Type{
		Kind:   argskema.KindCustom,
		Name:   name,
		GoType: reflect.TypeFor[T](),
		Convert: func(s string) (any, error) {
			v, err := conv(s)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
	}
}

// Codec returns a custom type backed by the converter registered under name
// in the codec package.
func Codec(name string) (argskema.Type, error) {
	conv, ok := codec.Lookup(name)
	if !ok {
		return argskema.Type{}, fmt.Errorf("dsl: unknown converter %q", name)
	}
	return Custom(name, conv), nil
}
