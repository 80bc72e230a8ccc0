package argskema

import (
	"reflect"
)

// FieldToken identifies a field of the record struct T by its record field
// name. Obtain it via FieldOf to keep compile-time linkage to the struct field.
type FieldToken[T any] struct {
	name string
}

// Name returns the record field name (for example num_of_foo).
func (t FieldToken[T]) Name() string { return t.name }

// Flag returns the synthesized long flag of the field.
func (t FieldToken[T]) Flag() string { return FlagName(t.name) }

// FieldNameOf returns the record field name of a field of S selected by selector.
// Example: FieldNameOf[Options](func(o *Options) *int { return &o.NumOfFoo }) -> "num_of_foo".
// Fields promoted from value-embedded structs can be selected too.
func FieldNameOf[S any, F any](selector func(*S) *F) string {
	return FieldOf[S](selector).name
}

// FieldOf builds a FieldToken for a field of T.
//
//	FieldOf[Options](func(o *Options) *[]string { return &o.Friends })
//
// It panics when the selector does not address a record field of T.
func FieldOf[T any, F any](selector func(*T) *F) FieldToken[T] {
	if selector == nil {
		panic("argskema.FieldOf: selector must not be nil")
	}
	var zero T
	fp := reflect.ValueOf(selector(&zero)).Pointer()
	name, ok := findFieldName(reflect.ValueOf(&zero).Elem(), fp)
	if !ok {
		panic("argskema.FieldOf: selector must return the address of a record field")
	}
	return FieldToken[T]{name: name}
}

func findFieldName(v reflect.Value, target uintptr) (string, bool) {
	if v.Kind() != reflect.Struct {
		return "", false
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fv := v.Field(i)
		if isEmbeddedRecord(sf) {
			if name, ok := findFieldName(fv, target); ok {
				return name, true
			}
			continue
		}
		if !sf.IsExported() || !fv.CanAddr() || fv.Addr().Pointer() != target {
			continue
		}
		name := ResolveFieldName(sf)
		if name == "" || name == "-" {
			return "", false
		}
		return name, true
	}
	return "", false
}

// Seen reports whether the field was supplied on the command line.
func (d Decoded[T]) Seen(field FieldToken[T]) bool {
	return d.Presence.Has(field.name, PresenceSeen)
}

// DefaultApplied reports whether the field value came from its static default.
func (d Decoded[T]) DefaultApplied(field FieldToken[T]) bool {
	return d.Presence.Has(field.name, PresenceDefaultApplied)
}

// FactoryInvoked reports whether the field value came from its default factory.
func (d Decoded[T]) FactoryInvoked(field FieldToken[T]) bool {
	return d.Presence.Has(field.name, PresenceFactoryInvoked)
}
