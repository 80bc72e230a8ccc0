package argskema

import (
	"reflect"
)

var mapRecordType = reflect.TypeFor[map[string]any]()

// Materialize builds the typed instance from parsed values. Supplied fields
// take their parsed value; absent fields take their static default, a fresh
// factory result, or false for presence flags. Nothing is assigned unless
// every field resolved.
func Materialize[T any](fields []FieldDescriptor, values ParsedValues) (Decoded[T], error) {
	var zero Decoded[T]
	rt := reflect.TypeFor[T]()
	pm := PresenceMap{"/": PresenceSeen}

	resolved := make([]any, len(fields))
	for i, fd := range fields {
		v, bits, err := resolveField(rt, fd, values)
		if err != nil {
			return zero, err
		}
		resolved[i] = v
		pm[pointer(fd.Name)] = bits
	}

	var out T
	switch {
	case rt == mapRecordType:
		m := make(map[string]any, len(fields))
		for i, fd := range fields {
			v, err := castTo(resolved[i], fd.Type.GoType)
			if err != nil {
				return zero, &SchemaError{Type: rt.String(), Field: fd.Name, Reason: "value does not fit the field type", Cause: err}
			}
			m[fd.Name] = v
		}
		out = any(m).(T)
	case rt.Kind() == reflect.Struct || (rt.Kind() == reflect.Pointer && rt.Elem().Kind() == reflect.Struct):
		st := rt
		if st.Kind() == reflect.Pointer {
			st = st.Elem()
		}
		sv := reflect.New(st)
		for i, fd := range fields {
			if err := setField(sv.Elem(), st, fd, resolved[i]); err != nil {
				return zero, err
			}
		}
		if rt.Kind() == reflect.Pointer {
			out = sv.Interface().(T)
		} else {
			out = sv.Elem().Interface().(T)
		}
	default:
		return zero, schemaErrorf(rt.String(), "", "cannot materialize into %s", rt.Kind())
	}
	return Decoded[T]{Value: out, Presence: pm}, nil
}

func resolveField(rt reflect.Type, fd FieldDescriptor, values ParsedValues) (any, Presence, error) {
	if v, ok := values[fd.Name]; ok {
		return v, PresenceSeen, nil
	}
	switch {
	case fd.HasDefault:
		return copyValue(fd.Default), PresenceDefaultApplied, nil
	case fd.DefaultFactory != nil:
		return fd.DefaultFactory(), PresenceFactoryInvoked, nil
	case fd.Type.Kind == KindBool:
		return false, PresenceDefaultApplied, nil
	}
	return nil, 0, schemaErrorf(rt.String(), fd.Name, "required field has no parsed value")
}

func setField(sv reflect.Value, st reflect.Type, fd FieldDescriptor, v any) error {
	index := fd.Index
	if index == nil {
		var ok bool
		if index, ok = FieldIndex(st, fd.Name); !ok {
			return schemaErrorf(st.String(), fd.Name, "struct has no field for %q", fd.Name)
		}
	}
	f := sv.FieldByIndex(index)
	if !f.CanSet() {
		return schemaErrorf(st.String(), fd.Name, "field is not settable")
	}
	cv, err := castTo(v, f.Type())
	if err != nil {
		return &SchemaError{Type: st.String(), Field: fd.Name, Reason: "value does not fit the field type", Cause: err}
	}
	f.Set(reflect.ValueOf(cv))
	return nil
}
