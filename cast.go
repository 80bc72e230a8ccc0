package argskema

import (
	"fmt"
	"math"
	"reflect"
)

// castTo converts v to rt when the conversion stays within one value family:
// integers and floats convert to each other when the value is representable,
// string-kinded types convert to other string-kinded types, slices convert
// element-wise. Numbers are never rendered into strings.
func castTo(v any, rt reflect.Type) (any, error) {
	if rt == nil {
		return v, nil
	}
	if v == nil {
		return nil, fmt.Errorf("cannot use nil as %s", rt)
	}
	rv := reflect.ValueOf(v)
	out, err := castValue(rv, rt)
	if err != nil {
		return nil, err
	}
	return out.Interface(), nil
}

func castValue(rv reflect.Value, rt reflect.Type) (reflect.Value, error) {
	st := rv.Type()
	if st == rt {
		return rv, nil
	}
	if rt.Kind() == reflect.Interface {
		if st.Implements(rt) {
			out := reflect.New(rt).Elem()
			out.Set(rv)
			return out, nil
		}
		return reflect.Value{}, fmt.Errorf("%s does not implement %s", st, rt)
	}
	// unwrap interface elements of []any
	if st.Kind() == reflect.Interface {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("cannot use nil as %s", rt)
		}
		return castValue(rv.Elem(), rt)
	}
	switch {
	case isInt(rt.Kind()) || isUint(rt.Kind()):
		return castInteger(rv, rt)
	case isFloat(rt.Kind()):
		switch {
		case isInt(st.Kind()):
			return reflect.ValueOf(float64(rv.Int())).Convert(rt), nil
		case isUint(st.Kind()):
			return reflect.ValueOf(float64(rv.Uint())).Convert(rt), nil
		case isFloat(st.Kind()):
			if rt.Kind() == reflect.Float32 && rv.Float() != 0 && math.Abs(rv.Float()) > math.MaxFloat32 {
				return reflect.Value{}, fmt.Errorf("%v overflows %s", rv.Float(), rt)
			}
			return rv.Convert(rt), nil
		}
	case rt.Kind() == reflect.String:
		if st.Kind() == reflect.String {
			return rv.Convert(rt), nil
		}
	case rt.Kind() == reflect.Bool:
		if st.Kind() == reflect.Bool {
			return rv.Convert(rt), nil
		}
	case rt.Kind() == reflect.Slice:
		if st.Kind() == reflect.Slice || st.Kind() == reflect.Array {
			out := reflect.MakeSlice(rt, rv.Len(), rv.Len())
			for i := 0; i < rv.Len(); i++ {
				ev, err := castValue(rv.Index(i), rt.Elem())
				if err != nil {
					return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
				}
				out.Index(i).Set(ev)
			}
			return out, nil
		}
	}
	if st.AssignableTo(rt) {
		out := reflect.New(rt).Elem()
		out.Set(rv)
		return out, nil
	}
	if st.Kind() == rt.Kind() && st.ConvertibleTo(rt) {
		return rv.Convert(rt), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", st, rt)
}

func castInteger(rv reflect.Value, rt reflect.Type) (reflect.Value, error) {
	st := rv.Type()
	out := reflect.New(rt).Elem()
	switch {
	case isInt(st.Kind()):
		n := rv.Int()
		if isUint(rt.Kind()) {
			if n < 0 || out.OverflowUint(uint64(n)) {
				return reflect.Value{}, fmt.Errorf("%d overflows %s", n, rt)
			}
			out.SetUint(uint64(n))
			return out, nil
		}
		if out.OverflowInt(n) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", n, rt)
		}
		out.SetInt(n)
		return out, nil
	case isUint(st.Kind()):
		n := rv.Uint()
		if isUint(rt.Kind()) {
			if out.OverflowUint(n) {
				return reflect.Value{}, fmt.Errorf("%d overflows %s", n, rt)
			}
			out.SetUint(n)
			return out, nil
		}
		if n > math.MaxInt64 || out.OverflowInt(int64(n)) {
			return reflect.Value{}, fmt.Errorf("%d overflows %s", n, rt)
		}
		out.SetInt(int64(n))
		return out, nil
	case isFloat(st.Kind()):
		f := rv.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return reflect.Value{}, fmt.Errorf("%v is not an integer", f)
		}
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return reflect.Value{}, fmt.Errorf("%v overflows %s", f, rt)
		}
		return castInteger(reflect.ValueOf(int64(f)), rt)
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", st, rt)
}

func isInt(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isFloat(k reflect.Kind) bool { return k == reflect.Float32 || k == reflect.Float64 }

// copyValue returns a shallow copy of slices and maps so a static default is
// never shared between two materialized instances.
func copyValue(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		reflect.Copy(out, rv)
		return out.Interface()
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), iter.Value())
		}
		return out.Interface()
	}
	return v
}

// sameFamily reports whether a and b are both numeric, both string-kinded or
// both boolean.
func sameFamily(a, b reflect.Type) bool {
	if a == nil || b == nil {
		return false
	}
	fam := func(k reflect.Kind) int {
		switch {
		case isInt(k) || isUint(k) || isFloat(k):
			return 1
		case k == reflect.String:
			return 2
		case k == reflect.Bool:
			return 3
		}
		return 0
	}
	fa := fam(a.Kind())
	return fa != 0 && fa == fam(b.Kind())
}
