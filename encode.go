package argskema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	eng "github.com/reoring/argskema/internal/engine"
)

// EncodeArgs renders v back into command-line tokens that parse to the same
// values: "--field value" for every field, presence flags only when true,
// positionals last. Values that no token sequence can reproduce, such as
// false for a flag that defaults to true, are reported as *SchemaError.
func EncodeArgs[T any](r Record[T], v T) ([]string, error) {
	return encodeArgs(r, v, nil)
}

// EncodeArgsPreserving is EncodeArgs restricted to the fields the user
// supplied; fields that were resolved from defaults or factories are left out
// so re-parsing resolves them the same way again.
func EncodeArgsPreserving[T any](r Record[T], d Decoded[T]) ([]string, error) {
	keep := func(name string) bool { return d.Presence.Has(name, PresenceSeen) }
	return encodeArgs(r, d.Value, keep)
}

func encodeArgs[T any](r Record[T], v T, keep func(string) bool) ([]string, error) {
	fields, err := r.Fields()
	if err != nil {
		return nil, err
	}
	specs, err := BuildSpecs(fields)
	if err != nil {
		return nil, err
	}
	rv := reflect.ValueOf(&v).Elem()
	negFlags := false
	for _, s := range specs {
		for _, f := range s.Flags {
			negFlags = negFlags || eng.LooksNegative(f)
		}
	}
	flagLike := func(t string) bool {
		return len(t) > 1 && t[0] == '-' && (negFlags || !eng.LooksNegative(t))
	}
	var flags, positionals []string
	dashed, greedy := false, false
	for i, fd := range fields {
		if keep != nil && !keep(fd.Name) {
			continue
		}
		fv, ok, err := fieldValue(rv, fd)
		if err != nil {
			return nil, err
		}
		if !ok {
			if fd.Defaultable() || fd.Type.Kind == KindBool {
				continue
			}
			return nil, schemaErrorf(rv.Type().String(), fd.Name, "required field has no value")
		}
		s := specs[i]
		if s.Arity.Kind == ArityZero {
			switch {
			case truthy(fv):
				flags = append(flags, longFlag(s.Flags))
			case fd.HasDefault && truthy(fd.Default):
				return nil, schemaErrorf(rv.Type().String(), fd.Name, "false cannot be expressed: the flag defaults to true")
			}
			continue
		}
		toks, err := formatTokens(fd, s, fv)
		if err != nil {
			return nil, err
		}
		if s.Positional {
			for _, t := range toks {
				if strings.HasPrefix(t, "-") {
					dashed = true
				}
			}
			positionals = append(positionals, toks...)
			continue
		}
		flag := longFlag(s.Flags)
		if s.Arity.Kind == ArityOne {
			if flagLike(toks[0]) {
				flags = append(flags, flag+"="+toks[0])
			} else {
				flags = append(flags, flag, toks[0])
			}
			continue
		}
		for _, t := range toks {
			if flagLike(t) {
				return nil, schemaErrorf(rv.Type().String(), fd.Name, "list value %q would be read as a flag", t)
			}
		}
		greedy = greedy || s.Arity.Kind == ArityOneOrMore
		flags = append(flags, flag)
		flags = append(flags, toks...)
	}
	if len(positionals) > 0 {
		if dashed || greedy {
			flags = append(flags, "--")
		}
		flags = append(flags, positionals...)
	}
	return flags, nil
}

func truthy(v any) bool {
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Bool && rv.Bool()
}

func longFlag(flags []string) string {
	for _, f := range flags {
		if strings.HasPrefix(f, "--") {
			return f
		}
	}
	return flags[0]
}

func fieldValue(rv reflect.Value, fd FieldDescriptor) (any, bool, error) {
	if rv.Type() == mapRecordType {
		m, _ := rv.Interface().(map[string]any)
		v, ok := m[fd.Name]
		return v, ok && v != nil, nil
	}
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, false, schemaErrorf(rv.Type().String(), "", "nil record value")
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil, false, schemaErrorf(rv.Type().String(), "", "cannot encode %s", rv.Kind())
	}
	index := fd.Index
	if index == nil {
		var ok bool
		if index, ok = FieldIndex(rv.Type(), fd.Name); !ok {
			return nil, false, schemaErrorf(rv.Type().String(), fd.Name, "struct has no field for %q", fd.Name)
		}
	}
	return rv.FieldByIndex(index).Interface(), true, nil
}

func formatTokens(fd FieldDescriptor, s ArgumentSpec, v any) ([]string, error) {
	et := elementType(fd.Type)
	if !fd.Type.IsList() {
		return []string{formatToken(et, v)}, nil
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, schemaErrorf("", fd.Name, "list field holds %T", v)
	}
	if s.Arity.Kind == ArityFixed && rv.Len() != s.Arity.N {
		return nil, schemaErrorf("", fd.Name, "list holds %d values, nargs is %d", rv.Len(), s.Arity.N)
	}
	if rv.Len() == 0 {
		return nil, schemaErrorf("", fd.Name, "an empty list cannot be encoded as arguments")
	}
	out := make([]string, rv.Len())
	for i := range out {
		out[i] = formatToken(et, rv.Index(i).Interface())
	}
	return out, nil
}

func formatToken(t Type, v any) string {
	if t.Format != nil {
		return t.Format(v)
	}
	rv := reflect.ValueOf(v)
	switch {
	case rv.Kind() == reflect.String:
		return rv.String()
	case isInt(rv.Kind()):
		return strconv.FormatInt(rv.Int(), 10)
	case isUint(rv.Kind()):
		return strconv.FormatUint(rv.Uint(), 10)
	case isFloat(rv.Kind()):
		return strconv.FormatFloat(rv.Float(), 'g', -1, 64)
	case rv.Kind() == reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	}
	if s, ok := v.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprint(v)
}
