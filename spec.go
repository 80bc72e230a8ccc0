package argskema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/reoring/argskema/codec"
)

// BuildSpecs maps descriptors to argument specs, keeping declaration order.
func BuildSpecs(fields []FieldDescriptor) ([]ArgumentSpec, error) {
	specs := make([]ArgumentSpec, 0, len(fields))
	for _, fd := range fields {
		s, err := BuildSpec(fd)
		if err != nil {
			return nil, err
		}
		specs = append(specs, s)
	}
	return specs, nil
}

// BuildSpec derives the argument spec of one field. Metadata combinations
// that cannot be honored are reported as *SpecError before any token is read.
func BuildSpec(fd FieldDescriptor) (ArgumentSpec, error) {
	s := ArgumentSpec{Dest: fd.Name, Help: fd.Meta.Help, Type: fd.Type}

	flags, positional, err := resolveFlags(fd)
	if err != nil {
		return ArgumentSpec{}, err
	}
	s.Flags, s.Positional = flags, positional

	switch {
	case fd.Meta.Nargs != 0:
		if !fd.Type.IsList() {
			return ArgumentSpec{}, specErrorf(fd.Name, "nargs %s requires a list type, got %s", fd.Meta.Nargs, fd.Type)
		}
		if fd.Meta.Nargs == NargsOneOrMore {
			s.Arity = Arity{Kind: ArityOneOrMore}
		} else {
			s.Arity = Arity{Kind: ArityFixed, N: int(fd.Meta.Nargs)}
		}
	case fd.Type.Kind == KindBool && !positional:
		s.Arity = Arity{Kind: ArityZero}
	case fd.Type.IsList():
		s.Arity = Arity{Kind: ArityOneOrMore}
	default:
		s.Arity = Arity{Kind: ArityOne}
	}

	et := elementType(fd.Type)
	if s.Arity.Kind == ArityZero {
		if len(fd.Meta.Choices) > 0 {
			return ArgumentSpec{}, specErrorf(fd.Name, "choices cannot apply to a presence flag")
		}
		s.Convert = func(string) (any, error) { return true, nil }
		return s, nil
	}

	conv, err := tokenConverter(fd)
	if err != nil {
		return ArgumentSpec{}, err
	}
	s.Convert = conv

	for _, c := range fd.Meta.Choices {
		v, err := decodeChoice(fd, et, c)
		if err != nil {
			return ArgumentSpec{}, &SpecError{Field: fd.Name, Reason: fmt.Sprintf("invalid choice %v", c), Cause: err}
		}
		s.Choices = append(s.Choices, v)
	}
	s.Required = !fd.Defaultable()
	return s, nil
}

func resolveFlags(fd FieldDescriptor) ([]string, bool, error) {
	if len(fd.Meta.Args) == 0 {
		return []string{FlagName(fd.Name)}, false, nil
	}
	bare := 0
	for _, a := range fd.Meta.Args {
		switch {
		case a == "":
			return nil, false, specErrorf(fd.Name, "empty flag string in args")
		case a == "-" || a == "--":
			return nil, false, specErrorf(fd.Name, "%q is not a flag", a)
		case !strings.HasPrefix(a, "-"):
			bare++
		}
	}
	switch {
	case bare == 0:
		return append([]string(nil), fd.Meta.Args...), false, nil
	case bare == 1 && len(fd.Meta.Args) == 1:
		return []string{fd.Meta.Args[0]}, true, nil
	}
	return nil, false, specErrorf(fd.Name, "a positional takes exactly one bare name, got %q", strings.Join(fd.Meta.Args, " "))
}

// decodeChoice brings a declared choice to the element type. Choices of
// string fields are already decoded values and are never converted; text
// choices of other fields are decoded like a default element, so "2" and 2
// both name the int choice 2.
func decodeChoice(fd FieldDescriptor, et Type, c any) (any, error) {
	if c == nil {
		return nil, fmt.Errorf("missing value")
	}
	rv := reflect.ValueOf(c)
	textual := rv.Kind() == reflect.String
	if et.Kind == KindString {
		if textual && et.GoType == nil {
			return rv.String(), nil
		}
		return castTo(c, et.GoType)
	}
	if et.GoType == nil && !textual {
		return c, nil
	}
	return DecodeToken(fd, c)
}

func elementType(t Type) Type {
	if t.Kind != KindList {
		return t
	}
	if t.Elem == nil {
		return Type{Kind: KindString, Name: "str"}
	}
	return *t.Elem
}

// typeName is the name shown in invalid value messages.
func typeName(fd FieldDescriptor) string {
	if fd.Meta.TypeName != "" {
		return fd.Meta.TypeName
	}
	return elementType(fd.Type).String()
}

func elementConverter(fd FieldDescriptor) (Converter, error) {
	if fd.Meta.Type != nil {
		return fd.Meta.Type, nil
	}
	et := elementType(fd.Type)
	if et.Convert != nil {
		return et.Convert, nil
	}
	switch et.Kind {
	case KindString:
		return codec.Identity, nil
	case KindInt:
		return codec.Int, nil
	case KindFloat:
		return codec.Float, nil
	case KindBool:
		return codec.Bool, nil
	}
	return nil, specErrorf(fd.Name, "%s type has no converter", et)
}

// tokenConverter wraps the element converter so its output is cast to the
// element Go type. A value that is out of range for the type is an ordinary
// conversion error; output of another kind means the converter does not fit
// the field and is reported as *SpecError.
func tokenConverter(fd FieldDescriptor) (Converter, error) {
	conv, err := elementConverter(fd)
	if err != nil {
		return nil, err
	}
	rt := elementType(fd.Type).GoType
	if rt == nil {
		return conv, nil
	}
	name := fd.Name
	return func(s string) (any, error) {
		v, err := conv(s)
		if err != nil {
			return nil, err
		}
		out, cerr := castTo(v, rt)
		switch {
		case cerr == nil:
			return out, nil
		case sameFamily(reflect.TypeOf(v), rt):
			// out of range for the field, e.g. 70000 for a uint16
			return nil, cerr
		}
		return nil, &SpecError{Field: name, Reason: "converter output does not fit the field type", Cause: cerr}
	}, nil
}

// DecodeToken decodes one element value of fd from a document or tag value.
// Textual values (including json.Number) go through the field converter;
// booleans and numbers are rendered to a token first.
func DecodeToken(fd FieldDescriptor, raw any) (any, error) {
	conv, err := tokenConverter(fd)
	if err != nil {
		return nil, err
	}
	switch v := raw.(type) {
	case nil:
		return nil, fmt.Errorf("missing value")
	case bool:
		return conv(strconv.FormatBool(v))
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() == reflect.String {
		return conv(rv.String())
	}
	if et := elementType(fd.Type); et.GoType != nil {
		if out, err := castTo(raw, et.GoType); err == nil {
			return out, nil
		}
	}
	return conv(fmt.Sprint(raw))
}

// DecodeDefault decodes a whole default value of fd: a slice for list fields,
// a single value otherwise.
func DecodeDefault(fd FieldDescriptor, raw any) (any, error) {
	if !fd.Type.IsList() {
		return DecodeToken(fd, raw)
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, fmt.Errorf("default of a list field must be a list, got %T", raw)
	}
	items := make([]any, rv.Len())
	for i := range items {
		v, err := DecodeToken(fd, rv.Index(i).Interface())
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		items[i] = v
	}
	if fd.Type.GoType == nil {
		return items, nil
	}
	return castTo(items, fd.Type.GoType)
}
