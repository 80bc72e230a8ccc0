package argskema

import (
	"bytes"
	"encoding"
	"reflect"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/reoring/argskema/codec"
)

// Record is a record type the parser can describe. Fields is called once per
// parse call and must return the fields in declaration order.
type Record[T any] interface {
	Fields() ([]FieldDescriptor, error)
	// record ties T to the interface so it can be inferred from arguments.
	record(T)
}

// FieldOverride attaches metadata a struct tag cannot express, such as a
// converter function, typed choices or a default factory.
type FieldOverride struct {
	Meta           Metadata
	Default        any
	DefaultFactory func() any
}

// FieldOverrider is implemented by record structs that override field
// metadata programmatically. Keys are field names (after snake_case).
type FieldOverrider interface {
	FieldOverrides() map[string]FieldOverride
}

type structRecord[T any] struct{}

// Struct returns the Record of the struct type T. The struct is walked again
// on every Fields call.
func Struct[T any]() Record[T] { return structRecord[T]{} }

func (structRecord[T]) record(T) {}

func (structRecord[T]) Fields() ([]FieldDescriptor, error) {
	return Describe(reflect.TypeFor[T]())
}

type fixedRecord[T any] struct{ fields []FieldDescriptor }

// NewRecord returns a Record over prebuilt descriptors. Descriptors are
// immutable once built; default factories still run per call.
func NewRecord[T any](fields []FieldDescriptor) Record[T] {
	cp := make([]FieldDescriptor, len(fields))
	copy(cp, fields)
	return fixedRecord[T]{fields: cp}
}

func (fixedRecord[T]) record(T) {}

func (r fixedRecord[T]) Fields() ([]FieldDescriptor, error) {
	if len(r.fields) == 0 {
		return nil, schemaErrorf(reflect.TypeFor[T]().String(), "", "record declares no fields")
	}
	out := make([]FieldDescriptor, len(r.fields))
	copy(out, r.fields)
	return out, nil
}

var (
	timeType       = reflect.TypeFor[time.Time]()
	durationType   = reflect.TypeFor[time.Duration]()
	uuidType       = reflect.TypeFor[uuid.UUID]()
	unmarshalerTyp = reflect.TypeFor[encoding.TextUnmarshaler]()
	marshalerTyp   = reflect.TypeFor[encoding.TextMarshaler]()
	overriderType  = reflect.TypeFor[FieldOverrider]()
)

// Describe walks a struct type (or pointer to struct) and returns its field
// descriptors in declaration order.
func Describe(rt reflect.Type) ([]FieldDescriptor, error) {
	if rt == nil {
		return nil, schemaErrorf("<nil>", "", "not a struct type")
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	typeName := rt.String()
	if rt.Kind() != reflect.Struct {
		return nil, schemaErrorf(typeName, "", "not a struct type (kind %s)", rt.Kind())
	}
	var fields []FieldDescriptor
	seen := map[string]bool{}
	if err := describeStruct(rt, nil, typeName, seen, &fields); err != nil {
		return nil, err
	}
	if len(fields) == 0 {
		return nil, schemaErrorf(typeName, "", "struct declares no fields")
	}
	if err := applyOverrides(rt, typeName, fields); err != nil {
		return nil, err
	}
	return fields, nil
}

func describeStruct(rt reflect.Type, prefix []int, typeName string, seen map[string]bool, out *[]FieldDescriptor) error {
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		index := append(append([]int(nil), prefix...), i)
		if isEmbeddedRecord(sf) {
			if err := describeStruct(sf.Type, index, typeName, seen, out); err != nil {
				return err
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		name := ResolveFieldName(sf)
		if name == "-" {
			continue
		}
		if seen[name] {
			return schemaErrorf(typeName, name, "duplicate field name")
		}
		seen[name] = true
		fd, err := describeField(sf, name, typeName)
		if err != nil {
			return err
		}
		fd.Index = index
		*out = append(*out, fd)
	}
	return nil
}

func describeField(sf reflect.StructField, name, typeName string) (FieldDescriptor, error) {
	t, err := TypeOf(sf.Type)
	if err != nil {
		return FieldDescriptor{}, &SchemaError{Type: typeName, Field: name, Reason: "unsupported field type", Cause: err}
	}
	fd := FieldDescriptor{Name: name, Type: t}
	tag := sf.Tag

	if v, ok := tag.Lookup("args"); ok {
		for _, a := range strings.Split(v, "|") {
			fd.Meta.Args = append(fd.Meta.Args, strings.TrimSpace(a))
		}
	}
	if v, ok := tag.Lookup("nargs"); ok {
		n, err := ParseNargs(v)
		if err != nil {
			return FieldDescriptor{}, &SpecError{Field: name, Reason: "invalid nargs tag", Cause: err}
		}
		fd.Meta.Nargs = n
	}
	if v, ok := tag.Lookup("type"); ok {
		conv, found := codec.Lookup(strings.TrimSpace(v))
		if !found {
			return FieldDescriptor{}, schemaErrorf(typeName, name, "unknown converter %q", v)
		}
		fd.Meta.Type = conv
		fd.Meta.TypeName = strings.TrimSpace(v)
	}
	if v, ok := tag.Lookup("choices"); ok {
		for _, c := range strings.Split(v, "|") {
			fd.Meta.Choices = append(fd.Meta.Choices, strings.TrimSpace(c))
		}
	}
	fd.Meta.Help = tag.Get("help")
	if v, ok := tag.Lookup("default"); ok {
		d, err := decodeTagDefault(fd, v)
		if err != nil {
			return FieldDescriptor{}, &SchemaError{Type: typeName, Field: name, Reason: "invalid default tag", Cause: err}
		}
		fd.Default, fd.HasDefault = d, true
	}
	if v, ok := tag.Lookup("default_factory"); ok {
		f, found := codec.LookupFactory(strings.TrimSpace(v))
		if !found {
			return FieldDescriptor{}, schemaErrorf(typeName, name, "unknown default factory %q", v)
		}
		fd.DefaultFactory = f
	}
	if fd.HasDefault && fd.DefaultFactory != nil {
		return FieldDescriptor{}, schemaErrorf(typeName, name, "field has both a default and a default factory")
	}
	return fd, nil
}

// decodeTagDefault decodes a default tag: list fields take a JSON array,
// every other field a single token.
func decodeTagDefault(fd FieldDescriptor, v string) (any, error) {
	if !fd.Type.IsList() {
		return DecodeDefault(fd, v)
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(v)))
	dec.UseNumber()
	var items []any
	if err := dec.Decode(&items); err != nil {
		return nil, err
	}
	return DecodeDefault(fd, items)
}

func applyOverrides(rt reflect.Type, typeName string, fields []FieldDescriptor) error {
	var ov FieldOverrider
	switch {
	case rt.Implements(overriderType):
		ov = reflect.Zero(rt).Interface().(FieldOverrider)
	case reflect.PointerTo(rt).Implements(overriderType):
		ov = reflect.New(rt).Interface().(FieldOverrider)
	default:
		return nil
	}
	byName := make(map[string]int, len(fields))
	for i, f := range fields {
		byName[f.Name] = i
	}
	for name, o := range ov.FieldOverrides() {
		i, ok := byName[name]
		if !ok {
			return schemaErrorf(typeName, name, "override for an unknown field")
		}
		fd := &fields[i]
		mergeMetadata(&fd.Meta, o.Meta)
		if o.Default != nil {
			fd.Default, fd.HasDefault = o.Default, true
			fd.DefaultFactory = nil
		}
		if o.DefaultFactory != nil {
			fd.DefaultFactory = o.DefaultFactory
			fd.Default, fd.HasDefault = nil, false
		}
		if o.Default != nil && o.DefaultFactory != nil {
			return schemaErrorf(typeName, name, "field has both a default and a default factory")
		}
	}
	return nil
}

func mergeMetadata(dst *Metadata, src Metadata) {
	if len(src.Args) > 0 {
		dst.Args = src.Args
	}
	if src.Nargs != 0 {
		dst.Nargs = src.Nargs
	}
	if src.Type != nil {
		dst.Type = src.Type
		dst.TypeName = src.TypeName
	}
	if len(src.Choices) > 0 {
		dst.Choices = src.Choices
	}
	if src.Help != "" {
		dst.Help = src.Help
	}
	for k, v := range src.Extra {
		if dst.Extra == nil {
			dst.Extra = map[string]any{}
		}
		dst.Extra[k] = v
	}
}

// TypeOf infers the declared Type of a Go type.
func TypeOf(rt reflect.Type) (Type, error) {
	switch rt {
	case durationType:
		return Type{Kind: KindCustom, Name: "duration", Convert: codec.Duration, Format: formatStringer, GoType: rt}, nil
	case timeType:
		return Type{Kind: KindCustom, Name: "datetime", Convert: codec.ISODateTime, Format: formatTime, GoType: rt}, nil
	case uuidType:
		return Type{Kind: KindCustom, Name: "uuid", Convert: codec.UUID, Format: formatStringer, GoType: rt}, nil
	}
	if reflect.PointerTo(rt).Implements(unmarshalerTyp) {
		return textType(rt), nil
	}
	switch rt.Kind() {
	case reflect.String:
		return Type{Kind: KindString, Name: "str", GoType: rt}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return Type{Kind: KindInt, Name: "int", GoType: rt}, nil
	case reflect.Float32, reflect.Float64:
		return Type{Kind: KindFloat, Name: "float", GoType: rt}, nil
	case reflect.Bool:
		return Type{Kind: KindBool, Name: "bool", GoType: rt}, nil
	case reflect.Slice:
		et, err := TypeOf(rt.Elem())
		if err != nil {
			return Type{}, err
		}
		if et.IsList() {
			return Type{}, schemaErrorf(rt.String(), "", "nested lists are not supported")
		}
		return Type{Kind: KindList, Elem: &et, GoType: rt}, nil
	}
	return Type{}, schemaErrorf(rt.String(), "", "unsupported kind %s", rt.Kind())
}

// textType builds a custom type over encoding.TextUnmarshaler.
func textType(rt reflect.Type) Type {
	t := Type{Kind: KindCustom, Name: rt.Name(), GoType: rt}
	if t.Name == "" {
		t.Name = rt.String()
	}
	t.Convert = func(s string) (any, error) {
		p := reflect.New(rt)
		if err := p.Interface().(encoding.TextUnmarshaler).UnmarshalText([]byte(s)); err != nil {
			return nil, err
		}
		return p.Elem().Interface(), nil
	}
	if rt.Implements(marshalerTyp) || reflect.PointerTo(rt).Implements(marshalerTyp) {
		t.Format = func(v any) string {
			p := reflect.New(rt)
			p.Elem().Set(reflect.ValueOf(v))
			b, err := p.Interface().(encoding.TextMarshaler).MarshalText()
			if err != nil {
				return ""
			}
			return string(b)
		}
	}
	return t
}

func formatTime(v any) string {
	if t, ok := v.(time.Time); ok {
		return codec.FormatDateTime(t)
	}
	return ""
}

func formatStringer(v any) string {
	if s, ok := v.(interface{ String() string }); ok {
		return s.String()
	}
	return ""
}

// FieldIndex resolves a record field name to a struct field index path,
// descending into value-embedded structs the way Describe does.
func FieldIndex(rt reflect.Type, name string) ([]int, bool) {
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil, false
	}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if isEmbeddedRecord(sf) {
			if sub, ok := FieldIndex(sf.Type, name); ok {
				return append([]int{i}, sub...), true
			}
			continue
		}
		if sf.IsExported() && ResolveFieldName(sf) == name {
			return []int{i}, true
		}
	}
	return nil, false
}

// isEmbeddedRecord reports whether sf is a value-embedded struct whose fields
// are promoted into the record.
func isEmbeddedRecord(sf reflect.StructField) bool {
	if !sf.Anonymous || sf.Type.Kind() != reflect.Struct || sf.Tag.Get("name") != "" {
		return false
	}
	return sf.Type != timeType && !reflect.PointerTo(sf.Type).Implements(unmarshalerTyp)
}
