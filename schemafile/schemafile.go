// Package schemafile builds records from declarative YAML or HCL documents.
//
// A document names the program and lists its fields in order:
//
//	prog: copy
//	fields:
//	  - name: src
//	    type: str
//	    metadata: {args: [src]}
//	  - name: level
//	    type: int
//	    default: 1
//	    metadata: {args: [--level, -l], choices: [1, 2, 3]}
//
// The HCL form declares one `field "name" { ... }` block per field with the
// same keys flattened into the block body.
package schemafile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/reoring/argskema"
	"github.com/reoring/argskema/dsl"
)

// File is a loaded schema document.
type File struct {
	Prog        string
	Description string
	Fields      []argskema.FieldDescriptor
}

// Record returns a record materialized as map[string]any.
func (f *File) Record() argskema.Record[map[string]any] {
	return argskema.NewRecord[map[string]any](f.Fields)
}

// Options returns the parse options implied by the document.
func (f *File) Options() []argskema.Option {
	if f.Prog == "" {
		return nil
	}
	return []argskema.Option{argskema.WithProgram(f.Prog)}
}

// Load reads a schema document, choosing the format by file extension:
// .yaml, .yml and .json are read as YAML, .hcl as HCL.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("schemafile: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml", ".json":
		return LoadYAML(data)
	case ".hcl":
		return LoadHCL(data, path)
	default:
		return nil, fmt.Errorf("schemafile: unsupported extension %q", ext)
	}
}

// fieldDoc is the format-neutral form of one field entry. Scalars are kept
// as decoded: strings, bools, json.Number and []any.
type fieldDoc struct {
	Name           string
	Type           string
	Default        any
	HasDefault     bool
	DefaultFactory string
	Args           []string
	Nargs          any
	Converter      string
	Choices        []any
	Help           string
	Extra          map[string]any
}

func build(prog, desc string, docs []fieldDoc) (*File, error) {
	b := dsl.Object()
	for _, d := range docs {
		t, err := parseType(d.Type)
		if err != nil {
			return nil, &argskema.SchemaError{Field: d.Name, Reason: "invalid type", Cause: err}
		}
		if d.HasDefault && d.DefaultFactory != "" {
			return nil, &argskema.SchemaError{Field: d.Name, Reason: "both default and default_factory are set"}
		}
		step := b.Field(d.Name, t)
		if len(d.Args) > 0 {
			step.Args(d.Args...)
		}
		if d.Nargs != nil {
			n, err := argskema.ParseNargs(fmt.Sprint(d.Nargs))
			if err != nil {
				return nil, &argskema.SpecError{Field: d.Name, Reason: "invalid nargs", Cause: err}
			}
			if n == argskema.NargsOneOrMore {
				step.OneOrMore()
			} else {
				step.Nargs(int(n))
			}
		}
		if d.Converter != "" {
			step.Codec(d.Converter)
		}
		if len(d.Choices) > 0 {
			step.Choices(d.Choices...)
		}
		if d.Help != "" {
			step.Help(d.Help)
		}
		for k, v := range d.Extra {
			step.Meta(k, v)
		}
		switch {
		case d.HasDefault:
			step.Default(d.Default)
		case d.DefaultFactory != "":
			step.DefaultFactory(d.DefaultFactory)
		}
	}
	fields, err := b.Descriptors()
	if err != nil {
		return nil, err
	}
	// Types without a Go destination keep defaults as written; run them
	// through the converter here so they match parsed values.
	for i := range fields {
		fd := &fields[i]
		if !fd.HasDefault || fd.Type.GoType != nil {
			continue
		}
		v, err := argskema.DecodeDefault(*fd, fd.Default)
		if err != nil {
			return nil, &argskema.SchemaError{Field: fd.Name, Reason: "invalid default", Cause: err}
		}
		fd.Default = v
	}
	return &File{Prog: prog, Description: desc, Fields: fields}, nil
}

// parseType maps a type string to a declared type: str, int, float, bool,
// datetime, duration, uuid, list[<elem>] or any converter name registered in
// the codec package.
func parseType(s string) (argskema.Type, error) {
	s = strings.TrimSpace(s)
	if inner, ok := strings.CutPrefix(s, "list["); ok {
		inner, ok = strings.CutSuffix(inner, "]")
		if !ok {
			return argskema.Type{}, fmt.Errorf("unterminated list type %q", s)
		}
		elem, err := parseType(inner)
		if err != nil {
			return argskema.Type{}, err
		}
		if elem.IsList() {
			return argskema.Type{}, fmt.Errorf("nested list type %q", s)
		}
		return dsl.List(elem), nil
	}
	switch s {
	case "":
		return argskema.Type{}, fmt.Errorf("empty type")
	case "str", "string":
		return dsl.String(), nil
	case "int":
		return dsl.Int(), nil
	case "float":
		return dsl.Float(), nil
	case "bool":
		return dsl.Bool(), nil
	case "datetime":
		return dsl.Time(), nil
	case "duration":
		return dsl.Duration(), nil
	case "uuid":
		return dsl.UUID(), nil
	}
	return dsl.Codec(s)
}

func stringList(v any) ([]string, error) {
	switch x := v.(type) {
	case nil:
		return nil, nil
	case string:
		return []string{x}, nil
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			s, ok := e.(string)
			if !ok {
				return nil, fmt.Errorf("want a string, got %T", e)
			}
			out = append(out, s)
		}
		return out, nil
	}
	return nil, fmt.Errorf("want a string or a list of strings, got %T", v)
}
