package argskema

import (
	"reflect"

	js "github.com/reoring/argskema/jsonschema"
)

var formats = map[string]string{
	"datetime": "date-time",
	"rfc3339":  "date-time",
	"date":     "date",
	"duration": "duration",
	"uuid":     "uuid",
}

// JSONSchema projects a record into a JSON Schema object. Factory defaults
// are not exported because they are computed per call.
func JSONSchema[T any](r Record[T]) (*js.Schema, error) {
	fields, err := r.Fields()
	if err != nil {
		return nil, err
	}
	specs, err := BuildSpecs(fields)
	if err != nil {
		return nil, err
	}
	out := &js.Schema{
		Title:                reflect.TypeFor[T]().Name(),
		Type:                 "object",
		Properties:           make(map[string]*js.Schema, len(fields)),
		AdditionalProperties: false,
	}
	for i, fd := range fields {
		s := specs[i]
		p := typeSchema(fd.Type)
		p.Description = fd.Meta.Help
		p.Flags = s.Flags
		p.Positional = s.Positional
		if fd.HasDefault {
			p.Default = fd.Default
		}
		switch s.Arity.Kind {
		case ArityFixed:
			n := s.Arity.N
			p.MinItems, p.MaxItems = &n, &n
		case ArityOneOrMore:
			one := 1
			p.MinItems = &one
		}
		if len(s.Choices) > 0 {
			target := p
			if p.Items != nil {
				target = p.Items
			}
			target.Enum = append([]any(nil), s.Choices...)
		}
		if s.Required {
			out.Required = append(out.Required, fd.Name)
		}
		out.Properties[fd.Name] = p
	}
	return out, nil
}

func typeSchema(t Type) *js.Schema {
	switch t.Kind {
	case KindString:
		return &js.Schema{Type: "string"}
	case KindInt:
		return &js.Schema{Type: "integer"}
	case KindFloat:
		return &js.Schema{Type: "number"}
	case KindBool:
		return &js.Schema{Type: "boolean"}
	case KindList:
		return &js.Schema{Type: "array", Items: typeSchema(elementType(t))}
	}
	return &js.Schema{Type: "string", Format: formats[t.Name]}
}
