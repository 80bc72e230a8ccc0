package schemafile

import (
	"bytes"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/reoring/argskema"
)

type yamlDocument struct {
	Prog        string      `json:"prog"`
	Description string      `json:"description"`
	Fields      []yamlField `json:"fields"`
}

type yamlField struct {
	Name           string          `json:"name"`
	Type           string          `json:"type"`
	Default        json.RawMessage `json:"default"`
	DefaultFactory string          `json:"default_factory"`
	Metadata       map[string]any  `json:"metadata"`
}

// LoadYAML builds a File from a YAML (or JSON) document.
func LoadYAML(data []byte) (*File, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("schemafile: parse yaml: %w", err)
	}
	normalized, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("schemafile: normalize yaml: %w", err)
	}

	var instance any
	if err := json.Unmarshal(normalized, &instance); err != nil {
		return nil, fmt.Errorf("schemafile: normalize yaml: %w", err)
	}
	if err := Validate(instance); err != nil {
		return nil, &argskema.SchemaError{Reason: "malformed schema document", Cause: err}
	}

	var doc yamlDocument
	if err := decodeNumbers(normalized, &doc); err != nil {
		return nil, fmt.Errorf("schemafile: decode document: %w", err)
	}
	docs := make([]fieldDoc, 0, len(doc.Fields))
	for _, f := range doc.Fields {
		d, err := f.toDoc()
		if err != nil {
			return nil, &argskema.SchemaError{Field: f.Name, Reason: "invalid metadata", Cause: err}
		}
		docs = append(docs, d)
	}
	return build(doc.Prog, doc.Description, docs)
}

func (f yamlField) toDoc() (fieldDoc, error) {
	d := fieldDoc{Name: f.Name, Type: f.Type, DefaultFactory: f.DefaultFactory}
	if len(f.Default) > 0 {
		var v any
		if err := decodeNumbers(f.Default, &v); err != nil {
			return d, err
		}
		d.Default, d.HasDefault = v, true
	}
	for k, v := range f.Metadata {
		switch k {
		case "args":
			args, err := stringList(v)
			if err != nil {
				return d, fmt.Errorf("args: %w", err)
			}
			d.Args = args
		case "nargs":
			d.Nargs = v
		case "type":
			s, ok := v.(string)
			if !ok {
				return d, fmt.Errorf("type: want a converter name, got %T", v)
			}
			d.Converter = s
		case "choices":
			cs, ok := v.([]any)
			if !ok {
				return d, fmt.Errorf("choices: want a list, got %T", v)
			}
			d.Choices = cs
		case "help":
			s, ok := v.(string)
			if !ok {
				return d, fmt.Errorf("help: want a string, got %T", v)
			}
			d.Help = s
		default:
			if d.Extra == nil {
				d.Extra = map[string]any{}
			}
			d.Extra[k] = v
		}
	}
	return d, nil
}

// decodeNumbers keeps numbers as json.Number so the field converter sees the
// literal text.
func decodeNumbers(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return dec.Decode(v)
}
