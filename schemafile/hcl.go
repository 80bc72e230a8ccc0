package schemafile

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"

	"github.com/reoring/argskema"
)

// hclDocument is the top-level structure of an HCL schema document.
type hclDocument struct {
	Prog        string      `hcl:"prog,optional"`
	Description string      `hcl:"description,optional"`
	Fields      []*hclField `hcl:"field,block"`
}

type hclField struct {
	Name string   `hcl:"name,label"`
	Body hcl.Body `hcl:",remain"`
}

var fieldBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "type", Required: true},
		{Name: "default"},
		{Name: "default_factory"},
		{Name: "args"},
		{Name: "nargs"},
		{Name: "converter"},
		{Name: "choices"},
		{Name: "help"},
	},
}

// LoadHCL builds a File from an HCL document. filename is used in diagnostics.
func LoadHCL(data []byte, filename string) (*File, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(data, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("schemafile: parse %s: %w", filename, diags)
	}

	var doc hclDocument
	diags = gohcl.DecodeBody(file.Body, nil, &doc)
	if diags.HasErrors() {
		return nil, &argskema.SchemaError{Reason: "malformed schema document", Cause: diags}
	}

	docs := make([]fieldDoc, 0, len(doc.Fields))
	for _, f := range doc.Fields {
		d, diags := decodeHCLField(f)
		if diags.HasErrors() {
			return nil, &argskema.SchemaError{Field: f.Name, Reason: "invalid field block", Cause: diags}
		}
		docs = append(docs, d)
	}
	return build(doc.Prog, doc.Description, docs)
}

func decodeHCLField(f *hclField) (fieldDoc, hcl.Diagnostics) {
	d := fieldDoc{Name: f.Name}
	content, remain, diags := f.Body.PartialContent(fieldBodySchema)
	if diags.HasErrors() {
		return d, diags
	}

	for name, dst := range map[string]*string{
		"type":            &d.Type,
		"default_factory": &d.DefaultFactory,
		"converter":       &d.Converter,
		"help":            &d.Help,
	} {
		if attr, ok := content.Attributes[name]; ok {
			diags = append(diags, gohcl.DecodeExpression(attr.Expr, nil, dst)...)
		}
	}

	// Defaults, choices and nargs must be literal values, so no eval context.
	values := map[string]any{}
	for _, name := range []string{"default", "args", "nargs", "choices"} {
		attr, ok := content.Attributes[name]
		if !ok {
			continue
		}
		val, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		v, err := ctyToGo(val)
		if err != nil {
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  fmt.Sprintf("Invalid %s value", name),
				Detail:   err.Error(),
				Subject:  attr.Expr.Range().Ptr(),
			})
			continue
		}
		values[name] = v
	}
	if v, ok := values["default"]; ok {
		d.Default, d.HasDefault = v, true
	}
	if v, ok := values["args"]; ok {
		args, err := stringList(v)
		if err != nil {
			rng := content.Attributes["args"].Expr.Range()
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid args value",
				Detail:   err.Error(),
				Subject:  &rng,
			})
		}
		d.Args = args
	}
	d.Nargs = values["nargs"]
	if v, ok := values["choices"]; ok {
		cs, isList := v.([]any)
		if !isList {
			rng := content.Attributes["choices"].Expr.Range()
			diags = append(diags, &hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Invalid choices value",
				Detail:   "The 'choices' attribute must be a list.",
				Subject:  &rng,
			})
		}
		d.Choices = cs
	}

	// Remaining attributes are kept as uninterpreted metadata.
	extra, extraDiags := remain.JustAttributes()
	diags = append(diags, extraDiags...)
	for name, attr := range extra {
		val, valDiags := attr.Expr.Value(nil)
		diags = append(diags, valDiags...)
		if valDiags.HasErrors() {
			continue
		}
		v, err := ctyToGo(val)
		if err != nil {
			continue
		}
		if d.Extra == nil {
			d.Extra = map[string]any{}
		}
		d.Extra[name] = v
	}
	return d, diags
}

// ctyToGo converts a literal cty value into the plain form used by YAML
// documents. Numbers become json.Number to keep their literal text.
func ctyToGo(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if !v.IsWhollyKnown() {
		return nil, fmt.Errorf("value is not known")
	}
	t := v.Type()
	switch {
	case t == cty.String:
		return v.AsString(), nil
	case t == cty.Number:
		return json.Number(v.AsBigFloat().Text('f', -1)), nil
	case t == cty.Bool:
		return v.True(), nil
	case t.IsListType() || t.IsTupleType() || t.IsSetType():
		out := make([]any, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			g, err := ctyToGo(ev)
			if err != nil {
				return nil, err
			}
			out = append(out, g)
		}
		return out, nil
	case t.IsMapType() || t.IsObjectType():
		out := map[string]any{}
		for it := v.ElementIterator(); it.Next(); {
			k, ev := it.Element()
			g, err := ctyToGo(ev)
			if err != nil {
				return nil, err
			}
			out[k.AsString()] = g
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported value type %s", t.FriendlyName())
}
