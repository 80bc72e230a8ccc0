package schemafile

import (
	_ "embed"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema.json
var schemaData []byte

var compiled *jsonschema.Schema

func init() {
	var err error
	compiled, err = jsonschema.CompileString("schema.json", string(schemaData))
	if err != nil {
		panic(fmt.Errorf("compile schemafile schema: %w", err))
	}
}

// Validate checks a JSON-decoded document against the document schema.
func Validate(doc any) error {
	if err := compiled.Validate(doc); err != nil {
		return fmt.Errorf("validate schema document: %w", err)
	}
	return nil
}
