package codec

import (
	"bytes"

	json "github.com/goccy/go-json"
)

// JSON decodes a JSON document token. Numbers are kept as json.Number.
func JSON(s string) (any, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}
