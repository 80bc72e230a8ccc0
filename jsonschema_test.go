package argskema_test

import (
	"reflect"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/reoring/argskema"
)

func TestJSONSchema_Projection(t *testing.T) {
	s, err := argskema.JSONSchema(argskema.Struct[withFriends]())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.Type != "object" {
		t.Fatalf("type = %q", s.Type)
	}
	if diff := cmp.Diff([]string{"name", "friends"}, s.Required); diff != "" {
		t.Fatalf("required (-want +got):\n%s", diff)
	}
	f := s.Properties["friends"]
	if f == nil || f.Type != "array" || f.Items == nil || f.Items.Type != "string" {
		t.Fatalf("friends = %+v", f)
	}
	if f.MinItems == nil || *f.MinItems != 2 || f.MaxItems == nil || *f.MaxItems != 2 {
		t.Fatalf("friends bounds = %v/%v", f.MinItems, f.MaxItems)
	}

	s, err = argskema.JSONSchema(argskema.Struct[smallInt]())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff([]any{1, 2, 3}, s.Properties["small_integer"].Enum); diff != "" {
		t.Fatalf("enum (-want +got):\n%s", diff)
	}
}

func TestJSONSchema_ValidatesParsedValues(t *testing.T) {
	fields, err := argskema.Describe(reflect.TypeFor[withFriends]())
	if err != nil {
		t.Fatalf("describe: %v", err)
	}
	rec := argskema.NewRecord[map[string]any](fields)
	s, err := argskema.JSONSchema(rec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	doc, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal schema: %v", err)
	}
	compiled, err := jsonschema.CompileString("mem:with_friends", string(doc))
	if err != nil {
		t.Fatalf("compile exported schema: %v\n%s", err, doc)
	}

	v, err := argskema.ParseRecord(rec, []string{"--name", "Sam", "--friends", "pippin", "Frodo"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := compiled.Validate(jsonValue(t, v)); err != nil {
		t.Fatalf("parsed value does not validate: %v", err)
	}

	v["friends"] = []string{"one", "two", "three"}
	if err := compiled.Validate(jsonValue(t, v)); err == nil {
		t.Fatal("expected three friends to violate maxItems")
	}
}

func jsonValue(t *testing.T, v any) any {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	return out
}
