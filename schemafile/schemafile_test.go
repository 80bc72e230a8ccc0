package schemafile_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/argskema"
	"github.com/reoring/argskema/schemafile"
)

func TestLoad_Formats(t *testing.T) {
	for _, name := range []string{"copy.yaml", "copy.hcl"} {
		t.Run(name, func(t *testing.T) {
			f, err := schemafile.Load(filepath.Join("testdata", name))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if f.Prog != "copy" || f.Description != "Copy files into a directory." {
				t.Fatalf("unexpected header: %q %q", f.Prog, f.Description)
			}

			v, err := argskema.ParseRecord(f.Record(), []string{"a.txt", "b.txt", "-d", "out", "--level", "3"}, f.Options()...)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			want := map[string]any{
				"src":     []string{"a.txt", "b.txt"},
				"dest":    "out",
				"level":   3,
				"mode":    "FAST",
				"dry_run": false,
			}
			if diff := cmp.Diff(want, v); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}

			var dry argskema.FieldDescriptor
			for _, fd := range f.Fields {
				if fd.Name == "dry_run" {
					dry = fd
				}
			}
			if dry.Meta.Extra["group"] != "safety" {
				t.Fatalf("extra metadata lost: %+v", dry.Meta.Extra)
			}

			_, err = argskema.ParseRecord(f.Record(), []string{"a.txt", "-d", "out", "--mode", "slow"})
			iss, ok := argskema.AsIssues(err)
			if !ok || iss[0].Code != argskema.CodeInvalidChoice {
				t.Fatalf("expected invalid_choice, got %v", err)
			}
		})
	}
}

func TestLoad_UsageUsesProgram(t *testing.T) {
	f, err := schemafile.Load(filepath.Join("testdata", "copy.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	u, err := argskema.Usage(f.Record(), f.Options()...)
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if want := "usage: copy [-h] --dest DEST [--level {1,2,3}] [--mode {FAST,SAFE}] [--dry-run] src [src ...]"; u != want {
		t.Fatalf("usage:\n got %q\nwant %q", u, want)
	}
}

func TestLoadYAML_Rejects(t *testing.T) {
	cases := map[string]string{
		"not an object":       "- a\n- b\n",
		"missing fields":      "prog: x\n",
		"unknown top key":     "fields: []\nextra: 1\n",
		"field without type":  "fields:\n  - name: a\n",
		"bad nargs":           "fields:\n  - name: a\n    type: list[int]\n    metadata: {nargs: 0}\n",
		"empty record":        "fields: []\n",
		"unknown type":        "fields:\n  - name: a\n    type: nope\n",
		"nested list":         "fields:\n  - name: a\n    type: list[list[int]]\n",
		"bad default":         "fields:\n  - name: a\n    type: int\n    default: abc\n",
		"default and factory": "fields:\n  - name: a\n    type: datetime\n    default: 2024-01-02T03:04:05\n    default_factory: now\n",
		"unknown factory":     "fields:\n  - name: a\n    type: datetime\n    default_factory: yesterday\n",
		"duplicate field":     "fields:\n  - {name: a, type: int}\n  - {name: a, type: str}\n",
		"nargs string":        "fields:\n  - name: a\n    type: list[int]\n    metadata: {nargs: \"x\"}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := schemafile.LoadYAML([]byte(doc))
			if !errors.Is(err, argskema.ErrSchema) {
				t.Fatalf("expected schema error, got %v", err)
			}
		})
	}
}

func TestLoadHCL_NargsOnScalarIsSpecError(t *testing.T) {
	f, err := schemafile.LoadHCL([]byte(`
field "n" {
  type  = "int"
  nargs = 2
}
`), "inline.hcl")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	_, err = argskema.ParseRecord(f.Record(), []string{"--n", "1", "2"})
	if !errors.Is(err, argskema.ErrSpec) {
		t.Fatalf("expected spec error, got %v", err)
	}
}

func TestLoadHCL_Rejects(t *testing.T) {
	cases := map[string]string{
		"syntax":          "field \"a\" {",
		"missing type":    "field \"a\" {\n  help = \"x\"\n}\n",
		"unknown block":   "thing \"a\" {\n  type = \"int\"\n}\n",
		"variable ref":    "field \"a\" {\n  type    = \"int\"\n  default = var.x\n}\n",
		"choices scalar":  "field \"a\" {\n  type    = \"int\"\n  choices = 1\n}\n",
		"args not string": "field \"a\" {\n  type = \"int\"\n  args = [1]\n}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := schemafile.LoadHCL([]byte(doc), "inline.hcl"); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.toml")
	if err := os.WriteFile(path, []byte("x = 1"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := schemafile.Load(path); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadYAML_DefaultsMatchParsedValues(t *testing.T) {
	f, err := schemafile.LoadYAML([]byte(`
fields:
  - name: when
    type: date
    default: "2024-03-01"
  - name: sizes
    type: list[float]
    default: [1, 2.5]
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	dflt, err := argskema.ParseRecord(f.Record(), nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	given, err := argskema.ParseRecord(f.Record(), []string{"--when", "2024-03-01", "--sizes", "1", "2.5"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff(given, dflt); diff != "" {
		t.Fatalf("defaults differ from parsed values (-given +default):\n%s", diff)
	}
}
