package codec_test

import (
	"sort"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/reoring/argskema/codec"
)

func TestBuiltinConverters(t *testing.T) {
	local := func(y int, mo time.Month, d, h, mi, s int) time.Time {
		return time.Date(y, mo, d, h, mi, s, 0, time.Local)
	}
	cases := []struct {
		name string
		in   string
		want any
	}{
		{"int", "-42", int64(-42)},
		{"float", "2.5", 2.5},
		{"bool", "yes", true},
		{"bool", "False", false},
		{"str", "as is", "as is"},
		{"title", "john doe", "John Doe"},
		{"upper", "fast", "FAST"},
		{"lower", "FAST", "fast"},
		{"datetime", "2024-03-01T10:20:30", local(2024, 3, 1, 10, 20, 30)},
		{"datetime", "2024-03-01 10:20", local(2024, 3, 1, 10, 20, 0)},
		{"datetime", "2024-03-01", local(2024, 3, 1, 0, 0, 0)},
		{"date", "2024-03-01", local(2024, 3, 1, 0, 0, 0)},
		{"duration", "1h30m", 90 * time.Minute},
		{"uuid", "6ba7b810-9dad-11d1-80b4-00c04fd430c8", uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")},
		{"json", `{"a":[1,"x"]}`, map[string]any{"a": []any{json.Number("1"), "x"}}},
	}
	for _, tc := range cases {
		t.Run(tc.name+"/"+tc.in, func(t *testing.T) {
			conv, ok := codec.Lookup(tc.name)
			if !ok {
				t.Fatalf("converter %q not registered", tc.name)
			}
			got, err := conv(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestConvertersReject(t *testing.T) {
	cases := map[string]string{
		"int":      "1.5",
		"float":    "abc",
		"bool":     "maybe",
		"datetime": "yesterday",
		"rfc3339":  "2024-03-01T10:20:30",
		"date":     "03/01/2024",
		"duration": "ten",
		"uuid":     "not-a-uuid",
		"json":     "{",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			conv, _ := codec.Lookup(name)
			if _, err := conv(in); err == nil {
				t.Fatalf("%s(%q): expected error", name, in)
			}
		})
	}
}

func TestISODateTimeRoundTrip(t *testing.T) {
	in := time.Date(2024, 3, 1, 10, 20, 30, 500, time.UTC)
	got, err := codec.ISODateTime(codec.FormatDateTime(in))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.(time.Time).Equal(in) {
		t.Fatalf("got %v want %v", got, in)
	}
}

func TestRegistry(t *testing.T) {
	codec.Register("reverse", func(s string) (any, error) {
		r := []rune(s)
		for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
			r[i], r[j] = r[j], r[i]
		}
		return string(r), nil
	})
	conv, ok := codec.Lookup("reverse")
	if !ok {
		t.Fatal("registered converter not found")
	}
	if v, _ := conv("abc"); v != "cba" {
		t.Fatalf("got %v", v)
	}
	codec.Register("", nil)
	if _, ok := codec.Lookup(""); ok {
		t.Fatal("empty name must not register")
	}

	names := codec.Names()
	if len(names) == 0 || !sort.StringsAreSorted(names) {
		t.Fatalf("names not sorted: %v", names)
	}

	calls := 0
	codec.RegisterFactory("counter", func() any { calls++; return calls })
	f, ok := codec.LookupFactory("counter")
	if !ok || f() != 1 || f() != 2 {
		t.Fatalf("factory lookup failed: ok=%v calls=%d", ok, calls)
	}
	if _, ok := codec.LookupFactory("nope"); ok {
		t.Fatal("unexpected factory")
	}
}

func TestFactories(t *testing.T) {
	today, _ := codec.LookupFactory("today")
	d := today().(time.Time)
	if d.Hour() != 0 || d.Minute() != 0 || d.Second() != 0 {
		t.Fatalf("today is not midnight: %v", d)
	}
	utc, _ := codec.LookupFactory("utcnow")
	if loc := utc().(time.Time).Location(); loc != time.UTC {
		t.Fatalf("utcnow location = %v", loc)
	}
	id, _ := codec.LookupFactory("uuid4")
	a, b := id().(uuid.UUID), id().(uuid.UUID)
	if a == b || a.Version() != 4 {
		t.Fatalf("uuid4 produced %v and %v", a, b)
	}
}
