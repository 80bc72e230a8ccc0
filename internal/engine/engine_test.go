package engine_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/reoring/argskema/internal/engine"
)

func atoi(s string) (any, error) { return strconv.Atoi(s) }

func newParser(t *testing.T, opts ...engine.Option) *engine.Parser {
	t.Helper()
	p := engine.New("prog")
	for _, o := range opts {
		if err := p.Add(o); err != nil {
			t.Fatalf("add %s: %v", o.Dest, err)
		}
	}
	return p
}

func firstError(t *testing.T, err error) *engine.Error {
	t.Helper()
	var es engine.Errors
	if !errors.As(err, &es) || len(es) == 0 {
		t.Fatalf("expected engine errors, got %v", err)
	}
	return es[0]
}

func TestParse_FlagForms(t *testing.T) {
	p := newParser(t,
		engine.Option{Dest: "count", Flags: []string{"-c", "--count"}, Convert: atoi},
		engine.Option{Dest: "name", Flags: []string{"--name"}},
	)
	cases := [][]string{
		{"--count", "5"},
		{"--count=5"},
		{"-c", "5"},
		{"-c5"},
		{"--cou", "5"},
	}
	for _, args := range cases {
		out, err := p.Parse(args)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", args, err)
		}
		if out["count"] != 5 {
			t.Fatalf("%q: count = %v", args, out["count"])
		}
		if _, ok := out["name"]; ok {
			t.Fatalf("%q: absent option must be omitted", args)
		}
	}
}

func TestParse_ShortFlagKeepsEqualsInAttachedValue(t *testing.T) {
	p := newParser(t,
		engine.Option{Dest: "opt", Flags: []string{"-o", "--opt"}},
		engine.Option{Dest: "verbose", Flags: []string{"-v"}, Arity: engine.ArityZero},
	)
	cases := map[string]string{
		"-ofoo=bar": "foo=bar",
		"-o=bar":    "bar",
		"-o==":      "=",
	}
	for arg, want := range cases {
		out, err := p.Parse([]string{arg})
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", arg, err)
		}
		if out["opt"] != want {
			t.Fatalf("%q: opt = %v, want %q", arg, out["opt"], want)
		}
	}
	if _, err := p.Parse([]string{"-v=1"}); firstError(t, err).Code != engine.ErrArity {
		t.Fatalf("presence flag with a value must fail, got %v", err)
	}
}

func TestParse_LastOccurrenceWins(t *testing.T) {
	p := newParser(t, engine.Option{Dest: "n", Flags: []string{"--n"}, Convert: atoi})
	out, err := p.Parse([]string{"--n", "1", "--n", "2"})
	if err != nil || out["n"] != 2 {
		t.Fatalf("got %v, %v", out, err)
	}
}

func TestParse_NegativeNumbersAreValues(t *testing.T) {
	p := newParser(t,
		engine.Option{Dest: "n", Flags: []string{"--n"}, Convert: atoi},
		engine.Option{Dest: "pos", Flags: []string{"pos"}, Positional: true, Convert: atoi},
	)
	out, err := p.Parse([]string{"--n", "-3", "-7"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out["n"] != -3 || out["pos"] != -7 {
		t.Fatalf("got %v", out)
	}
}

func TestParse_Arity(t *testing.T) {
	p := newParser(t,
		engine.Option{Dest: "pair", Flags: []string{"--pair"}, Arity: engine.ArityFixed, N: 2},
		engine.Option{Dest: "many", Flags: []string{"--many"}, Arity: engine.ArityOneOrMore},
		engine.Option{Dest: "on", Flags: []string{"--on"}, Arity: engine.ArityZero, Convert: func(string) (any, error) { return true, nil }},
	)
	out, err := p.Parse([]string{"--pair", "a", "b", "--many", "x", "y", "z", "--on"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out["pair"].([]any); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("pair = %v", got)
	}
	if got := out["many"].([]any); len(got) != 3 {
		t.Fatalf("many = %v", got)
	}
	if out["on"] != true {
		t.Fatalf("on = %v", out["on"])
	}

	_, err = p.Parse([]string{"--pair", "a", "--on"})
	if e := firstError(t, err); e.Code != engine.ErrArity || e.Expected != "2" {
		t.Fatalf("got %+v", e)
	}
	_, err = p.Parse([]string{"--on=yes"})
	if e := firstError(t, err); e.Code != engine.ErrArity {
		t.Fatalf("got %+v", e)
	}
}

func TestParse_Choices(t *testing.T) {
	p := newParser(t, engine.Option{Dest: "n", Flags: []string{"--n"}, Convert: atoi, Choices: []any{1, 2, 3}})
	_, err := p.Parse([]string{"--n", "4"})
	e := firstError(t, err)
	if e.Code != engine.ErrInvalidChoice {
		t.Fatalf("got %+v", e)
	}
	if want := "argument --n: invalid choice: '4' (choose from 1, 2, 3)"; e.Error() != want {
		t.Fatalf("got %q want %q", e.Error(), want)
	}
	// numeric choices compare by value across Go types
	p = newParser(t, engine.Option{Dest: "n", Flags: []string{"--n"}, Convert: atoi, Choices: []any{int64(1)}})
	if _, err := p.Parse([]string{"--n", "1"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParse_UnknownAndAmbiguous(t *testing.T) {
	p := newParser(t,
		engine.Option{Dest: "verbose", Flags: []string{"--verbose"}, Arity: engine.ArityZero},
		engine.Option{Dest: "version", Flags: []string{"--version"}, Arity: engine.ArityZero},
	)
	_, err := p.Parse([]string{"--ver"})
	e := firstError(t, err)
	if e.Code != engine.ErrAmbiguous || strings.Join(e.Candidates, ",") != "--verbose,--version" {
		t.Fatalf("got %+v", e)
	}
	_, err = p.Parse([]string{"--nope"})
	if e := firstError(t, err); e.Code != engine.ErrUnknown || e.Value != "--nope" {
		t.Fatalf("got %+v", e)
	}
	_, err = p.Parse([]string{"stray"})
	if e := firstError(t, err); e.Code != engine.ErrUnexpected || e.Error() != "unrecognized arguments: stray" {
		t.Fatalf("got %+v", e)
	}
}

func TestParse_RequiredAndHelp(t *testing.T) {
	p := newParser(t,
		engine.Option{Dest: "a", Flags: []string{"--a"}, Required: true},
		engine.Option{Dest: "b", Flags: []string{"b"}, Positional: true, Required: true},
	)
	_, err := p.Parse(nil)
	var es engine.Errors
	if !errors.As(err, &es) || len(es) != 2 {
		t.Fatalf("expected two missing errors, got %v", err)
	}
	if want := "the following arguments are required: --a, b"; es.Error() != want {
		t.Fatalf("got %q want %q", es.Error(), want)
	}
	if _, err := p.Parse([]string{"--a", "x", "-h"}); !errors.Is(err, engine.ErrHelp) {
		t.Fatalf("expected ErrHelp, got %v", err)
	}
}

func TestParse_Terminator(t *testing.T) {
	p := newParser(t,
		engine.Option{Dest: "f", Flags: []string{"-f"}, Arity: engine.ArityZero},
		engine.Option{Dest: "files", Flags: []string{"files"}, Positional: true, Arity: engine.ArityOneOrMore},
	)
	out, err := p.Parse([]string{"-f", "--", "-x", "--y"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := out["files"].([]any); len(got) != 2 || got[0] != "-x" {
		t.Fatalf("files = %v", got)
	}
}

func TestAdd_Rejects(t *testing.T) {
	p := engine.New("prog")
	if err := p.Add(engine.Option{Dest: "a", Flags: []string{"--a"}}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := p.Add(engine.Option{Dest: "b", Flags: []string{"--a"}}); err == nil {
		t.Fatalf("expected duplicate flag error")
	}
	if err := p.Add(engine.Option{Dest: "c", Flags: []string{"c"}, Positional: true, Arity: engine.ArityZero}); err == nil {
		t.Fatalf("expected positional presence flag error")
	}
	if err := p.Add(engine.Option{Dest: "", Flags: []string{"--d"}}); err == nil {
		t.Fatalf("expected missing dest error")
	}
}

func TestUsage(t *testing.T) {
	p := newParser(t,
		engine.Option{Dest: "num", Flags: []string{"-n", "--num"}, Required: true},
		engine.Option{Dest: "pair", Flags: []string{"--pair"}, Arity: engine.ArityFixed, N: 2},
		engine.Option{Dest: "level", Flags: []string{"--level"}, Choices: []any{1, 2}},
		engine.Option{Dest: "src", Flags: []string{"src"}, Positional: true, Required: true},
	)
	want := "usage: prog [-h] -n NUM [--pair PAIR PAIR] [--level {1,2}] src"
	if got := p.Usage(); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
	if help := p.Help(); !strings.Contains(help, "-n NUM, --num NUM") {
		t.Fatalf("help = %q", help)
	}
}
