package argskema_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/reoring/argskema"
)

// exitRecorder captures what exit mode would do to the process.
type exitRecorder struct {
	code   int
	called bool
	stdout bytes.Buffer
	stderr bytes.Buffer
}

func (r *exitRecorder) options() []argskema.Option {
	return []argskema.Option{
		argskema.WithProgram("prog"),
		argskema.WithOutput(&r.stdout, &r.stderr),
		argskema.WithExit(func(code int) { r.code, r.called = code, true }),
	}
}

func TestParseOrExit_Success(t *testing.T) {
	rec := &exitRecorder{}
	v := argskema.ParseOrExit[mandatory]([]string{"--num-of-foo", "3", "--name", "Sam"}, rec.options()...)
	if rec.called {
		t.Fatalf("exit must not be called on success")
	}
	if v.NumOfFoo != 3 || v.Name != "Sam" {
		t.Fatalf("got %+v", v)
	}
}

func TestParseOrExit_RequiredTerminates(t *testing.T) {
	rec := &exitRecorder{}
	v := argskema.ParseOrExit[mandatory](nil, rec.options()...)
	if !rec.called || rec.code != 2 {
		t.Fatalf("expected exit(2), got called=%v code=%d", rec.called, rec.code)
	}
	if v != (mandatory{}) {
		t.Fatalf("expected zero value after intercepted exit, got %+v", v)
	}
	out := rec.stderr.String()
	if !strings.HasPrefix(out, "usage: prog [-h] --num-of-foo NUM_OF_FOO --name NAME\n") {
		t.Fatalf("unexpected usage line: %q", out)
	}
	if !strings.Contains(out, "prog: error: the following arguments are required: --num-of-foo, --name\n") {
		t.Fatalf("unexpected diagnostic: %q", out)
	}
}

func TestParseOrExit_ChoiceTerminates(t *testing.T) {
	rec := &exitRecorder{}
	argskema.ParseOrExit[smallInt]([]string{"--small-integer", "20"}, rec.options()...)
	if !rec.called || rec.code == 0 {
		t.Fatalf("expected non-zero exit, got called=%v code=%d", rec.called, rec.code)
	}
	if !strings.Contains(rec.stderr.String(), "invalid choice: '20' (choose from 1, 2, 3)") {
		t.Fatalf("unexpected diagnostic: %q", rec.stderr.String())
	}
}

func TestParseOrExit_HelpExitsZero(t *testing.T) {
	rec := &exitRecorder{}
	argskema.ParseOrExit[copyArgs]([]string{"-h"}, rec.options()...)
	if !rec.called || rec.code != 0 {
		t.Fatalf("expected exit(0), got called=%v code=%d", rec.called, rec.code)
	}
	help := rec.stdout.String()
	for _, want := range []string{"usage: prog [-h] [-f] src dst", "positional arguments:", "-f, --force"} {
		if !strings.Contains(help, want) {
			t.Fatalf("help %q does not contain %q", help, want)
		}
	}
}

func TestParseOrExit_PackageExitVariable(t *testing.T) {
	prev := argskema.Exit
	defer func() { argskema.Exit = prev }()
	var got int = -1
	argskema.Exit = func(code int) { got = code }

	var stderr bytes.Buffer
	argskema.ParseOrExit[mandatory](nil, argskema.WithOutput(nil, &stderr))
	if got != 2 {
		t.Fatalf("expected exit(2) through the package variable, got %d", got)
	}
}

func TestParseOrExit_ConfigurationErrorPanics(t *testing.T) {
	rec := &exitRecorder{}
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for nargs on a scalar field")
		}
		if rec.called {
			t.Fatalf("configuration errors must not exit")
		}
	}()
	argskema.ParseOrExit[badNargs](nil, rec.options()...)
}
