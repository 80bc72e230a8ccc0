package dsl_test

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/reoring/argskema"
	g "github.com/reoring/argskema/dsl"
)

type level int

type server struct {
	Host    string `name:"hostname"`
	Port    uint16
	Level   level
	Timeout time.Duration
	Tags    []string
}

func TestBind_KeyResolution(t *testing.T) {
	rec := g.ObjectOf[server]().
		Field("hostname", g.String()).Positional().
		Field("port", g.IntOf[uint16]()).Default(8080).
		Field("level", g.IntOf[level]()).Choices(1, 2).Default(1).
		Field("timeout", g.Duration()).Default(time.Second).
		Field("tags", g.List(g.String())).Default([]string{}).
		MustBind()

	v, err := argskema.ParseRecord(rec, []string{"example.org", "--level", "2", "--timeout", "5s"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := server{Host: "example.org", Port: 8080, Level: 2, Timeout: 5 * time.Second, Tags: []string{}}
	if diff := cmp.Diff(want, v); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestBind_PortOverflowIsInvalid(t *testing.T) {
	rec := g.ObjectOf[server]().
		Field("hostname", g.String()).Positional().
		Field("port", g.IntOf[uint16]()).Default(8080).
		MustBind()
	_, err := argskema.ParseRecord(rec, []string{"h", "--port", "70000"})
	if !isIssue(err, argskema.CodeInvalidValue) {
		t.Fatalf("expected invalid_value for an overflowing port, got %v", err)
	}
}

func isIssue(err error, code string) bool {
	iss, ok := argskema.AsIssues(err)
	return ok && len(iss) > 0 && iss[0].Code == code
}

func TestBind_UnknownField(t *testing.T) {
	_, err := g.ObjectOf[server]().Field("nope", g.String()).Bind()
	if !errors.Is(err, argskema.ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
}
