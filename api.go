package argskema

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	eng "github.com/reoring/argskema/internal/engine"
)

// Exit terminates the process in exit mode. Tests replace it (or pass
// WithExit) to intercept termination; when it returns, the OrExit call
// returns the zero value.
var Exit = os.Exit

// Option configures a parse call.
type Option func(*config)

type config struct {
	prog   string
	stdout io.Writer
	stderr io.Writer
	exit   func(int)
	logger *slog.Logger
	noHelp bool
}

func newConfig(opts []Option) *config {
	cfg := &config{
		prog:   filepath.Base(os.Args[0]),
		stdout: os.Stdout,
		stderr: os.Stderr,
		logger: slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		if o != nil {
			o(cfg)
		}
	}
	return cfg
}

// WithProgram sets the program name shown in usage and error lines.
func WithProgram(name string) Option { return func(c *config) { c.prog = name } }

// WithOutput redirects help (stdout) and diagnostics (stderr) of exit mode.
func WithOutput(stdout, stderr io.Writer) Option {
	return func(c *config) {
		if stdout != nil {
			c.stdout = stdout
		}
		if stderr != nil {
			c.stderr = stderr
		}
	}
}

// WithExit replaces the termination function of exit mode for one call.
func WithExit(fn func(int)) Option { return func(c *config) { c.exit = fn } }

// WithLogger sets the logger used for debug traces of the pipeline.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithoutHelp disables the implicit -h/--help flag.
func WithoutHelp() Option { return func(c *config) { c.noHelp = true } }

// Parse parses args into the struct type T.
func Parse[T any](args []string, opts ...Option) (T, error) {
	return ParseRecord(Struct[T](), args, opts...)
}

// ParseRecord parses args against r. User-input errors are returned as
// Issues, configuration errors as *SchemaError or *SpecError, and a help
// request as ErrHelp.
func ParseRecord[T any](r Record[T], args []string, opts ...Option) (T, error) {
	d, err := ParseRecordWithMeta(r, args, opts...)
	if err != nil {
		var zero T
		return zero, err
	}
	return d.Value, nil
}

// ParseRecordWithMeta is ParseRecord returning presence metadata as well.
func ParseRecordWithMeta[T any](r Record[T], args []string, opts ...Option) (Decoded[T], error) {
	d, _, err := run(r, args, newConfig(opts))
	return d, err
}

// ParseOrExit parses args into the struct type T with process-exit semantics.
func ParseOrExit[T any](args []string, opts ...Option) T {
	return ParseRecordOrExit(Struct[T](), args, opts...)
}

// ParseRecordOrExit parses args against r. On a user-input error it prints
// the usage line and "<prog>: error: <message>" to stderr and exits with
// status 2; on -h/--help it prints help to stdout and exits with status 0.
// Configuration errors panic.
func ParseRecordOrExit[T any](r Record[T], args []string, opts ...Option) T {
	cfg := newConfig(opts)
	d, p, err := run(r, args, cfg)
	if err == nil {
		return d.Value
	}
	var zero T
	exit := cfg.exit
	if exit == nil {
		exit = Exit
	}
	if errors.Is(err, ErrHelp) {
		fmt.Fprint(cfg.stdout, p.Help())
		exit(0)
		return zero
	}
	if iss, ok := AsIssues(err); ok {
		fmt.Fprintln(cfg.stderr, p.Usage())
		fmt.Fprintf(cfg.stderr, "%s: error: %s\n", cfg.prog, summary(iss))
		exit(2)
		return zero
	}
	panic(err)
}

// Usage returns the one-line usage string of r, e.g.
// "usage: prog [-h] --dest DEST src [src ...]".
func Usage[T any](r Record[T], opts ...Option) (string, error) {
	p, err := describe(r, newConfig(opts))
	if err != nil {
		return "", err
	}
	return p.Usage(), nil
}

// Help returns the full help text of r: the usage line followed by the
// positional and optional argument sections.
func Help[T any](r Record[T], opts ...Option) (string, error) {
	p, err := describe(r, newConfig(opts))
	if err != nil {
		return "", err
	}
	return p.Help(), nil
}

func describe[T any](r Record[T], cfg *config) (*eng.Parser, error) {
	if r == nil {
		return nil, schemaErrorf("<nil>", "", "nil record")
	}
	fields, err := r.Fields()
	if err != nil {
		return nil, err
	}
	specs, err := BuildSpecs(fields)
	if err != nil {
		return nil, err
	}
	return newParser(fields, specs, cfg)
}

// run executes schema -> specs -> parse -> materialize. Descriptors and specs
// are derived afresh on every call.
func run[T any](r Record[T], args []string, cfg *config) (Decoded[T], *eng.Parser, error) {
	var zero Decoded[T]
	log := cfg.logger.With("prog", cfg.prog)
	if r == nil {
		return zero, nil, schemaErrorf("<nil>", "", "nil record")
	}
	fields, err := r.Fields()
	if err != nil {
		log.Debug("describe record", "error", err)
		return zero, nil, err
	}
	specs, err := BuildSpecs(fields)
	if err != nil {
		log.Debug("build argument specs", "error", err)
		return zero, nil, err
	}
	p, err := newParser(fields, specs, cfg)
	if err != nil {
		return zero, nil, err
	}
	log.Debug("parse tokens", "fields", len(fields), "args", len(args))
	values, err := parseTokens(p, args)
	if err != nil {
		log.Debug("parse failed", "error", err)
		return zero, p, err
	}
	d, err := Materialize[T](fields, values)
	if err != nil {
		return zero, p, err
	}
	log.Debug("materialized record", "supplied", len(values))
	return d, p, nil
}
