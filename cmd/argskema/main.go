// Command argskema parses command lines against schema documents.
//
// Usage:
//
//	argskema parse      -s schema.yaml [-f json|yaml] [--meta] -- ARGS...
//	argskema normalize  -s schema.yaml -- ARGS...
//	argskema usage      -s schema.yaml [--short]
//	argskema jsonschema -s schema.yaml
//
// Environment: ARGSKEMA_LANG (en, ja), ARGSKEMA_LOG_LEVEL (debug, info,
// warn, error) and ARGSKEMA_FORMAT (json, yaml).
package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"

	"github.com/reoring/argskema"
	"github.com/reoring/argskema/i18n"
	"github.com/reoring/argskema/schemafile"
)

type settings struct {
	Lang     string `env:"ARGSKEMA_LANG,default=en"`
	LogLevel string `env:"ARGSKEMA_LOG_LEVEL,default=warn"`
	Format   string `env:"ARGSKEMA_FORMAT,default=json"`
}

func loadSettings() (settings, error) {
	var s settings
	if err := envdecode.Decode(&s); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return s, fmt.Errorf("read environment: %w", err)
	}
	return s, nil
}

// defaultFormat is the output format used when --format is absent.
var defaultFormat = "json"

type parseOptions struct {
	Schema string `args:"--schema|-s" help:"schema document (.yaml, .yml, .json or .hcl)"`
	Format string `args:"--format|-f" choices:"json|yaml" help:"output format"`
	Meta   bool   `help:"include which fields were supplied, defaulted or computed"`
}

func (parseOptions) FieldOverrides() map[string]argskema.FieldOverride {
	return map[string]argskema.FieldOverride{
		"format": {DefaultFactory: func() any { return defaultFormat }},
	}
}

type normalizeOptions struct {
	Schema string `args:"--schema|-s" help:"schema document (.yaml, .yml, .json or .hcl)"`
	All    bool   `help:"also emit fields resolved from defaults"`
}

type usageOptions struct {
	Schema string `args:"--schema|-s" help:"schema document (.yaml, .yml, .json or .hcl)"`
	Short  bool   `help:"print only the usage line"`
}

type jsonschemaOptions struct {
	Schema string `args:"--schema|-s" help:"schema document (.yaml, .yml, .json or .hcl)"`
}

func main() {
	os.Exit(run(os.Stdout, os.Stderr, os.Args[1:]))
}

type cli struct {
	stdout io.Writer
	stderr io.Writer
	log    *slog.Logger
}

// run executes one command and returns the process exit status.
func run(stdout, stderr io.Writer, args []string) int {
	s, err := loadSettings()
	if err != nil {
		fmt.Fprintf(stderr, "argskema: error: %v\n", err)
		return 1
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(s.LogLevel)); err != nil {
		fmt.Fprintf(stderr, "argskema: error: ARGSKEMA_LOG_LEVEL: %v\n", err)
		return 1
	}
	i18n.SetLanguage(s.Lang)
	defaultFormat = s.Format

	c := &cli{
		stdout: stdout,
		stderr: stderr,
		log:    slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
	}
	if len(args) == 0 {
		c.usage()
		return 2
	}
	own, rest := splitTerminator(args[1:])
	switch args[0] {
	case "parse":
		return c.parse(own, rest)
	case "normalize":
		return c.normalize(own, rest)
	case "usage":
		return c.printUsage(own)
	case "jsonschema":
		return c.jsonschema(own)
	case "-h", "--help", "help":
		c.usage()
		return 0
	}
	fmt.Fprintf(stderr, "argskema: error: unknown command %q\n", args[0])
	c.usage()
	return 2
}

func (c *cli) usage() {
	fmt.Fprint(c.stderr, `usage: argskema <command> [options] [-- ARGS...]

commands:
  parse       parse ARGS against a schema and print the values
  normalize   parse ARGS and print them back in canonical form
  usage       print the help text of a schema
  jsonschema  print the JSON Schema of a schema
`)
}

// splitTerminator separates command options from the arguments after "--".
func splitTerminator(args []string) (own, rest []string) {
	i := slices.Index(args, "--")
	if i < 0 {
		return args, nil
	}
	return args[:i], args[i+1:]
}

// options parses command options in exit mode. done reports that parsing
// ended the command (help or a usage error) with the returned status.
func options[T any](c *cli, name string, args []string) (v T, code int, done bool) {
	code = -1
	v = argskema.ParseOrExit[T](args,
		argskema.WithProgram("argskema "+name),
		argskema.WithOutput(c.stdout, c.stderr),
		argskema.WithExit(func(n int) { code = n }),
		argskema.WithLogger(c.log),
	)
	return v, code, code >= 0
}

func (c *cli) load(path string) (*schemafile.File, int, bool) {
	f, err := schemafile.Load(path)
	if err != nil {
		fmt.Fprintf(c.stderr, "argskema: error: %v\n", err)
		return nil, 1, false
	}
	c.log.Debug("loaded schema", "path", path, "fields", len(f.Fields))
	return f, 0, true
}

// parseArgs parses the schema arguments. User-input errors and help are
// replayed in exit mode so they print like the target program would.
func (c *cli) parseArgs(f *schemafile.File, args []string) (argskema.Decoded[map[string]any], int, bool) {
	opts := append(f.Options(), argskema.WithOutput(c.stdout, c.stderr), argskema.WithLogger(c.log))
	d, err := argskema.ParseRecordWithMeta(f.Record(), args, opts...)
	if err == nil {
		return d, 0, true
	}
	if errors.Is(err, argskema.ErrSchema) || errors.Is(err, argskema.ErrSpec) {
		fmt.Fprintf(c.stderr, "argskema: error: %v\n", err)
		return d, 1, false
	}
	code := 1
	argskema.ParseRecordOrExit(f.Record(), args, append(opts, argskema.WithExit(func(n int) { code = n }))...)
	return d, code, false
}

func (c *cli) parse(own, rest []string) int {
	o, code, done := options[parseOptions](c, "parse", own)
	if done {
		return code
	}
	f, code, ok := c.load(o.Schema)
	if !ok {
		return code
	}
	d, code, ok := c.parseArgs(f, rest)
	if !ok {
		return code
	}
	var out any = d.Value
	if o.Meta {
		out = map[string]any{"values": d.Value, "presence": presenceOf(f.Fields, d.Presence)}
	}
	return c.write(o.Format, out)
}

func presenceOf(fields []argskema.FieldDescriptor, pm argskema.PresenceMap) map[string][]string {
	out := map[string][]string{}
	for _, fd := range fields {
		switch {
		case pm.Has(fd.Name, argskema.PresenceSeen):
			out["seen"] = append(out["seen"], fd.Name)
		case pm.Has(fd.Name, argskema.PresenceFactoryInvoked):
			out["factory"] = append(out["factory"], fd.Name)
		case pm.Has(fd.Name, argskema.PresenceDefaultApplied):
			out["default"] = append(out["default"], fd.Name)
		}
	}
	return out
}

func (c *cli) normalize(own, rest []string) int {
	o, code, done := options[normalizeOptions](c, "normalize", own)
	if done {
		return code
	}
	f, code, ok := c.load(o.Schema)
	if !ok {
		return code
	}
	d, code, ok := c.parseArgs(f, rest)
	if !ok {
		return code
	}
	var tokens []string
	var err error
	if o.All {
		tokens, err = argskema.EncodeArgs(f.Record(), d.Value)
	} else {
		tokens, err = argskema.EncodeArgsPreserving(f.Record(), d)
	}
	if err != nil {
		fmt.Fprintf(c.stderr, "argskema: error: %v\n", err)
		return 1
	}
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = shellQuote(t)
	}
	fmt.Fprintln(c.stdout, strings.Join(quoted, " "))
	return 0
}

func shellQuote(s string) string {
	if s != "" && !strings.ContainsAny(s, " \t\n'\"\\$`") {
		return s
	}
	return strconv.Quote(s)
}

func (c *cli) printUsage(own []string) int {
	o, code, done := options[usageOptions](c, "usage", own)
	if done {
		return code
	}
	f, code, ok := c.load(o.Schema)
	if !ok {
		return code
	}
	help, err := argskema.Help(f.Record(), f.Options()...)
	if err != nil {
		fmt.Fprintf(c.stderr, "argskema: error: %v\n", err)
		return 1
	}
	line, body, _ := strings.Cut(help, "\n")
	if o.Short {
		fmt.Fprintln(c.stdout, line)
		return 0
	}
	fmt.Fprintln(c.stdout, line)
	if f.Description != "" {
		fmt.Fprintf(c.stdout, "\n%s\n", f.Description)
	}
	fmt.Fprint(c.stdout, body)
	return 0
}

func (c *cli) jsonschema(own []string) int {
	o, code, done := options[jsonschemaOptions](c, "jsonschema", own)
	if done {
		return code
	}
	f, code, ok := c.load(o.Schema)
	if !ok {
		return code
	}
	s, err := argskema.JSONSchema(f.Record())
	if err != nil {
		fmt.Fprintf(c.stderr, "argskema: error: %v\n", err)
		return 1
	}
	s.Title, s.Description = f.Prog, f.Description
	return c.write("json", s)
}

func (c *cli) write(format string, v any) int {
	switch format {
	case "json":
		// indent separately: go-json's indent encoder crashes on the
		// recursive *jsonschema.Schema
		b, err := json.Marshal(v)
		if err != nil {
			fmt.Fprintf(c.stderr, "argskema: error: encode json: %v\n", err)
			return 1
		}
		var buf bytes.Buffer
		if err := json.Indent(&buf, b, "", "  "); err != nil {
			fmt.Fprintf(c.stderr, "argskema: error: encode json: %v\n", err)
			return 1
		}
		fmt.Fprintln(c.stdout, buf.String())
	case "yaml":
		enc := yaml.NewEncoder(c.stdout)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			fmt.Fprintf(c.stderr, "argskema: error: encode yaml: %v\n", err)
			return 1
		}
		if err := enc.Close(); err != nil {
			return 1
		}
	default:
		fmt.Fprintf(c.stderr, "argskema: error: unknown output format %q\n", format)
		return 2
	}
	return 0
}
