package argskema

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes for user-input errors (exported consts for IDE completion and type safety by convention)
const (
	CodeRequired           = "required"
	CodeInvalidValue       = "invalid_value"
	CodeInvalidChoice      = "invalid_choice"
	CodeWrongArity         = "wrong_arity"
	CodeUnknownFlag        = "unknown_flag"
	CodeAmbiguousFlag      = "ambiguous_flag"
	CodeUnexpectedArgument = "unexpected_argument"
)

// Issue represents a single user-input error produced while parsing tokens.
type Issue struct {
	Path    string // JSON Pointer of the field (for example: /num_of_foo); "/" when no field applies.
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: the flag or metavar the user typed against.
	Cause   error  // Optional: underlying converter error.
	// Params carries structured parameters (e.g., {"flag":"--x", "value":"20"})
	// for i18n and observability.
	Params map[string]any
}

// Issues is a collection of user-input errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. required at /name
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Messages returns every issue message in order, one per element.
func (iss Issues) Messages() []string {
	out := make([]string, 0, len(iss))
	for _, it := range iss {
		out = append(out, it.Message)
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// Sentinels for the two configuration error classes. Use errors.Is to
// distinguish them from user-input Issues.
var (
	ErrSchema = errors.New("argskema: invalid schema")
	ErrSpec   = errors.New("argskema: invalid argument spec")
)

// ErrHelp is returned in result mode when -h/--help was supplied.
var ErrHelp = errors.New("argskema: help requested")

// SchemaError reports a record type or descriptor that cannot be introspected
// or materialized. It is a programming error, never a user-input error.
type SchemaError struct {
	Type   string // record type name, when known
	Field  string // field name, when the error is field-specific
	Reason string
	Cause  error
}

func (e *SchemaError) Error() string {
	return configErrorString("schema", e.Type, e.Field, e.Reason, e.Cause)
}

func (e *SchemaError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrSchema, e.Cause}
	}
	return []error{ErrSchema}
}

// SpecError reports metadata that cannot be turned into an argument spec
// (for example nargs on a non-list field). It is raised before any token is read.
type SpecError struct {
	Field  string
	Reason string
	Cause  error
}

func (e *SpecError) Error() string {
	return configErrorString("spec", "", e.Field, e.Reason, e.Cause)
}

func (e *SpecError) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrSpec, e.Cause}
	}
	return []error{ErrSpec}
}

func configErrorString(class, typ, field, reason string, cause error) string {
	b := &strings.Builder{}
	b.WriteString("argskema: ")
	b.WriteString(class)
	if typ != "" {
		fmt.Fprintf(b, " %s", typ)
	}
	if field != "" {
		fmt.Fprintf(b, " field %q", field)
	}
	b.WriteString(": ")
	b.WriteString(reason)
	if cause != nil {
		fmt.Fprintf(b, ": %v", cause)
	}
	return b.String()
}

func schemaErrorf(typ, field, format string, a ...any) *SchemaError {
	return &SchemaError{Type: typ, Field: field, Reason: fmt.Sprintf(format, a...)}
}

func specErrorf(field, format string, a ...any) *SpecError {
	return &SpecError{Field: field, Reason: fmt.Sprintf(format, a...)}
}
