package engine

import (
	"fmt"
	"reflect"
	"strings"
)

// ErrorCode classifies user-input errors.
type ErrorCode int

const (
	ErrMissing       ErrorCode = iota // Required option not supplied.
	ErrInvalidValue                   // Converter rejected a token.
	ErrInvalidChoice                  // Converted value outside the choice set.
	ErrArity                          // Wrong number of values.
	ErrUnknown                        // Unrecognized flag.
	ErrAmbiguous                      // Abbreviation matches several flags.
	ErrUnexpected                     // Leftover positional tokens.
)

// Error is one user-input error. Messages mirror argparse wording.
type Error struct {
	Code       ErrorCode
	Dest       string
	Flag       string // Display name of the option.
	Value      string // Offending token(s).
	Expected   string // Expected value count for ErrArity.
	TypeName   string
	Choices    []any
	Candidates []string
	Cause      error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrMissing:
		return "the following arguments are required: " + e.Flag
	case ErrInvalidValue:
		return fmt.Sprintf("argument %s: invalid %s value: '%s'", e.Flag, e.TypeName, e.Value)
	case ErrInvalidChoice:
		return fmt.Sprintf("argument %s: invalid choice: '%s' (choose from %s)", e.Flag, e.Value, FormatChoices(e.Choices))
	case ErrArity:
		if e.Expected == "0" {
			return fmt.Sprintf("argument %s: ignored explicit argument '%s'", e.Flag, e.Value)
		}
		return fmt.Sprintf("argument %s: expected %s argument(s)", e.Flag, e.Expected)
	case ErrAmbiguous:
		return fmt.Sprintf("ambiguous option: %s could match %s", e.Value, strings.Join(e.Candidates, ", "))
	}
	return "unrecognized arguments: " + e.Value
}

func (e *Error) Unwrap() error { return e.Cause }

// Errors is the error type returned by Parse.
type Errors []*Error

func (es Errors) Error() string {
	if len(es) == 0 {
		return ""
	}
	if es[0].Code == ErrMissing {
		flags := make([]string, 0, len(es))
		for _, e := range es {
			if e.Code == ErrMissing {
				flags = append(flags, e.Flag)
			}
		}
		return "the following arguments are required: " + strings.Join(flags, ", ")
	}
	return es[0].Error()
}

// FormatChoices renders a choice set as "1, 2, 3".
func FormatChoices(cs []any) string {
	parts := make([]string, 0, len(cs))
	for _, c := range cs {
		parts = append(parts, fmt.Sprint(c))
	}
	return strings.Join(parts, ", ")
}

func containsChoice(cs []any, v any) bool {
	for _, c := range cs {
		if choiceEqual(c, v) {
			return true
		}
	}
	return false
}

// choiceEqual compares deeply, treating numbers of different Go types as
// equal when their values are.
func choiceEqual(a, b any) bool {
	if reflect.DeepEqual(a, b) {
		return true
	}
	fa, okA := asFloat(a)
	fb, okB := asFloat(b)
	return okA && okB && fa == fb
}

func asFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}
