package argskema

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Kind is the semantic type tag of a field.
type Kind int

const (
	KindString Kind = iota
	KindInt         // Any Go int/uint width.
	KindFloat
	KindBool // Presence flag when used as a field type.
	KindList // List-of-Elem.
	KindCustom
)

func (k Kind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindList:
		return "list"
	case KindCustom:
		return "custom"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Converter turns one raw token into a typed value.
type Converter func(string) (any, error)

// Type is the declared type of a field.
type Type struct {
	Kind Kind
	Name string // Display name, e.g. "int", "list[str]", "datetime".
	Elem *Type  // Element type for KindList.
	// Convert is required for KindCustom and optional otherwise; when nil the
	// natural textual parse of the kind is used.
	Convert Converter
	// Format renders a value back into a token for EncodeArgs. Optional.
	Format func(any) string
	// GoType is the destination type converted values are cast to. When nil the
	// converter output is kept as is.
	GoType reflect.Type
}

func (t Type) String() string {
	if t.Name != "" {
		return t.Name
	}
	if t.Kind == KindList && t.Elem != nil {
		return "list[" + t.Elem.String() + "]"
	}
	return t.Kind.String()
}

// IsList reports whether t is a list-like container.
func (t Type) IsList() bool { return t.Kind == KindList }

// Nargs is the arity override of the nargs metadata key. The zero value means
// unset; positive values request exactly that many tokens.
type Nargs int

// NargsOneOrMore is the "+" arity: one or more tokens collected into a list.
const NargsOneOrMore Nargs = -1

// ParseNargs parses the textual form of nargs: a positive integer or "+".
func ParseNargs(s string) (Nargs, error) {
	s = strings.TrimSpace(s)
	if s == "+" {
		return NargsOneOrMore, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("nargs %q: want a positive integer or \"+\"", s)
	}
	if n <= 0 {
		return 0, fmt.Errorf("nargs %d: must be positive", n)
	}
	return Nargs(n), nil
}

func (n Nargs) String() string {
	switch {
	case n == NargsOneOrMore:
		return "+"
	case n == 0:
		return ""
	}
	return strconv.Itoa(int(n))
}

// Metadata holds the recognized per-field option keys. Unknown keys are kept
// in Extra and never interpreted.
type Metadata struct {
	Args  []string  // Explicit flag strings, or a single bare name for a positional.
	Nargs Nargs     // Arity override for list fields.
	Type  Converter // Per-token converter overriding the inferred one.
	// TypeName names Type in invalid value messages; defaults to the
	// declared type name.
	TypeName string
	Choices  []any // Closed set of permitted decoded values.
	Help     string
	Extra    map[string]any
}

// FieldDescriptor describes one declared field of a record type.
type FieldDescriptor struct {
	Name           string
	Type           Type
	Default        any
	HasDefault     bool
	DefaultFactory func() any
	Meta           Metadata
	// Index is the struct field index path used when materializing into a
	// struct; nil for map records.
	Index []int
}

// Defaultable reports whether the field resolves to a value when absent.
func (f FieldDescriptor) Defaultable() bool {
	return f.HasDefault || f.DefaultFactory != nil
}

// ArityKind is the token-count shape of an argument.
type ArityKind int

const (
	ArityOne       ArityKind = iota // Exactly one token.
	ArityZero                       // Presence flag: no tokens, presence yields true.
	ArityFixed                      // Exactly N tokens collected into a list.
	ArityOneOrMore                  // One or more tokens collected into a list.
)

// Arity is the number of tokens an argument consumes.
type Arity struct {
	Kind ArityKind
	N    int // Only for ArityFixed.
}

func (a Arity) String() string {
	switch a.Kind {
	case ArityZero:
		return "0"
	case ArityFixed:
		return strconv.Itoa(a.N)
	case ArityOneOrMore:
		return "+"
	}
	return "1"
}

// ArgumentSpec is the argument definition derived 1:1 from a FieldDescriptor.
type ArgumentSpec struct {
	Dest       string
	Flags      []string
	Positional bool
	Arity      Arity
	// Convert turns one token into a value already cast to the element type.
	Convert  Converter
	Choices  []any
	Required bool
	Help     string
	Metavar  string
	Type     Type
}

// ParsedValues maps field names to parsed values. Fields the user did not
// supply are absent, never nil placeholders.
type ParsedValues map[string]any
