package argskema

import (
	"reflect"
	"strings"
	"unicode"
)

// ResolveFieldName applies the repository-wide rule that maps a struct field
// to its record field name.
// Priority: name:"..." tag > snake_case of the Go field name; "-" disables the field.
func ResolveFieldName(sf reflect.StructField) string {
	if nt, ok := sf.Tag.Lookup("name"); ok {
		nt = strings.TrimSpace(nt)
		if nt != "" {
			return nt
		}
	}
	return SnakeCase(sf.Name)
}

// SnakeCase converts a Go identifier to snake_case, keeping initialisms
// together: NumOfFoo -> num_of_foo, HTTPPort -> http_port.
func SnakeCase(s string) string {
	rs := []rune(s)
	b := &strings.Builder{}
	for i, r := range rs {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := rs[i-1]
				nextLower := i+1 < len(rs) && unicode.IsLower(rs[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FlagName synthesizes the long flag of a field: num_of_foo -> --num-of-foo.
func FlagName(field string) string {
	return "--" + strings.ReplaceAll(field, "_", "-")
}
