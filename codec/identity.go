package codec

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Title maps every word to title case and lowercases the rest ("john doe" -> "John Doe").
func Title(s string) (any, error) { return cases.Title(language.Und).String(s), nil }

// Upper maps the token to upper case.
func Upper(s string) (any, error) { return cases.Upper(language.Und).String(s), nil }

// Lower maps the token to lower case.
func Lower(s string) (any, error) { return cases.Lower(language.Und).String(s), nil }
