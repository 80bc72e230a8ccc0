package argskema

import (
	"strings"

	"github.com/reoring/argskema/i18n"
	eng "github.com/reoring/argskema/internal/engine"
)

// IssueAt creates an Issue for the given field with provided code, message and params map.
// An empty field places the issue at the root pointer "/".
func IssueAt(field, code, msg string, params map[string]any) Issue {
	return Issue{Path: pointer(field), Code: code, Message: msg, Params: params}
}

func pointer(field string) string {
	if field == "" {
		return "/"
	}
	return "/" + field
}

// issueFromEngine maps an engine error to a localized Issue.
func issueFromEngine(e *eng.Error) Issue {
	data := map[string]string{"flag": e.Flag, "value": e.Value}
	var code string
	switch e.Code {
	case eng.ErrMissing:
		code = CodeRequired
		data["flags"] = e.Flag
	case eng.ErrInvalidValue:
		code = CodeInvalidValue
		data["type"] = e.TypeName
	case eng.ErrInvalidChoice:
		code = CodeInvalidChoice
		data["choices"] = eng.FormatChoices(e.Choices)
	case eng.ErrArity:
		code = CodeWrongArity
		data["expected"] = e.Expected
	case eng.ErrAmbiguous:
		code = CodeAmbiguousFlag
		data["candidates"] = strings.Join(e.Candidates, ", ")
	case eng.ErrUnknown:
		code = CodeUnknownFlag
	default:
		code = CodeUnexpectedArgument
	}
	params := make(map[string]any, len(data))
	for k, v := range data {
		if v != "" {
			params[k] = v
		}
	}
	it := IssueAt(e.Dest, code, i18n.T(code, data), params)
	it.Hint = e.Flag
	it.Cause = e.Cause
	return it
}

// summary renders issues as the single diagnostic line of exit mode.
// Missing required arguments are reported together.
func summary(iss Issues) string {
	if len(iss) == 0 {
		return ""
	}
	if iss[0].Code != CodeRequired {
		return iss[0].Message
	}
	flags := make([]string, 0, len(iss))
	for _, it := range iss {
		if it.Code == CodeRequired {
			flags = append(flags, it.Hint)
		}
	}
	return i18n.T(CodeRequired, map[string]string{"flags": strings.Join(flags, ", ")})
}
