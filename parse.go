package argskema

import (
	"errors"

	eng "github.com/reoring/argskema/internal/engine"
)

var engineArity = map[ArityKind]eng.ArityKind{
	ArityOne:       eng.ArityOne,
	ArityZero:      eng.ArityZero,
	ArityFixed:     eng.ArityFixed,
	ArityOneOrMore: eng.ArityOneOrMore,
}

// newParser registers every spec with the token engine in declaration order.
// Positional specs therefore bind positional tokens in declaration order.
func newParser(fields []FieldDescriptor, specs []ArgumentSpec, cfg *config) (*eng.Parser, error) {
	p := eng.New(cfg.prog)
	p.AddHelp = !cfg.noHelp
	for i, s := range specs {
		if !s.Positional && claimsHelp(s.Flags) {
			p.AddHelp = false
		}
		opt := eng.Option{
			Dest:       s.Dest,
			Flags:      s.Flags,
			Positional: s.Positional,
			Arity:      engineArity[s.Arity.Kind],
			N:          s.Arity.N,
			Convert:    s.Convert,
			Choices:    s.Choices,
			Required:   s.Required,
			Help:       s.Help,
			Metavar:    s.Metavar,
			TypeName:   typeName(fields[i]),
		}
		if err := p.Add(opt); err != nil {
			return nil, &SpecError{Field: s.Dest, Reason: "cannot register argument", Cause: err}
		}
	}
	return p, nil
}

func claimsHelp(flags []string) bool {
	for _, f := range flags {
		if f == "-h" || f == "--help" {
			return true
		}
	}
	return false
}

// parseTokens runs the engine and converts its errors: user-input errors
// become Issues, a converter that does not fit its field stays a *SpecError.
func parseTokens(p *eng.Parser, args []string) (ParsedValues, error) {
	raw, err := p.Parse(args)
	if err == nil {
		return ParsedValues(raw), nil
	}
	if errors.Is(err, eng.ErrHelp) {
		return nil, ErrHelp
	}
	var es eng.Errors
	if !errors.As(err, &es) {
		return nil, err
	}
	iss := make(Issues, 0, len(es))
	for _, e := range es {
		var se *SpecError
		if errors.As(e.Cause, &se) {
			return nil, se
		}
		iss = append(iss, issueFromEngine(e))
	}
	return nil, iss
}
