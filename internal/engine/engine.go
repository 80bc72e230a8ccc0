// Package engine is the generic command-line token parser behind argskema.
// It knows nothing about records: options are registered with a destination
// name, flag strings, an arity and a converter, and Parse returns a flat
// destination -> value map.
package engine

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Kind represents the classification of a raw argv token.
type Kind int

const (
	KindValue      Kind = iota // Positional token or flag value.
	KindFlag                   // Starts with '-' and is not a negative number.
	KindTerminator             // "--": every following token is a value.
)

// Token is a classified argv token.
type Token struct {
	Kind   Kind
	String string
	Index  int // Position in the original argument list.
}

// ArityKind is the number of values an option consumes.
type ArityKind int

const (
	ArityOne ArityKind = iota
	ArityZero
	ArityFixed
	ArityOneOrMore
)

// Option is one registered argument.
type Option struct {
	Dest       string
	Flags      []string
	Positional bool
	Arity      ArityKind
	N          int // ArityFixed only.
	Convert    func(string) (any, error)
	Choices    []any
	Required   bool
	Help       string
	Metavar    string
	TypeName   string // Used in invalid value messages.
}

// ErrHelp is returned by Parse when -h/--help was supplied and AddHelp is set.
var ErrHelp = errors.New("help requested")

var negativeNumber = regexp.MustCompile(`^-\d+$|^-\d*\.\d+$`)

// LooksNegative reports whether s reads as a negative number rather than a flag.
func LooksNegative(s string) bool { return negativeNumber.MatchString(s) }

// Parser holds registered options in registration order.
type Parser struct {
	Prog    string
	AddHelp bool

	opts  []*Option
	flags map[string]*Option
	pos   []*Option
	// set when a registered flag itself looks like a negative number; then
	// negative numbers are treated as flags, like argparse does.
	negFlags bool
}

// helpOption is a sentinel registered for -h/--help.
var helpOption = &Option{Dest: "", Flags: []string{"-h", "--help"}, Arity: ArityZero, Help: "show this help message and exit"}

// New returns a parser that answers -h/--help.
func New(prog string) *Parser {
	return &Parser{Prog: prog, AddHelp: true, flags: map[string]*Option{}}
}

// Add registers an option. Positional options bind positional tokens in the
// order they were added.
func (p *Parser) Add(o Option) error {
	if strings.TrimSpace(o.Dest) == "" {
		return errors.New("engine: option without dest")
	}
	if len(o.Flags) == 0 {
		return fmt.Errorf("engine: option %q has no flag strings", o.Dest)
	}
	opt := o
	if opt.Positional {
		if len(opt.Flags) != 1 {
			return fmt.Errorf("engine: positional %q must have exactly one name", o.Dest)
		}
		if opt.Arity == ArityZero {
			return fmt.Errorf("engine: positional %q cannot be a presence flag", o.Dest)
		}
		p.opts = append(p.opts, &opt)
		p.pos = append(p.pos, &opt)
		return nil
	}
	for _, f := range opt.Flags {
		if !strings.HasPrefix(f, "-") || f == "-" || f == "--" {
			return fmt.Errorf("engine: option %q: %q is not a flag", o.Dest, f)
		}
		if prev, ok := p.flags[f]; ok {
			return fmt.Errorf("engine: flag %s of %q conflicts with %q", f, o.Dest, prev.Dest)
		}
	}
	for _, f := range opt.Flags {
		p.flags[f] = &opt
		if negativeNumber.MatchString(f) {
			p.negFlags = true
		}
	}
	p.opts = append(p.opts, &opt)
	return nil
}

// Options returns the registered options in registration order.
func (p *Parser) Options() []*Option { return p.opts }

func (p *Parser) classify(args []string) []Token {
	toks := make([]Token, len(args))
	for i, a := range args {
		k := KindValue
		switch {
		case a == "--":
			k = KindTerminator
		case len(a) > 1 && a[0] == '-':
			if p.negFlags || !negativeNumber.MatchString(a) {
				k = KindFlag
			}
		}
		toks[i] = Token{Kind: k, String: a, Index: i}
	}
	return toks
}

// Parse consumes args and returns a dest -> value map holding only the
// options that were supplied. Errors are returned as Errors (or ErrHelp).
func (p *Parser) Parse(args []string) (map[string]any, error) {
	toks := p.classify(args)
	out := map[string]any{}
	seen := map[string]bool{}
	var positionals []string

	i := 0
	for i < len(toks) {
		tok := toks[i]
		if tok.Kind == KindTerminator {
			for _, rest := range toks[i+1:] {
				positionals = append(positionals, rest.String)
			}
			break
		}
		if tok.Kind == KindValue {
			positionals = append(positionals, tok.String)
			i++
			continue
		}

		name, explicit, hasExplicit := splitExplicit(tok.String)
		if hasExplicit && !strings.HasPrefix(name, "--") {
			// "-ofoo=bar" is -o with "foo=bar" unless "-ofoo" is a flag itself
			if _, exact := p.flags[name]; !exact && !p.isHelp(name) {
				name, explicit, hasExplicit = tok.String, "", false
			}
		}
		opt, attached, lerr := p.lookup(name)
		if lerr != nil {
			return nil, Errors{lerr}
		}
		if opt == helpOption {
			return nil, ErrHelp
		}
		if attached != "" {
			explicit, hasExplicit = attached, true
		}
		i++

		var values []string
		if hasExplicit {
			values = append(values, explicit)
		}
		switch opt.Arity {
		case ArityZero:
			if hasExplicit {
				return nil, Errors{{Code: ErrArity, Dest: opt.Dest, Flag: opt.Display(), Expected: "0", Value: explicit}}
			}
			out[opt.Dest] = true
			seen[opt.Dest] = true
			continue
		case ArityOne:
			if !hasExplicit {
				if i < len(toks) && toks[i].Kind == KindValue {
					values = append(values, toks[i].String)
					i++
				}
			}
			if len(values) != 1 {
				return nil, Errors{{Code: ErrArity, Dest: opt.Dest, Flag: opt.Display(), Expected: "1"}}
			}
		case ArityFixed:
			for len(values) < opt.N && i < len(toks) && toks[i].Kind == KindValue {
				values = append(values, toks[i].String)
				i++
			}
			if len(values) != opt.N {
				return nil, Errors{{Code: ErrArity, Dest: opt.Dest, Flag: opt.Display(), Expected: fmt.Sprint(opt.N)}}
			}
		case ArityOneOrMore:
			for i < len(toks) && toks[i].Kind == KindValue {
				values = append(values, toks[i].String)
				i++
			}
			if len(values) == 0 {
				return nil, Errors{{Code: ErrArity, Dest: opt.Dest, Flag: opt.Display(), Expected: "at least 1"}}
			}
		}
		v, cerr := p.convertAll(opt, values)
		if cerr != nil {
			return nil, Errors{cerr}
		}
		out[opt.Dest] = v
		seen[opt.Dest] = true
	}

	rest, perr := p.bindPositionals(positionals, out, seen)
	if perr != nil {
		return nil, Errors{perr}
	}

	var missing Errors
	for _, o := range p.opts {
		if o.Required && !seen[o.Dest] {
			missing = append(missing, &Error{Code: ErrMissing, Dest: o.Dest, Flag: o.Display()})
		}
	}
	if len(missing) > 0 {
		return nil, missing
	}
	if len(rest) > 0 {
		return nil, Errors{{Code: ErrUnexpected, Value: strings.Join(rest, " ")}}
	}
	return out, nil
}

// bindPositionals assigns positional tokens to positional options in order and
// returns the tokens nobody claimed.
func (p *Parser) bindPositionals(tokens []string, out map[string]any, seen map[string]bool) ([]string, *Error) {
	for idx, opt := range p.pos {
		// tokens later required positionals need at minimum
		reserve := 0
		for _, later := range p.pos[idx+1:] {
			if later.Required {
				reserve += minTokens(later)
			}
		}
		avail := len(tokens) - reserve
		// a required positional takes its share even when later ones starve
		if opt.Required && avail < minTokens(opt) {
			avail = min(len(tokens), minTokens(opt))
		}
		take := 0
		switch opt.Arity {
		case ArityFixed:
			if avail >= opt.N {
				take = opt.N
			} else if opt.Required && avail > 0 {
				return nil, &Error{Code: ErrArity, Dest: opt.Dest, Flag: opt.Display(), Expected: fmt.Sprint(opt.N)}
			}
		case ArityOneOrMore:
			if avail >= 1 {
				take = avail
			}
		default:
			if avail >= 1 {
				take = 1
			}
		}
		if take == 0 {
			// absent; a required positional is reported as missing
			continue
		}
		values := tokens[:take]
		tokens = tokens[take:]
		v, err := p.convertAll(opt, values)
		if err != nil {
			return nil, err
		}
		out[opt.Dest] = v
		seen[opt.Dest] = true
	}
	return tokens, nil
}

func minTokens(o *Option) int {
	if o.Arity == ArityFixed {
		return o.N
	}
	return 1
}

// convertAll converts and choice-checks every value. Single-value arities
// yield the converted value itself; list arities yield []any.
func (p *Parser) convertAll(opt *Option, values []string) (any, *Error) {
	conv := make([]any, 0, len(values))
	for _, raw := range values {
		v, err := convertOne(opt, raw)
		if err != nil {
			return nil, err
		}
		conv = append(conv, v)
	}
	if opt.Arity == ArityOne {
		return conv[0], nil
	}
	return conv, nil
}

func convertOne(opt *Option, raw string) (any, *Error) {
	var v any = raw
	if opt.Convert != nil {
		cv, err := opt.Convert(raw)
		if err != nil {
			return nil, &Error{Code: ErrInvalidValue, Dest: opt.Dest, Flag: opt.Display(), Value: raw, TypeName: opt.TypeName, Cause: err}
		}
		v = cv
	}
	if len(opt.Choices) > 0 && !containsChoice(opt.Choices, v) {
		return nil, &Error{Code: ErrInvalidChoice, Dest: opt.Dest, Flag: opt.Display(), Value: raw, Choices: opt.Choices}
	}
	return v, nil
}

// splitExplicit splits "--flag=value" into its flag and explicit value.
func splitExplicit(tok string) (name, value string, ok bool) {
	if eq := strings.Index(tok, "="); eq > 0 {
		return tok[:eq], tok[eq+1:], true
	}
	return tok, "", false
}

func (p *Parser) isHelp(name string) bool {
	return p.AddHelp && (name == "-h" || name == "--help")
}

// lookup resolves a flag token: exact match, then "-xVALUE" for short
// single-value flags, then a unique prefix of a long flag.
func (p *Parser) lookup(name string) (*Option, string, *Error) {
	if o, ok := p.flags[name]; ok {
		return o, "", nil
	}
	if p.isHelp(name) {
		return helpOption, "", nil
	}
	if !strings.HasPrefix(name, "--") && len(name) > 2 {
		if o, ok := p.flags[name[:2]]; ok && o.Arity == ArityOne {
			return o, name[2:], nil
		}
	}
	if strings.HasPrefix(name, "--") {
		var cands []string
		var match *Option
		for f, o := range p.flags {
			if strings.HasPrefix(f, name) && strings.HasPrefix(f, "--") {
				cands = append(cands, f)
				match = o
			}
		}
		if p.AddHelp && strings.HasPrefix("--help", name) {
			if _, claimed := p.flags["--help"]; !claimed {
				cands = append(cands, "--help")
				match = helpOption
			}
		}
		switch {
		case len(cands) == 1:
			return match, "", nil
		case len(cands) > 1 && !sameOption(p, cands):
			sort.Strings(cands)
			return nil, "", &Error{Code: ErrAmbiguous, Value: name, Candidates: cands}
		case len(cands) > 1:
			return p.flags[cands[0]], "", nil
		}
	}
	return nil, "", &Error{Code: ErrUnknown, Value: name}
}

// sameOption reports whether every candidate flag belongs to one option.
func sameOption(p *Parser, cands []string) bool {
	first, ok := p.flags[cands[0]]
	if !ok {
		return false
	}
	for _, c := range cands[1:] {
		if p.flags[c] != first {
			return false
		}
	}
	return true
}

// Display is the argparse-style name of the option in messages: the flags
// joined with '/' or the positional name.
func (o *Option) Display() string {
	if o.Positional {
		if o.Metavar != "" {
			return o.Metavar
		}
		return o.Flags[0]
	}
	return strings.Join(o.Flags, "/")
}
