package engine

import (
	"fmt"
	"strings"
)

// Usage renders the one-line usage summary.
func (p *Parser) Usage() string {
	parts := []string{"usage:", p.Prog}
	if p.AddHelp {
		parts = append(parts, "[-h]")
	}
	for _, o := range p.opts {
		if o.Positional {
			continue
		}
		s := o.Flags[0]
		if args := o.argsText(); args != "" {
			s += " " + args
		}
		if !o.Required {
			s = "[" + s + "]"
		}
		parts = append(parts, s)
	}
	for _, o := range p.pos {
		s := o.argsText()
		if !o.Required {
			s = "[" + s + "]"
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, " ")
}

// Help renders usage followed by per-argument help.
func (p *Parser) Help() string {
	b := &strings.Builder{}
	b.WriteString(p.Usage())
	b.WriteString("\n")
	if len(p.pos) > 0 {
		b.WriteString("\npositional arguments:\n")
		for _, o := range p.pos {
			writeHelpLine(b, o.Display(), o.Help)
		}
	}
	b.WriteString("\noptions:\n")
	if p.AddHelp {
		writeHelpLine(b, "-h, --help", helpOption.Help)
	}
	for _, o := range p.opts {
		if o.Positional {
			continue
		}
		args := o.argsText()
		names := make([]string, 0, len(o.Flags))
		for _, f := range o.Flags {
			if args != "" {
				f += " " + args
			}
			names = append(names, f)
		}
		writeHelpLine(b, strings.Join(names, ", "), o.Help)
	}
	return b.String()
}

func writeHelpLine(b *strings.Builder, names, help string) {
	if help == "" {
		fmt.Fprintf(b, "  %s\n", names)
		return
	}
	fmt.Fprintf(b, "  %-24s %s\n", names, help)
}

// argsText renders the value placeholders of an option, e.g. "FRIENDS FRIENDS".
func (o *Option) argsText() string {
	mv := o.metavar()
	switch o.Arity {
	case ArityZero:
		return ""
	case ArityFixed:
		return strings.TrimSpace(strings.Repeat(mv+" ", o.N))
	case ArityOneOrMore:
		return mv + " [" + mv + " ...]"
	}
	return mv
}

func (o *Option) metavar() string {
	if o.Metavar != "" {
		return o.Metavar
	}
	if len(o.Choices) > 0 {
		return "{" + strings.ReplaceAll(FormatChoices(o.Choices), ", ", ",") + "}"
	}
	if o.Positional {
		return o.Flags[0]
	}
	return strings.ToUpper(o.Dest)
}
