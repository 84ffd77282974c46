package optkit

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// usage renders the option as it appears in the usage line:
// <key> when mandatory, [key] otherwise. Tagless options show their
// description and value count instead of a key.
func (o *Option) usage() string {
	name := o.key
	if o.kind == KindTagless {
		label := o.description
		if label == "" {
			label = "arg" + o.key
		}
		name = label + "(" + countLabel(o.maxValues) + ")"
	}
	if o.mandatory {
		return "<" + name + ">"
	}
	return "[" + name + "]"
}

func countLabel(n int) string {
	if n == Unbounded {
		return "..."
	}
	return fmt.Sprint(n)
}

// PrintUsage writes the program description, the usage line and a table of
// the tagged options to w.
func (c *Cli) PrintUsage(w io.Writer) {
	opts := c.reg.ordered()
	bold := color.New(color.Bold).SprintFunc()

	fmt.Fprintln(w)
	if c.description != "" {
		fmt.Fprintf(w, "%s  %s\n", bold(c.program), c.description)
	} else {
		fmt.Fprintln(w, bold(c.program))
	}

	parts := make([]string, 0, len(opts))
	for _, o := range opts {
		parts = append(parts, o.usage())
	}
	fmt.Fprintf(w, "usage: %s %s\n", c.program, strings.Join(parts, " "))

	var tagged []*Option
	for _, o := range opts {
		if o.kind != KindTagless {
			tagged = append(tagged, o)
		}
	}
	if len(tagged) == 0 {
		return
	}

	// two columns for the usage brackets
	keyWidth := c.reg.keyWidth + 2
	fmt.Fprintln(w, "options:")
	for _, o := range tagged {
		desc := o.description
		if o.defaultValue != "" {
			shown := o.defaultValue
			if o.secret {
				shown = redacted
			}
			desc += fmt.Sprintf(" (default: %s)", shown)
		}
		line := fmt.Sprintf("  %-*s  %-*s  %s", keyWidth, o.usage(), c.reg.aliasWidth, o.alias, desc)
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}
}
