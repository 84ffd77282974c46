package optkit

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const redacted = "***redacted***"

// DumpOption configures dump behavior using the functional options pattern.
type DumpOption func(*dumpConfig)

// dumpConfig holds options for Dump.
type dumpConfig struct {
	withSources bool   // Include where each value came from
	asJSON      bool   // Output as JSON instead of text format
	indent      string // Indentation for JSON output (default: "  ")
}

// WithSources includes the origin of each value in the output.
func WithSources() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.withSources = true
	}
}

// AsJSON outputs the options as JSON instead of text format.
func AsJSON() DumpOption {
	return func(cfg *dumpConfig) {
		cfg.asJSON = true
	}
}

// WithIndent sets the indentation for JSON output.
// Default is two spaces ("  "). An empty indent produces compact JSON.
func WithIndent(indent string) DumpOption {
	return func(cfg *dumpConfig) {
		cfg.indent = indent
	}
}

// Dump writes the effective value of every declared option to w.
// The built-in help option is left out. Secret values are redacted as
// "***redacted***". Like every query it parses first.
func (c *Cli) Dump(w io.Writer, opts ...DumpOption) error {
	c.ensureParsed()

	config := dumpConfig{
		indent: "  ",
	}
	for _, opt := range opts {
		opt(&config)
	}

	var entries []*Option
	for _, o := range c.reg.ordered() {
		if !o.builtin {
			entries = append(entries, o)
		}
	}

	if config.asJSON {
		return dumpAsJSON(w, entries, config)
	}
	return dumpAsText(w, entries, config)
}

// dumpAsText writes one "key: value" line per option.
func dumpAsText(w io.Writer, entries []*Option, config dumpConfig) error {
	for _, o := range entries {
		line := fmt.Sprintf("%s: %s", o.key, formatOption(o))
		if src := o.Source(); config.withSources && src != "" {
			line += fmt.Sprintf(" (source: %s)", src)
		}
		line += "\n"

		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("write error: %w", err)
		}
	}
	return nil
}

// dumpEntry is the JSON shape of one option when sources are requested.
type dumpEntry struct {
	Value  any    `json:"value"`
	Source string `json:"source,omitempty"`
}

// dumpAsJSON writes a JSON object keyed by option key.
func dumpAsJSON(w io.Writer, entries []*Option, config dumpConfig) error {
	result := make(map[string]any, len(entries))
	for _, o := range entries {
		v := formatOptionForJSON(o)
		if config.withSources {
			result[o.key] = dumpEntry{Value: v, Source: o.Source()}
			continue
		}
		result[o.key] = v
	}

	var data []byte
	var err error
	if config.indent != "" {
		data, err = json.MarshalIndent(result, "", config.indent)
	} else {
		data, err = json.Marshal(result)
	}
	if err != nil {
		return fmt.Errorf("json marshal error: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	if _, err := w.Write([]byte("\n")); err != nil {
		return fmt.Errorf("write error: %w", err)
	}
	return nil
}

// formatOption renders the option's value for text output.
func formatOption(o *Option) string {
	switch {
	case o.secret && (o.exists || o.defaultValue != ""):
		return redacted
	case o.maxValues == 0:
		return fmt.Sprintf("%t", o.exists)
	case o.kind != KindValue && o.exists:
		return fmt.Sprintf("[%s]", strings.Join(o.values, ", "))
	case !o.exists && o.defaultValue == "":
		return "<not set>"
	default:
		return fmt.Sprintf("%q", o.Value())
	}
}

// formatOptionForJSON renders the option's value for JSON output.
func formatOptionForJSON(o *Option) any {
	switch {
	case o.secret && (o.exists || o.defaultValue != ""):
		return redacted
	case o.maxValues == 0:
		return o.exists
	case o.kind != KindValue && o.exists:
		return o.Values()
	case !o.exists && o.defaultValue == "":
		return nil
	default:
		return o.Value()
	}
}
