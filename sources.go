package optkit

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azhovan/optkit/internal/normalize"
)

// sourcedValue is one merged source entry and where it came from.
type sourcedValue struct {
	value      any
	sourceName string // e.g., "env:APP_PORT" or "file:config.yaml"
}

// loadSources merges all sources by normalized key; later sources win.
func (c *Cli) loadSources(ctx context.Context) (map[string]sourcedValue, error) {
	merged := make(map[string]sourcedValue)

	for _, source := range c.sources {
		var data map[string]any
		var originalKeys map[string]string
		var err error

		if withKeys, ok := source.(SourceWithKeys); ok {
			data, originalKeys, err = withKeys.LoadWithKeys(ctx)
		} else {
			data, err = source.Load(ctx)
		}
		if err != nil {
			return nil, fmt.Errorf("load source %s: %w", source.Name(), err)
		}

		for key, value := range data {
			normalizedKey := normalize.OptionName(key)

			// Environment values are reported by their variable name.
			name := source.Name()
			if orig, ok := originalKeys[key]; ok && strings.HasPrefix(name, "env") {
				name = "env:" + orig
			}
			merged[normalizedKey] = sourcedValue{value: value, sourceName: name}
		}
	}

	return merged, nil
}

// applySources fills absent tagged options from the sources. Prioritized
// options are never filled; a flag is set only by a truthy value.
func (c *Cli) applySources(ctx context.Context) error {
	if len(c.sources) == 0 {
		return nil
	}

	merged, err := c.loadSources(ctx)
	if err != nil {
		return err
	}

	for _, o := range c.reg.ordered() {
		if o.exists || o.prioritized || o.kind == KindTagless {
			continue
		}

		entry, ok := merged[normalize.OptionName(o.key)]
		if !ok && o.alias != "" {
			entry, ok = merged[normalize.OptionName(o.alias)]
		}
		if !ok {
			continue
		}

		values := sourceValues(entry.value)
		if len(values) == 0 {
			continue
		}

		if o.maxValues == 0 {
			on, err := parseBool(values[len(values)-1], true)
			if err != nil {
				return conversionError(o, values[len(values)-1], err)
			}
			if !on {
				continue
			}
			values = nil
		} else if len(values) > o.maxValues {
			// same as an over-long command line in tolerant mode
			values = values[:o.maxValues]
		}

		appeared := o.markSupplied(entry.sourceName)
		c.logger.Debug("option filled from source", "key", o.key, "source", entry.sourceName)
		for _, v := range values {
			o.appendValue(v)
			if err := c.checkConstraints(o); err != nil {
				return err
			}
		}
		if appeared {
			if err := c.checkRelations(o); err != nil {
				return err
			}
		}
	}

	return nil
}

// sourceValues flattens a source value into raw strings.
// Lists become several values; everything else is formatted with %v.
func sourceValues(v any) []string {
	switch tv := v.(type) {
	case nil:
		return nil
	case string:
		return []string{tv}
	case []string:
		return tv
	case []any:
		out := make([]string, 0, len(tv))
		for _, item := range tv {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{fmt.Sprint(tv)}
	}
}
