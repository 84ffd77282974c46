package optkit

import (
	"context"
)

// parse runs the whole pipeline once: priority pass, main pass, sources,
// mandatory resolution, relation confirmation and dispatch.
func (c *Cli) parse(ctx context.Context) error {
	var tokens []string
	if len(c.args) > 1 {
		tokens = c.args[1:]
	}

	if c.priorityPass(tokens) {
		c.logger.Debug("priority option present, skipping main pass")
		c.dispatch(c.reg.prioritized())
		return ErrShortCircuit
	}

	var err error
	if c.reg.mode == modeTagless {
		err = c.parseTagless(tokens)
	} else {
		err = c.parseNormal(tokens)
	}
	if err != nil {
		return err
	}

	if err := c.applySources(ctx); err != nil {
		return err
	}
	if err := c.checkAllRelations(); err != nil {
		return err
	}
	if err := c.resolveMandatory(); err != nil {
		return err
	}
	if err := c.confirmRelations(); err != nil {
		return err
	}

	c.dispatch(c.reg.ordered())
	return nil
}

// priorityPass looks for prioritized options anywhere in tokens and reports
// whether one was found. A matched flag ends the scan. Bare tokens following
// a matched option become its values unless they are registered keys.
func (c *Cli) priorityPass(tokens []string) bool {
	if c.reg.mode == modeTagless && c.help != nil && len(tokens) == 1 {
		if tokens[0] == "help" || tokens[0] == "h" {
			c.help.markSeen()
			return true
		}
	}

	var (
		matched bool
		last    *Option
		window  int
	)
	for _, token := range tokens {
		if o := c.reg.resolvePriority(token); o != nil {
			o.markSeen()
			matched = true
			if o.maxValues == 0 {
				break
			}
			last, window = o, 0
			continue
		}
		if last == nil {
			continue
		}
		if c.reg.resolve(token) != nil || !accepts(last, window) {
			last = nil
			continue
		}
		last.appendValue(token)
		window++
	}
	return matched
}

// parseNormal classifies tagged tokens. The only state is the option whose
// value window is open and how many values it took in this occurrence.
func (c *Cli) parseNormal(tokens []string) error {
	var (
		last   *Option
		window int
	)
	for _, token := range tokens {
		if o := c.reg.resolve(token); o != nil {
			appeared := o.markSeen()
			c.logger.Debug("option seen", "token", token, "key", o.key, "count", o.existsCount)
			if appeared {
				if err := c.checkRelations(o); err != nil {
					return err
				}
			}
			if o.maxValues == 0 {
				last = nil
			} else {
				last, window = o, 0
			}
			continue
		}

		if last == nil {
			if c.strict {
				return unknownArgument(token)
			}
			c.logger.Debug("skipping unknown token", "token", token)
			continue
		}

		if !accepts(last, window) {
			if c.strict {
				return unexpectedValue(last, token)
			}
			c.logger.Debug("skipping excess value", "token", token, "key", last.key)
			continue
		}

		last.appendValue(token)
		window++
		if err := c.checkConstraints(last); err != nil {
			return err
		}
	}
	return nil
}

// parseTagless hands tokens to the tagless options in id order, each taking
// up to its limit before the next one starts.
func (c *Cli) parseTagless(tokens []string) error {
	pos := 0
	for _, o := range c.reg.tagless() {
		for n := 0; n < o.maxValues && pos < len(tokens); n++ {
			token := tokens[pos]
			pos++

			appeared := o.markSeen()
			o.appendValue(token)
			c.logger.Debug("positional value", "key", o.key, "value", token)
			if err := c.checkConstraints(o); err != nil {
				return err
			}
			if appeared {
				if err := c.checkRelations(o); err != nil {
					return err
				}
			}
		}
	}

	if pos < len(tokens) {
		if c.strict {
			return unknownArgument(tokens[pos])
		}
		c.logger.Debug("skipping leftover tokens", "count", len(tokens)-pos)
	}
	return nil
}

// accepts reports whether o can take another value. Single-value options
// take one value per occurrence of their tag; multi-value options are
// limited across the whole run.
func accepts(o *Option, window int) bool {
	if o.kind == KindValue {
		return window < o.maxValues
	}
	return !o.full()
}
