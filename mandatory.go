package optkit

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/shlex"
	"golang.org/x/term"
)

// resolveMandatory makes sure every mandatory option exists, prompting for
// missing ones when interactive. A tolerant Cli leaves them absent instead.
// Relations may clear mandatory flags while this runs.
func (c *Cli) resolveMandatory() error {
	for _, o := range c.reg.ordered() {
		if !o.mandatory || o.exists {
			continue
		}
		if !c.interactive {
			if c.strict {
				return missingMandatory(o)
			}
			c.logger.Debug("mandatory option left absent", "key", o.key)
			continue
		}
		if err := c.prompt(o); err != nil {
			return err
		}
	}
	return nil
}

// prompt asks for a value of o on the configured input.
// An empty answer is accepted when a relation of o may still be satisfied by
// another member, or when the Cli is tolerant.
func (c *Cli) prompt(o *Option) error {
	usage := o.usage()
	fmt.Fprintf(c.out, "%s is a required parameter\n", usage)
	fmt.Fprintf(c.out, "%s: ", usage)
	c.logger.Debug("prompting", "key", o.key, "secret", o.secret)

	line, err := c.readLine(o.secret)
	if err != nil {
		return &ParseError{
			Code:    ErrCodeMissingMandatory,
			Key:     o.key,
			Message: fmt.Sprintf("cannot read %s: %v", usage, err),
			Err:     err,
		}
	}

	line = strings.TrimSpace(line)
	if o.maxValues == 0 && line != "" {
		// A flag answers yes or no.
		if yes, err := parseBool(line, true); err != nil || !yes {
			line = ""
		}
	}
	if line == "" {
		if o.hasPendingRelation() || !c.strict {
			return nil
		}
		return missingMandatory(o)
	}

	values := []string{line}
	if o.kind != KindValue {
		values, err = shlex.Split(line)
		if err != nil {
			return &ParseError{
				Code:    ErrCodeUnexpectedValue,
				Key:     o.key,
				Value:   line,
				Message: fmt.Sprintf("cannot split input: %v", err),
				Err:     err,
			}
		}
		if len(values) > o.maxValues {
			values = values[:o.maxValues]
		}
	}

	appeared := o.markSupplied(originPrompt)
	if o.maxValues > 0 {
		for _, v := range values {
			o.appendValue(v)
			if err := c.checkConstraints(o); err != nil {
				return err
			}
		}
	}
	if appeared {
		return c.checkRelations(o)
	}
	return nil
}

// readLine reads one line of input. Secret input is read without echo when
// the input is a terminal. End of input counts as the end of the line.
func (c *Cli) readLine(secret bool) (string, error) {
	if f, ok := c.in.(*os.File); ok && secret && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(c.out)
		return string(b), err
	}

	if c.reader == nil {
		c.reader = bufio.NewReader(c.in)
	}
	line, err := c.reader.ReadString('\n')
	if errors.Is(err, io.EOF) {
		return line, nil
	}
	return line, err
}
