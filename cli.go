package optkit

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ef-ds/deque"
	"github.com/fatih/color"
)

// Cli declares options for one program invocation and parses its arguments.
// Register every option first, then call Parse (or ParseOrExit) once.
// A Cli is not safe for concurrent use.
type Cli struct {
	args        []string
	program     string
	description string

	reg       *registry
	relations []MultiConstraint
	sources   []Source
	help      *Option

	strict      bool // Fail on unknown or excess tokens (default: true)
	interactive bool // Prompt for missing mandatory options

	in     io.Reader
	out    io.Writer
	reader *bufio.Reader
	exit   func(int)
	logger *slog.Logger

	queue *deque.Deque // pending callbacks, only while dispatching

	parsed bool
	err    error
}

// New creates a Cli for args, where args[0] is the program name (as in os.Args).
// The Cli starts strict, non-interactive, reading os.Stdin and writing os.Stdout,
// with -h/--help registered as a prioritized flag.
func New(args []string) *Cli {
	c := &Cli{
		args:   args,
		reg:    newRegistry(),
		strict: true,
		in:     os.Stdin,
		out:    os.Stdout,
		exit:   os.Exit,
		logger: slog.New(slog.DiscardHandler),
	}
	if len(args) > 0 {
		c.program = filepath.Base(args[0])
	}

	c.help = &Option{
		key:         "-h",
		alias:       "--help",
		description: "show this help and exit",
		kind:        KindValue,
		builtin:     true,
		owner:       c,
		onExists: func(*Option) {
			c.PrintUsage(c.out)
		},
	}
	// Cannot fail on an empty registry.
	_ = c.reg.register(c.help)
	_ = c.reg.prioritize(c.help)

	return c
}

// Description sets the one-line program description shown in usage.
func (c *Cli) Description(desc string) *Cli {
	c.description = desc
	return c
}

// Strict controls whether unknown and excess tokens fail the parse. Default: true.
// A tolerant Cli skips such tokens and leaves missing mandatory options absent.
func (c *Cli) Strict(strict bool) *Cli {
	c.strict = strict
	return c
}

// Interactive controls whether missing mandatory options are prompted for.
func (c *Cli) Interactive(interactive bool) *Cli {
	c.interactive = interactive
	return c
}

// WithIO redirects prompt input and all printed output.
func (c *Cli) WithIO(in io.Reader, out io.Writer) *Cli {
	c.in = in
	c.out = out
	c.reader = nil
	return c
}

// WithSource adds a source of fallback values. Sources are consulted in order
// (later override earlier) for options absent from the arguments.
func (c *Cli) WithSource(src Source) *Cli {
	c.sources = append(c.sources, src)
	return c
}

// WithExit replaces os.Exit as the terminal action of ParseOrExit.
func (c *Cli) WithExit(exit func(int)) *Cli {
	c.exit = exit
	return c
}

// WithLogger sets the logger for parser debug output.
func (c *Cli) WithLogger(logger *slog.Logger) *Cli {
	c.logger = logger
	return c
}

// WithoutHelp removes the built-in -h/--help option.
func (c *Cli) WithoutHelp() *Cli {
	if c.help != nil && c.reg.owns(c.help) {
		c.reg.remove(c.help)
	}
	c.help = nil
	return c
}

// Program returns the program name taken from args[0].
func (c *Cli) Program() string { return c.program }

// Options returns the registered options in registration order.
func (c *Cli) Options() []*Option { return c.reg.ordered() }

// AddOption registers a tagged option taking one value per tag, or several
// when spec.Multi is set.
func (c *Cli) AddOption(key string, spec Spec) (*Option, error) {
	kind, limit := KindValue, 1
	if spec.Multi {
		kind, limit = KindMulti, Unbounded
		if spec.MaxValues > 0 {
			limit = spec.MaxValues
		}
	}
	return c.add(key, kind, limit, spec)
}

// AddFlag registers a tagged option that takes no value.
func (c *Cli) AddFlag(key string, spec Spec) (*Option, error) {
	return c.add(key, KindValue, 0, spec)
}

// AddTagless registers a positional option consuming up to count tokens
// (Unbounded for all remaining ones). Its key is its position among the
// tagless options: "0", "1", and so on.
func (c *Cli) AddTagless(count int, spec Spec) (*Option, error) {
	if count < 1 {
		count = 1
	}
	spec.Alias = ""
	return c.add("", KindTagless, count, spec)
}

func (c *Cli) add(key string, kind Kind, limit int, spec Spec) (*Option, error) {
	if c.parsed {
		return nil, ErrAlreadyParsed
	}
	if kind != KindTagless && key == "" {
		return nil, ErrEmptyKey
	}

	o := &Option{
		key:          key,
		alias:        spec.Alias,
		description:  spec.Description,
		defaultValue: spec.Default,
		kind:         kind,
		maxValues:    limit,
		mandatory:    spec.Mandatory,
		secret:       spec.Secret,
		onExists:     spec.OnExists,
		owner:        c,
	}
	if err := c.reg.register(o); err != nil {
		return nil, err
	}
	if c.help != nil && !c.reg.owns(c.help) {
		c.help = nil
	}

	c.logger.Debug("option registered", "key", o.key, "alias", o.alias, "kind", o.kind, "max", o.maxValues)
	return o, nil
}

// Prioritize moves o into the priority pass: when present, only prioritized
// options are dispatched and every other check is skipped.
func (c *Cli) Prioritize(o *Option) error {
	if err := c.own(o); err != nil {
		return err
	}
	return c.reg.prioritize(o)
}

// SetMandatory marks o as required.
func (c *Cli) SetMandatory(o *Option) error {
	if err := c.own(o); err != nil {
		return err
	}
	o.mandatory = true
	return nil
}

// Constrain attaches value constraints to o. They are checked after every
// value o collects.
func (c *Cli) Constrain(o *Option, constraints ...Constraint) error {
	if err := c.own(o); err != nil {
		return err
	}
	o.constraints = append(o.constraints, constraints...)
	return nil
}

// MutuallyExclusive relates opts so that at most one of them may be given.
// Call Require on the result to demand exactly one.
func (c *Cli) MutuallyExclusive(opts ...*Option) (*Exclusion, error) {
	ex := newExclusion(opts)
	if err := c.Relate(ex); err != nil {
		return nil, err
	}
	return ex, nil
}

// Relate attaches a cross-option constraint to each of its options.
func (c *Cli) Relate(mc MultiConstraint) error {
	members := mc.Options()
	if len(members) < 2 {
		return ErrTooFewOptions
	}
	for _, o := range members {
		if err := c.own(o); err != nil {
			return err
		}
	}
	for _, o := range members {
		o.relations = append(o.relations, mc)
	}
	c.relations = append(c.relations, mc)
	return nil
}

func (c *Cli) own(o *Option) error {
	if c.parsed {
		return ErrAlreadyParsed
	}
	if o == nil || o.owner != c || !c.reg.owns(o) {
		return ErrForeignOption
	}
	return nil
}

// Parse parses the arguments once and caches the outcome; later calls
// return the cached result. It returns ErrShortCircuit when a prioritized
// option was present, or a *ParseError.
func (c *Cli) Parse() error {
	return c.ParseContext(context.Background())
}

// ParseContext is Parse with a context for loading sources.
func (c *Cli) ParseContext(ctx context.Context) error {
	if c.parsed {
		return c.err
	}
	c.parsed = true
	c.err = c.parse(ctx)
	return c.err
}

// ParseOrExit parses and terminates the process on failure: status 0 after a
// priority short-circuit, 1 (with the diagnostic and usage) on any error.
func (c *Cli) ParseOrExit() {
	err := c.Parse()
	switch {
	case err == nil:
		return
	case errors.Is(err, ErrShortCircuit):
		c.exit(0)
	default:
		c.fail(err)
	}
}

// fail reports a fatal error and exits with status 1.
func (c *Cli) fail(err error) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	fmt.Fprintf(c.out, "%s %v\n", red("error:"), err)
	c.PrintUsage(c.out)
	c.exit(1)
}

func (c *Cli) ensureParsed() {
	if !c.parsed {
		c.ParseOrExit()
	}
}

// Lookup resolves a key or alias to its option without parsing.
func (c *Cli) Lookup(key string) (*Option, bool) {
	o := c.reg.resolve(key)
	return o, o != nil
}

// Exists reports whether the option named by key (or alias) was supplied.
// Like every query it parses first, exiting on failure.
func (c *Cli) Exists(key string) bool {
	c.ensureParsed()
	o := c.reg.resolve(key)
	return o != nil && o.exists
}

// ExistsCount returns how many times the option's tag was seen.
func (c *Cli) ExistsCount(key string) int {
	c.ensureParsed()
	if o := c.reg.resolve(key); o != nil {
		return o.existsCount
	}
	return 0
}

// Value returns the option's latest raw value (its default while absent).
func (c *Cli) Value(key string) string {
	c.ensureParsed()
	if o := c.reg.resolve(key); o != nil {
		return o.Value()
	}
	return ""
}

// Values returns every raw value collected for the option.
func (c *Cli) Values(key string) []string {
	c.ensureParsed()
	if o := c.reg.resolve(key); o != nil {
		return o.Values()
	}
	return nil
}

// GetAs converts the value of the option named by key to T.
func GetAs[T any](c *Cli, key string) (T, error) {
	c.ensureParsed()
	o := c.reg.resolve(key)
	if o == nil {
		var zero T
		return zero, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return ValueAs[T](o)
}

// GetAllAs converts every value of the option named by key to T.
func GetAllAs[T any](c *Cli, key string) ([]T, error) {
	c.ensureParsed()
	o := c.reg.resolve(key)
	if o == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return ValuesAs[T](o)
}
