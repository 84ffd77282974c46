package optkit

// Value origins recorded for provenance.
const (
	originArgs    = "args"
	originPrompt  = "prompt"
	originDefault = "default"
)

// Option is one declared parameter and the values collected for it.
// Options are created by a Cli and mutated only while it parses.
type Option struct {
	key          string
	alias        string
	description  string
	defaultValue string
	kind         Kind
	maxValues    int
	mandatory    bool
	secret       bool
	prioritized  bool
	builtin      bool

	exists      bool
	existsCount int
	values      []string
	origin      string

	constraints []Constraint
	relations   []MultiConstraint
	onExists    Callback

	// owner is the Cli that registered the option. It does not own the option's
	// lifetime; it is used to report conversion failures through the Cli.
	owner *Cli
}

// Key returns the primary token (or the positional id of a tagless option).
func (o *Option) Key() string { return o.key }

// Alias returns the secondary token, or "" if none was declared.
func (o *Option) Alias() string { return o.alias }

func (o *Option) Description() string { return o.description }

// Default returns the declared default value.
func (o *Option) Default() string { return o.defaultValue }

func (o *Option) Kind() Kind { return o.kind }

// MaxValues returns the value limit: 0 for flags, 1 for single-value options.
func (o *Option) MaxValues() int { return o.maxValues }

// IsFlag reports whether the option takes no value at all.
func (o *Option) IsFlag() bool { return o.maxValues == 0 }

// Mandatory reports whether the option must be present after parsing.
// Cross-option relations may clear it once their shared obligation is met.
func (o *Option) Mandatory() bool { return o.mandatory }

func (o *Option) Secret() bool { return o.secret }

func (o *Option) Prioritized() bool { return o.prioritized }

// Exists reports whether the option was supplied (by tag, position, source or prompt).
func (o *Option) Exists() bool { return o.exists }

// ExistsCount returns how many times the option's tag was seen.
// Tagless options count each consumed position.
func (o *Option) ExistsCount() int { return o.existsCount }

// Value returns the most recently collected raw value.
// While the option is absent it returns the declared default.
func (o *Option) Value() string {
	if n := len(o.values); n > 0 {
		return o.values[n-1]
	}
	if !o.exists {
		return o.defaultValue
	}
	return ""
}

// Values returns every collected raw value in encounter order.
func (o *Option) Values() []string {
	out := make([]string, len(o.values))
	copy(out, o.values)
	return out
}

// Source returns where the option's value came from ("args", "prompt",
// "env:NAME", "file:name", "default"), or "" if it has none.
func (o *Option) Source() string {
	if o.origin == "" && !o.exists && o.defaultValue != "" {
		return originDefault
	}
	return o.origin
}

// markSeen records one sighting and reports whether the option just appeared.
func (o *Option) markSeen() bool {
	appeared := !o.exists
	o.exists = true
	o.existsCount++
	if o.origin == "" {
		o.origin = originArgs
	}
	return appeared
}

// markSupplied records a presence that did not come from a tag (source or prompt).
func (o *Option) markSupplied(origin string) bool {
	appeared := !o.exists
	o.exists = true
	o.origin = origin
	return appeared
}

func (o *Option) appendValue(v string) {
	o.values = append(o.values, v)
}

// full reports whether the option holds as many values as it may ever hold.
func (o *Option) full() bool {
	return len(o.values) >= o.maxValues
}

// hasPendingRelation reports whether a relation still waits for one of its members.
func (o *Option) hasPendingRelation() bool {
	for _, rel := range o.relations {
		if rel.Pending() {
			return true
		}
	}
	return false
}
