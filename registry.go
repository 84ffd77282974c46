package optkit

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// mode records whether a registry holds tagged or tagless options.
type mode int

const (
	modeUndefined mode = iota
	modeTagged
	modeTagless
)

func (m mode) String() string {
	switch m {
	case modeTagged:
		return "tagged"
	case modeTagless:
		return "tagless"
	default:
		return "undefined"
	}
}

// registry owns every Option of one Cli.
// Options are keyed by primary key in registration order; aliases resolve
// to primary keys through a separate table.
type registry struct {
	options  *orderedmap.OrderedMap[string, *Option]
	aliases  map[string]string
	priority map[string]struct{}

	mode          mode
	nextTaglessID int

	// column widths for usage rendering
	keyWidth   int
	aliasWidth int
	descWidth  int
}

func newRegistry() *registry {
	return &registry{
		options:  orderedmap.New[string, *Option](),
		aliases:  make(map[string]string),
		priority: make(map[string]struct{}),
	}
}

// register stores o, enforcing the tagged/tagless mode and key uniqueness.
// Tagless options receive the next sequential id as their key.
// The built-in help option is exempt from the mode check, and registering
// a key that collides with it replaces it.
func (r *registry) register(o *Option) error {
	want := modeUndefined
	if !o.builtin {
		want = modeTagged
		if o.kind == KindTagless {
			want = modeTagless
		}
		if r.mode != modeUndefined && r.mode != want {
			return fmt.Errorf("%w: cannot add %s option to a %s cli", ErrModeMismatch, want, r.mode)
		}
	}

	if o.kind == KindTagless {
		o.key = strconv.Itoa(r.nextTaglessID)
		r.nextTaglessID++
	}

	if o.key == "" {
		return ErrEmptyKey
	}

	// Nothing changes until both tokens are known to be free.
	var replaced []*Option
	for _, token := range []string{o.key, o.alias} {
		if token == "" {
			continue
		}
		existing := r.resolve(token)
		if existing == nil {
			continue
		}
		if existing.builtin && !o.builtin {
			replaced = append(replaced, existing)
			continue
		}
		return fmt.Errorf("%w: %s", ErrDuplicateKey, token)
	}
	for _, b := range replaced {
		r.remove(b)
	}

	if r.mode == modeUndefined {
		r.mode = want
	}
	r.options.Set(o.key, o)
	if o.alias != "" {
		r.aliases[o.alias] = o.key
	}
	r.trackWidths(o)
	return nil
}

// remove drops o and every reference to it.
func (r *registry) remove(o *Option) {
	r.options.Delete(o.key)
	if o.alias != "" {
		delete(r.aliases, o.alias)
	}
	delete(r.priority, o.key)

	r.keyWidth, r.aliasWidth, r.descWidth = 0, 0, 0
	for pair := r.options.Oldest(); pair != nil; pair = pair.Next() {
		r.trackWidths(pair.Value)
	}
}

// resolve looks token up as an alias first, then as a primary key.
func (r *registry) resolve(token string) *Option {
	key := token
	if primary, ok := r.aliases[token]; ok {
		key = primary
	}
	o, ok := r.options.Get(key)
	if !ok {
		return nil
	}
	return o
}

// resolvePriority is resolve restricted to the priority set.
func (r *registry) resolvePriority(token string) *Option {
	o := r.resolve(token)
	if o == nil {
		return nil
	}
	if _, ok := r.priority[o.key]; !ok {
		return nil
	}
	return o
}

func (r *registry) prioritize(o *Option) error {
	if o.kind == KindTagless {
		return fmt.Errorf("%w: %s", ErrPrioritizationMismatch, o.key)
	}
	r.priority[o.key] = struct{}{}
	o.prioritized = true
	return nil
}

// owns reports whether o is the option stored under its key.
func (r *registry) owns(o *Option) bool {
	stored, ok := r.options.Get(o.key)
	return ok && stored == o
}

// ordered returns the options in registration order.
func (r *registry) ordered() []*Option {
	out := make([]*Option, 0, r.options.Len())
	for pair := r.options.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Value)
	}
	return out
}

// prioritized returns the prioritized options in registration order.
func (r *registry) prioritized() []*Option {
	var out []*Option
	for pair := r.options.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.prioritized {
			out = append(out, pair.Value)
		}
	}
	return out
}

// tagless returns the tagless options in id order.
func (r *registry) tagless() []*Option {
	var out []*Option
	for pair := r.options.Oldest(); pair != nil; pair = pair.Next() {
		if pair.Value.kind == KindTagless {
			out = append(out, pair.Value)
		}
	}
	return out
}

// trackWidths widens the usage columns to fit o, counted in runes as fmt pads.
func (r *registry) trackWidths(o *Option) {
	r.keyWidth = max(r.keyWidth, utf8.RuneCountInString(o.key))
	r.aliasWidth = max(r.aliasWidth, utf8.RuneCountInString(o.alias))
	r.descWidth = max(r.descWidth, utf8.RuneCountInString(o.description))
}
