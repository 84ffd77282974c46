package optkit

import (
	"fmt"
	"strings"
)

// MultiConstraint is a relation over the existence of several options.
// It is checked whenever one of its members appears and once more after
// all values have been collected.
type MultiConstraint interface {
	// Options returns the related options.
	Options() []*Option

	// Check validates the members' current existence state. It may clear
	// obligations the relation has discharged (e.g., a member's mandatory flag).
	Check() error

	// Pending reports whether the relation still waits for a member to appear.
	Pending() bool

	// Unmet returns an error if the relation carries an obligation that was
	// never fulfilled. It is consulted only after mandatory resolution.
	Unmet() error

	What() string
}

// Exclusion allows at most one of its members to exist. If any member is
// mandatory (or Require was called) exactly one must exist; once one appears
// the others stop being individually mandatory.
type Exclusion struct {
	members  []*Option
	required bool
}

func newExclusion(members []*Option) *Exclusion {
	return &Exclusion{members: members}
}

// Require makes the group collectively mandatory.
func (e *Exclusion) Require() *Exclusion {
	e.required = true
	for _, m := range e.members {
		m.mandatory = true
	}
	return e
}

func (e *Exclusion) Options() []*Option {
	out := make([]*Option, len(e.members))
	copy(out, e.members)
	return out
}

func (e *Exclusion) Check() error {
	var present []*Option
	for _, m := range e.members {
		if m.exists {
			present = append(present, m)
		}
	}

	switch len(present) {
	case 0:
		return nil
	case 1:
		for _, m := range e.members {
			if m != present[0] {
				m.mandatory = false
			}
		}
		return nil
	default:
		return fmt.Errorf("%s, got %s", e.What(), joinKeys(present))
	}
}

func (e *Exclusion) Pending() bool {
	for _, m := range e.members {
		if m.exists {
			return false
		}
	}
	return true
}

func (e *Exclusion) Unmet() error {
	if !e.Pending() {
		return nil
	}
	if e.required {
		return fmt.Errorf("one of %s is required", joinKeys(e.members))
	}
	for _, m := range e.members {
		if m.mandatory {
			return fmt.Errorf("one of %s is required", joinKeys(e.members))
		}
	}
	return nil
}

func (e *Exclusion) What() string {
	return "at most one of " + joinKeys(e.members) + " may be given"
}

func joinKeys(opts []*Option) string {
	keys := make([]string, len(opts))
	for i, o := range opts {
		keys[i] = o.key
	}
	return strings.Join(keys, ", ")
}
