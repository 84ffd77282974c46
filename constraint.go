package optkit

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Constraint validates the value of a single option. It is checked right
// after every value the option collects.
type Constraint interface {
	// Satisfied reports whether the option's current value is acceptable.
	// A non-nil error means the value could not be interpreted at all.
	Satisfied(o *Option) (bool, error)

	// What describes the rule (e.g., "value must be one of: a, b").
	What() string
}

// Number is the set of types a Range can compare.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

type oneOf struct {
	allowed []string
}

// OneOf accepts values from a fixed set of strings.
func OneOf(values ...string) Constraint {
	return &oneOf{allowed: slices.Clone(values)}
}

func (c *oneOf) Satisfied(o *Option) (bool, error) {
	return slices.Contains(c.allowed, o.Value()), nil
}

func (c *oneOf) What() string {
	return "value must be one of: " + strings.Join(c.allowed, ", ")
}

type rangeOf[T Number] struct {
	min, max T
}

// Range accepts values that convert to T and fall within [minVal, maxVal], both ends inclusive.
// A value that does not convert to T is a conversion failure, not a range failure.
func Range[T Number](minVal, maxVal T) Constraint {
	return &rangeOf[T]{min: minVal, max: maxVal}
}

func (c *rangeOf[T]) Satisfied(o *Option) (bool, error) {
	v, err := convertValue[T](o.Value(), o.exists)
	if err != nil {
		return false, err
	}
	return c.min <= v && v <= c.max, nil
}

func (c *rangeOf[T]) What() string {
	return fmt.Sprintf("value must be within [%v, %v]", c.min, c.max)
}

type predicate struct {
	what string
	fn   func(o *Option) bool
}

// Predicate accepts values for which fn returns true. what describes the rule.
func Predicate(what string, fn func(o *Option) bool) Constraint {
	return &predicate{what: what, fn: fn}
}

func (c *predicate) Satisfied(o *Option) (bool, error) {
	return c.fn(o), nil
}

func (c *predicate) What() string {
	return c.what
}

type versionRange struct {
	expr        string
	constraints *semver.Constraints
}

// VersionRange accepts semantic versions matching expr (e.g., ">= 1.2, < 2").
func VersionRange(expr string) (Constraint, error) {
	c, err := semver.NewConstraint(expr)
	if err != nil {
		return nil, fmt.Errorf("invalid version range %q: %w", expr, err)
	}
	return &versionRange{expr: expr, constraints: c}, nil
}

func (c *versionRange) Satisfied(o *Option) (bool, error) {
	v, err := semver.NewVersion(o.Value())
	if err != nil {
		return false, err
	}
	return c.constraints.Check(v), nil
}

func (c *versionRange) What() string {
	return "version must satisfy " + c.expr
}
