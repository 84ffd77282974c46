package optkit

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"time"
)

// checkConstraints validates o's current value against its constraints.
// A constraint that cannot interpret the value reports a conversion failure.
func (c *Cli) checkConstraints(o *Option) error {
	for _, cs := range o.constraints {
		ok, err := cs.Satisfied(o)
		if err != nil {
			return conversionError(o, o.Value(), err)
		}
		if !ok {
			c.logger.Debug("constraint violated", "key", o.key, "value", o.Value(), "rule", cs.What())
			return constraintViolation(o, cs)
		}
	}
	return nil
}

// checkRelations runs the relations of o after its existence changed.
func (c *Cli) checkRelations(o *Option) error {
	for _, rel := range o.relations {
		if err := rel.Check(); err != nil {
			return multiConstraintViolation(o.key, err)
		}
	}
	return nil
}

// checkAllRelations runs every relation once, e.g., after sources filled options.
func (c *Cli) checkAllRelations() error {
	for _, rel := range c.relations {
		if err := rel.Check(); err != nil {
			return multiConstraintViolation(rel.Options()[0].key, err)
		}
	}
	return nil
}

// confirmRelations is the final relation check after mandatory resolution.
// Unfulfilled obligations are ignored by a tolerant Cli.
func (c *Cli) confirmRelations() error {
	for _, rel := range c.relations {
		key := rel.Options()[0].key
		if c.strict {
			if err := rel.Unmet(); err != nil {
				return multiConstraintViolation(key, err)
			}
		}
		if err := rel.Check(); err != nil {
			return multiConstraintViolation(key, err)
		}
	}
	return nil
}

// boundsConstraint builds a Range for the min/max directives of a bound field.
// Numbers and durations are compared by value, strings by length.
// An empty bound leaves that side open.
func boundsConstraint(t reflect.Type, minStr, maxStr string) (Constraint, error) {
	if minStr == "" && maxStr == "" {
		return nil, nil
	}

	if t == durationType {
		minVal, maxVal := time.Duration(math.MinInt64), time.Duration(math.MaxInt64)
		if minStr != "" {
			d, err := time.ParseDuration(minStr)
			if err != nil {
				return nil, fmt.Errorf("invalid min %q: %w", minStr, err)
			}
			minVal = d
		}
		if maxStr != "" {
			d, err := time.ParseDuration(maxStr)
			if err != nil {
				return nil, fmt.Errorf("invalid max %q: %w", maxStr, err)
			}
			maxVal = d
		}
		return Range(minVal, maxVal), nil
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		minVal, maxVal := int64(math.MinInt64), int64(math.MaxInt64)
		var err error
		if minStr != "" {
			if minVal, err = strconv.ParseInt(minStr, 10, 64); err != nil {
				return nil, fmt.Errorf("invalid min %q: %w", minStr, err)
			}
		}
		if maxStr != "" {
			if maxVal, err = strconv.ParseInt(maxStr, 10, 64); err != nil {
				return nil, fmt.Errorf("invalid max %q: %w", maxStr, err)
			}
		}
		return Range(minVal, maxVal), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		minVal, maxVal := uint64(0), uint64(math.MaxUint64)
		var err error
		if minStr != "" {
			if minVal, err = strconv.ParseUint(minStr, 10, 64); err != nil {
				return nil, fmt.Errorf("invalid min %q: %w", minStr, err)
			}
		}
		if maxStr != "" {
			if maxVal, err = strconv.ParseUint(maxStr, 10, 64); err != nil {
				return nil, fmt.Errorf("invalid max %q: %w", maxStr, err)
			}
		}
		return Range(minVal, maxVal), nil

	case reflect.Float32, reflect.Float64:
		minVal, maxVal := -math.MaxFloat64, math.MaxFloat64
		var err error
		if minStr != "" {
			if minVal, err = strconv.ParseFloat(minStr, 64); err != nil {
				return nil, fmt.Errorf("invalid min %q: %w", minStr, err)
			}
		}
		if maxStr != "" {
			if maxVal, err = strconv.ParseFloat(maxStr, 64); err != nil {
				return nil, fmt.Errorf("invalid max %q: %w", maxStr, err)
			}
		}
		return Range(minVal, maxVal), nil

	case reflect.String:
		minLen, maxLen := 0, math.MaxInt
		var err error
		if minStr != "" {
			if minLen, err = strconv.Atoi(minStr); err != nil {
				return nil, fmt.Errorf("invalid min %q: %w", minStr, err)
			}
		}
		if maxStr != "" {
			if maxLen, err = strconv.Atoi(maxStr); err != nil {
				return nil, fmt.Errorf("invalid max %q: %w", maxStr, err)
			}
		}
		what := fmt.Sprintf("length must be within [%d, %d]", minLen, maxLen)
		return Predicate(what, func(o *Option) bool {
			n := len(o.Value())
			return minLen <= n && n <= maxLen
		}), nil

	default:
		return nil, fmt.Errorf("min/max not supported for %s", t)
	}
}
