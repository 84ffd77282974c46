package optkit

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"
)

var durationType = reflect.TypeOf(time.Duration(0))

// ValueAs converts the option's current value (its default while absent) to T.
// Conversion happens on demand: a malformed value fails only when read as T.
// Supported: string, bool, signed/unsigned integers, floats, time.Duration.
func ValueAs[T any](o *Option) (T, error) {
	raw := o.Value()
	v, err := convertValue[T](raw, o.exists)
	if err != nil {
		var zero T
		return zero, conversionError(o, raw, err)
	}
	return v, nil
}

// ValuesAs converts every collected value to T.
func ValuesAs[T any](o *Option) ([]T, error) {
	out := make([]T, 0, len(o.values))
	for _, raw := range o.values {
		v, err := convertValue[T](raw, true)
		if err != nil {
			return nil, conversionError(o, raw, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// MustValueAs is like ValueAs but treats a failed conversion as fatal:
// the owning Cli reports it and exits.
func MustValueAs[T any](o *Option) T {
	v, err := ValueAs[T](o)
	if err != nil {
		o.owner.fail(err)
	}
	return v
}

// MustValuesAs is like ValuesAs but treats a failed conversion as fatal.
func MustValuesAs[T any](o *Option) []T {
	v, err := ValuesAs[T](o)
	if err != nil {
		o.owner.fail(err)
	}
	return v
}

func convertValue[T any](raw string, present bool) (T, error) {
	var out T
	if err := setValue(reflect.ValueOf(&out).Elem(), raw, present); err != nil {
		return out, err
	}
	return out, nil
}

// setValue stores raw into v according to v's type.
// present decides what an empty raw string means for a bool.
func setValue(v reflect.Value, raw string, present bool) error {
	if v.Type() == durationType {
		d, err := time.ParseDuration(strings.TrimSpace(raw))
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		v.SetInt(int64(d))
		return nil
	}

	switch v.Kind() {
	case reflect.String:
		v.SetString(raw)
		return nil

	case reflect.Bool:
		b, err := parseBool(raw, present)
		if err != nil {
			return err
		}
		v.SetBool(b)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i, err := strconv.ParseInt(strings.TrimSpace(raw), 10, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid int value %q: %w", raw, err)
		}
		v.SetInt(i)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u, err := strconv.ParseUint(strings.TrimSpace(raw), 10, v.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid uint value %q: %w", raw, err)
		}
		v.SetUint(u)
		return nil

	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), v.Type().Bits())
		if err != nil {
			return fmt.Errorf("invalid float value %q: %w", raw, err)
		}
		v.SetFloat(f)
		return nil

	default:
		return fmt.Errorf("unsupported type %s", v.Type())
	}
}

// parseBool accepts the usual spellings plus y/yes and n/no.
// An empty value means the option was given as a bare flag.
func parseBool(raw string, present bool) (bool, error) {
	switch strings.TrimSpace(raw) {
	case "":
		return present, nil
	case "1", "t", "T", "true", "TRUE", "True", "y", "Y", "yes", "Yes", "YES":
		return true, nil
	case "0", "f", "F", "false", "FALSE", "False", "n", "N", "no", "No", "NO":
		return false, nil
	default:
		return false, fmt.Errorf("invalid bool value %q", raw)
	}
}
