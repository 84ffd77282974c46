package optkit

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/Azhovan/optkit/internal/normalize"
)

// tagConfig holds parsed directives from a struct field's `opt` tag.
type tagConfig struct {
	key       string   // Primary key (key:-p)
	alias     string   // Alias (alias:--port)
	desc      string   // Description (desc:text)
	defValue  string   // Default value (default:value)
	min       string   // Minimum constraint (min:N)
	max       string   // Maximum constraint (max:M)
	oneof     []string // Allowed values (oneof:a,b,c)
	count     int      // Value limit for multi-value fields (count:N)
	mandatory bool     // Field is mandatory (mandatory or mandatory:true)
	secret    bool     // Field is secret (secret or secret:true)
	multi     bool     // Take several values per tag (multi)
	flag      bool     // Integer field counts tag occurrences (flag)
}

// Binding connects struct fields to the options registered for them.
type Binding struct {
	fields []boundField
}

type boundField struct {
	path  string
	opt   *Option
	value reflect.Value
	count bool // store ExistsCount instead of the value
}

// Bind registers one option per exported field of the struct dst points to,
// driven by `opt` tags. Fields tagged `opt:"-"` are skipped.
// Without a key directive the key is "--" plus the dash-separated field name.
//
// Field kinds: bool fields are flags; slices take several values (Unbounded
// unless count:N is given); other supported scalars take one value per tag.
// Call Apply on the result after parsing to fill the fields.
func (c *Cli) Bind(dst any) (*Binding, error) {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.IsNil() || v.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("optkit: Bind needs a non-nil pointer to a struct, got %T", dst)
	}
	v = v.Elem()
	t := v.Type()

	b := &Binding{}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag, ok := field.Tag.Lookup("opt")
		if tag == "-" {
			continue
		}
		var cfg tagConfig
		if ok {
			cfg = parseTag(tag)
		}

		bf, err := c.bindField(field, v.Field(i), cfg)
		if err != nil {
			return nil, fmt.Errorf("bind field %s: %w", field.Name, err)
		}
		b.fields = append(b.fields, bf)
	}
	return b, nil
}

// bindField registers the option for one field.
func (c *Cli) bindField(field reflect.StructField, fv reflect.Value, cfg tagConfig) (boundField, error) {
	key := cfg.key
	if key == "" {
		key = "--" + normalize.FieldOptionName(field.Name)
	}
	spec := Spec{
		Alias:       cfg.alias,
		Description: cfg.desc,
		Default:     cfg.defValue,
		Mandatory:   cfg.mandatory,
		Secret:      cfg.secret,
	}

	elemType := field.Type
	if elemType.Kind() == reflect.Slice {
		elemType = elemType.Elem()
	}
	if !supportedScalar(elemType) {
		return boundField{}, fmt.Errorf("unsupported field type %s", field.Type)
	}

	var (
		o   *Option
		err error
	)
	switch {
	case field.Type.Kind() == reflect.Bool:
		o, err = c.AddFlag(key, spec)
	case cfg.flag:
		if !isSignedInt(field.Type) {
			return boundField{}, fmt.Errorf("flag directive needs an integer field, got %s", field.Type)
		}
		o, err = c.AddFlag(key, spec)
	case field.Type.Kind() == reflect.Slice:
		spec.Multi = true
		spec.MaxValues = cfg.count
		o, err = c.AddOption(key, spec)
	default:
		spec.Multi = cfg.multi
		spec.MaxValues = cfg.count
		o, err = c.AddOption(key, spec)
	}
	if err != nil {
		return boundField{}, err
	}

	if len(cfg.oneof) > 0 {
		o.constraints = append(o.constraints, OneOf(cfg.oneof...))
	}
	if o.maxValues > 0 {
		bounds, err := boundsConstraint(elemType, cfg.min, cfg.max)
		if err != nil {
			return boundField{}, err
		}
		if bounds != nil {
			o.constraints = append(o.constraints, bounds)
		}
	}

	return boundField{path: field.Name, opt: o, value: fv, count: cfg.flag}, nil
}

// Options returns the options created by Bind in field order.
func (b *Binding) Options() []*Option {
	out := make([]*Option, len(b.fields))
	for i, f := range b.fields {
		out[i] = f.opt
	}
	return out
}

// Apply converts the parsed values into the bound fields. Fields of absent
// options without a default keep their current value.
func (b *Binding) Apply() error {
	for _, f := range b.fields {
		o := f.opt
		switch {
		case f.count:
			f.value.SetInt(int64(o.existsCount))
		case f.value.Kind() == reflect.Bool:
			if o.exists {
				f.value.SetBool(true)
			} else if o.defaultValue != "" {
				if err := setValue(f.value, o.defaultValue, false); err != nil {
					return conversionError(o, o.defaultValue, err)
				}
			}
		case f.value.Kind() == reflect.Slice:
			raws := o.values
			if !o.exists {
				if o.defaultValue == "" {
					continue
				}
				raws = []string{o.defaultValue}
			}
			slice := reflect.MakeSlice(f.value.Type(), len(raws), len(raws))
			for i, raw := range raws {
				if err := setValue(slice.Index(i), raw, true); err != nil {
					return conversionError(o, raw, err)
				}
			}
			f.value.Set(slice)
		default:
			if !o.exists && o.defaultValue == "" {
				continue
			}
			if err := setValue(f.value, o.Value(), o.exists); err != nil {
				return conversionError(o, o.Value(), err)
			}
		}
	}
	return nil
}

func isSignedInt(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return t != durationType
	}
	return false
}

func supportedScalar(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.String, reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}

// parseTag parses an `opt` struct tag into a structured tagConfig.
// Tag format: "directive1:value1,directive2:value2,..."
// Boolean directives can omit `:true` (e.g., "mandatory" == "mandatory:true")
func parseTag(tag string) tagConfig {
	cfg := tagConfig{}

	if tag == "" {
		return cfg
	}

	// oneof values contain commas, so directives are split by hand
	for _, directive := range splitDirectives(tag) {
		directive = strings.TrimSpace(directive)
		if directive == "" {
			continue
		}

		parts := strings.SplitN(directive, ":", 2)
		name := strings.TrimSpace(parts[0])
		var value string
		if len(parts) > 1 {
			value = parts[1] // Don't trim value - empty strings may be intentional
		}

		switch name {
		case "key":
			cfg.key = strings.TrimSpace(value)
		case "alias":
			cfg.alias = strings.TrimSpace(value)
		case "desc":
			cfg.desc = value
		case "default":
			cfg.defValue = value
		case "min":
			cfg.min = value
		case "max":
			cfg.max = value
		case "count":
			if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
				cfg.count = n
			}
		case "oneof":
			if value != "" {
				cfg.oneof = strings.Split(value, ",")
				for i := range cfg.oneof {
					cfg.oneof[i] = strings.TrimSpace(cfg.oneof[i])
				}
			}
		case "mandatory":
			cfg.mandatory = boolDirective(value)
		case "secret":
			cfg.secret = boolDirective(value)
		case "multi":
			cfg.multi = boolDirective(value)
		case "flag":
			cfg.flag = boolDirective(value)
		}
	}

	return cfg
}

// boolDirective treats a missing value or anything but "false" as true.
func boolDirective(value string) bool {
	return value != "false"
}

// splitDirectives splits a tag string into individual directives,
// handling the special case where oneof values contain commas.
func splitDirectives(tag string) []string {
	var directives []string
	var current strings.Builder
	inOneof := false

	for i := 0; i < len(tag); i++ {
		ch := tag[i]

		if !inOneof && strings.HasPrefix(tag[i:], "oneof:") {
			inOneof = true
			current.WriteString("oneof:")
			i += len("oneof:") - 1
			continue
		}

		if ch != ',' {
			current.WriteByte(ch)
			continue
		}

		// Inside oneof a comma ends the directive only if a known
		// directive follows it.
		if inOneof && !startsWithDirective(tag[i+1:]) {
			current.WriteByte(ch)
			continue
		}
		inOneof = false
		directives = append(directives, current.String())
		current.Reset()
	}

	if current.Len() > 0 {
		directives = append(directives, current.String())
	}

	return directives
}

var directiveNames = []string{
	"key:", "alias:", "desc:", "default:", "min:", "max:", "count:", "oneof:",
	"mandatory", "secret", "multi", "flag",
}

// startsWithDirective checks if a string starts with a known directive name.
func startsWithDirective(s string) bool {
	s = strings.TrimSpace(s)
	for _, d := range directiveNames {
		if strings.HasPrefix(s, d) {
			return true
		}
	}
	return false
}
