package sourcefile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Azhovan/optkit"
	"github.com/Azhovan/optkit/internal/normalize"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Options configures file source behavior.
type Options struct {
	// Format: "yaml", "json", or "toml". Auto-detected from extension if empty.
	Format string

	// Required: if true, missing files cause an error. Default: false (returns empty map).
	Required bool

	// Section selects a nested table whose keys become option names
	// (e.g., "server" reads server.port as port). Empty = whole file.
	Section string
}

type fileSource struct {
	path string
	opts Options
}

// New creates a file-based source of option values.
func New(path string, opts Options) optkit.SourceWithKeys {
	return &fileSource{
		path: path,
		opts: opts,
	}
}

// Load reads and parses the file, returning flattened values.
func (f *fileSource) Load(ctx context.Context) (map[string]any, error) {
	result, _, err := f.LoadWithKeys(ctx)
	return result, err
}

// LoadWithKeys reads and parses the file, returning flattened values keyed by
// lowercase dot path, plus the key each entry had in the file.
// Lists are kept as []any so multi-value options receive every element.
func (f *fileSource) LoadWithKeys(ctx context.Context) (map[string]any, map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			if f.opts.Required {
				return nil, nil, fmt.Errorf("required options file not found: %s: %w", f.path, err)
			}
			return make(map[string]any), make(map[string]string), nil
		}
		return nil, nil, fmt.Errorf("read options file %s: %w", f.path, err)
	}

	raw, err := f.decode(data)
	if err != nil {
		return nil, nil, err
	}

	fl := flattener{values: make(map[string]any), keys: make(map[string]string)}
	fl.walk("", raw)
	if f.opts.Section == "" {
		return fl.values, fl.keys, nil
	}
	values, keys := fl.scope(normalize.ToLowerDotPath(f.opts.Section))
	return values, keys, nil
}

// decoders maps a format name to its unmarshal function and display name.
var decoders = map[string]struct {
	label     string
	unmarshal func([]byte, any) error
}{
	"yaml": {"YAML", yaml.Unmarshal},
	"json": {"JSON", json.Unmarshal},
	"toml": {"TOML", toml.Unmarshal},
}

func (f *fileSource) decode(data []byte) (map[string]any, error) {
	format := strings.ToLower(f.opts.Format)
	if format == "" {
		format = formatOf(f.path)
	}
	if format == "yml" {
		format = "yaml"
	}

	dec, ok := decoders[format]
	if !ok {
		return nil, fmt.Errorf("unsupported file format: %q (supported: yaml, json, toml)", format)
	}
	var raw map[string]any
	if err := dec.unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s file %s: %w", dec.label, f.path, err)
	}
	return raw, nil
}

// flattener collects leaf values under lowercase dot paths and remembers
// the path as written in the file.
type flattener struct {
	values map[string]any
	keys   map[string]string
}

func (fl *flattener) walk(path string, node any) {
	switch n := node.(type) {
	case map[string]any:
		for k, child := range n {
			fl.walk(normalize.ApplyPrefix(path, k), child)
		}
	case map[any]any:
		for k, child := range n {
			if name, ok := k.(string); ok {
				fl.walk(normalize.ApplyPrefix(path, name), child)
			}
		}
	default:
		if path == "" {
			return
		}
		key := strings.ToLower(path)
		fl.values[key] = node
		fl.keys[key] = path
	}
}

// scope keeps the entries below section, with the section stripped.
func (fl *flattener) scope(section string) (map[string]any, map[string]string) {
	values := make(map[string]any)
	keys := make(map[string]string)
	for key, v := range fl.values {
		if rest, ok := strings.CutPrefix(key, section+"."); ok {
			values[rest] = v
			keys[rest] = fl.keys[key]
		}
	}
	return values, keys
}

// Name returns "file:" plus the file's base name.
func (f *fileSource) Name() string {
	return "file:" + filepath.Base(f.path)
}

func formatOf(path string) string {
	return strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
}
