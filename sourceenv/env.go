package sourceenv

import (
	"context"
	"os"
	"strings"

	"github.com/Azhovan/optkit"
	"github.com/Azhovan/optkit/internal/normalize"
)

// Options configures environment variable source behavior.
type Options struct {
	// Prefix filters vars starting with prefix (stripped before normalization).
	// Empty = load all vars.
	// Prefix matching behavior is controlled by CaseSensitive.
	Prefix string

	// CaseSensitive controls prefix matching (default: false).
	// When false, prefix matching is case-insensitive (APP_ matches app_, App_, etc.).
	// When true, prefix must match exactly.
	// Keys are always normalized to lowercase after prefix stripping.
	CaseSensitive bool

	// ListSeparator splits values into lists for multi-value options
	// (e.g., "," turns "a,b" into two values). Empty = never split.
	ListSeparator string
}

type envSource struct {
	opts Options
}

// New creates an environment variable source.
func New(opts Options) optkit.SourceWithKeys {
	return &envSource{opts: opts}
}

// Load scans environment variables, filters by prefix, and normalizes keys.
func (e *envSource) Load(ctx context.Context) (map[string]any, error) {
	result, _, err := e.LoadWithKeys(ctx)
	return result, err
}

// LoadWithKeys is Load plus the full variable name behind each key,
// so provenance can report "env:APP_PORT".
func (e *envSource) LoadWithKeys(ctx context.Context) (map[string]any, map[string]string, error) {
	result := make(map[string]any)
	originalKeys := make(map[string]string)

	for _, env := range os.Environ() {
		name, value, ok := strings.Cut(env, "=")
		if !ok {
			continue
		}

		key, ok := e.strip(name)
		if !ok || key == "" {
			continue
		}

		// OPTKIT_DB__HOST with prefix OPTKIT_ becomes db.host
		key = normalize.ToLowerDotPath(key)
		result[key] = e.split(value)
		originalKeys[key] = name
	}

	return result, originalKeys, nil
}

// strip removes the configured prefix from name, reporting false when name
// does not carry it.
func (e *envSource) strip(name string) (string, bool) {
	prefix := e.opts.Prefix
	if prefix == "" {
		return name, true
	}
	if len(name) < len(prefix) {
		return "", false
	}
	head := name[:len(prefix)]
	if head == prefix || (!e.opts.CaseSensitive && strings.EqualFold(head, prefix)) {
		return name[len(prefix):], true
	}
	return "", false
}

// split turns a separated value into a list when ListSeparator is set.
func (e *envSource) split(value string) any {
	if e.opts.ListSeparator == "" || !strings.Contains(value, e.opts.ListSeparator) {
		return value
	}
	parts := strings.Split(value, e.opts.ListSeparator)
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// Name returns "env".
func (e *envSource) Name() string {
	return "env"
}
