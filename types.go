package optkit

import (
	"context"
	"math"
)

// Kind classifies how an option consumes value tokens.
type Kind int

const (
	// KindValue takes one value per occurrence of its tag ("-o val").
	KindValue Kind = iota
	// KindMulti takes the bare tokens following its tag up to its limit ("-o v1 v2").
	KindMulti
	// KindTagless is located by position only.
	KindTagless
)

func (k Kind) String() string {
	switch k {
	case KindValue:
		return "value"
	case KindMulti:
		return "multi"
	case KindTagless:
		return "tagless"
	default:
		return "unknown"
	}
}

// Unbounded lifts the value limit of multi-value and tagless options.
const Unbounded = math.MaxInt

// Callback runs once after a successful parse for an option that exists.
// All option state is final when it runs.
type Callback func(o *Option)

// Spec declares an option at registration time.
type Spec struct {
	Alias       string // Secondary token (e.g., "--alpha" for "-a")
	Description string
	Default     string // Reported by Value while the option is absent
	Mandatory   bool
	Multi       bool // AddOption only: accept several bare tokens per tag
	MaxValues   int  // 0 = kind default (1, or Unbounded for Multi)
	Secret      bool // Redacted in dumps, read without echo when prompted
	OnExists    Callback
}

// Source provides values for options that were not given on the command line.
// Keys are matched against option keys and aliases after normalization
// ("--max-items" matches "max_items", "MAX_ITEMS" and "max-items").
type Source interface {
	// Load returns values as a flat map. Missing optional sources should return an empty map.
	Load(ctx context.Context) (map[string]any, error)

	// Name identifies the source in provenance (e.g., "env", "file:config.yaml").
	Name() string
}

// SourceWithKeys is implemented by sources that can report the original key
// each normalized key came from (e.g., the exact environment variable name).
type SourceWithKeys interface {
	Source
	LoadWithKeys(ctx context.Context) (map[string]any, map[string]string, error)
}
