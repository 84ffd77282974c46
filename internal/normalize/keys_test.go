package normalize

import (
	"testing"
)

func TestToLowerDotPath(t *testing.T) {
	for input, want := range map[string]string{
		"FOO__BAR":           "foo.bar",
		"OPTKIT_MAX_ITEMS":   "optkit_max_items",
		"DB__POOL__MAX_IDLE": "db.pool.max_idle",
		"already.lower":      "already.lower",
		"Mixed__Case_Key":    "mixed.case_key",
		"":                   "",
	} {
		if got := ToLowerDotPath(input); got != want {
			t.Errorf("ToLowerDotPath(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestOptionName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "long option with dashes",
			input:    "--max-items",
			expected: "max_items",
		},
		{
			name:     "short option",
			input:    "-v",
			expected: "v",
		},
		{
			name:     "dotted path keeps dots",
			input:    "--db.HOST",
			expected: "db.host",
		},
		{
			name:     "no dashes",
			input:    "Timeout",
			expected: "timeout",
		},
		{
			name:     "double dash inside becomes underscores",
			input:    "--a--b",
			expected: "a.b",
		},
		{
			name:     "only dashes",
			input:    "--",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := OptionName(tt.input)
			if result != tt.expected {
				t.Errorf("OptionName(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFieldOptionName(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		expected  string
	}{
		{
			name:      "simple field",
			fieldName: "Host",
			expected:  "host",
		},
		{
			name:      "single letter",
			fieldName: "P",
			expected:  "p",
		},
		{
			name:      "camelCase field",
			fieldName: "MaxItems",
			expected:  "max-items",
		},
		{
			name:      "leading acronym",
			fieldName: "APIKey",
			expected:  "api-key",
		},
		{
			name:      "trailing acronym",
			fieldName: "ServerURL",
			expected:  "server-url",
		},
		{
			name:      "digit before upper",
			fieldName: "Retry2Count",
			expected:  "retry2-count",
		},
		{
			name:      "empty string",
			fieldName: "",
			expected:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FieldOptionName(tt.fieldName)
			if result != tt.expected {
				t.Errorf("FieldOptionName(%q) = %q, want %q", tt.fieldName, result, tt.expected)
			}
		})
	}
}

func TestApplyPrefix(t *testing.T) {
	cases := [][3]string{
		// prefix, key, want
		{"copy", "retries", "copy.retries"},
		{"", "retries", "retries"},
		{"copy", "", "copy"},
		{"", "", ""},
		{"tools.copy", "max_items", "tools.copy.max_items"},
	}
	for _, c := range cases {
		if got := ApplyPrefix(c[0], c[1]); got != c[2] {
			t.Errorf("ApplyPrefix(%q, %q) = %q, want %q", c[0], c[1], got, c[2])
		}
	}
}
