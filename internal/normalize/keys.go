package normalize

import (
	"strings"
	"unicode"
)

// ToLowerDotPath normalizes a source key to a lowercase dot-separated path.
// Double underscores (__) are treated as level separators and converted to dots.
// Single underscores within a level are preserved.
// Examples:
//   - "FOO__BAR" → "foo.bar"
//   - "DB_MAX_CONNECTIONS" → "db_max_connections"
//   - "API__RATE_LIMIT" → "api.rate_limit"
func ToLowerDotPath(key string) string {
	normalized := strings.ReplaceAll(key, "__", ".")
	return strings.ToLower(normalized)
}

// OptionName normalizes an option key or alias so it can be matched against
// source keys. Leading dashes are dropped and inner dashes become underscores.
// Examples:
//   - "--max-items" → "max_items"
//   - "-v" → "v"
//   - "--db.HOST" → "db.host"
func OptionName(key string) string {
	name := strings.TrimLeft(key, "-")
	name = strings.ReplaceAll(name, "-", "_")
	return ToLowerDotPath(name)
}

// FieldOptionName derives a long option name from a struct field name by
// splitting it into lowercase dash-separated words.
// Examples:
//   - "Host" → "host"
//   - "MaxItems" → "max-items"
//   - "APIKey" → "api-key"
func FieldOptionName(fieldName string) string {
	runes := []rune(fieldName)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('-')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// ApplyPrefix combines a prefix with a key to create a nested path.
// If prefix is empty, returns the key unchanged.
// Otherwise, returns "prefix.key".
// Examples:
//   - ApplyPrefix("database", "host") → "database.host"
//   - ApplyPrefix("", "host") → "host"
//   - ApplyPrefix("api", "rate_limit") → "api.rate_limit"
func ApplyPrefix(prefix, key string) string {
	if prefix == "" {
		return key
	}
	if key == "" {
		return prefix
	}
	return prefix + "." + key
}
