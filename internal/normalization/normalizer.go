// Package normalization maps loosely formatted strings (config values, stored
// status labels) onto typed enum values.
package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Normalizer provides type-safe string-to-enum normalization with error handling.
type Normalizer[T comparable] struct {
	values       map[string]T
	defaultValue T
	keys         []string // sorted, for error messages and help text
}

// NewNormalizer creates a normalizer with a map of valid string->value pairs.
// Keys are compared case-insensitively with surrounding whitespace ignored.
func NewNormalizer[T comparable](values map[string]T, defaultValue T) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	keys := make([]string, 0, len(values))

	for k, v := range values {
		key := clean(k)
		normalized[key] = v
		keys = append(keys, key)
	}
	sort.Strings(keys)

	return &Normalizer[T]{
		values:       normalized,
		defaultValue: defaultValue,
		keys:         keys,
	}
}

// Normalize converts raw to the enum type, falling back to the default value.
func (n *Normalizer[T]) Normalize(raw string) T {
	if value, ok := n.values[clean(raw)]; ok {
		return value
	}
	return n.defaultValue
}

// Parse converts raw to the enum type and fails on unknown input.
func (n *Normalizer[T]) Parse(raw string) (T, error) {
	if value, ok := n.values[clean(raw)]; ok {
		return value, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q, valid options: %v", raw, n.keys)
}

// IsValid reports whether raw names a known value.
func (n *Normalizer[T]) IsValid(raw string) bool {
	_, ok := n.values[clean(raw)]
	return ok
}

// ValidKeys returns all accepted keys in sorted order.
func (n *Normalizer[T]) ValidKeys() []string {
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

func clean(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
