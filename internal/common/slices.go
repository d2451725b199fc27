package common

import "sort"

// First returns the first element of the slice and true, or the zero value and false if empty.
func First[S ~[]E, E any](s S) (E, bool) {
	if len(s) == 0 {
		var zero E
		return zero, false
	}

	return s[0], true
}

// Set is a membership set over comparable keys.
type Set[K comparable] map[K]struct{}

// SetOf builds a set from the keys produced by key for each element of s.
func SetOf[S ~[]E, E any, K comparable](s S, key func(E) K) Set[K] {
	result := make(Set[K], len(s))
	for _, e := range s {
		result[key(e)] = struct{}{}
	}

	return result
}

// Has reports whether k is in the set.
func (s Set[K]) Has(k K) bool {
	_, ok := s[k]
	return ok
}

// Add inserts k.
func (s Set[K]) Add(k K) {
	s[k] = struct{}{}
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
