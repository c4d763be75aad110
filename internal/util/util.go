package util

import (
	"sort"
	"strings"
	"unicode"
)

// MakeTextList joins items into a Vietnamese list such as "a, b và c". The
// last two items are always joined with "và".
func MakeTextList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " và " + items[1]
	}

	return strings.Join(items[:len(items)-1], ", ") + " và " + items[len(items)-1]
}

// Capitalize returns s with its first letter upper-cased.
func Capitalize(s string) string {
	sRunes := []rune(s)
	if len(sRunes) < 1 {
		return s
	}
	sRunes[0] = unicode.ToUpper(sRunes[0])
	return string(sRunes)
}

// Distinct returns the non-empty items of sl with duplicates removed, in the
// order they first appear.
func Distinct(sl []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range sl {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// OrderedKeys returns the keys of m, ordered a particular way. The order is
// guaranteed to be the same on every run.
//
// As of this writing, the order is alphabetical, but this function does not
// guarantee this will always be the case.
func OrderedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SortBy returns a copy of sl sorted with the given less function. The sort is
// stable.
func SortBy[E any](sl []E, less func(left, right E) bool) []E {
	sorted := make([]E, len(sl))
	copy(sorted, sl)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i], sorted[j])
	})
	return sorted
}
