package profilekit

import (
	"sort"
	"strings"
)

// readableList formats names into a human-readable alternative list for
// error messages, e.g. "user, auth or id".
func readableList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
	}
}

// simpleListed joins values with plain commas.
func simpleListed(items []string) string {
	return strings.Join(items, ",")
}

// sortedKeys returns the keys of a criterion map in deterministic order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
