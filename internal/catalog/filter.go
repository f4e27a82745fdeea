package catalog

import "strings"

// Filter returns the entries whose name contains query (case-insensitive)
// and whose type matches category. All matches every type and an empty query
// matches every name. Input order is preserved.
func Filter(entries []Entry, query string, category Category) []Entry {
	q := strings.ToLower(query)
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if matches(e, q, category) {
			out = append(out, e)
		}
	}
	return out
}

// matches expects q already lowercased.
func matches(e Entry, q string, category Category) bool {
	if category != All && e.Type != category {
		return false
	}
	return strings.Contains(strings.ToLower(e.Name), q)
}
