package catalog

import (
	"errors"
	"strings"
)

// ErrEmpty is returned when picking from an empty list.
var ErrEmpty = errors.New("catalog is empty")

// Intn is satisfied by *rand.Rand from math/rand/v2.
type Intn interface {
	IntN(n int) int
}

// Random picks one entry using rng.
func Random(entries []Entry, rng Intn) (Entry, error) {
	if len(entries) == 0 {
		return Entry{}, ErrEmpty
	}
	return entries[rng.IntN(len(entries))], nil
}

// Launch is how a selected entry should be opened.
type Launch struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	External bool   `json:"external"`
}

// LaunchFor decides between opening e in a separate browser context and
// showing it embedded.
func LaunchFor(e Entry) Launch {
	return Launch{Name: e.Name, URL: e.URL, External: e.NewTab}
}

// Find returns the first entry whose name equals name, ignoring case.
func Find(entries []Entry, name string) (Entry, bool) {
	for _, e := range entries {
		if strings.EqualFold(e.Name, name) {
			return e, true
		}
	}
	return Entry{}, false
}
