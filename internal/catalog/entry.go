package catalog

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category tags an entry. All is a filter-only pseudo category that no entry
// carries.
type Category string

const (
	All        Category = "all"
	Other      Category = "other"
	Battle     Category = "battle"
	Platformer Category = "platformer"
	Shooter    Category = "shooter"
	Puzzle     Category = "puzzle"
	Skill      Category = "skill"
	Idle       Category = "idle"
	Racing     Category = "racing"
)

var categories = []Category{All, Other, Battle, Platformer, Shooter, Puzzle, Skill, Idle, Racing}

var titleCaser = cases.Title(language.English)

// Categories returns every category in display order, All first.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ParseCategory maps user input to a Category. Empty input means All.
func ParseCategory(s string) (Category, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return All, nil
	}
	for _, c := range categories {
		if string(c) == s {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown category %q (want one of %s)", s, categoryList())
}

func categoryList() string {
	names := make([]string, len(categories))
	for i, c := range categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}

// Label is the display form of the category, e.g. "Platformer".
func (c Category) Label() string {
	return titleCaser.String(string(c))
}

// Known reports whether c is one of the enumerated categories.
func (c Category) Known() bool {
	for _, k := range categories {
		if k == c {
			return true
		}
	}
	return false
}

// Entry is one game in the manifest. Entries are never mutated after load.
type Entry struct {
	Name   string   `json:"name"`
	Image  string   `json:"image"`
	URL    string   `json:"url"`
	Type   Category `json:"type"`
	NewTab bool     `json:"newtab,omitempty"`
}
