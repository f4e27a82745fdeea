package theme

import (
	"encoding/json"
	"fmt"
	"strings"
)

// EditorBaseID is the built-in whose palette new themes start from.
const EditorBaseID = "midnight"

// Draft builds a new theme document from the editor palette with the given
// overrides applied. Unknown palette keys and an invalid result are errors.
func Draft(name, scheme string, overrides map[string]string) (Document, error) {
	base, _ := Builtin(EditorBaseID)
	doc := Document{
		Name:        strings.TrimSpace(name),
		ColorScheme: base.ColorScheme,
		Colors:      base.Colors,
	}
	if doc.Name == "" {
		doc.Name = UnnamedTheme
	}
	if scheme != "" {
		doc.ColorScheme = scheme
	}

	for k, v := range overrides {
		if !isRequiredKey(k) {
			return Document{}, fmt.Errorf("unknown palette key %q", k)
		}
		doc.Colors[k] = strings.TrimSpace(v)
	}

	data, err := Marshal(doc)
	if err != nil {
		return Document{}, err
	}
	return Validate(data)
}

// Marshal renders doc in the indented form themes are shared in.
func Marshal(doc Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling theme: %w", err)
	}
	return data, nil
}

func isRequiredKey(k string) bool {
	for _, r := range RequiredKeys {
		if r == k {
			return true
		}
	}
	return false
}
