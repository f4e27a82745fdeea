package theme

// DefaultID is the built-in theme selected on first run and after the
// selected custom theme is removed.
const DefaultID = "dark"

// CustomID is the settings theme id that marks a custom selection.
const CustomID = "custom"

type builtin struct {
	id  string
	doc Document
}

// builtins are declared in listing order.
var builtins = []builtin{
	{"dark", Document{
		Name:        "Dark",
		ColorScheme: SchemeDark,
		Colors: Palette{
			KeyBackground:     "#0f0f17",
			KeyForeground:     "#f4f4f5",
			KeyCard:           "#1c1c27",
			KeyCardHover:      "#262636",
			KeyPrimary:        "#8b5cf6",
			KeyPrimaryHover:   "#7c3aed",
			KeySecondary:      "#27273a",
			KeySecondaryHover: "#32324a",
			KeyAccent:         "#f472b6",
			KeyMuted:          "#9ca3af",
			KeyBorder:         "#2e2e42",
		},
	}},
	{"light", Document{
		Name:        "Light",
		ColorScheme: SchemeLight,
		Colors: Palette{
			KeyBackground:     "#f8fafc",
			KeyForeground:     "#0f172a",
			KeyCard:           "#ffffff",
			KeyCardHover:      "#f1f5f9",
			KeyPrimary:        "#6366f1",
			KeyPrimaryHover:   "#4f46e5",
			KeySecondary:      "#e2e8f0",
			KeySecondaryHover: "#cbd5e1",
			KeyAccent:         "#ec4899",
			KeyMuted:          "#64748b",
			KeyBorder:         "#e2e8f0",
		},
	}},
	{"midnight", Document{
		Name:        "Midnight",
		ColorScheme: SchemeDark,
		Colors: Palette{
			KeyBackground:     "#1a1b2e",
			KeyForeground:     "#ffffff",
			KeyCard:           "#2d2b55",
			KeyCardHover:      "#34305e",
			KeyPrimary:        "#7795ff",
			KeyPrimaryHover:   "#6b85e8",
			KeySecondary:      "#2d2b55",
			KeySecondaryHover: "#34305e",
			KeyAccent:         "#01cdfe",
			KeyMuted:          "#a599e9",
			KeyBorder:         "#34305e",
		},
	}},
	{"forest", Document{
		Name:        "Forest",
		ColorScheme: SchemeDark,
		Colors: Palette{
			KeyBackground:     "#0d1a12",
			KeyForeground:     "#e7f5ea",
			KeyCard:           "#15281c",
			KeyCardHover:      "#1d3526",
			KeyPrimary:        "#22c55e",
			KeyPrimaryHover:   "#16a34a",
			KeySecondary:      "#1d3526",
			KeySecondaryHover: "#264430",
			KeyAccent:         "#facc15",
			KeyMuted:          "#8fb59a",
			KeyBorder:         "#264430",
		},
	}},
	{"sunset", Document{
		Name:        "Sunset",
		ColorScheme: SchemeDark,
		Colors: Palette{
			KeyBackground:     "#1f1020",
			KeyForeground:     "#fff1e6",
			KeyCard:           "#2f1a2e",
			KeyCardHover:      "#3c2239",
			KeyPrimary:        "#fb923c",
			KeyPrimaryHover:   "#f97316",
			KeySecondary:      "#3c2239",
			KeySecondaryHover: "#4a2a46",
			KeyAccent:         "#f43f5e",
			KeyMuted:          "#d4a5a5",
			KeyBorder:         "#4a2a46",
		},
	}},
	{"ocean", Document{
		Name:        "Ocean",
		ColorScheme: SchemeLight,
		Colors: Palette{
			KeyBackground:     "#ecfeff",
			KeyForeground:     "#083344",
			KeyCard:           "#ffffff",
			KeyCardHover:      "#cffafe",
			KeyPrimary:        "#0891b2",
			KeyPrimaryHover:   "#0e7490",
			KeySecondary:      "#a5f3fc",
			KeySecondaryHover: "#67e8f9",
			KeyAccent:         "#f59e0b",
			KeyMuted:          "#4b7f8c",
			KeyBorder:         "#a5f3fc",
		},
	}},
}

// Builtin returns the built-in theme with the given id.
func Builtin(id string) (Document, bool) {
	for _, b := range builtins {
		if b.id == id {
			return b.doc.Clone(), true
		}
	}
	return Document{}, false
}

// IsBuiltin reports whether id names a built-in theme.
func IsBuiltin(id string) bool {
	_, ok := Builtin(id)
	return ok
}

// BuiltinIDs returns the built-in ids in declaration order.
func BuiltinIDs() []string {
	ids := make([]string, len(builtins))
	for i, b := range builtins {
		ids[i] = b.id
	}
	return ids
}

// Default returns the baseline built-in document.
func Default() Document {
	doc, _ := Builtin(DefaultID)
	return doc
}
