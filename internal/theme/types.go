package theme

// Color scheme hints carried by a Document.
const (
	SchemeLight = "light"
	SchemeDark  = "dark"
)

// Palette keys every Document must define.
const (
	KeyBackground     = "background"
	KeyForeground     = "foreground"
	KeyCard           = "card"
	KeyCardHover      = "card-hover"
	KeyPrimary        = "primary"
	KeyPrimaryHover   = "primary-hover"
	KeySecondary      = "secondary"
	KeySecondaryHover = "secondary-hover"
	KeyAccent         = "accent"
	KeyMuted          = "muted"
	KeyBorder         = "border"
)

// RequiredKeys lists the palette keys in display order.
var RequiredKeys = []string{
	KeyBackground,
	KeyForeground,
	KeyCard,
	KeyCardHover,
	KeyPrimary,
	KeyPrimaryHover,
	KeySecondary,
	KeySecondaryHover,
	KeyAccent,
	KeyMuted,
	KeyBorder,
}

// Palette maps palette keys to color values (usually #rrggbb).
type Palette map[string]string

// UnnamedTheme is the display name given to a theme that does not carry one.
const UnnamedTheme = "Custom Theme"

// Document is a complete theme: display name, scheme hint and palette.
type Document struct {
	Name        string  `json:"name" yaml:"name"`
	ColorScheme string  `json:"colorScheme" yaml:"colorScheme"`
	Colors      Palette `json:"colors" yaml:"colors"`
}

// Missing returns the required palette keys that are absent or empty, in
// RequiredKeys order.
func (p Palette) Missing() []string {
	var missing []string
	for _, k := range RequiredKeys {
		if p[k] == "" {
			missing = append(missing, k)
		}
	}
	return missing
}

// Clone returns a deep copy of the document.
func (d Document) Clone() Document {
	colors := make(Palette, len(d.Colors))
	for k, v := range d.Colors {
		colors[k] = v
	}
	d.Colors = colors
	return d
}

// Entry is one registry row. Built-in entries are keyed by a short id;
// custom entries are keyed by the URL they were imported from.
type Entry struct {
	ID       string   `json:"id"`
	Document Document `json:"theme"`
	Custom   bool     `json:"custom"`
}
