package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/kittengames/kittengames/internal/theme"
)

// Styles contains lipgloss styles derived from a theme palette.
type Styles struct {
	Theme      theme.Document
	App        lipgloss.Style
	Title      lipgloss.Style
	Text       lipgloss.Style
	Muted      lipgloss.Style
	Accent     lipgloss.Style
	Card       lipgloss.Style
	CardActive lipgloss.Style
	Tab        lipgloss.Style
	TabActive  lipgloss.Style
	Input      lipgloss.Style
	Popup      lipgloss.Style
	Error      lipgloss.Style
	Pending    lipgloss.Style
}

// BuildStyles converts a theme palette into lipgloss styles.
func BuildStyles(doc theme.Document) Styles {
	c := func(k string) lipgloss.Color { return lipgloss.Color(doc.Colors[k]) }

	return Styles{
		Theme:      doc,
		App:        lipgloss.NewStyle().Foreground(c(theme.KeyForeground)).Background(c(theme.KeyBackground)).Padding(0, 1),
		Title:      lipgloss.NewStyle().Foreground(c(theme.KeyPrimary)).Bold(true),
		Text:       lipgloss.NewStyle().Foreground(c(theme.KeyForeground)),
		Muted:      lipgloss.NewStyle().Foreground(c(theme.KeyMuted)),
		Accent:     lipgloss.NewStyle().Foreground(c(theme.KeyAccent)),
		Card:       lipgloss.NewStyle().Foreground(c(theme.KeyForeground)).Background(c(theme.KeyCard)).Padding(0, 1),
		CardActive: lipgloss.NewStyle().Foreground(c(theme.KeyForeground)).Background(c(theme.KeyCardHover)).Bold(true).Padding(0, 1),
		Tab:        lipgloss.NewStyle().Foreground(c(theme.KeyMuted)).Background(c(theme.KeySecondary)).Padding(0, 1),
		TabActive:  lipgloss.NewStyle().Foreground(c(theme.KeyBackground)).Background(c(theme.KeyPrimary)).Bold(true).Padding(0, 1),
		Input:      lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(c(theme.KeyBorder)).Padding(0, 1),
		Popup:      lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(c(theme.KeyAccent)).Background(c(theme.KeyCard)).Padding(1, 2),
		Error:      lipgloss.NewStyle().Foreground(c(theme.KeyAccent)).Bold(true),
		Pending:    lipgloss.NewStyle().Foreground(c(theme.KeyMuted)).Faint(true),
	}
}
