package tui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/kittengames/kittengames/internal/theme"
)

func TestBuildStyles_UsesPalette(t *testing.T) {
	for _, id := range theme.BuiltinIDs() {
		t.Run(id, func(t *testing.T) {
			doc, _ := theme.Builtin(id)
			s := BuildStyles(doc)

			if got := s.Title.GetForeground(); got != lipgloss.Color(doc.Colors[theme.KeyPrimary]) {
				t.Errorf("Title foreground = %v, want %s", got, doc.Colors[theme.KeyPrimary])
			}
			if got := s.App.GetBackground(); got != lipgloss.Color(doc.Colors[theme.KeyBackground]) {
				t.Errorf("App background = %v, want %s", got, doc.Colors[theme.KeyBackground])
			}
			if got := s.CardActive.GetBackground(); got != lipgloss.Color(doc.Colors[theme.KeyCardHover]) {
				t.Errorf("CardActive background = %v, want %s", got, doc.Colors[theme.KeyCardHover])
			}
			if s.Theme.Name != doc.Name {
				t.Errorf("Theme = %q, want %q", s.Theme.Name, doc.Name)
			}
		})
	}
}
