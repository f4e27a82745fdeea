package theme

import (
	"errors"
	"testing"
)

func TestDraft_StartsFromEditorPalette(t *testing.T) {
	doc, err := Draft("Mine", "", map[string]string{KeyAccent: "#ff00ff"})
	if err != nil {
		t.Fatalf("Draft: %v", err)
	}
	base, _ := Builtin(EditorBaseID)

	if doc.Name != "Mine" {
		t.Errorf("Name = %q", doc.Name)
	}
	if doc.Colors[KeyAccent] != "#ff00ff" {
		t.Errorf("accent = %q", doc.Colors[KeyAccent])
	}
	if doc.Colors[KeyBackground] != base.Colors[KeyBackground] {
		t.Errorf("background = %q, want editor default %q", doc.Colors[KeyBackground], base.Colors[KeyBackground])
	}
	// The built-in itself is untouched.
	again, _ := Builtin(EditorBaseID)
	if again.Colors[KeyAccent] == "#ff00ff" {
		t.Error("Draft mutated the built-in palette")
	}
}

func TestDraft_DefaultName(t *testing.T) {
	doc, err := Draft("  ", SchemeLight, nil)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Name != "Custom Theme" || doc.ColorScheme != SchemeLight {
		t.Errorf("doc = %+v", doc)
	}
}

func TestDraft_Rejects(t *testing.T) {
	if _, err := Draft("x", "", map[string]string{"link": "#000"}); err == nil {
		t.Error("unknown key accepted")
	}

	_, err := Draft("x", "", map[string]string{KeyBorder: ""})
	var schemaErr *SchemaError
	if !errors.As(err, &schemaErr) {
		t.Errorf("empty color: err = %v, want *SchemaError", err)
	}

	if _, err := Draft("x", "sepia", nil); !errors.As(err, &schemaErr) {
		t.Errorf("bad scheme: err = %v, want *SchemaError", err)
	}
}

func TestMarshal_RoundTripsThroughValidate(t *testing.T) {
	data, err := Marshal(Default())
	if err != nil {
		t.Fatal(err)
	}
	doc, err := Validate(data)
	if err != nil {
		t.Fatalf("Validate(Marshal(Default())): %v", err)
	}
	if doc.Name != Default().Name {
		t.Errorf("Name = %q", doc.Name)
	}
}
