// Package theme holds the registry of visual themes: a fixed set of built-in
// palettes shipped with the binary plus custom themes imported from arbitrary
// URLs. Imported documents are parsed and checked against an embedded JSON
// schema before they are admitted; built-ins are trusted and never validated.
package theme
