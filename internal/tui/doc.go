// Package tui is the interactive catalog browser. It renders the filtered
// grid, the search box and category tabs in the active theme's colors, and
// runs every network-bound action (manifest load, theme import, cloak icon
// check) as a tea.Cmd so input never waits on I/O.
package tui
