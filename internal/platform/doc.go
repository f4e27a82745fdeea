// Package platform smooths over filesystem differences between operating
// systems. Permission bits are applied on Unix and skipped on Windows, and
// file replacement goes through a temporary sibling so readers never observe
// a half-written file.
package platform
