// Package icon turns user input into a usable tab icon reference and checks
// that a candidate icon actually resolves before it is accepted.
//
// Resolution is total: any input that cannot be parsed resolves to "". Input
// that already points at an image asset is returned as-is (after scheme
// normalization); anything else is mapped to a favicon lookup for its host.
package icon
