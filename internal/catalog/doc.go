// Package catalog holds the browsable game list: its entry and category
// types, the pure text/category filter, the generation-stamped View that
// keeps interactive filtering off the input path, and the Source that loads
// the manifest over HTTP or from disk.
package catalog
