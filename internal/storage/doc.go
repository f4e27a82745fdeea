// Package storage persists small named records for the browser: the theme
// selection, the cloak identity and the imported theme list. Each record is an
// opaque byte payload (JSON in practice) stored under a stable key.
//
// Two durable backends exist. The file backend keeps one file per key and
// replaces it atomically. The SQLite backend keeps every record in one
// database table. A memory backend serves tests and dry runs.
package storage
