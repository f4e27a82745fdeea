// Package config manages user-level settings stored at ~/.kittengames/config.yaml.
// It provides functions to load, read, and write configuration keys such as the
// game manifest URL, the HTTP timeout used for theme imports and icon checks,
// and the storage backend holding persisted personalization records.
package config
