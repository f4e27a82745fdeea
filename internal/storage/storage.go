package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// Backend names accepted by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// ErrInvalidKey is returned for keys that are empty or contain characters
// outside [a-z0-9._-].
var ErrInvalidKey = errors.New("invalid storage key")

var keyPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9._-]*$`)

// Backend stores byte payloads under string keys. A Set either fully
// replaces the previous payload or leaves it untouched.
type Backend interface {
	// Get returns the payload for key and whether it exists.
	Get(key string) ([]byte, bool, error)
	// Set replaces the payload for key.
	Set(key string, value []byte) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(key string) error
	// Keys lists stored keys in lexical order.
	Keys() ([]string, error)
	Close() error
}

// ValidKey reports whether key can be stored by every backend.
func ValidKey(key string) bool {
	return keyPattern.MatchString(key)
}

func checkKey(key string) error {
	if !ValidKey(key) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Open returns the backend named by kind rooted at dir.
func Open(kind, dir string) (Backend, error) {
	switch kind {
	case KindFile, "":
		return NewFileBackend(dir)
	case KindSQLite:
		return NewSQLiteBackend(dir)
	case KindMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}

// GetJSON decodes the record under key into v. It reports false when the
// record does not exist. A present but undecodable record returns an error.
func GetJSON(b Backend, key string, v any) (bool, error) {
	data, ok, err := b.Get(key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return true, fmt.Errorf("decoding %s: %w", key, err)
	}
	return true, nil
}

// SetJSON encodes v and stores it under key.
func SetJSON(b Backend, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", key, err)
	}
	return b.Set(key, data)
}

// Clear removes every record in b and returns the keys it removed.
func Clear(b Backend) ([]string, error) {
	keys, err := b.Keys()
	if err != nil {
		return nil, err
	}
	for _, k := range keys {
		if err := b.Remove(k); err != nil {
			return nil, fmt.Errorf("removing %s: %w", k, err)
		}
	}
	return keys, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
