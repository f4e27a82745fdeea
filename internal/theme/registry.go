package theme

import (
	"context"
	"strings"
	"sync"

	"github.com/kittengames/kittengames/internal/locator"
	"github.com/rs/zerolog"
)

// Registry holds built-in themes and the custom themes imported this session.
// Custom themes keep their first-import position; re-importing a URL replaces
// the cached document in place.
type Registry struct {
	fetcher Fetcher
	logger  zerolog.Logger

	mu     sync.RWMutex
	custom map[string]Document
	order  []string
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l zerolog.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = l
	}
}

// NewRegistry creates an empty registry that imports through fetcher.
func NewRegistry(fetcher Fetcher, opts ...RegistryOption) *Registry {
	r := &Registry{
		fetcher: fetcher,
		logger:  zerolog.Nop(),
		custom:  make(map[string]Document),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Key returns the registry key for a user-supplied theme URL.
func Key(rawURL string) string {
	return locator.Normalize(rawURL)
}

// ListAll returns built-ins in declaration order followed by custom themes in
// insertion order.
func (r *Registry) ListAll() []Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]Entry, 0, len(builtins)+len(r.order))
	for _, b := range builtins {
		entries = append(entries, Entry{ID: b.id, Document: b.doc.Clone()})
	}
	for _, u := range r.order {
		entries = append(entries, Entry{ID: u, Document: r.custom[u].Clone(), Custom: true})
	}
	return entries
}

// Custom returns the URLs of custom themes in insertion order.
func (r *Registry) Custom() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

// Get returns the entry for a built-in id or a custom theme URL.
func (r *Registry) Get(id string) (Entry, bool) {
	if doc, ok := Builtin(id); ok {
		return Entry{ID: id, Document: doc}, true
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	doc, ok := r.custom[Key(id)]
	if !ok {
		return Entry{}, false
	}
	return Entry{ID: Key(id), Document: doc.Clone(), Custom: true}, true
}

// Load fetches and validates the document at rawURL without admitting it.
func (r *Registry) Load(ctx context.Context, rawURL string) (Document, error) {
	if !locator.IsValid(rawURL) {
		return Document{}, ErrInvalidURL
	}
	key := Key(rawURL)

	data, err := r.fetcher.Fetch(ctx, key)
	if err != nil {
		return Document{}, &FetchError{URL: key, Err: err}
	}

	doc, err := Validate(data)
	if err != nil {
		switch e := err.(type) {
		case *ParseError:
			e.URL = key
		case *SchemaError:
			e.URL = key
		}
		return Document{}, err
	}
	return doc, nil
}

// ImportFromURL fetches, validates and registers the document at rawURL.
// A failed import leaves the registry untouched.
func (r *Registry) ImportFromURL(ctx context.Context, rawURL string) (Document, error) {
	doc, err := r.Load(ctx, rawURL)
	if err != nil {
		r.logger.Debug().Err(err).Str("url", rawURL).Msg("theme import rejected")
		return Document{}, err
	}
	r.Add(rawURL, doc)
	r.logger.Debug().Str("url", Key(rawURL)).Str("name", doc.Name).Msg("theme imported")
	return doc, nil
}

// Add registers an already validated document under rawURL.
func (r *Registry) Add(rawURL string, doc Document) {
	key := Key(rawURL)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.custom[key]; !exists {
		r.order = append(r.order, key)
	}
	r.custom[key] = doc.Clone()
}

// Remove deletes a custom theme. Built-in ids are never removed. It reports
// whether an entry was deleted.
func (r *Registry) Remove(rawURL string) bool {
	if IsBuiltin(rawURL) {
		return false
	}
	key := Key(strings.TrimSpace(rawURL))

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.custom[key]; !ok {
		return false
	}
	delete(r.custom, key)
	for i, u := range r.order {
		if u == key {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}
