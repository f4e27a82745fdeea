// Package settings owns the persisted theme selection. The record lives under
// a single storage key and is rewritten in full on every update.
package settings

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/kittengames/kittengames/internal/storage"
	"github.com/kittengames/kittengames/internal/theme"
	"github.com/rs/zerolog"
)

// Key is the storage key of the settings record.
const Key = "kittengames-settings"

// Settings is the persisted theme selection. CustomThemeURL is set only while
// ThemeID is theme.CustomID.
type Settings struct {
	ThemeID        string `json:"theme"`
	CustomThemeURL string `json:"customThemeUrl,omitempty"`
}

// IsCustom reports whether the selection points at an imported theme.
func (s Settings) IsCustom() bool {
	return s.ThemeID == theme.CustomID
}

// Defaults returns the first-run settings.
func Defaults() Settings {
	return Settings{ThemeID: theme.DefaultID}
}

// Partial is a settings change. Nil fields are left as they are.
type Partial struct {
	ThemeID        *string
	CustomThemeURL *string
}

// String returns a pointer to s, for building a Partial.
func String(s string) *string { return &s }

func (p Partial) apply(s Settings) Settings {
	if p.ThemeID != nil {
		s.ThemeID = *p.ThemeID
	}
	if p.CustomThemeURL != nil {
		s.CustomThemeURL = *p.CustomThemeURL
	}
	return s
}

// Reloader rebuilds whatever presentation reflects persisted state.
type Reloader interface {
	Reload()
}

// ReloadFunc adapts a plain function to Reloader.
type ReloadFunc func()

// Reload calls f.
func (f ReloadFunc) Reload() {
	if f != nil {
		f()
	}
}

// Store is the contract the presentation layer renders from.
type Store interface {
	Get() Settings
	Update(Partial) error
	Clear() error
}

// BackendStore is a Store persisted through a storage.Backend.
type BackendStore struct {
	backend  storage.Backend
	reloader Reloader
	logger   zerolog.Logger

	mu      sync.Mutex
	current Settings
}

// Option configures a BackendStore.
type Option func(*BackendStore)

// WithLogger sets the store logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *BackendStore) {
		s.logger = l
	}
}

// Open loads the settings record from backend. A missing or corrupt record
// yields Defaults. Only a failing backend is reported as an error.
func Open(backend storage.Backend, reloader Reloader, opts ...Option) (*BackendStore, error) {
	if reloader == nil {
		reloader = ReloadFunc(nil)
	}
	s := &BackendStore{
		backend:  backend,
		reloader: reloader,
		logger:   zerolog.Nop(),
		current:  Defaults(),
	}
	for _, opt := range opts {
		opt(s)
	}

	data, ok, err := backend.Get(Key)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	if !ok {
		return s, nil
	}

	loaded, err := decode(data)
	if err != nil {
		s.logger.Warn().Err(err).Msg("settings record is corrupt, using defaults")
		return s, nil
	}
	s.current = loaded
	return s, nil
}

// Get returns the current settings.
func (s *BackendStore) Get() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update merges p into the current settings and persists the merged record.
// On a write failure the in-memory state is left unchanged.
func (s *BackendStore) Update(p Partial) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	merged := p.apply(s.current)
	if err := storage.SetJSON(s.backend, Key, merged); err != nil {
		return fmt.Errorf("saving settings: %w", err)
	}
	s.current = merged
	s.logger.Debug().Str("theme", merged.ThemeID).Str("custom_url", merged.CustomThemeURL).Msg("settings updated")
	return nil
}

// Clear removes the record, restores defaults and reloads the presentation.
func (s *BackendStore) Clear() error {
	s.mu.Lock()
	if err := s.backend.Remove(Key); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("clearing settings: %w", err)
	}
	s.current = Defaults()
	s.mu.Unlock()

	s.reloader.Reload()
	return nil
}

// Reread replaces the in-memory state with the persisted record.
func (s *BackendStore) Reread() error {
	data, ok, err := s.backend.Get(Key)
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	next := Defaults()
	if ok {
		if loaded, err := decode(data); err == nil {
			next = loaded
		} else {
			s.logger.Warn().Err(err).Msg("settings record is corrupt, using defaults")
		}
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	return nil
}

func decode(data []byte) (Settings, error) {
	var out Settings
	if err := json.Unmarshal(data, &out); err != nil {
		return Settings{}, fmt.Errorf("decoding %s: %w", Key, err)
	}
	if out.ThemeID == "" {
		out.ThemeID = theme.DefaultID
	}
	return out, nil
}
