// Package cloak manages the tab identity override: the page title and icon
// the browsing surface shows instead of its own.
package cloak

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kittengames/kittengames/internal/branding"
	"github.com/kittengames/kittengames/internal/icon"
	"github.com/kittengames/kittengames/internal/storage"
	"github.com/rs/zerolog"
)

// Key is the storage key of the cloak record.
const Key = "kittengames-cloak"

var (
	// ErrInvalidIcon rejects an update whose icon does not resolve to a
	// reachable resource. Nothing is persisted.
	ErrInvalidIcon = errors.New("invalid icon URL")

	// ErrSuperseded is returned by an update whose icon check finished after
	// a newer update was committed. Its values are discarded.
	ErrSuperseded = errors.New("cloak update superseded by a newer request")
)

// Identity is the persisted override. Empty fields mean "not overridden".
type Identity struct {
	IconURL   string `json:"iconUrl"`
	PageTitle string `json:"pageTitle"`
}

// IsZero reports whether no override is active.
func (id Identity) IsZero() bool {
	return id.IconURL == "" && id.PageTitle == ""
}

// Partial is a cloak change. Nil fields are left as they are.
type Partial struct {
	IconURL   *string
	PageTitle *string
}

// String returns a pointer to s, for building a Partial.
func String(s string) *string { return &s }

// Prober checks whether an icon URL is retrievable.
type Prober interface {
	Reachable(ctx context.Context, url string) bool
}

// Reloader rebuilds whatever presentation reflects the identity.
type Reloader interface {
	Reload()
}

type nopReloader struct{}

func (nopReloader) Reload() {}

// Service validates, persists and serves the cloak identity.
type Service struct {
	backend        storage.Backend
	prober         Prober
	reloader       Reloader
	logger         zerolog.Logger
	faviconService string

	mu        sync.Mutex
	current   Identity
	issued    uint64
	committed uint64
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithFaviconService overrides the favicon lookup endpoint used to resolve
// site URLs into icon URLs.
func WithFaviconService(endpoint string) Option {
	return func(s *Service) {
		if endpoint != "" {
			s.faviconService = endpoint
		}
	}
}

// WithReloader sets the hook invoked after Remove.
func WithReloader(r Reloader) Option {
	return func(s *Service) {
		if r != nil {
			s.reloader = r
		}
	}
}

// Open loads the cloak record from backend. A missing or corrupt record
// yields the empty identity.
func Open(backend storage.Backend, prober Prober, opts ...Option) (*Service, error) {
	s := &Service{
		backend:        backend,
		prober:         prober,
		reloader:       nopReloader{},
		logger:         zerolog.Nop(),
		faviconService: icon.DefaultFaviconService,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.Reread(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reread replaces the in-memory identity with the persisted record.
func (s *Service) Reread() error {
	data, ok, err := s.backend.Get(Key)
	if err != nil {
		return fmt.Errorf("loading cloak: %w", err)
	}

	var next Identity
	if ok {
		if err := json.Unmarshal(data, &next); err != nil {
			s.logger.Warn().Err(err).Msg("cloak record is corrupt, using defaults")
			next = Identity{}
		}
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	return nil
}

// Get returns the current identity.
func (s *Service) Get() Identity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Update merges p into the identity and persists it. A non-empty icon must be
// reachable and is stored in resolved form; an empty icon clears the override.
// The title is stored as given.
func (s *Service) Update(ctx context.Context, p Partial) error {
	s.mu.Lock()
	s.issued++
	token := s.issued
	s.mu.Unlock()

	if p.IconURL != nil && strings.TrimSpace(*p.IconURL) != "" {
		raw := strings.TrimSpace(*p.IconURL)
		if !s.prober.Reachable(ctx, raw) {
			s.logger.Debug().Str("icon", raw).Msg("cloak icon rejected")
			return fmt.Errorf("%w: %s", ErrInvalidIcon, raw)
		}
		resolved := icon.ResolveWith(s.faviconService, raw)
		p.IconURL = &resolved
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if token < s.committed {
		s.logger.Debug().Uint64("token", token).Uint64("committed", s.committed).Msg("stale cloak update discarded")
		return ErrSuperseded
	}

	next := s.current
	if p.IconURL != nil {
		next.IconURL = strings.TrimSpace(*p.IconURL)
	}
	if p.PageTitle != nil {
		next.PageTitle = *p.PageTitle
	}

	if err := storage.SetJSON(s.backend, Key, next); err != nil {
		return fmt.Errorf("saving cloak: %w", err)
	}
	s.current = next
	s.committed = token
	return nil
}

// Remove deletes the record, resets to the empty identity and reloads.
func (s *Service) Remove() error {
	s.mu.Lock()
	if err := s.backend.Remove(Key); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("removing cloak: %w", err)
	}
	s.current = Identity{}
	// Pending updates issued before the removal must not resurrect the record.
	s.committed = s.issued
	s.mu.Unlock()

	s.reloader.Reload()
	return nil
}

// Preview is what the surface would show for a candidate icon and title.
type Preview struct {
	Icon      string `json:"icon"`
	Reachable bool   `json:"reachable"`
	Title     string `json:"title"`
}

// Preview resolves a candidate icon without persisting anything. An
// unreachable icon previews as empty so the default icon shows instead. An
// empty title previews as the product name.
func (s *Service) Preview(ctx context.Context, iconInput, title string) Preview {
	p := Preview{Title: title}
	if p.Title == "" {
		p.Title = branding.DisplayName()
	}

	iconInput = strings.TrimSpace(iconInput)
	if iconInput == "" {
		return p
	}
	if s.prober.Reachable(ctx, iconInput) {
		p.Icon = icon.ResolveWith(s.faviconService, iconInput)
		p.Reachable = true
	}
	return p
}
