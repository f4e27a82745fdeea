// Package personalize ties the theme registry to the persisted selection.
// It owns the pairing rules the settings store does not enforce: a custom
// selection always carries its URL, and Active never resolves to a theme the
// registry does not hold.
package personalize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/kittengames/kittengames/internal/settings"
	"github.com/kittengames/kittengames/internal/storage"
	"github.com/kittengames/kittengames/internal/theme"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// CustomThemesKey is the storage key listing imported theme URLs.
const CustomThemesKey = "kittengames-custom-themes"

// restoreConcurrency bounds parallel re-imports during Restore.
const restoreConcurrency = 4

// ErrSuperseded is returned by ImportAndSelect when another selection was
// committed while the import was in flight. The theme is still imported.
var ErrSuperseded = errors.New("theme selection superseded by a newer request")

// Choice is a registry entry annotated with whether it is selected.
type Choice struct {
	theme.Entry
	Selected bool `json:"selected"`
}

// Service composes the registry, the settings store and the custom theme list.
type Service struct {
	registry *theme.Registry
	settings settings.Store
	backend  storage.Backend
	logger   zerolog.Logger

	mu        sync.Mutex
	issued    uint64
	committed uint64

	// unavailable holds remembered URLs whose host could not be reached by
	// the last Restore. They stay in the persisted list.
	unavailable []string
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// New returns a Service. backend persists the custom theme list.
func New(reg *theme.Registry, store settings.Store, backend storage.Backend, opts ...Option) *Service {
	s := &Service{
		registry: reg,
		settings: store,
		backend:  backend,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Registry returns the underlying registry.
func (s *Service) Registry() *theme.Registry { return s.registry }

// Settings returns the current persisted selection.
func (s *Service) Settings() settings.Settings { return s.settings.Get() }

func (s *Service) begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued++
	return s.issued
}

// ImportAndSelect imports the theme at rawURL, remembers it for later
// sessions and selects it.
func (s *Service) ImportAndSelect(ctx context.Context, rawURL string) (theme.Document, error) {
	token := s.begin()

	doc, err := s.registry.ImportFromURL(ctx, rawURL)
	if err != nil {
		return theme.Document{}, err
	}
	key := theme.Key(rawURL)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.saveListLocked(); err != nil {
		return theme.Document{}, err
	}
	if token < s.committed {
		s.logger.Debug().Str("url", key).Msg("import finished after a newer selection, not selecting")
		return doc, ErrSuperseded
	}
	if err := s.selectLocked(token, theme.CustomID, key); err != nil {
		return theme.Document{}, err
	}
	return doc, nil
}

// Import imports and remembers the theme at rawURL without selecting it.
func (s *Service) Import(ctx context.Context, rawURL string) (theme.Document, error) {
	doc, err := s.registry.ImportFromURL(ctx, rawURL)
	if err != nil {
		return theme.Document{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.saveListLocked(); err != nil {
		return theme.Document{}, err
	}
	return doc, nil
}

// Select makes id the active theme. id is a built-in id or the URL of an
// imported theme.
func (s *Service) Select(id string) error {
	token := s.begin()

	s.mu.Lock()
	defer s.mu.Unlock()

	if theme.IsBuiltin(id) {
		return s.selectLocked(token, id, "")
	}
	entry, ok := s.registry.Get(id)
	if !ok || !entry.Custom {
		return fmt.Errorf("%w: %s", theme.ErrNotFound, id)
	}
	return s.selectLocked(token, theme.CustomID, entry.ID)
}

func (s *Service) selectLocked(token uint64, id, customURL string) error {
	err := s.settings.Update(settings.Partial{
		ThemeID:        settings.String(id),
		CustomThemeURL: settings.String(customURL),
	})
	if err != nil {
		return err
	}
	if token > s.committed {
		s.committed = token
	}
	return nil
}

// Remove deletes an imported theme. If it was selected, the selection falls
// back to theme.DefaultID.
func (s *Service) Remove(rawURL string) error {
	token := s.begin()

	s.mu.Lock()
	defer s.mu.Unlock()

	if theme.IsBuiltin(rawURL) {
		return fmt.Errorf("built-in theme %q cannot be removed", rawURL)
	}
	key := theme.Key(rawURL)
	if !s.registry.Remove(key) && !s.dropUnavailableLocked(key) {
		return fmt.Errorf("%w: %s", theme.ErrNotFound, rawURL)
	}
	if err := s.saveListLocked(); err != nil {
		return err
	}

	cur := s.settings.Get()
	if cur.IsCustom() && cur.CustomThemeURL == key {
		s.logger.Debug().Str("url", key).Msg("removed selected theme, falling back")
		return s.selectLocked(token, theme.DefaultID, "")
	}
	return nil
}

// Active returns the selected theme. A selection that points at a missing
// entry resolves to the default theme.
func (s *Service) Active() theme.Entry {
	cur := s.settings.Get()
	if cur.IsCustom() {
		if e, ok := s.registry.Get(cur.CustomThemeURL); ok && e.Custom {
			return e
		}
	} else if e, ok := s.registry.Get(cur.ThemeID); ok && !e.Custom {
		return e
	}
	return theme.Entry{ID: theme.DefaultID, Document: theme.Default()}
}

// Themes lists every theme with the active one marked.
func (s *Service) Themes() []Choice {
	active := s.Active()
	all := s.registry.ListAll()
	out := make([]Choice, len(all))
	for i, e := range all {
		out[i] = Choice{Entry: e, Selected: e.ID == active.ID}
	}
	return out
}

// RestoreReport summarizes a Restore. Failed holds themes that are no longer
// valid and were forgotten. Unavailable holds themes whose host could not be
// reached; they are skipped for this session only.
type RestoreReport struct {
	Restored    []string         `json:"restored"`
	Failed      map[string]error `json:"-"`
	Unavailable map[string]error `json:"-"`
	FellBack    bool             `json:"fell_back"`
	Selected    string           `json:"selected"`
}

// Restore re-imports the themes remembered by earlier sessions. A theme that
// fails validation is forgotten, and if it was selected the selection falls
// back to theme.DefaultID. A theme that cannot be fetched stays remembered and
// selected; Active resolves to the default until it loads again.
func (s *Service) Restore(ctx context.Context) (RestoreReport, error) {
	report := RestoreReport{
		Failed:      make(map[string]error),
		Unavailable: make(map[string]error),
	}

	var urls []string
	if _, err := storage.GetJSON(s.backend, CustomThemesKey, &urls); err != nil {
		s.logger.Warn().Err(err).Msg("custom theme list is corrupt, ignoring")
		urls = nil
	}

	docs := make([]theme.Document, len(urls))
	errs := make([]error, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(restoreConcurrency)
	for i, u := range urls {
		g.Go(func() error {
			docs[i], errs[i] = s.registry.Load(gctx, u)
			return nil
		})
	}
	_ = g.Wait()

	token := s.begin()
	s.mu.Lock()
	defer s.mu.Unlock()

	s.unavailable = nil
	forgotten := make(map[string]bool)
	for i, u := range urls {
		key := theme.Key(u)
		switch {
		case errs[i] == nil:
			s.registry.Add(u, docs[i])
			report.Restored = append(report.Restored, key)
		case invalid(errs[i]):
			s.logger.Warn().Err(errs[i]).Str("url", u).Msg("forgetting custom theme that is no longer valid")
			report.Failed[u] = errs[i]
			forgotten[key] = true
		default:
			s.logger.Warn().Err(errs[i]).Str("url", u).Msg("custom theme unavailable, keeping it for the next session")
			report.Unavailable[u] = errs[i]
			s.unavailable = append(s.unavailable, key)
		}
	}

	if len(forgotten) > 0 {
		if err := s.saveListLocked(); err != nil {
			return report, err
		}
	}

	cur := s.settings.Get()
	switch {
	case cur.IsCustom() && forgotten[cur.CustomThemeURL]:
		s.logger.Info().Str("url", cur.CustomThemeURL).Msg("selected theme was forgotten, falling back")
		if err := s.selectLocked(token, theme.DefaultID, ""); err != nil {
			return report, err
		}
		report.FellBack = true
	case cur.IsCustom():
		e, ok := s.registry.Get(cur.CustomThemeURL)
		report.FellBack = !ok || !e.Custom
	default:
		report.FellBack = !theme.IsBuiltin(cur.ThemeID)
	}
	if report.FellBack {
		s.logger.Info().Str("theme", cur.ThemeID).Str("url", cur.CustomThemeURL).Msg("selected theme unavailable, using the default")
	}
	report.Selected = s.Active().ID
	return report, nil
}

// invalid reports whether a restore failure means the document itself is
// unusable, as opposed to its host being unreachable right now.
func invalid(err error) bool {
	var (
		parseErr  *theme.ParseError
		schemaErr *theme.SchemaError
	)
	return errors.Is(err, theme.ErrInvalidURL) || errors.As(err, &parseErr) || errors.As(err, &schemaErr)
}

// dropUnavailableLocked forgets key if the last Restore could not reach it.
func (s *Service) dropUnavailableLocked(key string) bool {
	for i, u := range s.unavailable {
		if u == key {
			s.unavailable = append(s.unavailable[:i], s.unavailable[i+1:]...)
			return true
		}
	}
	return false
}

// Forget drops the remembered theme list without touching the registry.
func (s *Service) Forget() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.backend.Remove(CustomThemesKey); err != nil {
		return fmt.Errorf("forgetting custom themes: %w", err)
	}
	return nil
}

// saveListLocked persists the registry's custom theme URLs in order,
// followed by any that were unavailable this session.
func (s *Service) saveListLocked() error {
	urls := s.registry.Custom()
	for _, u := range s.unavailable {
		if _, ok := s.registry.Get(u); !ok {
			urls = append(urls, u)
		}
	}
	if len(urls) == 0 {
		if err := s.backend.Remove(CustomThemesKey); err != nil {
			return fmt.Errorf("saving custom theme list: %w", err)
		}
		return nil
	}
	data, err := json.Marshal(urls)
	if err != nil {
		return fmt.Errorf("encoding custom theme list: %w", err)
	}
	if err := s.backend.Set(CustomThemesKey, data); err != nil {
		return fmt.Errorf("saving custom theme list: %w", err)
	}
	return nil
}

// UserMessage maps an import error to the line shown to the user.
func UserMessage(err error) string {
	if errors.Is(err, ErrSuperseded) {
		return "Theme imported, but another theme was selected meanwhile"
	}
	return theme.UserMessage(err)
}
