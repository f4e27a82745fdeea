package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kittengames/kittengames/internal/branding"
	"github.com/kittengames/kittengames/internal/platform"
	"github.com/rs/zerolog"
)

const (
	cacheFileName = "manifest-cache.json"
	// DefaultMaxAge is how long a cached manifest counts as fresh.
	DefaultMaxAge = 24 * time.Hour

	maxManifestSize = 8 << 20
	defaultTimeout  = 10 * time.Second
)

// Source loads the manifest from a URL or a local file.
type Source struct {
	location   string
	httpClient *http.Client
	timeout    time.Duration
	cacheDir   string
	logger     zerolog.Logger
}

// Option configures a Source.
type Option func(*Source)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(s *Source) {
		s.httpClient = c
	}
}

// WithTimeout bounds a remote manifest fetch.
func WithTimeout(d time.Duration) Option {
	return func(s *Source) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// WithCacheDir enables the on-disk manifest cache in dir. A remote fetch that
// fails falls back to the cached copy.
func WithCacheDir(dir string) Option {
	return func(s *Source) {
		s.cacheDir = dir
	}
}

// WithLogger sets the source logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Source) {
		s.logger = l
	}
}

// NewSource returns a Source reading from location, an http(s) URL or a path.
func NewSource(location string, opts ...Option) *Source {
	s := &Source{
		location:   strings.TrimSpace(location),
		httpClient: http.DefaultClient,
		timeout:    defaultTimeout,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the manifest location.
func (s *Source) Location() string { return s.location }

// IsRemote reports whether the location is fetched over HTTP.
func (s *Source) IsRemote() bool {
	l := strings.ToLower(s.location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Load reads and decodes the manifest. Malformed records are skipped.
func (s *Source) Load(ctx context.Context) ([]Entry, error) {
	if s.location == "" {
		return nil, fmt.Errorf("manifest location is empty")
	}

	if !s.IsRemote() {
		data, err := os.ReadFile(strings.TrimPrefix(s.location, "file://"))
		if err != nil {
			return nil, fmt.Errorf("reading manifest: %w", err)
		}
		return Decode(bytes.NewReader(data), s.logger)
	}

	data, err := s.fetch(ctx)
	if err != nil {
		cached, cacheErr := s.readCache()
		if cacheErr != nil {
			return nil, err
		}
		s.logger.Warn().Err(err).Msg("manifest fetch failed, using cached copy")
		data = cached
	} else if s.cacheDir != "" {
		if err := s.writeCache(data); err != nil {
			s.logger.Debug().Err(err).Msg("caching manifest")
		}
	}
	return Decode(bytes.NewReader(data), s.logger)
}

func (s *Source) fetch(ctx context.Context) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.location, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", branding.CLIName()+"-catalog")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching manifest: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("manifest request returned status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxManifestSize))
	if err != nil {
		return nil, fmt.Errorf("reading manifest body: %w", err)
	}
	return data, nil
}

// Decode reads a JSON array of entries one record at a time. Records that do
// not decode, or lack a name or URL, are logged and skipped. Only a document
// that is not an array at all is an error.
func Decode(r io.Reader, logger zerolog.Logger) ([]Entry, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, fmt.Errorf("parsing manifest: expected a JSON array")
	}

	var entries []Entry
	for i := 0; dec.More(); i++ {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			// The stream itself is broken; keep what was read so far.
			logger.Warn().Err(err).Int("index", i).Msg("manifest truncated")
			return entries, nil
		}

		var e Entry
		if err := json.Unmarshal(raw, &e); err != nil {
			logger.Debug().Err(err).Int("index", i).Msg("skipping malformed manifest record")
			continue
		}
		if strings.TrimSpace(e.Name) == "" || strings.TrimSpace(e.URL) == "" {
			logger.Debug().Int("index", i).Msg("skipping manifest record without name or url")
			continue
		}
		e.Type = Category(strings.ToLower(strings.TrimSpace(string(e.Type))))
		if e.Type == "" || e.Type == All {
			e.Type = Other
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// cachedManifest wraps the raw manifest with the time it was fetched.
type cachedManifest struct {
	FetchedAt time.Time       `json:"fetched_at"`
	Source    string          `json:"source"`
	Manifest  json.RawMessage `json:"manifest"`
}

func (s *Source) cachePath() string {
	return filepath.Join(s.cacheDir, cacheFileName)
}

func (s *Source) writeCache(data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("manifest is not valid JSON")
	}
	if err := os.MkdirAll(s.cacheDir, 0700); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	out, err := json.Marshal(cachedManifest{FetchedAt: time.Now().UTC(), Source: s.location, Manifest: data})
	if err != nil {
		return fmt.Errorf("marshaling manifest cache: %w", err)
	}
	return platform.WriteFileAtomic(s.cachePath(), out, 0600)
}

func (s *Source) readCache() ([]byte, error) {
	if s.cacheDir == "" {
		return nil, fmt.Errorf("manifest cache disabled")
	}
	c, err := loadCache(s.cacheDir)
	if err != nil {
		return nil, err
	}
	if c.Source != s.location {
		return nil, fmt.Errorf("cached manifest is for %s", c.Source)
	}
	return c.Manifest, nil
}

func loadCache(dir string) (*cachedManifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, cacheFileName))
	if err != nil {
		return nil, fmt.Errorf("reading manifest cache: %w", err)
	}
	var c cachedManifest
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing manifest cache: %w", err)
	}
	return &c, nil
}

// CachedAt returns when the manifest in dir was fetched, or the zero time.
func CachedAt(dir string) time.Time {
	c, err := loadCache(dir)
	if err != nil {
		return time.Time{}
	}
	return c.FetchedAt
}

// IsStale reports whether the cached manifest in dir is missing or older than
// maxAge.
func IsStale(dir string, maxAge time.Duration) bool {
	at := CachedAt(dir)
	if at.IsZero() {
		return true
	}
	return time.Since(at) > maxAge
}

// ClearCache deletes the cached manifest in dir. A missing cache is not an
// error.
func ClearCache(dir string) error {
	err := os.Remove(filepath.Join(dir, cacheFileName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing manifest cache: %w", err)
	}
	return nil
}
