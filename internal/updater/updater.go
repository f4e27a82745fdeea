package updater

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/kittengames/kittengames/internal/branding"
	"github.com/kittengames/kittengames/internal/storage"
	"github.com/rs/zerolog"
)

const defaultAPIBase = "https://api.github.com"

// ErrNoRelease is returned when the repository has no published release.
var ErrNoRelease = errors.New("no published release")

// Release is the subset of a GitHub release the notice needs.
type Release struct {
	Tag     string `json:"tag_name"`
	HTMLURL string `json:"html_url"`
}

// Updater looks up the latest release and keeps the result in a backend.
type Updater struct {
	current    string
	backend    storage.Backend
	httpClient *http.Client
	apiBase    string
	policy     Policy
	now        func() time.Time
	logger     zerolog.Logger
}

// Option configures an Updater.
type Option func(*Updater)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(u *Updater) {
		u.httpClient = c
	}
}

// WithAPIBase points release lookups at another GitHub API host.
func WithAPIBase(base string) Option {
	return func(u *Updater) {
		if base != "" {
			u.apiBase = strings.TrimRight(base, "/")
		}
	}
}

// WithPolicy sets when background lookups run.
func WithPolicy(p Policy) Option {
	return func(u *Updater) {
		u.policy = p
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(u *Updater) {
		u.now = now
	}
}

// WithLogger sets the updater logger.
func WithLogger(l zerolog.Logger) Option {
	return func(u *Updater) {
		u.logger = l
	}
}

// New returns an Updater for the running version that stores notices in backend.
func New(current string, backend storage.Backend, opts ...Option) *Updater {
	u := &Updater{
		current:    current,
		backend:    backend,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		apiBase:    defaultAPIBase,
		policy:     DefaultPolicy(),
		now:        time.Now,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(u)
	}
	return u
}

// Latest fetches the newest published release.
func (u *Updater) Latest(ctx context.Context) (Release, error) {
	url := fmt.Sprintf("%s/repos/%s/releases/latest", u.apiBase, branding.GitHubRepo())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Release{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("User-Agent", branding.CLIName()+"-updater")
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return Release{}, fmt.Errorf("fetching release: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return Release{}, ErrNoRelease
	case http.StatusForbidden, http.StatusTooManyRequests:
		return Release{}, fmt.Errorf("GitHub API rate limit exceeded, set GITHUB_TOKEN for higher limits")
	default:
		return Release{}, fmt.Errorf("GitHub API returned status %d", resp.StatusCode)
	}

	var rel Release
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&rel); err != nil {
		return Release{}, fmt.Errorf("decoding release: %w", err)
	}
	if rel.Tag == "" {
		return Release{}, ErrNoRelease
	}
	return rel, nil
}

// Check looks up the latest release, stores the resulting notice and
// returns it. It runs regardless of the policy.
func (u *Updater) Check(ctx context.Context) (Notice, error) {
	rel, err := u.Latest(ctx)
	if err != nil {
		return Notice{}, err
	}
	outdated, err := Outdated(u.current, rel.Tag)
	if err != nil {
		return Notice{}, err
	}

	n := Notice{
		Current:   u.current,
		Latest:    rel.Tag,
		URL:       rel.HTMLURL,
		Outdated:  outdated,
		CheckedAt: u.now(),
	}
	if err := storage.SetJSON(u.backend, Key, n); err != nil {
		return n, fmt.Errorf("saving release notice: %w", err)
	}
	return n, nil
}

// PrintBanner prints the stored notice when it says this build is outdated.
// It never touches the network.
func (u *Updater) PrintBanner(w io.Writer) {
	if !u.policy.Enabled {
		return
	}
	n, err := LoadNotice(u.backend)
	if err != nil {
		u.logger.Debug().Err(err).Msg("ignoring unreadable release notice")
		return
	}
	if n != nil && n.Outdated && n.Current == u.current {
		WriteBanner(w, *n)
	}
}

// RefreshIfDue starts a background lookup when the policy says the stored
// notice is stale. The returned channel closes when the lookup is done, or
// immediately when none was needed.
func (u *Updater) RefreshIfDue(ctx context.Context) <-chan struct{} {
	done := make(chan struct{})

	n, err := LoadNotice(u.backend)
	if err != nil {
		u.logger.Debug().Err(err).Msg("release notice unreadable, refreshing")
		n = nil
	}
	if !u.policy.Due(n, u.current, u.now()) {
		close(done)
		return done
	}

	go func() {
		defer close(done)
		if _, err := u.Check(ctx); err != nil {
			u.logger.Debug().Err(err).Msg("background release check failed")
		}
	}()
	return done
}

// WriteBanner prints the update notice for n.
func WriteBanner(w io.Writer, n Notice) {
	url := n.URL
	if url == "" {
		url = fmt.Sprintf("https://github.com/%s/releases/latest", branding.GitHubRepo())
	}
	fmt.Fprintf(w, "\nUpdate available: %s -> %s\n    %s\n\n", n.Current, n.Latest, url)
}
