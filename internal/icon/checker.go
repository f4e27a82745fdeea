package icon

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kittengames/kittengames/internal/branding"
	"github.com/kittengames/kittengames/internal/locator"
	"github.com/rs/zerolog"
)

const defaultTimeout = 10 * time.Second

// Checker confirms that an icon URL resolves to a retrievable resource.
type Checker struct {
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(ch *Checker) {
		ch.httpClient = c
	}
}

// WithTimeout bounds every reachability check.
func WithTimeout(d time.Duration) Option {
	return func(ch *Checker) {
		if d > 0 {
			ch.timeout = d
		}
	}
}

// WithLogger sets the logger failed checks are reported to.
func WithLogger(l zerolog.Logger) Option {
	return func(ch *Checker) {
		ch.logger = l
	}
}

// NewChecker creates a Checker with the given options.
func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		httpClient: http.DefaultClient,
		timeout:    defaultTimeout,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reachable reports whether raw names a resource that answers a HEAD request
// with a 2xx status. Empty or malformed input returns false without touching
// the network. Failures of any kind are a normal false, never an error.
func (c *Checker) Reachable(ctx context.Context, raw string) bool {
	if !locator.IsValid(raw) {
		return false
	}
	if err := c.head(ctx, locator.Normalize(raw)); err != nil {
		c.logger.Debug().Err(err).Str("url", raw).Msg("icon not reachable")
		return false
	}
	return true
}

func (c *Checker) head(ctx context.Context, target string) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, target, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", branding.CLIName()+"-icon-check")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("requesting icon: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("icon request returned status %d", resp.StatusCode)
	}
	return nil
}
