// Package upload publishes authored theme documents to a file host and
// returns the public URL the host assigns.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/kittengames/kittengames/internal/branding"
	"github.com/kittengames/kittengames/internal/locator"
	"github.com/rs/zerolog"
)

const (
	defaultTimeout = 30 * time.Second
	maxReplySize   = 4 << 10
)

// ErrInvalidReply is returned when the host answers with something that is
// not a URL.
var ErrInvalidReply = errors.New("upload host returned an invalid URL")

// Error reports a failed upload request.
type Error struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("upload to %s failed with status %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("upload to %s failed: %v", e.Endpoint, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Client posts files to a catbox-compatible endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithEndpoint overrides the upload endpoint.
func WithEndpoint(url string) Option {
	return func(cl *Client) {
		if url != "" {
			cl.endpoint = url
		}
	}
}

// WithTimeout bounds a single upload.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		if d > 0 {
			cl.timeout = d
		}
	}
}

// WithLogger sets the client logger.
func WithLogger(l zerolog.Logger) Option {
	return func(cl *Client) {
		cl.logger = l
	}
}

// New creates a Client for the branded upload endpoint.
func New(opts ...Option) *Client {
	c := &Client{
		endpoint:   branding.UploadURL(),
		httpClient: http.DefaultClient,
		timeout:    defaultTimeout,
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Upload sends data as a file named filename and returns the URL the host
// replies with.
func (c *Client) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("nothing to upload")
	}
	if filename == "" {
		filename = "upload.file"
	}

	body, contentType, err := encodeForm(filename, data)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("User-Agent", branding.CLIName()+"-upload")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &Error{Endpoint: c.endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &Error{Endpoint: c.endpoint, Status: resp.StatusCode}
	}

	reply, err := io.ReadAll(io.LimitReader(resp.Body, maxReplySize))
	if err != nil {
		return "", &Error{Endpoint: c.endpoint, Err: err}
	}

	url := strings.TrimSpace(string(reply))
	if !strings.HasPrefix(strings.ToLower(url), "http") || !locator.IsValid(url) {
		c.logger.Debug().Str("reply", url).Msg("upload host reply rejected")
		return "", fmt.Errorf("%w: %q", ErrInvalidReply, url)
	}
	c.logger.Debug().Str("url", url).Int("bytes", len(data)).Msg("uploaded")
	return url, nil
}

func encodeForm(filename string, data []byte) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField("reqtype", "fileupload"); err != nil {
		return nil, "", fmt.Errorf("writing form: %w", err)
	}
	part, err := w.CreateFormFile("fileToUpload", filename)
	if err != nil {
		return nil, "", fmt.Errorf("writing form: %w", err)
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", fmt.Errorf("writing form: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("writing form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
