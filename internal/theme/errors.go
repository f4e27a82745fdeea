package theme

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidURL is returned when an import URL is not a well-formed locator.
var ErrInvalidURL = errors.New("invalid theme URL")

// ErrNotFound is returned when a theme id or URL is not in the registry.
var ErrNotFound = errors.New("theme not found")

// FetchError reports a transport failure while retrieving a theme document.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching theme %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError reports a theme document that is not well-formed JSON.
type ParseError struct {
	URL string
	Err error
}

func (e *ParseError) Error() string {
	if e.URL == "" {
		return fmt.Sprintf("parsing theme: %v", e.Err)
	}
	return fmt.Sprintf("parsing theme %s: %v", e.URL, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Issue is a single schema violation.
type Issue struct {
	Path    string // instance location, e.g. "/colors"
	Message string
	Keyword string // failing schema keyword, e.g. "required"
}

// SchemaError reports a well-formed document that does not satisfy the theme
// contract. Missing lists absent or empty palette keys.
type SchemaError struct {
	URL     string
	Missing []string
	Issues  []Issue
}

func (e *SchemaError) Error() string {
	var b strings.Builder
	b.WriteString("invalid theme")
	if e.URL != "" {
		b.WriteString(" " + e.URL)
	}
	if len(e.Missing) > 0 {
		b.WriteString(": missing colors " + strings.Join(e.Missing, ", "))
		return b.String()
	}
	if len(e.Issues) > 0 {
		msgs := make([]string, 0, len(e.Issues))
		for _, is := range e.Issues {
			if is.Path != "" {
				msgs = append(msgs, is.Path+": "+is.Message)
			} else {
				msgs = append(msgs, is.Message)
			}
		}
		b.WriteString(": " + strings.Join(msgs, "; "))
	}
	return b.String()
}

// UserMessage maps an import error to the single line shown to the user.
func UserMessage(err error) string {
	var (
		fetchErr  *FetchError
		parseErr  *ParseError
		schemaErr *SchemaError
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidURL):
		return "Invalid theme URL"
	case errors.As(err, &parseErr), errors.As(err, &schemaErr):
		return "Invalid theme format"
	case errors.As(err, &fetchErr):
		return "Failed to load theme"
	default:
		return "Failed to load theme"
	}
}
