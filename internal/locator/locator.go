// Package locator decides whether user input names a well-formed absolute
// resource locator. Scheme-less input such as "example.com" is treated as
// https.
package locator

import (
	"errors"
	"net/url"
	"strings"
	"unicode"
)

// ErrInvalid is returned by Parse for input that is not a usable locator.
var ErrInvalid = errors.New("invalid URL")

// Normalize prefixes https:// when the input carries no scheme. A scheme is
// only recognized when followed by "://", so hosts such as "httpbin.org" or
// "localhost:8080" are prefixed. Surrounding whitespace is dropped.
func Normalize(input string) string {
	input = strings.TrimSpace(input)
	if hasScheme(input) {
		return input
	}
	return "https://" + input
}

// hasScheme reports whether s starts with an RFC 3986 scheme and "://".
func hasScheme(s string) bool {
	i := strings.Index(s, "://")
	if i <= 0 {
		return false
	}
	for j, r := range s[:i] {
		switch {
		case r < unicode.MaxASCII && unicode.IsLetter(r):
		case j > 0 && (unicode.IsDigit(r) || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return true
}

// Parse normalizes input and parses it strictly: the result always has a
// scheme and a host made of valid host characters.
func Parse(input string) (*url.URL, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrInvalid
	}
	u, err := url.Parse(Normalize(input))
	if err != nil {
		return nil, ErrInvalid
	}
	if u.Scheme == "" || u.Opaque != "" {
		return nil, ErrInvalid
	}
	if !validHost(u.Hostname()) {
		return nil, ErrInvalid
	}
	return u, nil
}

// IsValid reports whether input is a well-formed absolute locator after
// normalization. It never panics; empty input is invalid.
func IsValid(input string) bool {
	_, err := Parse(input)
	return err == nil
}

// validHost accepts DNS names (including IDN letters) and IP literals.
func validHost(host string) bool {
	if host == "" {
		return false
	}
	if strings.Contains(host, ":") {
		// IPv6 literal; url.Parse already validated the brackets.
		return true
	}
	for _, r := range host {
		switch {
		case r == '-' || r == '.' || r == '_':
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
		case r >= unicode.MaxASCII && unicode.IsLetter(r):
		default:
			return false
		}
	}
	return !strings.HasPrefix(host, ".") && !strings.Contains(host, "..")
}
