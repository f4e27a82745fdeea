package icon

import (
	"net/url"
	"path"
	"strconv"
	"strings"

	"github.com/kittengames/kittengames/internal/locator"
)

const (
	// DefaultFaviconService is the favicon lookup endpoint used for hosts.
	DefaultFaviconService = "https://www.google.com/s2/favicons"
	// FaviconSize is the pixel size requested from the favicon service.
	FaviconSize = 128
)

// imageExtensions lists path suffixes treated as direct image assets.
var imageExtensions = map[string]bool{
	".ico":  true,
	".png":  true,
	".svg":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
}

// Resolve maps input to an icon URL using DefaultFaviconService.
func Resolve(input string) string {
	return ResolveWith(DefaultFaviconService, input)
}

// ResolveWith maps input to an icon URL. Empty or unparseable input yields "".
// An input whose path ends in a known image extension is returned normalized
// but otherwise unchanged; any other input yields a favicon lookup URL on
// service keyed by the input's hostname.
func ResolveWith(service, input string) string {
	if strings.TrimSpace(input) == "" {
		return ""
	}
	u, err := locator.Parse(input)
	if err != nil {
		return ""
	}
	if IsImagePath(u.Path) {
		return locator.Normalize(input)
	}
	return FaviconURL(service, u.Hostname())
}

// IsImagePath reports whether p ends in a recognized image extension.
// The comparison is case-insensitive.
func IsImagePath(p string) bool {
	return imageExtensions[strings.ToLower(path.Ext(p))]
}

// FaviconURL builds the favicon lookup URL for a bare hostname.
func FaviconURL(service, hostname string) string {
	if service == "" {
		service = DefaultFaviconService
	}
	q := url.Values{}
	q.Set("domain", hostname)
	q.Set("sz", strconv.Itoa(FaviconSize))
	return service + "?" + q.Encode()
}
