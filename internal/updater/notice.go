package updater

import (
	"time"

	"github.com/kittengames/kittengames/internal/storage"
)

// Key is the storage key of the last release lookup.
const Key = "kittengames-release-check"

// DefaultInterval is how long a lookup result is trusted.
const DefaultInterval = 24 * time.Hour

// Notice is the stored result of a release lookup.
type Notice struct {
	Current   string    `json:"current"`
	Latest    string    `json:"latest"`
	URL       string    `json:"url,omitempty"`
	Outdated  bool      `json:"outdated"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Policy decides whether background lookups run and how often.
type Policy struct {
	Enabled  bool
	Interval time.Duration
}

// DefaultPolicy checks once a day.
func DefaultPolicy() Policy {
	return Policy{Enabled: true, Interval: DefaultInterval}
}

// Due reports whether a background lookup should run for current given the
// stored notice n (nil when none exists). A notice written by another build
// is always due.
func (p Policy) Due(n *Notice, current string, now time.Time) bool {
	if !p.Enabled || !IsRelease(current) {
		return false
	}
	if n == nil || n.Current != current {
		return true
	}
	interval := p.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}
	return now.Sub(n.CheckedAt) >= interval
}

// LoadNotice reads the stored notice. A missing or unreadable record yields nil.
func LoadNotice(b storage.Backend) (*Notice, error) {
	var n Notice
	ok, err := storage.GetJSON(b, Key, &n)
	if err != nil || !ok {
		return nil, err
	}
	return &n, nil
}
