package updater

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kittengames/kittengames/internal/storage"
)

func releaseServer(t *testing.T, status int, body string) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var hits atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/releases/latest") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Accept"); got != "application/vnd.github+json" {
			t.Errorf("Accept = %q", got)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &hits
}

func TestCheck_StoresNotice(t *testing.T) {
	server, _ := releaseServer(t, http.StatusOK, `{"tag_name":"v1.4.0","html_url":"https://example.test/r"}`)
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		current string
		want    bool
	}{
		{"1.3.9", true},
		{"v1.4.0", false},
		{"1.5.0", false},
		{"dev", false},
	}
	for _, tt := range tests {
		b := storage.NewMemoryBackend()
		u := New(tt.current, b, WithHTTPClient(server.Client()), WithAPIBase(server.URL), WithClock(func() time.Time { return now }))
		n, err := u.Check(context.Background())
		if err != nil {
			t.Fatalf("Check(%s): %v", tt.current, err)
		}
		if n.Outdated != tt.want || n.Latest != "v1.4.0" {
			t.Errorf("Check(%s) = %+v, want outdated %v", tt.current, n, tt.want)
		}
		stored, _ := LoadNotice(b)
		if stored == nil || stored.Latest != n.Latest || stored.Outdated != n.Outdated || !stored.CheckedAt.Equal(now) {
			t.Errorf("stored = %+v, want %+v", stored, n)
		}
	}
}

func TestLatest_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"rate limited", http.StatusForbidden, "", "rate limit"},
		{"server error", http.StatusBadGateway, "", "status 502"},
		{"bad json", http.StatusOK, "{", "decoding release"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := releaseServer(t, tt.status, tt.body)
			u := New("1.0.0", storage.NewMemoryBackend(), WithHTTPClient(server.Client()), WithAPIBase(server.URL))
			_, err := u.Latest(context.Background())
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want containing %q", err, tt.want)
			}
		})
	}

	for _, body := range []string{"", "{}"} {
		status := http.StatusNotFound
		if body != "" {
			status = http.StatusOK
		}
		server, _ := releaseServer(t, status, body)
		u := New("1.0.0", storage.NewMemoryBackend(), WithHTTPClient(server.Client()), WithAPIBase(server.URL))
		if _, err := u.Latest(context.Background()); !errors.Is(err, ErrNoRelease) {
			t.Errorf("status %d body %q: err = %v, want ErrNoRelease", status, body, err)
		}
	}
}

func TestRefreshIfDue(t *testing.T) {
	server, hits := releaseServer(t, http.StatusOK, `{"tag_name":"2.0.0"}`)
	b := storage.NewMemoryBackend()
	now := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	newUpdater := func(p Policy) *Updater {
		return New("1.0.0", b, WithHTTPClient(server.Client()), WithAPIBase(server.URL), WithPolicy(p), WithClock(clock))
	}

	// Disabled: nothing runs.
	<-newUpdater(Policy{}).RefreshIfDue(context.Background())
	if hits.Load() != 0 {
		t.Fatalf("disabled policy fetched %d times", hits.Load())
	}

	// First enabled run fetches and stores.
	<-newUpdater(DefaultPolicy()).RefreshIfDue(context.Background())
	if hits.Load() != 1 {
		t.Fatalf("hits = %d, want 1", hits.Load())
	}

	// Within the interval the stored notice is trusted.
	now = now.Add(23 * time.Hour)
	<-newUpdater(DefaultPolicy()).RefreshIfDue(context.Background())
	if hits.Load() != 1 {
		t.Errorf("fresh notice refetched, hits = %d", hits.Load())
	}

	now = now.Add(2 * time.Hour)
	<-newUpdater(DefaultPolicy()).RefreshIfDue(context.Background())
	if hits.Load() != 2 {
		t.Errorf("stale notice not refreshed, hits = %d", hits.Load())
	}
}

func TestPrintBanner(t *testing.T) {
	b := storage.NewMemoryBackend()
	storage.SetJSON(b, Key, Notice{Current: "1.0.0", Latest: "2.0.0", Outdated: true})

	var buf bytes.Buffer
	New("1.0.0", b).PrintBanner(&buf)
	if !strings.Contains(buf.String(), "Update available: 1.0.0 -> 2.0.0") {
		t.Errorf("banner = %q", buf.String())
	}

	tests := []struct {
		name string
		u    *Updater
	}{
		{"other build", New("2.0.0", b)},
		{"disabled", New("1.0.0", b, WithPolicy(Policy{}))},
		{"no notice", New("1.0.0", storage.NewMemoryBackend())},
	}
	for _, tt := range tests {
		var quiet bytes.Buffer
		tt.u.PrintBanner(&quiet)
		if quiet.Len() != 0 {
			t.Errorf("%s: unexpected banner %q", tt.name, quiet.String())
		}
	}
}
