package cli

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/kittengames/kittengames/internal/config"
	"github.com/kittengames/kittengames/internal/logging"
	"github.com/kittengames/kittengames/internal/storage"
	"github.com/kittengames/kittengames/internal/updater"
)

// refreshGrace bounds how long a finished command waits for a background
// release lookup before exiting.
const refreshGrace = 2 * time.Second

// releaseCheck is the background release lookup started before a command runs.
var releaseCheck struct {
	backend storage.Backend
	done    <-chan struct{}
}

func newUpdater(backend storage.Backend) *updater.Updater {
	return updater.New(buildVersion, backend,
		updater.WithHTTPClient(&http.Client{Timeout: config.HTTPTimeout()}),
		updater.WithAPIBase(config.ReleaseAPI()),
		updater.WithPolicy(updater.Policy{Enabled: config.UpdateCheck(), Interval: config.UpdateInterval()}),
		updater.WithLogger(logging.Component("updater")),
	)
}

// startReleaseNotice prints the stored update notice and refreshes it in the
// background when it is older than update_interval.
func startReleaseNotice(ctx context.Context, w io.Writer) {
	backend, err := storage.Open(config.StorageBackend(), config.DataDir())
	if err != nil {
		log := logging.Component("updater")
		log.Debug().Err(err).Msg("release notice unavailable")
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	u := newUpdater(backend)
	u.PrintBanner(w)
	releaseCheck.backend = backend
	releaseCheck.done = u.RefreshIfDue(ctx)
}

// finishReleaseNotice gives a running lookup a moment to land, then releases
// its storage.
func finishReleaseNotice() {
	if releaseCheck.backend == nil {
		return
	}
	select {
	case <-releaseCheck.done:
	case <-time.After(refreshGrace):
	}
	releaseCheck.backend.Close()
	releaseCheck.backend = nil
	releaseCheck.done = nil
}
