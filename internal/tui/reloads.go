package tui

import tea "github.com/charmbracelet/bubbletea"

// Reloads turns Reload calls from the settings store and the cloak service
// into a message for the running program. Reload never blocks; requests
// arriving while one is already queued are coalesced.
type Reloads struct {
	ch chan struct{}
}

// NewReloads returns an empty reload queue.
func NewReloads() *Reloads {
	return &Reloads{ch: make(chan struct{}, 1)}
}

// Reload requests a rebuild of the presentation.
func (r *Reloads) Reload() {
	select {
	case r.ch <- struct{}{}:
	default:
	}
}

func (r *Reloads) wait() tea.Cmd {
	return func() tea.Msg {
		<-r.ch
		return reloadMsg{}
	}
}
