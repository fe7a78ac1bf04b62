package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rcpilot/rcpilot/internal/catalog"
	"github.com/rcpilot/rcpilot/internal/rc"
)

// CatalogLoadedMsg carries a freshly loaded catalog.
type CatalogLoadedMsg struct {
	Grouped catalog.Grouped
}

// CatalogFailedMsg signals a failed catalog load. The panel stays in its
// empty state; the user can retry with 'R'.
type CatalogFailedMsg struct {
	Err error
}

// SaveDoneMsg signals a completed save attempt for one control key.
type SaveDoneMsg struct {
	Key string
	Err error
}

// ResetDoneMsg signals a completed reset-all attempt.
type ResetDoneMsg struct {
	Err error
}

// NotificationMsg carries a toast from the event bus.
type NotificationMsg struct {
	Level   string
	Message string
}

// ClearToastMsg hides the current toast.
type ClearToastMsg struct{}

// SearchTickMsg fires when the search debounce window elapses. Ticks carry
// a generation counter; a stale tick (superseded by more typing) is dropped.
type SearchTickMsg struct {
	Generation int
}

// FocusMsg applies a deferred focus/highlight of one option after the page
// has had a moment to render.
type FocusMsg struct {
	Option string
}

// StatusMsg carries the daemon status for the header line.
type StatusMsg struct {
	Version rc.Version
	Stats   rc.Stats
	Err     error
}

// searchTick schedules a debounce tick for the given generation.
func searchTick(d time.Duration, generation int) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return SearchTickMsg{Generation: generation}
	})
}

// focusAfterRender schedules the scroll-and-highlight of an option, giving
// the page one frame to lay out first.
func focusAfterRender(option string) tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg {
		return FocusMsg{Option: option}
	})
}

// clearToastAfter hides the toast once it has been visible long enough.
func clearToastAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearToastMsg{}
	})
}
