package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rcpilot/rcpilot/internal/catalog"
	"github.com/rcpilot/rcpilot/internal/events"
	"github.com/rcpilot/rcpilot/internal/form"
	"github.com/rcpilot/rcpilot/internal/rc"
	"github.com/rcpilot/rcpilot/internal/search"
	"github.com/rcpilot/rcpilot/internal/state"
)

// Deps are the collaborators the panel is built from. Everything arrives
// through the constructor so tests can substitute fakes.
type Deps struct {
	Engine     *form.Engine
	Loader     *catalog.Loader
	Persister  *rc.Persister
	Client     *rc.Client
	State      *state.Manager
	Bus        *events.Bus
	Logger     *slog.Logger
	Debounce   time.Duration
	WindowSize int
}

// homeRow is one line of the catalog overview: a service/category pair,
// annotated with a match count while a search is active.
type homeRow struct {
	Service  string
	Category string
	Count    int
}

// Model is the settings panel model.
type Model struct {
	deps       Deps
	controller *search.Controller
	grouped    catalog.Grouped

	width  int
	height int
	ready  bool

	loadErr error
	loading bool

	// home page
	homeRows []homeRow
	homeIdx  int

	// options page
	pageOptions []catalog.OptionDescriptor
	optIdx      int
	highlight   string

	// search result list shown on the home page
	matches  []search.Match
	matchIdx int

	// editing
	editing   bool
	editInput textinput.Model

	// search input
	searchInput textinput.Model
	searching   bool
	searchGen   int

	// confirm modal
	confirming bool

	// help pane
	showHelp bool
	helpText string

	toast      string
	toastLevel string

	status    StatusMsg
	notifyCh  <-chan events.Event
	statusOK  bool
}

// New creates the settings panel model.
func New(deps Deps) Model {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Debounce <= 0 {
		deps.Debounce = search.DefaultDebounce
	}

	searchInput := textinput.New()
	searchInput.Placeholder = "Search options..."
	searchInput.CharLimit = 128
	searchInput.Width = 40

	editInput := textinput.New()
	editInput.CharLimit = 1024
	editInput.Width = 60

	m := Model{
		deps:        deps,
		controller:  search.NewController(deps.WindowSize),
		searchInput: searchInput,
		editInput:   editInput,
		loading:     true,
	}

	if deps.Bus != nil {
		m.notifyCh = deps.Bus.Subscribe(events.TypeNotification)
	}

	// Restore last session's position; it is applied once the catalog
	// arrives.
	if deps.State != nil {
		saved := deps.State.Get()
		if saved.Service != "" {
			m.controller.NavigateTo(saved.Service, saved.Category, "")
		}
	}

	return m
}

// Init starts the catalog load, the daemon status probe, and the
// notification listener.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.loadCatalog(), m.fetchStatus()}
	if m.notifyCh != nil {
		cmds = append(cmds, waitForNotification(m.notifyCh))
	}
	return tea.Batch(cmds...)
}

// loadCatalog fetches the catalog and rebuilds the engine off the UI loop.
func (m Model) loadCatalog() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		grouped, err := deps.Loader.Load(ctx)
		if err != nil {
			return CatalogFailedMsg{Err: err}
		}
		if deps.Persister != nil {
			deps.Persister.SetDefaults(grouped)
		}
		deps.Engine.Rebuild(grouped)
		return CatalogLoadedMsg{Grouped: grouped}
	}
}

func (m Model) saveOption(key string) tea.Cmd {
	engine := m.deps.Engine
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return SaveDoneMsg{Key: key, Err: engine.Save(ctx, key)}
	}
}

func (m Model) resetAll() tea.Cmd {
	deps := m.deps
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		// The modal already asked; the engine-side confirmer is pro forma.
		if err := deps.Engine.ResetAll(ctx, autoConfirm{}); err != nil {
			return ResetDoneMsg{Err: err}
		}
		return ResetDoneMsg{}
	}
}

func (m Model) fetchStatus() tea.Cmd {
	client := m.deps.Client
	if client == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		version, err := client.CoreVersion(ctx)
		if err != nil {
			return StatusMsg{Err: err}
		}
		stats, err := client.CoreStats(ctx)
		if err != nil {
			return StatusMsg{Version: version, Err: err}
		}
		return StatusMsg{Version: version, Stats: stats}
	}
}

func waitForNotification(ch <-chan events.Event) tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-ch
		if !ok {
			return nil
		}
		if n, isNotification := ev.(events.NotificationEvent); isNotification {
			return NotificationMsg{Level: n.Level, Message: n.Message}
		}
		return nil
	}
}

// autoConfirm satisfies the engine's confirmer after the modal has
// already gathered the user's answer.
type autoConfirm struct{}

func (autoConfirm) Confirm(context.Context, string, string) (bool, error) {
	return true, nil
}

// persistNavState records the current position for the next session.
func (m *Model) persistNavState() {
	if m.deps.State == nil {
		return
	}
	if err := m.deps.State.Update(m.controller.Service(), m.controller.Category(), m.controller.Query()); err != nil {
		m.deps.Logger.Warn("persisting ui state failed", "error", err)
	}
}
