package tui

import (
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rcpilot/rcpilot/internal/catalog"
	"github.com/rcpilot/rcpilot/internal/clip"
	"github.com/rcpilot/rcpilot/internal/form"
	"github.com/rcpilot/rcpilot/internal/search"
)

const toastDuration = 3 * time.Second

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		return m, nil

	case CatalogLoadedMsg:
		m.loading = false
		m.loadErr = nil
		m.grouped = msg.Grouped
		m.rebuildHomeRows()
		m.rebuildPageOptions()
		return m, nil

	case CatalogFailedMsg:
		m.loading = false
		m.loadErr = msg.Err
		m.grouped = catalog.Grouped{}
		m.homeRows = nil
		m.pageOptions = nil
		return m, nil

	case SaveDoneMsg:
		// The engine already notified; the bus listener shows the toast.
		return m, nil

	case ResetDoneMsg:
		if msg.Err != nil {
			return m, nil
		}
		m.loading = true
		return m, m.loadCatalog()

	case NotificationMsg:
		m.toast = msg.Message
		m.toastLevel = msg.Level
		cmds := []tea.Cmd{clearToastAfter(toastDuration)}
		if m.notifyCh != nil {
			cmds = append(cmds, waitForNotification(m.notifyCh))
		}
		return m, tea.Batch(cmds...)

	case ClearToastMsg:
		m.toast = ""
		return m, nil

	case SearchTickMsg:
		if msg.Generation != m.searchGen {
			// Superseded by more typing; a newer tick is on its way.
			return m, nil
		}
		m.applySearch()
		return m, nil

	case FocusMsg:
		m.focusOption(msg.Option)
		return m, nil

	case StatusMsg:
		m.status = msg
		m.statusOK = msg.Err == nil
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirming {
		return m.handleConfirmKey(msg)
	}
	if m.editing {
		return m.handleEditKey(msg)
	}
	if m.searching {
		return m.handleSearchKey(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.persistNavState()
		return m, tea.Quit

	case "/":
		m.searching = true
		m.searchInput.SetValue(m.controller.Query())
		m.searchInput.Focus()
		return m, textinput.Blink

	case "R":
		m.loading = true
		return m, m.loadCatalog()

	case "r":
		m.confirming = true
		return m, nil

	case "?":
		m.toggleHelp()
		return m, nil

	case "esc":
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		if m.controller.Page() == search.PageOptions {
			m.controller.Home()
			m.rebuildHomeRows()
			m.persistNavState()
		}
		return m, nil
	}

	if m.controller.Page() == search.PageHome {
		return m.handleHomeKey(msg)
	}
	return m.handleOptionsKey(msg)
}

func (m Model) handleHomeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	searchActive := m.controller.Query() != "" && len(m.matches) > 0

	switch msg.String() {
	case "up", "k":
		if searchActive {
			if m.matchIdx > 0 {
				m.matchIdx--
			}
		} else if m.homeIdx > 0 {
			m.homeIdx--
		}
	case "down", "j":
		if searchActive {
			if m.matchIdx < len(m.matches)-1 {
				m.matchIdx++
			}
		} else if m.homeIdx < len(m.homeRows)-1 {
			m.homeIdx++
		}
	case "enter":
		if searchActive {
			match := m.matches[m.matchIdx]
			m.controller.NavigateTo(match.Service, match.Category, match.Option.Name)
			m.rebuildPageOptions()
			m.persistNavState()
			return m, focusAfterRender(match.Option.Name)
		}
		if m.homeIdx < len(m.homeRows) {
			row := m.homeRows[m.homeIdx]
			m.controller.NavigateTo(row.Service, row.Category, "")
			m.rebuildPageOptions()
			m.persistNavState()
		}
	}
	return m, nil
}

func (m Model) handleOptionsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.optIdx > 0 {
			m.optIdx--
			m.scrollToSelection()
		}
	case "down", "j":
		if m.optIdx < len(m.pageOptions)-1 {
			m.optIdx++
			m.scrollToSelection()
		}
	case "enter", "e":
		return m.beginEdit()
	case " ":
		// Space toggles booleans in place.
		if ctl, ok := m.selectedControl(); ok && !ctl.Disabled() &&
			ctl.Descriptor.Type == catalog.TypeBool {
			return m, m.toggleAndSave(ctl)
		}
	case "d":
		if ctl, ok := m.selectedControl(); ok && !ctl.Disabled() {
			if err := m.deps.Engine.SetValue(ctl.Key, ctl.Descriptor.DefaultStr); err != nil {
				return m, nil
			}
			return m, m.saveOption(ctl.Key)
		}
	case "c":
		if ctl, ok := m.selectedControl(); ok {
			if _, err := clip.WriteAll(ctl.Value().Raw()); err != nil {
				m.deps.Logger.Warn("clipboard copy failed", "error", err)
			}
		}
	}
	return m, nil
}

func (m Model) toggleAndSave(ctl *form.Control) tea.Cmd {
	next := strconv.FormatBool(!ctl.Value().Bool())
	if err := m.deps.Engine.SetValue(ctl.Key, next); err != nil {
		return nil
	}
	return m.saveOption(ctl.Key)
}

func (m Model) beginEdit() (tea.Model, tea.Cmd) {
	ctl, ok := m.selectedControl()
	if !ok || ctl.Disabled() {
		return m, nil
	}
	if ctl.Descriptor.Type == catalog.TypeBool {
		return m, m.toggleAndSave(ctl)
	}
	m.editing = true
	m.editInput.SetValue(ctl.Value().Raw())
	m.editInput.CursorEnd()
	m.editInput.Focus()
	return m, textinput.Blink
}

func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.editing = false
		m.editInput.Blur()
		return m, nil
	case "enter":
		ctl, ok := m.selectedControl()
		if !ok {
			m.editing = false
			return m, nil
		}
		if err := m.deps.Engine.SetValue(ctl.Key, m.editInput.Value()); err != nil {
			m.editing = false
			m.editInput.Blur()
			return m, nil
		}
		m.editing = false
		m.editInput.Blur()
		if !ctl.Dirty() {
			return m, nil
		}
		if issue := ctl.Issue(); issue != nil {
			// Rendered inline next to the control; nothing to save.
			return m, nil
		}
		return m, m.saveOption(ctl.Key)
	}

	var cmd tea.Cmd
	m.editInput, cmd = m.editInput.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searchGen++
		m.controller.SetQuery("")
		m.applySearch()
		return m, nil
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	// Every keystroke restarts the debounce window; only the tick whose
	// generation survives applies the filter.
	m.searchGen++
	return m, tea.Batch(cmd, searchTick(m.deps.Debounce, m.searchGen))
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y", "enter":
		m.confirming = false
		return m, m.resetAll()
	case "n", "N", "esc":
		m.confirming = false
	}
	return m, nil
}

// applySearch recomputes the derived result state for the current page.
// It runs in full on each debounced pass; nothing is kept between runs.
func (m *Model) applySearch() {
	m.controller.SetQuery(m.searchInput.Value())

	if m.controller.Page() == search.PageHome {
		m.matches = search.QueryCatalog(m.grouped, m.controller.Query())
		m.matchIdx = 0
		m.rebuildHomeRows()
		return
	}
	m.rebuildPageOptions()
}

// rebuildHomeRows flattens the catalog into overview rows. While a search
// is active only groups containing hits remain, annotated with counts.
func (m *Model) rebuildHomeRows() {
	counts := search.CategoryCounts(m.matches)
	searchActive := m.controller.Query() != ""

	var rows []homeRow
	for _, service := range m.grouped.Services() {
		for _, category := range m.grouped.Categories(service) {
			count := counts[service][category]
			if searchActive && count == 0 {
				continue
			}
			rows = append(rows, homeRow{Service: service, Category: category, Count: count})
		}
	}
	m.homeRows = rows
	if m.homeIdx >= len(rows) {
		m.homeIdx = 0
	}
}

// rebuildPageOptions recomputes the current page's option list, applying
// the local filter when a query is active.
func (m *Model) rebuildPageOptions() {
	if m.controller.Page() != search.PageOptions {
		m.pageOptions = nil
		return
	}
	descriptors := m.grouped[m.controller.Service()][m.controller.Category()]
	m.pageOptions = search.FilterPage(descriptors, m.controller.Query())
	m.optIdx = 0
	m.highlight = ""
}

// focusOption scrolls the page to the named option and highlights it.
func (m *Model) focusOption(name string) {
	for i, d := range m.pageOptions {
		if d.Name == name {
			m.optIdx = i
			m.highlight = name
			m.scrollToSelection()
			return
		}
	}
}

// scrollToSelection keeps the focused row inside the window.
func (m *Model) scrollToSelection() {
	start, end := m.controller.Window(len(m.pageOptions))
	if m.optIdx < start {
		m.controller.ScrollWindow(m.optIdx-start, len(m.pageOptions))
	} else if m.optIdx >= end {
		m.controller.ScrollWindow(m.optIdx-end+1, len(m.pageOptions))
	}
}

func (m *Model) selectedControl() (*form.Control, bool) {
	if m.optIdx >= len(m.pageOptions) {
		return nil, false
	}
	d := m.pageOptions[m.optIdx]
	key := catalog.Key(m.controller.Service(), m.controller.Category(), d.Name)
	return m.deps.Engine.Control(key)
}
