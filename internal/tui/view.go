package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rcpilot/rcpilot/internal/catalog"
	"github.com/rcpilot/rcpilot/internal/search"
)

// View renders the panel.
func (m Model) View() string {
	if !m.ready {
		return "Starting..."
	}

	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n")

	switch {
	case m.confirming:
		b.WriteString(m.viewConfirm())
	case m.showHelp:
		b.WriteString(m.helpText)
	case m.loading:
		b.WriteString(MutedStyle.Render("Loading configuration..."))
	case m.loadErr != nil:
		b.WriteString(IssueStyle.Render("Could not load configuration."))
		b.WriteString("\n")
		b.WriteString(MutedStyle.Render("Press R to retry."))
	case m.controller.Page() == search.PageHome:
		b.WriteString(m.viewHome())
	default:
		b.WriteString(m.viewOptions())
	}

	b.WriteString("\n")
	b.WriteString(m.viewFooter())
	return b.String()
}

func (m Model) viewHeader() string {
	title := "rcpilot settings"
	if m.controller.Page() == search.PageOptions {
		title = fmt.Sprintf("%s / %s", m.controller.Service(), m.controller.Category())
	}

	status := MutedStyle.Render("daemon: unreachable")
	if m.statusOK {
		status = MutedStyle.Render(fmt.Sprintf("daemon: %s  transfers: %d  errors: %d",
			m.status.Version.Version, m.status.Stats.Transfers, m.status.Stats.Errors))
	}

	header := HeaderStyle.Render(title) + "  " + status
	if m.searching || m.controller.Query() != "" {
		header += "\n" + m.searchInput.View()
	}
	if m.toast != "" {
		style := ToastSuccessStyle
		if m.toastLevel == "error" {
			style = ToastErrorStyle
		}
		header += "\n" + style.Render(m.toast)
	}
	return header
}

func (m Model) viewHome() string {
	if m.controller.Query() != "" && len(m.matches) > 0 {
		return m.viewMatches()
	}
	if len(m.homeRows) == 0 {
		if m.controller.Query() != "" {
			return MutedStyle.Render("No options match.")
		}
		return MutedStyle.Render("No services reported.")
	}

	var b strings.Builder
	lastService := ""
	for i, row := range m.homeRows {
		if row.Service != lastService {
			b.WriteString(HeaderStyle.Render(row.Service))
			b.WriteString("\n")
			lastService = row.Service
		}
		label := row.Category
		if row.Count > 0 {
			label = fmt.Sprintf("%s (%d)", row.Category, row.Count)
		}
		style := RowStyle
		if i == m.homeIdx {
			style = SelectedRowStyle
		}
		b.WriteString(style.Render(label))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewMatches() string {
	var b strings.Builder
	b.WriteString(MutedStyle.Render(fmt.Sprintf("%d matches", len(m.matches))))
	b.WriteString("\n")
	for i, match := range m.matches {
		style := RowStyle
		if i == m.matchIdx {
			style = SelectedRowStyle
		}
		line := fmt.Sprintf("%s / %s / %s", match.Service, match.Category, match.Option.Name)
		b.WriteString(style.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewOptions() string {
	if len(m.pageOptions) == 0 {
		if m.controller.Query() != "" {
			return MutedStyle.Render("No options match.")
		}
		return MutedStyle.Render("No options in this category.")
	}

	start, end := m.controller.Window(len(m.pageOptions))

	var b strings.Builder
	for i := start; i < end; i++ {
		d := m.pageOptions[i]
		b.WriteString(m.viewOptionRow(i, d))
		b.WriteString("\n")
	}
	if end < len(m.pageOptions) {
		b.WriteString(MutedStyle.Render(fmt.Sprintf("  ... %d more", len(m.pageOptions)-end)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewOptionRow(i int, d catalog.OptionDescriptor) string {
	key := catalog.Key(m.controller.Service(), m.controller.Category(), d.Name)
	ctl, ok := m.deps.Engine.Control(key)

	value := ""
	var badges []string
	if ok {
		value = ctl.Value().Raw()
		if d.Sensitive || d.IsPassword {
			value = strings.Repeat("*", 8)
		}
		if m.deps.Engine.Pending(key) {
			badges = append(badges, PendingStyle.Render("saving"))
		} else if ctl.Dirty() {
			badges = append(badges, DirtyStyle.Render("modified"))
		}
		if issue := ctl.Issue(); issue != nil {
			badges = append(badges, IssueStyle.Render(issue.Message))
		}
	}

	line := fmt.Sprintf("%-28s %s", d.Name, value)
	if len(badges) > 0 {
		line += "  " + strings.Join(badges, " ")
	}

	style := RowStyle
	switch {
	case i == m.optIdx && m.editing:
		return SelectedRowStyle.Render(fmt.Sprintf("%-28s ", d.Name)) + m.editInput.View()
	case i == m.optIdx:
		style = SelectedRowStyle
	case d.Name == m.highlight:
		style = HighlightRowStyle
	}
	return style.Render(line)
}

func (m Model) viewConfirm() string {
	body := lipgloss.JoinVertical(lipgloss.Left,
		HeaderStyle.Render("Reset configuration"),
		"Delete all stored overrides and restore engine defaults?",
		"",
		MutedStyle.Render("y: confirm    n: cancel"),
	)
	return BoxStyle.Render(body)
}

func (m Model) viewFooter() string {
	var hints []string
	switch {
	case m.editing:
		hints = []string{"enter: save", "esc: cancel"}
	case m.searching:
		hints = []string{"enter: done", "esc: clear"}
	case m.controller.Page() == search.PageHome:
		hints = []string{"enter: open", "/: search", "R: reload", "r: reset all", "q: quit"}
	default:
		hints = []string{"enter: edit", "space: toggle", "d: default", "c: copy", "?: help", "esc: back"}
	}
	return FooterStyle.Render(strings.Join(hints, "    "))
}
