package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/rcpilot/rcpilot/internal/catalog"
)

// toggleHelp renders the focused option's help text into the help pane.
// The engine ships help as markdown, so it goes through glamour.
func (m *Model) toggleHelp() {
	if m.showHelp {
		m.showHelp = false
		return
	}
	d, ok := m.selectedDescriptor()
	if !ok {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.Name)
	if d.Help != "" {
		b.WriteString(d.Help)
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n- Type: `%s`\n- Default: `%s`\n", d.Type, d.DefaultStr)
	if d.Required {
		b.WriteString("- Required\n")
	}
	if len(d.Examples) > 0 {
		b.WriteString("\nAllowed values:\n\n")
		for _, ex := range d.Examples {
			fmt.Fprintf(&b, "- `%s` %s\n", ex.Value, ex.Help)
		}
	}

	width := m.width - 4
	if width < 40 {
		width = 40
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		m.helpText = b.String()
		m.showHelp = true
		return
	}
	rendered, err := renderer.Render(b.String())
	if err != nil {
		rendered = b.String()
	}

	m.helpText = rendered
	m.showHelp = true
}

func (m *Model) selectedDescriptor() (catalog.OptionDescriptor, bool) {
	if m.optIdx >= len(m.pageOptions) {
		return catalog.OptionDescriptor{}, false
	}
	return m.pageOptions[m.optIdx], true
}
