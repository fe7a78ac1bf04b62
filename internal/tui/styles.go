package tui

import "github.com/charmbracelet/lipgloss"

var (
	// HeaderStyle is the style for the panel header.
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary).
			Padding(0, 1).
			MarginBottom(1)

	// FooterStyle is the style for the key hints line.
	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			MarginTop(1)

	// BoxStyle is the style for bordered containers.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1)

	// RowStyle is the style for list rows.
	RowStyle = lipgloss.NewStyle().
			Foreground(ColorText).
			PaddingLeft(2)

	// SelectedRowStyle is the style for the focused row.
	SelectedRowStyle = lipgloss.NewStyle().
				Foreground(ColorText).
				Background(ColorHighlight).
				Bold(true).
				PaddingLeft(2)

	// HighlightRowStyle marks a row reached via search navigation.
	HighlightRowStyle = lipgloss.NewStyle().
				Foreground(ColorAccent).
				Bold(true).
				PaddingLeft(2)

	// DirtyStyle marks an uncommitted value.
	DirtyStyle = lipgloss.NewStyle().
			Foreground(ColorWarning)

	// PendingStyle marks a value mid-save.
	PendingStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Italic(true)

	// IssueStyle renders an inline validation message.
	IssueStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	// ToastSuccessStyle renders a success notification.
	ToastSuccessStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess).
				Bold(true)

	// ToastErrorStyle renders an error notification.
	ToastErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError).
			Bold(true)

	// MutedStyle renders secondary text.
	MutedStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)
)
