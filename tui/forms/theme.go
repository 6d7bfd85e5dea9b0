package forms

import (
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/user/nla-timeline-cli/pkg/styles"
)

// Theme returns a huh theme in the timeline's palette.
func Theme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Base = t.Focused.Base.
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(styles.Amber).
		PaddingLeft(1)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(styles.Cyan).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(styles.Dim)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(styles.Pink).
		Bold(true)
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(styles.Pink)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(styles.Amber)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(styles.Border)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(styles.Amber)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(styles.Text)
	t.Focused.FocusedButton = lipgloss.NewStyle().
		Background(styles.Amber).
		Foreground(styles.Text).
		Bold(true).
		Padding(0, 1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Background(styles.Border).
		Foreground(styles.Dim).
		Padding(0, 1)
	t.Focused.Next = t.Focused.FocusedButton

	t.Blurred.Base = t.Blurred.Base.
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true).
		PaddingLeft(1)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(styles.Dim)
	t.Blurred.Description = lipgloss.NewStyle().
		Foreground(styles.Border)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().
		Foreground(styles.Dim)
	t.Blurred.FocusedButton = t.Focused.BlurredButton
	t.Blurred.BlurredButton = t.Focused.BlurredButton
	t.Blurred.Next = t.Blurred.FocusedButton

	return t
}
