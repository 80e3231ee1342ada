package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/mealbook/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar. A non-empty errMsg
// replaces the right-hand info in the theme's red.
func RenderStatusBar(width int, info, errMsg string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	left := " [?]help  [b/d]toggle  [[/]]range  [q]uit"
	right := info + " "
	if errMsg != "" {
		right = lipgloss.NewStyle().Foreground(t.Red).Render(errMsg) + " "
	}

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	return style.Render(left + lipgloss.NewStyle().Width(padding).Render("") + right)
}
