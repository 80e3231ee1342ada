package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/mealbook/internal/tui/theme"
)

// ColorForUsage returns green/yellow/orange/red for a budget used fraction.
func ColorForUsage(used float64) string {
	t := theme.Active
	switch {
	case used > 1:
		return string(t.Red)
	case used >= 0.9:
		return string(t.Orange)
	case used >= 0.7:
		return string(t.Yellow)
	default:
		return string(t.Green)
	}
}

// BudgetBar renders a labeled budget bar. used is spent/budget and may
// exceed 1; the bar is clamped but the percentage is not.
func BudgetBar(label string, used float64, labelW, barWidth int) string {
	t := theme.Active

	fill := used
	if fill < 0 {
		fill = 0
	}
	if fill > 1 {
		fill = 1
	}

	bar := progress.New(
		progress.WithSolidFill(ColorForUsage(used)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted)
	pctStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(ColorForUsage(used))).Bold(true)

	return labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) + " " +
		bar.ViewAs(fill) + " " +
		pctStyle.Render(fmt.Sprintf("%3.0f%%", used*100))
}
