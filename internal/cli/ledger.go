package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/mealbook/internal/model"
)

// LedgerTable builds the per-day table for a ledger view.
func LedgerTable(days []model.DaySummary, symbol string) Table {
	t := Table{
		Headers:  []string{"Date", "Day", "Breakfast", "Dinner", "Cost"},
		LeftCols: 2,
	}
	for _, d := range days {
		t.Rows = append(t.Rows, []string{
			model.FormatDate(d.Date),
			FormatDayOfWeek(d.Date),
			FormatMark(d.Breakfast),
			FormatMark(d.Dinner),
			FormatMoney(d.Cost, symbol),
		})
	}
	return t
}

// RenderSummary renders the budget summary block.
func RenderSummary(s model.Summary, symbol string) string {
	var b strings.Builder

	line := func(label, value string) {
		fmt.Fprintf(&b, "  %s %s\n", mutedStyle.Render(fmt.Sprintf("%-12s", label)), value)
	}

	line("Days", valueStyle.Render(FormatNumber(int64(s.Days))))
	line("Meals", valueStyle.Render(fmt.Sprintf("%d  (%d breakfast, %d dinner)",
		s.SelectedCount, s.BreakfastCount, s.DinnerCount)))
	line("Meal price", valueStyle.Render(FormatMoney(s.MealPrice, symbol)))
	line("Spent", valueStyle.Render(FormatMoney(s.TotalCost, symbol)))
	line("Budget", valueStyle.Render(FormatMoney(s.Budget, symbol)))

	remaining := FormatMoney(s.Remaining, symbol)
	switch {
	case s.OverBudget():
		line("Remaining", overStyle.Render(remaining+"  over budget"))
	case s.Remaining.LessThan(s.MealPrice.Mul(decimal.NewFromInt(2))):
		line("Remaining", warnStyle.Render(remaining))
	default:
		line("Remaining", goodStyle.Render(remaining))
	}
	b.WriteString("\n  ")
	b.WriteString(RenderBudgetBar(s.UsedFraction(), 30))
	b.WriteString("\n")

	return b.String()
}
