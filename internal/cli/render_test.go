package cli

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/mealbook/internal/model"
)

func TestLedgerTable(t *testing.T) {
	day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	tbl := LedgerTable([]model.DaySummary{
		{Date: day, Breakfast: true, Count: 1, Cost: decimal.NewFromInt(40)},
		{Date: day.AddDate(0, 0, 1)},
	}, "$")

	if len(tbl.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(tbl.Rows))
	}
	want := []string{"2024-03-04", "Mon", "✓", "·", "$40.00"}
	for i, cell := range tbl.Rows[0] {
		if cell != want[i] {
			t.Errorf("row[0][%d] = %q, want %q", i, cell, want[i])
		}
	}

	out := RenderTable(tbl)
	if !strings.Contains(out, "2024-03-05") || !strings.Contains(out, "Breakfast") {
		t.Fatalf("rendered table missing content:\n%s", out)
	}
}

func TestRenderSummary_OverBudget(t *testing.T) {
	s := model.Summary{
		Days:          20,
		SelectedCount: 40,
		MealPrice:     decimal.NewFromInt(40),
		Budget:        decimal.NewFromInt(1000),
		TotalCost:     decimal.NewFromInt(1600),
		Remaining:     decimal.NewFromInt(-600),
	}
	out := RenderSummary(s, "$")
	for _, want := range []string{"-$600.00", "over budget", "$1,600.00", "160.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}

func TestRenderBudgetBar(t *testing.T) {
	if RenderBudgetBar(0.5, 0) != "" {
		t.Error("zero width should render nothing")
	}
	out := RenderBudgetBar(2, 10)
	if strings.Count(out, "█") != 10 {
		t.Errorf("over-budget bar not clamped to width: %q", out)
	}
}
