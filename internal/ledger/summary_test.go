package ledger

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/mealbook/internal/model"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, dec("40"), dec("1000"))

	if s.SelectedCount != 0 {
		t.Errorf("SelectedCount = %d, want 0", s.SelectedCount)
	}
	if !s.TotalCost.IsZero() {
		t.Errorf("TotalCost = %s, want 0", s.TotalCost)
	}
	if !s.Remaining.Equal(dec("1000")) {
		t.Errorf("Remaining = %s, want 1000", s.Remaining)
	}
	if s.OverBudget() {
		t.Error("OverBudget() = true for empty ledger")
	}
}

func TestSummarize_OverBudgetIsNotAnError(t *testing.T) {
	start := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]model.MealRecord, 20)
	for i := range rows {
		rows[i] = model.MealRecord{Date: start.AddDate(0, 0, i), Breakfast: true, Dinner: true}
	}

	s := Summarize(rows, dec("40"), dec("1000"))

	if s.SelectedCount != 40 {
		t.Errorf("SelectedCount = %d, want 40", s.SelectedCount)
	}
	if !s.TotalCost.Equal(dec("1600")) {
		t.Errorf("TotalCost = %s, want 1600", s.TotalCost)
	}
	if !s.Remaining.Equal(dec("-600")) {
		t.Errorf("Remaining = %s, want -600", s.Remaining)
	}
	if !s.OverBudget() {
		t.Error("OverBudget() = false, want true")
	}
	if got := s.UsedFraction(); got != 1.6 {
		t.Errorf("UsedFraction() = %v, want 1.6", got)
	}
}

func TestSummarize_OrderIndependent(t *testing.T) {
	day := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	rows := []model.MealRecord{
		{Date: day, Breakfast: true},
		{Date: day.AddDate(0, 0, 1), Dinner: true},
		{Date: day.AddDate(0, 0, 2)},
		{Date: day.AddDate(0, 0, 3), Breakfast: true, Dinner: true},
	}
	reversed := make([]model.MealRecord, len(rows))
	for i, r := range rows {
		reversed[len(rows)-1-i] = r
	}
	rotated := append(append([]model.MealRecord{}, rows[2:]...), rows[:2]...)

	want := Summarize(rows, dec("12.50"), dec("100"))
	for name, perm := range map[string][]model.MealRecord{"reversed": reversed, "rotated": rotated} {
		got := Summarize(perm, dec("12.50"), dec("100"))
		if got.SelectedCount != want.SelectedCount ||
			!got.TotalCost.Equal(want.TotalCost) ||
			!got.Remaining.Equal(want.Remaining) {
			t.Errorf("%s: got %+v, want %+v", name, got, want)
		}
	}
	if want.BreakfastCount != 2 || want.DinnerCount != 2 {
		t.Errorf("slot counts = %d/%d, want 2/2", want.BreakfastCount, want.DinnerCount)
	}
	if !want.TotalCost.Equal(dec("50")) || !want.Remaining.Equal(dec("50")) {
		t.Errorf("cost/remaining = %s/%s, want 50/50", want.TotalCost, want.Remaining)
	}
}

func TestSummarizeDay(t *testing.T) {
	day := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	ds := SummarizeDay(model.MealRecord{Date: day, Dinner: true}, dec("40"))
	if ds.Count != 1 || !ds.Cost.Equal(dec("40")) {
		t.Fatalf("day summary = %+v, want 1 meal costing 40", ds)
	}

	all := SummarizeDays([]model.MealRecord{
		{Date: day, Breakfast: true, Dinner: true},
		{Date: day.AddDate(0, 0, 1)},
	}, dec("40"))
	if len(all) != 2 || !all[0].Cost.Equal(dec("80")) || !all[1].Cost.IsZero() {
		t.Fatalf("SummarizeDays = %+v", all)
	}
}

func TestSummary_UsedFractionZeroBudget(t *testing.T) {
	if got := Summarize(nil, dec("40"), decimal.Zero).UsedFraction(); got != 0 {
		t.Errorf("empty, zero budget: UsedFraction = %v, want 0", got)
	}
	rows := []model.MealRecord{{Breakfast: true}}
	if got := Summarize(rows, dec("40"), decimal.Zero).UsedFraction(); got != 1 {
		t.Errorf("spent, zero budget: UsedFraction = %v, want 1", got)
	}
}
