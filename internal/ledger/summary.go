package ledger

import (
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/mealbook/internal/model"
)

// Summarize computes meal counts, cost, and budget remaining for rows.
// It is order independent. A negative Remaining means over budget.
func Summarize(rows []model.MealRecord, mealPrice, budget decimal.Decimal) model.Summary {
	s := model.Summary{
		Days:      len(rows),
		MealPrice: mealPrice,
		Budget:    budget,
	}
	for _, r := range rows {
		if r.Breakfast {
			s.BreakfastCount++
		}
		if r.Dinner {
			s.DinnerCount++
		}
	}
	s.SelectedCount = s.BreakfastCount + s.DinnerCount
	s.TotalCost = mealPrice.Mul(decimal.NewFromInt(int64(s.SelectedCount)))
	s.Remaining = budget.Sub(s.TotalCost)
	return s
}

// SummarizeDay computes the per-row summary for one ledger day.
func SummarizeDay(r model.MealRecord, mealPrice decimal.Decimal) model.DaySummary {
	n := r.Selected()
	return model.DaySummary{
		Date:      r.Date,
		Breakfast: r.Breakfast,
		Dinner:    r.Dinner,
		Count:     n,
		Cost:      mealPrice.Mul(decimal.NewFromInt(int64(n))),
	}
}

// SummarizeDays returns SummarizeDay for every row, in input order.
func SummarizeDays(rows []model.MealRecord, mealPrice decimal.Decimal) []model.DaySummary {
	out := make([]model.DaySummary, len(rows))
	for i, r := range rows {
		out[i] = SummarizeDay(r, mealPrice)
	}
	return out
}
