package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Summary holds meal counts and budget tracking for a ledger view.
type Summary struct {
	Days           int
	SelectedCount  int
	BreakfastCount int
	DinnerCount    int

	MealPrice decimal.Decimal
	Budget    decimal.Decimal
	TotalCost decimal.Decimal
	Remaining decimal.Decimal
}

// OverBudget reports whether spending exceeds the budget.
func (s Summary) OverBudget() bool {
	return s.Remaining.IsNegative()
}

// UsedFraction returns TotalCost/Budget, unclamped. Zero budget yields 0
// when nothing is spent and 1 otherwise.
func (s Summary) UsedFraction() float64 {
	if s.Budget.IsZero() {
		if s.TotalCost.IsZero() {
			return 0
		}
		return 1
	}
	f, _ := s.TotalCost.Div(s.Budget).Float64()
	return f
}

// DaySummary is the per-row view of a single ledger day.
type DaySummary struct {
	Date      time.Time
	Breakfast bool
	Dinner    bool
	Count     int
	Cost      decimal.Decimal
}
