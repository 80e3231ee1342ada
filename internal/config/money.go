package config

import (
	"github.com/shopspring/decimal"
)

// MealPrice returns the configured per-meal price as a decimal.
func (m MealsConfig) MealPrice() decimal.Decimal {
	return decimal.NewFromFloat(m.Price)
}

// BudgetAmount returns the configured budget as a decimal.
func (m MealsConfig) BudgetAmount() decimal.Decimal {
	return decimal.NewFromFloat(m.Budget)
}

// Symbol returns the currency prefix, "$" when unset.
func (m MealsConfig) Symbol() string {
	if m.Currency == "" {
		return "$"
	}
	return m.Currency
}
