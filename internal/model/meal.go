// Package model defines domain types for mealbook ledgers and summaries.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Slot is one of the two fixed daily meal purchase flags.
type Slot string

const (
	Breakfast Slot = "breakfast"
	Dinner    Slot = "dinner"
)

// Slots lists every meal slot in display order.
var Slots = []Slot{Breakfast, Dinner}

// ParseSlot accepts "breakfast", "dinner", or their first letter.
func ParseSlot(s string) (Slot, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "breakfast", "b":
		return Breakfast, nil
	case "dinner", "d":
		return Dinner, nil
	}
	return "", fmt.Errorf("unknown meal slot %q (want breakfast or dinner)", s)
}

// MealRecord is the persisted ledger row for one owner on one calendar day.
// An empty ID means the record has not been persisted yet.
type MealRecord struct {
	ID        string
	Date      time.Time
	Breakfast bool
	Dinner    bool
	Owner     string
}

// Persisted reports whether the store has assigned an ID.
func (r MealRecord) Persisted() bool {
	return r.ID != ""
}

// Has returns the flag for the given slot.
func (r MealRecord) Has(s Slot) bool {
	switch s {
	case Breakfast:
		return r.Breakfast
	case Dinner:
		return r.Dinner
	}
	return false
}

// With returns a copy of r with the slot set to v.
func (r MealRecord) With(s Slot, v bool) MealRecord {
	switch s {
	case Breakfast:
		r.Breakfast = v
	case Dinner:
		r.Dinner = v
	}
	return r
}

// Selected returns how many slots are marked on this day (0-2).
func (r MealRecord) Selected() int {
	n := 0
	if r.Breakfast {
		n++
	}
	if r.Dinner {
		n++
	}
	return n
}

// Patch is a partial row update. Nil fields are left untouched.
type Patch struct {
	Breakfast *bool
	Dinner    *bool
}

// SlotPatch builds a patch that sets only the given slot.
func SlotPatch(s Slot, v bool) Patch {
	switch s {
	case Breakfast:
		return Patch{Breakfast: &v}
	case Dinner:
		return Patch{Dinner: &v}
	}
	return Patch{}
}

// ClearPatch sets both slots to false in a single update.
func ClearPatch() Patch {
	b, d := false, false
	return Patch{Breakfast: &b, Dinner: &d}
}

// Empty reports whether the patch changes nothing.
func (p Patch) Empty() bool {
	return p.Breakfast == nil && p.Dinner == nil
}

// Apply returns r with the patch fields applied.
func (p Patch) Apply(r MealRecord) MealRecord {
	if p.Breakfast != nil {
		r.Breakfast = *p.Breakfast
	}
	if p.Dinner != nil {
		r.Dinner = *p.Dinner
	}
	return r
}
