// Package ledger implements range reconciliation, meal toggles, resets, and
// budget aggregation on top of an abstract row store.
package ledger

import (
	"context"

	"github.com/theirongolddev/mealbook/internal/model"
)

// Store is the row-oriented persistence service holding one row per
// (owner, date). Every operation is scoped to an owner. Range filters are
// inclusive on both ends; a nil range means all of the owner's rows.
type Store interface {
	// Select returns the owner's rows ordered by date, then id.
	Select(ctx context.Context, owner string, r *model.Range) ([]model.MealRecord, error)
	// Insert persists rows and returns the assigned ids in input order.
	Insert(ctx context.Context, rows []model.MealRecord) ([]string, error)
	// Update applies a partial update to one row by id.
	Update(ctx context.Context, owner, id string, p model.Patch) error
	// Delete removes the owner's rows within r.
	Delete(ctx context.Context, owner string, r *model.Range) error
}

// Identity supplies the current authenticated user.
type Identity interface {
	CurrentUser(ctx context.Context) (string, error)
}

// StaticIdentity is an Identity for a fixed, locally configured user.
type StaticIdentity string

// CurrentUser returns the configured user or ErrUnauthenticated when empty.
func (s StaticIdentity) CurrentUser(context.Context) (string, error) {
	if s == "" {
		return "", ErrUnauthenticated
	}
	return string(s), nil
}
