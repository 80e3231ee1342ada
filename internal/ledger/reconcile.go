package ledger

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/theirongolddev/mealbook/internal/model"
)

// Reconcile guarantees one row per calendar day in r for owner, inserting
// missing days with both flags false, and returns the rows sorted by date.
// A day inserted concurrently by another writer surfaces as ErrConflict from
// the store's (owner, date) uniqueness. On failure no partial view is returned.
func (s *Service) Reconcile(ctx context.Context, owner string, r *model.Range) ([]model.MealRecord, error) {
	if err := checkRange(r); err != nil {
		return nil, err
	}
	if owner == "" {
		return nil, ErrUnauthenticated
	}
	rng := model.NewRange(r.Start, r.End)

	existing, err := s.store.Select(ctx, owner, &rng)
	if err != nil {
		return nil, wrap(ErrFetchFailed, err)
	}

	if missing := missingDays(rng, existing); len(missing) > 0 {
		rows := make([]model.MealRecord, len(missing))
		for i, day := range missing {
			rows[i] = model.MealRecord{Owner: owner, Date: day}
		}
		if _, err := s.store.Insert(ctx, rows); err != nil {
			return nil, wrap(ErrInsertFailed, err)
		}
		s.log.Debug("inserted missing ledger days",
			zap.String("owner", owner),
			zap.Stringer("range", rng),
			zap.Int("inserted", len(rows)),
		)

		existing, err = s.store.Select(ctx, owner, &rng)
		if err != nil {
			return nil, wrap(ErrFetchFailed, err)
		}
	}

	view, dupes := buildView(rng, existing)
	if dupes > 0 {
		s.log.Warn("duplicate ledger rows in range, keeping first per day",
			zap.String("owner", owner),
			zap.Stringer("range", rng),
			zap.Int("duplicates", dupes),
		)
	}
	if len(view) != rng.Len() {
		return nil, wrap(ErrFetchFailed,
			fmt.Errorf("store returned %d of %d days for %s", len(view), rng.Len(), rng))
	}
	return view, nil
}

func checkRange(r *model.Range) error {
	if r == nil || r.Start.IsZero() || r.End.IsZero() || !r.Valid() {
		return ErrInvalidRange
	}
	if r.TooLong() {
		return fmt.Errorf("%w: %s spans %d days, max %d", ErrInvalidRange, r, r.Len(), model.MaxRangeDays)
	}
	return nil
}

// missingDays lists the days in rng without a row in rows.
func missingDays(rng model.Range, rows []model.MealRecord) []time.Time {
	have := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		have[model.FormatDate(row.Date)] = struct{}{}
	}
	var missing []time.Time
	for _, day := range model.Days(rng) {
		if _, ok := have[model.FormatDate(day)]; !ok {
			missing = append(missing, day)
		}
	}
	return missing
}

// buildView keeps the first row per day inside rng, in store order, and
// sorts the result ascending by date. It returns the number of dropped
// duplicates.
func buildView(rng model.Range, rows []model.MealRecord) ([]model.MealRecord, int) {
	seen := make(map[string]struct{}, len(rows))
	view := make([]model.MealRecord, 0, rng.Len())
	dupes := 0
	for _, row := range rows {
		if !rng.Contains(row.Date) {
			continue
		}
		key := model.FormatDate(row.Date)
		if _, ok := seen[key]; ok {
			dupes++
			continue
		}
		seen[key] = struct{}{}
		row.Date = model.Day(row.Date)
		view = append(view, row)
	}
	sort.SliceStable(view, func(i, j int) bool {
		return view[i].Date.Before(view[j].Date)
	})
	return view, dupes
}
