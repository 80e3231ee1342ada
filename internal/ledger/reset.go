package ledger

import (
	"context"

	"go.uber.org/zap"

	"github.com/theirongolddev/mealbook/internal/model"
)

// Reset clears both meal flags on every row of owner within r, leaving the
// rows, their ids, and dates in place. Each row is cleared by a single
// update so no row is left with one flag cleared and the other not. On a
// failure the rows already cleared stay cleared and the error is returned.
func (s *Service) Reset(ctx context.Context, owner string, r *model.Range) error {
	if err := checkRange(r); err != nil {
		return err
	}
	if owner == "" {
		return ErrUnauthenticated
	}
	rng := model.NewRange(r.Start, r.End)

	rows, err := s.store.Select(ctx, owner, &rng)
	if err != nil {
		return wrap(ErrFetchFailed, err)
	}

	cleared := 0
	for _, row := range rows {
		if row.Selected() == 0 {
			continue
		}
		if err := s.clearRow(ctx, row); err != nil {
			return err
		}
		cleared++
	}

	s.log.Debug("reset ledger range",
		zap.String("owner", owner),
		zap.Stringer("range", rng),
		zap.Int("cleared", cleared),
	)
	return nil
}

func (s *Service) clearRow(ctx context.Context, row model.MealRecord) error {
	unlock := s.locks.lock(row.Owner, row.Date)
	defer unlock()

	if err := s.store.Update(ctx, row.Owner, row.ID, model.ClearPatch()); err != nil {
		return wrap(ErrUpdateFailed, err)
	}
	return nil
}

// Forget deletes owner's rows within r, or all of them when r is nil.
func (s *Service) Forget(ctx context.Context, owner string, r *model.Range) error {
	if owner == "" {
		return ErrUnauthenticated
	}
	var rng *model.Range
	if r != nil {
		if err := checkRange(r); err != nil {
			return err
		}
		nr := model.NewRange(r.Start, r.End)
		rng = &nr
	}
	if err := s.store.Delete(ctx, owner, rng); err != nil {
		return wrap(ErrDeleteFailed, err)
	}
	s.log.Debug("deleted ledger rows", zap.String("owner", owner), zap.Bool("all", rng == nil))
	return nil
}
