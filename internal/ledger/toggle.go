package ledger

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/theirongolddev/mealbook/internal/model"
)

// Pending is an optimistic toggle: the speculative record a UI can show
// immediately, and the original it must restore if the store rejects it.
type Pending struct {
	Original    model.MealRecord
	Speculative model.MealRecord
	Slot        model.Slot
}

// Begin flips slot on a local copy of rec without touching the store.
func Begin(rec model.MealRecord, slot model.Slot) Pending {
	return Pending{
		Original:    rec,
		Speculative: rec.With(slot, !rec.Has(slot)),
		Slot:        slot,
	}
}

// Rollback returns the record as it was before the toggle.
func (p Pending) Rollback() model.MealRecord {
	return p.Original
}

// Commit persists a pending toggle. A record without an id is inserted
// carrying both flags and adopts the store-assigned id, unless a row for
// that day already exists, in which case the row is adopted and updated.
// Otherwise only the toggled slot is updated. Commits for the same
// (owner, date) are serialized so a concurrent toggle of the sibling slot is
// never reverted.
func (s *Service) Commit(ctx context.Context, p Pending) (model.MealRecord, error) {
	rec := p.Speculative
	if rec.Owner == "" {
		return p.Original, ErrUnauthenticated
	}
	if p.Slot != model.Breakfast && p.Slot != model.Dinner {
		return p.Original, wrap(ErrUpdateFailed, errUnknownSlot(p.Slot))
	}
	rec.Date = model.Day(rec.Date)

	unlock := s.locks.lock(rec.Owner, rec.Date)
	defer unlock()

	if !rec.Persisted() {
		day := model.NewRange(rec.Date, rec.Date)
		rows, err := s.store.Select(ctx, rec.Owner, &day)
		if err != nil {
			return p.Original, wrap(ErrUpdateFailed, wrap(ErrFetchFailed, err))
		}
		if len(rows) > 0 {
			// Another toggle saved this day while we waited for the lock.
			saved := rows[0].With(p.Slot, rec.Has(p.Slot))
			saved.Date = rec.Date
			if err := s.store.Update(ctx, rec.Owner, saved.ID, model.SlotPatch(p.Slot, saved.Has(p.Slot))); err != nil {
				return p.Original, wrap(ErrUpdateFailed, err)
			}
			s.log.Debug("toggled meal slot on existing row",
				zap.String("owner", rec.Owner),
				zap.String("date", model.FormatDate(rec.Date)),
				zap.String("slot", string(p.Slot)),
				zap.String("id", saved.ID),
			)
			return saved, nil
		}

		ids, err := s.store.Insert(ctx, []model.MealRecord{rec})
		if err != nil {
			return p.Original, wrap(ErrUpdateFailed, wrap(ErrInsertFailed, err))
		}
		if len(ids) != 1 || ids[0] == "" {
			return p.Original, wrap(ErrUpdateFailed, ErrInsertFailed)
		}
		rec.ID = ids[0]
		s.log.Debug("inserted ledger row on toggle",
			zap.String("owner", rec.Owner),
			zap.String("date", model.FormatDate(rec.Date)),
			zap.String("slot", string(p.Slot)),
			zap.String("id", rec.ID),
		)
		return rec, nil
	}

	if err := s.store.Update(ctx, rec.Owner, rec.ID, model.SlotPatch(p.Slot, rec.Has(p.Slot))); err != nil {
		return p.Original, wrap(ErrUpdateFailed, err)
	}
	s.log.Debug("toggled meal slot",
		zap.String("owner", rec.Owner),
		zap.String("date", model.FormatDate(rec.Date)),
		zap.String("slot", string(p.Slot)),
		zap.Bool("value", rec.Has(p.Slot)),
	)
	return rec, nil
}

// Toggle flips one slot on one day and persists it.
func (s *Service) Toggle(ctx context.Context, rec model.MealRecord, slot model.Slot) (model.MealRecord, error) {
	return s.Commit(ctx, Begin(rec, slot))
}

func errUnknownSlot(slot model.Slot) error {
	return fmt.Errorf("unknown meal slot %q", slot)
}
