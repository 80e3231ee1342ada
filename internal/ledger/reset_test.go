package ledger

import (
	"context"
	"errors"
	"testing"

	"github.com/theirongolddev/mealbook/internal/model"
)

func TestReset_ClearsFlagsAndKeepsRows(t *testing.T) {
	store := newMemStore(
		model.MealRecord{ID: "r1", Owner: "alice", Date: mustDate(t, "2024-01-01"), Breakfast: true, Dinner: true},
		model.MealRecord{ID: "r2", Owner: "alice", Date: mustDate(t, "2024-01-02"), Dinner: true},
		model.MealRecord{ID: "r3", Owner: "alice", Date: mustDate(t, "2024-01-03")},
		model.MealRecord{ID: "out", Owner: "alice", Date: mustDate(t, "2024-01-04"), Breakfast: true},
		model.MealRecord{ID: "bob", Owner: "bob", Date: mustDate(t, "2024-01-02"), Breakfast: true},
	)
	svc := NewService(store)

	if err := svc.Reset(context.Background(), "alice", mustRange(t, "2024-01-01", "2024-01-03")); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	for _, id := range []string{"r1", "r2", "r3"} {
		row, ok := store.byID(id)
		if !ok {
			t.Fatalf("row %s deleted, want kept", id)
		}
		if row.Breakfast || row.Dinner {
			t.Errorf("row %s = %+v, want both flags false", id, row)
		}
	}
	if row, _ := store.byID("r1"); model.FormatDate(row.Date) != "2024-01-01" {
		t.Errorf("r1 date changed to %s", model.FormatDate(row.Date))
	}
	if row, _ := store.byID("out"); !row.Breakfast {
		t.Error("row outside range was cleared")
	}
	if row, _ := store.byID("bob"); !row.Breakfast {
		t.Error("another owner's row was cleared")
	}
	// r3 had nothing to clear.
	if store.updates != 2 {
		t.Errorf("updates = %d, want 2", store.updates)
	}
}

func TestReset_PartialFailureLeavesWholeRows(t *testing.T) {
	store := newMemStore(
		model.MealRecord{ID: "r1", Owner: "alice", Date: mustDate(t, "2024-01-01"), Breakfast: true, Dinner: true},
		model.MealRecord{ID: "r2", Owner: "alice", Date: mustDate(t, "2024-01-02"), Breakfast: true, Dinner: true},
	)
	store.failUpdateAfter = 1
	svc := NewService(store)

	err := svc.Reset(context.Background(), "alice", mustRange(t, "2024-01-01", "2024-01-02"))
	if !errors.Is(err, ErrUpdateFailed) {
		t.Fatalf("err = %v, want ErrUpdateFailed", err)
	}

	r1, _ := store.byID("r1")
	r2, _ := store.byID("r2")
	if r1.Breakfast || r1.Dinner {
		t.Errorf("r1 = %+v, want fully cleared", r1)
	}
	if !r2.Breakfast || !r2.Dinner {
		t.Errorf("r2 = %+v, want fully untouched", r2)
	}
}

func TestReset_InvalidRange(t *testing.T) {
	store := newMemStore()
	err := NewService(store).Reset(context.Background(), "alice", mustRange(t, "2024-01-02", "2024-01-01"))
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
	if store.selects != 0 {
		t.Fatalf("selects = %d, want 0", store.selects)
	}
}

func TestReset_FetchFailure(t *testing.T) {
	store := newMemStore()
	store.selectErr = ErrStoreUnavailable
	err := NewService(store).Reset(context.Background(), "alice", mustRange(t, "2024-01-01", "2024-01-02"))
	if !errors.Is(err, ErrFetchFailed) {
		t.Fatalf("err = %v, want ErrFetchFailed", err)
	}
}

func TestForget(t *testing.T) {
	store := newMemStore(
		model.MealRecord{Owner: "alice", Date: mustDate(t, "2024-01-01")},
		model.MealRecord{Owner: "alice", Date: mustDate(t, "2024-01-05")},
		model.MealRecord{Owner: "bob", Date: mustDate(t, "2024-01-01")},
	)
	svc := NewService(store)

	if err := svc.Forget(context.Background(), "alice", mustRange(t, "2024-01-01", "2024-01-02")); err != nil {
		t.Fatalf("Forget range: %v", err)
	}
	rows, _ := store.Select(context.Background(), "alice", nil)
	if len(rows) != 1 || model.FormatDate(rows[0].Date) != "2024-01-05" {
		t.Fatalf("alice rows after ranged forget = %+v", rows)
	}

	if err := svc.Forget(context.Background(), "alice", nil); err != nil {
		t.Fatalf("Forget all: %v", err)
	}
	rows, _ = store.Select(context.Background(), "alice", nil)
	if len(rows) != 0 {
		t.Fatalf("alice rows = %d, want 0", len(rows))
	}
	rows, _ = store.Select(context.Background(), "bob", nil)
	if len(rows) != 1 {
		t.Fatalf("bob rows = %d, want 1", len(rows))
	}

	store.deleteErr = ErrStoreUnavailable
	if err := svc.Forget(context.Background(), "alice", nil); !errors.Is(err, ErrDeleteFailed) {
		t.Fatalf("err = %v, want ErrDeleteFailed", err)
	}
}

func TestService_CurrentUser(t *testing.T) {
	if _, err := NewService(newMemStore()).CurrentUser(context.Background()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("no identity: err = %v, want ErrUnauthenticated", err)
	}
	if _, err := NewService(newMemStore(), WithIdentity(StaticIdentity(""))).CurrentUser(context.Background()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("empty identity: err = %v, want ErrUnauthenticated", err)
	}
	owner, err := NewService(newMemStore(), WithIdentity(StaticIdentity("alice"))).CurrentUser(context.Background())
	if err != nil || owner != "alice" {
		t.Fatalf("CurrentUser = %q, %v; want alice", owner, err)
	}
}
