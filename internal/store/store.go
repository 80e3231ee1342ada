// Package store provides the SQLite-backed meal ledger.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/theirongolddev/mealbook/internal/ledger"
	"github.com/theirongolddev/mealbook/internal/model"
)

// Store is a ledger.Store over a local SQLite file.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

var _ ledger.Store = (*Store)(nil)

// Open opens or creates the ledger database at the given path and applies
// migrations.
func Open(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating ledger dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening ledger db: %w", err)
	}

	if err := migrateUp(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db, now: time.Now}, nil
}

// Close closes the ledger database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Select returns owner's rows within r (all rows when r is nil), ordered by
// day then id.
func (s *Store) Select(ctx context.Context, owner string, r *model.Range) ([]model.MealRecord, error) {
	q := "SELECT id, owner, day, breakfast, dinner FROM meals WHERE owner = ?"
	args := []any{owner}
	if r != nil {
		q += " AND day >= ? AND day <= ?"
		args = append(args, model.FormatDate(r.Start), model.FormatDate(r.End))
	}
	q += " ORDER BY day, id"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, classify(err)
	}
	defer func() { _ = rows.Close() }()

	var out []model.MealRecord
	for rows.Next() {
		var (
			rec       model.MealRecord
			day       string
			breakfast int
			dinner    int
		)
		if err := rows.Scan(&rec.ID, &rec.Owner, &day, &breakfast, &dinner); err != nil {
			return nil, classify(err)
		}
		rec.Date, err = model.ParseDate(day)
		if err != nil {
			return nil, fmt.Errorf("row %s: %w", rec.ID, err)
		}
		rec.Breakfast = breakfast != 0
		rec.Dinner = dinner != 0
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(err)
	}
	return out, nil
}

// Insert stores rows in one transaction and returns their new ids in order.
// A row that already exists for its (owner, day) fails the whole batch with
// ledger.ErrConflict.
func (s *Store) Insert(ctx context.Context, rows []model.MealRecord) ([]string, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify(err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO meals
		(id, owner, day, breakfast, dinner, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return nil, classify(err)
	}
	defer func() { _ = stmt.Close() }()

	now := s.now().UTC().Format(time.RFC3339)
	ids := make([]string, len(rows))
	for i, r := range rows {
		if r.Owner == "" {
			return nil, ledger.ErrUnauthenticated
		}
		id := uuid.NewString()
		if _, err := stmt.ExecContext(ctx, id, r.Owner, model.FormatDate(r.Date),
			boolInt(r.Breakfast), boolInt(r.Dinner), now, now); err != nil {
			return nil, classify(err)
		}
		ids[i] = id
	}

	if err := tx.Commit(); err != nil {
		return nil, classify(err)
	}
	return ids, nil
}

// Update applies p to the row with id owned by owner in a single statement.
func (s *Store) Update(ctx context.Context, owner, id string, p model.Patch) error {
	if p.Empty() {
		return nil
	}

	var sets []string
	var args []any
	if p.Breakfast != nil {
		sets = append(sets, "breakfast = ?")
		args = append(args, boolInt(*p.Breakfast))
	}
	if p.Dinner != nil {
		sets = append(sets, "dinner = ?")
		args = append(args, boolInt(*p.Dinner))
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, s.now().UTC().Format(time.RFC3339), id, owner)

	res, err := s.db.ExecContext(ctx,
		"UPDATE meals SET "+strings.Join(sets, ", ")+" WHERE id = ? AND owner = ?", args...)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(err)
	}
	if n == 0 {
		return ledger.ErrNotFound
	}
	return nil
}

// Delete removes owner's rows within r, or all of owner's rows when r is nil.
func (s *Store) Delete(ctx context.Context, owner string, r *model.Range) error {
	q := "DELETE FROM meals WHERE owner = ?"
	args := []any{owner}
	if r != nil {
		q += " AND day >= ? AND day <= ?"
		args = append(args, model.FormatDate(r.Start), model.FormatDate(r.End))
	}
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return classify(err)
	}
	return nil
}

// classify maps driver errors onto ledger sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() & 0xff {
		case sqlite3.SQLITE_CONSTRAINT:
			return fmt.Errorf("%w: %w", ledger.ErrConflict, err)
		case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED, sqlite3.SQLITE_CANTOPEN, sqlite3.SQLITE_IOERR:
			return fmt.Errorf("%w: %w", ledger.ErrStoreUnavailable, err)
		}
	}
	if errors.Is(err, sql.ErrConnDone) || errors.Is(err, sql.ErrTxDone) {
		return fmt.Errorf("%w: %w", ledger.ErrStoreUnavailable, err)
	}
	return err
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
