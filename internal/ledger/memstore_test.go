package ledger

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/theirongolddev/mealbook/internal/model"
)

// memStore is an in-memory Store that counts calls and can inject failures.
type memStore struct {
	mu     sync.Mutex
	rows   []model.MealRecord
	nextID int

	selects int
	inserts int // rows inserted
	updates int

	selectErr error
	insertErr error
	updateErr error
	deleteErr error

	// failUpdateAfter makes Update fail once this many updates succeeded (0 = off).
	failUpdateAfter int

	insertDelay time.Duration
	updateDelay time.Duration
	inFlight    map[string]int
	maxInFlight int
}

func newMemStore(rows ...model.MealRecord) *memStore {
	m := &memStore{inFlight: make(map[string]int)}
	for _, r := range rows {
		if r.ID == "" {
			m.nextID++
			r.ID = fmt.Sprintf("row-%03d", m.nextID)
		}
		r.Date = model.Day(r.Date)
		m.rows = append(m.rows, r)
	}
	return m
}

func (m *memStore) Select(_ context.Context, owner string, r *model.Range) ([]model.MealRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.selects++
	if m.selectErr != nil {
		return nil, m.selectErr
	}
	var out []model.MealRecord
	for _, row := range m.rows {
		if row.Owner != owner {
			continue
		}
		if r != nil && !r.Contains(row.Date) {
			continue
		}
		out = append(out, row)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memStore) Insert(_ context.Context, rows []model.MealRecord) ([]string, error) {
	if m.insertDelay > 0 {
		time.Sleep(m.insertDelay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	ids := make([]string, len(rows))
	for i, r := range rows {
		m.nextID++
		r.ID = fmt.Sprintf("row-%03d", m.nextID)
		r.Date = model.Day(r.Date)
		m.rows = append(m.rows, r)
		ids[i] = r.ID
		m.inserts++
	}
	return ids, nil
}

func (m *memStore) Update(_ context.Context, owner, id string, p model.Patch) error {
	m.mu.Lock()
	if m.updateErr != nil {
		m.mu.Unlock()
		return m.updateErr
	}
	if m.failUpdateAfter > 0 && m.updates >= m.failUpdateAfter {
		m.mu.Unlock()
		return ErrStoreUnavailable
	}
	m.inFlight[id]++
	if m.inFlight[id] > m.maxInFlight {
		m.maxInFlight = m.inFlight[id]
	}
	m.mu.Unlock()

	if m.updateDelay > 0 {
		time.Sleep(m.updateDelay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight[id]--
	for i, row := range m.rows {
		if row.ID == id && row.Owner == owner {
			m.rows[i] = p.Apply(row)
			m.updates++
			return nil
		}
	}
	return ErrNotFound
}

func (m *memStore) Delete(_ context.Context, owner string, r *model.Range) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	kept := m.rows[:0]
	for _, row := range m.rows {
		if row.Owner == owner && (r == nil || r.Contains(row.Date)) {
			continue
		}
		kept = append(kept, row)
	}
	m.rows = kept
	return nil
}

func (m *memStore) rowsFor(owner string, day time.Time) []model.MealRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.MealRecord
	for _, row := range m.rows {
		if row.Owner == owner && row.Date.Equal(model.Day(day)) {
			out = append(out, row)
		}
	}
	return out
}

func (m *memStore) byID(id string) (model.MealRecord, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, row := range m.rows {
		if row.ID == id {
			return row, true
		}
	}
	return model.MealRecord{}, false
}
