// Package api holds the JSON wire types shared by the HTTP backend and its
// client.
package api

import (
	"fmt"
	"time"

	"github.com/theirongolddev/mealbook/internal/model"
)

// Row is a ledger record on the wire.
type Row struct {
	ID        string `json:"id,omitempty"`
	Date      string `json:"date"`
	Breakfast bool   `json:"breakfast"`
	Dinner    bool   `json:"dinner"`
	Owner     string `json:"owner,omitempty"`
}

// PatchBody is the PATCH /v1/meals/:id request body.
type PatchBody struct {
	Breakfast *bool `json:"breakfast,omitempty"`
	Dinner    *bool `json:"dinner,omitempty"`
}

// InsertResponse is returned by POST /v1/meals.
type InsertResponse struct {
	IDs []string `json:"ids"`
}

// UserResponse is returned by GET /v1/auth/user.
type UserResponse struct {
	ID string `json:"id"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Event is one ledger change, returned by GET /v1/events.
type Event struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Start     string    `json:"start,omitempty"`
	End       string    `json:"end,omitempty"`
	RowID     string    `json:"row_id,omitempty"`
}

// FromRecord converts a ledger record to its wire form.
func FromRecord(r model.MealRecord) Row {
	return Row{
		ID:        r.ID,
		Date:      model.FormatDate(r.Date),
		Breakfast: r.Breakfast,
		Dinner:    r.Dinner,
		Owner:     r.Owner,
	}
}

// FromRecords converts a slice of records, never returning nil.
func FromRecords(rs []model.MealRecord) []Row {
	out := make([]Row, len(rs))
	for i, r := range rs {
		out[i] = FromRecord(r)
	}
	return out
}

// Record parses the wire row back into a ledger record.
func (r Row) Record() (model.MealRecord, error) {
	d, err := model.ParseDate(r.Date)
	if err != nil {
		return model.MealRecord{}, fmt.Errorf("row %q: %w", r.ID, err)
	}
	return model.MealRecord{
		ID:        r.ID,
		Date:      d,
		Breakfast: r.Breakfast,
		Dinner:    r.Dinner,
		Owner:     r.Owner,
	}, nil
}

// Records parses a slice of wire rows.
func Records(rows []Row) ([]model.MealRecord, error) {
	out := make([]model.MealRecord, 0, len(rows))
	for _, r := range rows {
		rec, err := r.Record()
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

// Patch converts the body to a model patch.
func (p PatchBody) Patch() model.Patch {
	return model.Patch{Breakfast: p.Breakfast, Dinner: p.Dinner}
}

// FromPatch converts a model patch to its wire form.
func FromPatch(p model.Patch) PatchBody {
	return PatchBody{Breakfast: p.Breakfast, Dinner: p.Dinner}
}

// RangeQuery renders r as start/end query values; nil yields none.
func RangeQuery(r *model.Range) map[string]string {
	if r == nil {
		return nil
	}
	return map[string]string{
		"start": model.FormatDate(r.Start),
		"end":   model.FormatDate(r.End),
	}
}

// ParseRange parses start/end query values. Both empty means no range.
func ParseRange(start, end string) (*model.Range, error) {
	if start == "" && end == "" {
		return nil, nil
	}
	s, err := model.ParseDate(start)
	if err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}
	e, err := model.ParseDate(end)
	if err != nil {
		return nil, fmt.Errorf("end: %w", err)
	}
	r := model.NewRange(s, e)
	if !r.Valid() {
		return nil, fmt.Errorf("start %s is after end %s", start, end)
	}
	if r.TooLong() {
		return nil, fmt.Errorf("range %s spans %d days, max %d", r, r.Len(), model.MaxRangeDays)
	}
	return &r, nil
}
