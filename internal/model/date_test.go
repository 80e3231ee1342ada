package model

import (
	"testing"
	"time"
)

func mustParse(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q): %v", s, err)
	}
	return d
}

func TestDays(t *testing.T) {
	tests := []struct {
		start, end string
		want       int
	}{
		{"2024-01-01", "2024-01-01", 1},
		{"2024-02-28", "2024-03-01", 3},
		{"2023-02-28", "2023-03-01", 2},
		{"2023-12-31", "2024-01-01", 2},
		{"2024-03-09", "2024-03-12", 4},
	}
	for _, tt := range tests {
		r := NewRange(mustParse(t, tt.start), mustParse(t, tt.end))
		days := Days(r)
		if len(days) != tt.want {
			t.Errorf("Days(%s) = %d days, want %d", r, len(days), tt.want)
			continue
		}
		if r.Len() != tt.want {
			t.Errorf("%s.Len() = %d, want %d", r, r.Len(), tt.want)
		}
		if FormatDate(days[0]) != tt.start || FormatDate(days[len(days)-1]) != tt.end {
			t.Errorf("Days(%s) spans %s..%s", r, FormatDate(days[0]), FormatDate(days[len(days)-1]))
		}
	}
}

func TestRange_Invalid(t *testing.T) {
	r := NewRange(mustParse(t, "2024-01-05"), mustParse(t, "2024-01-01"))
	if r.Valid() {
		t.Fatal("reversed range reported valid")
	}
	if r.Len() != 0 || Days(r) != nil {
		t.Fatalf("reversed range: Len = %d, Days = %v", r.Len(), Days(r))
	}
}

func TestRange_TooLong(t *testing.T) {
	start := mustParse(t, "2024-01-01")
	r := NewRange(start, start.AddDate(0, 0, MaxRangeDays-1))
	if r.Len() != MaxRangeDays || r.TooLong() {
		t.Fatalf("Len = %d, TooLong = %v; want %d, false", r.Len(), r.TooLong(), MaxRangeDays)
	}
	if !NewRange(start, r.End.AddDate(0, 0, 1)).TooLong() {
		t.Fatal("range one day past the cap not reported too long")
	}
}

func TestRange_ContainsIgnoresClock(t *testing.T) {
	r := NewRange(mustParse(t, "2024-01-01"), mustParse(t, "2024-01-02"))
	late := time.Date(2024, 1, 2, 23, 59, 0, 0, time.FixedZone("x", 5*3600))
	if !r.Contains(late) {
		t.Error("late evening on the end day should be inside the range")
	}
	if r.Contains(mustParse(t, "2024-01-03")) {
		t.Error("day after End reported inside")
	}
}

func TestRange_Shift(t *testing.T) {
	r := NewRange(mustParse(t, "2024-01-30"), mustParse(t, "2024-02-05")).Shift(7)
	if got := r.String(); got != "2024-02-06..2024-02-12" {
		t.Fatalf("Shift(7) = %s", got)
	}
}

func TestMonthRange(t *testing.T) {
	r := MonthRange(mustParse(t, "2024-02-17"))
	if got := r.String(); got != "2024-02-01..2024-02-29" {
		t.Fatalf("MonthRange = %s", got)
	}
}

func TestLastNDays(t *testing.T) {
	r := LastNDays(mustParse(t, "2024-03-02"), 3)
	if got := r.String(); got != "2024-02-29..2024-03-02" {
		t.Fatalf("LastNDays = %s", got)
	}
	if got := LastNDays(mustParse(t, "2024-03-02"), 0).Len(); got != 1 {
		t.Fatalf("LastNDays(0).Len() = %d, want 1", got)
	}
}

func TestParseDate_Errors(t *testing.T) {
	for _, s := range []string{"", "2024-13-01", "01/02/2024", "2024-02-30"} {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) succeeded, want error", s)
		}
	}
}
