package cmd

import (
	"errors"
	"testing"
	"time"

	"github.com/theirongolddev/mealbook/internal/config"
	"github.com/theirongolddev/mealbook/internal/ledger"
)

func withRangeFlags(t *testing.T, from, to string) {
	t.Helper()
	oldFrom, oldTo := flagFrom, flagTo
	flagFrom, flagTo = from, to
	t.Cleanup(func() { flagFrom, flagTo = oldFrom, oldTo })
}

func TestResolveRange(t *testing.T) {
	now := time.Date(2024, 2, 14, 18, 30, 0, 0, time.UTC)
	cfg := config.DefaultConfig()

	cases := []struct {
		name     string
		from, to string
		days     int
		want     string
	}{
		{"current month", "", "", 0, "2024-02-01..2024-02-29"},
		{"default days", "", "", 7, "2024-02-08..2024-02-14"},
		{"explicit", "2024-01-10", "2024-01-12", 0, "2024-01-10..2024-01-12"},
		{"from only", "2024-03-05", "", 0, "2024-03-05..2024-03-31"},
		{"to only", "", "2024-03-05", 0, "2024-03-01..2024-03-05"},
	}

	for _, tc := range cases {
		withRangeFlags(t, tc.from, tc.to)
		cfg.General.DefaultDays = tc.days
		r, err := resolveRange(cfg, now)
		if err != nil {
			t.Fatalf("%s: resolveRange: %v", tc.name, err)
		}
		if got := r.String(); got != tc.want {
			t.Errorf("%s: range = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestResolveRange_Errors(t *testing.T) {
	cfg := config.DefaultConfig()

	withRangeFlags(t, "2024-02-10", "2024-02-01")
	if _, err := resolveRange(cfg, time.Now()); !errors.Is(err, ledger.ErrInvalidRange) {
		t.Fatalf("reversed: err = %v, want ErrInvalidRange", err)
	}

	withRangeFlags(t, "2000-01-01", "2029-12-31")
	if _, err := resolveRange(cfg, time.Now()); !errors.Is(err, ledger.ErrInvalidRange) {
		t.Fatalf("too long: err = %v, want ErrInvalidRange", err)
	}

	withRangeFlags(t, "02/10/2024", "")
	if _, err := resolveRange(cfg, time.Now()); err == nil {
		t.Fatal("bad date accepted")
	}
}

func TestMaskSecret(t *testing.T) {
	cases := map[string]string{
		"abc":                  "****",
		"abcdefgh":             "abcd...",
		"0123456789abcdefXYZW": "01234567...XYZW",
	}
	for in, want := range cases {
		if got := maskSecret(in); got != want {
			t.Errorf("maskSecret(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"serve", "--detach", "--addr", ":9000", "--detach=true"})
	want := []string{"serve", "--addr", ":9000"}
	if len(got) != len(want) {
		t.Fatalf("filterDetachArg = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("filterDetachArg = %v, want %v", got, want)
		}
	}
}
