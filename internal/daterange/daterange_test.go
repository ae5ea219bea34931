package daterange

import (
	"errors"
	"testing"
	"time"
)

func TestResolveStartWithDays(t *testing.T) {
	t.Parallel()

	dates, err := Resolve(Options{Start: "2024-01-01", Days: 3})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	want := []string{"2024-01-01", "2024-01-02", "2024-01-03"}
	if len(dates) != len(want) {
		t.Fatalf("expected %d dates, got %d", len(want), len(dates))
	}
	for i, d := range dates {
		if d.Format("2006-01-02") != want[i] {
			t.Fatalf("date %d: expected %s, got %s", i, want[i], d.Format("2006-01-02"))
		}
	}
}

func TestResolveStartWithEnd(t *testing.T) {
	t.Parallel()

	dates, err := Resolve(Options{Start: "2024-02-27", End: "2024-03-01"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}

	if len(dates) != 4 {
		t.Fatalf("expected 4 dates across the month boundary, got %d", len(dates))
	}
	if dates[3].Format("2006-01-02") != "2024-03-01" {
		t.Fatalf("unexpected last date: %s", dates[3].Format("2006-01-02"))
	}
}

func TestResolveStartBeatsDate(t *testing.T) {
	t.Parallel()

	dates, err := Resolve(Options{Date: "2024-06-01", Start: "2024-07-01"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(dates) != 1 || dates[0].Format("2006-01-02") != "2024-07-01" {
		t.Fatalf("start should take priority over date, got %v", dates)
	}
}

func TestResolveInvertedRangeIsEmpty(t *testing.T) {
	t.Parallel()

	dates, err := Resolve(Options{Start: "2024-01-05", End: "2024-01-03"})
	if err != nil {
		t.Fatalf("inverted range should not error: %v", err)
	}
	if len(dates) != 0 {
		t.Fatalf("expected empty sequence, got %d dates", len(dates))
	}
}

func TestResolveSingleDate(t *testing.T) {
	t.Parallel()

	dates, err := Resolve(Options{Date: "2024-12-25"})
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(dates) != 1 {
		t.Fatalf("expected 1 date, got %d", len(dates))
	}
	d := dates[0]
	if d.Hour() != 0 || d.Location() != time.UTC {
		t.Fatalf("dates must be midnight UTC, got %v", d)
	}
}

func TestResolveDefaultsToToday(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.March, 15, 13, 45, 0, 0, time.UTC)
	dates, err := resolveAt(Options{}, now)
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if len(dates) != 1 || dates[0].Format("2006-01-02") != "2024-03-15" {
		t.Fatalf("expected today only, got %v", dates)
	}
}

func TestResolveMalformedDate(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"25-12-2024", "2024/12/25", "not-a-date"} {
		_, err := Resolve(Options{Date: value})
		if !errors.Is(err, ErrInvalidRange) {
			t.Fatalf("expected ErrInvalidRange for %q, got %v", value, err)
		}
	}

	_, err := Resolve(Options{Start: "2024-01-01", End: "garbage"})
	if !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange for malformed end, got %v", err)
	}
}
