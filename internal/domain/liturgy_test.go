package domain

import (
	"testing"
	"time"
)

func TestParseReadingType(t *testing.T) {
	t.Parallel()

	if _, err := ParseReadingType("GOSPEL"); err != nil {
		t.Fatalf("GOSPEL must parse: %v", err)
	}
	if _, err := ParseReadingType("gospel"); err == nil {
		t.Fatal("lowercase values must be rejected at the boundary")
	}
	if _, err := ParseReadingType("PSALM"); err == nil {
		t.Fatal("unknown reading types must be rejected")
	}
}

func TestParseMeditationStatus(t *testing.T) {
	t.Parallel()

	for _, value := range []string{"DRAFT", "APPROVED", "REJECTED", "PUBLISHED"} {
		if _, err := ParseMeditationStatus(value); err != nil {
			t.Fatalf("%s must parse: %v", value, err)
		}
	}
	if _, err := ParseMeditationStatus("PENDING"); err == nil {
		t.Fatal("unknown statuses must be rejected")
	}
}

func TestMidnight(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+5", 5*3600)
	stamp := time.Date(2024, time.July, 1, 2, 30, 0, 0, loc)

	got := Midnight(stamp)
	want := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
