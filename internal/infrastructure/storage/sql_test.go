package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"lectio/internal/domain"
)

func openTestDB(t *testing.T) *SQL {
	t.Helper()

	store, err := Open("sqlite3", filepath.Join(t.TempDir(), "lectio-test.db"))
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestGetOrCreateDayIsUnique(t *testing.T) {
	t.Parallel()

	store := openTestDB(t)
	ctx := context.Background()
	date := time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC)

	first, err := store.GetOrCreateDay(ctx, date)
	if err != nil {
		t.Fatalf("first GetOrCreateDay: %v", err)
	}

	// A timestamp later the same day must resolve to the same row.
	second, err := store.GetOrCreateDay(ctx, date.Add(16*time.Hour))
	if err != nil {
		t.Fatalf("second GetOrCreateDay: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected one day per date, got IDs %d and %d", first.ID, second.ID)
	}
	if !second.Date.Equal(date) {
		t.Fatalf("unexpected stored date: %v", second.Date)
	}

	if _, found, err := store.GetDay(ctx, date.AddDate(0, 0, 1)); err != nil || found {
		t.Fatalf("GetDay must not create rows: found=%v err=%v", found, err)
	}
}

func TestUpsertReadingOverwritesInPlace(t *testing.T) {
	t.Parallel()

	store := openTestDB(t)
	ctx := context.Background()

	day, err := store.GetOrCreateDay(ctx, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetOrCreateDay: %v", err)
	}

	reading := domain.DailyReading{
		DayID:        day.ID,
		LanguageCode: "es",
		ReadingType:  domain.Gospel,
		Order:        1,
		Reference:    "Marcos 1, 1-8",
		Title:        "Lectura del santo evangelio",
		Text:         "Comienzo del evangelio.",
	}

	stored, created, err := store.UpsertReading(ctx, reading)
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if !created {
		t.Fatal("first upsert must create")
	}

	reading.Text = "Comienzo del evangelio, corregido."
	updated, created, err := store.UpsertReading(ctx, reading)
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if created {
		t.Fatal("second upsert must update in place")
	}
	if updated.ID != stored.ID {
		t.Fatalf("upsert changed the row identity: %d vs %d", updated.ID, stored.ID)
	}

	gospel, found, err := store.FindGospel(ctx, day.ID, "es")
	if err != nil || !found {
		t.Fatalf("FindGospel: found=%v err=%v", found, err)
	}
	if gospel.Text != "Comienzo del evangelio, corregido." {
		t.Fatalf("overwrite did not stick: %q", gospel.Text)
	}
}

func TestFindGospelPrefersSmallestOrder(t *testing.T) {
	t.Parallel()

	store := openTestDB(t)
	ctx := context.Background()

	day, err := store.GetOrCreateDay(ctx, time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetOrCreateDay: %v", err)
	}

	for _, order := range []int{2, 1} {
		_, _, err := store.UpsertReading(ctx, domain.DailyReading{
			DayID:        day.ID,
			LanguageCode: "es",
			ReadingType:  domain.Gospel,
			Order:        order,
			Text:         "texto",
		})
		if err != nil {
			t.Fatalf("upsert order %d: %v", order, err)
		}
	}

	gospel, found, err := store.FindGospel(ctx, day.ID, "es")
	if err != nil || !found {
		t.Fatalf("FindGospel: found=%v err=%v", found, err)
	}
	if gospel.Order != 1 {
		t.Fatalf("expected smallest order, got %d", gospel.Order)
	}
}

func TestMeditationRoundTrip(t *testing.T) {
	t.Parallel()

	store := openTestDB(t)
	ctx := context.Background()

	day, err := store.GetOrCreateDay(ctx, time.Date(2024, time.March, 6, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("GetOrCreateDay: %v", err)
	}

	if exists, err := store.HasMeditation(ctx, day.ID, "es"); err != nil || exists {
		t.Fatalf("HasMeditation before create: exists=%v err=%v", exists, err)
	}

	med, err := store.CreateMeditation(ctx, domain.GospelMeditation{
		DayID:        day.ID,
		LanguageCode: "es",
		Title:        "Meditación para el evangelio de hoy (2024-03-06)",
		Body:         "Cuerpo.",
		Source:       domain.SourceAI,
		Status:       domain.StatusDraft,
	})
	if err != nil {
		t.Fatalf("CreateMeditation: %v", err)
	}

	if exists, err := store.HasMeditation(ctx, day.ID, "es"); err != nil || !exists {
		t.Fatalf("HasMeditation after create: exists=%v err=%v", exists, err)
	}

	loaded, found, err := store.GetMeditation(ctx, med.ID)
	if err != nil || !found {
		t.Fatalf("GetMeditation: found=%v err=%v", found, err)
	}
	if loaded.Status != domain.StatusDraft || loaded.ApprovedAt != nil || loaded.ApprovedBy != "" {
		t.Fatalf("draft must carry no approval stamps: %+v", loaded)
	}

	at := time.Date(2024, time.March, 7, 9, 0, 0, 0, time.UTC)
	loaded.Status = domain.StatusApproved
	loaded.ApprovedBy = "editor"
	loaded.ApprovedAt = &at
	if err := store.SaveMeditation(ctx, loaded); err != nil {
		t.Fatalf("SaveMeditation: %v", err)
	}

	saved, _, err := store.GetMeditation(ctx, med.ID)
	if err != nil {
		t.Fatalf("reload meditation: %v", err)
	}
	if saved.Status != domain.StatusApproved || saved.ApprovedBy != "editor" {
		t.Fatalf("approval fields not persisted: %+v", saved)
	}
	if saved.ApprovedAt == nil || !saved.ApprovedAt.Equal(at) {
		t.Fatalf("approved_at not persisted: %v", saved.ApprovedAt)
	}

	if err := store.SaveMeditation(ctx, domain.GospelMeditation{ID: 9999, Status: domain.StatusDraft}); err == nil {
		t.Fatal("saving a missing meditation must fail")
	}
}
