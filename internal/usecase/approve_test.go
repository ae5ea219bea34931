package usecase

import (
	"context"
	"testing"
	"time"

	"lectio/internal/domain"
	"lectio/internal/infrastructure/storage"
)

func TestModeratorApprove(t *testing.T) {
	t.Parallel()

	repo := storage.NewMemory()
	ctx := context.Background()

	day, err := repo.GetOrCreateDay(ctx, time.Date(2024, time.December, 29, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("seed day: %v", err)
	}
	med, err := repo.CreateMeditation(ctx, domain.GospelMeditation{
		DayID:        day.ID,
		LanguageCode: "es",
		Source:       domain.SourceAI,
		Status:       domain.StatusDraft,
	})
	if err != nil {
		t.Fatalf("seed meditation: %v", err)
	}

	moderator := NewModerator(repo, testLogger())
	firstInstant := time.Date(2025, time.January, 2, 8, 0, 0, 0, time.UTC)
	moderator.now = func() time.Time { return firstInstant }

	approved, err := moderator.Approve(ctx, med.ID, "editor-a")
	if err != nil {
		t.Fatalf("Approve error: %v", err)
	}
	if approved.Status != domain.StatusApproved || approved.ApprovedBy != "editor-a" {
		t.Fatalf("unexpected result: %+v", approved)
	}

	// A second approval by someone else keeps the original stamps.
	moderator.now = func() time.Time { return firstInstant.Add(24 * time.Hour) }
	again, err := moderator.Approve(ctx, med.ID, "editor-b")
	if err != nil {
		t.Fatalf("re-approve error: %v", err)
	}
	if again.ApprovedBy != "editor-a" || !again.ApprovedAt.Equal(firstInstant) {
		t.Fatalf("first-approval audit trail was overwritten: %+v", again)
	}

	stored, found, err := repo.GetMeditation(ctx, med.ID)
	if err != nil || !found {
		t.Fatalf("reload: found=%v err=%v", found, err)
	}
	if stored.ApprovedBy != "editor-a" {
		t.Fatalf("persisted stamps drifted: %+v", stored)
	}
}

func TestModeratorApproveMissingMeditation(t *testing.T) {
	t.Parallel()

	moderator := NewModerator(storage.NewMemory(), testLogger())
	if _, err := moderator.Approve(context.Background(), 42, "editor"); err == nil {
		t.Fatal("approving a missing meditation must fail")
	}
}
