package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lectio/internal/domain"
	"lectio/internal/ports"
)

// SkipReason names the precondition that stopped meditation generation for a
// date. Skips are expected outcomes, not errors.
type SkipReason string

const (
	SkipNoDay    SkipReason = "no liturgical day ingested yet"
	SkipExists   SkipReason = "meditation already exists"
	SkipNoGospel SkipReason = "no gospel reading"
)

// Meditator implements the guarded meditation-generation workflow.
type Meditator struct {
	repo      ports.Repository
	generator ports.MeditationGenerator
	notifier  ports.Notifier
	logger    *slog.Logger
}

// NewMeditator constructs the generation workflow. notifier may be nil.
func NewMeditator(repo ports.Repository, generator ports.MeditationGenerator, notifier ports.Notifier, logger *slog.Logger) *Meditator {
	return &Meditator{repo: repo, generator: generator, notifier: notifier, logger: logger}
}

// MeditateReport summarizes one batch run.
type MeditateReport struct {
	Created int
	Skipped int
	Errors  []error
}

// Run walks the dates in order. Generator failures and precondition skips for
// one date never suppress processing of the following dates.
func (m *Meditator) Run(ctx context.Context, dates []time.Time, languageCode string, force bool) MeditateReport {
	var report MeditateReport

	for _, date := range dates {
		iso := date.Format("2006-01-02")
		m.logger.Info("generating meditation", "date", iso, "language", languageCode)

		med, skip, err := m.generateForDate(ctx, date, languageCode, force)
		switch {
		case err != nil:
			m.logger.Error("failed to generate meditation", "date", iso, "error", err)
			report.Errors = append(report.Errors, fmt.Errorf("%s: %w", iso, err))
		case skip != "":
			m.logger.Warn("skipping date", "date", iso, "reason", string(skip))
			report.Skipped++
		default:
			m.logger.Info("created draft meditation", "date", iso, "language", languageCode, "id", med.ID)
			report.Created++
			m.notifyDraft(ctx, date, med)
		}
	}

	return report
}

// generateForDate checks the preconditions in order and returns either the
// created draft, a skip reason, or a generation error.
func (m *Meditator) generateForDate(ctx context.Context, date time.Time, languageCode string, force bool) (domain.GospelMeditation, SkipReason, error) {
	day, found, err := m.repo.GetDay(ctx, date)
	if err != nil {
		return domain.GospelMeditation{}, "", fmt.Errorf("look up day: %w", err)
	}
	if !found {
		return domain.GospelMeditation{}, SkipNoDay, nil
	}

	if !force {
		exists, err := m.repo.HasMeditation(ctx, day.ID, languageCode)
		if err != nil {
			return domain.GospelMeditation{}, "", fmt.Errorf("look up meditation: %w", err)
		}
		if exists {
			return domain.GospelMeditation{}, SkipExists, nil
		}
	}

	gospel, found, err := m.repo.FindGospel(ctx, day.ID, languageCode)
	if err != nil {
		return domain.GospelMeditation{}, "", fmt.Errorf("look up gospel: %w", err)
	}
	if !found {
		return domain.GospelMeditation{}, SkipNoGospel, nil
	}

	body, err := m.generator.Generate(ctx, ports.GenerationRequest{
		GospelText:   gospel.Text,
		Reference:    gospel.Reference,
		Date:         day.Date,
		LanguageCode: languageCode,
	})
	if err != nil {
		return domain.GospelMeditation{}, "", fmt.Errorf("generate: %w", err)
	}

	med, err := m.repo.CreateMeditation(ctx, domain.GospelMeditation{
		DayID:        day.ID,
		LanguageCode: languageCode,
		Title:        fmt.Sprintf("Meditación para el evangelio de hoy (%s)", day.Date.Format("2006-01-02")),
		Body:         body,
		Source:       domain.SourceAI,
		Status:       domain.StatusDraft,
	})
	if err != nil {
		return domain.GospelMeditation{}, "", fmt.Errorf("persist meditation: %w", err)
	}

	return med, "", nil
}

// notifyDraft is best effort; a notification failure never fails the date.
func (m *Meditator) notifyDraft(ctx context.Context, date time.Time, med domain.GospelMeditation) {
	if m.notifier == nil {
		return
	}
	if err := m.notifier.NotifyDraft(ctx, date, med); err != nil {
		m.logger.Warn("draft notification failed", "date", date.Format("2006-01-02"), "error", err)
	}
}
