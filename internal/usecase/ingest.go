package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lectio/internal/domain"
	"lectio/internal/ports"
)

// Ingestor implements the reading-ingestion workflow: fetch the page for each
// date, extract blocks, and upsert them into typed reading slots.
type Ingestor struct {
	source ports.ReadingSource
	repo   ports.Repository
	logger *slog.Logger
}

// NewIngestor constructs the ingestion workflow.
func NewIngestor(source ports.ReadingSource, repo ports.Repository, logger *slog.Logger) *Ingestor {
	return &Ingestor{source: source, repo: repo, logger: logger}
}

// IngestReport summarizes one batch run.
type IngestReport struct {
	Created int
	Updated int
	Errors  []error
}

// Run processes the dates strictly in the given order. Each date is isolated:
// a fetch or storage failure is collected and the loop continues with the
// next date.
func (in *Ingestor) Run(ctx context.Context, dates []time.Time, languageCode string) IngestReport {
	var report IngestReport

	for _, date := range dates {
		in.logger.Info("fetching readings", "date", date.Format("2006-01-02"), "language", languageCode)

		created, updated, err := in.ingestDate(ctx, date, languageCode)
		if err != nil {
			in.logger.Error("failed to ingest date",
				"date", date.Format("2006-01-02"), "error", err)
			report.Errors = append(report.Errors, fmt.Errorf("%s: %w", date.Format("2006-01-02"), err))
			continue
		}
		report.Created += created
		report.Updated += updated
	}

	return report
}

func (in *Ingestor) ingestDate(ctx context.Context, date time.Time, languageCode string) (created, updated int, err error) {
	blocks, err := in.source.FetchBlocks(ctx, date, languageCode)
	if err != nil {
		return 0, 0, err
	}

	day, err := in.repo.GetOrCreateDay(ctx, date)
	if err != nil {
		return 0, 0, fmt.Errorf("get or create day: %w", err)
	}

	if len(blocks) == 0 {
		in.logger.Warn("no reading sections found", "date", date.Format("2006-01-02"))
		return 0, 0, nil
	}

	for _, reading := range planReadings(date, blocks) {
		reading.DayID = day.ID
		reading.LanguageCode = languageCode

		stored, wasCreated, err := in.repo.UpsertReading(ctx, reading)
		if err != nil {
			return created, updated, fmt.Errorf("upsert %s: %w", reading.ReadingType, err)
		}

		action := "updated"
		if wasCreated {
			action = "created"
			created++
		} else {
			updated++
		}
		in.logger.Info(action+" reading",
			"date", date.Format("2006-01-02"),
			"language", languageCode,
			"type", string(stored.ReadingType),
			"reference", stored.Reference)
	}

	return created, updated, nil
}

// planReadings assigns extracted blocks to typed slots by position. Sundays
// carry three readings (first, second, gospel); other weekdays two (first,
// gospel). Blocks beyond the expected count are typically a papal commentary
// section and are ignored. Fewer blocks than expected is tolerated.
//
// Known gap: weekday solemnities also carry three readings, but the source
// policy branches on weekday only, so they are ingested as two.
func planReadings(date time.Time, blocks []domain.ReadingBlock) []domain.DailyReading {
	slots := []domain.ReadingType{domain.FirstReading, domain.Gospel}
	if date.Weekday() == time.Sunday {
		slots = []domain.ReadingType{domain.FirstReading, domain.SecondReading, domain.Gospel}
	}

	var readings []domain.DailyReading
	for i, kind := range slots {
		if i >= len(blocks) {
			break
		}
		readings = append(readings, domain.DailyReading{
			ReadingType: kind,
			Order:       1,
			Title:       blocks[i].Title,
			Reference:   blocks[i].Reference,
			Text:        blocks[i].Text,
		})
	}
	return readings
}
