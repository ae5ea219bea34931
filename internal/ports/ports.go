package ports

import (
	"context"
	"time"

	"lectio/internal/domain"
)

// ReadingSource fetches and extracts the reading blocks published for one
// date in one language edition.
type ReadingSource interface {
	FetchBlocks(ctx context.Context, date time.Time, languageCode string) ([]domain.ReadingBlock, error)
}

// Repository persists the liturgical aggregate. Workflow logic goes through
// this interface only, so it stays testable against an in-memory fake.
type Repository interface {
	// GetOrCreateDay returns the LiturgicalDay for date, creating it when
	// absent. At most one day exists per date.
	GetOrCreateDay(ctx context.Context, date time.Time) (domain.LiturgicalDay, error)

	// GetDay looks a day up without creating it.
	GetDay(ctx context.Context, date time.Time) (domain.LiturgicalDay, bool, error)

	// UpsertReading creates or overwrites the reading at its
	// (day, language, type, order) key and reports whether a row was created.
	UpsertReading(ctx context.Context, reading domain.DailyReading) (domain.DailyReading, bool, error)

	// FindGospel returns the gospel reading with the smallest order for the
	// day and language, if any.
	FindGospel(ctx context.Context, dayID int64, languageCode string) (domain.DailyReading, bool, error)

	// HasMeditation reports whether any meditation exists for the day and
	// language, regardless of status.
	HasMeditation(ctx context.Context, dayID int64, languageCode string) (bool, error)

	CreateMeditation(ctx context.Context, med domain.GospelMeditation) (domain.GospelMeditation, error)
	GetMeditation(ctx context.Context, id int64) (domain.GospelMeditation, bool, error)
	SaveMeditation(ctx context.Context, med domain.GospelMeditation) error
}

// GenerationRequest carries everything the external generator needs to draft
// a meditation.
type GenerationRequest struct {
	GospelText   string
	Reference    string
	Date         time.Time
	LanguageCode string
}

// MeditationGenerator produces a meditation body from the day's gospel.
type MeditationGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// Notifier announces freshly created drafts to the moderation channel.
type Notifier interface {
	NotifyDraft(ctx context.Context, date time.Time, med domain.GospelMeditation) error
}

// Scheduler drives recurring pipeline runs for the daemon mode.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
