package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"lectio/internal/config"
	"lectio/internal/daterange"
	"lectio/internal/infrastructure/gemini"
	"lectio/internal/infrastructure/scheduler"
	"lectio/internal/infrastructure/storage"
	"lectio/internal/infrastructure/telegram"
	"lectio/internal/infrastructure/vatican"
	"lectio/internal/logging"
	"lectio/internal/ports"
	"lectio/internal/usecase"
)

// Application wires configuration to the batch workflows.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	store  *storage.SQL
}

// BatchOptions carries the shared flags of the fetch and meditate commands.
type BatchOptions struct {
	Range    daterange.Options
	Language string
	Force    bool
}

func (o BatchOptions) language(cfg config.Config) string {
	if o.Language != "" {
		return o.Language
	}
	if cfg.Source.Language != "" {
		return cfg.Source.Language
	}
	return "es"
}

// New opens the repository and builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	store, err := storage.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	return &Application{cfg: cfg, logger: baseLogger, store: store}, nil
}

// Close releases the repository connection.
func (a *Application) Close() error {
	return a.store.Close()
}

// Fetch resolves the date range and runs the reading-ingestion batch.
func (a *Application) Fetch(ctx context.Context, opts BatchOptions) error {
	dates, err := a.resolveDates(opts.Range)
	if err != nil || len(dates) == 0 {
		return err
	}

	source := vatican.NewScraper(a.cfg.Source.BaseURL, nil, a.logger.With("component", "scraper"))
	ingestor := usecase.NewIngestor(source, a.store, a.logger.With("component", "ingest"))

	report := ingestor.Run(ctx, dates, opts.language(a.cfg))
	a.logger.Info("fetch batch done",
		"created", report.Created, "updated", report.Updated, "failed", len(report.Errors))
	return nil
}

// Meditate resolves the date range and runs the meditation-generation batch.
// A missing Gemini API key fails here, before any date is attempted.
func (a *Application) Meditate(ctx context.Context, opts BatchOptions) error {
	generator, err := gemini.NewClient(a.cfg.Gemini)
	if err != nil {
		return err
	}

	dates, err := a.resolveDates(opts.Range)
	if err != nil || len(dates) == 0 {
		return err
	}

	meditator := usecase.NewMeditator(a.store, generator, a.notifier(), a.logger.With("component", "meditate"))

	report := meditator.Run(ctx, dates, opts.language(a.cfg), opts.Force)
	a.logger.Info("meditate batch done",
		"created", report.Created, "skipped", report.Skipped, "failed", len(report.Errors))
	return nil
}

// Approve performs the moderator action on a single meditation.
func (a *Application) Approve(ctx context.Context, id int64, actor string) error {
	moderator := usecase.NewModerator(a.store, a.logger.With("component", "moderation"))
	med, err := moderator.Approve(ctx, id, actor)
	if err != nil {
		return err
	}
	a.logger.Info("meditation approved",
		"id", med.ID, "approved_by", med.ApprovedBy, "approved_at", med.ApprovedAt)
	return nil
}

// RunDaemon fetches and meditates for "today" once a day until the context
// is cancelled.
func (a *Application) RunDaemon(ctx context.Context) error {
	sched := scheduler.NewDaily(0)

	job := func(trigger time.Time) {
		today := trigger.In(a.cfg.Scheduler.Location()).Format("2006-01-02")
		opts := BatchOptions{Range: daterange.Options{Date: today}}

		if err := a.Fetch(ctx, opts); err != nil {
			a.logger.Error("daily fetch failed", "date", today, "error", err)
			return
		}
		if err := a.Meditate(ctx, opts); err != nil {
			a.logger.Error("daily meditate failed", "date", today, "error", err)
		}
	}

	if err := sched.Start(ctx, job); err != nil {
		return err
	}
	<-ctx.Done()
	return sched.Stop(context.Background())
}

// resolveDates applies the shared range semantics: malformed input is fatal,
// an inverted range is an explicit no-op, and a truly empty resolution (not
// normally reachable, since the range defaults to today) is a usage error.
func (a *Application) resolveDates(opts daterange.Options) ([]time.Time, error) {
	dates, err := daterange.Resolve(opts)
	if err != nil {
		return nil, err
	}
	if len(dates) == 0 {
		if opts == (daterange.Options{}) {
			return nil, fmt.Errorf("no dates resolved: provide --date or a --start/--end range")
		}
		a.logger.Warn("empty date range, nothing to do")
		return nil, nil
	}
	return dates, nil
}

func (a *Application) notifier() ports.Notifier {
	tg := a.cfg.Notifications.Telegram
	if tg.BotToken == "" || tg.ChatID == "" {
		return nil
	}
	return telegram.NewNotifier(tg.BotToken, tg.ChatID)
}
