package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"lectio/internal/domain"
	"lectio/internal/ports"
)

// SQL persists the liturgical aggregate in Postgres or SQLite. The unique
// constraints on (date) and (day_id, language_code, reading_type,
// reading_order) back the get-or-create and upsert semantics, so a race
// between processes surfaces as a constraint conflict instead of a duplicate.
type SQL struct {
	db      *sql.DB
	driver  string
	builder sq.StatementBuilderType
}

var _ ports.Repository = (*SQL)(nil)

// Open connects to the database and bootstraps the schema. Supported drivers
// are "postgres" and "sqlite3".
func Open(driver, dsn string) (*SQL, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	switch driver {
	case "postgres":
	case "sqlite3":
		if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("enable foreign keys: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	store := &SQL{
		db:      db,
		driver:  driver,
		builder: sq.StatementBuilder.PlaceholderFormat(placeholderFormat(driver)),
	}

	if err := store.initSchema(); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

func placeholderFormat(driver string) sq.PlaceholderFormat {
	if driver == "postgres" {
		return sq.Dollar
	}
	return sq.Question
}

// Close closes the underlying connection pool.
func (s *SQL) Close() error {
	return s.db.Close()
}

func (s *SQL) initSchema() error {
	idColumn := "id INTEGER PRIMARY KEY AUTOINCREMENT"
	timestamp := "TIMESTAMP"
	if s.driver == "postgres" {
		idColumn = "id BIGSERIAL PRIMARY KEY"
		timestamp = "TIMESTAMPTZ"
	}

	statements := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS liturgical_days (
			%s,
			date TEXT NOT NULL UNIQUE,
			liturgical_year TEXT NOT NULL DEFAULT '',
			season TEXT NOT NULL DEFAULT '',
			rank TEXT NOT NULL DEFAULT '',
			is_holy_day_of_obligation BOOLEAN NOT NULL DEFAULT FALSE
		)`, idColumn),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS daily_readings (
			%s,
			day_id BIGINT NOT NULL REFERENCES liturgical_days(id) ON DELETE CASCADE,
			language_code TEXT NOT NULL,
			reading_type TEXT NOT NULL,
			reading_order INTEGER NOT NULL,
			reference TEXT NOT NULL DEFAULT '',
			psalm_response TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL DEFAULT '',
			text TEXT NOT NULL DEFAULT '',
			UNIQUE (day_id, language_code, reading_type, reading_order)
		)`, idColumn),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS gospel_meditations (
			%s,
			day_id BIGINT NOT NULL REFERENCES liturgical_days(id) ON DELETE CASCADE,
			language_code TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL,
			status TEXT NOT NULL,
			created_by TEXT NOT NULL DEFAULT '',
			approved_by TEXT NOT NULL DEFAULT '',
			approved_at %s,
			created_at %s NOT NULL,
			updated_at %s NOT NULL
		)`, idColumn, timestamp, timestamp, timestamp),
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// GetOrCreateDay returns the LiturgicalDay for date, creating it when absent.
func (s *SQL) GetOrCreateDay(ctx context.Context, date time.Time) (domain.LiturgicalDay, error) {
	day, found, err := s.GetDay(ctx, date)
	if err != nil {
		return domain.LiturgicalDay{}, err
	}
	if found {
		return day, nil
	}

	normalized := domain.Midnight(date)
	insert := s.builder.
		Insert("liturgical_days").
		Columns("date").
		Values(normalized.Format("2006-01-02"))

	id, err := s.insertID(ctx, insert)
	if err != nil {
		return domain.LiturgicalDay{}, fmt.Errorf("create day: %w", err)
	}

	return domain.LiturgicalDay{ID: id, Date: normalized}, nil
}

// GetDay looks a day up without creating it.
func (s *SQL) GetDay(ctx context.Context, date time.Time) (domain.LiturgicalDay, bool, error) {
	query := s.builder.
		Select("id", "date", "liturgical_year", "season", "rank", "is_holy_day_of_obligation").
		From("liturgical_days").
		Where(sq.Eq{"date": domain.Midnight(date).Format("2006-01-02")})

	stmt, args, err := query.ToSql()
	if err != nil {
		return domain.LiturgicalDay{}, false, fmt.Errorf("build query: %w", err)
	}

	var day domain.LiturgicalDay
	var rawDate string
	err = s.db.QueryRowContext(ctx, stmt, args...).Scan(
		&day.ID, &rawDate, &day.LiturgicalYear, &day.Season, &day.Rank, &day.IsHolyDayOfObligation,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.LiturgicalDay{}, false, nil
	}
	if err != nil {
		return domain.LiturgicalDay{}, false, fmt.Errorf("query day: %w", err)
	}

	day.Date, err = time.ParseInLocation("2006-01-02", rawDate, time.UTC)
	if err != nil {
		return domain.LiturgicalDay{}, false, fmt.Errorf("stored date %q: %w", rawDate, err)
	}
	return day, true, nil
}

// UpsertReading creates or overwrites the reading at its unique key.
func (s *SQL) UpsertReading(ctx context.Context, reading domain.DailyReading) (domain.DailyReading, bool, error) {
	lookup := s.builder.
		Select("id").
		From("daily_readings").
		Where(sq.Eq{
			"day_id":        reading.DayID,
			"language_code": reading.LanguageCode,
			"reading_type":  string(reading.ReadingType),
			"reading_order": reading.Order,
		})

	stmt, args, err := lookup.ToSql()
	if err != nil {
		return domain.DailyReading{}, false, fmt.Errorf("build lookup: %w", err)
	}

	var existingID int64
	err = s.db.QueryRowContext(ctx, stmt, args...).Scan(&existingID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		insert := s.builder.
			Insert("daily_readings").
			Columns("day_id", "language_code", "reading_type", "reading_order",
				"reference", "psalm_response", "title", "text").
			Values(reading.DayID, reading.LanguageCode, string(reading.ReadingType), reading.Order,
				reading.Reference, reading.PsalmResponse, reading.Title, reading.Text)

		id, err := s.insertID(ctx, insert)
		if err != nil {
			return domain.DailyReading{}, false, fmt.Errorf("insert reading: %w", err)
		}
		reading.ID = id
		return reading, true, nil

	case err != nil:
		return domain.DailyReading{}, false, fmt.Errorf("lookup reading: %w", err)
	}

	update := s.builder.
		Update("daily_readings").
		Set("reference", reading.Reference).
		Set("psalm_response", reading.PsalmResponse).
		Set("title", reading.Title).
		Set("text", reading.Text).
		Where(sq.Eq{"id": existingID})

	stmt, args, err = update.ToSql()
	if err != nil {
		return domain.DailyReading{}, false, fmt.Errorf("build update: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return domain.DailyReading{}, false, fmt.Errorf("update reading: %w", err)
	}

	reading.ID = existingID
	return reading, false, nil
}

// FindGospel returns the gospel reading with the smallest order, if any.
func (s *SQL) FindGospel(ctx context.Context, dayID int64, languageCode string) (domain.DailyReading, bool, error) {
	query := s.builder.
		Select("id", "day_id", "language_code", "reading_type", "reading_order",
			"reference", "psalm_response", "title", "text").
		From("daily_readings").
		Where(sq.Eq{
			"day_id":        dayID,
			"language_code": languageCode,
			"reading_type":  string(domain.Gospel),
		}).
		OrderBy("reading_order ASC").
		Limit(1)

	stmt, args, err := query.ToSql()
	if err != nil {
		return domain.DailyReading{}, false, fmt.Errorf("build query: %w", err)
	}

	var reading domain.DailyReading
	var rawType string
	err = s.db.QueryRowContext(ctx, stmt, args...).Scan(
		&reading.ID, &reading.DayID, &reading.LanguageCode, &rawType, &reading.Order,
		&reading.Reference, &reading.PsalmResponse, &reading.Title, &reading.Text,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.DailyReading{}, false, nil
	}
	if err != nil {
		return domain.DailyReading{}, false, fmt.Errorf("query gospel: %w", err)
	}

	reading.ReadingType, err = domain.ParseReadingType(rawType)
	if err != nil {
		return domain.DailyReading{}, false, fmt.Errorf("stored reading: %w", err)
	}
	return reading, true, nil
}

// HasMeditation reports whether any meditation exists for the day and language.
func (s *SQL) HasMeditation(ctx context.Context, dayID int64, languageCode string) (bool, error) {
	query := s.builder.
		Select("1").
		From("gospel_meditations").
		Where(sq.Eq{"day_id": dayID, "language_code": languageCode}).
		Limit(1)

	stmt, args, err := query.ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, stmt, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("query meditation: %w", err)
	}
	return true, nil
}

// CreateMeditation stores a new meditation and stamps the audit timestamps.
func (s *SQL) CreateMeditation(ctx context.Context, med domain.GospelMeditation) (domain.GospelMeditation, error) {
	now := time.Now().UTC()
	med.CreatedAt = now
	med.UpdatedAt = now

	insert := s.builder.
		Insert("gospel_meditations").
		Columns("day_id", "language_code", "title", "body", "source", "status",
			"created_by", "approved_by", "approved_at", "created_at", "updated_at").
		Values(med.DayID, med.LanguageCode, med.Title, med.Body, string(med.Source), string(med.Status),
			med.CreatedBy, med.ApprovedBy, med.ApprovedAt, med.CreatedAt, med.UpdatedAt)

	id, err := s.insertID(ctx, insert)
	if err != nil {
		return domain.GospelMeditation{}, fmt.Errorf("insert meditation: %w", err)
	}

	med.ID = id
	return med, nil
}

// GetMeditation retrieves a meditation by ID.
func (s *SQL) GetMeditation(ctx context.Context, id int64) (domain.GospelMeditation, bool, error) {
	query := s.builder.
		Select("id", "day_id", "language_code", "title", "body", "source", "status",
			"created_by", "approved_by", "approved_at", "created_at", "updated_at").
		From("gospel_meditations").
		Where(sq.Eq{"id": id})

	stmt, args, err := query.ToSql()
	if err != nil {
		return domain.GospelMeditation{}, false, fmt.Errorf("build query: %w", err)
	}

	var med domain.GospelMeditation
	var rawSource, rawStatus string
	var approvedAt sql.NullTime
	err = s.db.QueryRowContext(ctx, stmt, args...).Scan(
		&med.ID, &med.DayID, &med.LanguageCode, &med.Title, &med.Body, &rawSource, &rawStatus,
		&med.CreatedBy, &med.ApprovedBy, &approvedAt, &med.CreatedAt, &med.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.GospelMeditation{}, false, nil
	}
	if err != nil {
		return domain.GospelMeditation{}, false, fmt.Errorf("query meditation: %w", err)
	}

	med.Source = domain.MeditationSource(rawSource)
	med.Status, err = domain.ParseMeditationStatus(rawStatus)
	if err != nil {
		return domain.GospelMeditation{}, false, fmt.Errorf("stored meditation: %w", err)
	}
	if approvedAt.Valid {
		at := approvedAt.Time
		med.ApprovedAt = &at
	}
	return med, true, nil
}

// SaveMeditation overwrites an existing meditation's mutable fields.
func (s *SQL) SaveMeditation(ctx context.Context, med domain.GospelMeditation) error {
	update := s.builder.
		Update("gospel_meditations").
		Set("title", med.Title).
		Set("body", med.Body).
		Set("source", string(med.Source)).
		Set("status", string(med.Status)).
		Set("approved_by", med.ApprovedBy).
		Set("approved_at", med.ApprovedAt).
		Set("updated_at", time.Now().UTC()).
		Where(sq.Eq{"id": med.ID})

	stmt, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	result, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update meditation: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("meditation %d does not exist", med.ID)
	}
	return nil
}

// insertID executes an insert and returns the generated row ID, using
// RETURNING on Postgres and LastInsertId on SQLite.
func (s *SQL) insertID(ctx context.Context, insert sq.InsertBuilder) (int64, error) {
	if s.driver == "postgres" {
		stmt, args, err := insert.Suffix("RETURNING id").ToSql()
		if err != nil {
			return 0, fmt.Errorf("build insert: %w", err)
		}
		var id int64
		if err := s.db.QueryRowContext(ctx, stmt, args...).Scan(&id); err != nil {
			return 0, err
		}
		return id, nil
	}

	stmt, args, err := insert.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}
	result, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}
