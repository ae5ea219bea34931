package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"lectio/internal/domain"
	"lectio/internal/ports"
)

type readingKey struct {
	dayID    int64
	language string
	kind     domain.ReadingType
	order    int
}

// Memory is an in-memory Repository used by workflow tests and dry runs.
type Memory struct {
	mu          sync.Mutex
	nextID      int64
	days        map[string]domain.LiturgicalDay
	readings    map[readingKey]domain.DailyReading
	meditations map[int64]domain.GospelMeditation
}

var _ ports.Repository = (*Memory)(nil)

// NewMemory returns an empty in-memory repository.
func NewMemory() *Memory {
	return &Memory{
		days:        map[string]domain.LiturgicalDay{},
		readings:    map[readingKey]domain.DailyReading{},
		meditations: map[int64]domain.GospelMeditation{},
	}
}

func (m *Memory) allocID() int64 {
	m.nextID++
	return m.nextID
}

func dateKey(date time.Time) string {
	return domain.Midnight(date).Format("2006-01-02")
}

// GetOrCreateDay returns the day for the date, creating it when absent.
func (m *Memory) GetOrCreateDay(ctx context.Context, date time.Time) (domain.LiturgicalDay, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := dateKey(date)
	if day, ok := m.days[key]; ok {
		return day, nil
	}

	day := domain.LiturgicalDay{ID: m.allocID(), Date: domain.Midnight(date)}
	m.days[key] = day
	return day, nil
}

// GetDay looks a day up without creating it.
func (m *Memory) GetDay(ctx context.Context, date time.Time) (domain.LiturgicalDay, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	day, ok := m.days[dateKey(date)]
	return day, ok, nil
}

// UpsertReading creates or overwrites the reading at its unique key.
func (m *Memory) UpsertReading(ctx context.Context, reading domain.DailyReading) (domain.DailyReading, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := readingKey{reading.DayID, reading.LanguageCode, reading.ReadingType, reading.Order}
	if existing, ok := m.readings[key]; ok {
		existing.Title = reading.Title
		existing.Reference = reading.Reference
		existing.PsalmResponse = reading.PsalmResponse
		existing.Text = reading.Text
		m.readings[key] = existing
		return existing, false, nil
	}

	reading.ID = m.allocID()
	m.readings[key] = reading
	return reading, true, nil
}

// FindGospel returns the gospel reading with the smallest order, if any.
func (m *Memory) FindGospel(ctx context.Context, dayID int64, languageCode string) (domain.DailyReading, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var best domain.DailyReading
	found := false
	for key, reading := range m.readings {
		if key.dayID != dayID || key.language != languageCode || key.kind != domain.Gospel {
			continue
		}
		if !found || reading.Order < best.Order {
			best = reading
			found = true
		}
	}
	return best, found, nil
}

// HasMeditation reports whether any meditation exists for the day and language.
func (m *Memory) HasMeditation(ctx context.Context, dayID int64, languageCode string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, med := range m.meditations {
		if med.DayID == dayID && med.LanguageCode == languageCode {
			return true, nil
		}
	}
	return false, nil
}

// CreateMeditation stores a new meditation and stamps the audit timestamps.
func (m *Memory) CreateMeditation(ctx context.Context, med domain.GospelMeditation) (domain.GospelMeditation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	med.ID = m.allocID()
	med.CreatedAt = now
	med.UpdatedAt = now
	m.meditations[med.ID] = med
	return med, nil
}

// GetMeditation retrieves a meditation by ID.
func (m *Memory) GetMeditation(ctx context.Context, id int64) (domain.GospelMeditation, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	med, ok := m.meditations[id]
	return med, ok, nil
}

// SaveMeditation overwrites an existing meditation.
func (m *Memory) SaveMeditation(ctx context.Context, med domain.GospelMeditation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.meditations[med.ID]; !ok {
		return fmt.Errorf("meditation %d does not exist", med.ID)
	}
	med.UpdatedAt = time.Now().UTC()
	m.meditations[med.ID] = med
	return nil
}

// ReadingCount reports the number of stored readings.
func (m *Memory) ReadingCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.readings)
}

// ReadingsFor returns the readings attached to a day, unordered.
func (m *Memory) ReadingsFor(dayID int64) []domain.DailyReading {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.DailyReading
	for key, reading := range m.readings {
		if key.dayID == dayID {
			out = append(out, reading)
		}
	}
	return out
}

// MeditationsFor returns the meditations attached to a day and language.
func (m *Memory) MeditationsFor(dayID int64, languageCode string) []domain.GospelMeditation {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []domain.GospelMeditation
	for _, med := range m.meditations {
		if med.DayID == dayID && med.LanguageCode == languageCode {
			out = append(out, med)
		}
	}
	return out
}
