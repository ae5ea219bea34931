package domain

import (
	"fmt"
	"time"
)

// LiturgicalDay is the aggregate root for one calendar date of the liturgical
// cycle. Calendar metadata (year, season, rank) is supplied externally; this
// core never computes it.
type LiturgicalDay struct {
	ID                    int64
	Date                  time.Time
	LiturgicalYear        string
	Season                string
	Rank                  string
	IsHolyDayOfObligation bool
}

// ReadingType enumerates the typed slots a reading can occupy on a given day.
type ReadingType string

const (
	FirstReading  ReadingType = "FIRST_READING"
	SecondReading ReadingType = "SECOND_READING"
	Gospel        ReadingType = "GOSPEL"
)

// ParseReadingType rejects unknown values at the boundary.
func ParseReadingType(value string) (ReadingType, error) {
	switch ReadingType(value) {
	case FirstReading, SecondReading, Gospel:
		return ReadingType(value), nil
	}
	return "", fmt.Errorf("unknown reading type %q", value)
}

// DailyReading is one scripture reading attached to a LiturgicalDay.
// The tuple (DayID, LanguageCode, ReadingType, Order) is unique and serves
// as the upsert key.
type DailyReading struct {
	ID            int64
	DayID         int64
	LanguageCode  string
	ReadingType   ReadingType
	Order         int
	Reference     string
	PsalmResponse string
	Title         string
	Text          string
}

// MeditationSource records whether a meditation was machine-drafted or
// written by a person.
type MeditationSource string

const (
	SourceAI    MeditationSource = "AI"
	SourceHuman MeditationSource = "HUMAN"
)

// MeditationStatus is the moderation state of a meditation.
type MeditationStatus string

const (
	StatusDraft     MeditationStatus = "DRAFT"
	StatusApproved  MeditationStatus = "APPROVED"
	StatusRejected  MeditationStatus = "REJECTED"
	StatusPublished MeditationStatus = "PUBLISHED"
)

// ParseMeditationStatus rejects unknown values at the boundary.
func ParseMeditationStatus(value string) (MeditationStatus, error) {
	switch MeditationStatus(value) {
	case StatusDraft, StatusApproved, StatusRejected, StatusPublished:
		return MeditationStatus(value), nil
	}
	return "", fmt.Errorf("unknown meditation status %q", value)
}

// GospelMeditation is a devotional text drafted from the day's gospel.
// ApprovedBy and ApprovedAt stay empty in every non-approved state and are
// stamped exactly once when the status first reaches APPROVED.
type GospelMeditation struct {
	ID           int64
	DayID        int64
	LanguageCode string
	Title        string
	Body         string
	Source       MeditationSource
	Status       MeditationStatus
	CreatedBy    string
	ApprovedBy   string
	ApprovedAt   *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ReadingBlock is the extractor's stable output: one labeled section of the
// source page, body paragraphs already joined with blank lines.
type ReadingBlock struct {
	Title     string
	Reference string
	Text      string
}

// Midnight normalizes a timestamp to its calendar date at midnight UTC,
// the canonical form for LiturgicalDay.Date.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
