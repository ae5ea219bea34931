package daterange

import (
	"errors"
	"fmt"
	"time"

	"lectio/internal/domain"
)

// ErrInvalidRange marks a malformed date string in the range options.
var ErrInvalidRange = errors.New("invalid date range")

const isoDate = "2006-01-02"

// Options carries the raw CLI-style inputs. Empty strings and zero Days mean
// "not given".
type Options struct {
	Date  string
	Start string
	End   string
	Days  int
}

// Resolve turns the options into an ordered, inclusive sequence of dates at
// midnight UTC.
//
// Priority: Start (with End, else Days, else single day) wins over Date;
// with neither, the range defaults to today. End before Start yields an
// empty slice, not an error; callers treat that as a no-op.
func Resolve(opts Options) ([]time.Time, error) {
	now := time.Now()
	return resolveAt(opts, now)
}

func resolveAt(opts Options, now time.Time) ([]time.Time, error) {
	var start, end time.Time
	var err error

	switch {
	case opts.Start != "":
		start, err = parseDate(opts.Start)
		if err != nil {
			return nil, err
		}
		switch {
		case opts.End != "":
			end, err = parseDate(opts.End)
			if err != nil {
				return nil, err
			}
		case opts.Days > 0:
			end = start.AddDate(0, 0, opts.Days-1)
		default:
			end = start
		}
	case opts.Date != "":
		start, err = parseDate(opts.Date)
		if err != nil {
			return nil, err
		}
		end = start
	default:
		start = domain.Midnight(now)
		end = start
	}

	var dates []time.Time
	for current := start; !current.After(end); current = current.AddDate(0, 0, 1) {
		dates = append(dates, current)
	}
	return dates, nil
}

func parseDate(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(isoDate, value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidRange, value)
	}
	return parsed, nil
}
