package domain

import (
	"time"

	"github.com/bolsillo/bolsillo-backend/internal/util"
)

// DefaultRangeMonths is the length of the default trailing window
const DefaultRangeMonths = 6

// DateRange is an inclusive day-granular window. A zero bound means the
// range is open and filtering is disabled.
type DateRange struct {
	From time.Time `json:"from,omitzero"`
	To   time.Time `json:"to,omitzero"`
}

// DefaultDateRange returns the trailing six months ending at now
func DefaultDateRange(now time.Time) DateRange {
	return DateRange{
		From: util.SubtractMonths(now, DefaultRangeMonths),
		To:   now,
	}
}

// IsBounded reports whether both bounds are set
func (r DateRange) IsBounded() bool {
	return !r.From.IsZero() && !r.To.IsZero()
}

// Bounds returns the start of the first day and the end of the last day
func (r DateRange) Bounds() (time.Time, time.Time) {
	return util.StartOfDay(r.From), util.EndOfDay(r.To)
}

// Contains reports whether t falls on a day inside the range
func (r DateRange) Contains(t time.Time) bool {
	if !r.IsBounded() {
		return true
	}
	start, end := r.Bounds()
	day := util.StartOfDay(t.In(start.Location()))
	return !day.Before(start) && !day.After(end)
}

// Validate rejects ranges whose start is after their end
func (r DateRange) Validate() error {
	if r.IsBounded() && util.StartOfDay(r.From).After(util.StartOfDay(r.To.In(r.From.Location()))) {
		return ErrInvalidDateRange
	}
	return nil
}

// Location is the time zone day boundaries are computed in
func (r DateRange) Location() *time.Location {
	if r.From.IsZero() {
		return time.UTC
	}
	return r.From.Location()
}
