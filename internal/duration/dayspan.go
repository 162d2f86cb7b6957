package duration

import (
	"math"
	"time"
)

// Span is the date range of an all-day event. End is exclusive: a one-day
// event on day D spans [D 00:00, D+1 00:00). Days is always at least 1.
type Span struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Days  int       `json:"durationDays"`
}

// DaysDiff returns the number of whole days between two dates, in either
// order, never below 1. The ceiling keeps the count stable across DST
// shifts, where a nominal day can be 23 or 25 hours long.
func DaysDiff(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		diff = -diff
	}
	days := int(math.Ceil(diff.Hours() / 24))
	if days < 1 {
		days = 1
	}
	return days
}

// EndDateFromDays returns the exclusive end boundary of an all-day event:
// start truncated to local midnight plus max(1, days) days.
func EndDateFromDays(start time.Time, days int) time.Time {
	if days < 1 {
		days = 1
	}
	midnight := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	return midnight.AddDate(0, 0, days)
}

// NewSpan builds the span of an all-day event from its start date and day
// count.
func NewSpan(start time.Time, days int) Span {
	if days < 1 {
		days = 1
	}
	return Span{
		Start: time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location()),
		End:   EndDateFromDays(start, days),
		Days:  days,
	}
}

// SpanBetween builds a span from a start date and an exclusive end date, as
// produced by a drag-resize of the calendar widget.
func SpanBetween(start, end time.Time) Span {
	return NewSpan(start, DaysDiff(start, end))
}
