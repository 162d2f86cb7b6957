// Package duration converts between the raw scalar duration stored on the
// board's number column and its unit-aware form. Timed events carry hours;
// all-day events carry whole days, with the legacy convention that a stored
// zero means one day.
package duration

import (
	"math"
	"strconv"
	"strings"

	"github.com/hoursboard/timereport/internal/eventtype"
)

// Unit distinguishes hour-valued from day-valued durations.
type Unit string

const (
	UnitHours Unit = "hours"
	UnitDays  Unit = "days"
)

// Record is the decoded, typed form of a raw stored duration. Days are
// always whole and at least 1; hours are non-negative reals.
type Record struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Parse decodes a raw stored value according to the event's classification.
// All-day events round to the nearest whole day with a floor of 1; a stored
// zero or unparsable value also decodes to 1 day (legacy installations
// saved 0 to mean a single day). Timed events parse as plain hours, with
// unparsable values degrading to 0 rather than failing.
func Parse(raw string, eventIndex string, mapping *eventtype.Mapping) Record {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)

	if mapping.IsAllDay(eventIndex) {
		if err != nil || value == 0 {
			return Record{Value: 1, Unit: UnitDays}
		}
		days := math.Round(value)
		if days < 1 {
			days = 1
		}
		return Record{Value: days, Unit: UnitDays}
	}

	if err != nil {
		return Record{Value: 0, Unit: UnitHours}
	}
	return Record{Value: value, Unit: UnitHours}
}

// FormatForSave encodes a duration for the board's number column. All-day
// events save as an integer day count (never below 1, no decimal point);
// timed events save hours with two decimals.
func FormatForSave(value float64, eventIndex string, mapping *eventtype.Mapping) string {
	if mapping.IsAllDay(eventIndex) {
		days := math.Round(value)
		if days < 1 {
			days = 1
		}
		return strconv.Itoa(int(days))
	}
	return strconv.FormatFloat(value, 'f', 2, 64)
}
