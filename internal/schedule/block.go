// Package schedule reconciles the ordered time blocks of the multi-entry
// report form. Editing one field of one block (start, end or duration)
// resolves that block with anchor/resize/shift rules, then pushes any
// now-overlapping successors forward so the sequence stays overlap-free.
package schedule

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// minutesPerDay is the modulus for all clock arithmetic. Blocks belong to a
// single reporting day; arithmetic past midnight wraps instead of rolling
// the date.
const minutesPerDay = 1440

// minBlockMinutes is the floor applied whenever a block duration is
// reconstructed from prior state or edited directly.
const minBlockMinutes = 30

// defaultBlockMinutes is assumed for a block with neither times nor hours.
const defaultBlockMinutes = 60

// Block is one row of the multi-entry report form.
type Block struct {
	ID              string `json:"id"`
	ProjectID       string `json:"projectId"`
	TaskID          string `json:"taskId,omitempty"`
	StageID         string `json:"stageId,omitempty"`
	StartTime       string `json:"startTime"` // "HH:mm"
	EndTime         string `json:"endTime"`   // "HH:mm"
	Hours           string `json:"hours"`     // decimal string
	Notes           string `json:"notes,omitempty"`
	IsBillable      bool   `json:"isBillable"`
	NonBillableType string `json:"nonBillableType,omitempty"`
}

// Field names an editable time field of a block.
type Field string

const (
	FieldStartTime Field = "startTime"
	FieldEndTime   Field = "endTime"
	FieldHours     Field = "hours"
)

// parseClock converts "HH:mm" to minutes since midnight. Malformed strings
// report ok=false and are treated as absent by all callers.
func parseClock(s string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// formatClock converts minutes since midnight (mod 1440) back to "HH:mm".
func formatClock(minutes int) string {
	minutes = ((minutes % minutesPerDay) + minutesPerDay) % minutesPerDay
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// formatHours renders a minute count as a decimal hour string, two places.
func formatHours(minutes int) string {
	return strconv.FormatFloat(float64(minutes)/60, 'f', 2, 64)
}

// parseHours reads a decimal hour string; malformed values report ok=false.
func parseHours(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// EndOfBlock returns the "HH:mm" end of a block starting at start and
// lasting hours, modulo the day. Malformed starts yield "".
func EndOfBlock(start string, hours float64) string {
	s, ok := parseClock(start)
	if !ok {
		return ""
	}
	return formatClock(s + int(math.Round(hours*60)))
}

// durationMinutes reconstructs a block's duration from its current state:
// end minus start when both parse, else the hours field, else one hour.
// Never below the 30-minute floor.
func durationMinutes(b Block) int {
	start, startOK := parseClock(b.StartTime)
	end, endOK := parseClock(b.EndTime)
	if startOK && endOK {
		d := ((end - start) + minutesPerDay) % minutesPerDay
		if d < minBlockMinutes {
			return minBlockMinutes
		}
		return d
	}

	if hours, ok := parseHours(b.Hours); ok {
		d := int(math.Round(hours * 60))
		if d < minBlockMinutes {
			return minBlockMinutes
		}
		return d
	}

	return defaultBlockMinutes
}
