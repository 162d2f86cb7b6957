package board

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/hoursboard/timereport/internal/eventtype"
)

// Column payload shapes. Status columns are written by index only, never by
// label text, so classifications survive renames. Date columns for all-day
// events must omit the time component entirely; its absence is what marks
// the item as all-day on the platform side.

// StatusValue is the write payload of a status column.
type StatusValue struct {
	Index int `json:"index"`
}

// StatusColumn is the read shape of a status column value.
type StatusColumn struct {
	Index      int    `json:"index"`
	Label      string `json:"label"`
	Text       string `json:"text"`
	LabelStyle struct {
		Color string `json:"color"`
	} `json:"label_style"`
}

// IndexKey returns the status index in the string form the mapping layer
// keys on.
func (s StatusColumn) IndexKey() string {
	return strconv.Itoa(s.Index)
}

// DateValue is the write payload of a date column. Time is omitted for
// all-day events.
type DateValue struct {
	Date string `json:"date"`
	Time string `json:"time,omitempty"`
}

// NewStatusValue builds a status column payload from a string index.
// Non-numeric indexes degrade to index 0.
func NewStatusValue(index string) StatusValue {
	n, err := strconv.Atoi(index)
	if err != nil {
		return StatusValue{}
	}
	return StatusValue{Index: n}
}

// NewTimedDateValue builds a date column payload carrying both the date and
// the time of day.
func NewTimedDateValue(t time.Time) DateValue {
	return DateValue{
		Date: t.Format("2006-01-02"),
		Time: t.Format("15:04:05"),
	}
}

// NewAllDayDateValue builds a date-only payload. The time component must be
// absent, not zero, for the platform to treat the item as all-day.
func NewAllDayDateValue(t time.Time) DateValue {
	return DateValue{Date: t.Format("2006-01-02")}
}

// ParseStatusColumn decodes a raw status column value.
func ParseStatusColumn(raw json.RawMessage) (StatusColumn, bool) {
	var col StatusColumn
	if len(raw) == 0 || json.Unmarshal(raw, &col) != nil {
		return StatusColumn{}, false
	}
	return col, true
}

// ParseDateColumn decodes a raw date column value. The second result
// reports whether a time component was present (i.e. a timed event).
func ParseDateColumn(raw json.RawMessage, loc *time.Location) (time.Time, bool, bool) {
	var col DateValue
	if len(raw) == 0 || json.Unmarshal(raw, &col) != nil || col.Date == "" {
		return time.Time{}, false, false
	}
	if col.Time != "" {
		t, err := time.ParseInLocation("2006-01-02 15:04:05", col.Date+" "+col.Time, loc)
		if err == nil {
			return t, true, true
		}
	}
	t, err := time.ParseInLocation("2006-01-02", col.Date, loc)
	if err != nil {
		return time.Time{}, false, false
	}
	return t, false, true
}

// ParseNumberColumn decodes a numeric column, which the platform returns
// either as a bare string or as a JSON-encoded decimal.
func ParseNumberColumn(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return ""
}

// ParseTextColumn decodes a plain text column value.
func ParseTextColumn(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// StatusOptions converts a status column's settings labels into the
// eventtype option shape used by the legacy mapping migrations.
func StatusOptions(cols []StatusColumn) []eventtype.StatusOption {
	out := make([]eventtype.StatusOption, 0, len(cols))
	for _, col := range cols {
		out = append(out, eventtype.StatusOption{
			Index: col.Index,
			Label: col.Label,
			Color: col.LabelStyle.Color,
		})
	}
	return out
}
