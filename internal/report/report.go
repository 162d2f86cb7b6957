// Package report is the save/read path for time reports: it joins the
// classifier, duration codec and day-span calculator to turn a report into
// board column payloads and back.
package report

import (
	"time"

	"github.com/hoursboard/timereport/internal/board"
	"github.com/hoursboard/timereport/internal/duration"
	"github.com/hoursboard/timereport/internal/eventtype"
	"github.com/hoursboard/timereport/internal/schedule"
)

// ColumnIDs names the board columns a report is stored across. They are
// installation-specific and come from configuration.
type ColumnIDs struct {
	EventType string `mapstructure:"event_type"`
	Approval  string `mapstructure:"approval"`
	Date      string `mapstructure:"date"`
	Duration  string `mapstructure:"duration"`
	Notes     string `mapstructure:"notes"`
}

// Report is one time report, timed or all-day. DurationValue is hours for
// timed reports and whole days for all-day reports; which one applies is
// decided by the event index's classification, never stored.
type Report struct {
	ItemID        string    `json:"itemId,omitempty"`
	Title         string    `json:"title"`
	ProjectID     string    `json:"projectId"`
	TaskID        string    `json:"taskId,omitempty"`
	StageID       string    `json:"stageId,omitempty"`
	Date          time.Time `json:"date"`
	EventIndex    string    `json:"eventIndex"`
	StartTime     string    `json:"startTime,omitempty"` // "HH:mm", timed only
	EndTime       string    `json:"endTime,omitempty"`   // "HH:mm", timed only
	DurationValue float64   `json:"durationValue"`
	Notes         string    `json:"notes,omitempty"`
	ApprovalIndex string    `json:"approvalIndex,omitempty"`
}

// IsAllDay reports whether the report's event index classifies as all-day.
func (r Report) IsAllDay(mapping *eventtype.Mapping) bool {
	return mapping.IsAllDay(r.EventIndex)
}

// Span returns the date range of an all-day report.
func (r Report) Span() duration.Span {
	return duration.NewSpan(r.Date, int(r.DurationValue))
}

// startOfDay combines the report date with its "HH:mm" start time. Reports
// without a parsable start time sit at midnight.
func (r Report) startOfDay() time.Time {
	base := time.Date(r.Date.Year(), r.Date.Month(), r.Date.Day(), 0, 0, 0, 0, r.Date.Location())
	t, err := time.Parse("15:04", r.StartTime)
	if err != nil {
		return base
	}
	return base.Add(time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute)
}

// ColumnValues encodes the report into the column payloads the board API
// expects. All-day reports write a date without a time component and their
// duration as whole days; timed reports write a timestamp and hours.
func (r Report) ColumnValues(cols ColumnIDs, mapping *eventtype.Mapping) map[string]any {
	values := map[string]any{
		cols.EventType: board.NewStatusValue(r.EventIndex),
		cols.Duration:  duration.FormatForSave(r.DurationValue, r.EventIndex, mapping),
	}

	if r.IsAllDay(mapping) {
		values[cols.Date] = board.NewAllDayDateValue(r.Date)
	} else {
		values[cols.Date] = board.NewTimedDateValue(r.startOfDay())
	}

	if r.ApprovalIndex != "" && cols.Approval != "" {
		values[cols.Approval] = board.NewStatusValue(r.ApprovalIndex)
	}
	if cols.Notes != "" {
		values[cols.Notes] = r.Notes
	}

	return values
}

// FromItem decodes a board item back into a Report. Returns ok=false when
// the item lacks the event-type or date column; individually malformed
// columns degrade to zero values.
func FromItem(item board.Item, cols ColumnIDs, mapping *eventtype.Mapping, loc *time.Location) (Report, bool) {
	status, ok := board.ParseStatusColumn(item.ColumnValues[cols.EventType])
	if !ok {
		return Report{}, false
	}

	at, timed, ok := board.ParseDateColumn(item.ColumnValues[cols.Date], loc)
	if !ok {
		return Report{}, false
	}

	r := Report{
		ItemID:     item.ID,
		Title:      item.Name,
		Date:       at,
		EventIndex: status.IndexKey(),
	}

	record := duration.Parse(board.ParseNumberColumn(item.ColumnValues[cols.Duration]), r.EventIndex, mapping)
	r.DurationValue = record.Value

	if timed && record.Unit == duration.UnitHours {
		r.StartTime = at.Format("15:04")
		r.EndTime = schedule.EndOfBlock(r.StartTime, record.Value)
	}

	if cols.Approval != "" {
		if appr, ok := board.ParseStatusColumn(item.ColumnValues[cols.Approval]); ok {
			r.ApprovalIndex = appr.IndexKey()
		}
	}
	if cols.Notes != "" {
		r.Notes = board.ParseTextColumn(item.ColumnValues[cols.Notes])
	}

	return r, true
}
