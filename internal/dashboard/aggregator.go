// Package dashboard aggregates classified reports for the companion
// analysis view and its export.
package dashboard

import (
	"sort"
	"time"

	"github.com/hoursboard/timereport/internal/eventtype"
	"github.com/hoursboard/timereport/internal/report"
)

// ProjectTotal is the reported effort of one project.
type ProjectTotal struct {
	ProjectID string  `json:"projectId"`
	Hours     float64 `json:"hours"`
	Days      int     `json:"days"`
}

// CategoryTotal is the reported effort of one semantic category.
type CategoryTotal struct {
	Category eventtype.Category `json:"category"`
	Hours    float64            `json:"hours"`
	Days     int                `json:"days"`
}

// DailyTotal is the reported effort of one calendar day.
type DailyTotal struct {
	Date  string  `json:"date"` // "YYYY-MM-DD"
	Hours float64 `json:"hours"`
	Days  int     `json:"days"`
}

// Summary aggregates a date range of reports. Hours cover timed events;
// Days cover all-day events. Temporary placeholders appear in the category
// breakdown but are excluded from the headline totals, since they are not
// yet real reports.
type Summary struct {
	From          time.Time       `json:"from"`
	To            time.Time       `json:"to"`
	TotalHours    float64         `json:"totalHours"`
	BillableHours float64         `json:"billableHours"`
	TotalDays     int             `json:"totalDays"`
	ByProject     []ProjectTotal  `json:"byProject"`
	ByCategory    []CategoryTotal `json:"byCategory"`
	ByDay         []DailyTotal    `json:"byDay"`
}

// Summarize groups and sums reports by project, category and day.
// Unclassifiable reports (unknown event index) are skipped.
func Summarize(reports []report.Report, mapping *eventtype.Mapping, from, to time.Time) Summary {
	summary := Summary{From: from, To: to}

	byProject := make(map[string]*ProjectTotal)
	byCategory := make(map[eventtype.Category]*CategoryTotal)
	byDay := make(map[string]*DailyTotal)

	for _, rep := range reports {
		category, ok := mapping.Categorize(rep.EventIndex)
		if !ok {
			continue
		}

		var hours float64
		var days int
		if category == eventtype.CategoryAllDay {
			days = rep.Span().Days
		} else {
			hours = rep.DurationValue
		}

		if category != eventtype.CategoryTemporary {
			summary.TotalHours += hours
			summary.TotalDays += days
			if category == eventtype.CategoryBillable {
				summary.BillableHours += hours
			}
		}

		pt := byProject[rep.ProjectID]
		if pt == nil {
			pt = &ProjectTotal{ProjectID: rep.ProjectID}
			byProject[rep.ProjectID] = pt
		}
		pt.Hours += hours
		pt.Days += days

		ct := byCategory[category]
		if ct == nil {
			ct = &CategoryTotal{Category: category}
			byCategory[category] = ct
		}
		ct.Hours += hours
		ct.Days += days

		day := rep.Date.Format("2006-01-02")
		dt := byDay[day]
		if dt == nil {
			dt = &DailyTotal{Date: day}
			byDay[day] = dt
		}
		dt.Hours += hours
		dt.Days += days
	}

	for _, pt := range byProject {
		summary.ByProject = append(summary.ByProject, *pt)
	}
	sort.Slice(summary.ByProject, func(i, j int) bool {
		if summary.ByProject[i].Hours != summary.ByProject[j].Hours {
			return summary.ByProject[i].Hours > summary.ByProject[j].Hours
		}
		return summary.ByProject[i].ProjectID < summary.ByProject[j].ProjectID
	})

	// Category breakdown in the enum's display order.
	for _, category := range eventtype.Categories {
		if ct := byCategory[category]; ct != nil {
			summary.ByCategory = append(summary.ByCategory, *ct)
		}
	}

	for _, dt := range byDay {
		summary.ByDay = append(summary.ByDay, *dt)
	}
	sort.Slice(summary.ByDay, func(i, j int) bool {
		return summary.ByDay[i].Date < summary.ByDay[j].Date
	})

	return summary
}
