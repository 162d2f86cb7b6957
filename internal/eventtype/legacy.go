package eventtype

import "strconv"

// StatusOption is one option of the board's status column as read from the
// platform: a stable numeric index plus its current display text and color.
type StatusOption struct {
	Index int    `json:"index"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// Canonical label texts the original installations shipped with. Legacy
// configurations carried no mapping at all; the event-type semantics lived
// in these exact Hebrew labels.
var canonicalCategories = map[string]Category{
	"שעתי":     CategoryBillable,
	"לא לחיוב": CategoryNonBillable,
	"זמני":     CategoryTemporary,
	"חופשה":    CategoryAllDay,
	"מחלה":     CategoryAllDay,
	"מילואים":  CategoryAllDay,
}

// IsLegacyMapping detects the pre-index mapping format, which was keyed by
// label text instead of the numeric status index. Any non-numeric key marks
// the whole mapping as legacy.
func IsLegacyMapping(m *Mapping) bool {
	if m == nil {
		return false
	}
	for _, key := range m.order {
		if _, err := strconv.Atoi(key); err != nil {
			return true
		}
	}
	return false
}

// CreateLegacyMapping builds an index-keyed mapping by matching the board's
// current labels against the canonical label set. Single-valued categories
// take the first matching label; later duplicates are ignored rather than
// double-mapped. Returns ok=false when the labels do not cover the minimum
// required set (billable, temporary and at least one all-day), in which
// case the caller must fall back to manual configuration.
func CreateLegacyMapping(options []StatusOption) (*Mapping, LabelMeta, bool) {
	mapping := NewMapping()
	meta := make(LabelMeta)

	taken := make(map[Category]bool)
	for _, opt := range options {
		category, known := canonicalCategories[opt.Label]
		if !known {
			continue
		}
		if category != CategoryAllDay && category != CategoryNonBillable && taken[category] {
			continue
		}
		taken[category] = true

		index := strconv.Itoa(opt.Index)
		mapping.Set(index, category)
		meta.Set(index, opt.Label, opt.Color)
	}

	if !taken[CategoryBillable] || !taken[CategoryTemporary] || !taken[CategoryAllDay] {
		return nil, nil, false
	}

	return mapping, meta, true
}
