package eventtype

// Classification is a pure lookup layer over a Mapping. Every function here
// is total: unknown indexes and nil mappings yield zero values, never
// panics, because classification runs on every render of the widget.

// Categorize returns the category assigned to index, or "" (and false) when
// the index is unknown or the mapping is nil.
func (m *Mapping) Categorize(index string) (Category, bool) {
	if m == nil {
		return "", false
	}
	category, ok := m.categories[normalizeIndex(index)]
	return category, ok
}

func (m *Mapping) is(index string, category Category) bool {
	got, ok := m.Categorize(index)
	return ok && got == category
}

// IsBillable reports whether index is the billable status.
func (m *Mapping) IsBillable(index string) bool {
	return m.is(index, CategoryBillable)
}

// IsNonBillable reports whether index is a non-billable timed status.
func (m *Mapping) IsNonBillable(index string) bool {
	return m.is(index, CategoryNonBillable)
}

// IsAllDay reports whether index is a whole-day absence status.
func (m *Mapping) IsAllDay(index string) bool {
	return m.is(index, CategoryAllDay)
}

// IsTemporary reports whether index is the temporary placeholder status.
func (m *Mapping) IsTemporary(index string) bool {
	return m.is(index, CategoryTemporary)
}

func (m *Mapping) firstOf(category Category) (string, bool) {
	if m == nil {
		return "", false
	}
	for _, index := range m.order {
		if m.categories[index] == category {
			return index, true
		}
	}
	return "", false
}

func (m *Mapping) allOf(category Category) []string {
	if m == nil {
		return nil
	}
	var out []string
	for _, index := range m.order {
		if m.categories[index] == category {
			out = append(out, index)
		}
	}
	return out
}

// BillableIndex returns the single billable index, if present.
func (m *Mapping) BillableIndex() (string, bool) {
	return m.firstOf(CategoryBillable)
}

// TemporaryIndex returns the single temporary index, if present.
func (m *Mapping) TemporaryIndex() (string, bool) {
	return m.firstOf(CategoryTemporary)
}

// NonBillableIndexes returns all non-billable indexes in insertion order.
func (m *Mapping) NonBillableIndexes() []string {
	return m.allOf(CategoryNonBillable)
}

// AllDayIndexes returns all all-day indexes in insertion order.
func (m *Mapping) AllDayIndexes() []string {
	return m.allOf(CategoryAllDay)
}

// TimedEventIndex resolves the status index a timed report should be saved
// under: the billable index when billable is true, otherwise the first
// non-billable index. The first-inserted entry is the deterministic
// tie-break for multi-valued non-billable mappings.
func (m *Mapping) TimedEventIndex(billable bool) (string, bool) {
	if billable {
		return m.BillableIndex()
	}
	return m.firstOf(CategoryNonBillable)
}

// CategoryLabel is one status option of a category enriched with its
// display metadata, for populating category-scoped pickers.
type CategoryLabel struct {
	Index string `json:"index"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// LabelsByCategory returns every index mapped to category together with its
// display text and color, in insertion order.
func LabelsByCategory(category Category, m *Mapping, meta LabelMeta) []CategoryLabel {
	indexes := m.allOf(category)
	out := make([]CategoryLabel, 0, len(indexes))
	for _, index := range indexes {
		out = append(out, CategoryLabel{
			Index: index,
			Label: meta.Text(index),
			Color: meta.Color(index),
		})
	}
	return out
}
