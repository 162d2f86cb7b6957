// Package eventtype maps the host board's user-configurable status labels
// onto the fixed semantic categories the reporting logic branches on.
// Status options are identified by the board's stable numeric index, never
// by display text, so classifications survive label renames.
package eventtype

// Category is the semantic meaning assigned to a status-label index.
type Category string

// Semantic categories. The string values are the wire form stored in the
// persisted eventTypeMapping settings blob.
const (
	CategoryBillable    Category = "billable"
	CategoryNonBillable Category = "nonBillable"
	CategoryAllDay      Category = "allDay"
	CategoryTemporary   Category = "temporary"
)

// Categories lists all valid categories in display order.
var Categories = []Category{
	CategoryBillable,
	CategoryNonBillable,
	CategoryAllDay,
	CategoryTemporary,
}

// IsValid reports whether c is one of the known categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryBillable, CategoryNonBillable, CategoryAllDay, CategoryTemporary:
		return true
	}
	return false
}

// String returns the wire form of the category.
func (c Category) String() string {
	return string(c)
}
