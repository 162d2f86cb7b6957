package approval

import (
	"strconv"

	"github.com/hoursboard/timereport/internal/eventtype"
)

// LabelMeta holds display metadata per approval status index.
type LabelMeta = eventtype.LabelMeta

// Canonical label texts used to seed a mapping when none exists yet.
var canonicalStatuses = map[string]Status{
	"ממתין": StatusPending,
	"מאושר": StatusApproved,
	"נדחה":  StatusRejected,
}

// CreateLegacyMapping builds an approval mapping by matching the board's
// current labels against the canonical label set. First match wins per
// state. Returns ok=false unless all three states are found.
func CreateLegacyMapping(options []eventtype.StatusOption) (*Mapping, LabelMeta, bool) {
	mapping := NewMapping()
	meta := make(LabelMeta)

	taken := make(map[Status]bool)
	for _, opt := range options {
		status, known := canonicalStatuses[opt.Label]
		if !known || taken[status] {
			continue
		}
		taken[status] = true

		index := strconv.Itoa(opt.Index)
		mapping.Set(index, status)
		meta.Set(index, opt.Label, opt.Color)
	}

	if !taken[StatusPending] || !taken[StatusApproved] || !taken[StatusRejected] {
		return nil, nil, false
	}

	return mapping, meta, true
}
