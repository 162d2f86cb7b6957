// Package settings round-trips the widget's persisted configuration blobs.
// The stored form is untrusted JSON owned by the host's settings surface;
// everything is validated at this boundary and malformed pieces degrade to
// absent rather than failing the load.
package settings

import (
	"encoding/json"

	"github.com/hoursboard/timereport/internal/approval"
	"github.com/hoursboard/timereport/internal/eventtype"
)

// Settings is the decoded application configuration. Field names mirror the
// keys the host persists, so blobs written by older installations load
// unchanged.
type Settings struct {
	EventTypeMapping    *eventtype.Mapping  `json:"eventTypeMapping"`
	EventTypeLabelMeta  eventtype.LabelMeta `json:"eventTypeLabelMeta"`
	ApprovalMapping     *approval.Mapping   `json:"approvalStatusMapping"`
	ApprovalLabelMeta   approval.LabelMeta  `json:"approvalStatusLabelMeta"`
}

// Decode parses a raw settings blob. Individual fields that fail to parse
// are dropped, not fatal: a corrupt approval mapping must not take the
// event-type configuration down with it.
func Decode(raw []byte) *Settings {
	s := &Settings{}
	if len(raw) == 0 {
		return s
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return s
	}

	if blob, ok := fields["eventTypeMapping"]; ok {
		var m eventtype.Mapping
		if err := json.Unmarshal(blob, &m); err == nil && m.Len() > 0 {
			s.EventTypeMapping = &m
		}
	}
	if blob, ok := fields["eventTypeLabelMeta"]; ok {
		var meta eventtype.LabelMeta
		if err := json.Unmarshal(blob, &meta); err == nil {
			s.EventTypeLabelMeta = meta
		}
	}
	if blob, ok := fields["approvalStatusMapping"]; ok {
		var m approval.Mapping
		if err := json.Unmarshal(blob, &m); err == nil && m.Len() > 0 {
			s.ApprovalMapping = &m
		}
	}
	if blob, ok := fields["approvalStatusLabelMeta"]; ok {
		var meta approval.LabelMeta
		if err := json.Unmarshal(blob, &meta); err == nil {
			s.ApprovalLabelMeta = meta
		}
	}

	return s
}

// Encode serializes the settings for persistence.
func (s *Settings) Encode() ([]byte, error) {
	return json.Marshal(s)
}

// ValidationSummary aggregates the validation of both mappings.
type ValidationSummary struct {
	EventTypes eventtype.ValidationResult `json:"eventTypes"`
	Approval   approval.ValidationResult  `json:"approval"`
}

// IsValid reports whether both mappings are usable.
func (v ValidationSummary) IsValid() bool {
	return v.EventTypes.IsValid && v.Approval.IsValid
}

// Validate checks both mappings and reports every violation.
func (s *Settings) Validate() ValidationSummary {
	return ValidationSummary{
		EventTypes: eventtype.ValidateMapping(s.EventTypeMapping),
		Approval:   approval.ValidateMapping(s.ApprovalMapping),
	}
}

// Migrate fills in missing or legacy-format mappings from the board's
// current status labels. Returns true when anything changed and the
// settings need re-persisting. An event-type mapping in the legacy
// text-keyed format is rebuilt; a valid index-keyed one is left alone.
func (s *Settings) Migrate(statusOptions, approvalOptions []eventtype.StatusOption) bool {
	changed := false

	if s.EventTypeMapping == nil || eventtype.IsLegacyMapping(s.EventTypeMapping) {
		if mapping, meta, ok := eventtype.CreateLegacyMapping(statusOptions); ok {
			s.EventTypeMapping = mapping
			s.EventTypeLabelMeta = meta
			changed = true
		}
	}

	if s.ApprovalMapping == nil {
		if mapping, meta, ok := approval.CreateLegacyMapping(approvalOptions); ok {
			s.ApprovalMapping = mapping
			s.ApprovalLabelMeta = meta
			changed = true
		}
	}

	return changed
}
