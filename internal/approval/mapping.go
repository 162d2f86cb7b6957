// Package approval maps status-label indexes onto the three-state
// manager-approval workflow layered on top of reports. It mirrors the
// eventtype package: index-keyed, order-preserving, display text is never
// authoritative.
package approval

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Status is the approval state assigned to a status-label index.
type Status string

// Approval states; the string values are the wire form stored in the
// persisted approvalStatusMapping settings blob.
const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Statuses lists all valid approval states in workflow order.
var Statuses = []Status{StatusPending, StatusApproved, StatusRejected}

// IsValid reports whether s is one of the known approval states.
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// Mapping assigns status-label indexes to approval states. Every state is
// single-valued: at most one index maps to it.
type Mapping struct {
	order    []string
	statuses map[string]Status
}

// NewMapping creates an empty approval mapping.
func NewMapping() *Mapping {
	return &Mapping{statuses: make(map[string]Status)}
}

func normalizeIndex(index string) string {
	trimmed := strings.TrimSpace(index)
	if n, err := strconv.Atoi(trimmed); err == nil {
		return strconv.Itoa(n)
	}
	return trimmed
}

// Set assigns index to status, appending to the insertion order if the
// index is new.
func (m *Mapping) Set(index string, status Status) {
	key := normalizeIndex(index)
	if _, exists := m.statuses[key]; !exists {
		m.order = append(m.order, key)
	}
	m.statuses[key] = status
}

// Len returns the number of entries. Safe on a nil mapping.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.order)
}

// Indexes returns all indexes in insertion order.
func (m *Mapping) Indexes() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Classify returns the approval state assigned to index, or "" (and false)
// for unknown indexes and nil mappings.
func (m *Mapping) Classify(index string) (Status, bool) {
	if m == nil {
		return "", false
	}
	status, ok := m.statuses[normalizeIndex(index)]
	return status, ok
}

func (m *Mapping) is(index string, status Status) bool {
	got, ok := m.Classify(index)
	return ok && got == status
}

// IsPending reports whether index is the pending status.
func (m *Mapping) IsPending(index string) bool { return m.is(index, StatusPending) }

// IsApproved reports whether index is the approved status.
func (m *Mapping) IsApproved(index string) bool { return m.is(index, StatusApproved) }

// IsRejected reports whether index is the rejected status.
func (m *Mapping) IsRejected(index string) bool { return m.is(index, StatusRejected) }

func (m *Mapping) indexOf(status Status) (string, bool) {
	if m == nil {
		return "", false
	}
	for _, index := range m.order {
		if m.statuses[index] == status {
			return index, true
		}
	}
	return "", false
}

// PendingIndex returns the index mapped to pending, if present.
func (m *Mapping) PendingIndex() (string, bool) { return m.indexOf(StatusPending) }

// ApprovedIndex returns the index mapped to approved, if present.
func (m *Mapping) ApprovedIndex() (string, bool) { return m.indexOf(StatusApproved) }

// RejectedIndex returns the index mapped to rejected, if present.
func (m *Mapping) RejectedIndex() (string, bool) { return m.indexOf(StatusRejected) }

// MarshalJSON encodes the mapping as a JSON object in insertion order.
func (m *Mapping) MarshalJSON() ([]byte, error) {
	if m == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range m.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		value, err := json.Marshal(m.statuses[key])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving its key order.
func (m *Mapping) UnmarshalJSON(data []byte) error {
	m.order = nil
	m.statuses = make(map[string]Status)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("approval status mapping must be a JSON object")
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected key token %v", keyTok)
		}
		var value string
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("invalid status for index %q: %w", key, err)
		}
		m.Set(key, Status(value))
	}

	_, err = dec.Token()
	return err
}

// ValidationResult reports whether an approval mapping is usable and every
// rule it violates.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// ValidateMapping checks that each approval state is mapped to exactly one
// index. All violations are reported.
func ValidateMapping(m *Mapping) ValidationResult {
	if m == nil {
		return ValidationResult{Errors: []string{"approval mapping is missing"}}
	}

	var errs []string
	if m.Len() == 0 {
		errs = append(errs, "approval mapping is empty")
	}

	counts := make(map[Status]int)
	for _, index := range m.order {
		status := m.statuses[index]
		if !status.IsValid() {
			errs = append(errs, fmt.Sprintf("unknown approval status %q for index %s", status, index))
			continue
		}
		counts[status]++
	}

	for _, status := range Statuses {
		switch {
		case counts[status] == 0:
			errs = append(errs, fmt.Sprintf("approval mapping has no %s entry", status))
		case counts[status] > 1:
			errs = append(errs, fmt.Sprintf("approval mapping has more than one %s entry", status))
		}
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}
