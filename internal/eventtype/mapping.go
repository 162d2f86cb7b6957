package eventtype

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Mapping assigns each status-label index to a semantic category. Indexes
// are stored as strings (the board serializes them that way) and insertion
// order is preserved, because multi-valued category lookups are defined by
// the order entries were authored in the configuration UI.
type Mapping struct {
	order      []string
	categories map[string]Category
}

// NewMapping creates an empty mapping.
func NewMapping() *Mapping {
	return &Mapping{categories: make(map[string]Category)}
}

// normalizeIndex canonicalizes an index key: surrounding whitespace is
// dropped and numeric forms collapse to their plain decimal spelling, so
// "07", " 7" and "7" address the same entry. Non-numeric keys (legacy
// text-keyed mappings) pass through trimmed.
func normalizeIndex(index string) string {
	trimmed := strings.TrimSpace(index)
	if n, err := strconv.Atoi(trimmed); err == nil {
		return strconv.Itoa(n)
	}
	return trimmed
}

// Set assigns index to category, appending to the insertion order if the
// index is new.
func (m *Mapping) Set(index string, category Category) {
	key := normalizeIndex(index)
	if _, exists := m.categories[key]; !exists {
		m.order = append(m.order, key)
	}
	m.categories[key] = category
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
		value, err := json.Marshal(m.categories[key])
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
	m.categories = make(map[string]Category)

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("event type mapping must be a JSON object")
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
			return fmt.Errorf("invalid category for index %q: %w", key, err)
		}
		m.Set(key, Category(value))
	}

	_, err = dec.Token() // closing brace
	return err
}

// LabelInfo carries the display text and color of one status option.
type LabelInfo struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

// LabelMeta holds display metadata per status index, parallel to a Mapping.
// It is display-only and carries no behavioral meaning.
type LabelMeta map[string]LabelInfo

// Text returns the display label for an index, or "" if absent.
func (lm LabelMeta) Text(index string) string {
	if lm == nil {
		return ""
	}
	return lm[normalizeIndex(index)].Label
}

// Color returns the display color for an index, or "" if absent.
func (lm LabelMeta) Color(index string) string {
	if lm == nil {
		return ""
	}
	return lm[normalizeIndex(index)].Color
}

// Set assigns display metadata for an index.
func (lm LabelMeta) Set(index, label, color string) {
	lm[normalizeIndex(index)] = LabelInfo{Label: label, Color: color}
}

// ValidationResult reports whether a mapping is usable and every rule it
// violates. It is a result value, never an error: the caller decides
// whether to block saving or merely warn.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// ValidateMapping checks the cardinality rules a usable mapping must
// satisfy: exactly one billable index, exactly one temporary index, at
// least one all-day index. Non-billable entries are unconstrained. All
// violations are reported, not just the first.
func ValidateMapping(m *Mapping) ValidationResult {
	if m == nil {
		return ValidationResult{Errors: []string{"mapping is missing"}}
	}

	var errs []string
	if m.Len() == 0 {
		errs = append(errs, "mapping is empty")
	}

	counts := make(map[Category]int)
	for _, index := range m.order {
		category := m.categories[index]
		if !category.IsValid() {
			errs = append(errs, fmt.Sprintf("unknown category %q for index %s", category, index))
			continue
		}
		counts[category]++
	}

	switch {
	case counts[CategoryBillable] == 0:
		errs = append(errs, "mapping has no billable entry")
	case counts[CategoryBillable] > 1:
		errs = append(errs, "mapping has more than one billable entry")
	}

	switch {
	case counts[CategoryTemporary] == 0:
		errs = append(errs, "mapping has no temporary entry")
	case counts[CategoryTemporary] > 1:
		errs = append(errs, "mapping has more than one temporary entry")
	}

	if counts[CategoryAllDay] == 0 {
		errs = append(errs, "mapping has no all-day entry")
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}
