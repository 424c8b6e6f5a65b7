package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringList stores a JSON array of strings in a text column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, fmt.Errorf("models: marshal string list: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	data, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("models: scan string list: %w", err)
	}
	if len(data) == 0 {
		*l = nil
		return nil
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("models: scan string list: %w", err)
	}
	*l = out
	return nil
}

// Metadata is the open key-value bag attached to a task. It is owned by the
// producing collaborator and stored as JSON text; the core interprets only
// the review_reason key.
type Metadata map[string]any

// ReviewReasonKey is the one metadata key the board interprets, used to
// split the review column into approval-needed and blocked sub-buckets.
const ReviewReasonKey = "review_reason"

// ReviewReason returns the review_reason value and whether it is truthy
// (present, non-empty, non-false, non-zero).
func (m Metadata) ReviewReason() (string, bool) {
	v, ok := m[ReviewReasonKey]
	if !ok || v == nil {
		return "", false
	}
	switch t := v.(type) {
	case string:
		return t, t != ""
	case bool:
		return fmt.Sprintf("%v", t), t
	case float64:
		return fmt.Sprintf("%v", t), t != 0
	default:
		return fmt.Sprintf("%v", t), true
	}
}

// Value implements driver.Valuer.
func (m Metadata) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(map[string]any(m))
	if err != nil {
		return nil, fmt.Errorf("models: marshal metadata: %w", err)
	}
	return string(data), nil
}

// Scan implements sql.Scanner.
func (m *Metadata) Scan(src any) error {
	data, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("models: scan metadata: %w", err)
	}
	if len(data) == 0 {
		*m = nil
		return nil
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return fmt.Errorf("models: scan metadata: %w", err)
	}
	*m = out
	return nil
}

// jsonBytes normalizes a scanned column value to raw JSON bytes.
func jsonBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return nil, fmt.Errorf("unsupported column type %T", src)
	}
}
