package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
)

// StringMap is a string-to-string map persisted as jsonb (tags).
type StringMap map[string]string

func (m StringMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	return string(b), err
}

func (m *StringMap) Scan(src interface{}) error {
	return scanJSON(src, m)
}

// JSONMap is a free-form map persisted as jsonb (item metadata, audit details).
// Values are validated against per-item-type templates at the API boundary;
// downstream code never trusts arbitrary shapes.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	return string(b), err
}

func (m *JSONMap) Scan(src interface{}) error {
	return scanJSON(src, m)
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return errors.New("model: unsupported jsonb source type")
	}
}
