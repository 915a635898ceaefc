package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonValue marshals v for storage in a JSONB (PostgreSQL) or JSON text
// (SQLite) column. Used by the custom column types in this package so we
// don't pull in gorm.io/datatypes and its transitive SQLite driver.
func jsonValue(v interface{}) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("error marshaling JSON column: %w", err)
	}
	return b, nil
}

// jsonScan unmarshals a database value (bytes or string) into dest.
// A NULL column leaves dest untouched so zero values apply.
func jsonScan(dest interface{}, value interface{}) error {
	if value == nil {
		return nil
	}

	var b []byte
	switch v := value.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("failed to scan JSON column: unsupported type %T", value)
	}

	if len(b) == 0 {
		return nil
	}
	if err := json.Unmarshal(b, dest); err != nil {
		return fmt.Errorf("invalid JSON in database column: %w", err)
	}
	return nil
}

// StringList is a JSON-encoded list of strings stored in a single column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return jsonValue([]string{})
	}
	return jsonValue([]string(l))
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(value interface{}) error {
	return jsonScan(l, value)
}
