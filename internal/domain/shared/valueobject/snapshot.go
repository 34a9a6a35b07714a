package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Snapshot is an opaque structured blob captured at document creation time
// (customer identity, postal address). Its shape is caller-defined; the core
// passes it through without interpreting individual fields, so historical
// records stay readable even after the source record changes or disappears.
type Snapshot map[string]any

// IsEmpty returns true if the snapshot carries no data
func (s Snapshot) IsEmpty() bool {
	return len(s) == 0
}

// Equals compares two snapshots by their canonical JSON encoding
func (s Snapshot) Equals(other Snapshot) bool {
	a, err := json.Marshal(s)
	if err != nil {
		return false
	}
	b, err := json.Marshal(other)
	if err != nil {
		return false
	}
	return string(a) == string(b)
}

// Value implements driver.Valuer for database storage as JSON
func (s Snapshot) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for database retrieval
func (s *Snapshot) Scan(value any) error {
	if value == nil {
		*s = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into Snapshot", value)
	}
	return json.Unmarshal(data, s)
}

// GormDataType tells GORM to store snapshots in a JSON column
func (Snapshot) GormDataType() string {
	return "jsonb"
}
