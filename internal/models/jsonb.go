package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// JSONB is a thin helper for storing arbitrary JSON with GORM.
type JSONB []byte

// FromMap marshals m into a JSONB value; nil maps become "{}".
func FromMap(m map[string]any) JSONB {
	if len(m) == 0 {
		return JSONB("{}")
	}
	b, err := json.Marshal(m)
	if err != nil {
		return JSONB("{}")
	}
	return JSONB(b)
}

func (j JSONB) Value() (driver.Value, error) {
	if len(j) == 0 {
		return []byte("{}"), nil
	}
	return []byte(j), nil
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = JSONB("{}")
		return nil
	}
	switch v := value.(type) {
	case []byte:
		*j = JSONB(v)
		return nil
	case string:
		*j = JSONB([]byte(v))
		return nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("jsonb scan: %w", err)
		}
		*j = JSONB(b)
		return nil
	}
}

func (j JSONB) MarshalJSON() ([]byte, error) {
	if len(j) == 0 {
		return []byte("{}"), nil
	}
	return j, nil
}

func (j *JSONB) UnmarshalJSON(data []byte) error {
	*j = JSONB(data)
	return nil
}
