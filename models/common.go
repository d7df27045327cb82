package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// SectionNotes stores per-section feedback notes as a JSON object column.
// Keys are canonical SectionKey strings; saving an existing key overwrites.
type SectionNotes map[string]string

func (n SectionNotes) Value() (driver.Value, error) {
	if n == nil {
		return "{}", nil
	}
	b, err := json.Marshal(n)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (n *SectionNotes) Scan(value interface{}) error {
	if value == nil {
		*n = SectionNotes{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			*n = SectionNotes{}
			return nil
		}
		return json.Unmarshal(v, n)
	case string:
		if v == "" {
			*n = SectionNotes{}
			return nil
		}
		return json.Unmarshal([]byte(v), n)
	default:
		return fmt.Errorf("cannot scan %T into SectionNotes", value)
	}
}

// JSONMap stores an opaque JSON object column, e.g. folder outline content.
type JSONMap map[string]interface{}

func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			*m = JSONMap{}
			return nil
		}
		return json.Unmarshal(v, m)
	case string:
		if v == "" {
			*m = JSONMap{}
			return nil
		}
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into JSONMap", value)
	}
}

// RatingMap stores per-criterion audit ratings as a JSON object column.
type RatingMap map[string]float64

func (m RatingMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *RatingMap) Scan(value interface{}) error {
	if value == nil {
		*m = RatingMap{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		if len(v) == 0 {
			*m = RatingMap{}
			return nil
		}
		return json.Unmarshal(v, m)
	case string:
		if v == "" {
			*m = RatingMap{}
			return nil
		}
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("cannot scan %T into RatingMap", value)
	}
}
