// internal/model/types.go
package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Roles is a set of free-form role strings stored as a brace-delimited list.
type Roles []string

// Contains reports whether the given role is present.
func (r Roles) Contains(role string) bool {
	for _, v := range r {
		if v == role {
			return true
		}
	}
	return false
}

// Scan implements the sql.Scanner interface
func (r *Roles) Scan(value interface{}) error {
	if value == nil {
		*r = Roles{}
		return nil
	}

	var str string
	switch v := value.(type) {
	case string:
		str = v
	case []byte:
		str = string(v)
	default:
		return fmt.Errorf("unsupported Scan, storing driver.Value type %T into type %T", value, r)
	}

	str = strings.Trim(str, "{}")
	if str == "" {
		*r = Roles{}
		return nil
	}
	*r = strings.Split(str, ",")
	return nil
}

// Value implements the driver.Valuer interface
func (r Roles) Value() (driver.Value, error) {
	if len(r) == 0 {
		return "{}", nil
	}
	return "{" + strings.Join(r, ",") + "}", nil
}

// JSONMap is a free-form JSON object column.
type JSONMap map[string]interface{}

// Scan implements the sql.Scanner interface
func (m *JSONMap) Scan(value interface{}) error {
	if value == nil {
		*m = JSONMap{}
		return nil
	}

	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("unsupported Scan, storing driver.Value type %T into type %T", value, m)
	}

	if len(data) == 0 {
		*m = JSONMap{}
		return nil
	}
	return json.Unmarshal(data, m)
}

// Value implements the driver.Valuer interface
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

// String returns the string stored under key, or "" when absent or not a string.
func (m JSONMap) String(key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// Int returns the integer stored under key and whether it was present.
// JSON numbers decode as float64, so both forms are accepted.
func (m JSONMap) Int(key string) (int, bool) {
	switch v := m[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

// Bool returns the boolean stored under key, or false when absent.
func (m JSONMap) Bool(key string) bool {
	v, ok := m[key].(bool)
	return ok && v
}
