// internal/models/base.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringSlice is stored as a JSON array in a text/jsonb column.
type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan unmarshals a JSON column into the slice. Postgres hands back
// []byte, sqlite a string.
func (s *StringSlice) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*s = nil
		return nil
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	}
	return fmt.Errorf("StringSlice: unsupported source type %T", src)
}

// Actor is the public projection of a user embedded in other resources
// (post authors, notification senders, commentators).
type Actor struct {
	ID         uint   `json:"id"`
	Username   string `json:"username"`
	Name       string `json:"name"`
	Avatar     string `json:"avatar,omitempty"`
	IsVerified bool   `json:"is_verified"`
}

func (Actor) TableName() string { return "users" }
