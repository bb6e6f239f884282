package types

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ProfileAddress is stored as jsonb on user_profiles.address.
type ProfileAddress struct {
	Street  string `json:"street,omitempty" validate:"omitempty,max=200"`
	City    string `json:"city,omitempty" validate:"omitempty,max=100"`
	State   string `json:"state,omitempty" validate:"omitempty,max=100"`
	Zip     string `json:"zip,omitempty" validate:"omitempty,max=20"`
	Country string `json:"country,omitempty" validate:"omitempty,max=100"`
}

// IsZero reports whether every address component is blank.
func (a ProfileAddress) IsZero() bool {
	return strings.TrimSpace(a.Street+a.City+a.State+a.Zip+a.Country) == ""
}

func (a ProfileAddress) Value() (driver.Value, error) {
	return marshalJSONColumn(a)
}

func (a *ProfileAddress) Scan(value any) error {
	return scanJSONColumn("address", value, a)
}

// EmergencyContact is stored as jsonb on user_profiles.emergency_contact.
type EmergencyContact struct {
	Name         string `json:"name,omitempty" validate:"omitempty,max=200"`
	Phone        string `json:"phone,omitempty" validate:"omitempty,max=40"`
	Relationship string `json:"relationship,omitempty" validate:"omitempty,max=100"`
}

func (c EmergencyContact) Value() (driver.Value, error) {
	return marshalJSONColumn(c)
}

func (c *EmergencyContact) Scan(value any) error {
	return scanJSONColumn("emergency_contact", value, c)
}

func marshalJSONColumn(v any) (driver.Value, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func scanJSONColumn(column string, value any, dest any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("%s: unsupported scan type %T", column, value)
	}
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%s: decode json: %w", column, err)
	}
	return nil
}
