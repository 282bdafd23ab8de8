package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"slices"
)

const (
	RoleUser    = "ROLE_USER"
	RoleManager = "ROLE_MANAGER"
	RoleDriver  = "ROLE_DRIVER"
)

// Roles is the stored role set of a user. It is kept in a JSON column.
type Roles []string

// Value implements driver.Valuer.
func (r Roles) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(r))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (r *Roles) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*r = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("roles: unsupported column type %T", src)
	}
	if len(raw) == 0 {
		*r = nil
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("roles: %w", err)
	}
	*r = out
	return nil
}

// withBaseRole returns roles plus RoleUser, without duplicates and in first-seen order.
func withBaseRole(roles Roles) []string {
	out := make([]string, 0, len(roles)+1)
	for _, role := range append(slices.Clone(roles), RoleUser) {
		if !slices.Contains(out, role) {
			out = append(out, role)
		}
	}
	return out
}
