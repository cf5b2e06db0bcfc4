package models

import "strings"

// CitySuggestion is one geocoding candidate offered while the user types
type CitySuggestion struct {
	Name    string `json:"name"`
	State   string `json:"state"`
	Country string `json:"country"`
}

// Valid reports whether the suggestion carries enough to build a label
func (c CitySuggestion) Valid() bool {
	return c.Name != "" && c.Country != ""
}

// Label composes "name, state, country", leaving the state out when absent
func (c CitySuggestion) Label() string {
	parts := make([]string, 0, 3)
	parts = append(parts, c.Name)
	if c.State != "" {
		parts = append(parts, c.State)
	}
	parts = append(parts, c.Country)
	return strings.Join(parts, ", ")
}
