package model

import "time"

// Entry is one row of the refreshable list.
type Entry struct {
	ID          string    `yaml:"id" json:"id"`
	Name        string    `yaml:"name" json:"name"`
	Description string    `yaml:"description" json:"description"`
	Info        string    `yaml:"info" json:"info"` // short stat line, e.g. "500k users"
	URL         string    `yaml:"url,omitempty" json:"url,omitempty"`
	Added       time.Time `yaml:"added,omitempty" json:"added,omitempty"`
}
