// Package service holds the catalogue of government services citizens can
// apply for (e.g., "passport-renewal", "birth-certificate").
package service

import "time"

// Service is one entry in the public service catalogue.
type Service struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Department  string    `json:"department"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
