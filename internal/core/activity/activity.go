// Package activity defines activity domain types and interfaces.
package activity

import "time"

// Definition describes a named activity a user can run against the
// session budget. Definitions are created by the CRUD layer and consumed
// read-only by the session engines.
type Definition struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ColorIndex  int       `json:"color_index"`
	CreatedAt   time.Time `json:"created_at"`
	IsActive    bool      `json:"is_active"`
}
