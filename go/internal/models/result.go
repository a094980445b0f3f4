package models

import (
	"time"

	"github.com/google/uuid"
)

// Result groups every attempt of one competitor in one round.
type Result struct {
	ID        uuid.UUID      `json:"id"`
	PersonID  uuid.UUID      `json:"person_id"`
	EventID   string         `json:"event_id"`
	RoundID   string         `json:"round_id"`
	Person    *PersonSummary `json:"person,omitempty"`
	Attempts  []Attempt      `json:"attempts"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
