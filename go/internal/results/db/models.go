package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// ResultWithPerson is a result joined with its competitor.
type ResultWithPerson struct {
	ID                 uuid.UUID      `json:"id"`
	PersonID           uuid.UUID      `json:"person_id"`
	EventID            string         `json:"event_id"`
	RoundID            string         `json:"round_id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	PersonRegistrantID sql.NullInt32  `json:"person_registrant_id"`
	PersonWcaID        sql.NullString `json:"person_wca_id"`
	PersonName         string         `json:"person_name"`
}
