package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Person struct {
	ID           uuid.UUID      `json:"id"`
	RegistrantID sql.NullInt32  `json:"registrant_id"`
	WcaID        sql.NullString `json:"wca_id"`
	Name         string         `json:"name"`
	CountryIso2  string         `json:"country_iso2"`
	Gender       string         `json:"gender"`
	CardID       sql.NullString `json:"card_id"`
	CanCompete   bool           `json:"can_compete"`
	CreatedAt    time.Time      `json:"created_at"`
}
