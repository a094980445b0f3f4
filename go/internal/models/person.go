package models

import (
	"time"

	"github.com/google/uuid"
)

// Person is a competitor or a staff member.
type Person struct {
	ID           uuid.UUID `json:"id"`
	RegistrantID *int      `json:"registrant_id,omitempty"`
	WcaID        string    `json:"wca_id"`
	Name         string    `json:"name"`
	CountryISO2  string    `json:"country_iso2"`
	Gender       string    `json:"gender"`
	CardID       string    `json:"card_id"`
	CanCompete   bool      `json:"can_compete"`
	CreatedAt    time.Time `json:"created_at"`
}

// PersonSummary is the slice of a person embedded in other read models.
type PersonSummary struct {
	ID           uuid.UUID `json:"id"`
	RegistrantID *int      `json:"registrant_id,omitempty"`
	WcaID        string    `json:"wca_id"`
	Name         string    `json:"name"`
}

// Summary returns the embedded view of p.
func (p Person) Summary() PersonSummary {
	return PersonSummary{
		ID:           p.ID,
		RegistrantID: p.RegistrantID,
		WcaID:        p.WcaID,
		Name:         p.Name,
	}
}
