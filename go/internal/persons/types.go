package persons

import "github.com/fkmtimer/fkm/go/internal/models"

// ListPersonsRequest pages through persons, optionally filtered by name,
// WCA id, card id or registrant id.
type ListPersonsRequest struct {
	Search   string `json:"search"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// PersonsPage is one page of persons.
type PersonsPage struct {
	Persons                    []models.Person `json:"persons"`
	Count                      int             `json:"count"`
	TotalPages                 int             `json:"total_pages"`
	PersonsWithoutCardAssigned int             `json:"persons_without_card_assigned"`
}

// AssignCardRequest links a card to a person.
type AssignCardRequest struct {
	CardID string `json:"card_id"`
}

// AddStaffMemberRequest creates a person who cannot compete.
type AddStaffMemberRequest struct {
	Name   string `json:"name"`
	Gender string `json:"gender"`
	CardID string `json:"card_id"`
}

// CreatePersonParams is what the repository needs to insert a person.
type CreatePersonParams struct {
	RegistrantID *int
	WcaID        string
	Name         string
	CountryISO2  string
	Gender       string
	CardID       string
	CanCompete   bool
}

// ImportSummary reports what a WCIF person import did.
type ImportSummary struct {
	Imported int `json:"imported"`
	Skipped  int `json:"skipped"`
}
