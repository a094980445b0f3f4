package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Competition holds the settings of the competition being run.
type Competition struct {
	ID                   uuid.UUID       `json:"id"`
	Name                 string          `json:"name"`
	WcaID                string          `json:"wca_id"`
	ScoretakingToken     string          `json:"scoretaking_token,omitempty"`
	SendResultsToWcaLive bool            `json:"send_results_to_wca_live"`
	Wcif                 json.RawMessage `json:"wcif,omitempty"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
}
