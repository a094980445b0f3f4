package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type Competition struct {
	ID                   uuid.UUID             `json:"id"`
	Name                 string                `json:"name"`
	WcaID                string                `json:"wca_id"`
	ScoretakingToken     sql.NullString        `json:"scoretaking_token"`
	SendResultsToWcaLive bool                  `json:"send_results_to_wca_live"`
	Wcif                 pqtype.NullRawMessage `json:"wcif"`
	CreatedAt            time.Time             `json:"created_at"`
	UpdatedAt            time.Time             `json:"updated_at"`
}
