package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

const competitionColumns = `id, name, wca_id, scoretaking_token, send_results_to_wca_live, wcif, created_at, updated_at`

func scanCompetition(row interface{ Scan(...interface{}) error }) (Competition, error) {
	var i Competition
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.WcaID,
		&i.ScoretakingToken,
		&i.SendResultsToWcaLive,
		&i.Wcif,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}

const getCompetition = `-- name: GetCompetition :one
SELECT ` + competitionColumns + ` FROM competitions
ORDER BY created_at
LIMIT 1`

func (q *Queries) GetCompetition(ctx context.Context) (Competition, error) {
	return scanCompetition(q.db.QueryRowContext(ctx, getCompetition))
}

const upsertCompetition = `-- name: UpsertCompetition :one
INSERT INTO competitions (id, name, wca_id, wcif)
VALUES ($1, $2, $3, $4)
ON CONFLICT (wca_id) DO UPDATE
SET name = EXCLUDED.name,
    wcif = EXCLUDED.wcif,
    updated_at = now()
RETURNING ` + competitionColumns

type UpsertCompetitionParams struct {
	ID    uuid.UUID             `json:"id"`
	Name  string                `json:"name"`
	WcaID string                `json:"wca_id"`
	Wcif  pqtype.NullRawMessage `json:"wcif"`
}

func (q *Queries) UpsertCompetition(ctx context.Context, arg UpsertCompetitionParams) (Competition, error) {
	row := q.db.QueryRowContext(ctx, upsertCompetition, arg.ID, arg.Name, arg.WcaID, arg.Wcif)
	return scanCompetition(row)
}

const updateCompetitionWcif = `-- name: UpdateCompetitionWcif :one
UPDATE competitions SET wcif = $2, updated_at = now()
WHERE id = $1
RETURNING ` + competitionColumns

type UpdateCompetitionWcifParams struct {
	ID   uuid.UUID             `json:"id"`
	Wcif pqtype.NullRawMessage `json:"wcif"`
}

func (q *Queries) UpdateCompetitionWcif(ctx context.Context, arg UpdateCompetitionWcifParams) (Competition, error) {
	return scanCompetition(q.db.QueryRowContext(ctx, updateCompetitionWcif, arg.ID, arg.Wcif))
}

const updateCompetitionSettings = `-- name: UpdateCompetitionSettings :one
UPDATE competitions
SET scoretaking_token = $2, send_results_to_wca_live = $3, updated_at = now()
WHERE id = $1
RETURNING ` + competitionColumns

type UpdateCompetitionSettingsParams struct {
	ID                   uuid.UUID      `json:"id"`
	ScoretakingToken     sql.NullString `json:"scoretaking_token"`
	SendResultsToWcaLive bool           `json:"send_results_to_wca_live"`
}

func (q *Queries) UpdateCompetitionSettings(ctx context.Context, arg UpdateCompetitionSettingsParams) (Competition, error) {
	row := q.db.QueryRowContext(ctx, updateCompetitionSettings, arg.ID, arg.ScoretakingToken, arg.SendResultsToWcaLive)
	return scanCompetition(row)
}
