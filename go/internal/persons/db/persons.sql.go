package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const personColumns = `id, registrant_id, wca_id, name, country_iso2, gender, card_id, can_compete, created_at`

func scanPerson(row interface{ Scan(...interface{}) error }) (Person, error) {
	var i Person
	err := row.Scan(
		&i.ID,
		&i.RegistrantID,
		&i.WcaID,
		&i.Name,
		&i.CountryIso2,
		&i.Gender,
		&i.CardID,
		&i.CanCompete,
		&i.CreatedAt,
	)
	return i, err
}

const createPerson = `-- name: CreatePerson :one
INSERT INTO persons (id, registrant_id, wca_id, name, country_iso2, gender, card_id, can_compete)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING ` + personColumns

type CreatePersonParams struct {
	ID           uuid.UUID      `json:"id"`
	RegistrantID sql.NullInt32  `json:"registrant_id"`
	WcaID        sql.NullString `json:"wca_id"`
	Name         string         `json:"name"`
	CountryIso2  string         `json:"country_iso2"`
	Gender       string         `json:"gender"`
	CardID       sql.NullString `json:"card_id"`
	CanCompete   bool           `json:"can_compete"`
}

func (q *Queries) CreatePerson(ctx context.Context, arg CreatePersonParams) (Person, error) {
	row := q.db.QueryRowContext(ctx, createPerson,
		arg.ID,
		arg.RegistrantID,
		arg.WcaID,
		arg.Name,
		arg.CountryIso2,
		arg.Gender,
		arg.CardID,
		arg.CanCompete,
	)
	return scanPerson(row)
}

const upsertPersonByRegistrantID = `-- name: UpsertPersonByRegistrantID :one
INSERT INTO persons (id, registrant_id, wca_id, name, country_iso2, gender, can_compete)
VALUES ($1, $2, $3, $4, $5, $6, TRUE)
ON CONFLICT (registrant_id) DO UPDATE
SET wca_id = EXCLUDED.wca_id,
    name = EXCLUDED.name,
    country_iso2 = EXCLUDED.country_iso2,
    gender = EXCLUDED.gender
RETURNING ` + personColumns

type UpsertPersonByRegistrantIDParams struct {
	ID           uuid.UUID      `json:"id"`
	RegistrantID sql.NullInt32  `json:"registrant_id"`
	WcaID        sql.NullString `json:"wca_id"`
	Name         string         `json:"name"`
	CountryIso2  string         `json:"country_iso2"`
	Gender       string         `json:"gender"`
}

func (q *Queries) UpsertPersonByRegistrantID(ctx context.Context, arg UpsertPersonByRegistrantIDParams) (Person, error) {
	row := q.db.QueryRowContext(ctx, upsertPersonByRegistrantID,
		arg.ID,
		arg.RegistrantID,
		arg.WcaID,
		arg.Name,
		arg.CountryIso2,
		arg.Gender,
	)
	return scanPerson(row)
}

const getPerson = `-- name: GetPerson :one
SELECT ` + personColumns + ` FROM persons WHERE id = $1`

func (q *Queries) GetPerson(ctx context.Context, id uuid.UUID) (Person, error) {
	return scanPerson(q.db.QueryRowContext(ctx, getPerson, id))
}

const getPersonByCardID = `-- name: GetPersonByCardID :one
SELECT ` + personColumns + ` FROM persons WHERE card_id = $1`

func (q *Queries) GetPersonByCardID(ctx context.Context, cardID sql.NullString) (Person, error) {
	return scanPerson(q.db.QueryRowContext(ctx, getPersonByCardID, cardID))
}

const getPersonByRegistrantID = `-- name: GetPersonByRegistrantID :one
SELECT ` + personColumns + ` FROM persons WHERE registrant_id = $1`

func (q *Queries) GetPersonByRegistrantID(ctx context.Context, registrantID sql.NullInt32) (Person, error) {
	return scanPerson(q.db.QueryRowContext(ctx, getPersonByRegistrantID, registrantID))
}

// $1 is the search text ('' matches everything); $2 its integer form for registrant ids.
const searchFilter = `
WHERE $1::text = ''
   OR name ILIKE '%' || $1 || '%'
   OR wca_id ILIKE '%' || $1 || '%'
   OR card_id = $1
   OR registrant_id = $2`

const listPersons = `-- name: ListPersons :many
SELECT ` + personColumns + ` FROM persons` + searchFilter + `
ORDER BY name
LIMIT $3 OFFSET $4`

type ListPersonsParams struct {
	Search       string        `json:"search"`
	RegistrantID sql.NullInt32 `json:"registrant_id"`
	Limit        int32         `json:"limit"`
	Offset       int32         `json:"offset"`
}

func (q *Queries) ListPersons(ctx context.Context, arg ListPersonsParams) ([]Person, error) {
	rows, err := q.db.QueryContext(ctx, listPersons, arg.Search, arg.RegistrantID, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Person
	for rows.Next() {
		i, err := scanPerson(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const countPersons = `-- name: CountPersons :one
SELECT COUNT(*) FROM persons` + searchFilter

type CountPersonsParams struct {
	Search       string        `json:"search"`
	RegistrantID sql.NullInt32 `json:"registrant_id"`
}

func (q *Queries) CountPersons(ctx context.Context, arg CountPersonsParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPersons, arg.Search, arg.RegistrantID).Scan(&count)
	return count, err
}

const countPersonsWithoutCard = `-- name: CountPersonsWithoutCard :one
SELECT COUNT(*) FROM persons WHERE card_id IS NULL OR card_id IN ('', '0')`

func (q *Queries) CountPersonsWithoutCard(ctx context.Context) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countPersonsWithoutCard).Scan(&count)
	return count, err
}

const updatePersonCardID = `-- name: UpdatePersonCardID :one
UPDATE persons SET card_id = $2 WHERE id = $1
RETURNING ` + personColumns

type UpdatePersonCardIDParams struct {
	ID     uuid.UUID      `json:"id"`
	CardID sql.NullString `json:"card_id"`
}

func (q *Queries) UpdatePersonCardID(ctx context.Context, arg UpdatePersonCardIDParams) (Person, error) {
	return scanPerson(q.db.QueryRowContext(ctx, updatePersonCardID, arg.ID, arg.CardID))
}
