package db

import (
	"context"

	"github.com/google/uuid"
)

const listRooms = `-- name: ListRooms :many
SELECT id, name, current_group_id FROM rooms ORDER BY name`

func (q *Queries) ListRooms(ctx context.Context) ([]Room, error) {
	rows, err := q.db.QueryContext(ctx, listRooms)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Room
	for rows.Next() {
		var i Room
		if err := rows.Scan(&i.ID, &i.Name, &i.CurrentGroupID); err != nil {
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

const createRoom = `-- name: CreateRoom :one
INSERT INTO rooms (id, name) VALUES ($1, $2)
RETURNING id, name, current_group_id`

type CreateRoomParams struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func (q *Queries) CreateRoom(ctx context.Context, arg CreateRoomParams) (Room, error) {
	var i Room
	err := q.db.QueryRowContext(ctx, createRoom, arg.ID, arg.Name).Scan(&i.ID, &i.Name, &i.CurrentGroupID)
	return i, err
}

const updateRoomCurrentGroup = `-- name: UpdateRoomCurrentGroup :one
UPDATE rooms SET current_group_id = $2 WHERE id = $1
RETURNING id, name, current_group_id`

type UpdateRoomCurrentGroupParams struct {
	ID             uuid.UUID `json:"id"`
	CurrentGroupID string    `json:"current_group_id"`
}

func (q *Queries) UpdateRoomCurrentGroup(ctx context.Context, arg UpdateRoomCurrentGroupParams) (Room, error) {
	var i Room
	err := q.db.QueryRowContext(ctx, updateRoomCurrentGroup, arg.ID, arg.CurrentGroupID).
		Scan(&i.ID, &i.Name, &i.CurrentGroupID)
	return i, err
}
