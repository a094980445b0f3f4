package db

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
)

const deviceWithRoomSelect = `
SELECT d.id, d.name, d.esp_id, d.type, d.room_id, d.battery_percentage, d.updated_at,
       r.name, r.current_group_id
FROM devices d
LEFT JOIN rooms r ON r.id = d.room_id`

func scanDeviceWithRoom(row interface{ Scan(...interface{}) error }) (DeviceWithRoom, error) {
	var i DeviceWithRoom
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.EspID,
		&i.Type,
		&i.RoomID,
		&i.BatteryPercentage,
		&i.UpdatedAt,
		&i.RoomName,
		&i.RoomCurrentGroupID,
	)
	return i, err
}

func scanDevice(row interface{ Scan(...interface{}) error }) (Device, error) {
	var i Device
	err := row.Scan(
		&i.ID,
		&i.Name,
		&i.EspID,
		&i.Type,
		&i.RoomID,
		&i.BatteryPercentage,
		&i.UpdatedAt,
	)
	return i, err
}

const listDevices = `-- name: ListDevices :many` + deviceWithRoomSelect + `
ORDER BY d.name`

func (q *Queries) ListDevices(ctx context.Context) ([]DeviceWithRoom, error) {
	rows, err := q.db.QueryContext(ctx, listDevices)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []DeviceWithRoom
	for rows.Next() {
		i, err := scanDeviceWithRoom(rows)
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

const getDeviceByEspID = `-- name: GetDeviceByEspID :one` + deviceWithRoomSelect + `
WHERE d.esp_id = $1`

func (q *Queries) GetDeviceByEspID(ctx context.Context, espID int32) (DeviceWithRoom, error) {
	return scanDeviceWithRoom(q.db.QueryRowContext(ctx, getDeviceByEspID, espID))
}

const getDevice = `-- name: GetDevice :one` + deviceWithRoomSelect + `
WHERE d.id = $1`

func (q *Queries) GetDevice(ctx context.Context, id uuid.UUID) (DeviceWithRoom, error) {
	return scanDeviceWithRoom(q.db.QueryRowContext(ctx, getDevice, id))
}

const createDevice = `-- name: CreateDevice :one
INSERT INTO devices (id, name, esp_id, type, room_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, name, esp_id, type, room_id, battery_percentage, updated_at`

type CreateDeviceParams struct {
	ID     uuid.UUID     `json:"id"`
	Name   string        `json:"name"`
	EspID  int32         `json:"esp_id"`
	Type   string        `json:"type"`
	RoomID uuid.NullUUID `json:"room_id"`
}

func (q *Queries) CreateDevice(ctx context.Context, arg CreateDeviceParams) (Device, error) {
	row := q.db.QueryRowContext(ctx, createDevice, arg.ID, arg.Name, arg.EspID, arg.Type, arg.RoomID)
	return scanDevice(row)
}

const updateDevice = `-- name: UpdateDevice :one
UPDATE devices SET name = $2, esp_id = $3, type = $4, room_id = $5, updated_at = now()
WHERE id = $1
RETURNING id, name, esp_id, type, room_id, battery_percentage, updated_at`

type UpdateDeviceParams struct {
	ID     uuid.UUID     `json:"id"`
	Name   string        `json:"name"`
	EspID  int32         `json:"esp_id"`
	Type   string        `json:"type"`
	RoomID uuid.NullUUID `json:"room_id"`
}

func (q *Queries) UpdateDevice(ctx context.Context, arg UpdateDeviceParams) (Device, error) {
	row := q.db.QueryRowContext(ctx, updateDevice, arg.ID, arg.Name, arg.EspID, arg.Type, arg.RoomID)
	return scanDevice(row)
}

const updateDeviceBattery = `-- name: UpdateDeviceBattery :one
UPDATE devices SET battery_percentage = $2, updated_at = now()
WHERE esp_id = $1
RETURNING id, name, esp_id, type, room_id, battery_percentage, updated_at`

type UpdateDeviceBatteryParams struct {
	EspID             int32         `json:"esp_id"`
	BatteryPercentage sql.NullInt32 `json:"battery_percentage"`
}

func (q *Queries) UpdateDeviceBattery(ctx context.Context, arg UpdateDeviceBatteryParams) (Device, error) {
	row := q.db.QueryRowContext(ctx, updateDeviceBattery, arg.EspID, arg.BatteryPercentage)
	return scanDevice(row)
}

const deleteDevice = `-- name: DeleteDevice :execrows
DELETE FROM devices WHERE id = $1`

func (q *Queries) DeleteDevice(ctx context.Context, id uuid.UUID) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteDevice, id)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
