package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Room struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	CurrentGroupID string    `json:"current_group_id"`
}

type Device struct {
	ID                uuid.UUID     `json:"id"`
	Name              string        `json:"name"`
	EspID             int32         `json:"esp_id"`
	Type              string        `json:"type"`
	RoomID            uuid.NullUUID `json:"room_id"`
	BatteryPercentage sql.NullInt32 `json:"battery_percentage"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// DeviceWithRoom is a device joined with its room, if any.
type DeviceWithRoom struct {
	Device
	RoomName           sql.NullString `json:"room_name"`
	RoomCurrentGroupID sql.NullString `json:"room_current_group_id"`
}

type Attendance struct {
	ID        uuid.UUID     `json:"id"`
	PersonID  uuid.UUID     `json:"person_id"`
	DeviceID  uuid.NullUUID `json:"device_id"`
	GroupID   string        `json:"group_id"`
	Role      string        `json:"role"`
	CreatedAt time.Time     `json:"created_at"`
}
