package models

import (
	"time"

	"github.com/google/uuid"
)

// DeviceType describes what a station device is used for.
type DeviceType string

const (
	DeviceTypeStation             DeviceType = "STATION"
	DeviceTypeAttendanceScrambler DeviceType = "ATTENDANCE_SCRAMBLER"
	DeviceTypeAttendanceRunner    DeviceType = "ATTENDANCE_RUNNER"
	DeviceTypeAttendanceJudge     DeviceType = "ATTENDANCE_JUDGE"
)

// StaffRole is the role recorded on an attendance check-in.
type StaffRole string

const (
	StaffRoleJudge     StaffRole = "JUDGE"
	StaffRoleScrambler StaffRole = "SCRAMBLER"
	StaffRoleRunner    StaffRole = "RUNNER"
)

// Room is a competition room; its current group decides which round stations submit to.
type Room struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	CurrentGroupID string    `json:"current_group_id"`
}

// Device is a timing station or an attendance reader.
type Device struct {
	ID                uuid.UUID  `json:"id"`
	Name              string     `json:"name"`
	EspID             int        `json:"esp_id"`
	Type              DeviceType `json:"type"`
	RoomID            *uuid.UUID `json:"room_id,omitempty"`
	Room              *Room      `json:"room,omitempty"`
	BatteryPercentage *int       `json:"battery_percentage,omitempty"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Attendance records a staff member checking in for a group.
type Attendance struct {
	ID        uuid.UUID  `json:"id"`
	PersonID  uuid.UUID  `json:"person_id"`
	DeviceID  *uuid.UUID `json:"device_id,omitempty"`
	GroupID   string     `json:"group_id"`
	Role      StaffRole  `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}
