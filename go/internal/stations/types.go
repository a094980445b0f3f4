package stations

import "github.com/google/uuid"

// DeviceRequest creates or updates a device.
type DeviceRequest struct {
	Name   string     `json:"name"`
	EspID  int        `json:"esp_id"`
	Type   string     `json:"type"`
	RoomID *uuid.UUID `json:"room_id"`
}

// BatteryRequest is sent periodically by stations.
type BatteryRequest struct {
	EspID             int `json:"esp_id"`
	BatteryPercentage int `json:"battery_percentage"`
}

// CreateRoomRequest creates a room.
type CreateRoomRequest struct {
	Name string `json:"name"`
}

// SetGroupRequest changes the group running in a room.
type SetGroupRequest struct {
	GroupID string `json:"group_id"`
}

// CheckInRequest is sent by an attendance reader when a card is scanned.
type CheckInRequest struct {
	EspID  int    `json:"esp_id"`
	CardID string `json:"card_id"`
}

// CheckInResponse acknowledges a check-in.
type CheckInResponse struct {
	Message  string    `json:"message"`
	PersonID uuid.UUID `json:"person_id"`
	GroupID  string    `json:"group_id"`
	Role     string    `json:"role"`
}

const (
	msgAttendanceConfirmed = "attendanceConfirmed"
	msgAlreadyCheckedIn    = "alreadyCheckedIn"
)
