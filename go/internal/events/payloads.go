package events

// ResultEnteredPayload is sent on the round's results channel.
type ResultEnteredPayload struct {
	RoundID  string `json:"round_id"`
	ResultID string `json:"result_id"`
}

// AttemptUpdatedPayload is sent on the incidents channel.
type AttemptUpdatedPayload struct {
	AttemptID string `json:"attempt_id"`
	ResultID  string `json:"result_id"`
}

// NewIncidentPayload is sent when a station flags a delegate case.
type NewIncidentPayload struct {
	AttemptID      string `json:"attempt_id"`
	DeviceName     string `json:"device_name"`
	CompetitorName string `json:"competitor_name"`
}

type DeviceUpdatedPayload struct {
	DeviceID          string `json:"device_id"`
	EspID             int    `json:"esp_id"`
	BatteryPercentage int    `json:"battery_percentage"`
}

type GroupShouldBeChangedPayload struct {
	RoomID  string `json:"room_id"`
	GroupID string `json:"group_id"`
}

type NewAttendancePayload struct {
	PersonID string `json:"person_id"`
	GroupID  string `json:"group_id"`
	Role     string `json:"role"`
}
