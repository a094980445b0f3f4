package db

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

type Attempt struct {
	ID             uuid.UUID     `json:"id"`
	ResultID       uuid.UUID     `json:"result_id"`
	AttemptNumber  int32         `json:"attempt_number"`
	Value          int32         `json:"value"`
	Penalty        int32         `json:"penalty"`
	IsExtraAttempt bool          `json:"is_extra_attempt"`
	ExtraGiven     bool          `json:"extra_given"`
	ReplacedBy     sql.NullInt32 `json:"replaced_by"`
	JudgeID        uuid.NullUUID `json:"judge_id"`
	DeviceID       uuid.NullUUID `json:"device_id"`
	IsDelegate     bool          `json:"is_delegate"`
	IsResolved     bool          `json:"is_resolved"`
	Comment        string        `json:"comment"`
	InspectionTime sql.NullInt32 `json:"inspection_time"`
	SolvedAt       sql.NullTime  `json:"solved_at"`
	CreatedAt      time.Time     `json:"created_at"`
}

// AttemptDetail is an attempt joined with its judge, device, result and competitor.
type AttemptDetail struct {
	Attempt
	JudgeRegistrantID  sql.NullInt32  `json:"judge_registrant_id"`
	JudgeWcaID         sql.NullString `json:"judge_wca_id"`
	JudgeName          sql.NullString `json:"judge_name"`
	DeviceName         sql.NullString `json:"device_name"`
	EventID            string         `json:"event_id"`
	RoundID            string         `json:"round_id"`
	PersonID           uuid.UUID      `json:"person_id"`
	PersonRegistrantID sql.NullInt32  `json:"person_registrant_id"`
	PersonWcaID        sql.NullString `json:"person_wca_id"`
	PersonName         string         `json:"person_name"`
}
