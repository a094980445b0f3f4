package attempts

import (
	"github.com/google/uuid"

	"github.com/fkmtimer/fkm/go/internal/models"
)

// CreateAttemptRequest records a solve entered by a staff member.
type CreateAttemptRequest struct {
	PersonID        uuid.UUID  `json:"person_id"`
	RoundID         string     `json:"round_id"`
	AttemptNumber   int        `json:"attempt_number"`
	Value           int        `json:"value"`
	Penalty         int        `json:"penalty"`
	IsExtraAttempt  bool       `json:"is_extra_attempt"`
	ExtraGiven      bool       `json:"extra_given"`
	ReplacedBy      *int       `json:"replaced_by"`
	JudgeID         *uuid.UUID `json:"judge_id"`
	DeviceID        *uuid.UUID `json:"device_id"`
	IsDelegate      bool       `json:"is_delegate"`
	IsResolved      bool       `json:"is_resolved"`
	Comment         string     `json:"comment"`
	InspectionTime  *int       `json:"inspection_time"`
	SubmitToWcaLive bool       `json:"submit_to_wca_live"`
}

// UpdateAttemptRequest fully re-specifies the mutable fields of an attempt.
// An omitted judge_id clears the judge.
type UpdateAttemptRequest struct {
	AttemptNumber   int        `json:"attempt_number"`
	Value           int        `json:"value"`
	Penalty         int        `json:"penalty"`
	IsExtraAttempt  bool       `json:"is_extra_attempt"`
	ExtraGiven      bool       `json:"extra_given"`
	ReplacedBy      *int       `json:"replaced_by"`
	JudgeID         *uuid.UUID `json:"judge_id"`
	IsDelegate      bool       `json:"is_delegate"`
	IsResolved      bool       `json:"is_resolved"`
	Comment         string     `json:"comment"`
	SubmitToWcaLive bool       `json:"submit_to_wca_live"`
}

// SwapAttemptsRequest exchanges the attempt numbers of two attempts of the same result.
type SwapAttemptsRequest struct {
	FirstID  uuid.UUID `json:"first_id"`
	SecondID uuid.UUID `json:"second_id"`
}

// AttemptResponse acknowledges a write. Warning is set when the time limit
// forced a DNF.
type AttemptResponse struct {
	Attempt *models.Attempt `json:"attempt"`
	Warning string          `json:"warning,omitempty"`
}

// JudgeSummary identifies the judge of an attempt.
type JudgeSummary struct {
	ID           uuid.UUID `json:"id"`
	RegistrantID int       `json:"registrant_id"`
	WcaID        string    `json:"wca_id"`
	Name         string    `json:"name"`
}

// noJudge is reported for attempts recorded without a judge.
var noJudge = JudgeSummary{Name: "None"}

type DeviceSummary struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

type ResultSummary struct {
	ID      uuid.UUID            `json:"id"`
	EventID string               `json:"event_id"`
	RoundID string               `json:"round_id"`
	Person  models.PersonSummary `json:"person"`
}

// AttemptDetail is an attempt with its judge, device and result.
type AttemptDetail struct {
	models.Attempt
	Judge  JudgeSummary   `json:"judge"`
	Device *DeviceSummary `json:"device,omitempty"`
	Result ResultSummary  `json:"result"`
}

const msgAttemptDeleted = "Attempt deleted"
const msgAttemptsSwapped = "Attempts swapped"
