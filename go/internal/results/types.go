package results

import (
	"github.com/google/uuid"

	"github.com/fkmtimer/fkm/go/internal/models"
	"github.com/fkmtimer/fkm/go/internal/scorecard"
)

// ResultDetail is a result with its attempts split the way the operator
// screens show them.
type ResultDetail struct {
	models.Result
	StandardAttempts  []models.Attempt      `json:"standard_attempts"`
	ExtraAttempts     []models.Attempt      `json:"extra_attempts"`
	SubmittedAttempts []models.Attempt      `json:"submitted_attempts"`
	Divergence        *scorecard.Divergence `json:"divergence,omitempty"`
}

// EnterAttemptRequest is sent by a station after a solve.
type EnterAttemptRequest struct {
	EspID          int    `json:"esp_id"`
	CompetitorID   string `json:"competitor_id"` // card id
	JudgeID        string `json:"judge_id"`      // card id
	Value          int    `json:"value"`
	Penalty        int    `json:"penalty"`
	InspectionTime *int   `json:"inspection_time"`
	IsDelegate     bool   `json:"is_delegate"`
}

// EnterAttemptResponse is shown on the station display.
type EnterAttemptResponse struct {
	Message       string    `json:"message"`
	Warning       string    `json:"warning,omitempty"`
	ResultID      uuid.UUID `json:"result_id"`
	AttemptID     uuid.UUID `json:"attempt_id"`
	AttemptNumber int       `json:"attempt_number"`
}

const (
	msgAttemptEntered     = "Attempt entered"
	msgDelegateCalled     = "Delegate was notified"
	msgNoAttemptsLeft     = "no attempts left"
	msgCutoffNotPassed    = "cutoff not passed"
	msgNotRegistered      = "competitor is not registered for this event"
	msgScorecardSubmitted = "Scorecard submitted to WCA Live"
	msgTimeLimitExceeded  = "Time limit exceeded, attempt recorded as DNF"
	msgLiveSubmitFailed   = "Attempt saved, but sending it to WCA Live failed"
)
