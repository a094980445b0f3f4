package models

import (
	"time"

	"github.com/google/uuid"
)

// Penalty codes. Positive penalties are seconds x 100 (2 = +2s).
const (
	PenaltyNone = 0
	PenaltyDNF  = -1
	PenaltyDNS  = -2

	MaxTimePenalty = 16
)

// Attempt represents a single solve of a competitor in a round.
type Attempt struct {
	ID             uuid.UUID  `json:"id"`
	ResultID       uuid.UUID  `json:"result_id"`
	AttemptNumber  int        `json:"attempt_number"`
	Value          int        `json:"value"`   // centiseconds, 0 = not yet solved
	Penalty        int        `json:"penalty"` // see Penalty* constants
	IsExtraAttempt bool       `json:"is_extra_attempt"`
	ExtraGiven     bool       `json:"extra_given"`
	ReplacedBy     *int       `json:"replaced_by,omitempty"` // attempt number of the extra that supersedes this one
	JudgeID        *uuid.UUID `json:"judge_id,omitempty"`
	DeviceID       *uuid.UUID `json:"device_id,omitempty"`
	IsDelegate     bool       `json:"is_delegate"`
	IsResolved     bool       `json:"is_resolved"`
	Comment        string     `json:"comment"`
	InspectionTime *int       `json:"inspection_time,omitempty"`
	SolvedAt       *time.Time `json:"solved_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Total is the attempt time with its time penalty applied.
func (a Attempt) Total() int {
	return a.Value + a.Penalty*100
}

func (a Attempt) IsDNF() bool { return a.Penalty == PenaltyDNF }

func (a Attempt) IsDNS() bool { return a.Penalty == PenaltyDNS }

// IsSuperseded reports whether an extra attempt has been granted in place of this one.
func (a Attempt) IsSuperseded() bool {
	return a.ExtraGiven && a.ReplacedBy != nil
}

// ValidPenalty reports whether p is a known penalty code.
func ValidPenalty(p int) bool {
	if p == PenaltyDNF || p == PenaltyDNS {
		return true
	}
	return p >= 0 && p <= MaxTimePenalty && p%2 == 0
}
