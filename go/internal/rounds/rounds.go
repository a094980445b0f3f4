// Package rounds resolves the rules of a round (format, cutoff, time limit)
// from the competition's WCIF.
package rounds

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fkmtimer/fkm/go/internal/models"
)

// Rules are the rules applied when entering attempts in a round.
type Rules struct {
	RoundID          string            `json:"round_id"`
	Format           string            `json:"format"`
	ExpectedAttempts int               `json:"expected_attempts"`
	Cutoff           *models.Cutoff    `json:"cutoff,omitempty"`
	TimeLimit        *models.TimeLimit `json:"time_limit,omitempty"`
}

var formatAttempts = map[string]int{
	"1": 1,
	"2": 2,
	"3": 3,
	"a": 5,
	"m": 3,
}

// ExpectedAttempts returns the number of attempts for a format code.
// ok is false for unknown formats.
func ExpectedAttempts(format string) (int, bool) {
	n, ok := formatAttempts[format]
	return n, ok
}

// FindRound returns the WCIF round with the given id.
func FindRound(wcif *models.Wcif, roundID string) (*models.WcifRound, bool) {
	if wcif == nil {
		return nil, false
	}
	for i := range wcif.Events {
		for j := range wcif.Events[i].Rounds {
			if wcif.Events[i].Rounds[j].ID == roundID {
				return &wcif.Events[i].Rounds[j], true
			}
		}
	}
	return nil, false
}

// Resolve returns the rules of roundID. ok is false when the round does not
// exist in the WCIF or has an unknown format; callers must check it.
func Resolve(wcif *models.Wcif, roundID string) (Rules, bool) {
	round, ok := FindRound(wcif, roundID)
	if !ok {
		return Rules{}, false
	}
	expected, ok := ExpectedAttempts(round.Format)
	if !ok {
		return Rules{}, false
	}
	return Rules{
		RoundID:          round.ID,
		Format:           round.Format,
		ExpectedAttempts: expected,
		Cutoff:           round.Cutoff,
		TimeLimit:        round.TimeLimit,
	}, true
}

// PassesCutoff reports whether a competitor may continue past the cutoff
// given the attempts recorded so far. DNS attempts never count as beating
// the cutoff; DNF attempts are compared by their total.
func PassesCutoff(cutoff models.Cutoff, attempts []models.Attempt) bool {
	if len(attempts) < cutoff.NumberOfAttempts {
		return true
	}
	for _, a := range attempts {
		if a.Penalty == models.PenaltyDNS {
			continue
		}
		if a.Total() < cutoff.AttemptResult {
			return true
		}
	}
	return false
}

// WithinTimeLimit reports whether total is a legal attempt time. Cumulative
// limits are compared against the single attempt only.
// TODO: sum sibling attempts for cumulative limits once WCIF results carry them per round.
func WithinTimeLimit(limit models.TimeLimit, total int) bool {
	return total < limit.Centiseconds
}

// ApplyTimeLimit returns the penalty to persist for an attempt. When the
// attempt is not already DNF/DNS and its total reaches the limit the penalty
// is forced to DNF and forced is true.
func ApplyTimeLimit(limit *models.TimeLimit, value, penalty int) (newPenalty int, forced bool) {
	if limit == nil || penalty == models.PenaltyDNF || penalty == models.PenaltyDNS {
		return penalty, false
	}
	if WithinTimeLimit(*limit, value+penalty*100) {
		return penalty, false
	}
	return models.PenaltyDNF, true
}

// RoundIDFromGroup strips the group suffix: "333-r1-g2" -> "333-r1".
func RoundIDFromGroup(groupID string) (string, error) {
	parts := strings.Split(groupID, "-")
	if len(parts) < 2 || parts[0] == "" || !strings.HasPrefix(parts[1], "r") {
		return "", fmt.Errorf("invalid group id %q: %w", groupID, models.ErrValidation)
	}
	return parts[0] + "-" + parts[1], nil
}

// ParseRoundID splits "333-r2" into its event id and round number.
func ParseRoundID(roundID string) (eventID string, roundNumber int, err error) {
	eventID, rest, found := strings.Cut(roundID, "-r")
	if !found || eventID == "" {
		return "", 0, fmt.Errorf("invalid round id %q: %w", roundID, models.ErrValidation)
	}
	roundNumber, err = strconv.Atoi(rest)
	if err != nil || roundNumber < 1 {
		return "", 0, fmt.Errorf("invalid round number in %q: %w", roundID, models.ErrValidation)
	}
	return eventID, roundNumber, nil
}
