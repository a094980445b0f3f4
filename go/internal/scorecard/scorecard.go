// Package scorecard derives the submitted view of a result and compares it
// with what WCA Live holds.
package scorecard

import (
	"sort"

	"github.com/fkmtimer/fkm/go/internal/models"
)

// SubmittedAttempts returns the attempts that count for external reporting:
// standard attempts nobody replaced, plus the extra attempts that replace a
// superseded standard attempt. Output is sorted by attempt number.
func SubmittedAttempts(attempts []models.Attempt) []models.Attempt {
	selected := make([]models.Attempt, 0, len(attempts))
	seen := make(map[int]bool, len(attempts))

	for i := range attempts {
		attempt := attempts[i]
		if seen[i] {
			continue
		}
		if attempt.ReplacedBy == nil && !attempt.IsSuperseded() && !attempt.IsExtraAttempt {
			selected = append(selected, attempt)
			seen[i] = true
			continue
		}
		if attempt.IsSuperseded() {
			j := findExtra(attempts, *attempt.ReplacedBy)
			if j >= 0 && !seen[j] {
				selected = append(selected, attempts[j])
				seen[j] = true
			}
		}
	}

	sort.SliceStable(selected, func(a, b int) bool {
		return selected[a].AttemptNumber < selected[b].AttemptNumber
	})
	return selected
}

func findExtra(attempts []models.Attempt, number int) int {
	for i := range attempts {
		if attempts[i].IsExtraAttempt && attempts[i].AttemptNumber == number {
			return i
		}
	}
	return -1
}

// StandardAttempts returns the non-extra attempts sorted by number.
func StandardAttempts(attempts []models.Attempt) []models.Attempt {
	return filterSorted(attempts, false)
}

// ExtraAttempts returns the extra attempts sorted by number.
func ExtraAttempts(attempts []models.Attempt) []models.Attempt {
	return filterSorted(attempts, true)
}

func filterSorted(attempts []models.Attempt, extra bool) []models.Attempt {
	out := make([]models.Attempt, 0, len(attempts))
	for _, a := range attempts {
		if a.IsExtraAttempt == extra {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AttemptNumber < out[j].AttemptNumber
	})
	return out
}

// ExternalValue encodes an attempt the way WCA Live expects it:
// -1 for DNF, -2 for DNS, otherwise the total in centiseconds.
func ExternalValue(value, penalty int) int {
	switch penalty {
	case models.PenaltyDNF:
		return -1
	case models.PenaltyDNS:
		return -2
	default:
		return penalty*100 + value
	}
}

// ExternalValues encodes the submitted attempts of a result in order.
func ExternalValues(attempts []models.Attempt) []int {
	submitted := SubmittedAttempts(attempts)
	values := make([]int, len(submitted))
	for i, a := range submitted {
		values[i] = ExternalValue(a.Value, a.Penalty)
	}
	return values
}
