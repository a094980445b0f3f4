package scorecard

import "github.com/fkmtimer/fkm/go/internal/models"

// Mismatch is one attempt position where local and remote values differ.
type Mismatch struct {
	Position int `json:"position"` // 1-based
	Local    int `json:"local"`
	Remote   int `json:"remote"`
}

// Divergence is the outcome of comparing a result with WCA Live.
type Divergence struct {
	Divergent  bool       `json:"divergent"`
	Mismatches []Mismatch `json:"mismatches,omitempty"`
}

// Compare checks the submitted attempts against the remote attempt results
// position by position. A missing value on either side counts as 0 (no
// result). Divergence is only reported, never corrected.
func Compare(attempts []models.Attempt, remote []models.WcifAttempt) Divergence {
	local := ExternalValues(attempts)

	n := len(local)
	if len(remote) > n {
		n = len(remote)
	}

	var d Divergence
	for i := 0; i < n; i++ {
		var l, r int
		if i < len(local) {
			l = local[i]
		}
		if i < len(remote) {
			r = remote[i].Result
		}
		if l != r {
			d.Mismatches = append(d.Mismatches, Mismatch{Position: i + 1, Local: l, Remote: r})
		}
	}
	d.Divergent = len(d.Mismatches) > 0
	return d
}

// RemoteAttempts finds the WCIF attempts of registrantID in round. ok is
// false when WCA Live has no result for the competitor.
func RemoteAttempts(round *models.WcifRound, registrantID int) ([]models.WcifAttempt, bool) {
	if round == nil {
		return nil, false
	}
	for _, r := range round.Results {
		if r.PersonID == registrantID {
			return r.Attempts, true
		}
	}
	return nil, false
}
