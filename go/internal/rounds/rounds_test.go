package rounds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkmtimer/fkm/go/internal/models"
)

func testWcif() *models.Wcif {
	return &models.Wcif{
		ID: "FKM2025",
		Events: []models.WcifEvent{
			{
				ID: "333",
				Rounds: []models.WcifRound{
					{
						ID:        "333-r1",
						Format:    "a",
						TimeLimit: &models.TimeLimit{Centiseconds: 10000},
						Cutoff:    &models.Cutoff{NumberOfAttempts: 2, AttemptResult: 3000},
					},
					{ID: "333-r2", Format: "a"},
				},
			},
			{
				ID: "666",
				Rounds: []models.WcifRound{
					{ID: "666-r1", Format: "m"},
					{ID: "666-r2", Format: "x"},
				},
			},
		},
	}
}

func TestExpectedAttempts(t *testing.T) {
	tests := []struct {
		format string
		want   int
		ok     bool
	}{
		{"1", 1, true},
		{"2", 2, true},
		{"3", 3, true},
		{"a", 5, true},
		{"m", 3, true},
		{"", 0, false},
		{"x", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got, ok := ExpectedAttempts(tt.format)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolve(t *testing.T) {
	wcif := testWcif()

	rules, ok := Resolve(wcif, "333-r1")
	require.True(t, ok)
	assert.Equal(t, 5, rules.ExpectedAttempts)
	require.NotNil(t, rules.Cutoff)
	assert.Equal(t, 3000, rules.Cutoff.AttemptResult)
	require.NotNil(t, rules.TimeLimit)
	assert.Equal(t, 10000, rules.TimeLimit.Centiseconds)

	rules, ok = Resolve(wcif, "666-r1")
	require.True(t, ok)
	assert.Equal(t, 3, rules.ExpectedAttempts)
	assert.Nil(t, rules.Cutoff)

	_, ok = Resolve(wcif, "444-r1")
	assert.False(t, ok)

	_, ok = Resolve(wcif, "666-r2")
	assert.False(t, ok, "unknown format resolves to nothing")

	_, ok = Resolve(nil, "333-r1")
	assert.False(t, ok)
}

func TestPassesCutoff(t *testing.T) {
	cutoff := models.Cutoff{NumberOfAttempts: 2, AttemptResult: 3000}

	tests := []struct {
		name     string
		attempts []models.Attempt
		want     bool
	}{
		{"no attempts yet", nil, true},
		{"fewer attempts than the cutoff count", []models.Attempt{{Value: 3500}}, true},
		{"no attempt beats cutoff", []models.Attempt{{Value: 3500}, {Value: 3600}}, false},
		{"one attempt beats cutoff", []models.Attempt{{Value: 3500}, {Value: 2999}}, true},
		{"penalty pushes over", []models.Attempt{{Value: 2900, Penalty: 2}, {Value: 3500}}, false},
		{"equal is not better", []models.Attempt{{Value: 3000}, {Value: 3100}}, false},
		{"dns never counts", []models.Attempt{{Value: 0, Penalty: models.PenaltyDNS}, {Value: 3500}}, false},
		{"dnf compared by total", []models.Attempt{{Value: 2000, Penalty: models.PenaltyDNF}, {Value: 3500}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PassesCutoff(cutoff, tt.attempts))
		})
	}
}

func TestPassesCutoffSingleAttemptCutoff(t *testing.T) {
	cutoff := models.Cutoff{NumberOfAttempts: 1, AttemptResult: 3000}
	assert.False(t, PassesCutoff(cutoff, []models.Attempt{{Value: 3500}}))
	assert.True(t, PassesCutoff(cutoff, []models.Attempt{{Value: 2500}}))
}

func TestApplyTimeLimit(t *testing.T) {
	limit := &models.TimeLimit{Centiseconds: 10000}

	penalty, forced := ApplyTimeLimit(limit, 600, 0)
	assert.False(t, forced)
	assert.Equal(t, 0, penalty)

	penalty, forced = ApplyTimeLimit(limit, 10500, 0)
	assert.True(t, forced)
	assert.Equal(t, models.PenaltyDNF, penalty)

	penalty, forced = ApplyTimeLimit(limit, 10000, 0)
	assert.True(t, forced, "limit itself is not legal")
	assert.Equal(t, models.PenaltyDNF, penalty)

	penalty, forced = ApplyTimeLimit(limit, 9900, 2)
	assert.True(t, forced, "penalty counts towards the limit")
	assert.Equal(t, models.PenaltyDNF, penalty)

	penalty, forced = ApplyTimeLimit(limit, 0, models.PenaltyDNS)
	assert.False(t, forced)
	assert.Equal(t, models.PenaltyDNS, penalty)

	penalty, forced = ApplyTimeLimit(nil, 50000, 0)
	assert.False(t, forced)
	assert.Equal(t, 0, penalty)
}

// Cumulative limits are compared per attempt: two 40s solves under a
// cumulative 60s limit are both accepted.
func TestApplyTimeLimitCumulativeComparesSingleAttempt(t *testing.T) {
	limit := &models.TimeLimit{Centiseconds: 6000, CumulativeRoundIDs: []string{"333bf-r1"}}
	require.True(t, limit.IsCumulative())

	for i := 0; i < 2; i++ {
		_, forced := ApplyTimeLimit(limit, 4000, 0)
		assert.False(t, forced)
	}
}

func TestRoundIDFromGroup(t *testing.T) {
	got, err := RoundIDFromGroup("333-r1-g2")
	require.NoError(t, err)
	assert.Equal(t, "333-r1", got)

	got, err = RoundIDFromGroup("333bf-r2")
	require.NoError(t, err)
	assert.Equal(t, "333bf-r2", got)

	_, err = RoundIDFromGroup("garbage")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestParseRoundID(t *testing.T) {
	eventID, number, err := ParseRoundID("333oh-r3")
	require.NoError(t, err)
	assert.Equal(t, "333oh", eventID)
	assert.Equal(t, 3, number)

	_, _, err = ParseRoundID("333")
	assert.ErrorIs(t, err, models.ErrValidation)

	_, _, err = ParseRoundID("333-rx")
	assert.ErrorIs(t, err, models.ErrValidation)
}
