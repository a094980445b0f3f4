package scorecard

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fkmtimer/fkm/go/internal/models"
)

func intPtr(v int) *int { return &v }

func standard(number, value int) models.Attempt {
	return models.Attempt{ID: uuid.New(), AttemptNumber: number, Value: value}
}

func extra(number, value int) models.Attempt {
	return models.Attempt{ID: uuid.New(), AttemptNumber: number, Value: value, IsExtraAttempt: true}
}

func numbers(attempts []models.Attempt) []int {
	out := make([]int, len(attempts))
	for i, a := range attempts {
		out[i] = a.AttemptNumber
	}
	return out
}

func TestSubmittedAttemptsPlain(t *testing.T) {
	attempts := []models.Attempt{standard(3, 1000), standard(1, 900), standard(2, 1100)}

	got := SubmittedAttempts(attempts)
	assert.Equal(t, []int{1, 2, 3}, numbers(got))
}

func TestSubmittedAttemptsReplacement(t *testing.T) {
	replaced := standard(2, 1100)
	replaced.ExtraGiven = true
	replaced.ReplacedBy = intPtr(1)

	e1 := extra(1, 950)
	attempts := []models.Attempt{standard(1, 900), replaced, standard(3, 1000), e1}

	got := SubmittedAttempts(attempts)
	require.Len(t, got, 3)
	ids := []uuid.UUID{got[0].ID, got[1].ID, got[2].ID}
	assert.Contains(t, ids, e1.ID)
	assert.NotContains(t, ids, replaced.ID)
	assert.Equal(t, []int{1, 1, 3}, numbers(got))
}

func TestSubmittedAttemptsStaleExtraExcluded(t *testing.T) {
	attempts := []models.Attempt{standard(1, 900), extra(1, 800)}

	got := SubmittedAttempts(attempts)
	require.Len(t, got, 1)
	assert.False(t, got[0].IsExtraAttempt)
}

func TestSubmittedAttemptsMissingExtra(t *testing.T) {
	replaced := standard(1, 900)
	replaced.ExtraGiven = true
	replaced.ReplacedBy = intPtr(2)

	got := SubmittedAttempts([]models.Attempt{replaced, standard(2, 1000)})
	assert.Equal(t, []int{2}, numbers(got))
}

func TestSubmittedAttemptsReplacedByWithoutExtraGiven(t *testing.T) {
	// a replacement pointer without the extra-given flag neither selects the
	// attempt nor its replacement
	a := standard(1, 900)
	a.ReplacedBy = intPtr(1)

	got := SubmittedAttempts([]models.Attempt{a, extra(1, 800), standard(2, 1000)})
	assert.Equal(t, []int{2}, numbers(got))
}

func TestSubmittedAttemptsProperties(t *testing.T) {
	r1 := standard(1, 900)
	r1.ExtraGiven = true
	r1.ReplacedBy = intPtr(1)
	r2 := standard(4, 1200)
	r2.ExtraGiven = true
	r2.ReplacedBy = intPtr(2)

	stale := extra(3, 700)
	attempts := []models.Attempt{
		standard(5, 1300), r1, standard(2, 1000), extra(2, 990), standard(3, 1100),
		extra(1, 880), r2, stale,
	}

	first := SubmittedAttempts(attempts)
	second := SubmittedAttempts(attempts)
	assert.Equal(t, first, second, "derivation is idempotent")

	seen := map[uuid.UUID]bool{}
	for i, a := range first {
		assert.False(t, seen[a.ID], "duplicate attempt %s", a.ID)
		seen[a.ID] = true
		if i > 0 {
			assert.LessOrEqual(t, first[i-1].AttemptNumber, a.AttemptNumber)
		}
		assert.False(t, a.IsSuperseded())
	}
	assert.Len(t, first, 5)
	assert.NotContains(t, first, stale)
}

func TestSubmittedAttemptsDoesNotMutateInput(t *testing.T) {
	attempts := []models.Attempt{standard(2, 1000), standard(1, 900)}
	_ = SubmittedAttempts(attempts)
	assert.Equal(t, []int{2, 1}, numbers(attempts))
}

func TestStandardAndExtraAttempts(t *testing.T) {
	attempts := []models.Attempt{extra(2, 1), standard(2, 1), extra(1, 1), standard(1, 1)}
	assert.Equal(t, []int{1, 2}, numbers(StandardAttempts(attempts)))
	assert.Equal(t, []int{1, 2}, numbers(ExtraAttempts(attempts)))
	for _, a := range ExtraAttempts(attempts) {
		assert.True(t, a.IsExtraAttempt)
	}
}

func TestExternalValue(t *testing.T) {
	assert.Equal(t, 1234, ExternalValue(1234, 0))
	assert.Equal(t, 1434, ExternalValue(1234, 2))
	assert.Equal(t, 2834, ExternalValue(1234, 16))
	assert.Equal(t, -1, ExternalValue(1234, models.PenaltyDNF))
	assert.Equal(t, -2, ExternalValue(0, models.PenaltyDNS))
}

func TestCompare(t *testing.T) {
	dnf := standard(2, 1500)
	dnf.Penalty = models.PenaltyDNF
	attempts := []models.Attempt{standard(1, 1000), dnf, standard(3, 1200)}

	d := Compare(attempts, []models.WcifAttempt{{Result: 1000}, {Result: -1}, {Result: 1200}})
	assert.False(t, d.Divergent)
	assert.Empty(t, d.Mismatches)

	d = Compare(attempts, []models.WcifAttempt{{Result: 1000}, {Result: 1500}})
	assert.True(t, d.Divergent)
	assert.Equal(t, []Mismatch{
		{Position: 2, Local: -1, Remote: 1500},
		{Position: 3, Local: 1200, Remote: 0},
	}, d.Mismatches)
}

func TestCompareRemoteLonger(t *testing.T) {
	d := Compare([]models.Attempt{standard(1, 1000)}, []models.WcifAttempt{{Result: 1000}, {Result: 900}})
	assert.True(t, d.Divergent)
	assert.Equal(t, []Mismatch{{Position: 2, Local: 0, Remote: 900}}, d.Mismatches)
}

func TestRemoteAttempts(t *testing.T) {
	round := &models.WcifRound{
		ID: "333-r1",
		Results: []models.WcifResult{
			{PersonID: 7, Attempts: []models.WcifAttempt{{Result: 1000}}},
		},
	}

	got, ok := RemoteAttempts(round, 7)
	require.True(t, ok)
	assert.Equal(t, 1000, got[0].Result)

	_, ok = RemoteAttempts(round, 8)
	assert.False(t, ok)

	_, ok = RemoteAttempts(nil, 7)
	assert.False(t, ok)
}
