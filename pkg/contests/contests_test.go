package contests

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoothRecordTotalInvariant(t *testing.T) {
	record := NewBoothRecord("12", 3)

	require.NoError(t, record.SetVote(0, 120))
	require.NoError(t, record.SetVote(1, 80))
	require.NoError(t, record.SetVote(2, 15))
	assert.Equal(t, 215, record.Total)

	// Overwriting a slot keeps the total in sync.
	require.NoError(t, record.SetVote(1, 90))
	assert.Equal(t, 225, record.Total)

	record.RecomputeTotal()
	assert.Equal(t, 225, record.Total)
}

func TestBoothRecordSetVoteOutOfRange(t *testing.T) {
	record := NewBoothRecord("1", 2)
	assert.Error(t, record.SetVote(2, 10))
	assert.Error(t, record.SetVote(-1, 10))
}

func TestBoothRecordClone(t *testing.T) {
	record := NewBoothRecord("3", 2)
	require.NoError(t, record.SetVote(0, 5))

	clone := record.Clone()
	require.NoError(t, clone.SetVote(0, 99))

	assert.Equal(t, 5, record.Votes[0], "clone must not alias the original")
	assert.Equal(t, 99, clone.Votes[0])
}

func TestBoothIDLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"2", "10", true},
		{"10", "2", false},
		{"12", "12A", true},
		{"12A", "12W", true},
		{"7", "7", false},
		{"A", "B", true}, // non-numeric falls back to string order
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BoothIDLess(tt.a, tt.b), "BoothIDLess(%q, %q)", tt.a, tt.b)
	}
}

func TestSortRecordsStable(t *testing.T) {
	records := []*BoothRecord{
		NewBoothRecord("10", 1),
		NewBoothRecord("2", 1),
		NewBoothRecord("1A", 1),
		NewBoothRecord("1", 1),
	}
	SortRecords(records)

	ids := []string{records[0].BoothID, records[1].BoothID, records[2].BoothID, records[3].BoothID}
	assert.Equal(t, []string{"1", "1A", "2", "10"}, ids)
}

func TestValidateCandidates(t *testing.T) {
	valid := []Candidate{
		{Name: "A", Party: "P1", OfficialVotes: 100, Position: 0},
		{Name: "B", Party: "P2", OfficialVotes: 50, Position: 1},
	}
	assert.NoError(t, ValidateCandidates(valid))

	assert.Error(t, ValidateCandidates(nil), "empty list")
	assert.Error(t, ValidateCandidates([]Candidate{{Name: "", OfficialVotes: 10}}), "missing name")
	assert.Error(t, ValidateCandidates([]Candidate{{Name: "A", OfficialVotes: -1}}), "negative votes")
	assert.Error(t, ValidateCandidates([]Candidate{
		{Name: "A", OfficialVotes: 10},
		{Name: "B", OfficialVotes: 20},
	}), "ascending order")
}

func TestStateTransitions(t *testing.T) {
	assert.True(t, StateExtracted.CanTransition(StateMapped))
	assert.True(t, StateMapped.CanTransition(StateValidated))
	assert.True(t, StateMapped.CanTransition(StateExtracted), "retry with next strategy")
	assert.True(t, StateValidated.CanTransition(StateReconciled))
	assert.True(t, StateValidated.CanTransition(StateFailed))

	assert.False(t, StateExtracted.CanTransition(StateReconciled))
	assert.False(t, StateReconciled.CanTransition(StateFailed), "terminal")
	assert.False(t, StateFailed.CanTransition(StateExtracted), "terminal")

	assert.True(t, StateReconciled.Terminal())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateMapped.Terminal())
}

func TestQuorum(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 8, cfg.Quorum(10))
	assert.Equal(t, 1, cfg.Quorum(2), "quorum never drops below one")
}
