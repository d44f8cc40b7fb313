package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallysheet/tallysheet/pkg/contests"
)

func TestColumnMappingInjectivity(t *testing.T) {
	m := NewColumnMapping("test")

	require.NoError(t, m.Set(0, 1))
	require.NoError(t, m.Set(1, 0))

	assert.Error(t, m.Set(0, 2), "column already mapped")
	assert.Error(t, m.Set(2, 1), "candidate already mapped")
	assert.Error(t, m.Set(-1, 0), "negative column")

	assert.Equal(t, 2, m.Len())
	cand, ok := m.Candidate(0)
	require.True(t, ok)
	assert.Equal(t, 1, cand)
	_, ok = m.Candidate(5)
	assert.False(t, ok)
}

func TestColumnMappingApply(t *testing.T) {
	m := NewColumnMapping("test")
	require.NoError(t, m.Set(0, 2))
	require.NoError(t, m.Set(1, 0))
	require.NoError(t, m.Set(2, 1))

	row := contests.RawBoothRow{BoothID: "7", Tokens: []int{40, 100, 60, 205}}
	record, err := m.Apply(row, 3)
	require.NoError(t, err)

	// Trailing summary token 205 is outside the mapping.
	assert.Equal(t, []int{100, 60, 40}, record.Votes)
	assert.Equal(t, 200, record.Total)
}

func TestColumnMappingApplyShortRow(t *testing.T) {
	m := NewColumnMapping("test")
	require.NoError(t, m.Set(0, 0))
	require.NoError(t, m.Set(1, 1))
	require.NoError(t, m.Set(2, 2))

	// A row missing its last column contributes zero there.
	row := contests.RawBoothRow{BoothID: "3", Tokens: []int{50, 25}}
	record, err := m.Apply(row, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{50, 25, 0}, record.Votes)
}

func TestApplyAllSortsRecords(t *testing.T) {
	m := NewColumnMapping("test")
	require.NoError(t, m.Set(0, 0))

	rows := []contests.RawBoothRow{
		{BoothID: "10", Tokens: []int{1}},
		{BoothID: "2", Tokens: []int{1}},
	}
	records, err := m.ApplyAll(rows, 1)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2", records[0].BoothID)
	assert.Equal(t, "10", records[1].BoothID)
}

func TestPositionalStrategy(t *testing.T) {
	candidates := []contests.Candidate{
		{Name: "A", OfficialVotes: 100, Position: 0},
		{Name: "B", OfficialVotes: 50, Position: 1},
	}

	s := &PositionalStrategy{}
	m, err := s.Infer(nil, candidates, contests.DefaultConfig())
	require.NoError(t, err)

	require.Equal(t, 2, m.Len())
	for i := range candidates {
		cand, ok := m.Candidate(i)
		require.True(t, ok)
		assert.Equal(t, i, cand)
	}

	_, err = s.Infer(nil, nil, contests.DefaultConfig())
	assert.Error(t, err)
}

func TestVoteTotalStrategyRecoversPermutation(t *testing.T) {
	// Official ranking A=1000, B=600, C=300 but the sheet prints C, A, B.
	candidates := []contests.Candidate{
		{Name: "A", OfficialVotes: 1000, Position: 0},
		{Name: "B", OfficialVotes: 600, Position: 1},
		{Name: "C", OfficialVotes: 300, Position: 2},
	}
	rows := []contests.RawBoothRow{
		{BoothID: "1", Tokens: []int{150, 500, 300}},
		{BoothID: "2", Tokens: []int{150, 500, 300}},
	}

	s := &VoteTotalStrategy{}
	m, err := s.Infer(rows, candidates, contests.DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 3, m.Len())

	expect := map[int]int{0: 2, 1: 0, 2: 1}
	for col, want := range expect {
		cand, ok := m.Candidate(col)
		require.True(t, ok, "column %d unmapped", col)
		assert.Equal(t, want, cand, "column %d", col)
	}
}

func TestVoteTotalStrategyScaleCorrected(t *testing.T) {
	// Only half the sheet extracted: raw totals are far outside the plain
	// ceiling but match after the global scale correction.
	candidates := []contests.Candidate{
		{Name: "A", OfficialVotes: 1000, Position: 0},
		{Name: "B", OfficialVotes: 600, Position: 1},
		{Name: "C", OfficialVotes: 400, Position: 2},
	}
	rows := []contests.RawBoothRow{
		{BoothID: "1", Tokens: []int{250, 150, 100}},
		{BoothID: "2", Tokens: []int{250, 150, 100}},
	}

	plain := &VoteTotalStrategy{}
	m, err := plain.Infer(rows, candidates, contests.DefaultConfig())
	if err == nil {
		assert.Less(t, m.Len(), 3, "plain matching must not fully map a half-extracted sheet")
	}

	scaled := &VoteTotalStrategy{ScaleCorrected: true}
	m, err = scaled.Infer(rows, candidates, contests.DefaultConfig())
	require.NoError(t, err)
	require.Equal(t, 3, m.Len())
	for i := range candidates {
		cand, ok := m.Candidate(i)
		require.True(t, ok)
		assert.Equal(t, i, cand)
	}
}

func TestVoteTotalStrategyLeavesUnmatchableColumns(t *testing.T) {
	candidates := []contests.Candidate{
		{Name: "A", OfficialVotes: 10000, Position: 0},
		{Name: "B", OfficialVotes: 5000, Position: 1},
	}
	// Second column total (30) is nowhere near either official total.
	rows := []contests.RawBoothRow{
		{BoothID: "1", Tokens: []int{5000, 15}},
		{BoothID: "2", Tokens: []int{5100, 15}},
	}

	s := &VoteTotalStrategy{}
	m, err := s.Infer(rows, candidates, contests.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, m.Len())
	cand, ok := m.Candidate(0)
	require.True(t, ok)
	assert.Equal(t, 0, cand, "10100 is within the ceiling of official 10000")
}

func TestVoteTotalStrategyColumnTieBreak(t *testing.T) {
	// Two columns with identical totals: extraction order decides which is
	// offered the better candidate first.
	candidates := []contests.Candidate{
		{Name: "A", OfficialVotes: 100, Position: 0},
		{Name: "B", OfficialVotes: 98, Position: 1},
	}
	rows := []contests.RawBoothRow{
		{BoothID: "1", Tokens: []int{99, 99}},
	}

	s := &VoteTotalStrategy{}
	for i := 0; i < 5; i++ {
		m, err := s.Infer(rows, candidates, contests.DefaultConfig())
		require.NoError(t, err)
		cand, ok := m.Candidate(0)
		require.True(t, ok)
		// 99 vs A(100) diff 0.01, vs B(98) diff ~0.0102: column 0 takes A.
		assert.Equal(t, 0, cand, "tie-break must be deterministic")
	}
}

func TestVoteTotalStrategyCandidateTieBreak(t *testing.T) {
	// Two candidates with identical official totals: the higher-ranked
	// (smaller index) wins the first column.
	candidates := []contests.Candidate{
		{Name: "A", OfficialVotes: 100, Position: 0},
		{Name: "B", OfficialVotes: 100, Position: 1},
	}
	rows := []contests.RawBoothRow{
		{BoothID: "1", Tokens: []int{100, 100}},
	}

	s := &VoteTotalStrategy{}
	m, err := s.Infer(rows, candidates, contests.DefaultConfig())
	require.NoError(t, err)

	cand, ok := m.Candidate(0)
	require.True(t, ok)
	assert.Equal(t, 0, cand)
	cand, ok = m.Candidate(1)
	require.True(t, ok)
	assert.Equal(t, 1, cand)
}

func TestVoteTotalStrategyIgnoresSummaryColumns(t *testing.T) {
	// Rows carry a trailing total column; the window stops at the candidate
	// count so it never competes for a mapping.
	candidates := []contests.Candidate{
		{Name: "A", OfficialVotes: 200, Position: 0},
		{Name: "B", OfficialVotes: 100, Position: 1},
	}
	rows := []contests.RawBoothRow{
		{BoothID: "1", Tokens: []int{100, 50, 150}},
		{BoothID: "2", Tokens: []int{100, 50, 150}},
	}

	s := &VoteTotalStrategy{}
	m, err := s.Infer(rows, candidates, contests.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 2, m.Len())
	_, ok := m.Candidate(2)
	assert.False(t, ok, "summary column must stay unmapped")
}

func TestInferFallsThroughStrategies(t *testing.T) {
	candidates := []contests.Candidate{
		{Name: "A", OfficialVotes: 1000, Position: 0},
		{Name: "B", OfficialVotes: 500, Position: 1},
	}
	// Printed order reversed: positional is wrong but still full, so Infer
	// returns it; the session's validator is what rejects it. With no rows
	// at all the vote-total strategies error and positional still wins.
	m, err := Infer(nil, candidates, contests.DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, "positional", m.Strategy())
	assert.Equal(t, 2, m.Len())
}
