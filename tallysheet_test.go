package tallysheet_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallysheet/tallysheet"
	"github.com/tallysheet/tallysheet/pkg/contests"
	"github.com/tallysheet/tallysheet/pkg/errors"
	"github.com/tallysheet/tallysheet/pkg/logging"
	"github.com/tallysheet/tallysheet/pkg/mapping"
)

func newSession(t *testing.T, opts ...tallysheet.Option) tallysheet.Session {
	t.Helper()
	opts = append([]tallysheet.Option{tallysheet.WithLogger(logging.NewNopLogger())}, opts...)
	session, err := tallysheet.New(opts...)
	require.NoError(t, err)
	return session
}

func officialList(totals map[string]int, order ...string) []contests.Candidate {
	list := make([]contests.Candidate, len(order))
	for i, name := range order {
		list[i] = contests.Candidate{
			Name:          name,
			OfficialVotes: totals[name],
			Position:      i,
		}
	}
	return list
}

func TestProcessContestStraightSheet(t *testing.T) {
	contest := contests.NewContest("AC-001", officialList(
		map[string]int{"A": 1000, "B": 600, "C": 300}, "A", "B", "C"))
	contest.Lines = []string{
		"Polling Station Results",
		"1 250 150 75",
		"2 250 150 75",
		"3 250 150 75",
		"4 250 150 75",
		"TOTAL VOTES 1000 600 300",
	}

	session := newSession(t)
	result := session.ProcessContest(context.Background(), contest)

	require.NoError(t, result.Err)
	assert.True(t, result.Reconciled())
	assert.Equal(t, contests.StateReconciled, contest.State)
	assert.Equal(t, "positional", result.Reconciliation.Metadata.Strategy)
	assert.True(t, result.Reconciliation.Consistent())
	assert.Equal(t, 0, result.Reconciliation.OutOfBoothTotal())
	require.Len(t, result.Records, 4)
	assert.Len(t, result.Skips, 2, "header and totals lines are skipped")
}

func TestProcessContestRetriesOnPermutedColumns(t *testing.T) {
	// The sheet prints candidates in ballot order C, A, B while the official
	// list ranks A, B, C. The positional mapping fails cross-total
	// validation; vote-total matching recovers the permutation.
	contest := contests.NewContest("AC-002", officialList(
		map[string]int{"A": 1000, "B": 600, "C": 300}, "A", "B", "C"))
	contest.Lines = []string{
		"5 75 250 150",
		"6 75 250 150",
		"7 75 250 150",
		"8 75 250 150",
	}

	session := newSession(t)
	result := session.ProcessContest(context.Background(), contest)

	require.NoError(t, result.Err)
	assert.True(t, result.Reconciled())
	assert.Equal(t, "vote-total", result.Reconciliation.Metadata.Strategy)

	// Records are indexed by official position after mapping.
	for _, record := range result.Records {
		assert.Equal(t, []int{250, 150, 75}, record.Votes)
	}
	assert.True(t, result.Reconciliation.Consistent())
}

func TestProcessContestUndercountGoesOutOfBooth(t *testing.T) {
	// Booth sums land about one percent under the official totals; the
	// difference is postal votes counted outside the booth table.
	contest := contests.NewContest("AC-003", officialList(
		map[string]int{"A": 1000, "B": 600}, "A", "B"))
	contest.Lines = []string{
		"1 495 300",
		"2 495 295",
	}

	session := newSession(t)
	result := session.ProcessContest(context.Background(), contest)

	require.NoError(t, result.Err)
	recon := result.Reconciliation
	require.Len(t, recon.Candidates, 2)
	assert.Equal(t, 10, recon.Candidates[0].OutOfBooth)
	assert.Equal(t, 5, recon.Candidates[1].OutOfBooth)
	assert.True(t, recon.Consistent())

	// Booth values themselves are untouched.
	assert.Equal(t, []int{495, 300}, result.Records[0].Votes)
	assert.Equal(t, []int{495, 295}, result.Records[1].Votes)
}

func TestProcessContestFailsWhenNoStrategyValidates(t *testing.T) {
	// Booth sums a factor of ten under the official totals: every strategy
	// either refuses to map or fails cross-total validation.
	contest := contests.NewContest("AC-004", officialList(
		map[string]int{"A": 1000, "B": 600}, "A", "B"))
	contest.Lines = []string{
		"1 100 50",
	}

	session := newSession(t)
	result := session.ProcessContest(context.Background(), contest)

	require.Error(t, result.Err)
	assert.True(t, errors.IsMappingFailure(result.Err))
	assert.False(t, result.Reconciled())
	assert.Equal(t, contests.StateFailed, contest.State)
	require.NotNil(t, result.Report, "the best attempt's report is kept for review")
	assert.NotEmpty(t, result.Report.Issues)
}

func TestProcessContestNoDataRows(t *testing.T) {
	contest := contests.NewContest("AC-005", officialList(
		map[string]int{"A": 100}, "A"))
	contest.Lines = []string{
		"Polling Station Results",
		"nothing numeric here",
	}

	session := newSession(t)
	result := session.ProcessContest(context.Background(), contest)

	require.Error(t, result.Err)
	assert.True(t, errors.IsMappingFailure(result.Err))
	assert.Len(t, result.Skips, 2)
}

func TestProcessContestRespectsContextCancellation(t *testing.T) {
	contest := contests.NewContest("AC-006", officialList(
		map[string]int{"A": 100}, "A"))
	contest.Lines = []string{"1 100"}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	session := newSession(t)
	result := session.ProcessContest(ctx, contest)

	require.Error(t, result.Err)
	assert.True(t, errors.Is(result.Err, context.Canceled))
}

func TestProcessAllKeepsInputOrder(t *testing.T) {
	good := contests.NewContest("AC-010", officialList(
		map[string]int{"A": 500, "B": 300}, "A", "B"))
	good.Lines = []string{"1 250 150", "2 250 150"}

	bad := contests.NewContest("AC-011", officialList(
		map[string]int{"A": 1000, "B": 600}, "A", "B"))
	bad.Lines = []string{"1 10 5"}

	tail := contests.NewContest("AC-012", officialList(
		map[string]int{"A": 500, "B": 300}, "A", "B"))
	tail.Lines = []string{"1 250 150", "2 250 150"}

	session := newSession(t, tallysheet.WithConcurrency(2))
	results := session.ProcessAll(context.Background(), []*contests.Contest{good, bad, tail})

	require.Len(t, results, 3)
	assert.Equal(t, "AC-010", results[0].Contest.ID)
	assert.Equal(t, "AC-011", results[1].Contest.ID)
	assert.True(t, results[0].Reconciled())
	assert.False(t, results[1].Reconciled(), "one bad sheet must not cancel its siblings")
	assert.True(t, results[2].Reconciled())
}

func TestNewRejectsBadOptions(t *testing.T) {
	_, err := tallysheet.New(tallysheet.WithStrategies())
	assert.Error(t, err)

	_, err = tallysheet.New(tallysheet.WithConcurrency(0))
	assert.Error(t, err)

	_, err = tallysheet.New(tallysheet.WithLogger(nil))
	assert.Error(t, err)
}

func TestSessionStrategies(t *testing.T) {
	session := newSession(t, tallysheet.WithStrategies(&mapping.PositionalStrategy{}))
	require.Len(t, session.Strategies(), 1)
	assert.Equal(t, "positional", session.Strategies()[0].Name())
}
