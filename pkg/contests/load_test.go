package contests

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const totalsDoc = `
contest: AC-042
name: Example Assembly Constituency
candidates:
  - name: Asha Rao
    party: ABC
    votes: 54210
  - name: Vikram Singh
    party: XYZ
    votes: 48102
  - name: Meena Kumari
    party: IND
    votes: 4031
config:
  max_booth_vote: 1500
  retry_budget: 2
`

func TestParseOfficialTotals(t *testing.T) {
	contest, err := ParseOfficialTotals([]byte(totalsDoc))
	require.NoError(t, err)

	assert.Equal(t, "AC-042", contest.ID)
	assert.Equal(t, "Example Assembly Constituency", contest.Name)
	require.Len(t, contest.Candidates, 3)

	// Sorted descending with positions assigned.
	assert.Equal(t, "Asha Rao", contest.Candidates[0].Name)
	assert.Equal(t, 0, contest.Candidates[0].Position)
	assert.Equal(t, 2, contest.Candidates[2].Position)

	// Overrides applied on top of defaults.
	assert.Equal(t, 1500, contest.Config.MaxBoothVote)
	assert.Equal(t, 2, contest.Config.RetryBudget)
	assert.Equal(t, DefaultMappingCeiling, contest.Config.MappingCeiling)
}

func TestParseOfficialTotalsUnsortedInput(t *testing.T) {
	doc := `
contest: AC-001
candidates:
  - name: Low
    party: L
    votes: 10
  - name: High
    party: H
    votes: 100
`
	contest, err := ParseOfficialTotals([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, "High", contest.Candidates[0].Name, "document order is not trusted")
}

func TestParseOfficialTotalsRejectsBadDoc(t *testing.T) {
	_, err := ParseOfficialTotals([]byte("candidates: []"))
	assert.Error(t, err, "empty candidate list")

	_, err = ParseOfficialTotals([]byte("candidates: [{name: A, votes: -5}]"))
	assert.Error(t, err, "negative votes")

	_, err = ParseOfficialTotals([]byte(":::not yaml"))
	assert.Error(t, err)
}

func TestLoadOfficialTotals(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "totals.yaml")
	require.NoError(t, os.WriteFile(path, []byte(totalsDoc), 0o644))

	contest, err := LoadOfficialTotals(path)
	require.NoError(t, err)
	assert.Equal(t, "AC-042", contest.ID)

	_, err = LoadOfficialTotals(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
