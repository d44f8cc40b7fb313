package table

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallysheet/tallysheet/pkg/reconcile"
	"github.com/tallysheet/tallysheet/pkg/validate"
)

func TestResultToTableData(t *testing.T) {
	result := &reconcile.Result{
		Contest: "AC-001",
		Candidates: []reconcile.CandidateResult{
			{Name: "Asha Rao", Party: "ABC", BoothTotal: 53110, OutOfBooth: 1100, OfficialTotal: 54210},
		},
	}

	data := ResultToTableData(result)
	require.Len(t, data.Rows, 1)
	assert.Equal(t, "Asha Rao", data.Rows[0][0])
	assert.Equal(t, "53,110", data.Rows[0][2], "vote counts carry thousands separators")
	assert.Equal(t, "54,210", data.Rows[0][4])
	assert.Len(t, data.ColumnAlignment, len(data.Headers))
}

func TestReportToTableData(t *testing.T) {
	report := &validate.Report{
		Issues:   []string{"booth 12: booth number leaked"},
		Warnings: []string{"candidate sums differ by 3%"},
	}

	data := ReportToTableData(report)
	require.Len(t, data.Rows, 2)
	assert.Equal(t, "FAIL", data.Rows[0][0])
	assert.Equal(t, "WARN", data.Rows[1][0])
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	data := Data{
		Headers:         []string{"Candidate", "Votes"},
		Rows:            [][]string{{"A", "1,000"}, {"B", "600"}},
		ColumnAlignment: []Align{AlignLeft, AlignRight},
	}

	require.NoError(t, Render(&buf, data))
	out := strings.ToUpper(buf.String())
	assert.Contains(t, out, "CANDIDATE")
	assert.Contains(t, out, "1,000")
}
