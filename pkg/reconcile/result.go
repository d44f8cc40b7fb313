package reconcile

import (
	"fmt"
	"strings"
	"time"

	"github.com/tallysheet/tallysheet/pkg/contests"
)

// CandidateResult is the reconciled figure set for one candidate.
// Invariant: BoothTotal + OutOfBooth == OfficialTotal, OutOfBooth >= 0.
type CandidateResult struct {
	Name          string
	Party         string
	BoothTotal    int
	OutOfBooth    int
	OfficialTotal int
}

// Consistent reports whether the candidate invariant holds.
func (c CandidateResult) Consistent() bool {
	return c.OutOfBooth >= 0 && c.BoothTotal+c.OutOfBooth == c.OfficialTotal
}

// Result is the outcome of reconciling one contest.
type Result struct {
	// Contest identifies the reconciled contest.
	Contest string

	// Candidates holds one entry per official candidate, in official order.
	Candidates []CandidateResult

	// Warnings carried over from validation, for audit.
	Warnings []string

	// Metadata about the reconciliation run.
	Metadata ResultMetadata
}

// ResultMetadata describes the reconciliation run.
type ResultMetadata struct {
	StartTime time.Time
	EndTime   time.Time
	Duration  time.Duration

	// Strategy is the mapping strategy that produced the records.
	Strategy string

	// Booths is the number of booth records reconciled.
	Booths int
}

// Consistent reports whether every candidate invariant holds.
func (r *Result) Consistent() bool {
	for _, c := range r.Candidates {
		if !c.Consistent() {
			return false
		}
	}
	return true
}

// OutOfBoothTotal returns the summed out-of-booth votes across candidates.
func (r *Result) OutOfBoothTotal() int {
	total := 0
	for _, c := range r.Candidates {
		total += c.OutOfBooth
	}
	return total
}

// Summary returns a one-line human-readable summary.
func (r *Result) Summary() string {
	return fmt.Sprintf("reconciled %d candidates across %d booths (%d out-of-booth votes)",
		len(r.Candidates), r.Metadata.Booths, r.OutOfBoothTotal())
}

// Report generates a detailed text report of the reconciliation.
func (r *Result) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reconciliation Report\n=====================\n")
	if r.Contest != "" {
		fmt.Fprintf(&b, "Contest: %s\n", r.Contest)
	}
	fmt.Fprintf(&b, "Booths: %d\nDuration: %s\n\n", r.Metadata.Booths, r.Metadata.Duration)

	for _, c := range r.Candidates {
		fmt.Fprintf(&b, "%-30s %-10s booth=%d out-of-booth=%d official=%d\n",
			c.Name, c.Party, c.BoothTotal, c.OutOfBooth, c.OfficialTotal)
	}

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "\nWarnings (%d):\n", len(r.Warnings))
		for i, w := range r.Warnings {
			fmt.Fprintf(&b, "%d. %s\n", i+1, w)
		}
	}
	return b.String()
}

// ResultBuilder accumulates candidate results during reconciliation.
type ResultBuilder struct {
	result *Result
}

// NewResultBuilder creates a builder for a contest.
func NewResultBuilder(contestID string) *ResultBuilder {
	return &ResultBuilder{
		result: &Result{
			Contest: contestID,
			Metadata: ResultMetadata{
				StartTime: time.Now(),
			},
		},
	}
}

// Add appends a candidate's reconciled figures.
func (b *ResultBuilder) Add(candidate contests.Candidate, boothTotal, outOfBooth int) *ResultBuilder {
	b.result.Candidates = append(b.result.Candidates, CandidateResult{
		Name:          candidate.Name,
		Party:         candidate.Party,
		BoothTotal:    boothTotal,
		OutOfBooth:    outOfBooth,
		OfficialTotal: candidate.OfficialVotes,
	})
	return b
}

// WithWarnings attaches validation warnings for audit.
func (b *ResultBuilder) WithWarnings(warnings []string) *ResultBuilder {
	b.result.Warnings = warnings
	return b
}

// WithStrategy records the mapping strategy used.
func (b *ResultBuilder) WithStrategy(strategy string) *ResultBuilder {
	b.result.Metadata.Strategy = strategy
	return b
}

// WithBooths records the booth count.
func (b *ResultBuilder) WithBooths(n int) *ResultBuilder {
	b.result.Metadata.Booths = n
	return b
}

// Build finalizes and returns the Result.
func (b *ResultBuilder) Build() *Result {
	b.result.Metadata.EndTime = time.Now()
	b.result.Metadata.Duration = b.result.Metadata.EndTime.Sub(b.result.Metadata.StartTime)
	return b.result
}
