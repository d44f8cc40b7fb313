// Package validate checks mapped booth records against structural and
// cross-total invariants. Four independent checks run in a fixed order and
// their findings are concatenated into a Report: hard failures block the
// contest, warnings are surfaced for audit but never block acceptance.
package validate

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/tallysheet/tallysheet/pkg/contests"
)

// Report is the outcome of one validation attempt.
type Report struct {
	// Passed is true iff there are zero hard failures.
	Passed bool

	// Issues are the hard failures, in check order.
	Issues []string

	// Warnings are findings below the failure threshold.
	Warnings []string
}

// fail records a hard failure.
func (r *Report) fail(format string, args ...any) {
	r.Issues = append(r.Issues, fmt.Sprintf(format, args...))
	r.Passed = false
}

// warn records a non-blocking finding.
func (r *Report) warn(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Summary renders a one-line result for logs.
func (r *Report) Summary() string {
	if r.Passed {
		if len(r.Warnings) > 0 {
			return fmt.Sprintf("validation passed with %d warnings", len(r.Warnings))
		}
		return "validation passed"
	}
	return fmt.Sprintf("validation failed with %d issues", len(r.Issues))
}

// Validate runs all checks on the mapped records.
func Validate(records []*contests.BoothRecord, candidates []contests.Candidate, config contests.ContestConfig) *Report {
	report := &Report{Passed: true}

	checkSelfReference(report, records)
	checkCrossTotals(report, records, candidates, config)
	checkWinnerDistribution(report, records, candidates)
	checkMagnitude(report, records, config)

	return report
}

// selfReferenceWindow is how many leading vote columns are scanned for a
// leaked booth number.
const selfReferenceWindow = 3

// checkSelfReference flags records whose own booth number appears within the
// first vote columns: the classic booth-number-leaked-into-votes parsing
// defect. Always a hard failure.
func checkSelfReference(report *Report, records []*contests.BoothRecord) {
	for _, record := range records {
		n, err := strconv.Atoi(digitsPrefix(record.BoothID))
		if err != nil || n == 0 {
			continue
		}
		limit := selfReferenceWindow
		if len(record.Votes) < limit {
			limit = len(record.Votes)
		}
		for i := 0; i < limit; i++ {
			if record.Votes[i] == n {
				report.fail("booth %s: booth number %d leaked into vote column %d", record.BoothID, n, i)
				break
			}
		}
	}
}

// crossTotalTopN is how many leading candidates the cross-total check covers.
const crossTotalTopN = 3

// checkCrossTotals compares the summed booth votes of the top candidates
// against their official totals. Relative error above the failure threshold
// fails; between the warning and failure thresholds it warns.
func checkCrossTotals(report *Report, records []*contests.BoothRecord, candidates []contests.Candidate, config contests.ContestConfig) {
	n := crossTotalTopN
	if len(candidates) < n {
		n = len(candidates)
	}
	for i := 0; i < n; i++ {
		sum := 0
		for _, record := range records {
			if i < len(record.Votes) {
				sum += record.Votes[i]
			}
		}
		official := candidates[i].OfficialVotes
		if official == 0 {
			continue
		}
		relErr := math.Abs(float64(sum-official)) / float64(official)
		switch {
		case relErr > config.CrossTotalFailure:
			report.fail("candidate %q: booth sum %d differs from official %d by %.1f%%",
				candidates[i].Name, sum, official, relErr*100)
		case relErr > config.CrossTotalWarning:
			report.warn("candidate %q: booth sum %d differs from official %d by %.1f%%",
				candidates[i].Name, sum, official, relErr*100)
		}
	}
}

// checkWinnerDistribution tallies booth-level winners and compares the two
// most frequent against the top two official candidates. A mismatch is a
// warning: it occurs legitimately in close, spatially polarized contests, but
// is a strong signal of a wrong mapping.
func checkWinnerDistribution(report *Report, records []*contests.BoothRecord, candidates []contests.Candidate) {
	if len(candidates) < 2 || len(records) == 0 {
		return
	}

	wins := make([]int, len(candidates))
	for _, record := range records {
		best, bestVotes := -1, -1
		for i, v := range record.Votes {
			if i >= len(candidates) {
				break
			}
			if v > bestVotes {
				best, bestVotes = i, v
			}
		}
		if best >= 0 && bestVotes > 0 {
			wins[best]++
		}
	}

	order := make([]int, len(wins))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return wins[order[a]] > wins[order[b]]
	})

	top := map[int]bool{order[0]: true, order[1]: true}
	if !top[0] || !top[1] {
		report.warn("booth-winner distribution does not match the top two official candidates (most frequent: %q %d booths, %q %d booths)",
			candidates[order[0]].Name, wins[order[0]], candidates[order[1]].Name, wins[order[1]])
	}
}

// checkMagnitude enforces non-negative values under the plausibility ceiling.
// Violations are hard failures.
func checkMagnitude(report *Report, records []*contests.BoothRecord, config contests.ContestConfig) {
	for _, record := range records {
		for i, v := range record.Votes {
			if v < 0 {
				report.fail("booth %s: negative vote value %d in column %d", record.BoothID, v, i)
			} else if v > config.MaxBoothVote {
				report.fail("booth %s: vote value %d in column %d exceeds ceiling %d", record.BoothID, v, i, config.MaxBoothVote)
			}
		}
	}
}

// digitsPrefix returns the leading digit run of a booth identifier.
func digitsPrefix(id string) string {
	i := 0
	for i < len(id) && id[i] >= '0' && id[i] <= '9' {
		i++
	}
	return id[:i]
}
