package mapping

import (
	"math"
	"sort"

	"github.com/tallysheet/tallysheet/pkg/contests"
	"github.com/tallysheet/tallysheet/pkg/errors"
)

// Strategy defines how a column mapping is inferred for a contest.
// Strategies are tried in order by the session pipeline; the first whose
// mapping validates is kept.
type Strategy interface {
	// Name returns the strategy name.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Infer computes a column mapping from the extracted rows and the
	// official candidate list.
	Infer(rows []contests.RawBoothRow, candidates []contests.Candidate, config contests.ContestConfig) (*ColumnMapping, error)
}

// DefaultStrategies returns the strategies in their standard trial order:
// positional first (zero computation, true whenever the printed order matches
// the official ranking), then vote-total matching, then the scale-corrected
// variant for partially extracted sheets.
func DefaultStrategies() []Strategy {
	return []Strategy{
		&PositionalStrategy{},
		&VoteTotalStrategy{},
		&VoteTotalStrategy{ScaleCorrected: true},
	}
}

// Infer tries the default strategies in order and returns the first mapping
// that assigns every official candidate a column. Callers that can validate
// mapped records should drive the strategies individually instead.
func Infer(rows []contests.RawBoothRow, candidates []contests.Candidate, config contests.ContestConfig) (*ColumnMapping, error) {
	var best *ColumnMapping
	for _, strategy := range DefaultStrategies() {
		m, err := strategy.Infer(rows, candidates, config)
		if err != nil {
			continue
		}
		if m.Len() == len(candidates) {
			return m, nil
		}
		if best == nil || m.Len() > best.Len() {
			best = m
		}
	}
	if best == nil {
		return nil, errors.NewMappingError("", "", nil)
	}
	return best, nil
}

// PositionalStrategy assumes extracted column i is official candidate i.
type PositionalStrategy struct{}

// Name returns the strategy name.
func (s *PositionalStrategy) Name() string { return "positional" }

// Description returns a human-readable description.
func (s *PositionalStrategy) Description() string {
	return "Assumes the printed column order matches the official ranking order"
}

// Infer maps column i to candidate i for every official candidate.
func (s *PositionalStrategy) Infer(rows []contests.RawBoothRow, candidates []contests.Candidate, _ contests.ContestConfig) (*ColumnMapping, error) {
	if len(candidates) == 0 {
		return nil, errors.NewValidationError("candidates", nil, "empty candidate list")
	}
	m := NewColumnMapping(s.Name())
	for i := range candidates {
		if err := m.Set(i, i); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// VoteTotalStrategy matches columns to candidates by comparing per-column
// sums across all rows against the official totals. The scale-corrected
// variant first rescales column totals by (sum official)/(sum columns) to
// compensate for systematically missed rows.
type VoteTotalStrategy struct {
	ScaleCorrected bool
}

// Name returns the strategy name.
func (s *VoteTotalStrategy) Name() string {
	if s.ScaleCorrected {
		return "vote-total-scaled"
	}
	return "vote-total"
}

// Description returns a human-readable description.
func (s *VoteTotalStrategy) Description() string {
	if s.ScaleCorrected {
		return "Greedy column-total matching with a global scale correction for partial extraction"
	}
	return "Greedy matching of column totals against official totals"
}

// Infer computes column totals over the candidate-vote window, sorts columns
// and candidates by magnitude, and greedily pairs them within the acceptance
// ceiling. Columns that cannot be matched are left unmapped.
func (s *VoteTotalStrategy) Infer(rows []contests.RawBoothRow, candidates []contests.Candidate, config contests.ContestConfig) (*ColumnMapping, error) {
	if len(rows) == 0 {
		return nil, errors.NewValidationError("rows", nil, "no extracted rows")
	}
	if len(candidates) == 0 {
		return nil, errors.NewValidationError("candidates", nil, "empty candidate list")
	}

	totals := columnTotals(rows, len(candidates))
	if len(totals) == 0 {
		return nil, errors.NewValidationError("rows", nil, "no candidate-vote columns")
	}

	scale := 1.0
	if s.ScaleCorrected {
		official := 0
		for _, c := range candidates {
			official += c.OfficialVotes
		}
		extracted := 0
		for _, t := range totals {
			extracted += t
		}
		if extracted > 0 && official > 0 {
			scale = float64(official) / float64(extracted)
		}
	}

	// Columns ordered by descending total; extraction order breaks ties so
	// the earlier column is offered the better candidate first.
	order := make([]int, len(totals))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		if totals[order[a]] != totals[order[b]] {
			return totals[order[a]] > totals[order[b]]
		}
		return order[a] < order[b]
	})

	m := NewColumnMapping(s.Name())
	taken := make([]bool, len(candidates))

	for _, col := range order {
		scaled := float64(totals[col]) * scale
		best, bestDiff := -1, math.MaxFloat64
		for cand, c := range candidates {
			if taken[cand] {
				continue
			}
			diff := relativeDiff(scaled, c.OfficialVotes)
			if !withinCeiling(scaled, c.OfficialVotes, config) {
				continue
			}
			// Equally close candidates resolve to the higher-ranked
			// (smaller index) one; ballot-order columns for top
			// candidates print more reliably.
			if diff < bestDiff {
				best, bestDiff = cand, diff
			}
		}
		if best < 0 {
			continue
		}
		taken[best] = true
		if err := m.Set(col, best); err != nil {
			return nil, err
		}
	}

	if m.Len() == 0 {
		return nil, errors.NewMappingError("", s.Name(), []string{"no column total within acceptance ceiling"})
	}
	return m, nil
}

// columnTotals sums each candidate-vote column across all rows. The window is
// the leading run of columns, at most one per official candidate; trailing
// summary columns are excluded.
func columnTotals(rows []contests.RawBoothRow, numCandidates int) []int {
	width := 0
	for _, row := range rows {
		n := len(row.Tokens)
		if n > width {
			width = n
		}
	}
	if width > numCandidates {
		width = numCandidates
	}

	totals := make([]int, width)
	for _, row := range rows {
		for i := 0; i < width && i < len(row.Tokens); i++ {
			totals[i] += row.Tokens[i]
		}
	}
	return totals
}

// relativeDiff computes |observed - official| / official. A zero official
// total compares on the absolute value so the division never blows up.
func relativeDiff(observed float64, official int) float64 {
	if official == 0 {
		return math.Abs(observed)
	}
	return math.Abs(observed-float64(official)) / float64(official)
}

// withinCeiling applies the acceptance test: relative difference under the
// ceiling fraction, with an additive vote slack for low-vote candidates.
func withinCeiling(observed float64, official int, config contests.ContestConfig) bool {
	allowance := float64(official)*config.MappingCeiling + float64(config.MappingSlack)
	return math.Abs(observed-float64(official)) <= allowance
}
