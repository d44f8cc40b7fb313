// Package reconcile makes validated booth records numerically consistent with
// the official totals. For every candidate the booth sum plus a non-negative
// out-of-booth amount (postal and other categories counted outside the booth
// table) must equal the official total exactly after reconciliation.
package reconcile

import (
	"github.com/tallysheet/tallysheet/pkg/contests"
	"github.com/tallysheet/tallysheet/pkg/errors"
)

// Reconcile adjusts booth records so that for every candidate the booth sum
// plus the out-of-booth amount equals the official total exactly.
//
// A booth sum below the official total is attributed to out-of-booth
// categories by subtraction; booth values are never fabricated. A booth sum
// above the official total is an overcount that is spread evenly across all
// booths as a reduction (floor semantics keep the remainder non-negative),
// clamping at zero. If clamping prevents reaching the target the whole
// contest fails with ErrReconcileImpossible: the magnitudes, not just the
// column identities, are wrong.
//
// The input records are not modified; adjusted copies are returned together
// with the per-candidate result. Reconciling already-consistent records is a
// no-op.
func Reconcile(records []*contests.BoothRecord, candidates []contests.Candidate) ([]*contests.BoothRecord, *Result, error) {
	return ReconcileContest("", records, candidates)
}

// ReconcileContest is Reconcile with a contest identifier attached to any
// failure for reporting.
func ReconcileContest(contestID string, records []*contests.BoothRecord, candidates []contests.Candidate) ([]*contests.BoothRecord, *Result, error) {
	if len(candidates) == 0 {
		return nil, nil, errors.NewValidationError("candidates", nil, "empty candidate list")
	}

	adjusted := make([]*contests.BoothRecord, len(records))
	for i, r := range records {
		adjusted[i] = r.Clone()
	}
	// Remainder distribution depends on a stable, deterministic booth order.
	contests.SortRecords(adjusted)

	builder := NewResultBuilder(contestID).WithBooths(len(adjusted))

	for c, candidate := range candidates {
		boothSum := 0
		for _, record := range adjusted {
			boothSum += record.Votes[c]
		}

		target := candidate.OfficialVotes
		delta := target - boothSum

		switch {
		case delta >= 0:
			// Booths undercount or match: the shortfall is out-of-booth.
			builder.Add(candidate, boothSum, delta)

		default:
			// Booths overcount: spread the reduction evenly.
			if err := distribute(adjusted, c, delta); err != nil {
				return nil, nil, err
			}

			// Clamping may have absorbed part of the reduction. That means
			// the magnitudes are wrong, not just the column identities, so
			// fail rather than under-reconcile.
			finalSum := 0
			for _, record := range adjusted {
				finalSum += record.Votes[c]
			}
			if finalSum != target {
				return nil, nil, errors.NewReconcileError(contestID, candidate.Name, target, finalSum)
			}
			builder.Add(candidate, finalSum, 0)
		}
	}

	for _, record := range adjusted {
		record.RecomputeTotal()
	}

	return adjusted, builder.Build(), nil
}

// distribute spreads delta across all booths for candidate column c using
// floor division, so the remainder is always non-negative: the first
// remainder booths (in the stable booth order) absorb one extra unit each.
// Adjusted values are clamped at zero; the caller detects any shortfall by
// recomputing the column sum.
func distribute(records []*contests.BoothRecord, c, delta int) error {
	n := len(records)
	if n == 0 {
		return errors.New("no booth records to distribute over")
	}

	perBooth := floorDiv(delta, n)
	remainder := delta - perBooth*n

	for i, record := range records {
		adjust := perBooth
		if i < remainder {
			adjust++
		}
		v := record.Votes[c] + adjust
		if v < 0 {
			v = 0
		}
		if err := record.SetVote(c, v); err != nil {
			return err
		}
	}
	return nil
}

// floorDiv divides rounding toward negative infinity, so the matching
// remainder is always non-negative.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
