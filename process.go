package tallysheet

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/tallysheet/tallysheet/pkg/contests"
)

// ProcessAll runs the pipeline over many contests in parallel. Contests share
// no mutable state, so no synchronization is needed beyond the bounded worker
// group. Results are returned in input order; a failed contest occupies its
// slot with a ContestResult carrying the error.
func (s *session) ProcessAll(ctx context.Context, list []*contests.Contest) []*ContestResult {
	results := make([]*ContestResult, len(list))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, contest := range list {
		i, contest := i, contest
		g.Go(func() error {
			results[i] = s.ProcessContest(gctx, contest)
			// Individual contest failures are carried in the result, not
			// propagated; one bad sheet must not cancel its siblings.
			return nil
		})
	}

	// Err is always nil here; Wait is for completion only.
	_ = g.Wait()

	return results
}
