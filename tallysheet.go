// Package tallysheet reconciles election results sheets against official
// totals. Given the raw text lines of a results table (produced by an
// external OCR/text extraction service) and the authoritative per-candidate
// totals for the contest, it recovers which extracted column belongs to which
// candidate, validates the per-booth records, and adjusts them so that booth
// sums plus out-of-booth votes (postal and similar categories) equal the
// official totals exactly.
//
// The pipeline for one contest is strictly sequential: extract rows, infer a
// column mapping, validate, reconcile. Mapping strategies are tried in order
// until one validates, bounded by the contest's retry budget. Contests are
// independent and may be processed in parallel.
package tallysheet

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tallysheet/tallysheet/pkg/contests"
	"github.com/tallysheet/tallysheet/pkg/errors"
	"github.com/tallysheet/tallysheet/pkg/extract"
	"github.com/tallysheet/tallysheet/pkg/logging"
	"github.com/tallysheet/tallysheet/pkg/mapping"
	"github.com/tallysheet/tallysheet/pkg/reconcile"
	"github.com/tallysheet/tallysheet/pkg/validate"
)

// Session processes contests against a shared, read-only official-totals
// source. It is safe for concurrent use; contests share no mutable state.
type Session interface {
	// ProcessContest runs the full pipeline on one contest. The contest
	// ends in exactly one of StateReconciled or StateFailed.
	ProcessContest(ctx context.Context, contest *contests.Contest) *ContestResult

	// ProcessAll processes contests in parallel and returns one result per
	// contest, in input order.
	ProcessAll(ctx context.Context, list []*contests.Contest) []*ContestResult

	// Strategies returns the mapping strategies in trial order.
	Strategies() []mapping.Strategy
}

// ContestResult is the terminal outcome for one contest: either a reconciled
// record set or an itemized failure. There is no partial-success state.
type ContestResult struct {
	// Contest is the processed contest, left in a terminal state.
	Contest *contests.Contest

	// Records are the reconciled booth records (nil on failure).
	Records []*contests.BoothRecord

	// Reconciliation is the per-candidate result (nil on failure).
	Reconciliation *reconcile.Result

	// Report is the validation report of the accepted mapping, or of the
	// best attempt on failure.
	Report *validate.Report

	// Skips lists every dropped input line with its reason.
	Skips []contests.SkipReason

	// Err is nil iff the contest reconciled.
	Err error
}

// Reconciled reports whether the contest reached the successful terminal
// state.
func (r *ContestResult) Reconciled() bool {
	return r.Err == nil && r.Contest.State == contests.StateReconciled
}

// session is the internal implementation of the Session interface.
type session struct {
	strategies  []mapping.Strategy
	logger      *zerolog.Logger
	concurrency int
}

// New creates a new Session with the given options.
func New(opts ...Option) (Session, error) {
	s := &session{
		strategies:  mapping.DefaultStrategies(),
		logger:      logging.Default(),
		concurrency: 4,
	}

	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}

	return s, nil
}

// Strategies returns the mapping strategies in trial order.
func (s *session) Strategies() []mapping.Strategy {
	return s.strategies
}

// ProcessContest runs extract -> map -> validate -> reconcile on one contest,
// retrying with the next mapping strategy when validation fails, up to the
// contest's retry budget.
func (s *session) ProcessContest(ctx context.Context, contest *contests.Contest) *ContestResult {
	log := s.logger.With().Str("contest", contest.ID).Logger()
	result := &ContestResult{Contest: contest}

	if err := contests.ValidateCandidates(contest.Candidates); err != nil {
		return s.fail(contest, result, err)
	}

	// Stage 1: row extraction.
	extractor := extract.New(contest.Config, len(contest.Candidates))
	rows, skips := extractor.ExtractAll(contest.Lines)
	contest.Rows = rows
	contest.Skips = skips
	result.Skips = skips
	contest.State = contests.StateExtracted

	log.Debug().Int("rows", len(rows)).Int("skipped", len(skips)).Msg("Extracted booth rows")

	if len(rows) == 0 {
		return s.fail(contest, result, errors.NewMappingError(contest.ID, "", []string{"no data rows extracted"}))
	}

	// Stages 2+3: mapper/validator loop over the strategy list.
	budget := contest.Config.RetryBudget
	if budget <= 0 || budget > len(s.strategies) {
		budget = len(s.strategies)
	}

	var bestStrategy string
	var bestReport *validate.Report

	for attempt := 0; attempt < budget; attempt++ {
		if err := ctx.Err(); err != nil {
			return s.fail(contest, result, err)
		}

		strategy := s.strategies[attempt]
		contest.State = contests.StateExtracted

		m, err := strategy.Infer(rows, contest.Candidates, contest.Config)
		if err != nil {
			log.Debug().Str("strategy", strategy.Name()).Err(err).Msg("Strategy produced no mapping")
			continue
		}

		records, err := m.ApplyAll(rows, len(contest.Candidates))
		if err != nil {
			log.Debug().Str("strategy", strategy.Name()).Err(err).Msg("Mapping could not be applied")
			continue
		}
		contest.State = contests.StateMapped

		report := validate.Validate(records, contest.Candidates, contest.Config)
		if !report.Passed {
			log.Info().
				Str("strategy", strategy.Name()).
				Int("issues", len(report.Issues)).
				Msg("Mapping failed validation, trying next strategy")
			if bestReport == nil || len(report.Issues) < len(bestReport.Issues) {
				bestStrategy, bestReport = strategy.Name(), report
			}
			continue
		}
		contest.State = contests.StateValidated

		// Stage 4: reconciliation. A failure here is terminal and distinct
		// from mapping failure; the magnitudes are wrong, not the columns.
		adjusted, recon, err := reconcile.ReconcileContest(contest.ID, records, contest.Candidates)
		if err != nil {
			result.Report = report
			return s.fail(contest, result, err)
		}
		recon.Warnings = report.Warnings
		recon.Metadata.Strategy = m.Strategy()

		contest.Records = adjusted
		contest.State = contests.StateReconciled
		result.Records = adjusted
		result.Reconciliation = recon
		result.Report = report

		log.Info().
			Str("strategy", strategy.Name()).
			Int("booths", len(adjusted)).
			Int("warnings", len(report.Warnings)).
			Msg("Contest reconciled")
		return result
	}

	var issues []string
	if bestReport != nil {
		issues = bestReport.Issues
	}
	result.Report = bestReport
	return s.fail(contest, result, errors.NewMappingError(contest.ID, bestStrategy, issues))
}

// fail moves the contest to the failed terminal state.
func (s *session) fail(contest *contests.Contest, result *ContestResult, err error) *ContestResult {
	contest.State = contests.StateFailed
	result.Err = err
	s.logger.Error().Str("contest", contest.ID).Err(err).Msg("Contest failed")
	return result
}
