// Package contests defines the core data model for the tallysheet system:
// candidates with their official totals, raw extracted booth rows, canonical
// booth records, and the per-contest processing state machine. All types here
// are plain values owned by a single contest-processing run; the official
// candidate list is loaded once and treated as read-only ground truth.
package contests

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tallysheet/tallysheet/pkg/errors"
)

// Candidate is a canonical entity from the official-totals source.
// Immutable once loaded; one list per contest, ordered by descending votes.
type Candidate struct {
	// Name is the candidate's display name.
	Name string `yaml:"name"`

	// Party is the party code as published by the official source.
	Party string `yaml:"party"`

	// OfficialVotes is the authoritative total for this candidate.
	OfficialVotes int `yaml:"votes"`

	// Position is the rank by official votes, 0 = winner.
	Position int `yaml:"-"`
}

// RawBoothRow is one table row as extracted from a results sheet:
// a booth identifier plus the ordered integers that appeared on the row.
// Ephemeral; consumed immediately by the column mapper.
type RawBoothRow struct {
	// BoothID may carry a suffix such as "12A" or "12W".
	BoothID string

	// Tokens are the non-negative integers left-to-right after the booth
	// identifier, candidate-vote columns first, trailing summary columns
	// (valid, rejected, NOTA, grand total) last when present.
	Tokens []int
}

// BoothRecord is the canonical output unit for one polling station.
// Votes is indexed by candidate position in the official list, not by the
// extraction's column order. Immutable after reconciliation.
type BoothRecord struct {
	BoothID string

	// Votes has one entry per official candidate; columns that failed to
	// extract or map are zero.
	Votes []int

	// Total is maintained as the sum of Votes.
	Total int
}

// NewBoothRecord creates an empty record sized for the given candidate count.
func NewBoothRecord(boothID string, numCandidates int) *BoothRecord {
	return &BoothRecord{
		BoothID: boothID,
		Votes:   make([]int, numCandidates),
	}
}

// SetVote assigns a vote count to a candidate slot and keeps Total in sync.
func (r *BoothRecord) SetVote(candidate, votes int) error {
	if candidate < 0 || candidate >= len(r.Votes) {
		return errors.NewValidationError("candidate", candidate, "index out of range")
	}
	r.Total += votes - r.Votes[candidate]
	r.Votes[candidate] = votes
	return nil
}

// RecomputeTotal resets Total from the vote slice. Used after bulk
// adjustments during reconciliation.
func (r *BoothRecord) RecomputeTotal() {
	total := 0
	for _, v := range r.Votes {
		total += v
	}
	r.Total = total
}

// Clone returns a deep copy of the record.
func (r *BoothRecord) Clone() *BoothRecord {
	votes := make([]int, len(r.Votes))
	copy(votes, r.Votes)
	return &BoothRecord{BoothID: r.BoothID, Votes: votes, Total: r.Total}
}

// BoothIDLess orders booth identifiers by their numeric value first and the
// full string second, so "2" < "10" and "12" < "12A". Reconciliation relies
// on this ordering being stable and deterministic.
func BoothIDLess(a, b string) bool {
	na, aok := boothNumber(a)
	nb, bok := boothNumber(b)
	if aok && bok && na != nb {
		return na < nb
	}
	return a < b
}

// boothNumber parses the leading digit run of a booth identifier.
func boothNumber(id string) (int, bool) {
	i := 0
	for i < len(id) && id[i] >= '0' && id[i] <= '9' {
		i++
	}
	if i == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(id[:i])
	if err != nil {
		return 0, false
	}
	return n, true
}

// SortRecords orders booth records by ascending booth identifier in place.
func SortRecords(records []*BoothRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		return BoothIDLess(records[i].BoothID, records[j].BoothID)
	})
}

// ValidateCandidates checks the official candidate list for basic sanity:
// non-empty, non-negative totals, descending order.
func ValidateCandidates(candidates []Candidate) error {
	if len(candidates) == 0 {
		return errors.NewValidationError("candidates", nil, "empty candidate list")
	}
	for i, c := range candidates {
		if strings.TrimSpace(c.Name) == "" {
			return errors.NewValidationError("name", c.Name, fmt.Sprintf("candidate %d has no name", i))
		}
		if c.OfficialVotes < 0 {
			return errors.NewValidationError("votes", c.OfficialVotes, fmt.Sprintf("candidate %q has negative official votes", c.Name))
		}
		if i > 0 && candidates[i-1].OfficialVotes < c.OfficialVotes {
			return errors.NewValidationError("votes", c.OfficialVotes, fmt.Sprintf("candidate %q out of descending order", c.Name))
		}
	}
	return nil
}
