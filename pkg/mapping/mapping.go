// Package mapping infers which extracted column belongs to which official
// candidate. A ColumnMapping is a partial injective function from column
// index to candidate index, built once per contest by one of the strategies
// in this package and then applied to every raw booth row.
package mapping

import (
	"fmt"
	"sort"

	"github.com/tallysheet/tallysheet/pkg/contests"
	"github.com/tallysheet/tallysheet/pkg/errors"
)

// ColumnMapping maps extracted-column indexes to candidate indexes.
// No two columns may map to the same candidate.
type ColumnMapping struct {
	strategy string
	columns  map[int]int
	assigned map[int]bool
}

// NewColumnMapping creates an empty mapping attributed to a strategy.
func NewColumnMapping(strategy string) *ColumnMapping {
	return &ColumnMapping{
		strategy: strategy,
		columns:  make(map[int]int),
		assigned: make(map[int]bool),
	}
}

// Strategy returns the name of the strategy that built this mapping.
func (m *ColumnMapping) Strategy() string {
	return m.strategy
}

// Set maps a column to a candidate, enforcing injectivity.
func (m *ColumnMapping) Set(column, candidate int) error {
	if column < 0 || candidate < 0 {
		return errors.NewValidationError("mapping", column, "negative index")
	}
	if _, ok := m.columns[column]; ok {
		return errors.NewValidationError("column", column, "column already mapped")
	}
	if m.assigned[candidate] {
		return errors.NewValidationError("candidate", candidate, "candidate already mapped")
	}
	m.columns[column] = candidate
	m.assigned[candidate] = true
	return nil
}

// Candidate returns the candidate index mapped to a column.
func (m *ColumnMapping) Candidate(column int) (int, bool) {
	c, ok := m.columns[column]
	return c, ok
}

// Columns returns the mapped column indexes in ascending order.
func (m *ColumnMapping) Columns() []int {
	cols := make([]int, 0, len(m.columns))
	for c := range m.columns {
		cols = append(cols, c)
	}
	sort.Ints(cols)
	return cols
}

// Len returns the number of mapped columns.
func (m *ColumnMapping) Len() int {
	return len(m.columns)
}

// String renders the mapping as "col->cand" pairs for diagnostics.
func (m *ColumnMapping) String() string {
	s := m.strategy + "{"
	for i, col := range m.Columns() {
		if i > 0 {
			s += ", "
		}
		s += fmt.Sprintf("%d->%d", col, m.columns[col])
	}
	return s + "}"
}

// Apply converts a raw booth row into a booth record indexed by candidate
// position. Columns beyond the row's token count contribute zero; the
// trailing summary columns are never part of the mapping.
func (m *ColumnMapping) Apply(row contests.RawBoothRow, numCandidates int) (*contests.BoothRecord, error) {
	if m.Len() == 0 {
		return nil, errors.NewValidationError("mapping", nil, "empty column mapping")
	}

	record := contests.NewBoothRecord(row.BoothID, numCandidates)
	for col, cand := range m.columns {
		if cand >= numCandidates {
			return nil, errors.NewValidationError("candidate", cand, "candidate index beyond official list")
		}
		if col >= len(row.Tokens) {
			continue
		}
		if err := record.SetVote(cand, row.Tokens[col]); err != nil {
			return nil, err
		}
	}
	return record, nil
}

// ApplyAll maps every row, dropping rows that cannot be applied.
func (m *ColumnMapping) ApplyAll(rows []contests.RawBoothRow, numCandidates int) ([]*contests.BoothRecord, error) {
	records := make([]*contests.BoothRecord, 0, len(rows))
	for _, row := range rows {
		record, err := m.Apply(row, numCandidates)
		if err != nil {
			return nil, fmt.Errorf("applying mapping to booth %s: %w", row.BoothID, err)
		}
		records = append(records, record)
	}
	contests.SortRecords(records)
	return records, nil
}
