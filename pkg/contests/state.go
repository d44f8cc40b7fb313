package contests

// State tracks a contest through the processing pipeline.
// Legal transitions: Extracted -> Mapped -> Validated -> Reconciled, with
// Mapped -> Extracted on validation failure (retry with the next mapping
// strategy) and Validated -> Failed when every strategy is exhausted.
type State int

const (
	// StateExtracted means raw booth rows exist but no mapping has been
	// applied.
	StateExtracted State = iota
	// StateMapped means a column mapping has been applied to the rows.
	StateMapped
	// StateValidated means the mapped records passed validation.
	StateValidated
	// StateReconciled is the successful terminal state.
	StateReconciled
	// StateFailed is the unsuccessful terminal state.
	StateFailed
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateExtracted:
		return "extracted"
	case StateMapped:
		return "mapped"
	case StateValidated:
		return "validated"
	case StateReconciled:
		return "reconciled"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state ends processing.
func (s State) Terminal() bool {
	return s == StateReconciled || s == StateFailed
}

// CanTransition reports whether moving from s to next is legal.
func (s State) CanTransition(next State) bool {
	switch s {
	case StateExtracted:
		return next == StateMapped || next == StateFailed
	case StateMapped:
		return next == StateValidated || next == StateExtracted || next == StateFailed
	case StateValidated:
		return next == StateReconciled || next == StateFailed
	default:
		return false
	}
}

// SkipReason records why a raw line was dropped by the row extractor.
type SkipReason struct {
	// Line is the offending input line, trimmed.
	Line string

	// Reason is a short human-readable explanation.
	Reason string
}

// Contest is one constituency's results for one election instance, together
// with everything accumulated while processing it. It is owned by a single
// processing run and never shared.
type Contest struct {
	// ID identifies the contest (e.g. constituency number or slug).
	ID string

	// Name is the display name, when known.
	Name string

	// Candidates is the official list, descending by votes. Read-only.
	Candidates []Candidate

	// Config carries the per-contest constants.
	Config ContestConfig

	// Lines are the raw text lines from the extraction service.
	Lines []string

	// Rows are the extracted booth rows.
	Rows []RawBoothRow

	// Records are the mapped (and eventually reconciled) booth records.
	Records []*BoothRecord

	// Skips records every dropped line with its reason.
	Skips []SkipReason

	// State is the pipeline state.
	State State
}

// NewContest builds a contest around an official candidate list, applying
// the default configuration.
func NewContest(id string, candidates []Candidate) *Contest {
	return &Contest{
		ID:         id,
		Candidates: candidates,
		Config:     DefaultConfig(),
		State:      StateExtracted,
	}
}
