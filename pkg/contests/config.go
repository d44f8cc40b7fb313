package contests

// ContestConfig carries the per-contest constants recognized by the core.
// It is always passed explicitly into calls; nothing reads it from process
// state.
type ContestConfig struct {
	// MaxBoothVote is the plausibility ceiling for a single booth's vote
	// count for one candidate. Tokens above it are treated as probable
	// concatenation of adjacent printed numbers and discarded; record
	// values above it are hard validation failures.
	MaxBoothVote int `yaml:"max_booth_vote"`

	// QuorumSlack is subtracted from the candidate count to form the
	// minimum token quorum for a data row. One or two columns routinely
	// fail to OCR.
	QuorumSlack int `yaml:"quorum_slack"`

	// CrossTotalFailure is the relative error above which a cross-total
	// mismatch fails validation.
	CrossTotalFailure float64 `yaml:"cross_total_failure"`

	// CrossTotalWarning is the relative error above which a cross-total
	// mismatch is surfaced as a warning. Errors between CrossTotalWarning
	// and CrossTotalFailure warn; errors above CrossTotalFailure fail.
	CrossTotalWarning float64 `yaml:"cross_total_warning"`

	// MappingCeiling is the maximum relative difference between a column
	// total and an official total for the greedy matcher to accept the
	// pair.
	MappingCeiling float64 `yaml:"mapping_ceiling"`

	// MappingSlack is an additive vote allowance on top of the ceiling for
	// low-vote candidates, where relative error is noisy.
	MappingSlack int `yaml:"mapping_slack"`

	// RetryBudget bounds the mapper/validator loop per contest.
	RetryBudget int `yaml:"retry_budget"`

	// Markers is the denylist of header/footer fragments; a line containing
	// any of them (case-insensitive) is rejected as non-data.
	Markers []string `yaml:"markers"`

	// KnownBooths, when non-empty, disambiguates rows that begin with both
	// a serial number and a booth number: the first token is taken as the
	// booth only if it is a known identifier.
	KnownBooths map[string]bool `yaml:"-"`
}

// Default configuration values. Tuned against state assembly sheets where a
// booth rarely exceeds 2000 electors.
const (
	DefaultMaxBoothVote      = 2000
	DefaultQuorumSlack       = 2
	DefaultCrossTotalFailure = 0.05
	DefaultCrossTotalWarning = 0.02
	DefaultMappingCeiling    = 0.25
	DefaultMappingSlack      = 50
	DefaultRetryBudget       = 3
)

// DefaultMarkers are header/footer fragments common to results sheets.
var DefaultMarkers = []string{
	"serial no",
	"polling station",
	"candidate",
	"total votes",
	"page ",
	"form 20",
	"constituency",
	"rejected votes",
	"electors",
}

// DefaultConfig returns a ContestConfig with the package defaults.
func DefaultConfig() ContestConfig {
	markers := make([]string, len(DefaultMarkers))
	copy(markers, DefaultMarkers)
	return ContestConfig{
		MaxBoothVote:      DefaultMaxBoothVote,
		QuorumSlack:       DefaultQuorumSlack,
		CrossTotalFailure: DefaultCrossTotalFailure,
		CrossTotalWarning: DefaultCrossTotalWarning,
		MappingCeiling:    DefaultMappingCeiling,
		MappingSlack:      DefaultMappingSlack,
		RetryBudget:       DefaultRetryBudget,
		Markers:           markers,
	}
}

// Quorum returns the minimum number of vote tokens a row must carry to be
// accepted, given the official candidate count.
func (c ContestConfig) Quorum(numCandidates int) int {
	q := numCandidates - c.QuorumSlack
	if q < 1 {
		q = 1
	}
	return q
}
