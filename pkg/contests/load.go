package contests

import (
	"os"
	"sort"

	"github.com/goccy/go-yaml"

	"github.com/tallysheet/tallysheet/pkg/errors"
)

// officialTotalsDoc is the on-disk shape of an official-totals document.
type officialTotalsDoc struct {
	Contest    string      `yaml:"contest"`
	Name       string      `yaml:"name"`
	Candidates []Candidate `yaml:"candidates"`
	Config     *configDoc  `yaml:"config"`
}

// configDoc holds the optional per-contest overrides accepted in an
// official-totals document. Pointers distinguish "absent" from zero.
type configDoc struct {
	MaxBoothVote      *int     `yaml:"max_booth_vote"`
	QuorumSlack       *int     `yaml:"quorum_slack"`
	CrossTotalFailure *float64 `yaml:"cross_total_failure"`
	CrossTotalWarning *float64 `yaml:"cross_total_warning"`
	MappingCeiling    *float64 `yaml:"mapping_ceiling"`
	MappingSlack      *int     `yaml:"mapping_slack"`
	RetryBudget       *int     `yaml:"retry_budget"`
	Markers           []string `yaml:"markers"`
}

// LoadOfficialTotals reads an official-totals YAML document from disk and
// returns a contest seeded with its candidates and any config overrides.
func LoadOfficialTotals(path string) (*Contest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}
	contest, err := ParseOfficialTotals(data)
	if err != nil {
		return nil, errors.WrapParse("yaml", path, err)
	}
	return contest, nil
}

// ParseOfficialTotals parses an official-totals YAML document. Candidates
// are sorted by descending official votes and assigned positions; the order
// in the document is not trusted.
func ParseOfficialTotals(data []byte) (*Contest, error) {
	var doc officialTotalsDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	candidates := doc.Candidates
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].OfficialVotes > candidates[j].OfficialVotes
	})
	for i := range candidates {
		candidates[i].Position = i
	}

	if err := ValidateCandidates(candidates); err != nil {
		return nil, err
	}

	contest := NewContest(doc.Contest, candidates)
	contest.Name = doc.Name
	if doc.Config != nil {
		applyOverrides(&contest.Config, doc.Config)
	}
	return contest, nil
}

func applyOverrides(cfg *ContestConfig, doc *configDoc) {
	if doc.MaxBoothVote != nil {
		cfg.MaxBoothVote = *doc.MaxBoothVote
	}
	if doc.QuorumSlack != nil {
		cfg.QuorumSlack = *doc.QuorumSlack
	}
	if doc.CrossTotalFailure != nil {
		cfg.CrossTotalFailure = *doc.CrossTotalFailure
	}
	if doc.CrossTotalWarning != nil {
		cfg.CrossTotalWarning = *doc.CrossTotalWarning
	}
	if doc.MappingCeiling != nil {
		cfg.MappingCeiling = *doc.MappingCeiling
	}
	if doc.MappingSlack != nil {
		cfg.MappingSlack = *doc.MappingSlack
	}
	if doc.RetryBudget != nil {
		cfg.RetryBudget = *doc.RetryBudget
	}
	if len(doc.Markers) > 0 {
		cfg.Markers = doc.Markers
	}
}
