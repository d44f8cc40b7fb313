// Package extract turns raw text lines from an OCR/text extraction service
// into structured booth rows. It is the first stage of the contest pipeline:
// a denylist rejects header and footer lines, a fixed substitution table
// repairs common letter/digit confusions, and the remainder is tokenized into
// digit runs with the booth identifier split off the front.
package extract

import (
	"strconv"
	"strings"

	"github.com/tallysheet/tallysheet/pkg/contests"
	"github.com/tallysheet/tallysheet/pkg/errors"
)

// substitutions is the fixed character-repair table for noisy sources.
// A table entry is applied only when the character sits next to a digit,
// so prose such as "Station" is left alone.
var substitutions = map[byte]byte{
	'O': '0',
	'o': '0',
	'I': '1',
	'l': '1',
	'|': '1',
	'S': '5',
	's': '5',
	'B': '8',
	'Z': '2',
	'z': '2',
}

// Extractor parses raw lines for one contest. It is a pure function of its
// inputs plus the fixed substitution table; safe for concurrent use.
type Extractor struct {
	config        contests.ContestConfig
	numCandidates int
	markers       []string
}

// New creates an extractor for a contest with the given candidate count.
func New(config contests.ContestConfig, numCandidates int) *Extractor {
	markers := make([]string, len(config.Markers))
	for i, m := range config.Markers {
		markers[i] = strings.ToLower(m)
	}
	return &Extractor{
		config:        config,
		numCandidates: numCandidates,
		markers:       markers,
	}
}

// Extract parses one raw text line into a booth row. A nil row with a
// *errors.RowError means the line was rejected; the error carries the reason.
func (e *Extractor) Extract(line string) (*contests.RawBoothRow, error) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return nil, errors.NewRowError(trimmed, "empty line")
	}

	if e.isMarker(trimmed) {
		return nil, errors.NewRowError(trimmed, "header/footer marker")
	}

	normalized := Normalize(trimmed)
	fields := strings.Fields(normalized)

	boothID, rest, ok := e.boothIdentifier(fields)
	if !ok {
		return nil, errors.NewRowError(trimmed, "no booth identifier")
	}

	tokens := e.tokenize(rest)
	if len(tokens) < e.config.Quorum(e.numCandidates) {
		return nil, errors.NewRowError(trimmed, "below quorum")
	}

	return &contests.RawBoothRow{BoothID: boothID, Tokens: tokens}, nil
}

// ExtractAll parses every line, collecting rows and skip reasons.
func (e *Extractor) ExtractAll(lines []string) ([]contests.RawBoothRow, []contests.SkipReason) {
	rows := make([]contests.RawBoothRow, 0, len(lines))
	var skips []contests.SkipReason
	for _, line := range lines {
		row, err := e.Extract(line)
		if err != nil {
			var rowErr *errors.RowError
			reason := err.Error()
			if errors.As(err, &rowErr) {
				reason = rowErr.Reason
			}
			skips = append(skips, contests.SkipReason{
				Line:   strings.TrimSpace(line),
				Reason: reason,
			})
			continue
		}
		rows = append(rows, *row)
	}
	return rows, skips
}

// isMarker reports whether the line matches the header/footer denylist.
func (e *Extractor) isMarker(line string) bool {
	lower := strings.ToLower(line)
	for _, m := range e.markers {
		if strings.Contains(lower, m) {
			return true
		}
	}
	return false
}

// Normalize applies the substitution table left-to-right. A character is
// replaced only when an adjacent character is a digit; the left neighbor is
// checked after its own repair so runs like "3OO" collapse to "300".
func Normalize(line string) string {
	b := []byte(line)
	out := make([]byte, len(b))
	copy(out, b)
	for i := range b {
		repl, ok := substitutions[b[i]]
		if !ok {
			continue
		}
		prevDigit := i > 0 && isDigit(out[i-1])
		nextDigit := i+1 < len(b) && isDigit(b[i+1])
		if prevDigit || nextDigit {
			out[i] = repl
		}
	}
	return string(out)
}

// boothIdentifier finds the booth id at the head of the field list and
// returns the remaining fields. When a row begins with both a serial number
// and a booth number, the known-booth set disambiguates: the first token is
// only the booth if it is already known.
func (e *Extractor) boothIdentifier(fields []string) (string, []string, bool) {
	if len(fields) == 0 {
		return "", nil, false
	}

	first, ok := boothToken(fields[0])
	if !ok {
		return "", nil, false
	}

	if len(e.config.KnownBooths) > 0 && !e.config.KnownBooths[first] && len(fields) > 1 {
		if second, ok2 := boothToken(fields[1]); ok2 && e.config.KnownBooths[second] {
			return second, fields[2:], true
		}
	}

	return first, fields[1:], true
}

// boothToken validates a field as a booth identifier: a digit run with an
// optional short letter suffix such as "12A" or "12W".
func boothToken(field string) (string, bool) {
	i := 0
	for i < len(field) && isDigit(field[i]) {
		i++
	}
	if i == 0 {
		return "", false
	}
	suffix := field[i:]
	if len(suffix) > 2 {
		return "", false
	}
	for j := 0; j < len(suffix); j++ {
		c := suffix[j]
		if !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') {
			return "", false
		}
	}
	return strings.ToUpper(field[:i] + suffix), true
}

// tokenize extracts maximal digit runs from the remaining fields, dropping
// values above the per-booth ceiling (probable concatenation of adjacent
// printed numbers).
func (e *Extractor) tokenize(fields []string) []int {
	var tokens []int
	for _, field := range fields {
		start := -1
		for i := 0; i <= len(field); i++ {
			if i < len(field) && isDigit(field[i]) {
				if start < 0 {
					start = i
				}
				continue
			}
			if start >= 0 {
				if n, err := strconv.Atoi(field[start:i]); err == nil && n <= e.config.MaxBoothVote {
					tokens = append(tokens, n)
				}
				start = -1
			}
		}
	}
	return tokens
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
