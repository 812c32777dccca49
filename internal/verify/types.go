// Package verify runs the audit levels over a published draw and builds
// the audit report. The pipeline is pure: raw snapshot bytes plus a decoded
// winners document go in, an immutable report comes out. Fetching, rendering
// and exit-code mapping live in the CLI layer.
package verify

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"drawaudit/internal/errors"
	"drawaudit/internal/snapshot"
)

// Status of a single audit level.
type Status string

const (
	StatusNotRun  Status = "NOT_RUN"
	StatusRunning Status = "RUNNING"
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
	StatusSkipped Status = "SKIPPED"
	StatusWarned  Status = "WARNED"
)

// Level identifies one of the three audit levels.
type Level int

const (
	Level1 Level = 1 // snapshot integrity
	Level2 Level = 2 // structure and coherence
	Level3 Level = 3 // winner reproduction
)

// Title returns the human name of the level.
func (l Level) Title() string {
	switch l {
	case Level1:
		return "snapshot integrity"
	case Level2:
		return "structure and coherence"
	case Level3:
		return "winner reproduction"
	default:
		return "unknown"
	}
}

// LevelSet is the set of levels requested for a run.
type LevelSet map[Level]bool

// Has reports whether the level is requested.
func (s LevelSet) Has(l Level) bool { return s[l] }

// Levels returns the requested levels in ascending order.
func (s LevelSet) Levels() []Level {
	out := make([]Level, 0, len(s))
	for l := range s {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// AllLevels returns the default set: every level requested.
func AllLevels() LevelSet {
	return LevelSet{Level1: true, Level2: true, Level3: true}
}

// ParseLevels parses a --level value: "all" or a comma-separated subset
// of "1,2,3".
func ParseLevels(value string) (LevelSet, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, errors.New(errors.InputMalformed, "no audit levels requested", nil)
	}
	if strings.EqualFold(trimmed, "all") {
		return AllLevels(), nil
	}

	set := LevelSet{}
	for _, part := range strings.Split(trimmed, ",") {
		part = strings.TrimSpace(part)
		n, err := strconv.Atoi(part)
		if err != nil || n < 1 || n > 3 {
			return nil, errors.Newf(errors.InputMalformed, "invalid audit level %q (want 1, 2, 3 or all)", part)
		}
		set[Level(n)] = true
	}
	return set, nil
}

// MissingSeedPolicy decides Level 3 when the winners document has no
// revealed seed.
type MissingSeedPolicy string

const (
	SeedPolicyError MissingSeedPolicy = "error" // fail the level
	SeedPolicySkip  MissingSeedPolicy = "skip"  // skip the level
	SeedPolicyWarn  MissingSeedPolicy = "warn"  // warn but do not fail
)

// ParseMissingSeedPolicy parses an --on-missing-seed value.
func ParseMissingSeedPolicy(value string) (MissingSeedPolicy, error) {
	switch MissingSeedPolicy(strings.ToLower(strings.TrimSpace(value))) {
	case SeedPolicyError:
		return SeedPolicyError, nil
	case SeedPolicySkip, "":
		return SeedPolicySkip, nil
	case SeedPolicyWarn:
		return SeedPolicyWarn, nil
	default:
		return "", errors.Newf(errors.InputMalformed, "invalid missing-seed policy %q (want error, skip or warn)", value)
	}
}

// Check is one named probe inside a level, with the expected and computed
// values when the probe compares them.
type Check struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Expected string `json:"expected,omitempty"`
	Computed string `json:"computed,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// Mismatch is one divergence between the published winner list and the
// reproduced one.
type Mismatch struct {
	Index     int    `json:"index"`
	Published string `json:"published"`
	Computed  string `json:"computed"`
}

// LevelResult is the outcome of one audit level. Code carries the error
// taxonomy entry backing a non-PASS outcome, when one applies.
type LevelResult struct {
	Level      Level                `json:"level"`
	Name       string               `json:"name"`
	Status     Status               `json:"status"`
	Code       errors.ErrorCode     `json:"code,omitempty"`
	Summary    string               `json:"summary"`
	Checks     []Check              `json:"checks,omitempty"`
	Violations []snapshot.Violation `json:"violations,omitempty"`
	Mismatches []Mismatch           `json:"mismatches,omitempty"`
}

// Report is the complete result of one verification run. Computed
// artifacts are recorded alongside the per-level outcomes so a failing
// report is diagnosable on its own.
type Report struct {
	Period            string        `json:"period"`
	GeneratedAt       time.Time     `json:"generatedAt"`
	WinnersSource     string        `json:"winnersSource,omitempty"`
	SnapshotSource    string        `json:"snapshotSource,omitempty"`
	CommittedHashHex  string        `json:"committedHashHex"`
	RawHashHex        string        `json:"rawHashHex"`
	CanonicalHashHex  string        `json:"canonicalHashHex,omitempty"`
	ComputedUsers     int64         `json:"computedUsers"`
	ComputedEntries   int64         `json:"computedEntries"`
	SeedRevealed      bool          `json:"seedRevealed"`
	ReproducedAliases []string      `json:"reproducedAliases,omitempty"`
	Levels            []LevelResult `json:"levels"`
	Overall           Status        `json:"overall"`
}

// LevelStatus returns the recorded status for a level, or NOT_RUN when the
// report has no entry for it.
func (r *Report) LevelStatus(l Level) Status {
	for _, res := range r.Levels {
		if res.Level == l {
			return res.Status
		}
	}
	return StatusNotRun
}

// LevelCode returns the taxonomy code recorded for a level, if any.
func (r *Report) LevelCode(l Level) errors.ErrorCode {
	for _, res := range r.Levels {
		if res.Level == l {
			return res.Code
		}
	}
	return ""
}

// Options configures a verification run.
type Options struct {
	Levels         LevelSet          // requested levels; nil means all
	Policy         MissingSeedPolicy // missing-seed handling; empty means skip
	ShardBuckets   int               // known shard bucket count; 0 disables the range check
	PeriodFallback string            // used when the winners document carries no period
	WinnersSource  string            // display label for the winners artifact
	SnapshotSource string            // display label for the snapshot artifact
}
