package main

import (
	"drawaudit/internal/errors"
	"drawaudit/internal/verify"
)

// ExitCode is the process exit code the verify command maps a report to.
type ExitCode int

const (
	// ExitSuccess indicates all requested levels passed or were skipped
	// by policy.
	ExitSuccess ExitCode = 0

	// ExitUsage indicates a usage, input, or I/O error before or outside
	// verification (fetch failure, undecodable winners document, no period).
	ExitUsage ExitCode = 1

	// ExitIntegrity indicates a Level 1 failure: the raw snapshot bytes
	// do not hash to the committed value.
	ExitIntegrity ExitCode = 2

	// ExitStructure indicates a Level 2 failure: ordering, totals, or
	// canonical-hash violations.
	ExitStructure ExitCode = 3

	// ExitSeedMissing indicates the seed is unrevealed and the
	// missing-seed policy is error.
	ExitSeedMissing ExitCode = 4

	// ExitReproduction indicates a Level 3 reproduction failure: the
	// published winners diverge from the recomputed draw.
	ExitReproduction ExitCode = 5
)

// String returns a description of the exit code.
func (e ExitCode) String() string {
	switch e {
	case ExitSuccess:
		return "success"
	case ExitUsage:
		return "usage or input error"
	case ExitIntegrity:
		return "snapshot integrity failure"
	case ExitStructure:
		return "structure failure"
	case ExitSeedMissing:
		return "seed not revealed"
	case ExitReproduction:
		return "reproduction failure"
	default:
		return "unknown"
	}
}

// DetermineExitCode maps a report to the process exit code. The earliest
// failing level wins: an integrity failure outranks a structure failure,
// which outranks any Level 3 outcome.
func DetermineExitCode(report *verify.Report) ExitCode {
	if report.LevelStatus(verify.Level1) == verify.StatusFail {
		return ExitIntegrity
	}
	if report.LevelStatus(verify.Level2) == verify.StatusFail {
		return ExitStructure
	}
	if report.LevelStatus(verify.Level3) == verify.StatusFail {
		if report.LevelCode(verify.Level3) == errors.SeedUnavailable {
			return ExitSeedMissing
		}
		return ExitReproduction
	}
	return ExitSuccess
}
