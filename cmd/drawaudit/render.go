package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"drawaudit/internal/digest"
	"drawaudit/internal/history"
	"drawaudit/internal/verify"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatJSON  OutputFormat = "json"
	FormatHuman OutputFormat = "human"
)

// ParseFormat validates a --format value.
func ParseFormat(value string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(value)) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatHuman, "":
		return FormatHuman, nil
	default:
		return "", fmt.Errorf("unsupported format %q (want json or human)", value)
	}
}

// statusLabel renders a level status as a fixed-width marker.
func statusLabel(s verify.Status) string {
	switch s {
	case verify.StatusPass:
		return "PASS"
	case verify.StatusFail:
		return "FAIL"
	case verify.StatusSkipped:
		return "SKIP"
	case verify.StatusWarned:
		return "WARN"
	case verify.StatusNotRun:
		return "----"
	default:
		return string(s)
	}
}

// FormatReport renders a verification report in the requested format.
func FormatReport(report *verify.Report, format OutputFormat) (string, error) {
	if format == FormatJSON {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data) + "\n", nil
	}
	return formatReportHuman(report), nil
}

func formatReportHuman(report *verify.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "drawaudit report: period %s\n", report.Period)
	b.WriteString(strings.Repeat("=", 60) + "\n")
	if report.WinnersSource != "" {
		fmt.Fprintf(&b, "  winners:  %s\n", report.WinnersSource)
	}
	if report.SnapshotSource != "" {
		fmt.Fprintf(&b, "  snapshot: %s\n", report.SnapshotSource)
	}
	fmt.Fprintf(&b, "  committed hash: %s\n", orNone(report.CommittedHashHex))
	b.WriteString("\n")

	for _, level := range report.Levels {
		fmt.Fprintf(&b, "[%s] level %d: %s\n", statusLabel(level.Status), int(level.Level), level.Name)
		if level.Summary != "" {
			fmt.Fprintf(&b, "       %s\n", level.Summary)
		}
		for _, check := range level.Checks {
			if check.Passed {
				continue
			}
			fmt.Fprintf(&b, "       check failed: %s\n", check.Name)
			if check.Expected != "" || check.Computed != "" {
				fmt.Fprintf(&b, "         expected: %s\n", orNone(check.Expected))
				fmt.Fprintf(&b, "         computed: %s\n", orNone(check.Computed))
			}
			if check.Detail != "" {
				fmt.Fprintf(&b, "         %s\n", check.Detail)
			}
		}
		for _, v := range level.Violations {
			fmt.Fprintf(&b, "       entrant %d: %s\n", v.Index, v.Reason)
		}
		for _, m := range level.Mismatches {
			fmt.Fprintf(&b, "       winner %d: published %q, computed %q\n",
				m.Index, orNone(m.Published), orNone(m.Computed))
		}
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "overall: %s\n", statusLabel(report.Overall))
	return b.String()
}

// FormatRuns renders ledger records in the requested format.
func FormatRuns(runs []history.RunRecord, format OutputFormat) (string, error) {
	if format == FormatJSON {
		data, err := json.MarshalIndent(runs, "", "  ")
		if err != nil {
			return "", fmt.Errorf("failed to marshal JSON: %w", err)
		}
		return string(data) + "\n", nil
	}

	if len(runs) == 0 {
		return "no recorded runs\n", nil
	}

	var b strings.Builder
	for _, run := range runs {
		fmt.Fprintf(&b, "%s  %-8s  %-8s  L1=%s L2=%s L3=%s  snapshot %s\n",
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Period,
			run.Overall,
			run.Level1, run.Level2, run.Level3,
			digest.ShortHex(run.SnapshotHashHex))
	}
	return b.String(), nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
