package verify

import (
	"time"

	log "github.com/sirupsen/logrus"

	"drawaudit/internal/errors"
	"drawaudit/internal/snapshot"
	"drawaudit/internal/winners"
)

// runner carries the state shared by the level executors: the raw bytes,
// the winners document, and the parse result reused by Levels 2 and 3.
type runner struct {
	raw      []byte
	doc      *winners.Document
	opts     Options
	period   string
	report   *Report
	snap     *snapshot.Snapshot
	parseErr error
}

// Run executes the requested audit levels over the raw snapshot bytes and
// the decoded winners document. It returns an error only when no usable
// period exists; every verification failure is expressed inside the report,
// never as a Go error.
func Run(raw []byte, doc *winners.Document, opts Options) (*Report, error) {
	if opts.Levels == nil {
		opts.Levels = AllLevels()
	}
	if opts.Policy == "" {
		opts.Policy = SeedPolicySkip
	}

	period := doc.Period
	if period == "" {
		period = opts.PeriodFallback
	}
	if period == "" {
		return nil, errors.New(errors.InputMalformed,
			"no period: the winners document carries none and --period was not given", nil)
	}

	r := &runner{raw: raw, doc: doc, opts: opts, period: period}
	r.report = &Report{
		Period:           period,
		GeneratedAt:      time.Now().UTC(),
		WinnersSource:    opts.WinnersSource,
		SnapshotSource:   opts.SnapshotSource,
		CommittedHashHex: doc.SnapshotHashHex,
		RawHashHex:       snapshot.RawHashHex(raw),
		SeedRevealed:     doc.SeedRevealed(),
	}

	// Parse once; Levels 2 and 3 share the outcome. A parse failure is not
	// fatal here: Level 1 works on raw bytes regardless.
	r.snap, r.parseErr = snapshot.Parse(raw)
	if r.parseErr == nil {
		r.report.ComputedUsers, r.report.ComputedEntries = r.snap.Totals()
		r.report.CanonicalHashHex = snapshot.CanonicalHashHex(r.snap)
	} else {
		log.WithError(r.parseErr).Debug("snapshot parse failed")
	}

	for _, l := range []Level{Level1, Level2, Level3} {
		if !opts.Levels.Has(l) {
			r.report.Levels = append(r.report.Levels, LevelResult{
				Level:   l,
				Name:    l.Title(),
				Status:  StatusNotRun,
				Summary: "not requested",
			})
			continue
		}

		var res LevelResult
		switch l {
		case Level1:
			res = r.level1()
		case Level2:
			res = r.level2()
		case Level3:
			res = r.level3()
		}
		log.WithFields(log.Fields{
			"level":  int(l),
			"status": res.Status,
		}).Debug("audit level finished")
		r.report.Levels = append(r.report.Levels, res)
	}

	r.report.Overall = overallStatus(r.report.Levels)
	return r.report, nil
}

// begin transitions a level into RUNNING and returns its result shell.
func (r *runner) begin(l Level) LevelResult {
	res := LevelResult{Level: l, Name: l.Title(), Status: StatusRunning}
	log.WithFields(log.Fields{
		"level":  int(l),
		"status": res.Status,
	}).Debug("audit level started")
	return res
}

// overallStatus folds the per-level outcomes into one verdict. Failures
// dominate, then warnings, then passes; a run where everything requested
// was skipped stays SKIPPED.
func overallStatus(levels []LevelResult) Status {
	anyWarn, anyPass := false, false
	for _, res := range levels {
		switch res.Status {
		case StatusFail:
			return StatusFail
		case StatusWarned:
			anyWarn = true
		case StatusPass:
			anyPass = true
		}
	}
	if anyWarn {
		return StatusWarned
	}
	if anyPass {
		return StatusPass
	}
	return StatusSkipped
}
