package verify

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"drawaudit/internal/alias"
	"drawaudit/internal/digest"
	"drawaudit/internal/draw"
	"drawaudit/internal/errors"
	"drawaudit/internal/snapshot"
)

// maxMismatchExamples bounds the winner divergence list in Level 3 reports.
const maxMismatchExamples = 10

// level1 compares the hash of the snapshot bytes exactly as received
// against the committed snapshot_hash_hex.
func (r *runner) level1() LevelResult {
	res := r.begin(Level1)

	check := Check{
		Name:     "raw snapshot hash",
		Expected: r.doc.SnapshotHashHex,
		Computed: r.report.RawHashHex,
	}
	switch {
	case r.doc.SnapshotHashHex == "":
		check.Detail = "winners document commits no snapshot hash"
	case digest.Equal(r.doc.SnapshotHashHex, r.report.RawHashHex):
		check.Passed = true
	}
	res.Checks = append(res.Checks, check)

	if check.Passed {
		res.Status = StatusPass
		res.Summary = fmt.Sprintf("snapshot bytes match the committed hash %s", digest.ShortHex(r.doc.SnapshotHashHex))
	} else {
		res.Status = StatusFail
		res.Code = errors.IntegrityMismatch
		res.Summary = "snapshot bytes do not match the committed hash"
	}
	return res
}

// level2 validates the parsed snapshot: canonical ordering, totals against
// the winners document, and the canonical rewrite hash. All checks run even
// after one fails so the report shows the full picture.
func (r *runner) level2() LevelResult {
	res := r.begin(Level2)

	if r.parseErr != nil {
		res.Status = StatusFail
		res.Code = errors.SnapshotMalformed
		res.Summary = "snapshot failed to parse"
		res.Checks = append(res.Checks, Check{
			Name:   "snapshot parses",
			Detail: r.parseErr.Error(),
		})
		return res
	}

	violations := snapshot.ValidateCanonical(r.snap, r.opts.ShardBuckets)
	ordering := Check{Name: "canonical ordering", Passed: len(violations) == 0}
	if len(violations) > 0 {
		ordering.Detail = fmt.Sprintf("%d violations collected, first at entrant %d: %s",
			len(violations), violations[0].Index, violations[0].Reason)
		res.Violations = violations
	}

	users := Check{
		Name:     "totals: users",
		Expected: strconv.FormatInt(r.doc.Totals.Users, 10),
		Computed: strconv.FormatInt(r.report.ComputedUsers, 10),
		Passed:   r.doc.Totals.Users == r.report.ComputedUsers,
	}
	entries := Check{
		Name:     "totals: entries",
		Expected: strconv.FormatInt(r.doc.Totals.Entries, 10),
		Computed: strconv.FormatInt(r.report.ComputedEntries, 10),
		Passed:   r.doc.Totals.Entries == r.report.ComputedEntries,
	}
	canonical := Check{
		Name:     "canonical snapshot hash",
		Expected: r.doc.SnapshotHashHex,
		Computed: r.report.CanonicalHashHex,
		Passed:   r.doc.SnapshotHashHex != "" && digest.Equal(r.doc.SnapshotHashHex, r.report.CanonicalHashHex),
	}
	res.Checks = append(res.Checks, ordering, users, entries, canonical)

	failed := 0
	for _, c := range res.Checks {
		if !c.Passed {
			failed++
		}
	}
	if failed == 0 {
		res.Status = StatusPass
		res.Summary = fmt.Sprintf("structure verified: %d users, %d entries, canonical hash matches",
			r.report.ComputedUsers, r.report.ComputedEntries)
	} else {
		res.Status = StatusFail
		res.Code = errors.StructureInvalid
		res.Summary = fmt.Sprintf("%d of %d structure checks failed", failed, len(res.Checks))
	}
	return res
}

// level3 reproduces the draw from the revealed seed and compares the
// resulting alias sequence against the published winner lists. Missing
// preconditions resolve the level without entering RUNNING.
func (r *runner) level3() LevelResult {
	if r.parseErr != nil {
		return LevelResult{
			Level:   Level3,
			Name:    Level3.Title(),
			Status:  StatusSkipped,
			Code:    errors.SnapshotMalformed,
			Summary: "skipped: snapshot failed to parse, nothing to reproduce from",
		}
	}
	if !r.doc.SeedRevealed() {
		res := LevelResult{Level: Level3, Name: Level3.Title(), Code: errors.SeedUnavailable}
		switch r.opts.Policy {
		case SeedPolicyError:
			res.Status = StatusFail
			res.Summary = "seed not revealed and missing-seed policy is error"
		case SeedPolicyWarn:
			res.Status = StatusWarned
			res.Summary = "seed not revealed; reproduction pending reveal"
		default:
			res.Status = StatusSkipped
			res.Summary = "seed not revealed; reproduction skipped"
		}
		return res
	}

	res := r.begin(Level3)

	seedBytes, err := hex.DecodeString(r.doc.Commit.SeedHex)
	if err != nil {
		res.Status = StatusFail
		res.Code = errors.ReproductionMismatch
		res.Summary = "revealed seed is not valid hex"
		res.Checks = append(res.Checks, Check{Name: "seed hex decodes", Detail: err.Error()})
		return res
	}

	if r.doc.Commit.SeedCommitHex != "" {
		commitment := Check{
			Name:     "seed commitment",
			Expected: r.doc.Commit.SeedCommitHex,
			Computed: digest.Sum256Hex(seedBytes),
		}
		commitment.Passed = digest.Equal(commitment.Expected, commitment.Computed)
		res.Checks = append(res.Checks, commitment)
		if !commitment.Passed {
			res.Status = StatusFail
			res.Code = errors.ReproductionMismatch
			res.Summary = "revealed seed does not match its commitment"
			return res
		}
	}

	scored, err := draw.Reproduce(r.doc.Commit.SeedHex, r.period, r.snap, r.doc.KTotal())
	if err != nil {
		res.Status = StatusFail
		res.Code = errors.ReproductionMismatch
		res.Summary = "winner reproduction failed"
		res.Checks = append(res.Checks, Check{Name: "draw reproduction", Detail: err.Error()})
		return res
	}

	computed := make([]string, len(scored))
	for i, s := range scored {
		a, err := alias.FromUserID(s.UserID)
		if err != nil {
			res.Status = StatusFail
			res.Code = errors.InputMalformed
			res.Summary = "a reproduced winner has an identifier too short to alias"
			res.Checks = append(res.Checks, Check{
				Name:   "alias conversion",
				Detail: fmt.Sprintf("winner %d (user %s): %v", i, s.UserID, err),
			})
			return res
		}
		computed[i] = a
	}
	r.report.ReproducedAliases = computed

	published := r.doc.PublishedAliases()
	count := Check{
		Name:     "winner count",
		Expected: strconv.Itoa(len(published)),
		Computed: strconv.Itoa(len(computed)),
		Passed:   len(published) == len(computed),
	}
	res.Mismatches = compareAliases(published, computed)
	sequence := Check{Name: "winner sequence", Passed: len(res.Mismatches) == 0}
	if !sequence.Passed {
		sequence.Detail = fmt.Sprintf("first divergence at index %d", res.Mismatches[0].Index)
	}
	res.Checks = append(res.Checks, count, sequence)

	switch {
	case count.Passed && sequence.Passed:
		res.Status = StatusPass
		res.Summary = fmt.Sprintf("reproduced all %d winners (%d primary, %d alternates)",
			len(computed), r.doc.KPrimary, r.doc.KAlternates)
	case !sequence.Passed:
		res.Status = StatusFail
		res.Code = errors.ReproductionMismatch
		res.Summary = fmt.Sprintf("published winners diverge from reproduction at index %d", res.Mismatches[0].Index)
	default:
		res.Status = StatusFail
		res.Code = errors.ReproductionMismatch
		res.Summary = "published winner count differs from reproduction"
	}
	return res
}

// compareAliases walks both sequences to the longer length and records up
// to maxMismatchExamples divergences. A missing side is reported as the
// empty string.
func compareAliases(published, computed []string) []Mismatch {
	n := len(published)
	if len(computed) > n {
		n = len(computed)
	}

	var out []Mismatch
	for i := 0; i < n && len(out) < maxMismatchExamples; i++ {
		var pub, comp string
		if i < len(published) {
			pub = published[i]
		}
		if i < len(computed) {
			comp = computed[i]
		}
		if pub != comp {
			out = append(out, Mismatch{Index: i, Published: pub, Computed: comp})
		}
	}
	return out
}
