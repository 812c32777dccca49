package snapshot

import "fmt"

// maxViolations bounds how many defects a single validation pass collects.
// The level outcome is pass/fail either way; the bound only limits diagnostics.
const maxViolations = 10

// ValidateCanonical checks that the parsed snapshot already satisfies the
// canonical ordering and value constraints: shards non-decreasing, user_id
// strictly ascending in byte order within each shard run, no duplicate
// (shard, user_id) pair, no negative weight. When buckets > 0 every shard
// must fall in [0, buckets). Returns nil for a canonical snapshot,
// otherwise up to maxViolations defects in scan order.
func ValidateCanonical(s *Snapshot, buckets int) []Violation {
	var violations []Violation
	add := func(idx int, format string, args ...interface{}) bool {
		violations = append(violations, Violation{Index: idx, Reason: fmt.Sprintf(format, args...)})
		return len(violations) >= maxViolations
	}

	lastShard := -1
	lastUser := ""
	haveUser := false

	for idx, e := range s.Entrants {
		if e.Shard < 0 {
			if add(idx, "shard %d is negative", e.Shard) {
				break
			}
		} else if buckets > 0 && e.Shard >= buckets {
			if add(idx, "shard %d outside [0, %d)", e.Shard, buckets) {
				break
			}
		}

		if idx > 0 && e.Shard < lastShard {
			if add(idx, "shard decreased (%d after %d)", e.Shard, lastShard) {
				break
			}
		}

		if idx > 0 && e.Shard == lastShard && haveUser {
			if e.UserID == lastUser {
				if add(idx, "duplicate (shard, user_id) pair (%d, %q)", e.Shard, e.UserID) {
					break
				}
			} else if e.UserID < lastUser {
				if add(idx, "user_id not ascending within shard %d (%q after %q)", e.Shard, e.UserID, lastUser) {
					break
				}
			}
		}

		if e.Weight < 0 {
			if add(idx, "weight %d is negative", e.Weight) {
				break
			}
		}

		if e.Shard > lastShard {
			lastShard = e.Shard
			haveUser = false
		}
		if e.Shard == lastShard {
			lastUser = e.UserID
			haveUser = true
		}
	}

	return violations
}
