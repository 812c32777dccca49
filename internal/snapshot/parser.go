package snapshot

import (
	"strconv"
	"strings"

	"drawaudit/internal/errors"
)

// Parse turns raw snapshot bytes into a Snapshot. The layout is part of
// the verification contract and is enforced exactly: the literal header
// line, then one shard,user_id,weight row per line, each terminated by a
// single line feed. Any deviation is an error naming the 1-based line
// number; nothing is skipped or repaired.
func Parse(raw []byte) (*Snapshot, error) {
	text := string(raw)
	if text == "" {
		return nil, errors.Newf(errors.SnapshotMalformed, "empty snapshot: missing header line %q", Header)
	}

	lines := strings.Split(text, "\n")
	if lines[0] != Header {
		return nil, errors.Newf(errors.SnapshotMalformed, "line 1: header must be exactly %q, got %q", Header, lines[0])
	}

	// A trailing line feed leaves one empty trailing element.
	if n := len(lines); lines[n-1] == "" {
		lines = lines[:n-1]
	}

	entrants := make([]Entrant, 0, len(lines)-1)
	for i, line := range lines[1:] {
		lineNo := i + 2

		fields := strings.Split(line, ",")
		if len(fields) != 3 {
			return nil, errors.Newf(errors.SnapshotMalformed, "line %d: expected 3 columns, got %d", lineNo, len(fields))
		}

		shard, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, errors.Newf(errors.SnapshotMalformed, "line %d: shard %q is not an integer", lineNo, fields[0])
		}
		if shard < 0 {
			return nil, errors.Newf(errors.SnapshotMalformed, "line %d: shard %d is negative", lineNo, shard)
		}

		userID := fields[1]
		if userID == "" {
			return nil, errors.Newf(errors.SnapshotMalformed, "line %d: empty user_id", lineNo)
		}

		weight, err := strconv.ParseInt(fields[2], 10, 64)
		if err != nil {
			return nil, errors.Newf(errors.SnapshotMalformed, "line %d: weight %q is not an integer", lineNo, fields[2])
		}
		if weight < 0 {
			return nil, errors.Newf(errors.SnapshotMalformed, "line %d: weight %d is negative", lineNo, weight)
		}

		entrants = append(entrants, Entrant{Shard: shard, UserID: userID, Weight: weight})
	}

	return &Snapshot{Entrants: entrants}, nil
}
