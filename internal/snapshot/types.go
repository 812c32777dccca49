// Package snapshot parses the committed entrant snapshot and checks it
// against the canonical form the draw protocol requires. It never sorts,
// repairs, or skips rows: a snapshot either already satisfies the
// canonical constraints or it is reported as malformed.
package snapshot

// Header is the exact first line every snapshot must carry.
const Header = "shard,user_id,weight"

// Entrant is one ticket-holder's entry in the draw.
type Entrant struct {
	Shard  int    `json:"shard"`
	UserID string `json:"userId"`
	Weight int64  `json:"weight"`
}

// Snapshot is the ordered entrant set parsed from the committed bytes.
// Created once per run, immutable thereafter.
type Snapshot struct {
	Entrants []Entrant
}

// Totals returns the row count and the weight sum, the two figures the
// operator publishes alongside the snapshot hash.
func (s *Snapshot) Totals() (users int64, entries int64) {
	users = int64(len(s.Entrants))
	for _, e := range s.Entrants {
		entries += e.Weight
	}
	return users, entries
}

// Violation describes one canonical-form defect at a given row index.
type Violation struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}
