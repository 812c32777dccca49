// Package draw reproduces a weighted sampling-without-replacement draw
// from a revealed seed using the Efraimidis–Spirakis transform: each
// entrant receives score -ln(u)/weight for a seed-derived uniform u, and
// the K smallest scores win. The arithmetic is IEEE 754 binary64 end to
// end; independent implementations must agree bit for bit.
package draw

// ScoredEntrant is one entrant's derived draw outcome. Ephemeral: it
// exists only while a revealed seed is being verified and is never
// persisted.
type ScoredEntrant struct {
	UserID string  `json:"userId"`
	Shard  int     `json:"shard"`
	Weight int64   `json:"weight"`
	Score  float64 `json:"score"`
}

// scoreLess is the draw's total order: ascending score, with bit-identical
// ties broken by ascending user_id so the result never depends on sort
// stability or platform float quirks.
func scoreLess(a, b ScoredEntrant) bool {
	if a.Score != b.Score {
		return a.Score < b.Score
	}
	return a.UserID < b.UserID
}
