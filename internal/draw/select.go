package draw

import (
	"container/heap"
	"encoding/hex"
	"sort"

	"drawaudit/internal/errors"
	"drawaudit/internal/snapshot"
)

// worstHeap keeps the best K entrants seen so far with the worst of them
// at the root, so each candidate costs O(log K) instead of a full sort.
type worstHeap []ScoredEntrant

func (h worstHeap) Len() int           { return len(h) }
func (h worstHeap) Less(i, j int) bool { return scoreLess(h[j], h[i]) }
func (h worstHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }

func (h *worstHeap) Push(x interface{}) {
	*h = append(*h, x.(ScoredEntrant))
}

func (h *worstHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Reproduce recomputes the draw: every positive-weight entrant is scored
// and the kTotal best are returned in draw order (ascending score, ties by
// ascending user_id). Zero-weight entrants are excluded from the draw
// rather than rejected; they hold no tickets. Fewer than kTotal eligible
// entrants yields a shorter result for the comparator to flag.
func Reproduce(seedHex, period string, snap *snapshot.Snapshot, kTotal int) ([]ScoredEntrant, error) {
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return nil, errors.New(errors.InputMalformed, "seed_hex is not valid hex", err)
	}
	if kTotal <= 0 {
		return nil, nil
	}

	h := make(worstHeap, 0, kTotal)
	for _, e := range snap.Entrants {
		if e.Weight <= 0 {
			continue
		}

		u := DeriveU(seed, period, e.Shard, e.UserID)
		scored := ScoredEntrant{
			UserID: e.UserID,
			Shard:  e.Shard,
			Weight: e.Weight,
			Score:  Score(u, e.Weight),
		}

		if h.Len() < kTotal {
			heap.Push(&h, scored)
		} else if scoreLess(scored, h[0]) {
			h[0] = scored
			heap.Fix(&h, 0)
		}
	}

	result := make([]ScoredEntrant, len(h))
	copy(result, h)
	sort.Slice(result, func(i, j int) bool { return scoreLess(result[i], result[j]) })
	return result, nil
}
