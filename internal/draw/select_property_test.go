//go:build property
// +build property

package draw_test

import (
	"encoding/hex"
	"sort"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"drawaudit/internal/draw"
	"drawaudit/internal/snapshot"
)

func buildEntrants(ids []string) []snapshot.Entrant {
	uniq := map[string]bool{}
	var kept []string
	for _, id := range ids {
		if id == "" || uniq[id] {
			continue
		}
		uniq[id] = true
		kept = append(kept, id)
	}
	sort.Strings(kept)

	out := make([]snapshot.Entrant, len(kept))
	for i, id := range kept {
		out[i] = snapshot.Entrant{Shard: 0, UserID: id, Weight: int64(i%5 + 1)}
	}
	return out
}

func TestSelectionProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)

	seedGen := gen.SliceOfN(32, gen.UInt8Range(0, 255))

	properties.Property("selection is ordered, unique and bounded by k", prop.ForAll(
		func(seed []uint8, ids []string, k int) bool {
			snap := &snapshot.Snapshot{Entrants: buildEntrants(ids)}
			got, err := draw.Reproduce(hex.EncodeToString(seed), "2025-07", snap, k)
			if err != nil {
				return false
			}

			want := len(snap.Entrants)
			if k < want {
				want = k
			}
			if len(got) != want {
				return false
			}

			seen := map[string]bool{}
			for i, s := range got {
				if seen[s.UserID] {
					return false
				}
				seen[s.UserID] = true
				if i > 0 && got[i-1].Score > s.Score {
					return false
				}
			}
			return true
		},
		seedGen,
		gen.SliceOf(gen.Identifier()),
		gen.IntRange(1, 8),
	))

	properties.Property("k winners are a prefix of k+1 winners", prop.ForAll(
		func(seed []uint8, ids []string, k int) bool {
			snap := &snapshot.Snapshot{Entrants: buildEntrants(ids)}
			seedHex := hex.EncodeToString(seed)

			short, err := draw.Reproduce(seedHex, "2025-07", snap, k)
			if err != nil {
				return false
			}
			long, err := draw.Reproduce(seedHex, "2025-07", snap, k+1)
			if err != nil {
				return false
			}

			if len(short) > len(long) {
				return false
			}
			for i := range short {
				if short[i] != long[i] {
					return false
				}
			}
			return true
		},
		seedGen,
		gen.SliceOf(gen.Identifier()),
		gen.IntRange(1, 6),
	))

	properties.Property("derived u stays inside the open unit interval", prop.ForAll(
		func(seed []uint8, period string, shard int, userID string) bool {
			u := draw.DeriveU(seed, period, shard, userID)
			return u > 0 && u < 1
		},
		seedGen,
		gen.Identifier(),
		gen.IntRange(0, 64),
		gen.Identifier(),
	))

	properties.TestingRun(t)
}
