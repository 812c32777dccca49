package draw

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawaudit/internal/errors"
	"drawaudit/internal/snapshot"
)

var zeroSeedHex = strings.Repeat("0", 64)

func singleShardSnapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{Entrants: []snapshot.Entrant{
		{Shard: 0, UserID: "AAAAAAAAAAAA0001", Weight: 1},
		{Shard: 0, UserID: "AAAAAAAAAAAA0002", Weight: 2},
		{Shard: 0, UserID: "AAAAAAAAAAAA0003", Weight: 3},
	}}
}

func multiShardSnapshot() *snapshot.Snapshot {
	return &snapshot.Snapshot{Entrants: []snapshot.Entrant{
		{Shard: 0, UserID: "0F2C1B4A-9D3E-4B7F-8A61-C2D4E6F80102", Weight: 5},
		{Shard: 0, UserID: "550E8400-E29B-41D4-A716-446655440000", Weight: 3},
		{Shard: 1, UserID: "7C9E6679-7425-40DE-944B-E07FC1F90AE7", Weight: 1},
		{Shard: 1, UserID: "9B2D7A44-1E2B-4C3D-8E5F-A6B7C8D9E0F1", Weight: 4},
		{Shard: 2, UserID: "C56A4180-65AA-42EC-A945-5FD21DEC0538", Weight: 2},
		{Shard: 2, UserID: "F47AC10B-58CC-4372-A567-0E02B2C3D479", Weight: 6},
	}}
}

func TestReproducePinnedOrder(t *testing.T) {
	got, err := Reproduce(zeroSeedHex, "2025-07", singleShardSnapshot(), 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "AAAAAAAAAAAA0002", got[0].UserID)
	assert.Equal(t, "AAAAAAAAAAAA0003", got[1].UserID)
	assert.Equal(t, "AAAAAAAAAAAA0001", got[2].UserID)

	// Scores come out strictly ascending and the original row data rides along.
	assert.Less(t, got[0].Score, got[1].Score)
	assert.Less(t, got[1].Score, got[2].Score)
	assert.Equal(t, int64(2), got[0].Weight)
	assert.Equal(t, 0, got[0].Shard)
}

func TestReproduceTruncatesToK(t *testing.T) {
	got, err := Reproduce(zeroSeedHex, "2025-07", singleShardSnapshot(), 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "AAAAAAAAAAAA0002", got[0].UserID)
	assert.Equal(t, "AAAAAAAAAAAA0003", got[1].UserID)
}

func TestReproduceMultiShard(t *testing.T) {
	seedHex := "a1b2c3d4e5f60718293a4b5c6d7e8f90a1b2c3d4e5f60718293a4b5c6d7e8f90"

	got, err := Reproduce(seedHex, "2025-08", multiShardSnapshot(), 3)
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "F47AC10B-58CC-4372-A567-0E02B2C3D479", got[0].UserID)
	assert.Equal(t, "C56A4180-65AA-42EC-A945-5FD21DEC0538", got[1].UserID)
	assert.Equal(t, "7C9E6679-7425-40DE-944B-E07FC1F90AE7", got[2].UserID)

	assert.Equal(t, 2, got[0].Shard)
	assert.Equal(t, 2, got[1].Shard)
	assert.Equal(t, 1, got[2].Shard)
}

func TestReproduceSkipsNonPositiveWeight(t *testing.T) {
	snap := singleShardSnapshot()
	snap.Entrants = append([]snapshot.Entrant{
		{Shard: 0, UserID: "AAAAAAAAAAAA0000", Weight: 0},
	}, snap.Entrants...)

	got, err := Reproduce(zeroSeedHex, "2025-07", snap, 4)
	require.NoError(t, err)
	require.Len(t, got, 3, "zero-weight entrant must not be drawn")

	for _, s := range got {
		assert.NotEqual(t, "AAAAAAAAAAAA0000", s.UserID)
	}
}

func TestReproduceKBounds(t *testing.T) {
	snap := singleShardSnapshot()

	got, err := Reproduce(zeroSeedHex, "2025-07", snap, 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = Reproduce(zeroSeedHex, "2025-07", snap, -1)
	require.NoError(t, err)
	assert.Empty(t, got)

	// More requested than eligible: return everyone, still ordered.
	got, err = Reproduce(zeroSeedHex, "2025-07", snap, 10)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "AAAAAAAAAAAA0002", got[0].UserID)
}

func TestReproduceInvalidSeedHex(t *testing.T) {
	tests := []struct {
		name    string
		seedHex string
	}{
		{"non-hex characters", "zz" + strings.Repeat("0", 62)},
		{"odd length", strings.Repeat("0", 63)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Reproduce(tt.seedHex, "2025-07", singleShardSnapshot(), 1)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.InputMalformed))
		})
	}
}

func TestReproduceDeterministic(t *testing.T) {
	a, err := Reproduce(zeroSeedHex, "2025-07", singleShardSnapshot(), 3)
	require.NoError(t, err)
	b, err := Reproduce(zeroSeedHex, "2025-07", singleShardSnapshot(), 3)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestReproduceRemovingWinnerChangesSet(t *testing.T) {
	full, err := Reproduce(zeroSeedHex, "2025-07", singleShardSnapshot(), 2)
	require.NoError(t, err)
	require.Len(t, full, 2)
	last := full[1].UserID

	// Drop the entrant holding the K-th smallest score and redraw.
	snap := singleShardSnapshot()
	kept := snap.Entrants[:0]
	for _, e := range snap.Entrants {
		if e.UserID != last {
			kept = append(kept, e)
		}
	}
	snap.Entrants = kept

	redraw, err := Reproduce(zeroSeedHex, "2025-07", snap, 2)
	require.NoError(t, err)
	require.Len(t, redraw, 2)

	ids := func(ss []ScoredEntrant) []string {
		out := make([]string, len(ss))
		for i, s := range ss {
			out[i] = s.UserID
		}
		return out
	}
	assert.NotEqual(t, ids(full), ids(redraw))
	assert.NotContains(t, ids(redraw), last)
}

func TestScoreLessTieBreak(t *testing.T) {
	a := ScoredEntrant{UserID: "AAAAAAAAAAAA0001", Score: 0.5}
	b := ScoredEntrant{UserID: "AAAAAAAAAAAA0002", Score: 0.5}

	assert.True(t, scoreLess(a, b), "equal scores order by ascending user id")
	assert.False(t, scoreLess(b, a))
	assert.False(t, scoreLess(a, a))
}
