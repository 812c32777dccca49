package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawaudit/internal/errors"
)

const validCSV = "shard,user_id,weight\n" +
	"0,AAAAAAAAAAAA0001,1\n" +
	"0,AAAAAAAAAAAA0002,2\n" +
	"0,AAAAAAAAAAAA0003,3\n"

func TestParse(t *testing.T) {
	snap, err := Parse([]byte(validCSV))
	require.NoError(t, err)
	require.Len(t, snap.Entrants, 3)

	assert.Equal(t, Entrant{Shard: 0, UserID: "AAAAAAAAAAAA0001", Weight: 1}, snap.Entrants[0])
	assert.Equal(t, Entrant{Shard: 0, UserID: "AAAAAAAAAAAA0002", Weight: 2}, snap.Entrants[1])
	assert.Equal(t, Entrant{Shard: 0, UserID: "AAAAAAAAAAAA0003", Weight: 3}, snap.Entrants[2])
}

func TestParseHeaderOnly(t *testing.T) {
	snap, err := Parse([]byte("shard,user_id,weight\n"))
	require.NoError(t, err)
	assert.Empty(t, snap.Entrants)
}

func TestParseNoTrailingNewline(t *testing.T) {
	// The parser accepts a missing final terminator; the byte-level
	// difference is Level 1's to catch, not the parser's.
	snap, err := Parse([]byte("shard,user_id,weight\n0,AAAAAAAAAAAA0001,1"))
	require.NoError(t, err)
	require.Len(t, snap.Entrants, 1)
	assert.Equal(t, "AAAAAAAAAAAA0001", snap.Entrants[0].UserID)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantMsg string
	}{
		{
			name:    "empty input",
			input:   "",
			wantMsg: "missing header",
		},
		{
			name:    "wrong header",
			input:   "shard,user,weight\n0,AAAAAAAAAAAA0001,1\n",
			wantMsg: "line 1",
		},
		{
			name:    "too few columns",
			input:   "shard,user_id,weight\n0,AAAAAAAAAAAA0001\n",
			wantMsg: "line 2: expected 3 columns, got 2",
		},
		{
			name:    "too many columns",
			input:   "shard,user_id,weight\n0,AAAA,AAAA0001,1\n",
			wantMsg: "line 2: expected 3 columns, got 4",
		},
		{
			name:    "non-integer shard",
			input:   "shard,user_id,weight\nzero,AAAAAAAAAAAA0001,1\n",
			wantMsg: "line 2: shard \"zero\" is not an integer",
		},
		{
			name:    "negative shard",
			input:   "shard,user_id,weight\n-1,AAAAAAAAAAAA0001,1\n",
			wantMsg: "line 2: shard -1 is negative",
		},
		{
			name:    "empty user_id",
			input:   "shard,user_id,weight\n0,,1\n",
			wantMsg: "line 2: empty user_id",
		},
		{
			name:    "non-integer weight",
			input:   "shard,user_id,weight\n0,AAAAAAAAAAAA0001,1.5\n",
			wantMsg: "line 2: weight \"1.5\" is not an integer",
		},
		{
			name:    "negative weight",
			input:   "shard,user_id,weight\n0,AAAAAAAAAAAA0001,-3\n",
			wantMsg: "line 2: weight -3 is negative",
		},
		{
			name:    "crlf row",
			input:   "shard,user_id,weight\n0,AAAAAAAAAAAA0001,1\r\n",
			wantMsg: "line 2",
		},
		{
			name:    "error cites correct later line",
			input:   "shard,user_id,weight\n0,AAAAAAAAAAAA0001,1\n0,AAAAAAAAAAAA0002,x\n",
			wantMsg: "line 3: weight \"x\" is not an integer",
		},
		{
			name:    "blank line mid-file",
			input:   "shard,user_id,weight\n0,AAAAAAAAAAAA0001,1\n\n0,AAAAAAAAAAAA0002,2\n",
			wantMsg: "line 3: expected 3 columns, got 1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, errors.SnapshotMalformed), "want SNAPSHOT_MALFORMED, got %v", err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestTotals(t *testing.T) {
	snap, err := Parse([]byte(validCSV))
	require.NoError(t, err)

	users, entries := snap.Totals()
	assert.Equal(t, int64(3), users)
	assert.Equal(t, int64(6), entries)
}

func TestTotalsEmpty(t *testing.T) {
	users, entries := (&Snapshot{}).Totals()
	assert.Zero(t, users)
	assert.Zero(t, entries)
}

func TestTotalsZeroWeightCounts(t *testing.T) {
	// Zero-weight entrants are excluded from the draw but still count as
	// rows and contribute nothing to the entry sum.
	snap, err := Parse([]byte("shard,user_id,weight\n0,AAAAAAAAAAAA0001,0\n0,AAAAAAAAAAAA0002,4\n"))
	require.NoError(t, err)

	users, entries := snap.Totals()
	assert.Equal(t, int64(2), users)
	assert.Equal(t, int64(4), entries)
}
