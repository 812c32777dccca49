package snapshot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Reference digest of validCSV, computed once from the derivation rules
// and pinned. The file is already canonical, so the raw and rebuilt
// digests coincide.
const validCSVHash = "8827088e44cd33acce4af7854e1aa512a122315f23db318cf90810c3adc5aadf"

func TestCanonicalBytesRoundTrip(t *testing.T) {
	snap, err := Parse([]byte(validCSV))
	require.NoError(t, err)

	assert.Equal(t, []byte(validCSV), CanonicalBytes(snap))
}

func TestCanonicalHashMatchesRawForCanonicalInput(t *testing.T) {
	snap, err := Parse([]byte(validCSV))
	require.NoError(t, err)

	assert.Equal(t, validCSVHash, RawHashHex([]byte(validCSV)))
	assert.Equal(t, validCSVHash, CanonicalHashHex(snap))
}

func TestCanonicalRebuildNormalizesStrayBytes(t *testing.T) {
	// A missing final terminator changes the raw digest but not the
	// canonical one, which is exactly the distinction between Levels 1 and 2.
	dirty := strings.TrimSuffix(validCSV, "\n")

	snap, err := Parse([]byte(dirty))
	require.NoError(t, err)

	assert.NotEqual(t, validCSVHash, RawHashHex([]byte(dirty)))
	assert.Equal(t, validCSVHash, CanonicalHashHex(snap))
}

func TestRawHashSingleByteSensitivity(t *testing.T) {
	base := RawHashHex([]byte(validCSV))

	for i := range validCSV {
		mutated := []byte(validCSV)
		mutated[i] ^= 0x01
		assert.NotEqual(t, base, RawHashHex(mutated), "flip at byte %d left the digest unchanged", i)
	}
}

func TestCanonicalBytesEmptySnapshot(t *testing.T) {
	assert.Equal(t, []byte(Header+"\n"), CanonicalBytes(&Snapshot{}))
}
