// Package digest provides the BLAKE2b-256 hashing used throughout the
// verification pipeline. All digests are rendered as lowercase hex.
package digest

import (
	"encoding/hex"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Sum256Hex returns the lowercase hex BLAKE2b-256 digest of data.
func Sum256Hex(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// Sum256 returns the raw BLAKE2b-256 digest of data.
func Sum256(data []byte) [32]byte {
	return blake2b.Sum256(data)
}

// Equal compares two hex digests case-insensitively.
func Equal(a, b string) bool {
	return strings.EqualFold(a, b)
}

// ShortHex renders a hex digest in abbreviated display form.
// Digests longer than 16 characters become first 4 + ellipsis + last 4.
func ShortHex(hx string) string {
	hx = strings.ToLower(hx)
	if len(hx) <= 16 {
		return hx
	}
	return hx[:4] + "…" + hx[len(hx)-4:]
}
