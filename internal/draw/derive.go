package draw

import (
	"math"
	"math/big"
	"strconv"

	"golang.org/x/crypto/blake2b"
)

// DeriveU maps (seed, period, shard, user_id) to a uniform value in (0,1).
// The digest is read as a big-endian unsigned integer and divided by 2^256
// with correct rounding to float64: the integer is converted exactly at
// full precision, rounded to nearest-even once, then scaled by the exact
// power of two. An all-zero digest would make ln(u) undefined, so u <= 0
// is remapped to the smallest positive float64 (5e-324); that remap is a
// protocol parameter every independent verifier must share.
func DeriveU(seed []byte, period string, shard int, userID string) float64 {
	h, _ := blake2b.New256(nil)
	h.Write([]byte("derive_u|ver:1|"))
	h.Write(seed)
	h.Write([]byte("|period:"))
	h.Write([]byte(period))
	h.Write([]byte("|shard:"))
	h.Write([]byte(strconv.Itoa(shard)))
	h.Write([]byte("|user:"))
	h.Write([]byte(userID))

	n := new(big.Int).SetBytes(h.Sum(nil))
	f, _ := new(big.Float).SetInt(n).Float64()
	u := math.Ldexp(f, -256)
	if u <= 0 {
		u = math.SmallestNonzeroFloat64
	}
	return u
}

// Score applies the Efraimidis–Spirakis transform. Smaller is better;
// weight must be positive.
func Score(u float64, weight int64) float64 {
	return -math.Log(u) / float64(weight)
}
