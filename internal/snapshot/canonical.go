package snapshot

import (
	"bytes"
	"strconv"

	"drawaudit/internal/digest"
)

// CanonicalBytes deterministically rebuilds the snapshot byte content
// from the parsed records: the header line, then one row per entrant in
// their given order, every line terminated by a single line feed and
// nothing after the final terminator.
func CanonicalBytes(s *Snapshot) []byte {
	var buf bytes.Buffer
	buf.WriteString(Header)
	buf.WriteByte('\n')
	for _, e := range s.Entrants {
		buf.WriteString(strconv.Itoa(e.Shard))
		buf.WriteByte(',')
		buf.WriteString(e.UserID)
		buf.WriteByte(',')
		buf.WriteString(strconv.FormatInt(e.Weight, 10))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// CanonicalHashHex digests the canonical rebuild. Matching this against
// the committed snapshot hash proves the parsed record set is what the
// operator committed to, independent of stray bytes in the distributed
// file.
func CanonicalHashHex(s *Snapshot) string {
	return digest.Sum256Hex(CanonicalBytes(s))
}

// RawHashHex digests the input bytes exactly as received.
func RawHashHex(raw []byte) string {
	return digest.Sum256Hex(raw)
}
