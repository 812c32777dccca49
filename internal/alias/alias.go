// Package alias converts full entrant identifiers into the truncated
// public display form published in winner lists.
package alias

import (
	"strings"

	"drawaudit/internal/errors"
)

// minLength is the shortest normalized identifier that can be aliased.
const minLength = 12

// Normalize strips dashes and lowercases an identifier. This is the
// canonicalization the operator applies before publishing aliases, so
// UUID-style identifiers alias identically with or without separators.
func Normalize(userID string) string {
	return strings.ToLower(strings.ReplaceAll(userID, "-", ""))
}

// FromUserID renders the public alias for a full identifier: the first
// 8 characters, an ellipsis, and the last 4 characters of the normalized
// form. Identifiers that normalize to fewer than 12 characters cannot be
// aliased unambiguously and are rejected rather than truncated.
func FromUserID(userID string) (string, error) {
	s := Normalize(userID)
	if len(s) < minLength {
		return "", errors.Newf(errors.InputMalformed,
			"user_id %q too short to alias (normalized length %d, need %d)", userID, len(s), minLength)
	}
	return s[:8] + "…" + s[len(s)-4:], nil
}
