// Package winners models the published winners document. The wire format
// is the operator's JSON contract, so field names follow it exactly.
package winners

import (
	"encoding/json"
	"fmt"

	"drawaudit/internal/errors"
)

// Totals carries the operator's published row count and weight sum.
type Totals struct {
	Users   int64 `json:"users"`
	Entries int64 `json:"entries"`
}

// Commit carries the seed commitment and, post-reveal, the seed itself.
type Commit struct {
	SeedCommitHex string `json:"seed_commit_hex"`
	SeedHex       string `json:"seed_hex,omitempty"`
	RevealedAt    string `json:"revealed_at,omitempty"`
}

// Document is the published winners record for one draw period.
// Loaded once per run, immutable thereafter.
type Document struct {
	Period            string    `json:"period"`
	SnapshotHashHex   string    `json:"snapshot_hash_hex"`
	Totals            Totals    `json:"totals"`
	Commit            Commit    `json:"commit"`
	KPrimary          int       `json:"k_primary"`
	KAlternates       int       `json:"k_alternates"`
	WinnersPrimary    AliasList `json:"winners_primary"`
	WinnersAlternates AliasList `json:"winners_alternates"`
}

// AliasList decodes a published winner list. Entries may be bare alias
// strings or legacy {"alias": ...} objects; both forms appear in the wild.
type AliasList []string

func (l *AliasList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	out := make([]string, 0, len(raw))
	for i, item := range raw {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			out = append(out, s)
			continue
		}

		var obj struct {
			Alias *string `json:"alias"`
		}
		if err := json.Unmarshal(item, &obj); err != nil || obj.Alias == nil {
			return fmt.Errorf("entry %d: neither an alias string nor an {\"alias\": ...} object", i)
		}
		out = append(out, *obj.Alias)
	}

	*l = out
	return nil
}

// Decode parses winners document bytes. Undecodable input is fatal to the
// whole run; missing fields are left at zero values for the level checks
// to flag, matching how operators have historically published partial
// documents pre-reveal.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.New(errors.InputMalformed, "winners document is not valid JSON", err)
	}

	// Early deployments published the seed at the top level.
	if doc.Commit.SeedHex == "" {
		var legacy struct {
			SeedHex string `json:"seed_hex"`
		}
		if err := json.Unmarshal(data, &legacy); err == nil && legacy.SeedHex != "" {
			doc.Commit.SeedHex = legacy.SeedHex
		}
	}

	return &doc, nil
}

// SeedRevealed reports whether the operator has published the seed.
func (d *Document) SeedRevealed() bool {
	return d.Commit.SeedHex != ""
}

// KTotal is the full number of winners the document commits to.
func (d *Document) KTotal() int {
	return d.KPrimary + d.KAlternates
}

// PublishedAliases flattens the primary and alternate lists in their
// published order, the sequence Level 3 reproduces.
func (d *Document) PublishedAliases() []string {
	out := make([]string, 0, len(d.WinnersPrimary)+len(d.WinnersAlternates))
	out = append(out, d.WinnersPrimary...)
	out = append(out, d.WinnersAlternates...)
	return out
}
