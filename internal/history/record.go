package history

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"drawaudit/internal/digest"
	"drawaudit/internal/errors"
)

// GenesisHash is the prev_hash sentinel of the first chained record.
const GenesisHash = "GENESIS"

// RunRecord is one verification run as stored in the ledger. RecordHash
// binds the record to its predecessor, so rewriting any stored run breaks
// every hash after it.
type RunRecord struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"createdAt"`
	Period          string    `json:"period"`
	WinnersSource   string    `json:"winnersSource"`
	SnapshotSource  string    `json:"snapshotSource"`
	SnapshotHashHex string    `json:"snapshotHashHex"`
	Level1          string    `json:"level1"`
	Level2          string    `json:"level2"`
	Level3          string    `json:"level3"`
	Overall         string    `json:"overall"`
	PrevHash        string    `json:"prevHash"`
	RecordHash      string    `json:"recordHash"`
}

// chainHash computes the record hash: BLAKE2b-256 over the previous hash
// and every stored field, newline-separated in column order.
func chainHash(prev string, r RunRecord) string {
	fields := []string{
		prev,
		r.ID,
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
		r.Period,
		r.WinnersSource,
		r.SnapshotSource,
		r.SnapshotHashHex,
		r.Level1,
		r.Level2,
		r.Level3,
		r.Overall,
	}
	return digest.Sum256Hex([]byte(strings.Join(fields, "\n")))
}

// Append chains a new run onto the ledger. ID and CreatedAt are assigned
// here; PrevHash and RecordHash are computed inside the transaction so two
// concurrent appends cannot chain off the same predecessor.
func (db *DB) Append(rec RunRecord) (*RunRecord, error) {
	rec.ID = uuid.NewString()
	rec.CreatedAt = time.Now().UTC()

	err := db.WithTx(func(tx *sql.Tx) error {
		prev := GenesisHash
		err := tx.QueryRow("SELECT record_hash FROM runs ORDER BY rowid DESC LIMIT 1").Scan(&prev)
		if err != nil && err != sql.ErrNoRows {
			return err
		}

		rec.PrevHash = prev
		rec.RecordHash = chainHash(prev, rec)

		_, err = tx.Exec(`
			INSERT INTO runs (
				id, created_at, period, winners_source, snapshot_source,
				snapshot_hash_hex, level1, level2, level3, overall,
				prev_hash, record_hash
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			rec.ID, rec.CreatedAt.Format(time.RFC3339Nano), rec.Period,
			rec.WinnersSource, rec.SnapshotSource, rec.SnapshotHashHex,
			rec.Level1, rec.Level2, rec.Level3, rec.Overall,
			rec.PrevHash, rec.RecordHash)
		return err
	})
	if err != nil {
		return nil, errors.New(errors.HistoryUnavailable, "cannot append run record", err)
	}
	return &rec, nil
}

// List returns recorded runs, newest first. An empty period matches all
// periods; limit <= 0 means no limit.
func (db *DB) List(period string, limit int) ([]RunRecord, error) {
	query := `
		SELECT id, created_at, period, winners_source, snapshot_source,
		       snapshot_hash_hex, level1, level2, level3, overall,
		       prev_hash, record_hash
		FROM runs`
	var args []interface{}
	if period != "" {
		query += " WHERE period = ?"
		args = append(args, period)
	}
	query += " ORDER BY rowid DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, errors.New(errors.HistoryUnavailable, "cannot list run records", err)
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.New(errors.HistoryUnavailable, "cannot scan run record", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.New(errors.HistoryUnavailable, "cannot list run records", err)
	}
	return out, nil
}

// CheckChain re-derives every record hash from the stored fields in
// insertion order and verifies each link. Returns the number of verified
// records; the first broken link is an error naming the offending record.
func (db *DB) CheckChain() (int, error) {
	rows, err := db.Query(`
		SELECT id, created_at, period, winners_source, snapshot_source,
		       snapshot_hash_hex, level1, level2, level3, overall,
		       prev_hash, record_hash
		FROM runs ORDER BY rowid ASC`)
	if err != nil {
		return 0, errors.New(errors.HistoryUnavailable, "cannot read run records", err)
	}
	defer rows.Close()

	verified := 0
	prev := GenesisHash
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return verified, errors.New(errors.HistoryUnavailable, "cannot scan run record", err)
		}
		if rec.PrevHash != prev {
			return verified, errors.Newf(errors.HistoryUnavailable,
				"record %s: prev_hash %s does not chain from %s", rec.ID, digest.ShortHex(rec.PrevHash), digest.ShortHex(prev))
		}
		if want := chainHash(prev, rec); !digest.Equal(rec.RecordHash, want) {
			return verified, errors.Newf(errors.HistoryUnavailable,
				"record %s: stored hash %s does not match recomputed %s", rec.ID, digest.ShortHex(rec.RecordHash), digest.ShortHex(want))
		}
		prev = rec.RecordHash
		verified++
	}
	if err := rows.Err(); err != nil {
		return verified, errors.New(errors.HistoryUnavailable, "cannot read run records", err)
	}
	return verified, nil
}

func scanRecord(rows *sql.Rows) (RunRecord, error) {
	var rec RunRecord
	var createdAt string
	err := rows.Scan(&rec.ID, &createdAt, &rec.Period, &rec.WinnersSource,
		&rec.SnapshotSource, &rec.SnapshotHashHex, &rec.Level1, &rec.Level2,
		&rec.Level3, &rec.Overall, &rec.PrevHash, &rec.RecordHash)
	if err != nil {
		return rec, err
	}
	rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	return rec, err
}
