package journal

import (
	"database/sql"
	"fmt"
)

// Entry is one journaled change event as read back from the database.
// Old and New are the JSON serializations written by Append.
type Entry struct {
	Seq     int64  `json:"seq" yaml:"seq"`
	TxToken string `json:"tx_token" yaml:"tx_token"`
	Owner   string `json:"owner" yaml:"owner"`
	Attr    string `json:"attr" yaml:"attr"`
	Old     string `json:"old" yaml:"old"`
	New     string `json:"new" yaml:"new"`
}

// Entries returns all journaled changes ordered by seq.
func (j *Journal) Entries() ([]Entry, error) {
	return j.query(`
		SELECT seq, tx_token, owner, attr, old_value, new_value
		FROM changes ORDER BY seq
	`)
}

// EntriesByTx returns the changes of one transaction ordered by seq.
func (j *Journal) EntriesByTx(txToken string) ([]Entry, error) {
	return j.query(`
		SELECT seq, tx_token, owner, attr, old_value, new_value
		FROM changes WHERE tx_token = ? ORDER BY seq
	`, txToken)
}

// EntriesByAttr returns the changes of one (owner, attr) pair ordered by seq.
func (j *Journal) EntriesByAttr(owner, attrName string) ([]Entry, error) {
	return j.query(`
		SELECT seq, tx_token, owner, attr, old_value, new_value
		FROM changes WHERE owner = ? AND attr = ? ORDER BY seq
	`, owner, attrName)
}

// Len returns the number of journaled changes.
func (j *Journal) Len() (int, error) {
	var n int
	if err := j.db.QueryRow(`SELECT COUNT(*) FROM changes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count changes: %w", err)
	}
	return n, nil
}

func (j *Journal) query(q string, args ...any) ([]Entry, error) {
	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query changes: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Seq, &e.TxToken, &e.Owner, &e.Attr, &e.Old, &e.New); err != nil {
			return nil, fmt.Errorf("scan change: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate changes: %w", err)
	}
	return out, nil
}
