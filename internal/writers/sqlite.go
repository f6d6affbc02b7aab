package writers

import (
	"database/sql"

	_ "modernc.org/sqlite"

	"seqsearch/core/search"
	"seqsearch/internal/errors"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS hits (
	query_id          TEXT    NOT NULL,
	target_id         TEXT    NOT NULL,
	rank              INTEGER NOT NULL,
	strand            TEXT    NOT NULL,
	query_start       INTEGER NOT NULL,
	query_end         INTEGER NOT NULL,
	target_start      INTEGER NOT NULL,
	target_end        INTEGER NOT NULL,
	query_match_seq   TEXT    NOT NULL,
	target_match_seq  TEXT    NOT NULL,
	num_columns       INTEGER NOT NULL,
	num_matches       INTEGER NOT NULL,
	num_mismatches    INTEGER NOT NULL,
	num_gaps          INTEGER NOT NULL,
	identity          REAL    NOT NULL,
	alignment         TEXT    NOT NULL
);
CREATE INDEX IF NOT EXISTS hits_query ON hits (query_id);`

const sqliteInsert = `
INSERT INTO hits (query_id, target_id, rank, strand,
	query_start, query_end, target_start, target_end,
	query_match_seq, target_match_seq,
	num_columns, num_matches, num_mismatches, num_gaps, identity, alignment)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// sqliteWriter fills a "hits" table. Opening clears rows left by an earlier
// run; other tables in the file are not touched. Rows are grouped into one
// transaction per flush.
type sqliteWriter struct {
	db   *sql.DB
	tx   *sql.Tx
	stmt *sql.Stmt
}

func init() {
	Register(FormatSQLite, openSQLite)
}

func openSQLite(path string, _ Options) (HitWriter, error) {
	if path == "-" {
		return nil, errors.InvalidConfigf("sqlite output needs a file path, not stdout")
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.IOf(err, "open sqlite")
	}
	// a single connection keeps the transaction and the statement together
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, errors.IOf(err, "create schema")
	}
	if _, err := db.Exec(`DELETE FROM hits`); err != nil {
		_ = db.Close()
		return nil, errors.IOf(err, "clear previous hits")
	}
	return &sqliteWriter{db: db}, nil
}

func (w *sqliteWriter) begin() error {
	if w.tx != nil {
		return nil
	}
	tx, err := w.db.Begin()
	if err != nil {
		return errors.IOf(err, "begin")
	}
	stmt, err := tx.Prepare(sqliteInsert)
	if err != nil {
		_ = tx.Rollback()
		return errors.IOf(err, "prepare insert")
	}
	w.tx, w.stmt = tx, stmt
	return nil
}

func (w *sqliteWriter) Write(qh search.QueryHits) error {
	if len(qh.Hits) == 0 {
		return nil
	}
	if err := w.begin(); err != nil {
		return err
	}
	for i := range qh.Hits {
		h := ToAPIHit(qh, i)
		if _, err := w.stmt.Exec(
			h.QueryID, h.TargetID, h.Rank, h.Strand,
			h.QueryStart, h.QueryEnd, h.TargetStart, h.TargetEnd,
			h.QueryMatchSeq, h.TargetMatchSeq,
			h.Columns, h.Matches, h.Mismatches, h.Gaps, h.Identity, h.Cigar,
		); err != nil {
			return errors.IOf(err, "insert hit")
		}
	}
	return nil
}

// Flush commits pending rows.
func (w *sqliteWriter) Flush() error {
	if w.tx == nil {
		return nil
	}
	_ = w.stmt.Close()
	err := w.tx.Commit()
	w.tx, w.stmt = nil, nil
	if err != nil {
		return errors.IOf(err, "commit")
	}
	return nil
}

func (w *sqliteWriter) Close() error {
	err := w.Flush()
	if cerr := w.db.Close(); cerr != nil && err == nil {
		err = errors.IOf(cerr, "close sqlite")
	}
	return err
}
