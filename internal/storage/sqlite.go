// Package storage persists the corpus index: record provenance and
// per-run statistics, queryable after the fact without re-reading the
// JSONL stream.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"fimcorpus/internal/record"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens the index database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS records (
			id TEXT PRIMARY KEY,
			path TEXT,
			file_hash TEXT,
			offset INTEGER,
			line INTEGER,
			language TEXT,
			fingerprint TEXT,
			prefix_len INTEGER,
			middle_len INTEGER,
			suffix_len INTEGER
		);`,
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT,
			finished_at TEXT,
			duration_ms INTEGER,
			files_processed INTEGER,
			files_skipped INTEGER,
			records_emitted INTEGER,
			phases JSON
		);`,
		`CREATE INDEX IF NOT EXISTS idx_records_path ON records(path);`,
		`CREATE INDEX IF NOT EXISTS idx_records_fingerprint ON records(fingerprint);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

// SaveRecords upserts a batch of records in one transaction.
func (s *SQLiteStore) SaveRecords(ctx context.Context, recs []record.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (id, path, file_hash, offset, line, language, fingerprint, prefix_len, middle_len, suffix_len)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			path=excluded.path,
			file_hash=excluded.file_hash,
			offset=excluded.offset,
			line=excluded.line,
			language=excluded.language,
			fingerprint=excluded.fingerprint,
			prefix_len=excluded.prefix_len,
			middle_len=excluded.middle_len,
			suffix_len=excluded.suffix_len
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range recs {
		if _, err := stmt.Exec(r.ID, r.Source.Path, r.Source.FileHash, r.Source.Offset, r.Source.Line,
			r.Language, r.Fingerprint, len(r.Prefix), len(r.Middle), len(r.Suffix)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// RunSummary is the persisted shape of one pipeline run.
type RunSummary struct {
	ID             string
	StartedAt      string
	FinishedAt     string
	DurationMS     int64
	FilesProcessed int64
	FilesSkipped   int64
	RecordsEmitted int64
	Phases         any // serialized as JSON
}

func (s *SQLiteStore) SaveRun(ctx context.Context, run RunSummary) error {
	phases, err := json.Marshal(run.Phases)
	if err != nil {
		return fmt.Errorf("marshal phase stats: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO runs (id, started_at, finished_at, duration_ms, files_processed, files_skipped, records_emitted, phases)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			started_at=excluded.started_at,
			finished_at=excluded.finished_at,
			duration_ms=excluded.duration_ms,
			files_processed=excluded.files_processed,
			files_skipped=excluded.files_skipped,
			records_emitted=excluded.records_emitted,
			phases=excluded.phases
	`, run.ID, run.StartedAt, run.FinishedAt, run.DurationMS,
		run.FilesProcessed, run.FilesSkipped, run.RecordsEmitted, phases)
	return err
}

// CountRecords returns the number of indexed records.
func (s *SQLiteStore) CountRecords(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&n)
	return n, err
}

// CountByLanguage breaks the index down per language tag.
func (s *SQLiteStore) CountByLanguage(ctx context.Context) (map[string]int64, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT language, COUNT(*) FROM records GROUP BY language")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64)
	for rows.Next() {
		var lang string
		var n int64
		if err := rows.Scan(&lang, &n); err != nil {
			return nil, err
		}
		out[lang] = n
	}
	return out, rows.Err()
}
