// Package storage persists learned classifications and training examples in
// a local SQLite database.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
	_ "modernc.org/sqlite"

	"github.com/happyhackingspace/campo/classifier"
)

const schema = `
CREATE TABLE IF NOT EXISTS learned_entries (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	signals        TEXT NOT NULL,
	field_type     TEXT NOT NULL,
	generator_type TEXT NOT NULL DEFAULT '',
	created_at     TEXT NOT NULL,
	UNIQUE(signals, field_type)
);

CREATE TABLE IF NOT EXISTS dataset_entries (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	signals    TEXT NOT NULL,
	field_type TEXT NOT NULL,
	source     TEXT NOT NULL DEFAULT '',
	difficulty TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
`

// Store is the SQLite-backed learning and dataset store. It implements
// classifier.LearningStore and classifier.DatasetStore and is safe for
// concurrent use.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA foreign_keys=ON",
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=10000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LearnedEntries implements classifier.LearningStore.
func (s *Store) LearnedEntries(ctx context.Context) ([]classifier.LearnedEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT signals, field_type, generator_type FROM learned_entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query learned entries: %w", err)
	}
	defer rows.Close()

	var entries []classifier.LearnedEntry
	for rows.Next() {
		var e classifier.LearnedEntry
		var ft string
		if err := rows.Scan(&e.Signals, &ft, &e.GeneratorType); err != nil {
			return nil, fmt.Errorf("scan learned entry: %w", err)
		}
		e.Type = classifier.FieldType(ft)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// StoreLearnedEntry implements classifier.LearningStore. Re-learning the same
// (signals, type) pair updates the generator type instead of duplicating.
func (s *Store) StoreLearnedEntry(ctx context.Context, signals string, t classifier.FieldType, generatorType string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO learned_entries (signals, field_type, generator_type, created_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(signals, field_type) DO UPDATE SET generator_type = excluded.generator_type`,
		signals, string(t), generatorType, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("store learned entry: %w", err)
	}
	return nil
}

// AddDatasetEntry implements classifier.DatasetStore.
func (s *Store) AddDatasetEntry(ctx context.Context, e classifier.DatasetEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO dataset_entries (signals, field_type, source, difficulty, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		e.Signals, string(e.Type), e.Source, e.Difficulty, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("add dataset entry: %w", err)
	}
	return nil
}

// DatasetEntries returns all accumulated training examples, oldest first.
func (s *Store) DatasetEntries(ctx context.Context) ([]classifier.DatasetEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT signals, field_type, source, difficulty FROM dataset_entries ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query dataset entries: %w", err)
	}
	defer rows.Close()

	var entries []classifier.DatasetEntry
	for rows.Next() {
		var e classifier.DatasetEntry
		var ft string
		if err := rows.Scan(&e.Signals, &ft, &e.Source, &e.Difficulty); err != nil {
			return nil, fmt.Errorf("scan dataset entry: %w", err)
		}
		e.Type = classifier.FieldType(ft)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Stats summarizes the store contents.
type Stats struct {
	LearnedCount   int
	DatasetCount   int
	LearnedByType  map[classifier.FieldType]int
	DatasetByType  map[classifier.FieldType]int
	DatasetSources int
}

// Stats counts entries per table and per field type.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	st := &Stats{
		LearnedByType: make(map[classifier.FieldType]int),
		DatasetByType: make(map[classifier.FieldType]int),
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT field_type, COUNT(*) FROM learned_entries GROUP BY field_type`)
	if err != nil {
		return nil, fmt.Errorf("learned stats: %w", err)
	}
	for rows.Next() {
		var ft string
		var n int
		if err := rows.Scan(&ft, &n); err != nil {
			rows.Close()
			return nil, err
		}
		st.LearnedByType[classifier.FieldType(ft)] = n
		st.LearnedCount += n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT field_type, COUNT(*) FROM dataset_entries GROUP BY field_type`)
	if err != nil {
		return nil, fmt.Errorf("dataset stats: %w", err)
	}
	for rows.Next() {
		var ft string
		var n int
		if err := rows.Scan(&ft, &n); err != nil {
			rows.Close()
			return nil, err
		}
		st.DatasetByType[classifier.FieldType(ft)] = n
		st.DatasetCount += n
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT source) FROM dataset_entries WHERE source != ''`).Scan(&st.DatasetSources); err != nil {
		return nil, err
	}
	return st, nil
}

// GetDomain extracts the registrable domain label from a URL, used to group
// dataset entries by site.
func GetDomain(rawURL string) string {
	host := rawURL
	if idx := strings.Index(host, "://"); idx >= 0 {
		host = host[idx+3:]
	}
	if idx := strings.Index(host, "/"); idx >= 0 {
		host = host[:idx]
	}
	if idx := strings.Index(host, ":"); idx >= 0 {
		host = host[:idx]
	}

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	if idx := strings.Index(domain, "."); idx >= 0 {
		return domain[:idx]
	}
	return domain
}
