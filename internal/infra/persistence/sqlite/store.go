// Package sqlite provides an embedded durable store. It reuses the in-memory
// transactional semantics and snapshots the full state into typed tables
// after every successful transaction.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"sensorcore/internal/infra/persistence/memory"
	"sensorcore/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentStore = (*Store)(nil)

// Store persists the in-memory state to a SQLite file. One table per catalog
// kind plus sensor_combinations, whose composite primary key mirrors the
// quadruple uniqueness invariant.
type Store struct {
	*memory.Store
	db   *sql.DB
	mu   sync.Mutex
	path string
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS analytes (
	ta_id TEXT PRIMARY KEY,
	payload BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS bio_recognition_layers (
	bre_id TEXT PRIMARY KEY,
	payload BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS immobilization_layers (
	im_id TEXT PRIMARY KEY,
	payload BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS memristive_layers (
	mem_id TEXT PRIMARY KEY,
	payload BLOB NOT NULL
);
CREATE TABLE IF NOT EXISTS sensor_combinations (
	analyte_id TEXT NOT NULL,
	bre_id TEXT NOT NULL,
	im_id TEXT NOT NULL,
	mem_id TEXT NOT NULL,
	score REAL NOT NULL,
	payload BLOB NOT NULL,
	PRIMARY KEY (analyte_id, bre_id, im_id, mem_id)
);`

// NewStore opens (or creates) the SQLite file at path and hydrates the
// in-memory store from it.
func NewStore(path string) (*Store, error) {
	if path == "" {
		path = "sensorcore.db"
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schemaDDL); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	s := &Store{Store: memory.NewStore(), db: db, path: path}
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// RunInTransaction applies fn to the in-memory state, then snapshots to the
// SQLite file when the transaction commits.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) error {
	if err := s.Store.RunInTransaction(ctx, fn); err != nil {
		return err
	}
	return s.persist(ctx)
}

func (s *Store) load() error {
	snapshot := memory.Snapshot{
		Analytes:       map[string]domain.Analyte{},
		BioRecognition: map[string]domain.BioRecognitionLayer{},
		Immobilization: map[string]domain.ImmobilizationLayer{},
		Memristive:     map[string]domain.MemristiveLayer{},
		Combinations:   map[string]domain.SensorCombination{},
	}
	if err := loadBucket(s.db, "analytes", func(payload []byte) error {
		var a domain.Analyte
		if err := json.Unmarshal(payload, &a); err != nil {
			return err
		}
		snapshot.Analytes[a.ID] = a
		return nil
	}); err != nil {
		return err
	}
	if err := loadBucket(s.db, "bio_recognition_layers", func(payload []byte) error {
		var b domain.BioRecognitionLayer
		if err := json.Unmarshal(payload, &b); err != nil {
			return err
		}
		snapshot.BioRecognition[b.ID] = b
		return nil
	}); err != nil {
		return err
	}
	if err := loadBucket(s.db, "immobilization_layers", func(payload []byte) error {
		var i domain.ImmobilizationLayer
		if err := json.Unmarshal(payload, &i); err != nil {
			return err
		}
		snapshot.Immobilization[i.ID] = i
		return nil
	}); err != nil {
		return err
	}
	if err := loadBucket(s.db, "memristive_layers", func(payload []byte) error {
		var m domain.MemristiveLayer
		if err := json.Unmarshal(payload, &m); err != nil {
			return err
		}
		snapshot.Memristive[m.ID] = m
		return nil
	}); err != nil {
		return err
	}
	if err := loadBucket(s.db, "sensor_combinations", func(payload []byte) error {
		var c domain.SensorCombination
		if err := json.Unmarshal(payload, &c); err != nil {
			return err
		}
		snapshot.Combinations[c.Key()] = c
		return nil
	}); err != nil {
		return err
	}
	s.ImportState(snapshot)
	return nil
}

func loadBucket(db *sql.DB, table string, decode func([]byte) error) error {
	rows, err := db.Query(fmt.Sprintf("SELECT payload FROM %s", table)) //nolint:gosec // table names are package constants
	if err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return fmt.Errorf("scan %s: %w", table, err)
		}
		if err := decode(payload); err != nil {
			return fmt.Errorf("decode %s: %w", table, err)
		}
	}
	return rows.Err()
}

func (s *Store) persist(ctx context.Context) (retErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.ExportState()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()

	for _, table := range []string{"analytes", "bio_recognition_layers", "immobilization_layers", "memristive_layers", "sensor_combinations"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	for id, a := range snapshot.Analytes {
		if err := insertRecord(ctx, tx, "INSERT INTO analytes (ta_id, payload) VALUES (?, ?)", a, id); err != nil {
			return err
		}
	}
	for id, b := range snapshot.BioRecognition {
		if err := insertRecord(ctx, tx, "INSERT INTO bio_recognition_layers (bre_id, payload) VALUES (?, ?)", b, id); err != nil {
			return err
		}
	}
	for id, i := range snapshot.Immobilization {
		if err := insertRecord(ctx, tx, "INSERT INTO immobilization_layers (im_id, payload) VALUES (?, ?)", i, id); err != nil {
			return err
		}
	}
	for id, m := range snapshot.Memristive {
		if err := insertRecord(ctx, tx, "INSERT INTO memristive_layers (mem_id, payload) VALUES (?, ?)", m, id); err != nil {
			return err
		}
	}
	for _, c := range snapshot.Combinations {
		payload, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode combination: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO sensor_combinations (analyte_id, bre_id, im_id, mem_id, score, payload) VALUES (?, ?, ?, ?, ?, ?)",
			c.AnalyteID, c.BioRecognitionID, c.ImmobilizationID, c.MemristiveID, c.Score, payload); err != nil {
			return fmt.Errorf("insert combination %s: %w", c.Key(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertRecord(ctx context.Context, tx *sql.Tx, query string, record any, id string) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, query, id, payload); err != nil {
		return fmt.Errorf("insert %s: %w", id, err)
	}
	return nil
}
