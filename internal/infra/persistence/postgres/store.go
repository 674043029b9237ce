// Package postgres provides a Postgres-backed persistent store that mirrors
// the in-memory semantics while applying the catalog DDL on startup.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"sensorcore/internal/infra/persistence/memory"
	"sensorcore/pkg/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.PersistentStore = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/sensorcore?sslmode=disable"
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store persists state to Postgres while reusing the in-memory implementation
// for transactional semantics. The sensor_combinations table carries the
// composite primary key enforcing quadruple uniqueness at the durable layer.
type Store struct {
	*memory.Store
	db *sql.DB
	mu sync.Mutex
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS analytes (
	ta_id TEXT PRIMARY KEY,
	payload JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS bio_recognition_layers (
	bre_id TEXT PRIMARY KEY,
	payload JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS immobilization_layers (
	im_id TEXT PRIMARY KEY,
	payload JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS memristive_layers (
	mem_id TEXT PRIMARY KEY,
	payload JSONB NOT NULL
);
CREATE TABLE IF NOT EXISTS sensor_combinations (
	analyte_id TEXT NOT NULL,
	bre_id TEXT NOT NULL,
	im_id TEXT NOT NULL,
	mem_id TEXT NOT NULL,
	score DOUBLE PRECISION NOT NULL,
	payload JSONB NOT NULL,
	PRIMARY KEY (analyte_id, bre_id, im_id, mem_id)
);`

// NewStore opens a Postgres-backed store using the provided DSN (falls back
// to defaultDSN), applies the catalog DDL, and hydrates the in-memory store
// from existing rows.
func NewStore(dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := applyDDL(ctx, db); err != nil {
		return nil, err
	}
	snapshot, err := loadSnapshot(ctx, db)
	if err != nil {
		return nil, err
	}
	mem := memory.NewStore()
	mem.ImportState(snapshot)
	return &Store{Store: mem, db: db}, nil
}

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Close releases the database handle.
func (s *Store) Close() error { return s.db.Close() }

// RunInTransaction applies fn to the in-memory state, then snapshots to
// Postgres when the transaction commits.
func (s *Store) RunInTransaction(ctx context.Context, fn func(domain.Transaction) error) error {
	if err := s.Store.RunInTransaction(ctx, fn); err != nil {
		return err
	}
	return s.persist(ctx)
}

func applyDDL(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(schemaDDL, ";") {
		if strings.TrimSpace(stmt) == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute ddl: %w", err)
		}
	}
	return nil
}

var catalogTables = []string{
	"analytes",
	"bio_recognition_layers",
	"immobilization_layers",
	"memristive_layers",
	"sensor_combinations",
}

func loadSnapshot(ctx context.Context, db *sql.DB) (memory.Snapshot, error) {
	snapshot := memory.Snapshot{
		Analytes:       map[string]domain.Analyte{},
		BioRecognition: map[string]domain.BioRecognitionLayer{},
		Immobilization: map[string]domain.ImmobilizationLayer{},
		Memristive:     map[string]domain.MemristiveLayer{},
		Combinations:   map[string]domain.SensorCombination{},
	}
	for _, table := range catalogTables {
		table := table
		err := forEachPayload(ctx, db, table, func(payload []byte) error {
			switch table {
			case "analytes":
				var a domain.Analyte
				if err := json.Unmarshal(payload, &a); err != nil {
					return err
				}
				snapshot.Analytes[a.ID] = a
			case "bio_recognition_layers":
				var b domain.BioRecognitionLayer
				if err := json.Unmarshal(payload, &b); err != nil {
					return err
				}
				snapshot.BioRecognition[b.ID] = b
			case "immobilization_layers":
				var i domain.ImmobilizationLayer
				if err := json.Unmarshal(payload, &i); err != nil {
					return err
				}
				snapshot.Immobilization[i.ID] = i
			case "memristive_layers":
				var m domain.MemristiveLayer
				if err := json.Unmarshal(payload, &m); err != nil {
					return err
				}
				snapshot.Memristive[m.ID] = m
			case "sensor_combinations":
				var c domain.SensorCombination
				if err := json.Unmarshal(payload, &c); err != nil {
					return err
				}
				snapshot.Combinations[c.Key()] = c
			}
			return nil
		})
		if err != nil {
			return memory.Snapshot{}, err
		}
	}
	return snapshot, nil
}

func forEachPayload(ctx context.Context, db *sql.DB, table string, decode func([]byte) error) error {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("SELECT payload FROM %s", table)) //nolint:gosec // table names are package constants
	if err != nil {
		return fmt.Errorf("select %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return fmt.Errorf("scan %s: %w", table, err)
		}
		if len(payload) == 0 {
			continue
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

	if _, err := tx.ExecContext(ctx, "TRUNCATE TABLE "+strings.Join(catalogTables, ", ")); err != nil {
		return fmt.Errorf("truncate: %w", err)
	}
	for id, a := range snapshot.Analytes {
		if err := insertPayload(ctx, tx, "INSERT INTO analytes (ta_id, payload) VALUES ($1, $2)", id, a); err != nil {
			return err
		}
	}
	for id, b := range snapshot.BioRecognition {
		if err := insertPayload(ctx, tx, "INSERT INTO bio_recognition_layers (bre_id, payload) VALUES ($1, $2)", id, b); err != nil {
			return err
		}
	}
	for id, i := range snapshot.Immobilization {
		if err := insertPayload(ctx, tx, "INSERT INTO immobilization_layers (im_id, payload) VALUES ($1, $2)", id, i); err != nil {
			return err
		}
	}
	for id, m := range snapshot.Memristive {
		if err := insertPayload(ctx, tx, "INSERT INTO memristive_layers (mem_id, payload) VALUES ($1, $2)", id, m); err != nil {
			return err
		}
	}
	for _, c := range snapshot.Combinations {
		payload, err := json.Marshal(c)
		if err != nil {
			return fmt.Errorf("encode combination: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO sensor_combinations (analyte_id, bre_id, im_id, mem_id, score, payload)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 ON CONFLICT (analyte_id, bre_id, im_id, mem_id) DO NOTHING`,
			c.AnalyteID, c.BioRecognitionID, c.ImmobilizationID, c.MemristiveID, c.Score, payload); err != nil {
			return fmt.Errorf("insert combination %s: %w", c.Key(), err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func insertPayload(ctx context.Context, tx *sql.Tx, query, id string, record any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode %s: %w", id, err)
	}
	if _, err := tx.ExecContext(ctx, query, id, payload); err != nil {
		return fmt.Errorf("insert %s: %w", id, err)
	}
	return nil
}
