package postgres

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"sensorcore/internal/infra/persistence/postgres/testutil"
	"sensorcore/pkg/domain"
)

func withStubOpen(t *testing.T) *testutil.StubConn {
	t.Helper()
	db, conn := testutil.NewStubDB()
	orig := sqlOpen
	sqlOpen = func(string, string) (*sql.DB, error) { return db, nil }
	t.Cleanup(func() { sqlOpen = orig })
	return conn
}

func TestNewStoreAppliesSchema(t *testing.T) {
	conn := withStubOpen(t)
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()

	var sawCombinations bool
	for _, stmt := range conn.Execs {
		if strings.Contains(stmt, "sensor_combinations") && strings.Contains(stmt, "PRIMARY KEY (analyte_id, bre_id, im_id, mem_id)") {
			sawCombinations = true
		}
	}
	if !sawCombinations {
		t.Fatalf("schema missing composite-key combination table; statements: %v", conn.Execs)
	}
}

func TestNewStoreFailsWhenUnreachable(t *testing.T) {
	conn := withStubOpen(t)
	conn.FailPing = true
	if _, err := NewStore(""); err == nil {
		t.Fatalf("expected ping failure")
	}
}

func TestRunInTransactionPersistsSnapshot(t *testing.T) {
	conn := withStubOpen(t)
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()

	before := len(conn.Execs)
	err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateAnalyte(domain.Analyte{
			ID: "TAGLUCOSE", Name: "Glucose", PHMin: 4, PHMax: 8, TMax: 60,
			Stability: 180, HalfLife: 720, PowerConsumption: 50,
		})
		return err
	})
	if err != nil {
		t.Fatalf("transaction: %v", err)
	}

	var sawTruncate, sawInsert bool
	for _, stmt := range conn.Execs[before:] {
		if strings.HasPrefix(strings.TrimSpace(stmt), "TRUNCATE TABLE") {
			sawTruncate = true
		}
		if strings.Contains(stmt, "INSERT INTO analytes") {
			sawInsert = true
		}
	}
	if !sawTruncate || !sawInsert {
		t.Fatalf("expected snapshot rewrite, got: %v", conn.Execs[before:])
	}
	if got := store.CountComponents(domain.KindAnalyte); got != 1 {
		t.Fatalf("in-memory state not updated: %d analytes", got)
	}
}

func TestRunInTransactionSurfacesPersistFailure(t *testing.T) {
	conn := withStubOpen(t)
	store, err := NewStore("")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = store.Close() }()

	conn.FailExec = true
	err = store.RunInTransaction(context.Background(), func(tx domain.Transaction) error {
		_, err := tx.CreateAnalyte(domain.Analyte{
			ID: "TALACTATE", Name: "Lactate", PHMin: 4, PHMax: 8, TMax: 40,
			Stability: 90, HalfLife: 300, PowerConsumption: 30,
		})
		return err
	})
	if err == nil {
		t.Fatalf("expected persist failure to surface")
	}
}
