package core

import (
	"path/filepath"
	"testing"
)

func TestOpenPersistentStoreMemory(t *testing.T) {
	t.Setenv("SENSORCORE_STORAGE_DRIVER", "memory")
	store, err := OpenPersistentStore()
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	if store == nil {
		t.Fatalf("expected store instance")
	}
}

func TestOpenPersistentStoreDefaultsToSQLite(t *testing.T) {
	t.Setenv("SENSORCORE_STORAGE_DRIVER", "")
	t.Setenv("SENSORCORE_SQLITE_PATH", filepath.Join(t.TempDir(), "sensors.db"))
	store, err := OpenPersistentStore()
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	if store == nil {
		t.Fatalf("expected store instance")
	}
}

func TestOpenPersistentStoreUnknownDriver(t *testing.T) {
	t.Setenv("SENSORCORE_STORAGE_DRIVER", "oracle")
	if _, err := OpenPersistentStore(); err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
