package core

import (
	"context"
	"encoding/json"
	"io"
	"testing"
	"time"

	"sensorcore/internal/blob"
)

func TestArchiveCombinations(t *testing.T) {
	ctx := context.Background()
	fixed := time.Date(2026, 4, 2, 12, 30, 0, 0, time.UTC)
	svc := NewInMemoryService(WithClock(ClockFunc(func() time.Time { return fixed })))
	seedScenario(t, svc)
	if _, err := svc.Synthesize(ctx, 100); err != nil {
		t.Fatalf("synthesize: %v", err)
	}

	blobs := blob.NewMemoryStore()
	result, err := svc.ArchiveCombinations(ctx, blobs)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if result.Combinations != 3 || result.SizeBytes <= 0 {
		t.Fatalf("unexpected archive result: %+v", result)
	}
	if result.Key != "archives/combinations-20260402T123000Z.json" {
		t.Fatalf("unexpected archive key: %s", result.Key)
	}

	info, rc, err := blobs.Get(ctx, result.Key)
	if err != nil {
		t.Fatalf("get archive: %v", err)
	}
	data, _ := io.ReadAll(rc)
	_ = rc.Close()
	if info.ContentType != "application/json" {
		t.Fatalf("unexpected content type: %s", info.ContentType)
	}
	var doc struct {
		ArchivedAt   time.Time           `json:"archived_at"`
		Combinations []SensorCombination `json:"combinations"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode archive: %v", err)
	}
	if len(doc.Combinations) != 3 || !doc.ArchivedAt.Equal(fixed) {
		t.Fatalf("unexpected archive document: %+v", doc)
	}
}

func TestArchiveEmptyStore(t *testing.T) {
	ctx := context.Background()
	svc := NewInMemoryService()
	blobs := blob.NewMemoryStore()

	result, err := svc.ArchiveCombinations(ctx, blobs)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if result.Combinations != 0 {
		t.Fatalf("expected empty archive, got %+v", result)
	}
	if _, err := blobs.Head(ctx, result.Key); err != nil {
		t.Fatalf("expected archive object to exist: %v", err)
	}
}
