package core

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"sensorcore/internal/blob"
)

// ArchiveResult describes one combination snapshot written to blob storage.
type ArchiveResult struct {
	Key          string `json:"key"`
	Combinations int    `json:"combinations"`
	SizeBytes    int64  `json:"size_bytes"`
}

type archiveDocument struct {
	ArchivedAt   time.Time           `json:"archived_at"`
	Combinations []SensorCombination `json:"combinations"`
}

// ArchiveCombinations writes a JSON snapshot of all persisted combinations to
// the blob store under a timestamped key. The snapshot observes committed
// state only; a synthesis run in flight is not reflected.
func (s *Service) ArchiveCombinations(ctx context.Context, blobs blob.Store) (ArchiveResult, error) {
	var result ArchiveResult
	err := s.run(ctx, "archive_combinations", func(ctx context.Context) (string, error) {
		var combos []SensorCombination
		if err := s.store.View(ctx, func(view TransactionView) error {
			combos = view.ListCombinations()
			return nil
		}); err != nil {
			return "", err
		}
		now := s.clock.Now()
		doc := archiveDocument{ArchivedAt: now, Combinations: combos}
		payload, err := json.Marshal(doc)
		if err != nil {
			return "", err
		}
		key := fmt.Sprintf("archives/combinations-%s.json", now.UTC().Format("20060102T150405Z"))
		info, err := blobs.Put(ctx, key, bytes.NewReader(payload), blob.PutOptions{
			ContentType: "application/json",
			Metadata:    map[string]string{"combinations": fmt.Sprintf("%d", len(combos))},
		})
		if err != nil {
			return "", err
		}
		result = ArchiveResult{Key: info.Key, Combinations: len(combos), SizeBytes: info.Size}
		return info.Key, nil
	})
	return result, err
}
