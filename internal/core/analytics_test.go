package core

import (
	"context"
	"testing"

	"sensorcore/pkg/domain"
)

func TestStatisticsEmptyStore(t *testing.T) {
	svc := NewInMemoryService()
	stats, err := svc.Statistics(context.Background())
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats != (Statistics{}) {
		t.Fatalf("expected zeroed statistics, got %+v", stats)
	}
}

func TestStatisticsAfterSynthesis(t *testing.T) {
	ctx := context.Background()
	svc := NewInMemoryService()
	seedScenario(t, svc)
	if _, err := svc.Synthesize(ctx, 100); err != nil {
		t.Fatalf("synthesize: %v", err)
	}

	stats, err := svc.Statistics(ctx)
	if err != nil {
		t.Fatalf("statistics: %v", err)
	}
	if stats.Analytes != 2 || stats.BioRecognitionLayers != 2 || stats.ImmobilizationLayers != 1 || stats.MemristiveLayers != 1 {
		t.Fatalf("unexpected catalog counts: %+v", stats)
	}
	if stats.Combinations != 3 {
		t.Fatalf("expected 3 combinations, got %+v", stats)
	}
	if stats.MeanScore <= 0 || stats.MeanScore > 1 {
		t.Fatalf("mean score outside unit interval: %+v", stats)
	}
}

func TestBestCombinationsOrderingAndTieBreak(t *testing.T) {
	ctx := context.Background()
	svc := NewInMemoryService()
	seedScenario(t, svc)

	// Insert combinations with controlled scores: two tied at the top.
	err := svc.Store().RunInTransaction(ctx, func(tx Transaction) error {
		for _, c := range []SensorCombination{
			{AnalyteID: "TAALPHA", BioRecognitionID: "BREGOX", ImmobilizationID: "IMCHITOSAN", MemristiveID: "MEMTIO2", Score: 0.9},
			{AnalyteID: "TABETA", BioRecognitionID: "BREGOX", ImmobilizationID: "IMCHITOSAN", MemristiveID: "MEMTIO2", Score: 0.9},
			{AnalyteID: "TAALPHA", BioRecognitionID: "BRELAC", ImmobilizationID: "IMCHITOSAN", MemristiveID: "MEMTIO2", Score: 0.4},
		} {
			if _, err := tx.CreateCombination(c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("seed combinations: %v", err)
	}

	best, err := svc.BestCombinations(ctx, 2)
	if err != nil {
		t.Fatalf("best combinations: %v", err)
	}
	if len(best) != 2 {
		t.Fatalf("expected 2 results, got %d", len(best))
	}
	if best[0].AnalyteID != "TAALPHA" || best[1].AnalyteID != "TABETA" {
		t.Fatalf("tie not broken by ascending key: %+v", best)
	}

	all, err := svc.BestCombinations(ctx, 10)
	if err != nil {
		t.Fatalf("best combinations: %v", err)
	}
	if len(all) != 3 || all[2].Score != 0.4 {
		t.Fatalf("expected full ranking ending at lowest score, got %+v", all)
	}

	if none, _ := svc.BestCombinations(ctx, 0); none != nil {
		t.Fatalf("expected nil result for zero limit, got %+v", none)
	}
}

func TestComparativeAnalysis(t *testing.T) {
	ctx := context.Background()
	svc := NewInMemoryService()
	seedScenario(t, svc)
	if _, err := svc.Synthesize(ctx, 100); err != nil {
		t.Fatalf("synthesize: %v", err)
	}

	entries, err := svc.ComparativeAnalysis(ctx)
	if err != nil {
		t.Fatalf("comparative analysis: %v", err)
	}
	if len(entries) != 4 {
		t.Fatalf("expected one entry per kind, got %d", len(entries))
	}
	byKind := make(map[ComponentKind]ComparativeEntry, len(entries))
	for _, entry := range entries {
		byKind[entry.Kind] = entry
	}

	// Both analytes and both recognition layers are referenced by the three
	// persisted combinations; TABETA|BRELAC failed compatibility but both of
	// its components appear in other accepted quadruples.
	if e := byKind[domain.KindAnalyte]; e.CatalogSize != 2 || e.ReferencedComponents != 2 {
		t.Fatalf("unexpected analyte entry: %+v", e)
	}
	if e := byKind[domain.KindBioRecognition]; e.ReferencedComponents != 2 || e.Metrics["sensitivity"] != 12000 {
		t.Fatalf("unexpected bio-recognition entry: %+v", e)
	}
	if e := byKind[domain.KindImmobilization]; e.Metrics["loss_coefficient"] != 0.15 {
		t.Fatalf("unexpected immobilization entry: %+v", e)
	}
	if e := byKind[domain.KindMemristive]; e.ReferencedComponents != 1 || e.Metrics["power_consumption"] != 5 {
		t.Fatalf("unexpected memristive entry: %+v", e)
	}
}

func TestComparativeAnalysisEmptyStore(t *testing.T) {
	svc := NewInMemoryService()
	entries, err := svc.ComparativeAnalysis(context.Background())
	if err != nil {
		t.Fatalf("comparative analysis: %v", err)
	}
	for _, entry := range entries {
		if entry.ReferencedComponents != 0 {
			t.Fatalf("expected no referenced components, got %+v", entry)
		}
		for key, value := range entry.Metrics {
			if value != 0 {
				t.Fatalf("expected zeroed metric %s, got %v", key, value)
			}
		}
	}
}
