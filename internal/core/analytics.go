package core

import (
	"context"
	"sort"

	"sensorcore/pkg/domain"
)

// Statistics summarizes catalog sizes and the persisted combination set.
type Statistics struct {
	Analytes             int     `json:"analytes"`
	BioRecognitionLayers int     `json:"bio_recognition_layers"`
	ImmobilizationLayers int     `json:"immobilization_layers"`
	MemristiveLayers     int     `json:"memristive_layers"`
	Combinations         int     `json:"combinations"`
	MeanScore            float64 `json:"mean_score"`
}

// ComparativeEntry aggregates attribute means for one catalog kind over the
// components referenced by at least one persisted combination.
type ComparativeEntry struct {
	Kind                 ComponentKind      `json:"kind"`
	CatalogSize          int                `json:"catalog_size"`
	ReferencedComponents int                `json:"referenced_components"`
	Metrics              map[string]float64 `json:"metrics"`
}

// Statistics computes aggregate counts and the mean combination score from a
// consistent snapshot. An empty store yields zeroed values, never an error.
func (s *Service) Statistics(ctx context.Context) (Statistics, error) {
	var stats Statistics
	err := s.store.View(ctx, func(view TransactionView) error {
		stats.Analytes = len(view.ListAnalytes())
		stats.BioRecognitionLayers = len(view.ListBioRecognitionLayers())
		stats.ImmobilizationLayers = len(view.ListImmobilizationLayers())
		stats.MemristiveLayers = len(view.ListMemristiveLayers())
		combos := view.ListCombinations()
		stats.Combinations = len(combos)
		if len(combos) == 0 {
			return nil
		}
		var total float64
		for _, c := range combos {
			total += c.Score
		}
		stats.MeanScore = total / float64(len(combos))
		return nil
	})
	return stats, err
}

// BestCombinations returns the top combinations by score descending, ties
// broken by ascending quadruple key.
func (s *Service) BestCombinations(ctx context.Context, limit int) ([]SensorCombination, error) {
	if limit <= 0 {
		return nil, nil
	}
	var combos []SensorCombination
	if err := s.store.View(ctx, func(view TransactionView) error {
		combos = view.ListCombinations()
		return nil
	}); err != nil {
		return nil, err
	}
	sort.Slice(combos, func(i, j int) bool {
		if combos[i].Score != combos[j].Score {
			return combos[i].Score > combos[j].Score
		}
		return combos[i].Key() < combos[j].Key()
	})
	if limit < len(combos) {
		combos = combos[:limit]
	}
	return combos, nil
}

// ComparativeAnalysis computes per-kind attribute means over the components
// referenced by persisted combinations. Kinds whose referenced set is empty
// report zeroed metrics.
func (s *Service) ComparativeAnalysis(ctx context.Context) ([]ComparativeEntry, error) {
	var entries []ComparativeEntry
	err := s.store.View(ctx, func(view TransactionView) error {
		combos := view.ListCombinations()
		referenced := make(map[ComponentKind]map[string]struct{}, 4)
		for _, kind := range domain.Kinds() {
			referenced[kind] = make(map[string]struct{})
		}
		for _, c := range combos {
			referenced[domain.KindAnalyte][c.AnalyteID] = struct{}{}
			referenced[domain.KindBioRecognition][c.BioRecognitionID] = struct{}{}
			referenced[domain.KindImmobilization][c.ImmobilizationID] = struct{}{}
			referenced[domain.KindMemristive][c.MemristiveID] = struct{}{}
		}

		analytes := view.ListAnalytes()
		entry := ComparativeEntry{Kind: domain.KindAnalyte, CatalogSize: len(analytes)}
		agg := newMeanAggregator("stability", "half_life", "power_consumption")
		for _, a := range analytes {
			if _, ok := referenced[domain.KindAnalyte][a.ID]; !ok {
				continue
			}
			entry.ReferencedComponents++
			agg.add("stability", float64(a.Stability))
			agg.add("half_life", float64(a.HalfLife))
			agg.add("power_consumption", float64(a.PowerConsumption))
		}
		entry.Metrics = agg.means()
		entries = append(entries, entry)

		bres := view.ListBioRecognitionLayers()
		entry = ComparativeEntry{Kind: domain.KindBioRecognition, CatalogSize: len(bres)}
		agg = newMeanAggregator("sensitivity", "reproducibility", "response_time", "stability", "power_consumption")
		for _, b := range bres {
			if _, ok := referenced[domain.KindBioRecognition][b.ID]; !ok {
				continue
			}
			entry.ReferencedComponents++
			agg.add("sensitivity", float64(b.Sensitivity))
			agg.add("reproducibility", float64(b.Reproducibility))
			agg.add("response_time", float64(b.ResponseTime))
			agg.add("stability", float64(b.Stability))
			agg.add("power_consumption", float64(b.PowerConsumption))
		}
		entry.Metrics = agg.means()
		entries = append(entries, entry)

		ims := view.ListImmobilizationLayers()
		entry = ComparativeEntry{Kind: domain.KindImmobilization, CatalogSize: len(ims)}
		agg = newMeanAggregator("reproducibility", "response_time", "stability", "loss_coefficient", "power_consumption")
		for _, i := range ims {
			if _, ok := referenced[domain.KindImmobilization][i.ID]; !ok {
				continue
			}
			entry.ReferencedComponents++
			agg.add("reproducibility", float64(i.Reproducibility))
			agg.add("response_time", float64(i.ResponseTime))
			agg.add("stability", float64(i.Stability))
			agg.add("loss_coefficient", i.LossCoefficient)
			agg.add("power_consumption", float64(i.PowerConsumption))
		}
		entry.Metrics = agg.means()
		entries = append(entries, entry)

		mems := view.ListMemristiveLayers()
		entry = ComparativeEntry{Kind: domain.KindMemristive, CatalogSize: len(mems)}
		agg = newMeanAggregator("sensitivity", "reproducibility", "response_time", "stability", "power_consumption")
		for _, m := range mems {
			if _, ok := referenced[domain.KindMemristive][m.ID]; !ok {
				continue
			}
			entry.ReferencedComponents++
			agg.add("sensitivity", float64(m.Sensitivity))
			agg.add("reproducibility", float64(m.Reproducibility))
			agg.add("response_time", float64(m.ResponseTime))
			agg.add("stability", float64(m.Stability))
			agg.add("power_consumption", float64(m.PowerConsumption))
		}
		entry.Metrics = agg.means()
		entries = append(entries, entry)
		return nil
	})
	return entries, err
}

type meanAggregator struct {
	keys   []string
	totals map[string]float64
	counts map[string]int
}

func newMeanAggregator(keys ...string) *meanAggregator {
	return &meanAggregator{
		keys:   keys,
		totals: make(map[string]float64, len(keys)),
		counts: make(map[string]int, len(keys)),
	}
}

func (a *meanAggregator) add(key string, value float64) {
	a.totals[key] += value
	a.counts[key]++
}

func (a *meanAggregator) means() map[string]float64 {
	out := make(map[string]float64, len(a.keys))
	for _, key := range a.keys {
		if n := a.counts[key]; n > 0 {
			out[key] = a.totals[key] / float64(n)
		} else {
			out[key] = 0
		}
	}
	return out
}
