package core

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"sensorcore/pkg/domain"
)

// Synthesis budget bounds. The budget caps candidates checked in one run; it
// is the sole bounding mechanism, there is no timeout-based abort.
const (
	DefaultSynthesisBudget = 10000
	MaxSynthesisBudget     = 50000
)

// SynthesisResult reports the work done by one synthesis run. Checked counts
// every candidate quadruple examined, including those skipped because their
// key was already stored. Created counts newly persisted combinations.
type SynthesisResult struct {
	Checked int `json:"checked"`
	Created int `json:"created"`
}

// SynthesizerOption configures a Synthesizer.
type SynthesizerOption func(*Synthesizer)

// WithSynthesisWorkers sets the number of concurrent evaluation workers.
// Values below 2 select the sequential path. With workers the enumeration
// order of persisted rows is not deterministic, but the resulting set and all
// scores are; the checked total stays bounded by the budget because candidates
// are counted at dispatch.
func WithSynthesisWorkers(n int) SynthesizerOption {
	return func(s *Synthesizer) { s.workers = n }
}

// Synthesizer drives bounded enumeration of candidate quadruples: one
// component from each catalog, filtered through the compatibility predicate,
// scored, and persisted when new. Candidates are never materialized as a full
// cross-product; the nested walk stops as soon as the budget is spent.
type Synthesizer struct {
	store   PersistentStore
	workers int
}

// NewSynthesizer constructs a synthesizer over the given store.
func NewSynthesizer(store PersistentStore, opts ...SynthesizerOption) *Synthesizer {
	s := &Synthesizer{store: store, workers: 1}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type candidate struct {
	analyte Analyte
	bre     BioRecognitionLayer
	im      ImmobilizationLayer
	mem     MemristiveLayer
}

// Synthesize enumerates candidates in deterministic nested order (analytes
// outermost, then bio-recognition, immobilization and memristive layers, each
// by ascending id) until the budget is spent or the cross-product is
// exhausted. A storage failure aborts the run; combinations committed before
// the failure remain persisted.
func (s *Synthesizer) Synthesize(ctx context.Context, budget int) (SynthesisResult, error) {
	if budget <= 0 {
		budget = DefaultSynthesisBudget
	}
	var analytes []Analyte
	var bres []BioRecognitionLayer
	var ims []ImmobilizationLayer
	var mems []MemristiveLayer
	if err := s.store.View(ctx, func(view TransactionView) error {
		analytes = view.ListAnalytes()
		bres = view.ListBioRecognitionLayers()
		ims = view.ListImmobilizationLayers()
		mems = view.ListMemristiveLayers()
		return nil
	}); err != nil {
		return SynthesisResult{}, err
	}
	if len(analytes) == 0 || len(bres) == 0 || len(ims) == 0 || len(mems) == 0 {
		return SynthesisResult{}, nil
	}
	if s.workers > 1 {
		return s.synthesizeConcurrent(ctx, budget, analytes, bres, ims, mems)
	}
	return s.synthesizeSequential(ctx, budget, analytes, bres, ims, mems)
}

func (s *Synthesizer) synthesizeSequential(ctx context.Context, budget int, analytes []Analyte, bres []BioRecognitionLayer, ims []ImmobilizationLayer, mems []MemristiveLayer) (SynthesisResult, error) {
	var result SynthesisResult
	for _, a := range analytes {
		for _, b := range bres {
			for _, i := range ims {
				for _, m := range mems {
					if result.Checked == budget {
						return result, nil
					}
					result.Checked++
					created, err := s.evaluate(ctx, candidate{analyte: a, bre: b, im: i, mem: m})
					if err != nil {
						return result, err
					}
					if created {
						result.Created++
					}
				}
			}
		}
	}
	return result, nil
}

func (s *Synthesizer) synthesizeConcurrent(ctx context.Context, budget int, analytes []Analyte, bres []BioRecognitionLayer, ims []ImmobilizationLayer, mems []MemristiveLayer) (SynthesisResult, error) {
	candidates := make(chan candidate)
	var checked, created int64
	var wg sync.WaitGroup
	var failMu sync.Mutex
	var failure error

	abort := make(chan struct{})
	var abortOnce sync.Once
	fail := func(err error) {
		failMu.Lock()
		if failure == nil {
			failure = err
		}
		failMu.Unlock()
		abortOnce.Do(func() { close(abort) })
	}

	for w := 0; w < s.workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for cand := range candidates {
				ok, err := s.evaluate(ctx, cand)
				if err != nil {
					fail(err)
					continue
				}
				if ok {
					atomic.AddInt64(&created, 1)
				}
			}
		}()
	}

dispatch:
	for _, a := range analytes {
		for _, b := range bres {
			for _, i := range ims {
				for _, m := range mems {
					if atomic.LoadInt64(&checked) == int64(budget) {
						break dispatch
					}
					select {
					case <-abort:
						break dispatch
					case candidates <- candidate{analyte: a, bre: b, im: i, mem: m}:
						atomic.AddInt64(&checked, 1)
					}
				}
			}
		}
	}
	close(candidates)
	wg.Wait()

	result := SynthesisResult{Checked: int(atomic.LoadInt64(&checked)), Created: int(atomic.LoadInt64(&created))}
	failMu.Lock()
	err := failure
	failMu.Unlock()
	return result, err
}

// evaluate processes one candidate: skip if the quadruple key is already
// stored, otherwise run the compatibility predicate, score, and insert. Each
// accepted candidate commits in its own transaction so progress survives a
// later batch abort. Duplicate-key conflicts from a concurrent run are benign.
func (s *Synthesizer) evaluate(ctx context.Context, cand candidate) (bool, error) {
	key := domain.CombinationKey(cand.analyte.ID, cand.bre.ID, cand.im.ID, cand.mem.ID)
	if s.store.HasCombination(key) {
		return false, nil
	}
	if !domain.Compatible(cand.analyte, cand.bre, cand.im, cand.mem) {
		return false, nil
	}
	score := domain.Score(cand.analyte, cand.bre, cand.im, cand.mem)
	err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
		_, err := tx.CreateCombination(SensorCombination{
			AnalyteID:        cand.analyte.ID,
			BioRecognitionID: cand.bre.ID,
			ImmobilizationID: cand.im.ID,
			MemristiveID:     cand.mem.ID,
			Score:            score,
		})
		return err
	})
	if errors.Is(err, domain.ErrDuplicateCombination) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Synthesize runs a bounded synthesis batch through the service, recording
// metrics and audit entries like any other operation.
func (s *Service) Synthesize(ctx context.Context, budget int, opts ...SynthesizerOption) (SynthesisResult, error) {
	var result SynthesisResult
	err := s.run(ctx, "synthesize_combinations", func(ctx context.Context) (string, error) {
		var err error
		result, err = NewSynthesizer(s.store, opts...).Synthesize(ctx, budget)
		return "", err
	})
	if rec, ok := s.metrics.(interface{ ObserveSynthesis(checked, created int) }); ok {
		rec.ObserveSynthesis(result.Checked, result.Created)
	}
	return result, err
}
