// Package memory provides an in-memory implementation of the sensorcore
// persistence store used for tests and ephemeral environments.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"sensorcore/pkg/domain"
)

// Compile-time contract assertion ensuring memory.Store adheres to the domain
// persistence interface.
var _ domain.PersistentStore = (*Store)(nil)

type state struct {
	analytes       map[string]domain.Analyte
	bioRecognition map[string]domain.BioRecognitionLayer
	immobilization map[string]domain.ImmobilizationLayer
	memristive     map[string]domain.MemristiveLayer
	combinations   map[string]domain.SensorCombination
}

func newState() state {
	return state{
		analytes:       make(map[string]domain.Analyte),
		bioRecognition: make(map[string]domain.BioRecognitionLayer),
		immobilization: make(map[string]domain.ImmobilizationLayer),
		memristive:     make(map[string]domain.MemristiveLayer),
		combinations:   make(map[string]domain.SensorCombination),
	}
}

func (s state) clone() state {
	out := newState()
	for k, v := range s.analytes {
		out.analytes[k] = v
	}
	for k, v := range s.bioRecognition {
		out.bioRecognition[k] = v
	}
	for k, v := range s.immobilization {
		out.immobilization[k] = v
	}
	for k, v := range s.memristive {
		out.memristive[k] = v
	}
	for k, v := range s.combinations {
		out.combinations[k] = v
	}
	return out
}

// Snapshot captures a point-in-time copy of the store state for durable
// backends and archival.
type Snapshot struct {
	Analytes       map[string]domain.Analyte             `json:"analytes"`
	BioRecognition map[string]domain.BioRecognitionLayer `json:"bio_recognition"`
	Immobilization map[string]domain.ImmobilizationLayer `json:"immobilization"`
	Memristive     map[string]domain.MemristiveLayer     `json:"memristive"`
	Combinations   map[string]domain.SensorCombination   `json:"combinations"`
}

// Store is an in-memory transactional store. Transactions mutate a cloned
// state that replaces the committed state only when the transaction function
// returns nil; readers always observe committed state.
type Store struct {
	mu    sync.RWMutex
	state state
	nowFn func() time.Time
}

// NewStore constructs an empty in-memory store.
func NewStore() *Store {
	return &Store{
		state: newState(),
		nowFn: func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the timestamp source. Intended for tests.
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if now != nil {
		s.nowFn = now
	}
}

// Transaction is a mutation set applied atomically to the store state.
type Transaction struct {
	state state
	now   time.Time
}

var _ domain.Transaction = (*Transaction)(nil)

// RunInTransaction executes fn within a transactional copy of the store state.
func (s *Store) RunInTransaction(_ context.Context, fn func(domain.Transaction) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Transaction{state: s.state.clone(), now: s.nowFn()}
	if err := fn(tx); err != nil {
		return err
	}
	s.state = tx.state
	return nil
}

// View executes fn against a read-only snapshot of committed state.
func (s *Store) View(_ context.Context, fn func(domain.TransactionView) error) error {
	s.mu.RLock()
	snapshot := s.state.clone()
	s.mu.RUnlock()
	return fn(view{state: &snapshot})
}

// CreateAnalyte validates and stores a new analyte.
func (tx *Transaction) CreateAnalyte(a domain.Analyte) (domain.Analyte, error) {
	if err := a.Validate(); err != nil {
		return domain.Analyte{}, err
	}
	if _, exists := tx.state.analytes[a.ID]; exists {
		return domain.Analyte{}, domain.ConflictError{Kind: domain.KindAnalyte, ID: a.ID}
	}
	a.CreatedAt = tx.now
	tx.state.analytes[a.ID] = a
	return a, nil
}

// CreateBioRecognitionLayer validates and stores a new recognition layer.
func (tx *Transaction) CreateBioRecognitionLayer(b domain.BioRecognitionLayer) (domain.BioRecognitionLayer, error) {
	if err := b.Validate(); err != nil {
		return domain.BioRecognitionLayer{}, err
	}
	if _, exists := tx.state.bioRecognition[b.ID]; exists {
		return domain.BioRecognitionLayer{}, domain.ConflictError{Kind: domain.KindBioRecognition, ID: b.ID}
	}
	b.CreatedAt = tx.now
	tx.state.bioRecognition[b.ID] = b
	return b, nil
}

// CreateImmobilizationLayer validates and stores a new immobilization layer.
func (tx *Transaction) CreateImmobilizationLayer(i domain.ImmobilizationLayer) (domain.ImmobilizationLayer, error) {
	if err := i.Validate(); err != nil {
		return domain.ImmobilizationLayer{}, err
	}
	if _, exists := tx.state.immobilization[i.ID]; exists {
		return domain.ImmobilizationLayer{}, domain.ConflictError{Kind: domain.KindImmobilization, ID: i.ID}
	}
	i.CreatedAt = tx.now
	tx.state.immobilization[i.ID] = i
	return i, nil
}

// CreateMemristiveLayer validates and stores a new memristive layer.
func (tx *Transaction) CreateMemristiveLayer(m domain.MemristiveLayer) (domain.MemristiveLayer, error) {
	if err := m.Validate(); err != nil {
		return domain.MemristiveLayer{}, err
	}
	if _, exists := tx.state.memristive[m.ID]; exists {
		return domain.MemristiveLayer{}, domain.ConflictError{Kind: domain.KindMemristive, ID: m.ID}
	}
	m.CreatedAt = tx.now
	tx.state.memristive[m.ID] = m
	return m, nil
}

// CreateCombination stores a scored quadruple. The composite key is the
// primary key: an existing key yields domain.ErrDuplicateCombination, and all
// four referenced components must exist.
func (tx *Transaction) CreateCombination(c domain.SensorCombination) (domain.SensorCombination, error) {
	key := c.Key()
	if _, exists := tx.state.combinations[key]; exists {
		return domain.SensorCombination{}, domain.ErrDuplicateCombination
	}
	if _, ok := tx.state.analytes[c.AnalyteID]; !ok {
		return domain.SensorCombination{}, domain.NotFoundError{Kind: domain.KindAnalyte, ID: c.AnalyteID}
	}
	if _, ok := tx.state.bioRecognition[c.BioRecognitionID]; !ok {
		return domain.SensorCombination{}, domain.NotFoundError{Kind: domain.KindBioRecognition, ID: c.BioRecognitionID}
	}
	if _, ok := tx.state.immobilization[c.ImmobilizationID]; !ok {
		return domain.SensorCombination{}, domain.NotFoundError{Kind: domain.KindImmobilization, ID: c.ImmobilizationID}
	}
	if _, ok := tx.state.memristive[c.MemristiveID]; !ok {
		return domain.SensorCombination{}, domain.NotFoundError{Kind: domain.KindMemristive, ID: c.MemristiveID}
	}
	c.CreatedAt = tx.now
	tx.state.combinations[key] = c
	return c, nil
}

// HasCombination reports whether the quadruple key exists in the transaction
// state.
func (tx *Transaction) HasCombination(key string) bool {
	_, ok := tx.state.combinations[key]
	return ok
}

type view struct {
	state *state
}

var _ domain.TransactionView = view{}

func (v view) ListAnalytes() []domain.Analyte { return sortedAnalytes(v.state.analytes) }
func (v view) ListBioRecognitionLayers() []domain.BioRecognitionLayer {
	return sortedBioRecognition(v.state.bioRecognition)
}
func (v view) ListImmobilizationLayers() []domain.ImmobilizationLayer {
	return sortedImmobilization(v.state.immobilization)
}
func (v view) ListMemristiveLayers() []domain.MemristiveLayer {
	return sortedMemristive(v.state.memristive)
}
func (v view) ListCombinations() []domain.SensorCombination {
	return sortedCombinations(v.state.combinations)
}

// Committed-state read helpers --------------------------------------------

// ListAnalytes returns all analytes ordered by ascending id.
func (s *Store) ListAnalytes() []domain.Analyte {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedAnalytes(s.state.analytes)
}

// ListBioRecognitionLayers returns all recognition layers ordered by id.
func (s *Store) ListBioRecognitionLayers() []domain.BioRecognitionLayer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedBioRecognition(s.state.bioRecognition)
}

// ListImmobilizationLayers returns all immobilization layers ordered by id.
func (s *Store) ListImmobilizationLayers() []domain.ImmobilizationLayer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedImmobilization(s.state.immobilization)
}

// ListMemristiveLayers returns all memristive layers ordered by id.
func (s *Store) ListMemristiveLayers() []domain.MemristiveLayer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedMemristive(s.state.memristive)
}

// ListCombinations returns all persisted combinations ordered by composite key.
func (s *Store) ListCombinations() []domain.SensorCombination {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedCombinations(s.state.combinations)
}

// HasCombination reports whether the quadruple key is committed.
func (s *Store) HasCombination(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.state.combinations[key]
	return ok
}

// CountComponents returns the committed record count for one catalog kind.
func (s *Store) CountComponents(kind domain.ComponentKind) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch kind {
	case domain.KindAnalyte:
		return len(s.state.analytes)
	case domain.KindBioRecognition:
		return len(s.state.bioRecognition)
	case domain.KindImmobilization:
		return len(s.state.immobilization)
	case domain.KindMemristive:
		return len(s.state.memristive)
	default:
		return 0
	}
}

// CountCombinations returns the committed combination count.
func (s *Store) CountCombinations() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.state.combinations)
}

// ExportState returns a deep copy of committed state for durable backends.
func (s *Store) ExportState() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cloned := s.state.clone()
	return Snapshot{
		Analytes:       cloned.analytes,
		BioRecognition: cloned.bioRecognition,
		Immobilization: cloned.immobilization,
		Memristive:     cloned.memristive,
		Combinations:   cloned.combinations,
	}
}

// ImportState replaces committed state with the snapshot contents. Nil maps
// hydrate as empty buckets.
func (s *Store) ImportState(snapshot Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next := newState()
	for k, v := range snapshot.Analytes {
		next.analytes[k] = v
	}
	for k, v := range snapshot.BioRecognition {
		next.bioRecognition[k] = v
	}
	for k, v := range snapshot.Immobilization {
		next.immobilization[k] = v
	}
	for k, v := range snapshot.Memristive {
		next.memristive[k] = v
	}
	for k, v := range snapshot.Combinations {
		next.combinations[k] = v
	}
	s.state = next
}

func sortedAnalytes(in map[string]domain.Analyte) []domain.Analyte {
	out := make([]domain.Analyte, 0, len(in))
	for _, v := range in {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedBioRecognition(in map[string]domain.BioRecognitionLayer) []domain.BioRecognitionLayer {
	out := make([]domain.BioRecognitionLayer, 0, len(in))
	for _, v := range in {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedImmobilization(in map[string]domain.ImmobilizationLayer) []domain.ImmobilizationLayer {
	out := make([]domain.ImmobilizationLayer, 0, len(in))
	for _, v := range in {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedMemristive(in map[string]domain.MemristiveLayer) []domain.MemristiveLayer {
	out := make([]domain.MemristiveLayer, 0, len(in))
	for _, v := range in {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortedCombinations(in map[string]domain.SensorCombination) []domain.SensorCombination {
	out := make([]domain.SensorCombination, 0, len(in))
	for _, v := range in {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key() < out[j].Key() })
	return out
}
