package core

import (
	"context"
	"time"

	"sensorcore/internal/infra/persistence/memory"
)

// Service exposes transactional catalog operations plus the synthesis and
// analytics entry points. All collaborators are injected; there is no ambient
// state.
type Service struct {
	store   PersistentStore
	metrics MetricsRecorder
	tracer  Tracer
	audit   AuditRecorder
	clock   Clock
}

// NewService constructs a service backed by the supplied store.
func NewService(store PersistentStore, opts ...ServiceOption) *Service {
	options := serviceOptions{clock: systemClock{}}
	for _, opt := range opts {
		opt(&options)
	}
	return &Service{
		store:   store,
		metrics: options.metrics,
		tracer:  options.tracer,
		audit:   options.audit,
		clock:   options.clock,
	}
}

// NewInMemoryService creates a service with an ephemeral in-memory store.
func NewInMemoryService(opts ...ServiceOption) *Service {
	return NewService(memory.NewStore(), opts...)
}

// Store returns the underlying storage implementation.
func (s *Service) Store() PersistentStore {
	return s.store
}

// run wraps one service operation with tracing, metrics and audit recording.
// fn returns the id of the touched entity for the audit trail.
func (s *Service) run(ctx context.Context, operation string, fn func(context.Context) (string, error)) error {
	start := s.clock.Now()
	var span TraceSpan
	if s.tracer != nil {
		ctx, span = s.tracer.Start(ctx, operation)
	}
	entityID, err := fn(ctx)
	duration := s.clock.Now().Sub(start)
	if span != nil {
		span.End(err)
	}
	if s.metrics != nil {
		s.metrics.Observe(ctx, operation, err == nil, duration)
	}
	if err != nil {
		s.recordAuditError(ctx, operation, entityID, duration, err)
		return err
	}
	s.recordAuditSuccess(ctx, operation, entityID, duration)
	return nil
}

func (s *Service) recordAuditSuccess(ctx context.Context, operation, entityID string, duration time.Duration) {
	if s.audit == nil {
		return
	}
	desc, ok := auditCatalog[operation]
	if !ok {
		return
	}
	s.audit.Record(ctx, AuditEntry{
		Operation: operation,
		Entity:    desc.entity,
		Action:    desc.action,
		EntityID:  entityID,
		Status:    AuditStatusSuccess,
		Duration:  duration,
		Timestamp: s.clock.Now(),
	})
}

func (s *Service) recordAuditError(ctx context.Context, operation, entityID string, duration time.Duration, opErr error) {
	if s.audit == nil {
		return
	}
	desc, ok := auditCatalog[operation]
	if !ok {
		return
	}
	s.audit.Record(ctx, AuditEntry{
		Operation: operation,
		Entity:    desc.entity,
		Action:    desc.action,
		EntityID:  entityID,
		Status:    AuditStatusError,
		Error:     opErr.Error(),
		Duration:  duration,
		Timestamp: s.clock.Now(),
	})
}

// CreateAnalyte persists a new analyte record.
func (s *Service) CreateAnalyte(ctx context.Context, analyte Analyte) (Analyte, error) {
	var created Analyte
	err := s.run(ctx, "create_analyte", func(ctx context.Context) (string, error) {
		err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			created, err = tx.CreateAnalyte(analyte)
			return err
		})
		return created.ID, err
	})
	return created, err
}

// CreateBioRecognitionLayer persists a new bio-recognition layer record.
func (s *Service) CreateBioRecognitionLayer(ctx context.Context, layer BioRecognitionLayer) (BioRecognitionLayer, error) {
	var created BioRecognitionLayer
	err := s.run(ctx, "create_bio_recognition_layer", func(ctx context.Context) (string, error) {
		err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			created, err = tx.CreateBioRecognitionLayer(layer)
			return err
		})
		return created.ID, err
	})
	return created, err
}

// CreateImmobilizationLayer persists a new immobilization layer record.
func (s *Service) CreateImmobilizationLayer(ctx context.Context, layer ImmobilizationLayer) (ImmobilizationLayer, error) {
	var created ImmobilizationLayer
	err := s.run(ctx, "create_immobilization_layer", func(ctx context.Context) (string, error) {
		err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			created, err = tx.CreateImmobilizationLayer(layer)
			return err
		})
		return created.ID, err
	})
	return created, err
}

// CreateMemristiveLayer persists a new memristive layer record.
func (s *Service) CreateMemristiveLayer(ctx context.Context, layer MemristiveLayer) (MemristiveLayer, error) {
	var created MemristiveLayer
	err := s.run(ctx, "create_memristive_layer", func(ctx context.Context) (string, error) {
		err := s.store.RunInTransaction(ctx, func(tx Transaction) error {
			var err error
			created, err = tx.CreateMemristiveLayer(layer)
			return err
		})
		return created.ID, err
	})
	return created, err
}

// Page bounds a listing request. A zero Limit returns the full remainder.
type Page struct {
	Limit  int
	Offset int
}

func paginate[T any](items []T, page Page) []T {
	if page.Offset < 0 {
		page.Offset = 0
	}
	if page.Offset >= len(items) {
		return nil
	}
	items = items[page.Offset:]
	if page.Limit > 0 && page.Limit < len(items) {
		items = items[:page.Limit]
	}
	out := make([]T, len(items))
	copy(out, items)
	return out
}

// ListAnalytes returns analytes ordered by id.
func (s *Service) ListAnalytes(page Page) []Analyte {
	return paginate(s.store.ListAnalytes(), page)
}

// ListBioRecognitionLayers returns bio-recognition layers ordered by id.
func (s *Service) ListBioRecognitionLayers(page Page) []BioRecognitionLayer {
	return paginate(s.store.ListBioRecognitionLayers(), page)
}

// ListImmobilizationLayers returns immobilization layers ordered by id.
func (s *Service) ListImmobilizationLayers(page Page) []ImmobilizationLayer {
	return paginate(s.store.ListImmobilizationLayers(), page)
}

// ListMemristiveLayers returns memristive layers ordered by id.
func (s *Service) ListMemristiveLayers(page Page) []MemristiveLayer {
	return paginate(s.store.ListMemristiveLayers(), page)
}

// ListCombinations returns persisted combinations ordered by quadruple key.
func (s *Service) ListCombinations(page Page) []SensorCombination {
	return paginate(s.store.ListCombinations(), page)
}

// CountComponents reports the catalog size for one component kind.
func (s *Service) CountComponents(kind ComponentKind) int {
	return s.store.CountComponents(kind)
}

// CountCombinations reports the number of persisted combinations.
func (s *Service) CountCombinations() int {
	return s.store.CountCombinations()
}
