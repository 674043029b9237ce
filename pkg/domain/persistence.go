package domain

import (
	"context"
	"errors"
	"fmt"
)

// ErrDuplicateCombination is returned when a combination insert hits an
// existing quadruple key. Callers treat it as "already exists", not a failure.
var ErrDuplicateCombination = errors.New("sensor combination already exists")

// ConflictError reports a component create colliding with an existing id.
type ConflictError struct {
	Kind ComponentKind
	ID   string
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Kind, e.ID)
}

// NotFoundError reports a reference to a component id that is not stored.
type NotFoundError struct {
	Kind ComponentKind
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// Transaction exposes the mutations a persistence implementation must support
// within an atomic scope. Component records are validated on create and never
// mutated afterwards.
type Transaction interface {
	CreateAnalyte(Analyte) (Analyte, error)
	CreateBioRecognitionLayer(BioRecognitionLayer) (BioRecognitionLayer, error)
	CreateImmobilizationLayer(ImmobilizationLayer) (ImmobilizationLayer, error)
	CreateMemristiveLayer(MemristiveLayer) (MemristiveLayer, error)
	// CreateCombination enforces the quadruple-key uniqueness invariant and
	// returns ErrDuplicateCombination on conflict.
	CreateCombination(SensorCombination) (SensorCombination, error)
	HasCombination(key string) bool
}

// TransactionView provides read-only access to a consistent snapshot of
// committed state. All listings are ordered by ascending primary id.
type TransactionView interface {
	ListAnalytes() []Analyte
	ListBioRecognitionLayers() []BioRecognitionLayer
	ListImmobilizationLayers() []ImmobilizationLayer
	ListMemristiveLayers() []MemristiveLayer
	ListCombinations() []SensorCombination
}

// PersistentStore is the minimal abstraction over durable backends. Reads
// observe committed state only and may run concurrently with an in-flight
// transaction.
type PersistentStore interface {
	RunInTransaction(ctx context.Context, fn func(Transaction) error) error
	View(ctx context.Context, fn func(TransactionView) error) error
	ListAnalytes() []Analyte
	ListBioRecognitionLayers() []BioRecognitionLayer
	ListImmobilizationLayers() []ImmobilizationLayer
	ListMemristiveLayers() []MemristiveLayer
	ListCombinations() []SensorCombination
	HasCombination(key string) bool
	CountComponents(kind ComponentKind) int
	CountCombinations() int
}
