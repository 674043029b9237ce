// Package core wires the sensor catalog, synthesis and analytics services
// on top of the domain model and the persistence backends.
package core

import "sensorcore/pkg/domain"

// Aliases re-export the domain schema so callers of the service layer do not
// need a second import for everyday types.
type (
	Analyte             = domain.Analyte
	BioRecognitionLayer = domain.BioRecognitionLayer
	ImmobilizationLayer = domain.ImmobilizationLayer
	MemristiveLayer     = domain.MemristiveLayer
	SensorCombination   = domain.SensorCombination
	ComponentKind       = domain.ComponentKind

	Transaction     = domain.Transaction
	TransactionView = domain.TransactionView
	PersistentStore = domain.PersistentStore
)
