// Package domain defines the sensor-component entities, value types, and the
// pure compatibility and scoring logic used by sensorcore.
package domain

import (
	"fmt"
	"time"
)

// ComponentKind identifies one of the four component catalogs.
type ComponentKind string

// Supported catalog kinds used in persistence buckets and analytics keys.
const (
	// KindAnalyte identifies a target-analyte record.
	KindAnalyte ComponentKind = "analyte"
	// KindBioRecognition identifies a bio-recognition layer record.
	KindBioRecognition ComponentKind = "bio_recognition"
	// KindImmobilization identifies an immobilization layer record.
	KindImmobilization ComponentKind = "immobilization"
	// KindMemristive identifies a memristive transducer layer record.
	KindMemristive ComponentKind = "memristive"
)

// Kinds lists all catalog kinds in canonical order.
func Kinds() []ComponentKind {
	return []ComponentKind{KindAnalyte, KindBioRecognition, KindImmobilization, KindMemristive}
}

// Adhesion grades how well an immobilization matrix bonds to the transducer.
type Adhesion string

// Adhesion grades accepted by the immobilization schema.
const (
	AdhesionWeak      Adhesion = "weak"
	AdhesionGood      Adhesion = "good"
	AdhesionExcellent Adhesion = "excellent"
)

// Solubility classifies the immobilization matrix against aqueous media.
type Solubility string

// Solubility classes accepted by the immobilization schema.
const (
	SolubilityWater     Solubility = "water-soluble"
	SolubilityOrganic   Solubility = "organic"
	SolubilityInsoluble Solubility = "insoluble"
)

// Range is a closed numeric interval. A single-point range (Min == Max) is
// valid and intersects normally.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Empty reports whether the interval contains no points.
func (r Range) Empty() bool { return r.Min > r.Max }

// Intersect narrows the interval to its overlap with other.
func (r Range) Intersect(other Range) Range {
	out := r
	if other.Min > out.Min {
		out.Min = other.Min
	}
	if other.Max < out.Max {
		out.Max = other.Max
	}
	return out
}

// Analyte is a target substance the assembled sensor must detect. Unlike the
// layer records it carries only an upper operating temperature bound.
type Analyte struct {
	ID               string    `json:"ta_id"`
	Name             string    `json:"ta_name"`
	PHMin            float64   `json:"ph_min"`
	PHMax            float64   `json:"ph_max"`
	TMax             int       `json:"t_max"`
	Stability        int       `json:"stability"`
	HalfLife         int       `json:"half_life"`
	PowerConsumption int       `json:"power_consumption"`
	CreatedAt        time.Time `json:"created_at"`
}

// PHRange returns the analyte's operating pH interval.
func (a Analyte) PHRange() Range { return Range{Min: a.PHMin, Max: a.PHMax} }

// BioRecognitionLayer is the biological recognition element (enzyme,
// antibody, aptamer) of a sensor stack.
type BioRecognitionLayer struct {
	ID               string    `json:"bre_id"`
	Name             string    `json:"bre_name"`
	PHMin            float64   `json:"ph_min"`
	PHMax            float64   `json:"ph_max"`
	TMin             int       `json:"t_min"`
	TMax             int       `json:"t_max"`
	DRMin            float64   `json:"dr_min"`
	DRMax            float64   `json:"dr_max"`
	Sensitivity      int       `json:"sensitivity"`
	Reproducibility  int       `json:"reproducibility"`
	ResponseTime     int       `json:"response_time"`
	Stability        int       `json:"stability"`
	LOD              int       `json:"lod"`
	Durability       int       `json:"durability"`
	PowerConsumption int       `json:"power_consumption"`
	CreatedAt        time.Time `json:"created_at"`
}

// PHRange returns the layer's operating pH interval.
func (b BioRecognitionLayer) PHRange() Range { return Range{Min: b.PHMin, Max: b.PHMax} }

// TemperatureRange returns the layer's operating temperature interval.
func (b BioRecognitionLayer) TemperatureRange() Range {
	return Range{Min: float64(b.TMin), Max: float64(b.TMax)}
}

// DynamicRange returns the layer's detectable concentration interval.
func (b BioRecognitionLayer) DynamicRange() Range { return Range{Min: b.DRMin, Max: b.DRMax} }

// ImmobilizationLayer fixes the recognition element onto the transducer.
type ImmobilizationLayer struct {
	ID               string     `json:"im_id"`
	Name             string     `json:"im_name"`
	PHMin            float64    `json:"ph_min"`
	PHMax            float64    `json:"ph_max"`
	TMin             int        `json:"t_min"`
	TMax             int        `json:"t_max"`
	YoungModulus     int        `json:"young_modulus"`
	Adhesion         Adhesion   `json:"adhesion"`
	Solubility       Solubility `json:"solubility"`
	LossCoefficient  float64    `json:"loss_coefficient"`
	Reproducibility  int        `json:"reproducibility"`
	ResponseTime     int        `json:"response_time"`
	Stability        int        `json:"stability"`
	Durability       int        `json:"durability"`
	PowerConsumption int        `json:"power_consumption"`
	CreatedAt        time.Time  `json:"created_at"`
}

// PHRange returns the layer's operating pH interval.
func (i ImmobilizationLayer) PHRange() Range { return Range{Min: i.PHMin, Max: i.PHMax} }

// TemperatureRange returns the layer's operating temperature interval.
func (i ImmobilizationLayer) TemperatureRange() Range {
	return Range{Min: float64(i.TMin), Max: float64(i.TMax)}
}

// MemristiveLayer is the memristive transducer converting the recognition
// event into a resistance change.
type MemristiveLayer struct {
	ID               string    `json:"mem_id"`
	Name             string    `json:"mem_name"`
	PHMin            float64   `json:"ph_min"`
	PHMax            float64   `json:"ph_max"`
	TMin             int       `json:"t_min"`
	TMax             int       `json:"t_max"`
	DRMin            float64   `json:"dr_min"`
	DRMax            float64   `json:"dr_max"`
	YoungModulus     int       `json:"young_modulus"`
	Sensitivity      int       `json:"sensitivity"`
	Reproducibility  int       `json:"reproducibility"`
	ResponseTime     int       `json:"response_time"`
	Stability        int       `json:"stability"`
	LOD              int       `json:"lod"`
	Durability       int       `json:"durability"`
	PowerConsumption int       `json:"power_consumption"`
	CreatedAt        time.Time `json:"created_at"`
}

// PHRange returns the layer's operating pH interval.
func (m MemristiveLayer) PHRange() Range { return Range{Min: m.PHMin, Max: m.PHMax} }

// TemperatureRange returns the layer's operating temperature interval.
func (m MemristiveLayer) TemperatureRange() Range {
	return Range{Min: float64(m.TMin), Max: float64(m.TMax)}
}

// DynamicRange returns the layer's detectable concentration interval.
func (m MemristiveLayer) DynamicRange() Range { return Range{Min: m.DRMin, Max: m.DRMax} }

// SensorCombination is a compatibility-passing, scored quadruple of component
// ids. It is created only by the synthesis orchestrator and never mutated.
type SensorCombination struct {
	AnalyteID        string    `json:"analyte_id"`
	BioRecognitionID string    `json:"bre_id"`
	ImmobilizationID string    `json:"im_id"`
	MemristiveID     string    `json:"mem_id"`
	Score            float64   `json:"score"`
	CreatedAt        time.Time `json:"created_at"`
}

// Key returns the composite primary key of the quadruple. Component ids carry
// family prefixes and never contain '|'.
func (c SensorCombination) Key() string {
	return CombinationKey(c.AnalyteID, c.BioRecognitionID, c.ImmobilizationID, c.MemristiveID)
}

// CombinationKey builds the composite key for a candidate quadruple.
func CombinationKey(analyteID, breID, imID, memID string) string {
	return fmt.Sprintf("%s|%s|%s|%s", analyteID, breID, imID, memID)
}
