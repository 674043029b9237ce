package domain

import (
	"fmt"
	"regexp"
)

// Declared schema bounds for component attributes. Records are validated once
// at construction; downstream consumers (compatibility, scoring) trust them.
const (
	PHBoundMin = 2.0
	PHBoundMax = 10.0

	AnalyteTempMax = 180
	LayerTempMin   = 4
	LayerTempMax   = 120
	MemTempMin     = 5

	BreDRMin = 0.1
	BreDRMax = 1e12
	MemDRMin = 1e-7
	MemDRMax = 1e11

	SensitivityMax     = 20000
	ReproducibilityMax = 100
	ResponseTimeMax    = 3600
	StabilityMax       = 365
	LODMax             = 50000
	DurabilityMax      = 8760
	PowerMax           = 1000
	YoungModulusMax    = 1000
	LossCoefficientMax = 1.0

	nameMinLen = 3
	nameMaxLen = 255
)

var (
	analyteIDPattern        = regexp.MustCompile(`^TA[A-Z0-9_-]{1,20}$`)
	bioRecognitionIDPattern = regexp.MustCompile(`^BRE[A-Z0-9_-]{1,20}$`)
	immobilizationIDPattern = regexp.MustCompile(`^IM[A-Z0-9_-]{1,20}$`)
	memristiveIDPattern     = regexp.MustCompile(`^MEM[A-Z0-9_-]{1,20}$`)
)

// ValidationError reports a single attribute outside its declared bounds.
type ValidationError struct {
	Kind   ComponentKind
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: invalid %s: %s", e.Kind, e.Field, e.Reason)
}

func checkID(kind ComponentKind, pattern *regexp.Regexp, id string) error {
	if !pattern.MatchString(id) {
		return ValidationError{Kind: kind, Field: "id", Reason: fmt.Sprintf("%q does not match %s", id, pattern)}
	}
	return nil
}

func checkName(kind ComponentKind, name string) error {
	if len(name) < nameMinLen || len(name) > nameMaxLen {
		return ValidationError{Kind: kind, Field: "name", Reason: fmt.Sprintf("length must be %d-%d", nameMinLen, nameMaxLen)}
	}
	return nil
}

func checkFloat(kind ComponentKind, field string, v, lo, hi float64) error {
	if v < lo || v > hi {
		return ValidationError{Kind: kind, Field: field, Reason: fmt.Sprintf("%g outside [%g, %g]", v, lo, hi)}
	}
	return nil
}

func checkInt(kind ComponentKind, field string, v, lo, hi int) error {
	if v < lo || v > hi {
		return ValidationError{Kind: kind, Field: field, Reason: fmt.Sprintf("%d outside [%d, %d]", v, lo, hi)}
	}
	return nil
}

func checkOrdered(kind ComponentKind, field string, lo, hi float64) error {
	if lo > hi {
		return ValidationError{Kind: kind, Field: field, Reason: fmt.Sprintf("min %g exceeds max %g", lo, hi)}
	}
	return nil
}

// Validate checks the analyte against the declared schema bounds.
func (a Analyte) Validate() error {
	checks := []error{
		checkID(KindAnalyte, analyteIDPattern, a.ID),
		checkName(KindAnalyte, a.Name),
		checkFloat(KindAnalyte, "ph_min", a.PHMin, PHBoundMin, PHBoundMax),
		checkFloat(KindAnalyte, "ph_max", a.PHMax, PHBoundMin, PHBoundMax),
		checkOrdered(KindAnalyte, "ph", a.PHMin, a.PHMax),
		checkInt(KindAnalyte, "t_max", a.TMax, 0, AnalyteTempMax),
		checkInt(KindAnalyte, "stability", a.Stability, 0, StabilityMax),
		checkInt(KindAnalyte, "half_life", a.HalfLife, 0, DurabilityMax),
		checkInt(KindAnalyte, "power_consumption", a.PowerConsumption, 0, PowerMax),
	}
	return firstError(checks)
}

// Validate checks the recognition layer against the declared schema bounds.
func (b BioRecognitionLayer) Validate() error {
	checks := []error{
		checkID(KindBioRecognition, bioRecognitionIDPattern, b.ID),
		checkName(KindBioRecognition, b.Name),
		checkFloat(KindBioRecognition, "ph_min", b.PHMin, PHBoundMin, PHBoundMax),
		checkFloat(KindBioRecognition, "ph_max", b.PHMax, PHBoundMin, PHBoundMax),
		checkOrdered(KindBioRecognition, "ph", b.PHMin, b.PHMax),
		checkInt(KindBioRecognition, "t_min", b.TMin, LayerTempMin, LayerTempMax),
		checkInt(KindBioRecognition, "t_max", b.TMax, LayerTempMin, LayerTempMax),
		checkOrdered(KindBioRecognition, "temperature", float64(b.TMin), float64(b.TMax)),
		checkFloat(KindBioRecognition, "dr_min", b.DRMin, BreDRMin, BreDRMax),
		checkFloat(KindBioRecognition, "dr_max", b.DRMax, BreDRMin, BreDRMax),
		checkOrdered(KindBioRecognition, "dynamic_range", b.DRMin, b.DRMax),
		checkInt(KindBioRecognition, "sensitivity", b.Sensitivity, 0, SensitivityMax),
		checkInt(KindBioRecognition, "reproducibility", b.Reproducibility, 0, ReproducibilityMax),
		checkInt(KindBioRecognition, "response_time", b.ResponseTime, 0, ResponseTimeMax),
		checkInt(KindBioRecognition, "stability", b.Stability, 0, StabilityMax),
		checkInt(KindBioRecognition, "lod", b.LOD, 0, LODMax),
		checkInt(KindBioRecognition, "durability", b.Durability, 0, DurabilityMax),
		checkInt(KindBioRecognition, "power_consumption", b.PowerConsumption, 0, PowerMax),
	}
	return firstError(checks)
}

// Validate checks the immobilization layer against the declared schema bounds.
func (i ImmobilizationLayer) Validate() error {
	checks := []error{
		checkID(KindImmobilization, immobilizationIDPattern, i.ID),
		checkName(KindImmobilization, i.Name),
		checkFloat(KindImmobilization, "ph_min", i.PHMin, PHBoundMin, PHBoundMax),
		checkFloat(KindImmobilization, "ph_max", i.PHMax, PHBoundMin, PHBoundMax),
		checkOrdered(KindImmobilization, "ph", i.PHMin, i.PHMax),
		checkInt(KindImmobilization, "t_min", i.TMin, LayerTempMin, LayerTempMax),
		checkInt(KindImmobilization, "t_max", i.TMax, LayerTempMin, LayerTempMax),
		checkOrdered(KindImmobilization, "temperature", float64(i.TMin), float64(i.TMax)),
		checkInt(KindImmobilization, "young_modulus", i.YoungModulus, 0, YoungModulusMax),
		checkFloat(KindImmobilization, "loss_coefficient", i.LossCoefficient, 0, LossCoefficientMax),
		checkInt(KindImmobilization, "reproducibility", i.Reproducibility, 0, ReproducibilityMax),
		checkInt(KindImmobilization, "response_time", i.ResponseTime, 0, ResponseTimeMax),
		checkInt(KindImmobilization, "stability", i.Stability, 0, StabilityMax),
		checkInt(KindImmobilization, "durability", i.Durability, 0, DurabilityMax),
		checkInt(KindImmobilization, "power_consumption", i.PowerConsumption, 0, PowerMax),
	}
	if err := firstError(checks); err != nil {
		return err
	}
	switch i.Adhesion {
	case AdhesionWeak, AdhesionGood, AdhesionExcellent:
	default:
		return ValidationError{Kind: KindImmobilization, Field: "adhesion", Reason: fmt.Sprintf("unknown grade %q", i.Adhesion)}
	}
	switch i.Solubility {
	case SolubilityWater, SolubilityOrganic, SolubilityInsoluble:
	default:
		return ValidationError{Kind: KindImmobilization, Field: "solubility", Reason: fmt.Sprintf("unknown class %q", i.Solubility)}
	}
	return nil
}

// Validate checks the memristive layer against the declared schema bounds.
func (m MemristiveLayer) Validate() error {
	checks := []error{
		checkID(KindMemristive, memristiveIDPattern, m.ID),
		checkName(KindMemristive, m.Name),
		checkFloat(KindMemristive, "ph_min", m.PHMin, PHBoundMin, PHBoundMax),
		checkFloat(KindMemristive, "ph_max", m.PHMax, PHBoundMin, PHBoundMax),
		checkOrdered(KindMemristive, "ph", m.PHMin, m.PHMax),
		checkInt(KindMemristive, "t_min", m.TMin, MemTempMin, LayerTempMax),
		checkInt(KindMemristive, "t_max", m.TMax, MemTempMin, LayerTempMax),
		checkOrdered(KindMemristive, "temperature", float64(m.TMin), float64(m.TMax)),
		checkFloat(KindMemristive, "dr_min", m.DRMin, MemDRMin, MemDRMax),
		checkFloat(KindMemristive, "dr_max", m.DRMax, MemDRMin, MemDRMax),
		checkOrdered(KindMemristive, "dynamic_range", m.DRMin, m.DRMax),
		checkInt(KindMemristive, "young_modulus", m.YoungModulus, 0, YoungModulusMax),
		checkInt(KindMemristive, "sensitivity", m.Sensitivity, 0, SensitivityMax),
		checkInt(KindMemristive, "reproducibility", m.Reproducibility, 0, ReproducibilityMax),
		checkInt(KindMemristive, "response_time", m.ResponseTime, 0, ResponseTimeMax),
		checkInt(KindMemristive, "stability", m.Stability, 0, StabilityMax),
		checkInt(KindMemristive, "lod", m.LOD, 0, LODMax),
		checkInt(KindMemristive, "durability", m.Durability, 0, DurabilityMax),
		checkInt(KindMemristive, "power_consumption", m.PowerConsumption, 0, PowerMax),
	}
	return firstError(checks)
}

func firstError(errs []error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
