package domain

import (
	"errors"
	"testing"
)

func TestValidateAcceptsFixtures(t *testing.T) {
	if err := validAnalyte().Validate(); err != nil {
		t.Fatalf("analyte: %v", err)
	}
	if err := validBioRecognition().Validate(); err != nil {
		t.Fatalf("bio recognition: %v", err)
	}
	if err := validImmobilization().Validate(); err != nil {
		t.Fatalf("immobilization: %v", err)
	}
	if err := validMemristive().Validate(); err != nil {
		t.Fatalf("memristive: %v", err)
	}
}

func TestValidateAnalyte(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Analyte)
		field  string
	}{
		{"id without family prefix", func(a *Analyte) { a.ID = "GLUCOSE" }, "id"},
		{"lowercase id", func(a *Analyte) { a.ID = "TAglucose" }, "id"},
		{"name too short", func(a *Analyte) { a.Name = "ab" }, "name"},
		{"ph below bound", func(a *Analyte) { a.PHMin = 1.5 }, "ph_min"},
		{"ph above bound", func(a *Analyte) { a.PHMax = 11 }, "ph_max"},
		{"ph inverted", func(a *Analyte) { a.PHMin, a.PHMax = 8, 4 }, "ph"},
		{"temperature above bound", func(a *Analyte) { a.TMax = 200 }, "t_max"},
		{"negative stability", func(a *Analyte) { a.Stability = -1 }, "stability"},
		{"power above bound", func(a *Analyte) { a.PowerConsumption = 1500 }, "power_consumption"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := validAnalyte()
			tc.mutate(&a)
			assertValidationError(t, a.Validate(), KindAnalyte, tc.field)
		})
	}
}

func TestValidateBioRecognitionLayer(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*BioRecognitionLayer)
		field  string
	}{
		{"wrong prefix", func(b *BioRecognitionLayer) { b.ID = "TAGOX" }, "id"},
		{"temperature below family bound", func(b *BioRecognitionLayer) { b.TMin = 2 }, "t_min"},
		{"temperature inverted", func(b *BioRecognitionLayer) { b.TMin, b.TMax = 60, 20 }, "temperature"},
		{"dynamic range below bound", func(b *BioRecognitionLayer) { b.DRMin = 0.01 }, "dr_min"},
		{"dynamic range inverted", func(b *BioRecognitionLayer) { b.DRMin, b.DRMax = 1e6, 1.0 }, "dynamic_range"},
		{"sensitivity above bound", func(b *BioRecognitionLayer) { b.Sensitivity = 30000 }, "sensitivity"},
		{"reproducibility above bound", func(b *BioRecognitionLayer) { b.Reproducibility = 101 }, "reproducibility"},
		{"response time above bound", func(b *BioRecognitionLayer) { b.ResponseTime = 4000 }, "response_time"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := validBioRecognition()
			tc.mutate(&b)
			assertValidationError(t, b.Validate(), KindBioRecognition, tc.field)
		})
	}
}

func TestValidateImmobilizationLayer(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ImmobilizationLayer)
		field  string
	}{
		{"unknown adhesion grade", func(i *ImmobilizationLayer) { i.Adhesion = "sticky" }, "adhesion"},
		{"unknown solubility class", func(i *ImmobilizationLayer) { i.Solubility = "gaseous" }, "solubility"},
		{"loss coefficient above bound", func(i *ImmobilizationLayer) { i.LossCoefficient = 1.5 }, "loss_coefficient"},
		{"young modulus above bound", func(i *ImmobilizationLayer) { i.YoungModulus = 1200 }, "young_modulus"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			i := validImmobilization()
			tc.mutate(&i)
			assertValidationError(t, i.Validate(), KindImmobilization, tc.field)
		})
	}
}

func TestValidateMemristiveLayer(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*MemristiveLayer)
		field  string
	}{
		{"temperature below family bound", func(m *MemristiveLayer) { m.TMin = 4 }, "t_min"},
		{"dynamic range above bound", func(m *MemristiveLayer) { m.DRMax = 1e12 }, "dr_max"},
		{"lod above bound", func(m *MemristiveLayer) { m.LOD = 60000 }, "lod"},
		{"durability above bound", func(m *MemristiveLayer) { m.Durability = 9000 }, "durability"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := validMemristive()
			tc.mutate(&m)
			assertValidationError(t, m.Validate(), KindMemristive, tc.field)
		})
	}
}

func assertValidationError(t *testing.T, err error, kind ComponentKind, field string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected validation error for %s.%s", kind, field)
	}
	var verr ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	if verr.Kind != kind || verr.Field != field {
		t.Fatalf("got %s.%s, want %s.%s", verr.Kind, verr.Field, kind, field)
	}
}

func TestCombinationKey(t *testing.T) {
	combo := SensorCombination{
		AnalyteID:        "TAGLUCOSE",
		BioRecognitionID: "BREGOX",
		ImmobilizationID: "IMCHITOSAN",
		MemristiveID:     "MEMTIO2",
	}
	want := "TAGLUCOSE|BREGOX|IMCHITOSAN|MEMTIO2"
	if got := combo.Key(); got != want {
		t.Fatalf("Key = %q, want %q", got, want)
	}
	if got := CombinationKey("TAGLUCOSE", "BREGOX", "IMCHITOSAN", "MEMTIO2"); got != want {
		t.Fatalf("CombinationKey = %q, want %q", got, want)
	}
}
