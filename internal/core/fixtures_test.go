package core

import (
	"context"
	"testing"

	"sensorcore/pkg/domain"
)

// Fixture components are wide in every dimension so individual tests narrow
// one attribute at a time.

func testAnalyte(id string) Analyte {
	return Analyte{
		ID:               id,
		Name:             "Glucose",
		PHMin:            4.0,
		PHMax:            8.0,
		TMax:             60,
		Stability:        180,
		HalfLife:         720,
		PowerConsumption: 50,
	}
}

func testBioRecognition(id string) BioRecognitionLayer {
	return BioRecognitionLayer{
		ID:               id,
		Name:             "Glucose oxidase",
		PHMin:            5.0,
		PHMax:            7.5,
		TMin:             10,
		TMax:             45,
		DRMin:            1.0,
		DRMax:            1e6,
		Sensitivity:      12000,
		Reproducibility:  90,
		ResponseTime:     30,
		Stability:        120,
		LOD:              100,
		Durability:       4000,
		PowerConsumption: 20,
	}
}

func testImmobilization(id string) ImmobilizationLayer {
	return ImmobilizationLayer{
		ID:               id,
		Name:             "Chitosan film",
		PHMin:            4.5,
		PHMax:            9.0,
		TMin:             5,
		TMax:             80,
		YoungModulus:     200,
		Adhesion:         domain.AdhesionGood,
		Solubility:       domain.SolubilityInsoluble,
		LossCoefficient:  0.15,
		Reproducibility:  85,
		ResponseTime:     60,
		Stability:        200,
		Durability:       5000,
		PowerConsumption: 10,
	}
}

func testMemristive(id string) MemristiveLayer {
	return MemristiveLayer{
		ID:               id,
		Name:             "TiO2 memristor",
		PHMin:            3.0,
		PHMax:            9.5,
		TMin:             5,
		TMax:             100,
		DRMin:            1e-3,
		DRMax:            1e9,
		YoungModulus:     400,
		Sensitivity:      15000,
		Reproducibility:  95,
		ResponseTime:     5,
		Stability:        300,
		LOD:              50,
		Durability:       8000,
		PowerConsumption: 5,
	}
}

// seedScenario loads two analytes, two bio-recognition layers, one
// immobilization layer and one memristive layer where exactly three of the
// four candidate quadruples are compatible: the second analyte's pH window
// misses the second recognition layer's.
func seedScenario(t *testing.T, svc *Service) {
	t.Helper()
	ctx := context.Background()

	first := testAnalyte("TAALPHA")
	second := testAnalyte("TABETA")
	second.PHMin = 4.0
	second.PHMax = 5.5

	gox := testBioRecognition("BREGOX")
	lac := testBioRecognition("BRELAC")
	lac.PHMin = 6.0
	lac.PHMax = 7.5

	if _, err := svc.CreateAnalyte(ctx, first); err != nil {
		t.Fatalf("create analyte: %v", err)
	}
	if _, err := svc.CreateAnalyte(ctx, second); err != nil {
		t.Fatalf("create analyte: %v", err)
	}
	if _, err := svc.CreateBioRecognitionLayer(ctx, gox); err != nil {
		t.Fatalf("create bio-recognition layer: %v", err)
	}
	if _, err := svc.CreateBioRecognitionLayer(ctx, lac); err != nil {
		t.Fatalf("create bio-recognition layer: %v", err)
	}
	if _, err := svc.CreateImmobilizationLayer(ctx, testImmobilization("IMCHITOSAN")); err != nil {
		t.Fatalf("create immobilization layer: %v", err)
	}
	if _, err := svc.CreateMemristiveLayer(ctx, testMemristive("MEMTIO2")); err != nil {
		t.Fatalf("create memristive layer: %v", err)
	}
}
