package domain

// Shared fixtures kept wide enough in every dimension that individual tests
// can narrow one attribute at a time.

func validAnalyte() Analyte {
	return Analyte{
		ID:               "TAGLUCOSE",
		Name:             "Glucose",
		PHMin:            4.0,
		PHMax:            8.0,
		TMax:             60,
		Stability:        180,
		HalfLife:         720,
		PowerConsumption: 50,
	}
}

func validBioRecognition() BioRecognitionLayer {
	return BioRecognitionLayer{
		ID:               "BREGOX",
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

func validImmobilization() ImmobilizationLayer {
	return ImmobilizationLayer{
		ID:               "IMCHITOSAN",
		Name:             "Chitosan film",
		PHMin:            4.5,
		PHMax:            9.0,
		TMin:             5,
		TMax:             80,
		YoungModulus:     200,
		Adhesion:         AdhesionGood,
		Solubility:       SolubilityInsoluble,
		LossCoefficient:  0.15,
		Reproducibility:  85,
		ResponseTime:     60,
		Stability:        200,
		Durability:       5000,
		PowerConsumption: 10,
	}
}

func validMemristive() MemristiveLayer {
	return MemristiveLayer{
		ID:               "MEMTIO2",
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
