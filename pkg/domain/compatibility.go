package domain

// Compatible decides whether one component from each catalog can form a
// working sensor stack. It intersects every shared operating-range dimension
// and applies the categorical matrix rule; a component that does not carry a
// dimension is excluded from that dimension's intersection rather than
// rejecting the candidate.
//
// Dimensions:
//   - pH: all four components.
//   - temperature: recognition, immobilization and memristive layers (the
//     analyte declares only an upper bound, not a range).
//   - dynamic range: recognition and memristive layers.
func Compatible(a Analyte, b BioRecognitionLayer, i ImmobilizationLayer, m MemristiveLayer) bool {
	ph := a.PHRange().Intersect(b.PHRange()).Intersect(i.PHRange()).Intersect(m.PHRange())
	if ph.Empty() {
		return false
	}

	temp := b.TemperatureRange().Intersect(i.TemperatureRange()).Intersect(m.TemperatureRange())
	if temp.Empty() {
		return false
	}

	dr := b.DynamicRange().Intersect(m.DynamicRange())
	if dr.Empty() {
		return false
	}

	// A water-soluble matrix with weak adhesion delaminates in aqueous
	// operation; the stack is rejected outright.
	if i.Solubility == SolubilityWater && i.Adhesion == AdhesionWeak {
		return false
	}

	return true
}
