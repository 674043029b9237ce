package domain

// Composite score weights. The weights sum to 1 so the aggregate stays in
// [0, 1]. Lower-is-better metrics (response time, power consumption, loss
// coefficient) are inverted before weighting.
const (
	WeightSensitivity     = 0.25
	WeightReproducibility = 0.20
	WeightStability       = 0.20
	WeightResponseTime    = 0.15
	WeightPower           = 0.10
	WeightLossCoefficient = 0.10
)

// Score computes the normalized composite quality score of a compatible
// quadruple. Each contributing attribute is normalized against its declared
// schema bound, contributions to one metric are averaged in fixed component
// order (analyte, recognition, immobilization, memristive), and the weighted
// metrics are summed in the fixed order above. Identical inputs always yield
// an identical score.
func Score(a Analyte, b BioRecognitionLayer, i ImmobilizationLayer, m MemristiveLayer) float64 {
	sensitivity := mean(
		norm(float64(b.Sensitivity), SensitivityMax),
		norm(float64(m.Sensitivity), SensitivityMax),
	)
	reproducibility := mean(
		norm(float64(b.Reproducibility), ReproducibilityMax),
		norm(float64(i.Reproducibility), ReproducibilityMax),
		norm(float64(m.Reproducibility), ReproducibilityMax),
	)
	stability := mean(
		norm(float64(a.Stability), StabilityMax),
		norm(float64(b.Stability), StabilityMax),
		norm(float64(i.Stability), StabilityMax),
		norm(float64(m.Stability), StabilityMax),
	)
	responseTime := mean(
		inverted(float64(b.ResponseTime), ResponseTimeMax),
		inverted(float64(i.ResponseTime), ResponseTimeMax),
		inverted(float64(m.ResponseTime), ResponseTimeMax),
	)
	power := mean(
		inverted(float64(a.PowerConsumption), PowerMax),
		inverted(float64(b.PowerConsumption), PowerMax),
		inverted(float64(i.PowerConsumption), PowerMax),
		inverted(float64(m.PowerConsumption), PowerMax),
	)
	loss := inverted(i.LossCoefficient, LossCoefficientMax)

	return WeightSensitivity*sensitivity +
		WeightReproducibility*reproducibility +
		WeightStability*stability +
		WeightResponseTime*responseTime +
		WeightPower*power +
		WeightLossCoefficient*loss
}

// norm maps v from [0, max] onto [0, 1], clamping out-of-bound values.
func norm(v, max float64) float64 {
	if max <= 0 {
		return 0
	}
	switch {
	case v <= 0:
		return 0
	case v >= max:
		return 1
	default:
		return v / max
	}
}

func inverted(v, max float64) float64 { return 1 - norm(v, max) }

func mean(values ...float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
