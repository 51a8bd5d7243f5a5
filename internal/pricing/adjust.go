package pricing

import "ResaleEngine/internal/model"

// adjustment is the sold median after condition and locality discounts.
type adjustment struct {
	Multiplier float64
	Adjusted   float64
	Local      float64
}

func adjust(soldMedian float64, cond model.Condition, localFactor float64) adjustment {
	m := cond.Multiplier()
	adjusted := soldMedian * m
	return adjustment{
		Multiplier: m,
		Adjusted:   adjusted,
		Local:      adjusted * localFactor,
	}
}

// conditionImpactPercent is the signed percentage the grade moves price (B → -15).
func conditionImpactPercent(multiplier float64) float64 {
	return round2((multiplier - 1) * 100)
}
