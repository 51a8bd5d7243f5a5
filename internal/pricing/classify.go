package pricing

import "ResaleEngine/internal/model"

// balanceBands maps supply ratio to a label and its liquidity sub-score.
// A ratio below Below falls in the band; anything past the last band is DefaultBalance.
var balanceBands = []struct {
	Below float64
	Label model.MarketBalance
	Score float64
}{
	{0.8, model.MarketTight, 90},
	{1.5, model.MarketBalanced, 75},
}

var defaultBalance = struct {
	Label model.MarketBalance
	Score float64
}{model.MarketCrowded, 50}

// consistencyBands maps volatility to a label and its liquidity sub-score.
var consistencyBands = []struct {
	Below float64
	Label model.PriceConsistency
	Score float64
}{
	{0.25, model.VeryConsistent, 90},
	{0.50, model.MostlyConsistent, 75},
	{0.80, model.Inconsistent, 55},
}

var defaultConsistency = struct {
	Label model.PriceConsistency
	Score float64
}{model.HighlyUnstable, 35}

// supplyRatio is active listings per sold listing.
func supplyRatio(activeCount, soldCount int) float64 {
	if soldCount == 0 {
		return 0
	}
	return float64(activeCount) / float64(soldCount)
}

// volatility is the sold price range relative to the median.
func volatility(high, low, median float64) float64 {
	if median == 0 {
		return 0
	}
	return (high - low) / median
}

func classifyBalance(ratio float64) (model.MarketBalance, float64) {
	for _, b := range balanceBands {
		if ratio < b.Below {
			return b.Label, b.Score
		}
	}
	return defaultBalance.Label, defaultBalance.Score
}

func classifyConsistency(vol float64) (model.PriceConsistency, float64) {
	for _, b := range consistencyBands {
		if vol < b.Below {
			return b.Label, b.Score
		}
	}
	return defaultConsistency.Label, defaultConsistency.Score
}

func classifyRisk(vol, ratio float64) model.RiskLevel {
	switch {
	case vol < 0.35 && ratio < 1.5:
		return model.RiskLow
	case vol < 0.75:
		return model.RiskModerate
	default:
		return model.RiskHigh
	}
}
