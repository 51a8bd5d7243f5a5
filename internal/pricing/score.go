package pricing

import (
	"math"

	"ResaleEngine/internal/model"
)

// Liquidity weights.
const (
	weightSoldVolume   = 0.30
	weightBalance      = 0.30
	weightConsistency  = 0.25
	weightActiveMarket = 0.15
)

// liquidityLabels maps the composite score to its label, highest first.
var liquidityLabels = []struct {
	MinScore int
	Label    model.LiquidityLabel
}{
	{90, model.LiquidityVeryStrong},
	{75, model.LiquidityStrong},
	{60, model.LiquidityModerate},
	{40, model.LiquidityWeak},
}

func mapLiquidityLabel(score int) model.LiquidityLabel {
	for _, l := range liquidityLabels {
		if score >= l.MinScore {
			return l.Label
		}
	}
	return model.LiquidityVeryWeak
}

func confidence(soldCount int) int {
	return min(2*soldCount, 100)
}

func soldVolumeScore(soldCount int) float64 {
	return math.Min(5*float64(soldCount), 100)
}

func activeViabilityScore(activeMedian float64) float64 {
	if activeMedian > 0 {
		return 75
	}
	return 60
}

// liquidity combines the four sub-scores. Each product is converted
// explicitly so the compiler cannot fuse it into the sum, and ties round to even.
func liquidity(soldScore, balanceScore, consistencyScore, activeScore float64) (int, []model.FactorScore) {
	sold := float64(soldScore * weightSoldVolume)
	bal := float64(balanceScore * weightBalance)
	cons := float64(consistencyScore * weightConsistency)
	act := float64(activeScore * weightActiveMarket)

	total := sold + bal
	total += cons
	total += act

	score := int(math.RoundToEven(total))
	score = max(0, min(score, 100))

	factors := []model.FactorScore{
		{Name: "sold_volume", RawScore: soldScore, Weight: weightSoldVolume, Weighted: round2(sold)},
		{Name: "market_balance", RawScore: balanceScore, Weight: weightBalance, Weighted: round2(bal)},
		{Name: "price_consistency", RawScore: consistencyScore, Weight: weightConsistency, Weighted: round2(cons)},
		{Name: "active_market", RawScore: activeScore, Weight: weightActiveMarket, Weighted: round2(act)},
	}
	return score, factors
}
