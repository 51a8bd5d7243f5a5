// Package pricing turns sold and active listing prices into a buy/sell
// price ladder and market-quality indicators. Every function is pure.
package pricing

import (
	"ResaleEngine/internal/calculator"
	"ResaleEngine/internal/model"
)

// Analyze computes the full analysis for one item. It returns nil when sold
// is empty. Profit is clamped to [0, 0.95]; unknown conditions price as A.
func Analyze(sold, active model.PriceSample, cond model.Condition, profile model.PricingProfile) *model.AnalysisResult {
	if len(sold) == 0 {
		return nil
	}
	profile = profile.Normalized()

	// Step a: central tendency
	ct, err := calculator.Summarize(sold, active)
	if err != nil {
		return nil
	}

	// Step b: condition and locality
	adj := adjust(ct.SoldMedian, cond, profile.LocalFactor)

	// Step c: price ladder
	l := buildLadder(adj.Local, profile.Profit, ct.SoldMedian, ct.ActiveMedian)

	// Step d: market quality, on unrounded values
	ratio := supplyRatio(len(active), len(sold))
	vol := volatility(ct.SoldHigh, ct.SoldLow, ct.SoldMedian)
	balance, balanceScore := classifyBalance(ratio)
	consistency, consistencyScore := classifyConsistency(vol)
	risk := classifyRisk(vol, ratio)

	// Step e: liquidity
	score, factors := liquidity(
		soldVolumeScore(len(sold)),
		balanceScore,
		consistencyScore,
		activeViabilityScore(ct.ActiveMedian),
	)

	return &model.AnalysisResult{
		SoldMedian:             round2(ct.SoldMedian),
		ActiveMedian:           round2(ct.ActiveMedian),
		MaxBuy:                 round2(l.MaxBuy),
		SellTarget:             round2(l.SellTarget),
		Undercut:               round2(l.Undercut),
		Confidence:             confidence(len(sold)),
		SoldCount:              len(sold),
		ActiveCount:            len(active),
		SupplyRatio:            round2(ratio),
		MarketBalance:          balance,
		Volatility:             round2(vol),
		PriceConsistency:       consistency,
		RiskLevel:              risk,
		LiquidityScore:         score,
		LiquidityLabel:         mapLiquidityLabel(score),
		ConditionImpactPercent: conditionImpactPercent(adj.Multiplier),
		LiquidityFactors:       factors,
	}
}

// AnalyzeMarket is Analyze over raw inputs: condition is parsed leniently and
// profit and localFactor are used as given.
func AnalyzeMarket(sold, active []float64, condition string, profit, localFactor float64) *model.AnalysisResult {
	return Analyze(sold, active, model.ParseCondition(condition), model.PricingProfile{
		Profit:      profit,
		LocalFactor: localFactor,
	})
}
