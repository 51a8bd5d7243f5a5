package model

// MarketBalance labels supply pressure.
type MarketBalance string

const (
	MarketTight    MarketBalance = "Tight Market"
	MarketBalanced MarketBalance = "Balanced Market"
	MarketCrowded  MarketBalance = "Crowded Market"
)

// PriceConsistency labels how spread out the sold prices are.
type PriceConsistency string

const (
	VeryConsistent   PriceConsistency = "Very Consistent"
	MostlyConsistent PriceConsistency = "Mostly Consistent"
	Inconsistent     PriceConsistency = "Inconsistent"
	HighlyUnstable   PriceConsistency = "Highly Unstable"
)

// RiskLevel is the composite risk classification.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
)

// Rank orders risk levels from 0 (LOW) to 2 (HIGH). Unknown levels rank as HIGH.
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLow:
		return 0
	case RiskModerate:
		return 1
	default:
		return 2
	}
}

// LiquidityLabel buckets the liquidity score.
type LiquidityLabel string

const (
	LiquidityVeryStrong LiquidityLabel = "Very Strong"
	LiquidityStrong     LiquidityLabel = "Strong"
	LiquidityModerate   LiquidityLabel = "Moderate"
	LiquidityWeak       LiquidityLabel = "Weak"
	LiquidityVeryWeak   LiquidityLabel = "Very Weak"
)

// FactorScore is one weighted component of the liquidity score.
type FactorScore struct {
	Name     string  `json:"name"`
	RawScore float64 `json:"raw_score"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted"`
}

// AnalysisResult is the output of one market analysis. Currency, ratio and
// volatility fields are rounded to 2 decimals.
type AnalysisResult struct {
	SoldMedian             float64          `json:"sold_median"`
	ActiveMedian           float64          `json:"active_median"`
	MaxBuy                 float64          `json:"max_buy"`
	SellTarget             float64          `json:"sell_target"`
	Undercut               float64          `json:"undercut"`
	Confidence             int              `json:"confidence"`
	SoldCount              int              `json:"sold_count"`
	ActiveCount            int              `json:"active_count"`
	SupplyRatio            float64          `json:"supply_ratio"`
	MarketBalance          MarketBalance    `json:"market_balance"`
	Volatility             float64          `json:"volatility"`
	PriceConsistency       PriceConsistency `json:"price_consistency"`
	RiskLevel              RiskLevel        `json:"risk_level"`
	LiquidityScore         int              `json:"liquidity_score"`
	LiquidityLabel         LiquidityLabel   `json:"liquidity_label"`
	ConditionImpactPercent float64          `json:"condition_impact_percent"`
	LiquidityFactors       []FactorScore    `json:"liquidity_factors"`
}

// PostingPlan is the three-price ladder suggested when listing the item.
type PostingPlan struct {
	FastCash float64 `json:"fast_cash"`
	Market   float64 `json:"market"`
	HoldMax  float64 `json:"hold_max"`
}
