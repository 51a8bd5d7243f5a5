package model

import "math"

const (
	MinProfit = 0.0
	MaxProfit = 0.95

	// DefaultProfit is the margin used when a caller does not pick one (40%).
	DefaultProfit = 0.40
)

// Preset names for the local resale factor.
const (
	PresetAggressive = "aggressive"
	PresetBalanced   = "balanced"
	PresetCollector  = "collector"
)

// PricingProfile holds the two user-chosen knobs of an analysis.
type PricingProfile struct {
	Profit      float64 `json:"profit"`       // target margin fraction
	LocalFactor float64 `json:"local_factor"` // discount from online comps to local resale, (0,1]
}

// Normalized returns a copy with Profit clamped to [MinProfit, MaxProfit].
func (p PricingProfile) Normalized() PricingProfile {
	p.Profit = ClampProfit(p.Profit)
	return p
}

// ClampProfit silently limits a margin fraction to [MinProfit, MaxProfit].
func ClampProfit(profit float64) float64 {
	if math.IsNaN(profit) || profit < MinProfit {
		return MinProfit
	}
	if profit > MaxProfit {
		return MaxProfit
	}
	return profit
}

// DefaultPresets returns the built-in local factor presets.
func DefaultPresets() map[string]float64 {
	return map[string]float64{
		PresetAggressive: 0.75,
		PresetBalanced:   0.80,
		PresetCollector:  0.90,
	}
}
