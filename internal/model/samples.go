package model

import (
	"errors"
	"fmt"
	"math"
)

// ErrNonPositivePrice is returned when a sample carries a price that is zero,
// negative, NaN or infinite.
var ErrNonPositivePrice = errors.New("price must be a positive finite number")

// PriceSample is an unordered collection of listing prices in currency units.
type PriceSample []float64

// Validate rejects samples that contain non-positive or non-finite prices.
// An empty sample is valid.
func (p PriceSample) Validate() error {
	for i, v := range p {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			return fmt.Errorf("price[%d]=%v: %w", i, v, ErrNonPositivePrice)
		}
	}
	return nil
}

// MarketSamples holds the sold and active comps gathered for one query.
type MarketSamples struct {
	Query  string
	Source string
	Sold   PriceSample
	Active PriceSample
}

// CentralTendency holds the summary statistics the engine derives from the samples.
type CentralTendency struct {
	SoldMedian   float64
	SoldHigh     float64
	SoldLow      float64
	ActiveMedian float64 // 0 when there are no active listings
}
