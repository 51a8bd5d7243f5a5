package calculator

import (
	"errors"
	"math"
	"sort"

	"ResaleEngine/internal/model"
)

// ErrEmptySample is returned when a statistic is requested from no prices.
var ErrEmptySample = errors.New("no prices provided")

// Median returns the middle value of prices, or the mean of the two middle
// values for an even count. The input slice is not reordered.
func Median(prices []float64) (float64, error) {
	n := len(prices)
	if n == 0 {
		return 0, ErrEmptySample
	}
	sorted := make([]float64, n)
	copy(sorted, prices)
	sort.Float64s(sorted)
	if n%2 == 1 {
		return sorted[n/2], nil
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2, nil
}

// Range returns the highest and lowest price.
func Range(prices []float64) (high, low float64, err error) {
	if len(prices) == 0 {
		return 0, 0, ErrEmptySample
	}
	high = math.Inf(-1)
	low = math.Inf(1)
	for _, p := range prices {
		if p > high {
			high = p
		}
		if p < low {
			low = p
		}
	}
	return high, low, nil
}

// Summarize extracts the central tendency of both samples. sold must be
// non-empty; an empty active sample yields ActiveMedian 0.
func Summarize(sold, active []float64) (model.CentralTendency, error) {
	var ct model.CentralTendency
	median, err := Median(sold)
	if err != nil {
		return ct, err
	}
	high, low, err := Range(sold)
	if err != nil {
		return ct, err
	}
	ct.SoldMedian = median
	ct.SoldHigh = high
	ct.SoldLow = low
	if len(active) > 0 {
		ct.ActiveMedian, _ = Median(active)
	}
	return ct, nil
}
