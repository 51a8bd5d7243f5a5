package pricing

// undercutFactor prices a fast sale 3% under the competitive baseline.
const undercutFactor = 0.97

// ladder holds the unrounded buy/sell prices.
type ladder struct {
	Local      float64
	MaxBuy     float64
	SellTarget float64
	Undercut   float64
}

// buildLadder derives buy, sell and fast-sale prices from the local value.
// profit is expected already clamped.
func buildLadder(local, profit, soldMedian, activeMedian float64) ladder {
	l := ladder{
		Local:  local,
		MaxBuy: local * (1 - profit),
	}
	if profit < 0.99 {
		l.SellTarget = local / (1 - profit)
	} else {
		l.SellTarget = soldMedian
	}

	baseline := l.SellTarget
	if activeMedian > 0 && activeMedian < baseline {
		baseline = activeMedian
	}
	l.Undercut = baseline * undercutFactor
	return l
}
