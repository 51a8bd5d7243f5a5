package pricing

import "ResaleEngine/internal/model"

// holdMarkup is the premium asked by a seller willing to wait.
const holdMarkup = 1.15

// Posting derives a three-price listing ladder from an analysis.
// It returns nil for a nil result.
func Posting(r *model.AnalysisResult) *model.PostingPlan {
	if r == nil {
		return nil
	}
	return &model.PostingPlan{
		FastCash: r.Undercut,
		Market:   r.SellTarget,
		HoldMax:  round2(r.SellTarget * holdMarkup),
	}
}
