package recorder

import (
	"time"

	"ResaleEngine/internal/model"
)

// AppraisalEvent describes one completed analysis.
type AppraisalEvent struct {
	Source    string // "request" or the collector source name
	Condition model.Condition
	Result    *model.AnalysisResult
	Duration  time.Duration
}

// Failure reasons reported through RecordFailure.
const (
	ReasonNoComps      = "no_comps"
	ReasonInvalidInput = "invalid_input"
	ReasonCollect      = "collect"
)

// Recorder observes appraisal outcomes.
type Recorder interface {
	RecordAppraisal(evt *AppraisalEvent)
	RecordFailure(source, reason string)
}
