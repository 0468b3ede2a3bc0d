package runner

import (
	"time"

	"digital.vasic.grader/pkg/grading"
)

// Status is the batch verdict on a grader.
type Status string

const (
	// StatusHealthy means every scenario verdict matched its
	// expectation.
	StatusHealthy Status = "healthy"
	// StatusUnhealthy means at least one scenario disagreed.
	StatusUnhealthy Status = "unhealthy"
	// StatusError means the grader could not be run to
	// completion: it panicked, a pre-hook failed, or the run
	// was cancelled.
	StatusError Status = "error"
)

// ScenarioResult is one scenario's verdict within a batch run.
type ScenarioResult struct {
	Name     string        `json:"name"`
	Source   string        `json:"source"`
	Expected bool          `json:"expected"`
	Passed   bool          `json:"passed"`
	Score    float64       `json:"score"`
	Weight   float64       `json:"weight"`
	Agreed   bool          `json:"agreed"`
	Feedback string        `json:"feedback,omitempty"`
	Duration time.Duration `json:"duration"`
}

// GraderReport aggregates a grader's scenario self-test.
type GraderReport struct {
	ID                grading.ID         `json:"id"`
	Name              string             `json:"name"`
	Category          grading.Category   `json:"category"`
	Difficulty        grading.Difficulty `json:"difficulty"`
	Status            Status             `json:"status"`
	Scenarios         []ScenarioResult   `json:"scenarios"`
	Agreed            int                `json:"agreed"`
	Disagreed         int                `json:"disagreed"`
	WeightedAgreement float64            `json:"weighted_agreement"`
	Error             string             `json:"error,omitempty"`
	StartTime         time.Time          `json:"start_time"`
	Duration          time.Duration      `json:"duration"`
}

// Healthy reports whether the grader agreed with every scenario.
func (r *GraderReport) Healthy() bool {
	return r.Status == StatusHealthy
}

// Disagreements returns the scenarios whose verdict did not
// match their expectation.
func (r *GraderReport) Disagreements() []ScenarioResult {
	var out []ScenarioResult
	for _, s := range r.Scenarios {
		if !s.Agreed {
			out = append(out, s)
		}
	}
	return out
}

// weightedAgreement is the agreeing share of total scenario
// weight, 1.0 when there is no weight at all.
func weightedAgreement(results []ScenarioResult) float64 {
	var total, agreed float64
	for _, s := range results {
		total += s.Weight
		if s.Agreed {
			agreed += s.Weight
		}
	}
	if total == 0 {
		return 1.0
	}
	return agreed / total
}
