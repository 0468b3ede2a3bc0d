package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"digital.vasic.grader/pkg/grading"
	"digital.vasic.grader/pkg/runner"
)

// Summary aggregates one batch run.
type Summary struct {
	ID              string          `json:"id"`
	GeneratedAt     time.Time       `json:"generated_at"`
	Graders         []GraderSummary `json:"graders"`
	Total           int             `json:"total"`
	Healthy         int             `json:"healthy"`
	Unhealthy       int             `json:"unhealthy"`
	Errors          int             `json:"errors"`
	ScenariosTotal  int             `json:"scenarios_total"`
	ScenariosAgreed int             `json:"scenarios_agreed"`
	HealthRate      float64         `json:"health_rate"`
	TotalDuration   time.Duration   `json:"total_duration"`
}

// GraderSummary is one grader's line in a Summary.
type GraderSummary struct {
	ID                grading.ID       `json:"id"`
	Name              string           `json:"name"`
	Category          grading.Category `json:"category"`
	Status            runner.Status    `json:"status"`
	Agreed            int              `json:"agreed"`
	Scenarios         int              `json:"scenarios"`
	WeightedAgreement float64          `json:"weighted_agreement"`
	Duration          time.Duration    `json:"duration"`
	Error             string           `json:"error,omitempty"`
}

// BuildSummary aggregates grader reports under the given run
// ID. HealthRate is healthy/total, 0 with no graders.
func BuildSummary(
	runID string,
	reports []*runner.GraderReport,
) *Summary {
	summary := &Summary{
		ID:          runID,
		GeneratedAt: time.Now(),
		Graders:     make([]GraderSummary, 0, len(reports)),
	}

	for _, r := range reports {
		summary.Graders = append(summary.Graders, GraderSummary{
			ID:                r.ID,
			Name:              r.Name,
			Category:          r.Category,
			Status:            r.Status,
			Agreed:            r.Agreed,
			Scenarios:         len(r.Scenarios),
			WeightedAgreement: r.WeightedAgreement,
			Duration:          r.Duration,
			Error:             r.Error,
		})
		summary.Total++
		summary.ScenariosTotal += len(r.Scenarios)
		summary.ScenariosAgreed += r.Agreed
		summary.TotalDuration += r.Duration

		switch r.Status {
		case runner.StatusHealthy:
			summary.Healthy++
		case runner.StatusUnhealthy:
			summary.Unhealthy++
		default:
			summary.Errors++
		}
	}

	if summary.Total > 0 {
		summary.HealthRate =
			float64(summary.Healthy) / float64(summary.Total)
	}
	return summary
}

// AllHealthy reports whether every grader in the run agreed
// with all of its scenarios.
func (s *Summary) AllHealthy() bool {
	return s.Healthy == s.Total
}

// SaveSummary writes the summary as
// summary_<timestamp>.json and .md in dir, and points
// latest_summary.json and latest_summary.md at them.
func SaveSummary(summary *Summary, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf(
			"failed to create output directory: %w", err,
		)
	}

	ts := summary.GeneratedAt.Format("20060102_150405")

	jsonData, err := NewJSONReporter(true).GenerateSummary(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	jsonPath := filepath.Join(dir, fmt.Sprintf("summary_%s.json", ts))
	if err := os.WriteFile(jsonPath, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON summary: %w", err)
	}

	mdData, err := NewMarkdownReporter().GenerateSummary(summary)
	if err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	mdPath := filepath.Join(dir, fmt.Sprintf("summary_%s.md", ts))
	if err := os.WriteFile(mdPath, mdData, 0644); err != nil {
		return fmt.Errorf("failed to write Markdown summary: %w", err)
	}

	latestJSON := filepath.Join(dir, "latest_summary.json")
	latestMD := filepath.Join(dir, "latest_summary.md")

	_ = os.Remove(latestJSON)
	_ = os.Remove(latestMD)
	_ = os.Symlink(filepath.Base(jsonPath), latestJSON)
	_ = os.Symlink(filepath.Base(mdPath), latestMD)

	return nil
}
