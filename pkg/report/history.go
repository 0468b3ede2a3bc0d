package report

import (
	"fmt"
	"os"
	"time"
)

// HistoricalEntry is one grader's line in the run history.
type HistoricalEntry struct {
	Timestamp         time.Time `json:"timestamp"`
	RunID             string    `json:"run_id"`
	GraderID          string    `json:"grader_id"`
	Status            string    `json:"status"`
	Duration          string    `json:"duration"`
	Agreed            int       `json:"agreed"`
	Scenarios         int       `json:"scenarios"`
	WeightedAgreement float64   `json:"weighted_agreement"`
}

// AppendToHistory appends one JSON line per grader in the
// summary to the log at historyPath, creating it if needed.
func AppendToHistory(historyPath string, summary *Summary) error {
	lines := make([][]byte, 0, len(summary.Graders))
	for _, g := range summary.Graders {
		data, err := jsonMarshal(HistoricalEntry{
			Timestamp:         summary.GeneratedAt,
			RunID:             summary.ID,
			GraderID:          string(g.ID),
			Status:            string(g.Status),
			Duration:          g.Duration.String(),
			Agreed:            g.Agreed,
			Scenarios:         g.Scenarios,
			WeightedAgreement: g.WeightedAgreement,
		})
		if err != nil {
			return fmt.Errorf(
				"failed to marshal history entry: %w", err,
			)
		}
		lines = append(lines, data)
	}

	file, err := os.OpenFile(
		historyPath,
		os.O_CREATE|os.O_APPEND|os.O_WRONLY,
		0644,
	)
	if err != nil {
		return fmt.Errorf(
			"failed to open history file: %w", err,
		)
	}
	defer func() { _ = file.Close() }()

	for _, line := range lines {
		if _, err := fmt.Fprintln(file, string(line)); err != nil {
			return err
		}
	}
	return nil
}
