// Package report renders batch self-test results: per-grader
// reports, run summaries in JSON, Markdown and HTML, an
// append-only history, and a console listing.
package report

import (
	"encoding/json"
	"io"

	"digital.vasic.grader/pkg/runner"
)

// Reporter defines the interface for generating batch reports.
type Reporter interface {
	// GenerateReport renders a single grader's report.
	GenerateReport(report *runner.GraderReport) ([]byte, error)

	// GenerateSummary renders a whole run.
	GenerateSummary(summary *Summary) ([]byte, error)

	// WriteReport writes a grader's report to w.
	WriteReport(w io.Writer, report *runner.GraderReport) error
}

// Replaced in tests to reach marshal failure paths.
var (
	jsonMarshal       = json.Marshal
	jsonMarshalIndent = json.MarshalIndent
)

func writeGenerated(
	w io.Writer,
	generate func() ([]byte, error),
) error {
	data, err := generate()
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func statusLabel(s runner.Status) string {
	switch s {
	case runner.StatusHealthy:
		return "PASS"
	case runner.StatusUnhealthy:
		return "FAIL"
	default:
		return "ERROR"
	}
}
