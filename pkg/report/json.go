package report

import (
	"io"

	"digital.vasic.grader/pkg/runner"
)

// JSONReporter renders reports as JSON.
type JSONReporter struct {
	pretty bool
}

// NewJSONReporter creates a JSON reporter. When pretty is true,
// output is indented for readability.
func NewJSONReporter(pretty bool) *JSONReporter {
	return &JSONReporter{pretty: pretty}
}

func (r *JSONReporter) marshal(v any) ([]byte, error) {
	if r.pretty {
		return jsonMarshalIndent(v, "", "  ")
	}
	return jsonMarshal(v)
}

// GenerateReport renders a grader report as JSON.
func (r *JSONReporter) GenerateReport(
	report *runner.GraderReport,
) ([]byte, error) {
	return r.marshal(report)
}

// GenerateSummary renders a run summary as JSON.
func (r *JSONReporter) GenerateSummary(
	summary *Summary,
) ([]byte, error) {
	return r.marshal(summary)
}

// WriteReport writes a JSON grader report to w.
func (r *JSONReporter) WriteReport(
	w io.Writer,
	report *runner.GraderReport,
) error {
	return writeGenerated(w, func() ([]byte, error) {
		return r.GenerateReport(report)
	})
}
