package report

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"time"

	"digital.vasic.grader/pkg/runner"
)

// HTMLReporter renders reports as standalone HTML pages.
type HTMLReporter struct{}

// NewHTMLReporter creates an HTML reporter.
func NewHTMLReporter() *HTMLReporter {
	return &HTMLReporter{}
}

// GenerateReport renders one grader's report page.
func (r *HTMLReporter) GenerateReport(
	report *runner.GraderReport,
) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.WriteReport(&buf, report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteReport writes an HTML grader report to w.
func (r *HTMLReporter) WriteReport(
	w io.Writer,
	report *runner.GraderReport,
) error {
	writeHeader(w, "Grader Report: "+report.Name)

	fmt.Fprintf(w, "<h1>Grader Report: %s</h1>\n",
		html.EscapeString(report.Name))
	fmt.Fprintf(w, "<p><strong>Grader ID:</strong> %s</p>\n",
		html.EscapeString(string(report.ID)))

	fmt.Fprintln(w, "<h2>Summary</h2>")
	fmt.Fprintln(w, "<table>")
	fmt.Fprintln(w, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(w,
		"<tr><td>Status</td><td class=\"%s\"><strong>%s</strong></td></tr>\n",
		statusClass(report.Status), statusLabel(report.Status))
	fmt.Fprintf(w, "<tr><td>Start Time</td><td>%s</td></tr>\n",
		report.StartTime.Format(time.RFC3339))
	fmt.Fprintf(w, "<tr><td>Duration</td><td>%v</td></tr>\n",
		report.Duration)
	fmt.Fprintf(w, "<tr><td>Weighted Agreement</td><td>%.0f%%</td></tr>\n",
		report.WeightedAgreement*100)
	if report.Error != "" {
		fmt.Fprintf(w,
			"<tr><td>Error</td><td class=\"status-failed\">%s</td></tr>\n",
			html.EscapeString(report.Error))
	}
	fmt.Fprintln(w, "</table>")

	if len(report.Scenarios) > 0 {
		fmt.Fprintln(w, "<h2>Scenarios</h2>")
		fmt.Fprintln(w, "<table>")
		fmt.Fprintln(w,
			"<tr><th>Scenario</th><th>Expected</th><th>Passed</th>"+
				"<th>Score</th><th>Feedback</th></tr>")
		for _, s := range report.Scenarios {
			cls := "status-passed"
			if !s.Agreed {
				cls = "status-failed"
			}
			fmt.Fprintf(w,
				"<tr><td>%s</td><td>%t</td><td class=\"%s\">%t</td>"+
					"<td>%.2f</td><td><pre>%s</pre></td></tr>\n",
				html.EscapeString(s.Name), s.Expected, cls, s.Passed,
				s.Score, html.EscapeString(s.Feedback))
		}
		fmt.Fprintln(w, "</table>")
	}

	writeFooter(w)
	return nil
}

// GenerateSummary renders a run overview page.
func (r *HTMLReporter) GenerateSummary(
	summary *Summary,
) ([]byte, error) {
	var buf bytes.Buffer
	writeHeader(&buf, "Grader Self-Test Summary")

	fmt.Fprintln(&buf, "<h1>Grader Self-Test Summary</h1>")
	fmt.Fprintf(&buf, "<p><strong>Run ID:</strong> %s</p>\n",
		html.EscapeString(summary.ID))
	fmt.Fprintf(&buf, "<p><strong>Generated:</strong> %s</p>\n",
		summary.GeneratedAt.Format(time.RFC3339))

	fmt.Fprintln(&buf, "<h2>Overview</h2>")
	fmt.Fprintln(&buf, "<table>")
	fmt.Fprintln(&buf,
		"<tr><th>Grader</th><th>Status</th><th>Scenarios</th>"+
			"<th>Duration</th></tr>")
	for _, g := range summary.Graders {
		fmt.Fprintf(&buf,
			"<tr><td>%s</td><td class=\"%s\">%s</td>"+
				"<td>%d/%d</td><td>%v</td></tr>\n",
			html.EscapeString(g.Name), statusClass(g.Status),
			statusLabel(g.Status), g.Agreed, g.Scenarios, g.Duration)
	}
	fmt.Fprintln(&buf, "</table>")

	fmt.Fprintln(&buf, "<h2>Statistics</h2>")
	fmt.Fprintln(&buf, "<table>")
	fmt.Fprintln(&buf, "<tr><th>Metric</th><th>Value</th></tr>")
	fmt.Fprintf(&buf, "<tr><td>Total Graders</td><td>%d</td></tr>\n", summary.Total)
	fmt.Fprintf(&buf, "<tr><td>Healthy</td><td>%d</td></tr>\n", summary.Healthy)
	fmt.Fprintf(&buf, "<tr><td>Unhealthy</td><td>%d</td></tr>\n", summary.Unhealthy)
	fmt.Fprintf(&buf, "<tr><td>Errors</td><td>%d</td></tr>\n", summary.Errors)
	fmt.Fprintf(&buf, "<tr><td>Health Rate</td><td>%.0f%%</td></tr>\n",
		summary.HealthRate*100)
	fmt.Fprintln(&buf, "</table>")

	writeFooter(&buf)
	return buf.Bytes(), nil
}

func statusClass(s runner.Status) string {
	if s == runner.StatusHealthy {
		return "status-passed"
	}
	return "status-failed"
}

func writeHeader(w io.Writer, title string) {
	fmt.Fprintf(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>%s</title>
<style>
body {
  font-family: -apple-system, BlinkMacSystemFont,
    "Segoe UI", Roboto, sans-serif;
  max-width: 960px;
  margin: 0 auto;
  padding: 20px;
  color: #333;
  background: #f9f9f9;
}
h1 { color: #2c3e50; border-bottom: 2px solid #3498db; padding-bottom: 10px; }
h2 { color: #2c3e50; margin-top: 30px; }
table { border-collapse: collapse; width: 100%%; margin: 10px 0; background: #fff; }
th, td { border: 1px solid #ddd; padding: 8px 12px; text-align: left; vertical-align: top; }
th { background: #3498db; color: #fff; }
tr:nth-child(even) { background: #f2f2f2; }
pre { margin: 0; white-space: pre-wrap; font-size: 0.9em; }
.status-passed { color: #27ae60; font-weight: bold; }
.status-failed { color: #e74c3c; font-weight: bold; }
footer { margin-top: 40px; padding-top: 10px; border-top: 1px solid #ddd; color: #7f8c8d; }
</style>
</head>
<body>
`, html.EscapeString(title))
}

func writeFooter(w io.Writer) {
	fmt.Fprintf(w, "<footer>Generated %s</footer>\n</body>\n</html>\n",
		time.Now().Format(time.RFC3339))
}
