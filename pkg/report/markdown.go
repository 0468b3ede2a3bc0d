package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"digital.vasic.grader/pkg/runner"
)

// MarkdownReporter renders reports as Markdown tables.
type MarkdownReporter struct{}

// NewMarkdownReporter creates a Markdown reporter.
func NewMarkdownReporter() *MarkdownReporter {
	return &MarkdownReporter{}
}

// GenerateReport renders one grader's scenarios.
func (r *MarkdownReporter) GenerateReport(
	report *runner.GraderReport,
) ([]byte, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Grader Report: %s\n\n", report.Name)
	fmt.Fprintf(&sb, "**Grader ID:** %s\n\n", report.ID)
	fmt.Fprintf(&sb, "**Status:** %s\n\n", statusLabel(report.Status))
	fmt.Fprintf(&sb, "**Started:** %s\n\n",
		report.StartTime.Format(time.RFC3339))
	if report.Error != "" {
		fmt.Fprintf(&sb, "**Error:** %s\n\n", report.Error)
	}

	sb.WriteString("## Scenarios\n\n")
	sb.WriteString("| Scenario | Source | Expected | Passed | Score | Weight | Agreed |\n")
	sb.WriteString("|----------|--------|----------|--------|-------|--------|--------|\n")
	for _, s := range report.Scenarios {
		fmt.Fprintf(&sb, "| %s | %s | %t | %t | %.2f | %.2f | %s |\n",
			escapeCell(s.Name), s.Source, s.Expected, s.Passed,
			s.Score, s.Weight, yesNo(s.Agreed))
	}

	fmt.Fprintf(&sb, "\n**Agreement:** %d/%d (weighted %.0f%%)\n",
		report.Agreed, len(report.Scenarios),
		report.WeightedAgreement*100)
	return []byte(sb.String()), nil
}

// GenerateSummary renders a run overview and statistics.
func (r *MarkdownReporter) GenerateSummary(
	summary *Summary,
) ([]byte, error) {
	var sb strings.Builder

	sb.WriteString("# Grader Self-Test Summary\n\n")
	fmt.Fprintf(&sb, "**Run ID:** %s\n\n", summary.ID)
	fmt.Fprintf(&sb, "**Generated:** %s\n\n",
		summary.GeneratedAt.Format(time.RFC3339))

	sb.WriteString("## Overview\n\n")
	sb.WriteString("| Grader | Status | Scenarios | Weighted | Duration |\n")
	sb.WriteString("|--------|--------|-----------|----------|----------|\n")
	for _, g := range summary.Graders {
		fmt.Fprintf(&sb, "| %s | %s | %d/%d | %.0f%% | %v |\n",
			g.ID, statusLabel(g.Status), g.Agreed, g.Scenarios,
			g.WeightedAgreement*100, g.Duration)
	}

	sb.WriteString("\n## Statistics\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	fmt.Fprintf(&sb, "| Total Graders | %d |\n", summary.Total)
	fmt.Fprintf(&sb, "| Healthy | %d |\n", summary.Healthy)
	fmt.Fprintf(&sb, "| Unhealthy | %d |\n", summary.Unhealthy)
	fmt.Fprintf(&sb, "| Errors | %d |\n", summary.Errors)
	fmt.Fprintf(&sb, "| Scenarios Agreed | %d/%d |\n",
		summary.ScenariosAgreed, summary.ScenariosTotal)
	fmt.Fprintf(&sb, "| Health Rate | %.0f%% |\n", summary.HealthRate*100)
	fmt.Fprintf(&sb, "| Total Duration | %v |\n", summary.TotalDuration)

	return []byte(sb.String()), nil
}

// WriteReport writes a Markdown grader report to w.
func (r *MarkdownReporter) WriteReport(
	w io.Writer,
	report *runner.GraderReport,
) error {
	return writeGenerated(w, func() ([]byte, error) {
		return r.GenerateReport(report)
	})
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
