package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"digital.vasic.grader/pkg/runner"
)

// WriteConsole prints one "[PASS] id: message" or
// "[FAIL] id: message" line per grader, then
// "Summary: N passed, M failed". Errored graders count as
// failed. Labels are coloured when useColor is set.
func WriteConsole(
	w io.Writer,
	reports []*runner.GraderReport,
	useColor bool,
) error {
	pass := color.New(color.FgGreen, color.Bold)
	fail := color.New(color.FgRed, color.Bold)
	for _, c := range []*color.Color{pass, fail} {
		if useColor {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}

	passed, failed := 0, 0
	for _, r := range reports {
		label := fail.Sprint("[FAIL]")
		if r.Healthy() {
			label = pass.Sprint("[PASS]")
			passed++
		} else {
			failed++
		}
		if _, err := fmt.Fprintf(
			w, "%s %s: %s\n", label, r.ID, consoleMessage(r),
		); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(
		w, "\nSummary: %d passed, %d failed\n", passed, failed,
	)
	return err
}

func consoleMessage(r *runner.GraderReport) string {
	if r.Status == runner.StatusError {
		return r.Error
	}
	msg := fmt.Sprintf(
		"%d/%d scenarios agreed", r.Agreed, len(r.Scenarios),
	)
	if bad := r.Disagreements(); len(bad) > 0 {
		names := make([]string, len(bad))
		for i, s := range bad {
			names[i] = s.Name
		}
		msg += " (disagreed: " + strings.Join(names, ", ") + ")"
	}
	return msg
}
