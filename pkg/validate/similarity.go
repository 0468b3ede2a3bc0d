package validate

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/sourcegraph/go-diff/diff"

	"digital.vasic.grader/pkg/grading"
)

const (
	// DefaultSimilarityThreshold is the ratio Similarity
	// requires when no threshold is supplied.
	DefaultSimilarityThreshold = 0.8

	// maxDiffFeedbackLines bounds the diff shown in feedback.
	maxDiffFeedbackLines = 20
)

// Similarity scores how closely content matches expected,
// line by line. The ratio is 2*M/T over the two line sequences
// (M matched lines, T total lines), 1.0 for identical texts.
// Pass a threshold in [0, 1] or use
// DefaultSimilarityThreshold.
//
// On failure the feedback carries the first lines of a unified
// diff (expected -> submitted).
//
// Details: "similarity" (float64), "diffLines" (int, full diff
// length), "linesAdded" and "linesRemoved" (int).
func Similarity(
	content, expected string,
	threshold float64,
) grading.Outcome {
	contentLines := splitLines(content)
	expectedLines := splitLines(expected)

	ratio := difflib.NewMatcher(
		contentLines, expectedLines,
	).Ratio()
	passed := ratio >= threshold

	diffLines := unifiedDiff(expectedLines, contentLines)
	added, removed := diffStat(diffLines)

	feedback := fmt.Sprintf("Similarity: %s", percent(ratio))
	if !passed {
		feedback += fmt.Sprintf("\nRequired: %s", percent(threshold))
		if len(diffLines) > 0 {
			shown := diffLines
			if len(shown) > maxDiffFeedbackLines {
				shown = shown[:maxDiffFeedbackLines]
			}
			feedback += "\nDiff:\n" + strings.Join(shown, "\n")
		}
	}

	return grading.Outcome{
		Passed:   passed,
		Score:    ratio,
		Feedback: feedback,
		Details: map[string]any{
			"similarity":   ratio,
			"diffLines":    len(diffLines),
			"linesAdded":   added,
			"linesRemoved": removed,
		},
		PartialCredit: []string{},
	}
}

// splitLines trims surrounding whitespace and splits text into
// lines, accepting \n, \r\n, and \r endings.
func splitLines(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// unifiedDiff returns the unified diff from a to b as
// individual lines without terminators.
func unifiedDiff(a, b []string) []string {
	out, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        terminate(a),
		B:        terminate(b),
		FromFile: "expected",
		ToFile:   "submitted",
		Context:  3,
	})
	if err != nil || out == "" {
		return []string{}
	}
	return strings.Split(strings.TrimSuffix(out, "\n"), "\n")
}

// diffStat counts added and removed lines in a unified diff.
// Changed lines count as both.
func diffStat(lines []string) (added, removed int) {
	if len(lines) == 0 {
		return 0, 0
	}
	fd, err := diff.ParseFileDiff(
		[]byte(strings.Join(lines, "\n") + "\n"),
	)
	if err != nil {
		return 0, 0
	}
	st := fd.Stat()
	return int(st.Added + st.Changed), int(st.Deleted + st.Changed)
}

func terminate(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}

func percent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}
