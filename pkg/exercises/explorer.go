package exercises

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"

	"digital.vasic.grader/pkg/grading"
	"digital.vasic.grader/pkg/rubric"
	"digital.vasic.grader/pkg/validate"
)

var explorerFiles = []string{
	"src/index.ts",
	"src/utils/helpers.ts",
	"src/utils/math.ts",
	"src/components/Button.ts",
	"src/components/Modal.ts",
}

var explorerDatabase = map[string]any{
	"host":     "localhost",
	"port":     5432.0,
	"database": "challenge_db",
	"ssl":      false,
}

const (
	explorerPassPoints = 0.75
	explorerLocation   = "src/utils/math.ts:42"
	explorerLineCount  = 156
	explorerLineSlack  = 5
)

// FileExplorer grades what a learner found using the Glob, Grep
// and Read tools on a small TypeScript project.
type FileExplorer struct {
	grading.BaseGrader
}

// NewFileExplorer creates the file explorer grader.
func NewFileExplorer() *FileExplorer {
	return &FileExplorer{
		BaseGrader: grading.NewBaseGrader(grading.Info{
			ID:                  FileExplorerID,
			Name:                "File Explorer",
			Category:            grading.CategoryCLIFundamentals,
			Difficulty:          grading.DifficultyEasy,
			Kind:                grading.KindArtifact,
			Description:         "Find files, symbols and settings with the file tools",
			Prerequisites:       []grading.ID{StatusLineSetupID},
			TimeEstimateMinutes: 10,
			Hints: []string{
				"Glob with **/*.ts lists every TypeScript file",
				"Grep -n reports the line of a match",
				"Read the config file to extract the database settings",
			},
			Objectives: []string{
				"List every TypeScript file under src/",
				"Locate calculateTotal as file:line",
				"Extract the database configuration",
				"Count the lines of helpers.ts",
			},
		}),
	}
}

// Validate expects {"results": <results.json>} as JSON text or
// an object. Each of the four findings is worth 0.25; it passes
// at 0.75.
func (g *FileExplorer) Validate(sub grading.Submission) grading.Outcome {
	obj, err := validate.ParseObject(sub.Value("results"))
	if err != nil {
		return grading.Fail("No usable results: " + err.Error())
	}
	results := grading.Submission(obj)

	found := results.Strings("typescript_files")
	missing, extra := setDifference(explorerFiles, found)
	location := results.String("calculateTotal_location")
	lines := results.Float("helpers_line_count")
	distance := math.Abs(lines - explorerLineCount)

	checks := []rubric.Check{
		{
			Type:   "is_true", Target: "files_match",
			Points: 0.25,
			Pass:   "Good: All TypeScript files found correctly",
			Fail:   "Missing: TypeScript files mismatch" + fileMismatch(missing, extra),
		},
		{
			Type:   "is_true", Target: "location_match",
			Points: 0.25,
			Pass:   "Good: calculateTotal location correct",
			Fail: fmt.Sprintf(
				"Issue: calculateTotal location incorrect (expected %s, got %q)",
				explorerLocation, location),
		},
		{
			Type:   "is_true", Target: "database_match",
			Points: 0.25,
			Pass:   "Good: Database config extracted correctly",
			Fail:   "Issue: Database config mismatch",
		},
		{
			Type:   "is_true", Target: "lines_exact",
			Points: 0.25,
			Pass:   "Good: Line count accurate",
			Fail: fmt.Sprintf(
				"Issue: Line count incorrect (expected %d, got %g)",
				explorerLineCount, lines),
			Otherwise: &rubric.Check{
				Type:   "is_true", Target: "lines_close",
				Points: 0.15,
				Pass: fmt.Sprintf(
					"Partial: Line count close (expected %d, got %g)",
					explorerLineCount, lines),
			},
		},
	}

	tally := engine.Tally(checks, map[string]any{
		"files_match":    len(missing) == 0 && len(extra) == 0,
		"location_match": location == explorerLocation,
		"database_match": sameJSON(results.Value("database_config"), explorerDatabase),
		"lines_exact":    distance == 0,
		"lines_close":    distance <= explorerLineSlack,
	})

	return tally.Outcome(explorerPassPoints, map[string]any{
		"missing_files": missing,
		"extra_files":   extra,
		"line_count":    lines,
	})
}

// setDifference returns the expected items absent from found
// and the found items not expected, each sorted.
func setDifference(expected, found []string) (missing, extra []string) {
	missing, extra = []string{}, []string{}
	for _, e := range expected {
		if !slices.Contains(found, e) {
			missing = append(missing, e)
		}
	}
	for _, f := range found {
		if !slices.Contains(expected, f) && !slices.Contains(extra, f) {
			extra = append(extra, f)
		}
	}
	slices.Sort(missing)
	slices.Sort(extra)
	return missing, extra
}

func fileMismatch(missing, extra []string) string {
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing: "+grading.QuoteList(missing))
	}
	if len(extra) > 0 {
		parts = append(parts, "extra: "+grading.QuoteList(extra))
	}
	if len(parts) == 0 {
		return ""
	}
	return " (" + strings.Join(parts, "; ") + ")"
}

// sameJSON compares a value with want after a JSON round trip,
// so decoded and native Go values compare alike.
func sameJSON(got any, want map[string]any) bool {
	data, err := json.Marshal(got)
	if err != nil {
		return false
	}
	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return false
	}
	return reflect.DeepEqual(decoded, want)
}

// Scenarios returns the self-test fixtures.
func (g *FileExplorer) Scenarios() []grading.Scenario {
	return []grading.Scenario{
		grading.NewScenario(
			"All findings correct",
			"Results as results.json text",
			grading.Submission{"results": `{
				"typescript_files": ["src/index.ts", "src/utils/helpers.ts",
					"src/utils/math.ts", "src/components/Button.ts",
					"src/components/Modal.ts"],
				"calculateTotal_location": "src/utils/math.ts:42",
				"database_config": {"host": "localhost", "port": 5432,
					"database": "challenge_db", "ssl": false},
				"helpers_line_count": 156
			}`},
			true,
		),
		grading.NewScenario(
			"Close line count",
			"Decoded results with the line count off by three",
			grading.Submission{"results": map[string]any{
				"typescript_files":        rubric.Strings(explorerFiles...),
				"calculateTotal_location": explorerLocation,
				"database_config": map[string]any{
					"host":     "localhost",
					"port":     5432,
					"database": "challenge_db",
					"ssl":      false,
				},
				"helpers_line_count": 153,
			}},
			true,
		),
		grading.NewScenario(
			"Wrong location and config",
			"Files and line count only",
			grading.Submission{"results": map[string]any{
				"typescript_files":        rubric.Strings(explorerFiles...),
				"calculateTotal_location": "src/utils/math.ts",
				"database_config":         map[string]any{"host": "localhost"},
				"helpers_line_count":      156,
			}},
			false,
		),
		grading.NewScenario(
			"Invalid JSON",
			"results.json is not JSON",
			grading.Submission{"results": "{typescript_files: []"},
			false,
		),
	}
}
