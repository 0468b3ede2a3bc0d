package exercises

import (
	"fmt"
	"math"
	"strings"

	"digital.vasic.grader/pkg/grading"
	"digital.vasic.grader/pkg/rubric"
	"digital.vasic.grader/pkg/validate"
)

var searchTodoFiles = []string{
	"starter/src/api.ts",
	"starter/src/utils/helpers.ts",
	"starter/src/components/Form.tsx",
}

const (
	searchPassPoints   = 0.75
	searchTodoPoints   = 25
	searchAsyncCount   = 4
	searchImportCount  = 3
	searchConsoleCount = 12
	searchConsoleSlack = 2
	searchPathPrefix   = "starter/"
)

// SearchMaster grades Grep and Glob findings: TODO files, async
// functions with locations, @/utils imports and a console.log
// count.
type SearchMaster struct {
	grading.BaseGrader
}

// NewSearchMaster creates the search master grader.
func NewSearchMaster() *SearchMaster {
	return &SearchMaster{
		BaseGrader: grading.NewBaseGrader(grading.Info{
			ID:                  SearchMasterID,
			Name:                "Search Master",
			Category:            grading.CategoryCLIFundamentals,
			Difficulty:          grading.DifficultyEasy,
			Kind:                grading.KindArtifact,
			Description:         "Answer questions about a codebase with Grep and Glob",
			Prerequisites:       []grading.ID{FileExplorerID},
			TimeEstimateMinutes: 15,
			Hints: []string{
				"Grep with files_with_matches lists files, content mode shows lines",
				"Use -n to get line numbers for each match",
				"Grep count mode totals matches per file",
			},
			Objectives: []string{
				"Find every file with a TODO comment",
				"List async functions with file and line",
				"Find imports from @/utils",
				"Count console.log calls",
			},
		}),
	}
}

// Validate expects {"results": <search_results.json>} as JSON
// text or an object. Each of the four answers is worth 0.25; it
// passes at 0.75.
func (g *SearchMaster) Validate(sub grading.Submission) grading.Outcome {
	obj, err := validate.ParseObject(sub.Value("results"))
	if err != nil {
		return grading.Fail("No usable search results: " + err.Error())
	}
	results := grading.Submission(obj)

	found := normalizeSearchPaths(results.Strings("todo_files"))
	missing, extra := setDifference(normalizeSearchPaths(searchTodoFiles), found)
	matched := len(searchTodoFiles) - len(missing)
	// Partial TODO credit is truncated to whole points out of 25.
	todoPoints := math.Floor(
		float64(matched)/float64(len(searchTodoFiles))*searchTodoPoints,
	) / 100

	asyncFuncs, _ := results.Value("async_functions").([]any)
	imports, _ := results.Value("util_imports").([]any)
	console := results.Float("console_log_count")
	consoleOff := math.Abs(console - searchConsoleCount)

	checks := []rubric.Check{
		{
			Type:   "is_true", Target: "todo_exact",
			Points: 0.25,
			Pass:   "Good: All TODO files found correctly",
			Otherwise: &rubric.Check{
				Type:   "min_value", Target: "todo_matched", Value: 0,
				Points: todoPoints,
				Pass: fmt.Sprintf(
					"Partial: Found %d/%d TODO files%s",
					matched, len(searchTodoFiles), fileMismatch(missing, extra)),
			},
		},
		{
			Type: "min_count", Target: "async", Value: 1,
			Fail: "Missing: No async functions found",
			Then: []rubric.Check{
				{
					Type:   "min_count", Target: "async", Value: searchAsyncCount,
					Points: 0.15,
					Pass:   fmt.Sprintf("Good: Found %d async functions", len(asyncFuncs)),
					Otherwise: &rubric.Check{
						Type:   "min_count", Target: "async", Value: 1,
						Points: 0.08,
						Pass: fmt.Sprintf(
							"Partial: Found %d, expected at least %d",
							len(asyncFuncs), searchAsyncCount),
					},
				},
				{
					Type:   "is_true", Target: "async_located",
					Points: 0.1,
					Pass:   "Good: Results include file and line numbers",
					Fail:   "Missing: File or line number information",
				},
			},
		},
		{
			Type:   "min_count", Target: "imports", Value: searchImportCount,
			Points: 0.25,
			Pass:   fmt.Sprintf("Good: Found %d @/utils imports", len(imports)),
			Fail:   "Missing: No @/utils imports found",
			Otherwise: &rubric.Check{
				Type:   "min_count", Target: "imports", Value: 1,
				Points: 0.15,
				Pass: fmt.Sprintf(
					"Partial: Found %d, expected at least %d",
					len(imports), searchImportCount),
			},
		},
		{
			Type:   "is_true", Target: "console_exact",
			Points: 0.25,
			Pass:   fmt.Sprintf("Good: console.log count correct (%g)", console),
			Fail: fmt.Sprintf(
				"Issue: Count incorrect (%g, expected %d)",
				console, searchConsoleCount),
			Otherwise: &rubric.Check{
				Type:   "is_true", Target: "console_close",
				Points: 0.15,
				Pass: fmt.Sprintf(
					"Partial: Count close (%g, expected %d)",
					console, searchConsoleCount),
			},
		},
	}

	tally := engine.Tally(checks, map[string]any{
		"todo_exact":    len(missing) == 0 && len(extra) == 0,
		"todo_matched":  matched,
		"async":         asyncFuncs,
		"async_located": located(asyncFuncs),
		"imports":       imports,
		"console_exact": consoleOff == 0,
		"console_close": consoleOff <= searchConsoleSlack,
	})

	return tally.Outcome(searchPassPoints, map[string]any{
		"todo_found":      matched,
		"missing_todos":   missing,
		"async_functions": len(asyncFuncs),
		"util_imports":    len(imports),
	})
}

// normalizeSearchPaths folds separators, drops leading ./ and
// anchors every path under starter/.
func normalizeSearchPaths(paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = strings.TrimLeft(strings.ReplaceAll(p, `\`, "/"), "./")
		if !strings.HasPrefix(p, searchPathPrefix) {
			p = searchPathPrefix + p
		}
		out = append(out, p)
	}
	return out
}

// located reports whether every entry is an object carrying
// file and line.
func located(entries []any) bool {
	if len(entries) == 0 {
		return false
	}
	for _, e := range entries {
		obj, ok := e.(map[string]any)
		if !ok {
			return false
		}
		if _, ok := obj["file"]; !ok {
			return false
		}
		if _, ok := obj["line"]; !ok {
			return false
		}
	}
	return true
}

// Scenarios returns the self-test fixtures.
func (g *SearchMaster) Scenarios() []grading.Scenario {
	return []grading.Scenario{
		grading.NewScenario(
			"Complete search",
			"Every answer correct, paths given relative to starter/",
			grading.Submission{"results": `{
				"todo_files": ["./src/api.ts", "src\\utils\\helpers.ts",
					"starter/src/components/Form.tsx"],
				"async_functions": [
					{"file": "src/api.ts", "line": 3, "name": "fetchUsers"},
					{"file": "src/api.ts", "line": 12, "name": "createUser"},
					{"file": "src/services/auth.ts", "line": 5, "name": "login"},
					{"file": "src/services/auth.ts", "line": 20, "name": "logout"}
				],
				"util_imports": ["src/api.ts", "src/services/auth.ts",
					"src/components/Form.tsx"],
				"console_log_count": 12
			}`},
			true,
		),
		grading.NewScenario(
			"Near misses",
			"Two of three TODO files, unlocated async functions and a close count",
			grading.Submission{"results": map[string]any{
				"todo_files":        []any{"src/api.ts", "src/utils/helpers.ts"},
				"async_functions":   []any{"fetchUsers", "createUser"},
				"util_imports":      []any{"src/api.ts"},
				"console_log_count": 11,
			}},
			false,
		),
		grading.NewScenario(
			"Not an object",
			"search_results.json holds a list",
			grading.Submission{"results": `["src/api.ts"]`},
			false,
		),
	}
}
