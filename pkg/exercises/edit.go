package exercises

import (
	_ "embed"
	"fmt"
	"regexp"
	"strings"

	"digital.vasic.grader/pkg/grading"
	"digital.vasic.grader/pkg/validate"
)

//go:embed files/simple_edit/app.ts
var simpleEditStarter string

//go:embed files/simple_edit/app.fixed.ts
var simpleEditFixed string

// editFix is one targeted change expected in the starter file.
// A submission earns full points when exact matches and stale
// is gone, partial points when every loose pattern matches.
// exact and stale are case-sensitive; loose is not.
type editFix struct {
	name    string
	exact   string
	stale   string
	loose   []string
	partial int
	pass    string
	fail    string
}

var editFixes = []editFix{
	{
		name:    "variable",
		exact:   `(?-i)const userName\b`,
		stale:   `(?-i)usrName`,
		loose:   []string{`userName`},
		partial: 10,
		pass:    "Variable name fixed (usrName -> userName)",
		fail:    "Variable name not fixed. Expected: const userName",
	},
	{
		name:    "return_type",
		exact:   `(?-i)function getData\(\): Promise<Data>`,
		loose:   []string{`Promise<Data>`},
		partial: 15,
		pass:    "Return type updated to Promise<Data>",
		fail:    "Return type not updated to Promise<Data>",
	},
	{
		name:    "parameter_type",
		exact:   `(?-i)function processItem\(item: Item\)`,
		loose:   []string{`item: Item`},
		partial: 15,
		pass:    "Parameter type added (item: Item)",
		fail:    "Parameter still untyped",
	},
	{
		name:    "import",
		exact:   `(?-i)import \{ helper, utils \}`,
		loose:   []string{`import`, `helper`, `utils`},
		partial: 20,
		pass:    "Import updated to include utils",
		fail:    "Import not updated - still only 'helper'",
	},
}

// editLandmarks must survive a minimal edit.
var editLandmarks = []string{
	"interface Data",
	"interface Item",
	"async function main()",
	"fetch('/api/data')",
	"console.log(`Hello,",
}

const (
	editFixPoints  = 25
	editMaxPoints  = 100
	editPassPoints = 75
)

// SimpleEdit grades targeted edits to a TypeScript file: four
// fixes applied without rewriting the rest.
type SimpleEdit struct {
	grading.BaseGrader
}

// NewSimpleEdit creates the simple edit grader.
func NewSimpleEdit() *SimpleEdit {
	return &SimpleEdit{
		BaseGrader: grading.NewBaseGrader(grading.Info{
			ID:            SimpleEditID,
			Name:          "Simple Edit",
			Category:      grading.CategoryCLIFundamentals,
			Difficulty:    grading.DifficultyEasy,
			Kind:          grading.KindArtifact,
			Description:   "Make precise, targeted changes to a file with the Edit tool",
			Prerequisites: []grading.ID{StatusLineSetupID},
			Hints: []string{
				"Read the file first to see exact content",
				"Include enough context for unique matches",
			},
			Objectives: []string{
				"Fix typo: usrName -> userName",
				"Update return type to Promise<Data>",
				"Add type to processItem parameter",
				"Update import statement",
			},
			StarterFiles: map[string]string{"app.ts": simpleEditStarter},
		}),
	}
}

// Validate expects {"content": "<edited app.ts>"}. It passes
// at 75 fix points when the file also stays similar to the
// corrected version. The score is fix points/100.
func (g *SimpleEdit) Validate(sub grading.Submission) grading.Outcome {
	content := sub.String("content")
	if strings.TrimSpace(content) == "" {
		return grading.Fail("No file content submitted.")
	}

	var exact, stale []string
	for _, fix := range editFixes {
		exact = append(exact, fix.exact)
		if fix.stale != "" {
			stale = append(stale, fix.stale)
		}
	}
	fixes := validate.Output(content, exact, stale...)
	similarity := validate.Similarity(
		content, simpleEditFixed, validate.DefaultSimilarityThreshold,
	)

	var feedback []string
	credit := make([]string, 0, len(editFixes))
	total, applied := 0, 0
	for _, fix := range editFixes {
		points := fix.score(content)
		switch {
		case points == editFixPoints:
			applied++
			feedback = append(feedback, "PASS: "+fix.pass)
		case points > 0:
			feedback = append(feedback, "PARTIAL: "+fix.pass+" (format may differ)")
		default:
			feedback = append(feedback, "FAIL: "+fix.fail)
		}
		total += points
		credit = append(credit,
			fmt.Sprintf("%s: %d/%d", fix.name, points, editFixPoints))
	}

	landmarks := make([]string, len(editLandmarks))
	for i, l := range editLandmarks {
		landmarks[i] = regexp.QuoteMeta(l)
	}
	structure := validate.Output(content, landmarks)
	if structure.Passed {
		feedback = append(feedback, "File structure preserved")
	} else {
		feedback = append(feedback,
			"Warning: the Edit tool should make minimal changes. "+
				structure.Feedback)
	}
	feedback = append(feedback, similarity.Messages()...)

	if total < editPassPoints {
		feedback = append(feedback, fmt.Sprintf(
			"Not passed: %d/%d points, %d needed",
			total, editMaxPoints, editPassPoints,
		))
	}
	if !similarity.Passed {
		feedback = append(feedback,
			"Not passed: too different from the corrected file, edit in place instead of rewriting")
	}

	return grading.Outcome{
		Passed:   total >= editPassPoints && similarity.Passed,
		Score:    float64(total) / editMaxPoints,
		Feedback: grading.JoinFeedback(feedback, ""),
		Details: map[string]any{
			"fixes_applied":       applied,
			"points":              total,
			"similarity":          similarity.Score,
			"structure_preserved": structure.Passed,
			"missing_fixes":       fixes.Detail("missing"),
		},
		PartialCredit: credit,
	}
}

func (f editFix) score(content string) int {
	if validate.MatchAny(content, f.exact) &&
		(f.stale == "" || !validate.MatchAny(content, f.stale)) {
		return editFixPoints
	}
	if validate.Output(content, f.loose).Passed {
		return f.partial
	}
	return 0
}

// Scenarios returns the self-test fixtures.
func (g *SimpleEdit) Scenarios() []grading.Scenario {
	rewritten := strings.Join([]string{
		"import { helper, utils } from './utils';",
		"const userName = 'John';",
		"async function getData(): Promise<Data> { return (await fetch('/x')).json(); }",
		"function processItem(item: Item) { return item; }",
	}, "\n")
	renamedOnly := strings.ReplaceAll(simpleEditStarter, "usrName", "userName")
	reordered := strings.Replace(simpleEditFixed,
		"import { helper, utils }", "import { utils, helper }", 1)

	return []grading.Scenario{
		grading.NewScenario(
			"All fixes applied",
			"The corrected file",
			grading.Submission{"content": simpleEditFixed},
			true,
		),
		grading.NewScenario(
			"Fixes with comments kept",
			"All fixes applied in place, bug comments left in",
			grading.Submission{"content": applyEditFixes(simpleEditStarter)},
			true,
		),
		grading.NewScenario(
			"Imports reordered",
			"All fixes applied with the import names in another order",
			grading.Submission{"content": reordered},
			true,
		),
		grading.NewScenario(
			"Untouched starter",
			"Nothing edited",
			grading.Submission{"content": simpleEditStarter},
			false,
		),
		grading.NewScenario(
			"Rename only",
			"Only the variable was renamed",
			grading.Submission{"content": renamedOnly},
			false,
		),
		grading.NewScenario(
			"Rewritten file",
			"Every fix present but the file was rewritten from scratch",
			grading.Submission{"content": rewritten},
			false,
		),
	}
}

// applyEditFixes performs the four edits on the starter text.
func applyEditFixes(src string) string {
	return strings.NewReplacer(
		"import { helper }", "import { helper, utils }",
		"usrName", "userName",
		"getData(): any", "getData(): Promise<Data>",
		"processItem(item)", "processItem(item: Item)",
	).Replace(src)
}
