package exercises

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"digital.vasic.grader/pkg/grading"
	"digital.vasic.grader/pkg/validate"
)

var commitTypes = []string{
	"feat", "fix", "docs", "style", "refactor",
	"test", "chore", "perf", "ci", "build",
}

var (
	conventionalSubject = `^(` + strings.Join(commitTypes, "|") +
		`)(\([^)]+\))?:\s+.+`
	lowercaseSubject   = regexp.MustCompile(`^[a-z]+(\([^)]+\))?:\s+[a-z]`)
	subjectDescription = regexp.MustCompile(`^[^:]+:\s+(.+)$`)
)

// commitPlaceholders are left-over template text in a message.
var commitPlaceholders = []string{
	`<type>`, `<description>`, `\bTODO\b`, `lorem ipsum`,
}

var genericDescriptions = []string{
	"update", "changes", "stuff", "fix", "things", "misc",
}

const (
	commitPassPoints     = 75
	commitMaxSubject     = 72
	commitMinDescription = 10
)

// QuickCommit grades a conventional commit message with a
// co-author footer.
type QuickCommit struct {
	grading.BaseGrader
}

// NewQuickCommit creates the quick commit grader.
func NewQuickCommit() *QuickCommit {
	return &QuickCommit{
		BaseGrader: grading.NewBaseGrader(grading.Info{
			ID:                  QuickCommitID,
			Name:                "Quick Commit",
			Category:            grading.CategoryCLIFundamentals,
			Difficulty:          grading.DifficultyEasy,
			Kind:                grading.KindOutput,
			Description:         "Create a proper git commit following conventional commit standards",
			Prerequisites:       []grading.ID{StatusLineSetupID},
			TimeEstimateMinutes: 10,
			Hints: []string{
				"Use git diff to see what changed",
				"Types: feat, fix, docs, style, refactor, test, chore",
			},
			Objectives: []string{
				"Stage the modified files",
				"Analyze changes to understand modifications",
				"Create conventional commit message",
				"Include Co-Authored-By footer",
			},
		}),
	}
}

// Validate expects {"message": "..."}. The message earns up to
// 100 points over type, format, description and footer; it
// passes at 75 points with no placeholder text. The score is
// points/100.
func (g *QuickCommit) Validate(sub grading.Submission) grading.Outcome {
	message := strings.TrimSpace(sub.String("message"))
	if message == "" {
		return grading.Fail("No commit message submitted.")
	}
	subject, _, _ := strings.Cut(message, "\n")

	var feedback []string
	credit := make([]string, 0, 4)
	award := func(step string, points, of int) int {
		credit = append(credit, fmt.Sprintf("%s: %d/%d", step, points, of))
		return points
	}

	total := 0

	typed := validate.Output(subject, []string{conventionalSubject})
	typePoints := 0
	if typed.Passed {
		typePoints = 25
		feedback = append(feedback, "Valid commit type")
	} else {
		feedback = append(feedback,
			"Invalid commit type or format. Expected: <type>[(scope)]: <description>")
	}
	total += award("type", typePoints, 25)

	formatPoints := 0
	if n := utf8.RuneCountInString(subject); n <= commitMaxSubject {
		formatPoints += 10
	} else {
		feedback = append(feedback,
			fmt.Sprintf("Subject line too long (%d chars)", n))
	}
	if subject != strings.ToUpper(subject) {
		formatPoints += 5
	} else {
		feedback = append(feedback, "Subject line should not be all caps")
	}
	if lowercaseSubject.MatchString(subject) {
		formatPoints += 10
	} else {
		formatPoints += 5
		feedback = append(feedback,
			"Consider starting description with lowercase")
	}
	total += award("format", formatPoints, 25)

	descPoints := 0
	if m := subjectDescription.FindStringSubmatch(subject); m == nil {
		feedback = append(feedback, "Could not extract description")
	} else {
		desc := m[1]
		switch {
		case slices.Contains(genericDescriptions, strings.ToLower(strings.TrimSpace(desc))):
			feedback = append(feedback,
				fmt.Sprintf("Description too generic: '%s'", desc))
		case utf8.RuneCountInString(desc) < commitMinDescription:
			descPoints = 10
			feedback = append(feedback,
				fmt.Sprintf("Description too short: '%s'", desc))
		default:
			descPoints = 25
			feedback = append(feedback, "Descriptive commit message")
		}
	}
	total += award("description", descPoints, 25)

	footer := validate.Output(message, []string{`co-authored-by:`, `claude`})
	footerPoints := 0
	switch {
	case footer.Passed:
		footerPoints = 25
		feedback = append(feedback, "Co-Authored-By footer present")
	case validate.MatchAny(message, `co-authored-by:`):
		footerPoints = 15
		feedback = append(feedback,
			"Co-Authored-By present but missing Claude attribution")
	default:
		feedback = append(feedback, "Missing Co-Authored-By footer")
	}
	total += award("co_author", footerPoints, 25)

	placeholders := validate.Output(message, nil, commitPlaceholders...)
	if !placeholders.Passed {
		feedback = append(feedback, placeholders.Feedback)
	}

	return grading.Outcome{
		Passed:   total >= commitPassPoints && placeholders.Passed,
		Score:    float64(total) / 100,
		Feedback: grading.JoinFeedback(feedback, ""),
		Details: map[string]any{
			"points":         total,
			"subject":        subject,
			"subject_length": utf8.RuneCountInString(subject),
			"placeholders":   placeholders.Detail("forbiddenFound"),
		},
		PartialCredit: credit,
	}
}

// Scenarios returns the self-test fixtures.
func (g *QuickCommit) Scenarios() []grading.Scenario {
	return []grading.Scenario{
		grading.NewScenario(
			"Conventional commit with footer",
			"Scoped type, descriptive subject and co-author footer",
			grading.Submission{"message": "feat(auth): add token refresh on expiry\n\n" +
				"Co-Authored-By: Claude <noreply@anthropic.com>"},
			true,
		),
		grading.NewScenario(
			"No footer",
			"A clean conventional subject is enough on its own",
			grading.Submission{"message": "fix: handle empty cart totals"},
			true,
		),
		grading.NewScenario(
			"Generic message",
			"Free-form subject without a type",
			grading.Submission{"message": "update stuff"},
			false,
		),
		grading.NewScenario(
			"Template left in",
			"Footer present but the subject is still the template",
			grading.Submission{"message": "feat: <description> of the change\n\n" +
				"Co-Authored-By: Claude <noreply@anthropic.com>"},
			false,
		),
	}
}
