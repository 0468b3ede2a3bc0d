// Package validate provides the general-purpose scoring
// primitives exercise graders compose from: command-sequence
// comparison, output-pattern matching, text-similarity scoring,
// and JSON-structure checking. Every primitive is a pure
// function of its arguments and is safe for concurrent use.
package validate

import (
	"fmt"
	"sort"
	"strings"

	"digital.vasic.grader/pkg/grading"
)

// CommandPassThreshold is the fraction of expected commands
// that must match for Commands to pass.
const CommandPassThreshold = 0.8

type commandConfig struct {
	strictOrder  bool
	alternatives map[string][]string
}

// CommandOption configures Commands.
type CommandOption func(*commandConfig)

// WithStrictOrder sets whether submitted commands are compared
// position by position (the default) or as sets.
func WithStrictOrder(strict bool) CommandOption {
	return func(c *commandConfig) {
		c.strictOrder = strict
	}
}

// WithAlternatives maps an expected command to substitutes that
// are accepted in its place. Keys are matched against expected
// commands exactly as written.
func WithAlternatives(alts map[string][]string) CommandOption {
	return func(c *commandConfig) {
		c.alternatives = alts
	}
}

// NormalizeCommand canonicalises a command for comparison:
// whitespace runs collapse to one space, single quotes become
// double quotes, and the result is lower-cased and trimmed.
func NormalizeCommand(cmd string) string {
	cmd = strings.Join(strings.Fields(cmd), " ")
	cmd = strings.ReplaceAll(cmd, "'", `"`)
	return strings.TrimSpace(strings.ToLower(cmd))
}

// Commands compares a submitted command list against an
// expected one. Score is matched/len(expected), and the outcome
// passes at CommandPassThreshold. An empty expected list scores
// 0.0 and never passes.
//
// Details: "matched" (int), "total" (int); in unordered mode
// also "missing" ([]string, normalised and sorted).
func Commands(
	submitted, expected []string,
	opts ...CommandOption,
) grading.Outcome {
	cfg := commandConfig{strictOrder: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	var (
		matched  int
		feedback []string
		credit   = []string{}
		details  = map[string]any{}
	)

	if cfg.strictOrder {
		n := min(len(submitted), len(expected))
		for i := 0; i < n; i++ {
			sub, exp := submitted[i], expected[i]
			if commandMatches(sub, exp, cfg.alternatives[exp]) {
				matched++
				credit = append(
					credit, fmt.Sprintf("Step %d: Correct", i+1),
				)
				continue
			}
			feedback = append(feedback, fmt.Sprintf(
				"Step %d: Expected '%s', got '%s'",
				i+1, exp, sub,
			))
		}
		if unanswered := len(expected) - n; unanswered > 0 {
			feedback = append(feedback, fmt.Sprintf(
				"Missing %d expected command(s) after step %d",
				unanswered, n,
			))
		}
	} else {
		want := normalizedSet(expected)
		have := normalizedSet(submitted)
		missing := []string{}
		for cmd := range want {
			if _, ok := have[cmd]; ok {
				matched++
			} else {
				missing = append(missing, cmd)
			}
		}
		sort.Strings(missing)
		if len(missing) > 0 {
			feedback = append(feedback, fmt.Sprintf(
				"Missing commands: %s", grading.QuoteList(missing),
			))
		}
		details["missing"] = missing
	}

	score := 0.0
	if len(expected) > 0 {
		score = float64(matched) / float64(len(expected))
	}

	details["matched"] = matched
	details["total"] = len(expected)

	fallback := "All commands correct!"
	if len(expected) == 0 {
		fallback = "No expected commands defined"
	}

	return grading.Outcome{
		Passed:        score >= CommandPassThreshold,
		Score:         score,
		Feedback:      grading.JoinFeedback(feedback, fallback),
		Details:       details,
		PartialCredit: credit,
	}
}

// commandMatches reports whether sub is equivalent to exp or to
// one of its declared alternatives.
func commandMatches(sub, exp string, alternatives []string) bool {
	got := NormalizeCommand(sub)
	if got == NormalizeCommand(exp) {
		return true
	}
	for _, alt := range alternatives {
		if got == NormalizeCommand(alt) {
			return true
		}
	}
	return false
}

func normalizedSet(cmds []string) map[string]struct{} {
	set := make(map[string]struct{}, len(cmds))
	for _, c := range cmds {
		set[NormalizeCommand(c)] = struct{}{}
	}
	return set
}
