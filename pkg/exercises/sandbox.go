package exercises

import (
	"strings"

	"github.com/MakeNowJust/heredoc/v2"

	"digital.vasic.grader/pkg/grading"
	"digital.vasic.grader/pkg/rubric"
)

const (
	sandboxPassPoints = 0.6
	skipPermissions   = "--dangerously-skip-permissions"
)

// ContainerSandbox grades running the agent inside a container
// with mounted work, passed credentials, and a review step.
type ContainerSandbox struct {
	grading.BaseGrader
}

// NewContainerSandbox creates the container sandbox grader.
func NewContainerSandbox() *ContainerSandbox {
	return &ContainerSandbox{
		BaseGrader: grading.NewBaseGrader(grading.Info{
			ID:          ContainerSandboxID,
			Name:        "Container Sandbox",
			Category:    grading.CategoryAdvancedOrchestration,
			Difficulty:  grading.DifficultyHard,
			Kind:        grading.KindArtifact,
			Description: "Run Claude Code in containers for safe execution of risky operations",
			RelatedTips: []int{21},
			Prerequisites: []grading.ID{
				TmuxTestPatternID,
				TerminalCascadeID,
			},
			TimeEstimateMinutes: 30,
			Hints: []string{
				"Use Node.js LTS as base image (Claude Code requires Node)",
				"Mount work directory read-write, credentials read-only",
				"Pass API key via environment variable",
				"Use --rm for automatic container cleanup",
				"Always review changes before applying to main system",
			},
			Objectives: []string{
				"Understand container isolation for safe execution",
				"Configure volume mounts for data access",
				"Use --dangerously-skip-permissions safely",
				"Implement review-before-apply workflows",
			},
		}),
	}
}

// Validate expects dockerfile, docker_run_command,
// claude_command and review_method. It passes at 0.6 points.
func (g *ContainerSandbox) Validate(sub grading.Submission) grading.Outcome {
	dockerfile := sub.String("dockerfile")
	run := strings.ToLower(sub.String("docker_run_command"))
	claude := strings.ToLower(sub.String("claude_command"))

	checks := []rubric.Check{
		{
			Type:   "regex", Target: "dockerfile", Value: `from\s+(node|npm)`,
			Points: 0.1,
			Pass:   "Good: Node.js base image for Claude Code",
			Fail:   "Missing: Dockerfile needs FROM statement",
			Otherwise: &rubric.Check{
				Type:   "contains", Target: "dockerfile", Value: "from",
				Points: 0.05,
				Pass:   "Note: Consider Node.js base image for Claude Code",
			},
		},
		{
			Type:   "regex", Target: "dockerfile",
			Value:  `npm\s+(install|i).*claude|@anthropic`,
			Points: 0.15,
			Pass:   "Good: Claude Code installation found",
			Fail:   "Missing: Claude Code npm installation",
		},
		{
			Type:   "contains_any", Target: "run",
			Values: rubric.Strings("-v", "--volume", "--mount"),
			Points: 0.15,
			Pass:   "Good: Volume mounts configured",
			Fail:   "Missing: Volume mounts for work directory",
			Then: []rubric.Check{{
				Type:   "contains_any", Target: "run",
				Values: rubric.Strings(":ro", "readonly"),
				Points: 0.05,
				Pass:   "Good: Read-only mount for sensitive data",
			}},
		},
		{
			Type:   "contains_any", Target: "run",
			Values: rubric.Strings("-e", "--env"),
			Points: 0.1,
			Pass:   "Good: Environment variables passed",
			Fail:   "Tip: Pass credentials via environment variables",
		},
		{
			Type:   "contains", Target: "run", Value: "--rm",
			Points: 0.05,
			Pass:   "Good: Auto-cleanup with --rm",
		},
		{
			Type:   "contains", Target: "claude", Value: skipPermissions,
			Points: 0.2,
			Pass:   "Good: Using --dangerously-skip-permissions in sandbox",
			Fail:   "Missing: Claude command for container execution",
			Otherwise: &rubric.Check{
				Type:   "contains", Target: "claude", Value: "claude",
				Points: 0.1,
				Pass:   "Partial: Claude command found, but skip-permissions recommended in sandbox",
			},
		},
		{
			Type: "contains_any", Target: "review",
			Values: rubric.Strings(
				"diff", "git", "review", "check", "compare", "before", "apply",
			),
			Points: 0.2,
			Pass:   "Good: Review method before applying changes",
			Fail:   "Missing: Method for reviewing changes before applying",
		},
	}

	tally := engine.Tally(checks, map[string]any{
		"dockerfile": dockerfile,
		"run":        run,
		"claude":     claude,
		"review":     sub.String("review_method"),
	})

	return tally.Outcome(sandboxPassPoints, map[string]any{
		"has_dockerfile":       dockerfile != "",
		"has_volume_mounts":    strings.Contains(run, "-v"),
		"has_skip_permissions": strings.Contains(claude, skipPermissions),
	})
}

// Scenarios returns the self-test fixtures.
func (g *ContainerSandbox) Scenarios() []grading.Scenario {
	return []grading.Scenario{
		grading.NewScenario(
			"Complete sandbox setup",
			"Full container sandbox implementation",
			grading.Submission{
				"dockerfile": heredoc.Doc(`
					FROM node:20-slim
					WORKDIR /workspace
					RUN npm install -g @anthropic-ai/claude-code
					ENV ANTHROPIC_API_KEY=""
					ENTRYPOINT ["claude"]
				`),
				"docker_run_command": "docker run --rm -it -v $(pwd)/work:/workspace " +
					"-v ~/.anthropic:/root/.anthropic:ro -e ANTHROPIC_API_KEY " +
					"claude-sandbox --dangerously-skip-permissions",
				"claude_command": "claude --dangerously-skip-permissions 'Refactor all files in /workspace'",
				"review_method": "After container exits, use git diff to review all changes. " +
					"Only commit after manual review of each file modification.",
			},
			true,
		),
		grading.NewScenario(
			"Bare container",
			"A generic image run without mounts, credentials or review",
			grading.Submission{
				"dockerfile":         "FROM ubuntu:22.04",
				"docker_run_command": "docker run ubuntu:22.04",
				"claude_command":     "claude",
			},
			false,
		),
	}
}
