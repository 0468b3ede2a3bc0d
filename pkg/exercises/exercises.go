// Package exercises is the catalog of concrete exercise
// graders. Each grader is a pure consumer of the validate
// primitives and the rubric engine, and ships the scenarios it
// is self-tested against.
package exercises

import (
	"fmt"
	"strings"

	"digital.vasic.grader/pkg/grading"
	"digital.vasic.grader/pkg/registry"
	"digital.vasic.grader/pkg/rubric"
)

// Grader IDs in the catalog.
const (
	StatusLineSetupID   grading.ID = "cli-fundamentals/1_status_line_setup"
	QuickCommitID       grading.ID = "cli-fundamentals/2_quick_commit"
	SimpleEditID        grading.ID = "cli-fundamentals/3_simple_edit"
	FileExplorerID      grading.ID = "cli-fundamentals/4_file_explorer"
	SearchMasterID      grading.ID = "cli-fundamentals/5_search_master"
	ContextCompactionID grading.ID = "context-management/1_context_compaction"
	TokenCheckID        grading.ID = "context-management/2_token_check"
	MCPServerSetupID    grading.ID = "mcp-integrations/1_mcp_server_setup"
	TmuxTestPatternID   grading.ID = "testing-verification/1_tmux_test_pattern"
	TerminalCascadeID   grading.ID = "workflow-automation/1_terminal_cascade"
	ContainerSandboxID  grading.ID = "advanced-orchestration/1_container_sandbox"
)

// engine is shared by every rubric-based grader. It holds only
// the built-in evaluators and is safe for concurrent use.
var engine rubric.Engine = rubric.NewEngine()

// All returns a fresh instance of every grader in the catalog.
func All() []grading.Grader {
	return []grading.Grader{
		NewStatusLineSetup(),
		NewQuickCommit(),
		NewSimpleEdit(),
		NewFileExplorer(),
		NewSearchMaster(),
		NewContextCompaction(),
		NewTokenCheck(),
		NewMCPServerSetup(),
		NewTmuxTestPattern(),
		NewTerminalCascade(),
		NewContainerSandbox(),
	}
}

// RegisterAll registers the whole catalog and checks that
// every declared prerequisite is present.
func RegisterAll(reg registry.Registry) error {
	for _, g := range All() {
		if err := reg.Register(g); err != nil {
			return fmt.Errorf("register %s: %w", g.Info().ID, err)
		}
	}
	return reg.ValidateDependencies()
}

// lowerText reads a field as text and lower-cases it.
func lowerText(sub grading.Submission, key string) string {
	return strings.ToLower(sub.Text(key))
}

// percent renders a ratio as a whole percentage, e.g. 70%.
func percent(ratio float64) string {
	return fmt.Sprintf("%.0f%%", ratio*100)
}
