package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"digital.vasic.grader/pkg/grading"
	"digital.vasic.grader/pkg/logging"
	"digital.vasic.grader/pkg/registry"
)

func newGradeCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "grade <grader-id> [submission.json]",
		Short: "Grade a single submission.",
		Long: heredoc.Doc(`
			Reads a JSON submission object from the given file, or from
			stdin when the file is omitted or "-", and grades it with the
			named exercise grader. Exits non-zero when the submission
			does not pass.
		`),
		Example: heredoc.Doc(`
			grader grade cli-fundamentals/2_quick_commit commit.json
			echo '{"commands": ["tmux new-session -d -s t"]}' | grader grade testing-verification/1_tmux_test_pattern
		`),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 2 {
				path = args[1]
			}
			sub, err := readSubmission(path, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runGrade(a, grading.ID(args[0]), sub, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the outcome as JSON")

	return cmd
}

func readSubmission(path string, stdin io.Reader) (grading.Submission, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read submission: %w", err)
	}

	var sub grading.Submission
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, fmt.Errorf("parse submission: %w", err)
	}
	if sub == nil {
		sub = grading.Submission{}
	}
	return sub, nil
}

func runGrade(
	a *app, id grading.ID, sub grading.Submission, asJSON bool,
) (err error) {
	logger, err := a.newLogger()
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := logger.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close logger: %w", closeErr)
		}
	}()

	reg, err := newCatalog()
	if err != nil {
		return err
	}
	outcome, err := registry.ValidateSubmission(reg, id, sub)
	if err != nil {
		return err
	}
	logger.Debug("submission_graded",
		logging.StringField("grader", string(id)),
		logging.BoolField("passed", outcome.Passed),
		logging.Float64Field("score", outcome.Score),
	)

	if asJSON {
		data, err := json.MarshalIndent(outcome, "", "  ")
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(a.stdout, string(data)); err != nil {
			return err
		}
	} else if err := writeOutcome(a.stdout, outcome); err != nil {
		return err
	}

	if !outcome.Passed {
		return fmt.Errorf("%w: score %.2f", errNotPassed, outcome.Score)
	}
	return nil
}

func writeOutcome(w io.Writer, o grading.Outcome) error {
	verdict := grading.Ternary(o.Passed, "PASS", "FAIL")
	if _, err := fmt.Fprintf(w, "%s (score %.2f)\n", verdict, o.Score); err != nil {
		return err
	}
	for _, msg := range o.Messages() {
		if _, err := fmt.Fprintf(w, "  %s\n", msg); err != nil {
			return err
		}
	}
	return nil
}
