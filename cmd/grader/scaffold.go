package main

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"digital.vasic.grader/pkg/scaffold"
)

func newScaffoldCommand(a *app) *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:   "scaffold <category> <name>",
		Short: "Generate the skeleton of a new exercise.",
		Example: heredoc.Doc(`
			grader scaffold cli-fundamentals alias_setup
			grader scaffold --root exercises mcp-integrations "server auth"
		`),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := scaffold.Generate(scaffold.Options{
				Root:     root,
				Category: args[0],
				Name:     args[1],
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(a.stdout, "Created exercise %s in %s\n", res.ID, res.Dir)
			for _, f := range res.Files {
				fmt.Fprintf(a.stdout, "  - %s\n", f)
			}
			fmt.Fprint(a.stdout, heredoc.Doc(`

				Next steps:
				  1. Describe the exercise in challenge.md
				  2. Implement Validate in grader.go
				  3. Add solution and starter files
				  4. Register the grader and run: grader validate-all
			`))
			return nil
		},
	}
	cmd.Flags().StringVar(&root, "root", "challenges",
		"directory holding one subdirectory per category")

	return cmd
}
