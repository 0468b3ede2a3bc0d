package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"digital.vasic.grader/pkg/grading"
)

func newListCommand(a *app) *cobra.Command {
	var (
		category   string
		difficulty string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the exercises in the catalog.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := newCatalog()
			if err != nil {
				return err
			}

			graders := reg.List()
			if category != "" {
				c, err := grading.ParseCategory(category)
				if err != nil {
					return err
				}
				graders = reg.ListByCategory(c)
			}
			if difficulty != "" {
				d, err := grading.ParseDifficulty(difficulty)
				if err != nil {
					return err
				}
				graders = filterDifficulty(graders, d)
			}

			if asJSON {
				described := make([]map[string]any, len(graders))
				for i, g := range graders {
					described[i] = grading.Describe(g.Info())
				}
				data, err := json.MarshalIndent(described, "", "  ")
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(a.stdout, string(data))
				return err
			}

			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tDIFFICULTY\tTYPE\tNAME")
			for _, g := range graders {
				info := g.Info()
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
					info.ID, info.Difficulty, info.Kind, info.Name)
			}
			return tw.Flush()
		},
	}

	f := cmd.Flags()
	f.StringVar(&category, "category", "", "only list this category")
	f.StringVar(&difficulty, "difficulty", "", "only list this difficulty")
	f.BoolVar(&asJSON, "json", false, "print exercise metadata as JSON")

	return cmd
}

func filterDifficulty(
	graders []grading.Grader, d grading.Difficulty,
) []grading.Grader {
	out := make([]grading.Grader, 0, len(graders))
	for _, g := range graders {
		if g.Info().Difficulty == d {
			out = append(out, g)
		}
	}
	return out
}
