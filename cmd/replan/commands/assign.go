package commands

import (
	"fmt"
	"io"

	"github.com/benvon/replan/internal/planner"
	"github.com/benvon/replan/internal/schedule"
	"github.com/spf13/cobra"
)

// NewAssignCmd creates the assign command
func NewAssignCmd() *cobra.Command {
	var profilePath, todosPath, date, condition, output string

	cmd := &cobra.Command{
		Use:   "assign",
		Short: "Place to-dos into a generated day",
		Long:  "Generate the day from a profile and place the to-dos from a YAML file into its free, work and exercise blocks",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := loadProfile(profilePath)
			if err != nil {
				return err
			}
			todos, err := loadTodos(todosPath)
			if err != nil {
				return err
			}
			cond, err := parseCondition(condition)
			if err != nil {
				return err
			}
			date, _, err := resolveDate(date)
			if err != nil {
				return err
			}

			plan, err := schedule.NewPlan(profile, date)
			if err != nil {
				return err
			}
			result := planner.AutoAssign(todos, plan.TimeBlocks, cond)

			return writeOutput(cmd.OutOrStdout(), output, result, func(w io.Writer) {
				printBlocks(w, result.UpdatedBlocks)
				if len(result.RemainingTodos) > 0 {
					fmt.Fprintln(w, "\nDid not fit:")
					for _, t := range result.RemainingTodos {
						fmt.Fprintf(w, "  - %s (%dm)\n", t.Text, t.DurationOr(0))
					}
				}
				fmt.Fprintf(w, "\n%s\n", result.Advice)
			})
		},
	}

	cmd.Flags().StringVar(&profilePath, "profile", "", "Profile YAML file (required)")
	cmd.Flags().StringVar(&todosPath, "todos", "", "To-do YAML file (required)")
	cmd.Flags().StringVar(&date, "date", "", "Plan date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&condition, "condition", "", "Condition: good, normal or bad")
	cmd.Flags().StringVarP(&output, "output", "o", formatText, "Output format: text, yaml or json")
	return cmd
}
