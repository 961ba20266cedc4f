package commands

import (
	"fmt"
	"io"

	"github.com/benvon/replan/internal/models"
	"github.com/benvon/replan/internal/validation"
	"github.com/benvon/replan/internal/wellness"
	"github.com/spf13/cobra"
)

// NewTipsCmd creates the tips command
func NewTipsCmd() *cobra.Command {
	var condition, menstrual, date, output string

	cmd := &cobra.Command{
		Use:   "tips",
		Short: "Show the day's condition and menstrual tips",
		RunE: func(cmd *cobra.Command, args []string) error {
			cond, err := parseCondition(condition)
			if err != nil {
				return err
			}
			var phase *models.MenstrualCondition
			if menstrual != "" {
				if err := validation.ValidateMenstrualCondition(menstrual); err != nil {
					return err
				}
				m := models.MenstrualCondition(menstrual)
				phase = &m
			}
			_, day, err := resolveDate(date)
			if err != nil {
				return err
			}

			summary := wellness.Summary(cond, phase, day)
			return writeOutput(cmd.OutOrStdout(), output, summary, func(w io.Writer) {
				fmt.Fprintln(w, summary.ConditionTip)
				if summary.MenstrualTip != "" {
					fmt.Fprintln(w, summary.MenstrualTip)
				}
			})
		},
	}

	cmd.Flags().StringVar(&condition, "condition", "", "Condition: good, normal or bad")
	cmd.Flags().StringVar(&menstrual, "menstrual", "", "Menstrual phase: normal, pms, period or post")
	cmd.Flags().StringVar(&date, "date", "", "Date YYYY-MM-DD (default today)")
	cmd.Flags().StringVarP(&output, "output", "o", formatText, "Output format: text, yaml or json")
	return cmd
}
