package main

import (
	"fmt"

	config "trajectory-assessment-api/configs"

	"github.com/spf13/cobra"
)

func newValidateQuestionsCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "validate-questions",
		Short: "Check a question catalog against the scoring map",
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := config.LoadQuestionCatalog(file)
			if err != nil {
				return err
			}
			if err := catalog.Validate(); err != nil {
				return err
			}
			summary := catalog.Summary()
			st := newStyles()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %d scored, %d reflective\n",
				st.high.Render("ok"), summary.Scored, summary.Reflective)
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "content/questions.yaml", "Question catalog YAML")
	return cmd
}
