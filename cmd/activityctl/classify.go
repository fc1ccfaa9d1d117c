package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/noah-isme/sma-activities-api/internal/directory"
)

func newClassifyCmd() *cobra.Command {
	var name, description string
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Print the category an activity would be filed under",
		Example: `  activityctl classify --name "Chess Club" --description "Strategy and tactics"
  activityctl classify --name "Soccer Team"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			category := directory.Classify(name, description)
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", category, category.Info().Label)
			return err
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "activity name")
	cmd.Flags().StringVar(&description, "description", "", "activity description")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
