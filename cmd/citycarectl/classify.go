package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Hash-621/TEAM202507-01-Final/internal/application/services"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "classify <symptom text>",
		Short:   "Classify symptom text without touching any facility data",
		Example: `  citycarectl classify 밤에 배가 아파요`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.NewUrgencyClassifier(nil).Classify(strings.Join(args, " "))
			if err != nil {
				return err
			}
			return printJSON(cmd, result)
		},
	}
}
