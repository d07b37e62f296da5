package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var diagnoseCmd = &cobra.Command{
	Use:   "diagnose [container-id]",
	Short: "Classify failed containers by root cause",
	Long: `Without arguments, diagnoses every failed managed container.
With a container ID, diagnoses just that one.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, _, err := buildEngine()
		if err != nil {
			exitOnBuildError(err)
		}

		ctx := context.Background()
		if len(args) == 1 {
			res := e.Classify(ctx, args[0])
			printResult(res.Success, res.Message)
			return
		}
		res := e.ClassifyAll(ctx)
		printResult(res.Success, res.Message)
	},
}

func init() {
	rootCmd.AddCommand(diagnoseCmd)
}
