package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize all current failures by cause and priority",
	Run: func(cmd *cobra.Command, args []string) {
		e, _, err := buildEngine()
		if err != nil {
			exitOnBuildError(err)
		}

		res := e.Report(context.Background())
		if !res.Success {
			printResult(false, res.Message)
			return
		}
		fmt.Println(res.Message)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
}
