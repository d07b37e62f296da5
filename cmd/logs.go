package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var logsCmd = &cobra.Command{
	Use:   "logs [container-id]",
	Short: "Print the recent log tail of a managed container",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, _, err := buildEngine()
		if err != nil {
			exitOnBuildError(err)
		}

		res := e.Logs(context.Background(), args[0])
		if !res.Success {
			printResult(false, res.Message)
			return
		}
		fmt.Println(res.Message)
	},
}

func init() {
	rootCmd.AddCommand(logsCmd)
}
