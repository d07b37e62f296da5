package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete an application and stop its containers",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, _, err := buildEngine()
		if err != nil {
			exitOnBuildError(err)
		}

		res := e.DeleteApplication(context.Background(), args[0])
		printResult(res.Success, res.Message)
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
