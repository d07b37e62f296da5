package cmd

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
)

var scaleCmd = &cobra.Command{
	Use:   "scale [name] [replicas]",
	Short: "Change an application's desired replica count",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		replicas, err := strconv.Atoi(args[1])
		if err != nil {
			printResult(false, "replicas must be a number: "+args[1])
			return
		}

		e, _, err := buildEngine()
		if err != nil {
			exitOnBuildError(err)
		}

		res := e.Scale(context.Background(), args[0], replicas)
		printResult(res.Success, res.Message)
	},
}

func init() {
	rootCmd.AddCommand(scaleCmd)
}
