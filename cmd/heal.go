package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var healApp string

var healCmd = &cobra.Command{
	Use:   "heal",
	Short: "Remove failed containers so reconciliation replaces them",
	Run: func(cmd *cobra.Command, args []string) {
		e, _, err := buildEngine()
		if err != nil {
			exitOnBuildError(err)
		}

		res := e.AutoHeal(context.Background(), healApp)
		printResult(res.Success, res.Message)
	},
}

func init() {
	healCmd.Flags().StringVar(&healApp, "app", "", "Only heal containers of this application")
	rootCmd.AddCommand(healCmd)
}
