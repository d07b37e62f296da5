package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var reconcileFile string

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Run one reconciliation cycle for a manifest",
	Run: func(cmd *cobra.Command, args []string) {
		e, _, err := buildEngine()
		if err != nil {
			exitOnBuildError(err)
		}

		res := e.Reconcile(context.Background(), reconcileFile)
		printResult(res.Success, res.Message)
	},
}

func init() {
	reconcileCmd.Flags().StringVarP(&reconcileFile, "filename", "f", "", "YAML manifest of the application")
	reconcileCmd.MarkFlagRequired("filename")
	rootCmd.AddCommand(reconcileCmd)
}
