package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var applyFile string

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Deploy an application from a manifest file",
	Run: func(cmd *cobra.Command, args []string) {
		e, _, err := buildEngine()
		if err != nil {
			exitOnBuildError(err)
		}

		res := e.Deploy(context.Background(), applyFile)
		printResult(res.Success, res.Message)
	},
}

func init() {
	applyCmd.Flags().StringVarP(&applyFile, "filename", "f", "", "YAML manifest of the application")
	applyCmd.MarkFlagRequired("filename")
	rootCmd.AddCommand(applyCmd)
}
