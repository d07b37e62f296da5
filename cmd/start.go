package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var startFile string

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Run the reconciliation loop for a manifest until interrupted",
	Run: func(cmd *cobra.Command, args []string) {
		e, cfg, err := buildEngine()
		if err != nil {
			exitOnBuildError(err)
		}

		res := e.Start(context.Background(), startFile)
		printResult(res.Success, res.Message)
		if !res.Success {
			os.Exit(1)
		}
		fmt.Printf("🔄 Reconciling every %s, press Ctrl+C to stop\n", cfg.ReconcileInterval)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		res = e.Stop()
		printResult(res.Success, res.Message)
	},
}

func init() {
	startCmd.Flags().StringVarP(&startFile, "filename", "f", "", "YAML manifest of the application")
	startCmd.MarkFlagRequired("filename")
	rootCmd.AddCommand(startCmd)
}
