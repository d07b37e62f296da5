package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/helmsman-run/helmsman/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API server",
	Run: func(cmd *cobra.Command, args []string) {
		e, cfg, err := buildEngine()
		if err != nil {
			exitOnBuildError(err)
		}

		addr := cfg.ListenAddr
		if serveAddr != "" {
			addr = serveAddr
		}
		logger, err := buildLogger()
		if err != nil {
			exitOnBuildError(err)
		}

		fmt.Printf("🚀 helmsman API listening on %s\n", addr)
		if err := server.NewAPIServer(e, addr, logger).Start(); err != nil {
			fmt.Printf("❌ server stopped: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
