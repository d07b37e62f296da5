package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [instruction...]",
	Short: "Describe what you want in plain language",
	Long: `Translates a free-form instruction into a deploy, scale, delete or
status command and applies it. Low-confidence interpretations come back
as a clarification request instead of being executed.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, _, err := buildEngine()
		if err != nil {
			exitOnBuildError(err)
		}

		res := e.TranslateAndApply(context.Background(), strings.Join(args, " "))
		if res.Command != nil && res.Command.Reasoning != "" {
			fmt.Printf("💭 %s (confidence %.0f%%)\n", res.Command.Reasoning, res.Command.Confidence*100)
		}
		printResult(res.Success, res.Message)
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}
