package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show managed containers grouped by application",
	Run: func(cmd *cobra.Command, args []string) {
		e, _, err := buildEngine()
		if err != nil {
			exitOnBuildError(err)
		}

		res := e.Status(context.Background())
		if !res.Success {
			printResult(false, res.Message)
			return
		}
		if len(res.Status) == 0 {
			fmt.Println("No managed containers running.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "APPLICATION\tIMAGE\tRUNNING\tDESIRED")
		for _, group := range res.Status {
			desired := "-"
			if app, ok := e.Store().GetApplication(group.Name); ok {
				desired = fmt.Sprintf("%d", app.Replicas)
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", group.Name, group.Image, group.Replicas, desired)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
