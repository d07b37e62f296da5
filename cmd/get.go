package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get apps",
	Short: "List the desired state of all applications",
	Run: func(cmd *cobra.Command, args []string) {
		e, _, err := buildEngine()
		if err != nil {
			exitOnBuildError(err)
		}

		apps := e.Store().ListApplications()
		if len(apps) == 0 {
			fmt.Println("No applications deployed.")
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tIMAGE\tREPLICAS\tPORTS")
		for _, app := range apps {
			ports := "-"
			if len(app.Ports) > 0 {
				ports = fmt.Sprintf("%v", app.Ports)
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", app.Name, app.Image, app.Replicas, ports)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(getCmd)
}
