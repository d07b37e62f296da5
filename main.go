package main

import (
	"os"

	"github.com/helmsman-run/helmsman/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
