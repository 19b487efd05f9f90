package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var root = &cobra.Command{
		Use:   "autoposter",
		Short: "AI-generated LinkedIn posts from trending Android news",
	}

	root.AddCommand(runCMD(), historyCMD(), scheduleCMD())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}
