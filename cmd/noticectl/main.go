package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "noticectl",
		Short:         "Inspect, scrub and preview payment return URLs offline",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(inspectCmd())
	rootCmd.AddCommand(sanitizeCmd())
	rootCmd.AddCommand(previewCmd())
	rootCmd.AddCommand(renderCmd())

	return rootCmd
}
