package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/autopm-ai/autopm/cmd"
	"github.com/autopm-ai/autopm/internal/version"
)

var buildVersion = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:     "autopm",
		Short:   "Product recommendations and specs from your own product data",
		Version: buildVersion,
	}

	rootCmd.AddCommand(cmd.AskCmd)
	rootCmd.AddCommand(cmd.ServeCmd)
	rootCmd.AddCommand(cmd.SetupCmd)

	if version.IsFirstRun() {
		version.PrintFirstRunNotice()
	}

	err := rootCmd.Execute()

	// Update check runs after the command so it never delays real work.
	version.PrintUpdateNotice(version.CheckForUpdate(buildVersion))

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
