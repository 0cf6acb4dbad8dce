package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command for the krishiguru binary.
var rootCmd = &cobra.Command{
	Use:   "krishiguru",
	Short: "Krishi Guru backend API server",
	Long:  `Backend API server for the Krishi Guru farmer advisory application.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
