/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "taskpulse",
	Short: "Taskpulse task management API and client",
	Long: `Taskpulse serves the task management API and ships a small client
that signs in against it and keeps the session on disk.

	taskpulse server
	taskpulse migrate up
	taskpulse client login --username alice`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
