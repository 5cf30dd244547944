// Package cmd provides the command-line interface for validating and
// replaying spike schedules.
package cmd

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logLevel string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use: "brian2",
	Short: "Brian2 CLI tool can validate spike schedules and replay them " +
		"over a discrete-timestep clock.",
	Long: `Brian2 CLI tool can validate spike schedules and replay them ` +
		`over a discrete-timestep clock. Schedules are YAML files that ` +
		`list the spiking neurons and their spike times.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		// A .env file can carry recorder credentials, same as the
		// shell environment.
		_ = godotenv.Load()

		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info",
		"Log level (trace, debug, info, warn, error, fatal, panic)")
}
