package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"autoform/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "autoform",
	Short: "Autoform - extract data from immigration documents and fill the G-28 online form",
	Long: `Autoform extracts structured data from a passport and a completed Form G-28
using AI document understanding, then fills the online form in a remote
browser session. The filled form is screenshotted but never submitted.

Run "autoform serve" for the web UI, or use the extract and fill
subcommands directly from the terminal.`,
	Version: version,
	Run: func(cmd *cobra.Command, args []string) {
		log := logger.WithComponent("root")
		log.Info().
			Str("version", version).
			Msg("Autoform executed")

		fmt.Println("Autoform - document extraction and form filling.")
		fmt.Println("Use --help to see available commands and options.")
	},
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")
}
