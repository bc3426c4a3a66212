package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/quickepk/quickepk/internal/config"
	"github.com/spf13/cobra"
)

// Cfg is the global variable that will contain the loaded configuration.
// It is accessible to all Cobra commands throughout the application.
var Cfg *config.Config

// RootCmd is the base command for the CLI application.
// All other commands (run-server, migrate, create, stats) are added as subcommands.
var RootCmd = &cobra.Command{
	Use:   "quickepk",
	Short: "A press-kit builder with view and click analytics",
	Long: `QuickEPK serves artist press kits, records page views and link clicks,
aggregates them into owner-facing analytics, and emails the owner when
someone views their kit.`,
}

// Execute is the main entry point for the Cobra application.
// It is called from main.go and handles command execution and error handling.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	// Load configuration before any command executes. Subcommands register
	// themselves via their own init() functions, which keeps this package
	// free of import cycles.
	cobra.OnInitialize(initConfig)
}

// initConfig loads the application configuration.
// Called at the beginning of every Cobra command execution.
func initConfig() {
	var err error

	Cfg, err = config.LoadConfig()
	if err != nil {
		// LoadConfig falls back to defaults on a missing file, so anything
		// that reaches here is worth a warning but not an exit.
		log.Printf("Warning: Problem loading configuration: %v. Using default values.", err)
	}
}
