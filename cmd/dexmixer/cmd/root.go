// Package cmd implements the command line interface for the application.
package cmd

import (
	"fmt"

	"github.com/whit3rabbit/dexmixer/internal/config"

	"github.com/spf13/cobra"
)

var (
	cfgFile string         // Variable to hold the config file path from the flag
	cfg     *config.Config // Global variable to hold the loaded configuration

	// Flag variables mapped to config fields for override
	silentMode bool // -> cfg.Silent
	debugMode  bool // -> cfg.DebugMode
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dexmixer",
	Short: "Renames, rewrites and shrinks compiled application class graphs.",
	Long: `dexmixer moves every class of an application into one package with
generated, invisible names, replaces chosen string constants and strips
debug metadata, while keeping every reference between classes consistent.`,
	// PersistentPreRunE runs before any subcommand's RunE.
	// Use this to load configuration early.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil { // Only load config once
			loadedCfg, err := config.LoadConfig(cfgFile) // cfgFile is set by PersistentFlags
			if err != nil {
				return fmt.Errorf("error loading configuration: %w", err) // Return error for Cobra to handle
			}
			cfg = loadedCfg

			// Apply command-line flag overrides *after* loading config file
			applyFlagOverrides(cfg, cmd)
			cfg.PrintDebug("Loaded configuration: %+v\n", *cfg)
		}
		return nil
	},
	// Run: Executes if no subcommand is given. Print help.
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// applyFlagOverrides applies command-line flag values to the config struct.
// Only overrides if the flag was explicitly set by the user via cmd.Flags().Changed().
func applyFlagOverrides(cfg *config.Config, cmd *cobra.Command) {
	if cmd.Flags().Changed("silent") {
		cfg.Silent = silentMode
	}
	if cmd.Flags().Changed("debug") {
		cfg.DebugMode = debugMode
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// Main runs the command line and returns the process exit code.
// This is called by main.main() and by the script tests.
func Main() int {
	if err := Execute(); err != nil {
		// Cobra already printed the error.
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")

	// Add flags for common config options
	rootCmd.PersistentFlags().BoolVarP(&silentMode, "silent", "s", false, "Suppress informational output (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Print debug traces (overrides config)")
}
