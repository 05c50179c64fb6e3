package cmd

import (
	"github.com/spf13/cobra"

	"github.com/whit3rabbit/dexmixer/internal/config"
)

// configCmd groups configuration helpers
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

// configInitCmd writes the default configuration
var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration to a file (default: config.yaml)",
	Args:  cobra.MaximumNArgs(1),
	// Skip loading a configuration that may not exist yet.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		path := "config.yaml"
		if len(args) == 1 {
			path = args[0]
		}
		return config.SaveConfig(path)
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
}
