package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/whit3rabbit/dexmixer/internal/config"
	"github.com/whit3rabbit/dexmixer/internal/container"
	"github.com/whit3rabbit/dexmixer/internal/obfuscator"
)

var outputFile string // Flag variable for output file path

// fileCmd represents the obfuscate file command
var fileCmd = &cobra.Command{
	Use:   "file <container_path>",
	Short: "Rewrite a single container",
	Long: `Reads a single container, applies the configured renaming, string
replacements and shrinking, and outputs the result to stdout or a specified file.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		cmd.SilenceUsage = true
		filePath := args[0]

		input, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("error reading file %s: %w", filePath, err)
		}

		ed, err := obfuscator.NewEditor(input, container.NewYAML(), editorOptions(cfg))
		if err != nil {
			return fmt.Errorf("error processing file %s: %w", filePath, err)
		}
		if err := ed.Configure(cfg); err != nil {
			return err
		}
		if !cfg.Silent {
			config.PrintInfo("Info: Processing file: %s (%d classes)\n", filePath, len(ed.Input().Classes))
		}

		output, err := ed.Execute()
		if err != nil {
			return fmt.Errorf("error processing file %s: %w", filePath, err)
		}

		// --- Write Output ---
		if outputFile != "" {
			if !cfg.Silent {
				config.PrintInfo("Info: Writing output to file: %s\n", outputFile)
			}
			if err := os.WriteFile(outputFile, output, 0644); err != nil {
				return fmt.Errorf("error writing to output file %s: %w", outputFile, err)
			}
		} else {
			cmd.OutOrStdout().Write(output)
		}

		return writeMappingOutputs(ed, cfg)
	},
}

func init() {
	obfuscateCmd.AddCommand(fileCmd)
	fileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file path (default: stdout)")
}
