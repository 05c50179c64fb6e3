package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/whit3rabbit/dexmixer/internal/classgraph"
	"github.com/whit3rabbit/dexmixer/internal/config"
	"github.com/whit3rabbit/dexmixer/internal/container"
	"github.com/whit3rabbit/dexmixer/internal/obfuscator"
)

var (
	graphOutput    string
	graphRewritten bool
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <container_path>",
	Short: "Renders the class inheritance graph as Graphviz DOT",
	Long: `Reads a container and writes its inheritance graph (class -> super class
and interfaces) as DOT. With --rewritten the graph is drawn after applying the
configured renaming, so it shows what the output container references.`,
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
		opts := editorOptions(cfg)
		opts.Silent = true
		ed, err := obfuscator.NewEditor(input, container.NewYAML(), opts)
		if err != nil {
			return fmt.Errorf("error processing file %s: %w", filePath, err)
		}

		f := ed.Input()
		title := filepath.Base(filePath)
		if graphRewritten {
			if err := ed.Configure(cfg); err != nil {
				return err
			}
			f = ed.Rewrite()
			title += " (rewritten)"
		}
		dot := classgraph.DOT(f, title)

		if graphOutput == "" {
			fmt.Fprint(cmd.OutOrStdout(), dot)
			return nil
		}
		if err := os.WriteFile(graphOutput, []byte(dot), 0644); err != nil {
			return fmt.Errorf("error writing graph %s: %w", graphOutput, err)
		}
		if !cfg.Silent {
			config.PrintInfo("Info: Wrote class graph (%d classes) to %s\n", len(f.Classes), graphOutput)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringVarP(&graphOutput, "output", "o", "", "Output DOT file (default: stdout)")
	graphCmd.Flags().BoolVar(&graphRewritten, "rewritten", false, "Draw the graph after applying the configured renaming")
}
