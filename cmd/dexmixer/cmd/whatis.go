package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/whit3rabbit/dexmixer/internal/config"
	"github.com/whit3rabbit/dexmixer/internal/mapping"
)

var (
	whatisMapping string
	whatisState   string
)

// whatisCmd represents the whatis command
var whatisCmd = &cobra.Command{
	Use:   "whatis <replacement_type>",
	Short: "Looks up the original class for a given replacement type",
	Long: `Loads the type mapping of a previous run and finds the original class
behind a replacement type descriptor.

Use --mapping for a file written by --mapping-out, or --state for a mapping
state file (for example <target>/context/mapping.state after "obfuscate dir").
Generated names are invisible, so the argument may also be given in the
escaped, double-quoted form the mapping file uses.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if (whatisMapping == "") == (whatisState == "") {
			return fmt.Errorf("exactly one of --mapping or --state is required")
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true // Prevent usage print on expected errors (like not found)

		replacement, err := unquoteArg(args[0])
		if err != nil {
			return err
		}

		var m map[string]string
		if whatisMapping != "" {
			f, err := os.Open(whatisMapping)
			if err != nil {
				return fmt.Errorf("error opening mapping %s: %w", whatisMapping, err)
			}
			defer f.Close()
			if m, err = mapping.ReadText(f); err != nil {
				return fmt.Errorf("error loading mapping from %s: %w", whatisMapping, err)
			}
		} else {
			if _, err := os.Stat(whatisState); err != nil {
				return fmt.Errorf("error loading mapping state: %w", err)
			}
			if m, err = mapping.LoadState(whatisState); err != nil {
				return fmt.Errorf("error loading mapping state from %s: %w", whatisState, err)
			}
		}
		if cfg != nil && !cfg.Silent {
			config.PrintInfo("Searching %d mappings for %s\n", len(m), strconv.QuoteToASCII(replacement))
		}

		original, ok := mapping.Reverse(m)[replacement]
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: Type %s not found in the loaded mapping.\n", strconv.QuoteToASCII(replacement))
			return fmt.Errorf("type not found") // Return specific error for scripting
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Found: %s\n", original)
		return nil
	},
}

// unquoteArg accepts either a raw descriptor or a double-quoted, escaped one.
func unquoteArg(arg string) (string, error) {
	if !strings.HasPrefix(arg, `"`) {
		return arg, nil
	}
	s, err := strconv.Unquote(arg)
	if err != nil {
		return "", fmt.Errorf("invalid quoted type %s: %w", arg, err)
	}
	return s, nil
}

func init() {
	rootCmd.AddCommand(whatisCmd)
	whatisCmd.Flags().StringVarP(&whatisMapping, "mapping", "m", "", "Mapping file written by --mapping-out")
	whatisCmd.Flags().StringVar(&whatisState, "state", "", "Mapping state file written by --mapping-state or obfuscate dir")
}
