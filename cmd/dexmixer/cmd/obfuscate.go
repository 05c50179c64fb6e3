package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/whit3rabbit/dexmixer/internal/config"
	"github.com/whit3rabbit/dexmixer/internal/mapping"
	"github.com/whit3rabbit/dexmixer/internal/obfuscator"
	"github.com/whit3rabbit/dexmixer/internal/scrambler"
)

var (
	// Flag variables shared by the obfuscate subcommands
	obfuscateNames bool     // -> cfg.Obfuscation.Enabled
	minSdk         int      // -> cfg.Obfuscation.MinSdk
	shrink         bool     // -> cfg.Shrink.Enabled
	mappingOut     string   // -> cfg.Mapping.Output
	applyMapping   string   // -> cfg.Mapping.Apply
	mappingState   string   // -> cfg.Mapping.State
	replaceStrings []string // appended to cfg.Overrides.Strings
	replaceTypes   []string // appended to cfg.Overrides.Types
	seed           int64
)

// obfuscateCmd represents the base command for obfuscation actions
var obfuscateCmd = &cobra.Command{
	Use:   "obfuscate",
	Short: "Rewrites class containers",
	Long: `Provides subcommands to rewrite a single container or every container of
an application directory.

Example:
  dexmixer obfuscate file classes.yaml -o out.yaml --obfuscate --min-sdk 21 --shrink
  dexmixer obfuscate dir ./app -o ./dist --obfuscate --mapping-out mapping.txt`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := rootCmd.PersistentPreRunE(cmd, args); err != nil {
			return err
		}
		return applyObfuscateFlags(cfg, cmd)
	},
}

// applyObfuscateFlags folds the obfuscate flags into cfg. Mode flags only
// override the config when set; replacement flags add to the configured
// lists.
func applyObfuscateFlags(cfg *config.Config, cmd *cobra.Command) error {
	flags := cmd.Flags()
	if flags.Changed("obfuscate") {
		cfg.Obfuscation.Enabled = obfuscateNames
	}
	if flags.Changed("min-sdk") {
		cfg.Obfuscation.MinSdk = minSdk
	}
	if flags.Changed("shrink") {
		cfg.Shrink.Enabled = shrink
	}
	if flags.Changed("mapping-out") {
		cfg.Mapping.Output = mappingOut
	}
	if flags.Changed("apply-mapping") {
		cfg.Mapping.Apply = applyMapping
	}
	if flags.Changed("mapping-state") {
		cfg.Mapping.State = mappingState
	}
	for _, s := range replaceStrings {
		r, err := config.ParseReplacement(s)
		if err != nil {
			return fmt.Errorf("--replace-string: %w", err)
		}
		cfg.Overrides.Strings = append(cfg.Overrides.Strings, r)
	}
	for _, s := range replaceTypes {
		r, err := config.ParseReplacement(s)
		if err != nil {
			return fmt.Errorf("--replace-type: %w", err)
		}
		cfg.Overrides.Types = append(cfg.Overrides.Types, r)
	}
	return cfg.Validate()
}

// editorOptions derives the engine options from the loaded config.
func editorOptions(cfg *config.Config) obfuscator.Options {
	opts := obfuscator.Options{Silent: cfg.Silent, DebugMode: cfg.DebugMode}
	if seed != 0 {
		opts.Generator = scrambler.NewSeeded(seed)
	}
	return opts
}

// writeMappingOutputs writes the retrace text and the mapping state when
// configured. It runs only after the rewritten output has been written.
func writeMappingOutputs(ed *obfuscator.Editor, cfg *config.Config) error {
	if cfg.Mapping.Output != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Mapping.Output), 0755); err != nil {
			return fmt.Errorf("failed to create directory for mapping %s: %w", cfg.Mapping.Output, err)
		}
		f, err := os.Create(cfg.Mapping.Output)
		if err != nil {
			return fmt.Errorf("failed to create mapping file %s: %w", cfg.Mapping.Output, err)
		}
		if err := mapping.WriteText(f, ed.Mappings()); err != nil {
			f.Close()
			return fmt.Errorf("failed to write mapping file %s: %w", cfg.Mapping.Output, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("failed to write mapping file %s: %w", cfg.Mapping.Output, err)
		}
		if !cfg.Silent {
			config.PrintInfo("Info: Wrote type mapping to %s\n", cfg.Mapping.Output)
		}
	}
	if cfg.Mapping.State != "" {
		if err := ed.SaveMapping(cfg.Mapping.State); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(obfuscateCmd)

	pf := obfuscateCmd.PersistentFlags()
	pf.BoolVar(&obfuscateNames, "obfuscate", false, "Rename classes into one generated package (overrides config)")
	pf.IntVar(&minSdk, "min-sdk", config.DefaultMinSdk, "Minimum platform level of the application (overrides config)")
	pf.BoolVar(&shrink, "shrink", false, "Strip source files, parameter names, debug items and annotations (overrides config)")
	pf.StringVar(&mappingOut, "mapping-out", "", "Write the original -> replacement type mapping to this file")
	pf.StringVar(&applyMapping, "apply-mapping", "", "Reuse the type mapping written by an earlier run")
	pf.StringVar(&mappingState, "mapping-state", "", "Load the mapping state from this file before the run and save it after")
	pf.StringArrayVar(&replaceStrings, "replace-string", nil, "Replace a string constant, as from=to (repeatable)")
	pf.StringArrayVar(&replaceTypes, "replace-type", nil, "Pin the replacement of a class type, as from=to (repeatable)")
	pf.Int64Var(&seed, "seed", 0, "Seed for generated names (0 picks a random seed)")
}
