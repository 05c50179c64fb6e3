package cmd

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/whit3rabbit/dexmixer/internal/config"
	"github.com/whit3rabbit/dexmixer/internal/container"
	"github.com/whit3rabbit/dexmixer/internal/obfuscator"
)

var (
	outputDir string // Flag variable for output directory
	cleanMode bool   // Flag variable for cleaning target directory
)

// containerExtensions are the file extensions treated as containers.
var containerExtensions = []string{".yaml", ".yml"}

// dirCmd represents the obfuscate dir command
var dirCmd = &cobra.Command{
	Use:   "dir <source_directory>",
	Short: "Rewrite every container of an application directory",
	Long: `Recursively scans the source directory for containers and rewrites them as
one class graph, so classes referenced across containers get the same names.
Results go to <target>/obfuscated, preserving the original structure; other
files are copied unchanged. The type mapping is kept in <target>/context so
a later run over the same target reuses it.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		if outputDir == "" {
			return fmt.Errorf("output directory (-o, --output) is required for directory obfuscation")
		}
		// Check if source directory exists
		sourceDir := args[0]
		info, err := os.Stat(sourceDir)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("source directory '%s' not found", sourceDir)
			}
			return fmt.Errorf("error checking source directory '%s': %w", sourceDir, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("source path '%s' is not a directory", sourceDir)
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("configuration not loaded")
		}
		cmd.SilenceUsage = true

		sourceDir := args[0]
		targetDir := outputDir

		if !cfg.Silent {
			config.PrintInfo("--- Directory Obfuscation ---\n")
			config.PrintInfo("Source Directory: %s\n", sourceDir)
			config.PrintInfo("Target Directory: %s\n", targetDir)
			config.PrintInfo("Clean Mode: %t\n", cleanMode)
			config.PrintInfo("---------------------------\n")
		}

		// --- Clean Target Directory ---
		if cleanMode {
			if err := cleanTarget(targetDir); err != nil {
				return err
			}
		}

		obfuscatedPath := filepath.Join(targetDir, "obfuscated")
		contextPath := filepath.Join(targetDir, "context") // Context saved relative to target base
		if err := os.MkdirAll(obfuscatedPath, 0755); err != nil {
			return fmt.Errorf("failed to create obfuscated directory %s: %w", obfuscatedPath, err)
		}
		if err := os.MkdirAll(contextPath, 0755); err != nil {
			return fmt.Errorf("failed to create context directory %s: %w", contextPath, err)
		}
		if cfg.Mapping.State == "" {
			cfg.Mapping.State = filepath.Join(contextPath, "mapping.state")
		}

		// --- Directory Walking ---
		var containers []string // relative paths, in walk order
		walkErr := filepath.WalkDir(sourceDir, func(entryPath string, d fs.DirEntry, err error) error {
			if err != nil {
				return fmt.Errorf("error accessing path %q: %w", entryPath, err)
			}
			relPath, err := filepath.Rel(sourceDir, entryPath)
			if err != nil {
				return fmt.Errorf("error calculating relative path for %q: %w", entryPath, err)
			}
			if relPath == "." {
				return nil
			}
			targetEntryPath := filepath.Join(obfuscatedPath, relPath)

			switch {
			case d.Type()&fs.ModeSymlink != 0:
				fmt.Fprintf(os.Stderr, "Warning: Skipping symlink %s\n", entryPath)
			case d.IsDir():
				if err := os.MkdirAll(targetEntryPath, 0755); err != nil {
					return fmt.Errorf("failed to create directory %s: %w", targetEntryPath, err)
				}
			case isContainerFile(d.Name()):
				containers = append(containers, relPath)
			default:
				if err := copyFile(entryPath, targetEntryPath); err != nil {
					return fmt.Errorf("error copying %s to %s: %w", entryPath, targetEntryPath, err)
				}
				if !cfg.Silent {
					config.PrintInfo("Copied: %s -> %s\n", entryPath, targetEntryPath)
				}
			}
			return nil
		})
		if walkErr != nil {
			return walkErr
		}
		if len(containers) == 0 {
			return fmt.Errorf("no containers (%s) found in %s", strings.Join(containerExtensions, ", "), sourceDir)
		}

		// --- Rewrite all containers as one group ---
		inputs := make([][]byte, len(containers))
		for i, rel := range containers {
			data, err := os.ReadFile(filepath.Join(sourceDir, rel))
			if err != nil {
				return fmt.Errorf("error reading file %s: %w", rel, err)
			}
			inputs[i] = data
		}
		ed, err := obfuscator.NewGroupEditor(inputs, container.NewYAML(), editorOptions(cfg))
		if err != nil {
			return fmt.Errorf("error parsing containers: %w", err)
		}
		if err := ed.Configure(cfg); err != nil {
			return err
		}
		outputs, err := ed.ExecuteAll()
		if err != nil {
			return fmt.Errorf("error rewriting containers: %w", err)
		}

		for i, rel := range containers {
			targetPath := filepath.Join(obfuscatedPath, rel)
			if err := os.WriteFile(targetPath, outputs[i], 0644); err != nil {
				return fmt.Errorf("failed to write output to %s: %w", targetPath, err)
			}
			if !cfg.Silent {
				config.PrintInfo("Processed: %s -> %s\n", filepath.Join(sourceDir, rel), targetPath)
			}
		}

		if err := writeMappingOutputs(ed, cfg); err != nil {
			return err
		}
		if !cfg.Silent {
			config.PrintInfo("Info: Directory processing finished (%d containers).\n", len(containers))
		}
		return nil
	},
}

// cleanTarget removes a previous target directory.
func cleanTarget(targetPath string) error {
	if _, err := os.Stat(targetPath); os.IsNotExist(err) {
		return nil
	}
	// Refined safety check: block only root, current, or parent directory specifically
	isRoot := targetPath == filepath.VolumeName(targetPath)+"\\"
	if runtime.GOOS != "windows" {
		isRoot = targetPath == "/"
	}
	if isRoot || targetPath == "." || targetPath == ".." {
		return fmt.Errorf("refusing to clean potentially dangerous path: %s", targetPath)
	}
	if err := os.RemoveAll(targetPath); err != nil {
		return fmt.Errorf("failed to clean target directory %s: %w", targetPath, err)
	}
	if !cfg.Silent {
		config.PrintInfo("Info: Target directory %s cleaned.\n", targetPath)
	}
	return nil
}

func isContainerFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range containerExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// copyFile copies a regular file, creating parent directories as needed.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func init() {
	obfuscateCmd.AddCommand(dirCmd)
	dirCmd.Flags().StringVarP(&outputDir, "output", "o", "", "Target directory for results and mapping context (required)")
	dirCmd.Flags().BoolVar(&cleanMode, "clean", false, "Remove the target directory before processing")
}
