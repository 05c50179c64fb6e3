// Package api provides the public API for using dexmixer as a library.
//
// An Editor wraps one parsed container. Modes and explicit replacements are
// registered first; Execute then builds the type mapping and returns the
// rewritten container.
//
// Basic usage example:
//
//	ed, err := api.New(input, api.Options{Silent: true})
//	if err != nil {
//	    log.Fatalf("Failed to parse container: %v", err)
//	}
//
//	ed.EnableObfuscation(21)
//	ed.EnableShrink()
//	ed.OverrideString("https://staging.example.com", "https://example.com")
//
//	output, err := ed.Execute()
//	if err != nil {
//	    log.Fatalf("Failed to rewrite container: %v", err)
//	}
package api

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/whit3rabbit/dexmixer/internal/config"
	"github.com/whit3rabbit/dexmixer/internal/container"
	"github.com/whit3rabbit/dexmixer/internal/mapping"
	"github.com/whit3rabbit/dexmixer/internal/obfuscator"
	"github.com/whit3rabbit/dexmixer/internal/scrambler"
)

// ParseError reports a malformed input container.
type ParseError = container.ParseError

// SerializeError reports a rewritten container that cannot be encoded.
type SerializeError = container.SerializeError

// PrintInfo prints formatted information to stdout, respecting the Testing flag.
// If Testing mode is active, no output will be generated.
// This function forwards to the internal config.PrintInfo function.
func PrintInfo(format string, args ...interface{}) {
	config.PrintInfo(format, args...)
}

// Options represents configuration options for creating a new Editor.
type Options struct {
	// ConfigPath is the path to a YAML configuration file.
	// If empty, config.yaml in the working directory is used when present.
	ConfigPath string

	// Silent suppresses informational messages.
	Silent bool

	// Seed makes generated names reproducible. Zero means a random seed.
	Seed int64
}

// Editor is the rewrite engine for one input container.
type Editor struct {
	// Config holds the settings the editor was created with.
	Config *config.Config

	editor *obfuscator.Editor
}

// New parses input and returns an Editor configured from options. The
// configuration file may already enable modes and register replacements.
//
// A malformed container is reported as a *ParseError.
func New(input []byte, options Options) (*Editor, error) {
	cfg, err := config.LoadConfig(options.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if options.Silent {
		cfg.Silent = true
	}

	opts := obfuscator.Options{Silent: cfg.Silent, DebugMode: cfg.DebugMode}
	if options.Seed != 0 {
		opts.Generator = scrambler.NewSeeded(options.Seed)
	}

	ed, err := obfuscator.NewEditor(input, container.NewYAML(), opts)
	if err != nil {
		return nil, err
	}
	if err := ed.Configure(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply configuration: %w", err)
	}
	return &Editor{Config: cfg, editor: ed}, nil
}

// Open reads and parses the container at path.
func Open(path string, options Options) (*Editor, error) {
	input, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read input file %s: %w", path, err)
	}
	return New(input, options)
}

// EnableObfuscation turns on class renaming for the given minimum
// platform level. Names are generated when Execute runs.
func (e *Editor) EnableObfuscation(minSdk int) {
	e.editor.EnableObfuscation(minSdk)
}

// EnableShrink turns on removal of source file names, parameter names,
// debug items and annotations outside the keep set.
func (e *Editor) EnableShrink() {
	e.editor.EnableShrink()
}

// OverrideType pins the replacement of a class type. It takes precedence
// over generated names and applies even without obfuscation.
func (e *Editor) OverrideType(original, replacement string) {
	e.editor.OverrideType(original, replacement)
}

// OverrideString replaces every string constant exactly equal to original.
func (e *Editor) OverrideString(original, replacement string) {
	e.editor.OverrideString(original, replacement)
}

// Execute rewrites the container and returns the encoded result. A
// rewritten container that cannot be encoded is reported as a
// *SerializeError.
func (e *Editor) Execute() ([]byte, error) {
	return e.editor.Execute()
}

// ExecuteToFile runs Execute and writes the result to outputPath.
func (e *Editor) ExecuteToFile(outputPath string) error {
	output, err := e.Execute()
	if err != nil {
		return err
	}

	outputDir := filepath.Dir(outputPath)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", outputDir, err)
	}
	if err := os.WriteFile(outputPath, output, 0644); err != nil {
		return fmt.Errorf("failed to write to output file %s: %w", outputPath, err)
	}
	return nil
}

// ExportMapping returns a snapshot of the type mapping, original to
// replacement.
func (e *Editor) ExportMapping() map[string]string {
	return e.editor.Mappings()
}

// WriteMapping writes the type mapping as retrace text, one
// "original" -> "replacement" line per class.
func (e *Editor) WriteMapping(w io.Writer) error {
	return mapping.WriteText(w, e.ExportMapping())
}

// SaveMapping saves the type mapping state so a later run can keep the
// same names (see the mapping.state setting).
func (e *Editor) SaveMapping(path string) error {
	return e.editor.SaveMapping(path)
}

// LookupOriginal returns the original type behind a replacement.
//
// Returns an error if no class was mapped to replacement.
func (e *Editor) LookupOriginal(replacement string) (string, error) {
	original, ok := mapping.Reverse(e.ExportMapping())[replacement]
	if !ok {
		return "", fmt.Errorf("type not found in mapping: %s", replacement)
	}
	return original, nil
}
