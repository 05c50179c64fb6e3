package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// DefaultMinSdk is the platform level assumed when none is configured.
// Package names generated at or above it need no visible prefix.
const DefaultMinSdk = 25

// envPrefix prefixes environment overrides, e.g. DEXMIXER_SHRINK_ENABLED.
const envPrefix = "DEXMIXER"

// --- Nested Configuration Structs ---

// ObfuscationConfig defines settings for class renaming
type ObfuscationConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
	MinSdk  int  `yaml:"min_sdk" mapstructure:"min_sdk"`
}

// ShrinkConfig defines settings for stripping debug metadata
type ShrinkConfig struct {
	Enabled bool `yaml:"enabled" mapstructure:"enabled"`
}

// Replacement is one explicit original -> replacement pair.
type Replacement struct {
	From string `yaml:"from" mapstructure:"from"`
	To   string `yaml:"to" mapstructure:"to"`
}

// OverridesConfig holds explicit replacements. They are lists rather than
// maps because viper lowercases map keys, and type descriptors and string
// literals are case sensitive.
type OverridesConfig struct {
	Types   []Replacement `yaml:"types" mapstructure:"types"`
	Strings []Replacement `yaml:"strings" mapstructure:"strings"`
}

// MappingConfig defines where type mappings are read from and written to
type MappingConfig struct {
	Output string `yaml:"output" mapstructure:"output"` // retrace text written after a run
	Apply  string `yaml:"apply" mapstructure:"apply"`   // retrace text applied as type overrides
	State  string `yaml:"state" mapstructure:"state"`   // binary state loaded before and saved after a run
}

// Config holds all configuration settings for dexmixer.
// Struct tags control how Viper maps config file keys and environment variables.
type Config struct {
	Silent    bool `yaml:"silent" mapstructure:"silent"`         // Suppress informational messages
	DebugMode bool `yaml:"debug_mode" mapstructure:"debug_mode"` // Enable verbose debug logging

	Obfuscation ObfuscationConfig `yaml:"obfuscation" mapstructure:"obfuscation"`
	Shrink      ShrinkConfig      `yaml:"shrink" mapstructure:"shrink"`
	Overrides   OverridesConfig   `yaml:"overrides" mapstructure:"overrides"`
	Mapping     MappingConfig     `yaml:"mapping" mapstructure:"mapping"`
}

// Default values for the configuration, keyed the way viper sees them.
var defaults = map[string]interface{}{
	"silent":              false,
	"debug_mode":          false,
	"obfuscation.enabled": false,
	"obfuscation.min_sdk": DefaultMinSdk,
	"shrink.enabled":      false,
	"mapping.output":      "",
	"mapping.apply":       "",
	"mapping.state":       "",
}

var (
	// Testing controls whether output is suppressed for testing purposes
	Testing bool
)

// PrintInfo prints an informational message unless Testing is set.
func PrintInfo(format string, args ...interface{}) {
	if !Testing {
		fmt.Printf(format, args...)
	}
}

// PrintDebug prints a debug trace when debug mode is on.
func (c *Config) PrintDebug(format string, args ...interface{}) {
	if c.DebugMode {
		PrintInfo("Debug: "+format, args...)
	}
}

// LoadConfig reads configuration from file and DEXMIXER_* environment
// variables on top of the defaults, then returns a filled Config struct.
// An empty configPath falls back to config.yaml in the working directory,
// which may be absent; an explicit path must exist.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for key := range defaults {
		bindEnv(v, key)
	}

	explicit := configPath != ""
	if !explicit {
		configPath = "config.yaml" // Default path
	}

	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", configPath, err)
		}
	} else if os.IsNotExist(err) {
		if explicit {
			return nil, fmt.Errorf("specified config file not found: %s", configPath)
		}
		configPath = ""
	} else {
		return nil, fmt.Errorf("error checking config file %s: %w", configPath, err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if configPath != "" && !cfg.Silent {
		PrintInfo("Info: Loaded configuration from %s\n", configPath)
	}
	return cfg, nil
}

// Validate rejects settings no run could honour.
func (c *Config) Validate() error {
	if c.Obfuscation.MinSdk < 0 {
		return fmt.Errorf("obfuscation.min_sdk must not be negative, got %d", c.Obfuscation.MinSdk)
	}
	for _, r := range c.Overrides.Types {
		if r.From == "" || r.To == "" {
			return fmt.Errorf("type override %q -> %q: both sides are required", r.From, r.To)
		}
	}
	for _, r := range c.Overrides.Strings {
		if r.From == "" {
			return fmt.Errorf("string override -> %q: original literal is required", r.To)
		}
	}
	return nil
}

// SaveConfig saves the default configuration to a file.
func SaveConfig(configPath string) error {
	cfg := DefaultConfig()
	yamlData, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshalling default config: %w", err)
	}
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating directory for config file %s: %w", configPath, err)
	}
	err = os.WriteFile(configPath, yamlData, 0644)
	if err != nil {
		return fmt.Errorf("error writing config file %s: %w", configPath, err)
	}
	PrintInfo("Info: Saved default configuration to %s\n", configPath)
	return nil
}

// DefaultConfig returns a configuration with default settings.
func DefaultConfig() *Config {
	return &Config{
		Silent:    false,
		DebugMode: false,
		Obfuscation: ObfuscationConfig{
			Enabled: false,
			MinSdk:  DefaultMinSdk,
		},
		Shrink: ShrinkConfig{
			Enabled: false,
		},
		Overrides: OverridesConfig{
			Types:   []Replacement{},
			Strings: []Replacement{},
		},
	}
}

// ParseReplacement splits a "from=to" flag value. The first '=' separates
// the two sides, so replacements may themselves contain '='.
func ParseReplacement(s string) (Replacement, error) {
	from, to, ok := strings.Cut(s, "=")
	if !ok || from == "" {
		return Replacement{}, fmt.Errorf("invalid replacement %q, expected from=to", s)
	}
	return Replacement{From: from, To: to}, nil
}

// Helper to explicitly bind environment variables, handling potential key mismatches
func bindEnv(v *viper.Viper, key string) {
	envKey := strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
	_ = v.BindEnv(key, envPrefix+"_"+envKey)
}
