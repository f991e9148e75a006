// Package config provides configuration types and defaults for pastille.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"
)

// PersonConfig defines a single directory entry available for @-mentions.
type PersonConfig struct {
	Key   string `mapstructure:"key"`   // stable identifier, e.g. "alice"
	Name  string `mapstructure:"name"`  // display name rendered in the chip
	Color string `mapstructure:"color"` // hex chip background e.g. "#10B981"
}

// Config holds all configuration options for pastille.
type Config struct {
	Editor    EditorConfig    `mapstructure:"editor"`
	Theme     ThemeConfig     `mapstructure:"theme"`
	Directory DirectoryConfig `mapstructure:"directory"`
	Storage   StorageConfig   `mapstructure:"storage"`
}

// EditorConfig holds token field behavior options.
type EditorConfig struct {
	// Trigger is the character that opens mention input. Default "@".
	Trigger string `mapstructure:"trigger"`

	// CharLimit caps the field content in characters. 0 means unlimited.
	CharLimit int `mapstructure:"char_limit"`

	// SmartQuotes converts straight quotes to curly ones while typing.
	SmartQuotes bool `mapstructure:"smart_quotes"`

	// Placeholder is shown when the field is empty.
	Placeholder string `mapstructure:"placeholder"`
}

// TriggerRune returns the configured trigger as a rune, or '@' when unset.
func (e EditorConfig) TriggerRune() rune {
	if e.Trigger == "" {
		return '@'
	}
	r, _ := utf8.DecodeRuneInString(e.Trigger)
	return r
}

// ThemeConfig holds all theme customization options.
type ThemeConfig struct {
	// Preset loads a built-in theme as the base (optional).
	// Valid values: "default", "catppuccin-mocha", "catppuccin-latte",
	// "dracula", "nord", "high-contrast"
	Preset string `mapstructure:"preset"`

	// Mode forces light or dark mode. If empty, uses terminal detection.
	// Valid values: "light", "dark", ""
	Mode string `mapstructure:"mode"`

	// Colors allows overriding individual color tokens.
	// Supports both nested YAML structure and dot notation.
	// Example YAML:
	//   colors:
	//     chip:
	//       background: "#6B7280"
	// Or quoted dot notation:
	//   colors:
	//     "chip.background": "#6B7280"
	Colors map[string]any `mapstructure:"colors"`
}

// FlattenedColors returns the Colors map flattened to dot-notation keys.
// This handles both nested YAML structures and already-flat keys.
func (t ThemeConfig) FlattenedColors() map[string]string {
	result := make(map[string]string)
	flattenColors("", t.Colors, result)
	return result
}

// flattenColors recursively flattens a nested map into dot-notation keys.
func flattenColors(prefix string, m map[string]any, result map[string]string) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}

		switch val := v.(type) {
		case string:
			result[key] = val
		case map[string]any:
			flattenColors(key, val, result)
		case map[any]any:
			// YAML sometimes produces map[any]any instead of map[string]any
			converted := make(map[string]any)
			for mk, mv := range val {
				if strKey, ok := mk.(string); ok {
					converted[strKey] = mv
				}
			}
			flattenColors(key, converted, result)
		}
	}
}

// DirectoryConfig holds the mention directory configuration.
type DirectoryConfig struct {
	// People lists the entries offered for mention completion.
	People []PersonConfig `mapstructure:"people"`

	// CacheTTLSeconds bounds how long resolved display records are cached.
	// Default 300 seconds.
	CacheTTLSeconds int `mapstructure:"cache_ttl_seconds"`
}

// StorageConfig holds draft storage location configuration.
type StorageConfig struct {
	// BaseDir is the root directory for the drafts database.
	// Default: ~/.pastille
	BaseDir string `mapstructure:"base_dir"`
}

// DBPath returns the full path to the drafts database file.
func (s StorageConfig) DBPath() string {
	base := s.BaseDir
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".pastille")
	}
	return filepath.Join(base, "drafts.db")
}

// ValidateEditor checks editor configuration for errors.
// Returns nil if the configuration is valid (empty values use defaults).
func ValidateEditor(e EditorConfig) error {
	if e.Trigger != "" && utf8.RuneCountInString(e.Trigger) != 1 {
		return fmt.Errorf("editor.trigger must be a single character, got %q", e.Trigger)
	}
	if e.CharLimit < 0 {
		return fmt.Errorf("editor.char_limit must be >= 0, got %d", e.CharLimit)
	}
	return nil
}

// ValidateDirectory checks directory configuration for errors.
func ValidateDirectory(d DirectoryConfig) error {
	seen := make(map[string]bool)
	for i, p := range d.People {
		if p.Key == "" {
			return fmt.Errorf("directory.people[%d]: key is required", i)
		}
		if seen[p.Key] {
			return fmt.Errorf("directory.people: duplicate key %q", p.Key)
		}
		seen[p.Key] = true
	}
	if d.CacheTTLSeconds < 0 {
		return fmt.Errorf("directory.cache_ttl_seconds must be >= 0, got %d", d.CacheTTLSeconds)
	}
	return nil
}

// ValidateTheme checks theme configuration for errors.
func ValidateTheme(t ThemeConfig) error {
	switch t.Mode {
	case "", "light", "dark":
	default:
		return fmt.Errorf("theme.mode must be \"light\", \"dark\" or empty, got %q", t.Mode)
	}
	return nil
}

// Validate checks the full configuration.
func (c Config) Validate() error {
	if err := ValidateEditor(c.Editor); err != nil {
		return err
	}
	if err := ValidateDirectory(c.Directory); err != nil {
		return err
	}
	return ValidateTheme(c.Theme)
}

// Defaults returns a Config with sensible default values.
func Defaults() Config {
	return Config{
		Editor: EditorConfig{
			Trigger:     "@",
			CharLimit:   0,
			SmartQuotes: true,
			Placeholder: "Write a message...",
		},
		Theme: ThemeConfig{
			Preset: "default",
		},
		Directory: DirectoryConfig{
			CacheTTLSeconds: 300,
		},
		Storage: StorageConfig{},
	}
}

// DefaultConfigTemplate returns the default config as a YAML string with comments.
func DefaultConfigTemplate() string {
	return `# pastille configuration

editor:
  # Character that opens mention input.
  trigger: "@"
  # Maximum content length in characters. 0 = unlimited.
  char_limit: 0
  # Convert straight quotes to curly quotes while typing.
  smart_quotes: true
  placeholder: "Write a message..."

theme:
  # Built-in presets: default, catppuccin-mocha, catppuccin-latte,
  # dracula, nord, high-contrast
  preset: default
  # Force light or dark mode. Empty uses terminal detection.
  mode: ""
  # Override individual color tokens, e.g.:
  # colors:
  #   chip:
  #     background: "#6B7280"

directory:
  # People offered for @-mention completion.
  people:
    - key: alice
      name: Alice Chen
      color: "#10B981"
    - key: bob
      name: Bob Okafor
      color: "#6366F1"
  cache_ttl_seconds: 300

storage:
  # Directory for the drafts database. Default: ~/.pastille
  base_dir: ""
`
}

// WriteDefaultConfig creates a config file at the given path with default
// settings and comments. Creates the parent directory if it doesn't exist.
func WriteDefaultConfig(configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("config file already exists: %s", configPath)
	}
	if err := os.WriteFile(configPath, []byte(DefaultConfigTemplate()), 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
