// Package config handles run configuration loading and validation for rowmerge.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/spektr-org/rowmerge/engine"
	"github.com/spektr-org/rowmerge/resolver"
)

// DefaultOutput is the output file name used when none is given.
const DefaultOutput = "! Post_Deduplication.csv"

// Config holds all settings for one merge run.
type Config struct {
	// Input is the CSV or XLSX file to deduplicate
	Input string `json:"filename" yaml:"filename"`

	// Output is the CSV file written on success
	Output string `json:"output_filename" yaml:"output_filename"`

	// UniqueKey is one column name or a comma-separated list of names
	UniqueKey string `json:"unique_key" yaml:"unique_key"`

	// Separator is the input field separator
	Separator string `json:"separator" yaml:"separator"`

	// Encoding is the input text encoding
	Encoding string `json:"encoding" yaml:"encoding"`

	// BreakOnErrors aborts on malformed input rows instead of skipping them
	BreakOnErrors bool `json:"break_on_errors" yaml:"break_on_errors"`

	// ConcatDelimiter joins text in cat/ddc/sdc and splits text in sdc
	ConcatDelimiter string `json:"concat_delimiter" yaml:"concat_delimiter"`

	// CaseInsensitive groups a single text key case-insensitively
	CaseInsensitive bool `json:"case_insensitive" yaml:"case_insensitive"`

	// Schema is an optional column → tag file; empty means ask interactively
	Schema string `json:"schema" yaml:"schema"`

	// SaveSchema, when set, receives the resolved tags as a schema file
	SaveSchema string `json:"save_schema" yaml:"save_schema"`

	// Logging settings
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// LoggingConfig holds logging-related configuration.
type LoggingConfig struct {
	// Level is the minimum log level (debug, info, warn, error)
	Level string `json:"level" yaml:"level"`

	// Format is the log format (text, json)
	Format string `json:"format" yaml:"format"`

	// Output is where logs are written (stdout, stderr, or file path)
	Output string `json:"output" yaml:"output"`
}

// DefaultConfig returns a Config with the historical defaults.
func DefaultConfig() *Config {
	return &Config{
		Output:          DefaultOutput,
		Separator:       ",",
		Encoding:        "utf-8",
		BreakOnErrors:   true,
		ConcatDelimiter: resolver.DefaultDelimiter,
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "text",
			Output: "stderr",
		},
	}
}

// Load reads configuration from a file. Supports YAML and JSON. An empty
// path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, engine.Configf("config", "config file %s does not exist", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	ext := filepath.Ext(path)
	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, engine.Configf("config", "failed to parse YAML config: %v", err)
		}
	case ".json":
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, engine.Configf("config", "failed to parse JSON config: %v", err)
		}
	default:
		// Try YAML first, then JSON
		if err := yaml.Unmarshal(data, cfg); err != nil {
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, engine.Configf("config", "failed to parse config file (tried YAML and JSON): %v", err)
			}
		}
	}

	return cfg, nil
}

// KeyColumns splits UniqueKey on commas, trimming blanks.
func (c *Config) KeyColumns() []string {
	var cols []string
	for _, part := range strings.Split(c.UniqueKey, ",") {
		if p := strings.TrimSpace(part); p != "" {
			cols = append(cols, p)
		}
	}
	return cols
}

// Validate checks if the configuration is usable. Every failure is an
// *engine.ConfigurationError.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Input) == "" {
		return engine.Configf("filename", "an input file is required")
	}
	if strings.TrimSpace(c.Output) == "" {
		return engine.Configf("output_filename", "an output file name is required")
	}
	key := c.KeyColumns()
	if len(key) == 0 {
		return engine.Configf("unique_key", "a key column is required")
	}
	if c.CaseInsensitive && len(key) > 1 {
		return engine.Configf("case_insensitive", "only supported with a single key column, got %d", len(key))
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return engine.Configf("log-level", "invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Logging.Format] {
		return engine.Configf("log-format", "invalid log format: %s (must be text or json)", c.Logging.Format)
	}

	return nil
}

// ParseBool reads the yes/no spellings accepted on the command line.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "t", "y", "1":
		return true, nil
	case "no", "false", "f", "n", "0":
		return false, nil
	}
	return false, fmt.Errorf("boolean value expected, got %q", s)
}
