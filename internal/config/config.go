package config

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/jdegraft/openmrs-module-emrapi/internal/normalize"
)

// DefaultCodeSources are the terminology sources codes are taken from when
// neither a flag nor the config file names any.
var DefaultCodeSources = []string{"ICD-10-WHO"}

// Config holds all runtime configuration for an emrapi run.
type Config struct {
	DSN          string
	NamesPath    string
	MappingsPath string
	LogFormat    string // "text" or "json"
	LogLevel     string
	Locale       string
	Force        bool
	KeepStaging  bool
	MetricsFile  string
	// CodeSources are the sources eligible for appended codes, in priority order.
	CodeSources []string
}

// yamlConfig is the on-disk YAML structure.
type yamlConfig struct {
	Locale      string   `yaml:"locale"`
	LogLevel    string   `yaml:"log_level"`
	CodeSources []string `yaml:"code_sources"`
}

// LoadFromFile reads a YAML config file and merges its non-empty values into Config.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if yc.Locale != "" {
		c.Locale = yc.Locale
	}
	if yc.LogLevel != "" {
		c.LogLevel = yc.LogLevel
	}
	if len(yc.CodeSources) > 0 {
		c.CodeSources = yc.CodeSources
	}
	return c.validateCodeSources()
}

// validateCodeSources trims every entry and rejects blanks and duplicates.
// If CodeSources is empty, it defaults to DefaultCodeSources.
func (c *Config) validateCodeSources() error {
	if len(c.CodeSources) == 0 {
		c.CodeSources = append([]string(nil), DefaultCodeSources...)
		return nil
	}
	seen := make(map[string]bool, len(c.CodeSources))
	for i, name := range c.CodeSources {
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("blank code source in config")
		}
		if seen[name] {
			return fmt.Errorf("duplicate code source %q in config", name)
		}
		seen[name] = true
		c.CodeSources[i] = name
	}
	return nil
}

// LocaleTag parses the configured locale.
func (c *Config) LocaleTag() (language.Tag, error) {
	return normalize.ParseLocale(c.Locale)
}

// ValidateFormat checks the fields needed to format answers.
func (c *Config) ValidateFormat() error {
	if _, err := c.LocaleTag(); err != nil {
		return fmt.Errorf("--locale: %w", err)
	}
	if err := c.validateCodeSources(); err != nil {
		return err
	}
	if c.NamesPath == "" && c.DSN == "" {
		return fmt.Errorf("--names or --dsn is required")
	}
	if c.NamesPath != "" {
		return c.validateFiles()
	}
	return nil
}

// Validate checks that at least one dictionary file is given and readable.
func (c *Config) Validate() error {
	if c.NamesPath == "" && c.MappingsPath == "" {
		return fmt.Errorf("--names or --mappings is required")
	}
	return c.validateFiles()
}

// ValidateWithDSN checks both dictionary files and the DSN.
func (c *Config) ValidateWithDSN() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.DSN == "" {
		return fmt.Errorf("--dsn or DATABASE_URL is required")
	}
	return nil
}

func (c *Config) validateFiles() error {
	for _, path := range []string{c.NamesPath, c.MappingsPath} {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("file not accessible: %w", err)
		}
	}
	return nil
}
