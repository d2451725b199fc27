// Package config reads the taskbundle YAML configuration file.
//
// Every section is optional. Keys that are absent keep their defaults, so
// a file only lists what it changes:
//
//	pipeline:
//	  relationshipPolicy: abort
//	resolution:
//	  taskStrategy: overwrite
//	logging:
//	  level: debug
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"taskbundle/internal/ident"
	"taskbundle/internal/loader"
	"taskbundle/internal/pipeline"
	"taskbundle/internal/resolve"
	"taskbundle/internal/sanitize"
)

// Config is the content of a configuration file.
type Config struct {
	Loader     loader.Config   `yaml:"loader"`
	Pipeline   Pipeline        `yaml:"pipeline"`
	Sanitize   Sanitize        `yaml:"sanitize"`
	Resolution resolve.Options `yaml:"resolution"`
	Logging    Logging         `yaml:"logging"`
}

// Pipeline holds the reconciliation switches.
type Pipeline struct {
	Sanitize           bool                        `yaml:"sanitize"`
	SanitizeOnError    bool                        `yaml:"sanitizeOnError"`
	SanitizeOnWarning  bool                        `yaml:"sanitizeOnWarning"`
	NormalizeProgress  bool                        `yaml:"normalizeProgress"`
	RelationshipPolicy pipeline.RelationshipPolicy `yaml:"relationshipPolicy"`
	// IDPrefix switches identifier generation from random UUIDs to the
	// sequence "<prefix>-1", "<prefix>-2", ...
	IDPrefix string `yaml:"idPrefix,omitempty"`
}

// Sanitize selects the sanitizer fixes.
type Sanitize struct {
	RemoveInvalidFields bool `yaml:"removeInvalidFields"`
	FixDateFormats      bool `yaml:"fixDateFormats"`
	NormalizeStrings    bool `yaml:"normalizeStrings"`
	GenerateMissingIDs  bool `yaml:"generateMissingIds"`
	SetDefaultValues    bool `yaml:"setDefaultValues"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	pc := pipeline.DefaultConfig()

	return &Config{
		Loader: loader.DefaultConfig(),
		Pipeline: Pipeline{
			Sanitize:           pc.Sanitize,
			SanitizeOnError:    pc.SanitizeOnError,
			SanitizeOnWarning:  pc.SanitizeOnWarning,
			NormalizeProgress:  pc.NormalizeProgress,
			RelationshipPolicy: pc.RelationshipPolicy,
		},
		Sanitize: Sanitize{
			RemoveInvalidFields: pc.SanitizeOptions.RemoveInvalidFields,
			FixDateFormats:      pc.SanitizeOptions.FixDateFormats,
			NormalizeStrings:    pc.SanitizeOptions.NormalizeStrings,
			GenerateMissingIDs:  pc.SanitizeOptions.GenerateMissingIDs,
			SetDefaultValues:    pc.SanitizeOptions.SetDefaultValues,
		},
		Resolution: pc.Resolution,
		Logging:    DefaultLogging(),
	}
}

// LoadFile loads and parses a YAML configuration file from the given path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return Parse(data)
}

// Parse parses YAML data on top of the defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyDefaults restores defaults for enum keys given as empty strings.
func applyDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Pipeline.RelationshipPolicy == "" {
		cfg.Pipeline.RelationshipPolicy = defaults.Pipeline.RelationshipPolicy
	}

	r := &cfg.Resolution
	if r.TaskStrategy == "" {
		r.TaskStrategy = defaults.Resolution.TaskStrategy
	}

	if r.BoardStrategy == "" {
		r.BoardStrategy = defaults.Resolution.BoardStrategy
	}

	if r.SettingsStrategy == "" {
		r.SettingsStrategy = defaults.Resolution.SettingsStrategy
	}

	if r.MergeStrategy == "" {
		r.MergeStrategy = defaults.Resolution.MergeStrategy
	}

	if r.OrphanHandling == "" {
		r.OrphanHandling = defaults.Resolution.OrphanHandling
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = defaults.Logging.Level
	}

	if cfg.Logging.Format == "" {
		cfg.Logging.Format = defaults.Logging.Format
	}

	cfg.Pipeline.IDPrefix = strings.TrimSpace(cfg.Pipeline.IDPrefix)
}

// Validate reports every invalid setting.
func (c *Config) Validate() error {
	var errs []error

	if c.Loader.MaxSize < 0 {
		errs = append(errs, fmt.Errorf("loader.maxSize must not be negative, got %d", c.Loader.MaxSize))
	}

	if len(c.Loader.AllowedTypes) == 0 {
		errs = append(errs, errors.New("loader.allowedTypes must not be empty"))
	}

	if err := c.PipelineConfig().Validate(); err != nil {
		errs = append(errs, err)
	}

	if err := c.Logging.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// PipelineConfig converts the file settings into a reconciler configuration.
func (c *Config) PipelineConfig() pipeline.Config {
	pc := pipeline.DefaultConfig()
	pc.Sanitize = c.Pipeline.Sanitize
	pc.SanitizeOnError = c.Pipeline.SanitizeOnError
	pc.SanitizeOnWarning = c.Pipeline.SanitizeOnWarning
	pc.NormalizeProgress = c.Pipeline.NormalizeProgress
	pc.RelationshipPolicy = c.Pipeline.RelationshipPolicy
	pc.SanitizeOptions = sanitize.Options{
		RemoveInvalidFields: c.Sanitize.RemoveInvalidFields,
		FixDateFormats:      c.Sanitize.FixDateFormats,
		NormalizeStrings:    c.Sanitize.NormalizeStrings,
		GenerateMissingIDs:  c.Sanitize.GenerateMissingIDs,
		SetDefaultValues:    c.Sanitize.SetDefaultValues,
	}
	pc.Resolution = c.Resolution

	if c.Pipeline.IDPrefix != "" {
		pc.IDs = ident.NewSequence(c.Pipeline.IDPrefix)
	}

	return pc
}

// Marshal serializes a Config to YAML.
func Marshal(c *Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// WriteFile writes a Config to the given path.
func WriteFile(c *Config, path string) error {
	data, err := Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}
