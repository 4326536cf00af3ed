package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"
)

// Config tunes the specialization engine. It is read from specialize.yaml
// (or specialize.toml) and may be overridden from the environment.
type Config struct {
	// MaxDepth bounds transitive re-specialization of forwarded tables.
	MaxDepth int `yaml:"max_depth" toml:"max_depth"`

	// OverlapThreshold is the number of shared method names needed for a
	// structural parameter match; the effective threshold never exceeds the
	// size of the table.
	OverlapThreshold int `yaml:"overlap_threshold" toml:"overlap_threshold"`

	// OptOutMarker suppresses fallback warnings when found in a comment on
	// the call site's statement.
	OptOutMarker string `yaml:"opt_out_marker" toml:"opt_out_marker"`

	// HoistPrefix prefixes the names of hoisted specializations.
	HoistPrefix string `yaml:"hoist_prefix" toml:"hoist_prefix"`

	// Hoist enables the dedup cache. When false every call site gets its
	// own inline specialization.
	Hoist bool `yaml:"hoist" toml:"hoist"`

	// ReportPositionalFallback emits an informational diagnostic whenever a
	// table is matched to a parameter by position alone.
	ReportPositionalFallback bool `yaml:"report_positional_fallback" toml:"report_positional_fallback"`

	SpecializeName       string `yaml:"specialize_name" toml:"specialize_name"`
	SpecializeInlineName string `yaml:"specialize_inline_name" toml:"specialize_inline_name"`

	// KindConstructors lists the type constructors treated as "apply F to A".
	KindConstructors []string `yaml:"kind_constructors" toml:"kind_constructors"`

	// Contracts adds to or replaces entries of the built-in contract table
	// (contract name -> required method names).
	Contracts map[string][]string `yaml:"contracts" toml:"contracts"`

	// Capabilities lists capability declaration files to register before
	// every unit. LoadConfig resolves them against the config's directory.
	Capabilities []string `yaml:"capabilities" toml:"capabilities"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{Hoist: true}
	cfg.setDefaults()
	return cfg
}

// LoadConfig reads and parses a configuration file. The format is chosen by
// extension: .toml is TOML, anything else YAML.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := ParseConfig(data, path)
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	for i, c := range cfg.Capabilities {
		if !filepath.IsAbs(c) {
			cfg.Capabilities[i] = filepath.Join(dir, c)
		}
	}
	return cfg, nil
}

// ParseConfig parses configuration content from bytes.
// The path argument selects the format and is used in error messages.
func ParseConfig(data []byte, path string) (*Config, error) {
	cfg := &Config{Hoist: true}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}
	if err := cfg.validate(path); err != nil {
		return nil, err
	}
	cfg.setDefaults()
	return cfg, nil
}

// FindConfig searches for a configuration file starting from dir and
// walking up to parent directories.
// Returns the path to the config file and nil error if found,
// or empty string and nil error if not found.
func FindConfig(dir string) (string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolving directory: %w", err)
	}

	for {
		for _, name := range ConfigFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			return "", nil
		}
		dir = parent
	}
}

// ApplyEnv overrides fields from SPECIALIZE_* environment variables.
func (c *Config) ApplyEnv() {
	c.MaxDepth = env.Int(EnvMaxDepth, c.MaxDepth)
	c.OverlapThreshold = env.Int(EnvOverlap, c.OverlapThreshold)
	c.OptOutMarker = env.Str(EnvMarker, c.OptOutMarker)
	if env.Bool(EnvNoHoist) {
		c.Hoist = false
	}
	if c.MaxDepth < 0 {
		c.MaxDepth = 0
	}
	if c.OverlapThreshold < 1 {
		c.OverlapThreshold = DefaultOverlapThreshold
	}
}

// IsKindConstructor reports whether name is one of the configured
// higher-kinded application constructors.
func (c *Config) IsKindConstructor(name string) bool {
	for _, k := range c.KindConstructors {
		if k == name {
			return true
		}
	}
	return false
}

// validate checks the configuration for semantic errors.
func (c *Config) validate(path string) error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("%s: max_depth must not be negative, got %d", path, c.MaxDepth)
	}
	if c.OverlapThreshold < 0 {
		return fmt.Errorf("%s: overlap_threshold must not be negative, got %d", path, c.OverlapThreshold)
	}
	for _, name := range []string{c.SpecializeName, c.SpecializeInlineName} {
		if name != "" && !isIdentifier(name) {
			return fmt.Errorf("%s: %q is not a valid macro name", path, name)
		}
	}
	if c.HoistPrefix != "" && !isIdentifier(c.HoistPrefix) {
		return fmt.Errorf("%s: hoist_prefix %q is not a valid identifier prefix", path, c.HoistPrefix)
	}
	for contract, methods := range c.Contracts {
		if !isIdentifier(contract) {
			return fmt.Errorf("%s: contracts: %q is not a valid contract name", path, contract)
		}
		if len(methods) == 0 {
			return fmt.Errorf("%s: contracts.%s: at least one method is required", path, contract)
		}
	}
	for _, c := range c.Capabilities {
		if c == "" {
			return fmt.Errorf("%s: capabilities: empty file name", path)
		}
	}
	return nil
}

// setDefaults fills in omitted fields.
func (c *Config) setDefaults() {
	if c.MaxDepth == 0 {
		c.MaxDepth = DefaultMaxDepth
	}
	if c.OverlapThreshold == 0 {
		c.OverlapThreshold = DefaultOverlapThreshold
	}
	if c.OptOutMarker == "" {
		c.OptOutMarker = DefaultOptOutMarker
	}
	if c.HoistPrefix == "" {
		c.HoistPrefix = DefaultHoistPrefix
	}
	if c.SpecializeName == "" {
		c.SpecializeName = SpecializeFuncName
	}
	if c.SpecializeInlineName == "" {
		c.SpecializeInlineName = SpecializeInlineFuncName
	}
	if len(c.KindConstructors) == 0 {
		c.KindConstructors = append([]string{}, DefaultKindConstructors...)
	}
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, ch := range s {
		switch {
		case ch == '_' || ch == '$':
		case 'a' <= ch && ch <= 'z', 'A' <= ch && ch <= 'Z':
		case '0' <= ch && ch <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
