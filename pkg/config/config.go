// Package config loads the minicc driver configuration from TOML or YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"minicc/pkg/logging"
)

// EnvVar names the environment variable holding an explicit config path.
const EnvVar = "MINICC_CONFIG"

// Config holds the complete driver configuration
type Config struct {
	Output OutputConfig `toml:"output" yaml:"output"`
	Log    LogConfig    `toml:"log" yaml:"log"`
	Parser ParserConfig `toml:"parser" yaml:"parser"`
}

// OutputConfig controls what the check command prints
type OutputConfig struct {
	Format     string `toml:"format" yaml:"format"` // text or json
	Color      bool   `toml:"color" yaml:"color"`
	DumpAST    bool   `toml:"dump_ast" yaml:"dump_ast"`
	DumpTokens bool   `toml:"dump_tokens" yaml:"dump_tokens"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `toml:"level" yaml:"level"`
	Format string `toml:"format" yaml:"format"`
}

// ParserConfig holds parser limits
type ParserConfig struct {
	MaxDepth int `toml:"max_depth" yaml:"max_depth"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Output: OutputConfig{Format: "text", Color: true, DumpAST: true},
		Log:    LogConfig{Level: "warn", Format: "text"},
		Parser: ParserConfig{MaxDepth: 0},
	}
}

// Load loads configuration from a .toml, .yaml or .yml file. Keys missing
// from the file keep their defaults.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPaths lists the files Discover tries, in order.
var DefaultPaths = []string{
	"./minicc.toml",
	"./minicc.yaml",
	"./minicc.yml",
}

// Discover loads the file named by MINICC_CONFIG, or the first of
// DefaultPaths that exists. With neither it returns Default and an empty
// path.
func Discover() (*Config, string, error) {
	if path := os.Getenv(EnvVar); path != "" {
		cfg, err := Load(path)
		return cfg, path, err
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			cfg, err := Load(p)
			return cfg, p, err
		}
	}
	return Default(), "", nil
}

// applyDefaults fills fields a file set to empty values
func (c *Config) applyDefaults() {
	if c.Output.Format == "" {
		c.Output.Format = "text"
	}
	if c.Log.Level == "" {
		c.Log.Level = "warn"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks enumerated fields and limits.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case "text", "json":
	default:
		return fmt.Errorf("output.format must be text or json, got %q", c.Output.Format)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	switch logging.Format(c.Log.Format) {
	case logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	if c.Parser.MaxDepth < 0 {
		return fmt.Errorf("parser.max_depth must not be negative")
	}
	return nil
}

// LoggerConfig translates the log section into a logging.Config.
func (c *Config) LoggerConfig(name string) logging.Config {
	level, err := logging.ParseLevel(c.Log.Level)
	if err != nil {
		level = logging.LevelWarn
	}
	return logging.Config{
		Name:   name,
		Level:  level,
		Format: logging.Format(c.Log.Format),
		Color:  c.Output.Color,
	}
}
