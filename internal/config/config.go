package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultInterpreter = "python3"
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "text"

	// EnvPath names a config file used when --config is not given.
	EnvPath = "OPENMMDL_CONFIG"
)

type Config struct {
	Interpreter      string `yaml:"interpreter"`
	StrictExtensions bool   `yaml:"strict_extensions"`
	LogLevel         string `yaml:"log_level"`
	LogFormat        string `yaml:"log_format"`
	Banner           bool   `yaml:"banner"`
}

func DefaultConfig() *Config {
	return &Config{
		Interpreter: DefaultInterpreter,
		LogLevel:    DefaultLogLevel,
		LogFormat:   DefaultLogFormat,
		Banner:      true,
	}
}

// Load reads a YAML file over the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve loads path, or the file named by $OPENMMDL_CONFIG when path is
// empty, or returns the defaults when neither is set.
func Resolve(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvPath)
	}
	if path == "" {
		return DefaultConfig(), nil
	}
	return Load(path)
}

func (c *Config) Validate() error {
	if c.Interpreter == "" {
		return fmt.Errorf("interpreter must not be empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q: must be debug, info, warn or error", c.LogLevel)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return fmt.Errorf("invalid log_format %q: must be text or json", c.LogFormat)
	}
	return nil
}
