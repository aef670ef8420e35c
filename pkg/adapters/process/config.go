package process

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultConfigName is looked up next to the phonebook and in the working directory.
const DefaultConfigName = "fernspiel.yaml"

// ProcessConfig represents the configuration for an external program.
type ProcessConfig struct {
	Command     string            `yaml:"command" json:"command"`
	Args        []string          `yaml:"args" json:"args"`
	Environment map[string]string `yaml:"env" json:"env"`
}

// RedisConfig enables the redis publisher and dial sense.
type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db"`
	Channel  string `yaml:"channel" json:"channel"`
	DialList string `yaml:"dial_list" json:"dial_list"`
	Prefix   string `yaml:"prefix" json:"prefix"`
}

// Config is the structure of fernspiel.yaml.
type Config struct {
	Processes map[string]ProcessConfig `yaml:"processes" json:"processes"`
	Redis     *RedisConfig             `yaml:"redis" json:"redis"`
}

// LoadConfig reads a configuration file (YAML or JSON).
// A missing file yields an empty configuration.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{Processes: map[string]ProcessConfig{}}, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	if cfg.Processes == nil {
		cfg.Processes = map[string]ProcessConfig{}
	}
	for name, p := range cfg.Processes {
		if p.Command == "" {
			return nil, fmt.Errorf("process %q in %s has no command", name, path)
		}
	}
	return &cfg, nil
}

// FindConfig returns the first existing config file among dirs, or "".
func FindConfig(dirs ...string) string {
	for _, dir := range dirs {
		candidate := filepath.Join(dir, DefaultConfigName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
