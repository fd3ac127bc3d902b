package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RolloutConfig is the top-level configuration for an episode run. API keys
// are deliberately absent: they come from the environment, not the file.
type RolloutConfig struct {
	Name        string      `yaml:"name"`
	Model       ModelConfig `yaml:"model"`
	Environment EnvConfig   `yaml:"environment"`
	Logging     LogConfig   `yaml:"logging"`
}

type ModelConfig struct {
	Provider    string  `yaml:"provider"`
	Id          string  `yaml:"id"`
	Temperature float64 `yaml:"temperature"`
	BaseURL     string  `yaml:"base_url"`
}

type EnvConfig struct {
	Type   string         `yaml:"type"`
	Config map[string]any `yaml:"config"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

func DefaultConfig() *RolloutConfig {
	return &RolloutConfig{
		Name: "rollout",
		Model: ModelConfig{
			Provider:    "openai",
			Id:          "gpt-4o-mini",
			Temperature: 1.0,
		},
		Environment: EnvConfig{
			Type: "scripted",
		},
	}
}

// LoadConfig reads a YAML config file, filling unset fields with defaults.
func LoadConfig(path string) (*RolloutConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %v", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %v", err)
	}
	return cfg, nil
}
