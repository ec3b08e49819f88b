package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/frherrer/component-architect/internal/domain"
)

// Config is the top-level configuration struct.
type Config struct {
	DesignTokens string           `yaml:"design_tokens"`
	Model        ModelConfig      `yaml:"model"`
	Sanitize     SanitizeConfig   `yaml:"sanitize"`
	Validation   ValidationConfig `yaml:"validation"`
	Output       OutputConfig     `yaml:"output"`
	Templates    TemplateConfig   `yaml:"templates"`
	History      HistoryConfig    `yaml:"history"`
	Logging      LoggingConfig    `yaml:"logging"`
}

type ModelConfig struct {
	Provider    string        `yaml:"provider"` // "anthropic" or "openai"
	Name        string        `yaml:"name"`
	BaseURL     string        `yaml:"base_url"`
	APIKey      string        `yaml:"api_key"`
	MaxTokens   int           `yaml:"max_tokens"`
	Temperature float64       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

type SanitizeConfig struct {
	MaxPromptLength   int      `yaml:"max_prompt_length"`
	InjectionPatterns []string `yaml:"injection_patterns"`
}

type ValidationConfig struct {
	RequiredMarkers []string `yaml:"required_markers"`
	RequiredTokens  []string `yaml:"required_tokens"`
}

type OutputConfig struct {
	Directory string `yaml:"directory"`
	DryRun    bool   `yaml:"dry_run"`
}

type TemplateConfig struct {
	Directory string `yaml:"directory"`
}

type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Load reads a YAML configuration file and returns a Config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewError("config", path, 0, "failed to read config file", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, domain.NewError("config", path, 0, "failed to parse config file", err)
	}

	return cfg, nil
}

// LoadOrDefault behaves like Load but falls back to DefaultConfig when the file does not exist.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	return Load(path)
}
