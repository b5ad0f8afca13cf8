package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// GeneratorFile is the optional YAML override for the AI provider setup:
//
//	provider: huggingface
//	models:
//	  - google/flan-t5-large
//	timeout_seconds: 20
//	max_attempts: 2
type GeneratorFile struct {
	Provider       string   `yaml:"provider"`
	BaseURL        string   `yaml:"base_url"`
	Models         []string `yaml:"models"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
	MaxAttempts    int      `yaml:"max_attempts"`
}

func LoadGeneratorFile(path string) (*GeneratorFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read generator config: %w", err)
	}
	var file GeneratorFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse generator config %s: %w", path, err)
	}
	if file.TimeoutSeconds < 0 || file.MaxAttempts < 0 {
		return nil, fmt.Errorf("parse generator config %s: negative timeout or attempts", path)
	}
	return &file, nil
}

// Apply overrides env with every field set in the file.
func (f *GeneratorFile) Apply(env *Environment) {
	if p := strings.TrimSpace(f.Provider); p != "" {
		env.AIProvider = strings.ToLower(p)
	}
	if f.BaseURL != "" {
		env.AIBaseURL = f.BaseURL
	}
	if len(f.Models) > 0 {
		env.AIModels = f.Models
	}
	if f.TimeoutSeconds > 0 {
		env.AITimeout = time.Duration(f.TimeoutSeconds) * time.Second
	}
	if f.MaxAttempts > 0 {
		env.AIMaxAttempts = f.MaxAttempts
	}
}
