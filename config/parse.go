package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
)

// ParseFile loads a Config from a file. The file extension is used to
// determine the configuration format (JSON or YAML).
func ParseFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".json":
		return ParseJSON(data)
	case ".yml", ".yaml":
		return ParseYAML(data)
	default:
		return nil, fmt.Errorf("unsupported file extension: %s", ext)
	}
}

// ParseYAML loads a Config from YAML. Unknown keys are rejected.
func ParseYAML(data []byte) (*Config, error) {
	var config Config
	if err := yaml.UnmarshalWithOptions(data, &config, yaml.Strict()); err != nil {
		return nil, err
	}
	return &config, nil
}

// ParseJSON loads a Config from JSON
func ParseJSON(data []byte) (*Config, error) {
	var config Config
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, err
	}
	return &config, nil
}

// Write a Config to a writer in YAML format. API keys are redacted.
func (c *Config) Write(w io.Writer) error {
	return yaml.NewEncoder(w).Encode(c.Redacted())
}

// Redacted returns a copy of the config with API keys masked.
func (c *Config) Redacted() *Config {
	out := *c
	out.Text.OpenRouterAPIKey = redact(out.Text.OpenRouterAPIKey)
	out.Text.OpenAIAPIKey = redact(out.Text.OpenAIAPIKey)
	out.Text.GeminiAPIKey = redact(out.Text.GeminiAPIKey)
	out.Video.APIKey = redact(out.Video.APIKey)
	return &out
}

func redact(key string) string {
	if key == "" {
		return ""
	}
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "****"
}
