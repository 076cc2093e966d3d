// Package config loads adforge configuration from a .env file, an optional
// YAML or JSON file and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/deepnoodle-ai/adforge/log"
	"github.com/deepnoodle-ai/adforge/providers"
)

// ErrMissingKey is returned by Validate when a required API key is absent.
var ErrMissingKey = errors.New("missing required api key")

// LogLevelNone disables logging.
const LogLevelNone = "none"

const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderGoogle     = "google"
)

// DefaultOpenRouterURL is the OpenRouter API base; the chat completions path
// is appended to it.
const DefaultOpenRouterURL = "https://openrouter.ai/api/v1"

// Default returns the configuration used before any file or environment
// overrides are applied.
func Default() *Config {
	return &Config{
		Text: Text{
			OpenRouterURL: DefaultOpenRouterURL,
		},
		Video: Video{
			BaseURL:   "https://api.heygen.com/v2",
			StatusURL: "https://api.heygen.com/v1/videos",
			AvatarID:  "Abigail_expressive_2024112501",
			VoiceID:   "73c0b6a2e29d4d38aca41454bf58c955",
		},
		Output:   Output{Dir: "output"},
		LogLevel: "info",
	}
}

// Load builds the configuration. A .env file in the working directory is
// loaded into the process environment if present; existing environment
// variables win over it. If path is non-empty the file is parsed and layered
// over the defaults. Environment variables are applied last.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env: %w", err)
	}

	config := Default()
	if path != "" {
		fileConfig, err := ParseFile(path)
		if err != nil {
			return nil, fmt.Errorf("error parsing config file %s: %w", path, err)
		}
		config.Merge(fileConfig)
	}
	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return config, nil
}

// Merge overlays the non-zero fields of other onto c.
func (c *Config) Merge(other *Config) {
	mergeString(&c.Text.Provider, other.Text.Provider)
	mergeString(&c.Text.Model, other.Text.Model)
	mergeString(&c.Text.OpenRouterAPIKey, other.Text.OpenRouterAPIKey)
	mergeString(&c.Text.OpenRouterURL, other.Text.OpenRouterURL)
	mergeString(&c.Text.OpenAIAPIKey, other.Text.OpenAIAPIKey)
	mergeString(&c.Text.GeminiAPIKey, other.Text.GeminiAPIKey)
	mergeString(&c.Video.APIKey, other.Video.APIKey)
	mergeString(&c.Video.BaseURL, other.Video.BaseURL)
	mergeString(&c.Video.StatusURL, other.Video.StatusURL)
	mergeString(&c.Video.AvatarID, other.Video.AvatarID)
	mergeString(&c.Video.VoiceID, other.Video.VoiceID)
	mergeString(&c.Output.Dir, other.Output.Dir)
	mergeString(&c.LogLevel, other.LogLevel)
	if other.Video.Test {
		c.Video.Test = true
	}
	if other.Video.Caption {
		c.Video.Caption = true
	}
	if other.Approval.MaxRounds != 0 {
		c.Approval.MaxRounds = other.Approval.MaxRounds
	}
	if other.Approval.AllowPlaceholder {
		c.Approval.AllowPlaceholder = true
	}
}

func mergeString(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// ApplyEnv applies environment overrides using lookup.
func (c *Config) ApplyEnv(lookup LookupFunc) error {
	get := func(key string) string {
		value, _ := lookup(key)
		return strings.TrimSpace(value)
	}

	mergeString(&c.Text.OpenRouterAPIKey, get("OPENROUTER_API_KEY"))
	mergeString(&c.Text.Model, get("OPENROUTER_MODEL"))
	mergeString(&c.Text.OpenRouterURL, get("OPENROUTER_BASE_URL"))
	mergeString(&c.Text.OpenAIAPIKey, get("OPENAI_API_KEY"))
	mergeString(&c.Text.GeminiAPIKey, get("GEMINI_API_KEY"))
	mergeString(&c.Text.Provider, get("ADFORGE_PROVIDER"))
	mergeString(&c.Text.Model, get("ADFORGE_MODEL"))
	mergeString(&c.Video.APIKey, get("HEYGEN_API_KEY"))
	mergeString(&c.Video.BaseURL, get("HEYGEN_BASE_URL"))
	mergeString(&c.Video.StatusURL, get("HEYGEN_STATUS_URL"))
	mergeString(&c.Video.AvatarID, get("HEYGEN_AVATAR_ID"))
	mergeString(&c.Video.VoiceID, get("HEYGEN_VOICE_ID"))
	mergeString(&c.Output.Dir, get("ADFORGE_OUTPUT_DIR"))
	mergeString(&c.LogLevel, get("ADFORGE_LOG_LEVEL"))

	if value := get("ADFORGE_MAX_APPROVAL_ROUNDS"); value != "" {
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("invalid ADFORGE_MAX_APPROVAL_ROUNDS %q: must be a non-negative integer", value)
		}
		c.Approval.MaxRounds = n
	}
	if value := get("ADFORGE_ALLOW_PLACEHOLDER"); value != "" {
		allow, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid ADFORGE_ALLOW_PLACEHOLDER %q: %w", value, err)
		}
		c.Approval.AllowPlaceholder = allow
	}
	return nil
}

// TextProvider returns the text backend to use: the configured provider, or
// the one the provider registry matches for the model. OpenRouter is the
// default.
func (c *Config) TextProvider() string {
	if c.Text.Provider != "" {
		return strings.ToLower(c.Text.Provider)
	}
	if name := providers.Resolve(c.Text.Model); name != "" {
		return name
	}
	return ProviderOpenRouter
}

// TextAPIKey returns the API key for the selected text backend.
func (c *Config) TextAPIKey() string {
	switch c.TextProvider() {
	case ProviderOpenAI:
		return c.Text.OpenAIAPIKey
	case ProviderGoogle:
		return c.Text.GeminiAPIKey
	default:
		return c.Text.OpenRouterAPIKey
	}
}

// TextEndpoint returns the endpoint override for the selected text backend,
// or "" to use the provider default.
func (c *Config) TextEndpoint() string {
	if c.TextProvider() != ProviderOpenRouter || c.Text.OpenRouterURL == "" {
		return ""
	}
	return strings.TrimRight(c.Text.OpenRouterURL, "/") + "/chat/completions"
}

// Validate reports missing API keys and invalid settings.
func (c *Config) Validate() error {
	var errs []error
	switch provider := c.TextProvider(); provider {
	case ProviderOpenRouter, ProviderOpenAI, ProviderGoogle:
		if c.TextAPIKey() == "" {
			errs = append(errs, fmt.Errorf("%w: %s", ErrMissingKey, textKeyEnv[provider]))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown text provider %q", provider))
	}
	if c.Video.APIKey == "" {
		errs = append(errs, fmt.Errorf("%w: HEYGEN_API_KEY", ErrMissingKey))
	}
	if c.Approval.MaxRounds < 0 {
		errs = append(errs, fmt.Errorf("approval max rounds cannot be negative"))
	}
	if level := c.LogLevel; level != "" && !strings.EqualFold(level, LogLevelNone) && !log.IsValidLevel(level) {
		errs = append(errs, fmt.Errorf("unknown log level %q (use debug, info, warn, error or none)", level))
	}
	return errors.Join(errs...)
}

var textKeyEnv = map[string]string{
	ProviderOpenRouter: "OPENROUTER_API_KEY",
	ProviderOpenAI:     "OPENAI_API_KEY",
	ProviderGoogle:     "GEMINI_API_KEY",
}
