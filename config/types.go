package config

// Config is the process-wide adforge configuration.
type Config struct {
	Text     Text     `yaml:"Text,omitempty" json:"Text,omitempty"`
	Video    Video    `yaml:"Video,omitempty" json:"Video,omitempty"`
	Output   Output   `yaml:"Output,omitempty" json:"Output,omitempty"`
	Approval Approval `yaml:"Approval,omitempty" json:"Approval,omitempty"`
	LogLevel string   `yaml:"LogLevel,omitempty" json:"LogLevel,omitempty"`
}

// Text configures the text-generation backend.
type Text struct {
	// Provider is "openrouter", "openai" or "google". Empty means the
	// provider is chosen from the model name.
	Provider         string `yaml:"Provider,omitempty" json:"Provider,omitempty"`
	Model            string `yaml:"Model,omitempty" json:"Model,omitempty"`
	OpenRouterAPIKey string `yaml:"OpenRouterAPIKey,omitempty" json:"OpenRouterAPIKey,omitempty"`
	OpenRouterURL    string `yaml:"OpenRouterURL,omitempty" json:"OpenRouterURL,omitempty"`
	OpenAIAPIKey     string `yaml:"OpenAIAPIKey,omitempty" json:"OpenAIAPIKey,omitempty"`
	GeminiAPIKey     string `yaml:"GeminiAPIKey,omitempty" json:"GeminiAPIKey,omitempty"`
}

// Video configures the HeyGen render backend.
type Video struct {
	APIKey    string `yaml:"APIKey,omitempty" json:"APIKey,omitempty"`
	BaseURL   string `yaml:"BaseURL,omitempty" json:"BaseURL,omitempty"`
	StatusURL string `yaml:"StatusURL,omitempty" json:"StatusURL,omitempty"`
	AvatarID  string `yaml:"AvatarID,omitempty" json:"AvatarID,omitempty"`
	VoiceID   string `yaml:"VoiceID,omitempty" json:"VoiceID,omitempty"`
	Test      bool   `yaml:"Test,omitempty" json:"Test,omitempty"`
	Caption   bool   `yaml:"Caption,omitempty" json:"Caption,omitempty"`
}

// Output configures where rendered videos are written.
type Output struct {
	Dir string `yaml:"Dir,omitempty" json:"Dir,omitempty"`
}

// Approval configures the script approval loop and render fallback.
type Approval struct {
	MaxRounds        int  `yaml:"MaxRounds,omitempty" json:"MaxRounds,omitempty"`
	AllowPlaceholder bool `yaml:"AllowPlaceholder,omitempty" json:"AllowPlaceholder,omitempty"`
}
