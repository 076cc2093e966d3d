package openrouter

const (
	// Anthropic models
	ModelClaudeOpus45   = "anthropic/claude-opus-4-5"
	ModelClaudeSonnet45 = "anthropic/claude-sonnet-4-5"
	ModelClaudeHaiku45  = "anthropic/claude-haiku-4-5"

	// OpenAI models
	ModelGPT5     = "openai/gpt-5"
	ModelGPT5Mini = "openai/gpt-5-mini"
	ModelGPT4o    = "openai/gpt-4o"

	// Google models
	ModelGemini25Pro   = "google/gemini-2.5-pro"
	ModelGemini25Flash = "google/gemini-2.5-flash"

	// Meta models
	ModelLlama33_70B = "meta-llama/llama-3.3-70b-instruct"
)
