package openai

const (
	ModelGPT5     = "gpt-5"
	ModelGPT5Mini = "gpt-5-mini"
	ModelGPT41    = "gpt-4.1"
	ModelGPT4o    = "gpt-4o"
	ModelO4Mini   = "o4-mini"
)
