package llm

// Response is the result of a Generate call.
type Response struct {
	ID    string `json:"id,omitempty"`
	Model string `json:"model"`
	Text  string `json:"text"`
	Usage Usage  `json:"usage"`
}

// Usage contains token usage information for an LLM response.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Add incremental usage to this usage object.
func (u *Usage) Add(other *Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}
