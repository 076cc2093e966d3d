package llm

import (
	"testing"

	"github.com/deepnoodle-ai/wonton/assert"
)

func TestConfigApply(t *testing.T) {
	var config Config
	config.Apply(
		WithModel("openai/gpt-4o"),
		WithPrompt("write an ad"),
		WithMaxTokens(1000),
		WithTemperature(0.7),
	)
	assert.Equal(t, "openai/gpt-4o", config.Model)
	assert.Equal(t, "write an ad", config.Prompt)
	assert.Equal(t, 1000, *config.MaxTokens)
	assert.Equal(t, 0.7, *config.Temperature)
	assert.NoError(t, config.Validate())
}

func TestConfigValidate(t *testing.T) {
	t.Run("empty prompt", func(t *testing.T) {
		config := Config{Prompt: "  \n"}
		assert.ErrorIs(t, config.Validate(), ErrEmptyPrompt)
	})

	t.Run("bad max tokens", func(t *testing.T) {
		var config Config
		config.Apply(WithPrompt("x"), WithMaxTokens(0))
		assert.Error(t, config.Validate())
	})

	t.Run("bad temperature", func(t *testing.T) {
		var config Config
		config.Apply(WithPrompt("x"), WithTemperature(3))
		assert.Error(t, config.Validate())
	})
}

func TestUsageAdd(t *testing.T) {
	u := Usage{InputTokens: 10, OutputTokens: 5}
	u.Add(&Usage{InputTokens: 1, OutputTokens: 2})
	assert.Equal(t, Usage{InputTokens: 11, OutputTokens: 7}, u)
}
