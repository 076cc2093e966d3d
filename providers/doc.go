// Package providers contains the text-generation provider registry and the
// shared error type.
//
// Providers self-register via init() functions using [Register]. The registry
// matches model names to provider factories using matchers ([PrefixMatcher],
// [PrefixesMatcher], [ContainsMatcher]); [Resolve] reports which provider a
// model name selects. A provider can also be looked up by name.
//
// Individual providers are in subpackages:
//
//   - [github.com/deepnoodle-ai/adforge/providers/openrouter] - OpenRouter chat completions (default)
//   - [github.com/deepnoodle-ai/adforge/providers/openai] - OpenAI chat completions via openai-go
//   - [github.com/deepnoodle-ai/adforge/providers/google] - Gemini via google.golang.org/genai
package providers
