// Package llm defines the text-generation contract shared by the providers.
//
// A provider implements [LLM]. Callers configure a single request with
// [Option] functions ([WithPrompt], [WithMaxTokens], [WithTemperature], ...)
// and read the completion from [Response.Text]. Concrete backends live under
// github.com/deepnoodle-ai/adforge/providers.
package llm
