package providers

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/deepnoodle-ai/adforge/llm"
)

// FactoryOptions are passed to a ProviderFactory. Empty fields mean "use the
// provider default", which for API keys is the provider's environment variable.
type FactoryOptions struct {
	Model    string
	Endpoint string
	APIKey   string
}

// ProviderFactory creates an LLM provider.
type ProviderFactory func(opts FactoryOptions) llm.LLM

// ModelMatcher determines if a model name matches a provider.
type ModelMatcher func(model string) bool

// ProviderEntry pairs a matcher with its factory.
type ProviderEntry struct {
	Name    string
	Match   ModelMatcher
	Factory ProviderFactory
}

// Registry manages model-to-provider mappings. Providers register themselves
// during init().
type Registry struct {
	mu           sync.RWMutex
	entries      []ProviderEntry
	fallback     ProviderFactory
	fallbackName string
}

// Register adds a provider entry to the registry. Entries are checked in
// registration order.
func (r *Registry) Register(entry ProviderEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
}

// SetFallback sets the provider used when no matcher matches.
func (r *Registry) SetFallback(name string, factory ProviderFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fallbackName = name
	r.fallback = factory
}

// Resolve returns the name of the provider that CreateModel would use for
// model, or "" if there is none.
func (r *Registry) Resolve(model string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name, _ := r.lookupLocked(model)
	return name
}

func (r *Registry) lookupLocked(model string) (string, ProviderFactory) {
	for _, entry := range r.entries {
		if entry.Match(model) {
			return entry.Name, entry.Factory
		}
	}
	if r.fallback != nil {
		return r.fallbackName, r.fallback
	}
	return "", nil
}

// CreateModel returns the first provider whose matcher accepts opts.Model, or
// the fallback. Returns nil if neither exists.
func (r *Registry) CreateModel(opts FactoryOptions) llm.LLM {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, factory := r.lookupLocked(opts.Model); factory != nil {
		return factory(opts)
	}
	return nil
}

// CreateByName returns the provider registered under name.
func (r *Registry) CreateByName(name string, opts FactoryOptions) (llm.LLM, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, entry := range r.entries {
		if strings.EqualFold(entry.Name, name) {
			return entry.Factory(opts), nil
		}
	}
	return nil, fmt.Errorf("unknown provider %q (available: %s)", name, strings.Join(r.namesLocked(), ", "))
}

// Names returns the registered provider names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.namesLocked()
}

func (r *Registry) namesLocked() []string {
	names := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		names = append(names, entry.Name)
	}
	sort.Strings(names)
	return names
}

// PrefixMatcher returns a matcher that checks for a case-insensitive prefix.
func PrefixMatcher(prefix string) ModelMatcher {
	prefix = strings.ToLower(prefix)
	return func(model string) bool {
		return strings.HasPrefix(strings.ToLower(model), prefix)
	}
}

// PrefixesMatcher returns a matcher that checks for any of the given prefixes (case-insensitive).
func PrefixesMatcher(prefixes ...string) ModelMatcher {
	lowered := make([]string, len(prefixes))
	for i, p := range prefixes {
		lowered[i] = strings.ToLower(p)
	}
	return func(model string) bool {
		lower := strings.ToLower(model)
		for _, prefix := range lowered {
			if strings.HasPrefix(lower, prefix) {
				return true
			}
		}
		return false
	}
}

// ContainsMatcher returns a matcher that checks if the model contains a substring.
func ContainsMatcher(substr string) ModelMatcher {
	return func(model string) bool {
		return strings.Contains(model, substr)
	}
}

var defaultRegistry = &Registry{}

// Register adds a provider entry to the default registry.
func Register(entry ProviderEntry) {
	defaultRegistry.Register(entry)
}

// SetFallback sets the fallback provider on the default registry.
func SetFallback(name string, factory ProviderFactory) {
	defaultRegistry.SetFallback(name, factory)
}

// Resolve returns the provider name the default registry picks for model.
func Resolve(model string) string {
	return defaultRegistry.Resolve(model)
}

// CreateModel creates an LLM provider using the default registry.
func CreateModel(opts FactoryOptions) llm.LLM {
	return defaultRegistry.CreateModel(opts)
}

// CreateByName creates the named provider using the default registry.
func CreateByName(name string, opts FactoryOptions) (llm.LLM, error) {
	return defaultRegistry.CreateByName(name, opts)
}

// DefaultRegistry returns the default global registry.
func DefaultRegistry() *Registry {
	return defaultRegistry
}
