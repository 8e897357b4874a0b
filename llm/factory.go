package llm

import (
	"sync"

	"github.com/kbukum/startup-analyzer/provider"
)

// Provider is a completion backend.
type Provider = provider.RequestResponse[CompletionRequest, CompletionResponse]

// Factory builds a Provider that does not go through an HTTP Dialect, such
// as an SDK-backed client.
type Factory func(cfg Config) (Provider, error)

var (
	factoriesMu sync.RWMutex
	factories   = map[string]Factory{}
)

// RegisterFactory registers an SDK-backed provider under a dialect name.
// It takes precedence over an HTTP dialect of the same name.
func RegisterFactory(name string, f Factory) {
	factoriesMu.Lock()
	defer factoriesMu.Unlock()
	factories[name] = f
}

// NewProvider creates the backend selected by cfg.Dialect: a registered
// Factory if there is one, otherwise an Adapter over the HTTP dialect.
func NewProvider(cfg Config) (Provider, error) {
	factoriesMu.RLock()
	f, ok := factories[cfg.Dialect]
	factoriesMu.RUnlock()
	if ok {
		cfg.ApplyDefaults()
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return f(cfg)
	}
	return New(cfg)
}
