package parser

import (
	"fmt"

	"staybook/internal/config"
	"staybook/internal/port"
)

// ProviderFactory creates a GenerativeModel from a provider config.
type ProviderFactory func(cfg *config.ParserProviderConfig) (port.GenerativeModel, error)

// registry of model provider factories, populated explicitly via RegisterProvider.
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a model provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// NewModel creates a GenerativeModel from a provider config using the registered factory.
func NewModel(cfg *config.ParserProviderConfig) (port.GenerativeModel, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown model provider: %s", cfg.Provider)
	}
	return factory(cfg)
}

// Registered reports whether a provider name has a factory.
func Registered(name string) bool {
	_, ok := providers[name]
	return ok
}
