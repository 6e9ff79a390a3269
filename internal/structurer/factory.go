// Package structurer turns OCR text into FHIR bundles via LLM providers,
// with a shared prompt, reply decoding with JSON repair, and a fallback
// chain that routes around rate-limited providers.
package structurer

import (
	"fmt"

	"faxfhir/internal/config"
	"faxfhir/internal/port"
)

// ProviderFactory is a function that creates a Structurer from a provider config.
type ProviderFactory func(cfg *config.StructurerProviderConfig) (port.Structurer, error)

// registry of structurer provider factories, populated explicitly via
// RegisterProvider (see the register package).
var providers = map[string]ProviderFactory{}

// RegisterProvider registers a structurer provider factory by name.
func RegisterProvider(name string, factory ProviderFactory) {
	providers[name] = factory
}

// New creates a Structurer from a provider config using the registered factory.
func New(cfg *config.StructurerProviderConfig) (port.Structurer, error) {
	factory, ok := providers[cfg.Provider]
	if !ok {
		return nil, fmt.Errorf("unknown structurer provider: %s", cfg.Provider)
	}
	return factory(cfg)
}
