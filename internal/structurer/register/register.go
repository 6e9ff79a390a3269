// Package register wires the provider factories into the structurer
// registry and builds the configured fallback chain. It lives apart from
// the structurer package so provider packages can import structurer
// without a cycle.
package register

import (
	"fmt"

	"faxfhir/internal/config"
	"faxfhir/internal/port"
	"faxfhir/internal/structurer"
	"faxfhir/internal/structurer/claude"
	"faxfhir/internal/structurer/gemini"
	"faxfhir/internal/structurer/openai"
)

func init() {
	structurer.RegisterProvider("claude", func(cfg *config.StructurerProviderConfig) (port.Structurer, error) {
		return claude.New(cfg), nil
	})
	structurer.RegisterProvider("openai", func(cfg *config.StructurerProviderConfig) (port.Structurer, error) {
		return openai.New(cfg), nil
	})
	structurer.RegisterProvider("gemini", func(cfg *config.StructurerProviderConfig) (port.Structurer, error) {
		return gemini.New(cfg), nil
	})
}

// BuildChain assembles the primary/secondary/tertiary structurers from
// config into a single fallback chain. Tiers without an API key are
// skipped; at least the primary must be configured.
func BuildChain(cfg *config.StructurerConfig) (port.Structurer, error) {
	var members []port.Structurer

	for _, tier := range []*config.StructurerProviderConfig{
		cfg.PrimaryConfig(),
		cfg.SecondaryConfig(),
		cfg.TertiaryConfig(),
	} {
		if tier == nil || tier.APIKey == "" {
			continue
		}
		s, err := structurer.New(tier)
		if err != nil {
			return nil, fmt.Errorf("building %s structurer: %w", tier.Provider, err)
		}
		members = append(members, s)
	}

	if len(members) == 0 {
		return nil, fmt.Errorf("no structurer provider configured")
	}
	if len(members) == 1 {
		return members[0], nil
	}
	return structurer.NewFallback(members), nil
}
