// Package providers wires the concrete model clients into the parser factory
// and assembles the model chain used by the ingest pipeline.
package providers

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"staybook/internal/config"
	"staybook/internal/metrics"
	"staybook/internal/parser"
	"staybook/internal/parser/claude"
	"staybook/internal/parser/gemini"
	"staybook/internal/parser/openai"
	"staybook/internal/port"
)

var registerOnce sync.Once

// Register adds the gemini, claude and openai factories. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		parser.RegisterProvider("gemini", func(cfg *config.ParserProviderConfig) (port.GenerativeModel, error) {
			return gemini.NewModel(cfg), nil
		})
		parser.RegisterProvider("claude", func(cfg *config.ParserProviderConfig) (port.GenerativeModel, error) {
			return claude.NewModel(cfg), nil
		})
		parser.RegisterProvider("openai", func(cfg *config.ParserProviderConfig) (port.GenerativeModel, error) {
			return openai.NewModel(cfg), nil
		})
	})
}

// Build returns the configured model chain: every provider with an API key,
// in primary, secondary, tertiary order, each wrapped with rate limiting and a
// circuit breaker, behind a fallback model. It returns nil, nil when no
// provider has an API key.
func Build(cfg *config.ParserConfig, res config.ResilienceConfig, m *metrics.Metrics, logger *zap.Logger) (port.GenerativeModel, error) {
	Register()
	if logger == nil {
		logger = zap.NewNop()
	}

	var chain []port.GenerativeModel
	for _, pc := range []*config.ParserProviderConfig{cfg.PrimaryConfig(), cfg.SecondaryConfig(), cfg.TertiaryConfig()} {
		if pc == nil || pc.APIKey == "" {
			continue
		}
		model, err := parser.NewModel(pc)
		if err != nil {
			return nil, fmt.Errorf("creating %s model: %w", pc.Provider, err)
		}
		chain = append(chain, parser.NewResilientModel(model, res, logger))
		logger.Info("providers.Build: model provider enabled",
			zap.String("provider", pc.Provider), zap.String("model", model.Name()))
	}

	switch len(chain) {
	case 0:
		logger.Warn("providers.Build: no model API key configured, extraction is disabled")
		return nil, nil
	case 1:
		return metrics.InstrumentModel(chain[0], m), nil
	default:
		return metrics.InstrumentModel(parser.NewFallbackModel(chain, logger), m), nil
	}
}
