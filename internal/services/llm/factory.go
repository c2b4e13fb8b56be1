package llm

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/common"
	"github.com/ternarybob/brandforge/internal/interfaces"
)

// NewLLMService creates the configured provider, falling back to the
// other provider when the default has no credentials. Returning a
// service with no credentials at all is allowed; content generation
// detects it and uses templated fallback content.
func NewLLMService(cfg *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	provider := cfg.LLM.DefaultProvider
	if provider == "" {
		provider = common.LLMProviderClaude
	}
	if provider != common.LLMProviderClaude && provider != common.LLMProviderGemini {
		return nil, fmt.Errorf("invalid LLM provider '%s': must be 'claude' or 'gemini'", provider)
	}

	logger.Info().Str("provider", string(provider)).Msg("Initializing LLM service")

	primary, err := build(provider, cfg, logger)
	if err != nil {
		return nil, err
	}
	if primary.IsAvailable() {
		return primary, nil
	}

	// Default provider has no key; try the other one
	other := common.LLMProviderGemini
	if provider == common.LLMProviderGemini {
		other = common.LLMProviderClaude
	}
	secondary, err := build(other, cfg, logger)
	if err != nil {
		return nil, err
	}
	if secondary.IsAvailable() {
		logger.Warn().
			Str("default_provider", string(provider)).
			Str("selected_provider", string(other)).
			Msg("Default LLM provider has no credentials, using alternate")
		return secondary, nil
	}

	logger.Warn().Msg("No LLM provider configured, content generation will use fallback text")
	return primary, nil
}

func build(provider common.LLMProvider, cfg *common.Config, logger arbor.ILogger) (interfaces.LLMService, error) {
	switch provider {
	case common.LLMProviderGemini:
		return NewGeminiService(&cfg.Gemini, logger)
	default:
		return NewClaudeService(&cfg.Claude, logger)
	}
}
