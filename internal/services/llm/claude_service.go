package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/common"
	"github.com/ternarybob/brandforge/internal/interfaces"
)

const defaultClaudeTimeout = 60 * time.Second

// ClaudeService implements the LLMService interface using the
// Anthropic Claude API
type ClaudeService struct {
	config  *common.ClaudeConfig
	logger  arbor.ILogger
	client  *anthropic.Client
	timeout time.Duration
}

// NewClaudeService creates a new Claude LLM service instance
func NewClaudeService(config *common.ClaudeConfig, logger arbor.ILogger) (interfaces.LLMService, error) {
	if config.Model == "" {
		config.Model = "claude-sonnet-4-20250514"
	}
	if config.MaxTokens <= 0 {
		config.MaxTokens = 4096
	}

	timeout := defaultClaudeTimeout
	if config.Timeout != "" {
		parsed, err := time.ParseDuration(config.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
		}
		timeout = parsed
	}

	client := anthropic.NewClient(option.WithAPIKey(config.APIKey))

	logger.Debug().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Int("max_tokens", config.MaxTokens).
		Bool("configured", config.APIKey != "").
		Msg("Claude LLM service initialized")

	return &ClaudeService{
		config:  config,
		logger:  logger,
		client:  &client,
		timeout: timeout,
	}, nil
}

func (s *ClaudeService) Complete(ctx context.Context, system string, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}
	if !s.IsAvailable() {
		return "", fmt.Errorf("claude provider not configured (set ANTHROPIC_API_KEY or claude.api_key)")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(s.config.Model),
		MaxTokens: int64(s.config.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	if s.config.Temperature > 0 {
		params.Temperature = anthropic.Float(float64(s.config.Temperature))
	}

	startTime := time.Now()
	message, err := s.client.Messages.New(timeoutCtx, params)
	if err != nil {
		return "", fmt.Errorf("claude completion failed: %w", err)
	}

	var response string
	for _, block := range message.Content {
		if block.Type == "text" {
			response += block.Text
		}
	}
	if response == "" {
		return "", fmt.Errorf("claude returned no text content")
	}

	s.logger.Debug().
		Int("prompt_length", len(prompt)).
		Int("response_length", len(response)).
		Dur("duration", time.Since(startTime)).
		Msg("Claude completion finished")

	return response, nil
}

func (s *ClaudeService) ProviderName() string {
	return string(common.LLMProviderClaude)
}

func (s *ClaudeService) IsAvailable() bool {
	return s.config.APIKey != ""
}
