package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/common"
	"github.com/ternarybob/brandforge/internal/interfaces"
	"google.golang.org/genai"
)

const defaultGeminiTimeout = 60 * time.Second

// GeminiService implements the LLMService interface using the Google
// Gemini API
type GeminiService struct {
	config  *common.GeminiConfig
	logger  arbor.ILogger
	client  *genai.Client
	timeout time.Duration
}

// NewGeminiService creates a new Gemini LLM service instance. An
// unset API key produces a service that reports unavailable rather
// than an error, so the factory can fall through to another provider.
func NewGeminiService(config *common.GeminiConfig, logger arbor.ILogger) (interfaces.LLMService, error) {
	if config.Model == "" {
		config.Model = "gemini-3-flash-preview"
	}

	timeout := defaultGeminiTimeout
	if config.Timeout != "" {
		parsed, err := time.ParseDuration(config.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout duration '%s': %w", config.Timeout, err)
		}
		timeout = parsed
	}

	service := &GeminiService{
		config:  config,
		logger:  logger,
		timeout: timeout,
	}

	if config.APIKey != "" {
		client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey:  config.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize genai client: %w", err)
		}
		service.client = client
	}

	logger.Debug().
		Str("model", config.Model).
		Dur("timeout", timeout).
		Bool("configured", service.client != nil).
		Msg("Gemini LLM service initialized")

	return service, nil
}

func (s *GeminiService) Complete(ctx context.Context, system string, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}
	if !s.IsAvailable() {
		return "", fmt.Errorf("gemini provider not configured (set GEMINI_API_KEY or gemini.api_key)")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	config := &genai.GenerateContentConfig{}
	if s.config.Temperature > 0 {
		config.Temperature = genai.Ptr(s.config.Temperature)
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	contents := []*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)}

	startTime := time.Now()
	resp, err := s.client.Models.GenerateContent(timeoutCtx, s.config.Model, contents, config)
	if err != nil {
		return "", fmt.Errorf("gemini completion failed: %w", err)
	}

	var response strings.Builder
	if resp != nil {
		for _, candidate := range resp.Candidates {
			if candidate.Content == nil {
				continue
			}
			for _, part := range candidate.Content.Parts {
				if part.Text != "" {
					response.WriteString(part.Text)
				}
			}
			if response.Len() > 0 {
				break
			}
		}
	}
	if response.Len() == 0 {
		return "", fmt.Errorf("gemini returned no text content")
	}

	s.logger.Debug().
		Int("prompt_length", len(prompt)).
		Int("response_length", response.Len()).
		Dur("duration", time.Since(startTime)).
		Msg("Gemini completion finished")

	return response.String(), nil
}

func (s *GeminiService) ProviderName() string {
	return string(common.LLMProviderGemini)
}

func (s *GeminiService) IsAvailable() bool {
	return s.client != nil
}
