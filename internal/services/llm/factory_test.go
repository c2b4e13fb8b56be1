package llm

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/common"
)

func factoryConfig() *common.Config {
	cfg := common.NewDefaultConfig()
	cfg.Claude.APIKey = ""
	cfg.Gemini.APIKey = ""
	return cfg
}

func TestNewLLMService_InvalidProvider(t *testing.T) {
	cfg := factoryConfig()
	cfg.LLM.DefaultProvider = "openai"

	_, err := NewLLMService(cfg, arbor.NewLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid LLM provider")
}

func TestNewLLMService_NoCredentials(t *testing.T) {
	cfg := factoryConfig()
	cfg.LLM.DefaultProvider = common.LLMProviderClaude

	svc, err := NewLLMService(cfg, arbor.NewLogger())
	require.NoError(t, err)
	assert.False(t, svc.IsAvailable())
	assert.Equal(t, "claude", svc.ProviderName())
}

func TestNewLLMService_EmptyProviderDefaultsToClaude(t *testing.T) {
	cfg := factoryConfig()
	cfg.LLM.DefaultProvider = ""
	cfg.Claude.APIKey = "test-key"

	svc, err := NewLLMService(cfg, arbor.NewLogger())
	require.NoError(t, err)
	assert.True(t, svc.IsAvailable())
	assert.Equal(t, "claude", svc.ProviderName())
}

func TestNewLLMService_FallsThroughToConfiguredProvider(t *testing.T) {
	cfg := factoryConfig()
	cfg.LLM.DefaultProvider = common.LLMProviderClaude
	cfg.Gemini.APIKey = "test-key"

	svc, err := NewLLMService(cfg, arbor.NewLogger())
	require.NoError(t, err)
	assert.True(t, svc.IsAvailable())
	assert.Equal(t, "gemini", svc.ProviderName())
}

func TestClaudeService_InvalidTimeout(t *testing.T) {
	_, err := NewClaudeService(&common.ClaudeConfig{Timeout: "soon"}, arbor.NewLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid timeout")
}

func TestClaudeService_CompleteRequiresCredentials(t *testing.T) {
	svc, err := NewClaudeService(&common.ClaudeConfig{}, arbor.NewLogger())
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), "", "write something")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}

func TestClaudeService_CompleteRejectsEmptyPrompt(t *testing.T) {
	svc, err := NewClaudeService(&common.ClaudeConfig{APIKey: "test-key"}, arbor.NewLogger())
	require.NoError(t, err)

	_, err = svc.Complete(context.Background(), "", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt cannot be empty")
}

func TestGeminiService_UnavailableWithoutKey(t *testing.T) {
	svc, err := NewGeminiService(&common.GeminiConfig{}, arbor.NewLogger())
	require.NoError(t, err)
	assert.False(t, svc.IsAvailable())

	_, err = svc.Complete(context.Background(), "", "write something")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
