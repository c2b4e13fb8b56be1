package content

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/common"
	"github.com/ternarybob/brandforge/internal/interfaces"
	"github.com/ternarybob/brandforge/internal/models"
)

// Generator produces narrative brand content through the configured
// model, validating the response schema and retrying on invalid
// output. Exhausted retries and missing credentials both degrade to
// templated fallback content instead of failing the job.
type Generator struct {
	llm        interfaces.LLMService
	validate   *validator.Validate
	maxRetries int
	logger     arbor.ILogger
}

func NewGenerator(llm interfaces.LLMService, cfg *common.LLMConfig, logger arbor.ILogger) interfaces.ContentGenerator {
	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Generator{
		llm:        llm,
		validate:   validator.New(),
		maxRetries: maxRetries,
		logger:     logger,
	}
}

func (g *Generator) Generate(ctx context.Context, site *models.ScrapedSite, palette models.ColorPalette) (models.BrandContent, error) {
	companyName := CompanyName(site)

	if !g.llm.IsAvailable() {
		g.logger.Warn().Str("company", companyName).Msg("No LLM provider available, using fallback content")
		return fallbackContent(companyName), nil
	}

	basePrompt := buildPrompt(companyName, textSample(site))

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if ctx.Err() != nil {
			return models.BrandContent{}, ctx.Err()
		}

		// Retries tell the model why the last answer was rejected
		prompt := basePrompt
		if attempt > 0 && lastErr != nil {
			prompt = basePrompt + correctiveInstruction(lastErr)
		}

		raw, err := g.llm.Complete(ctx, systemPrompt, prompt)
		if err != nil {
			lastErr = err
			g.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("Content generation request failed")
			continue
		}

		generated, err := g.parseAndValidate(raw, companyName)
		if err != nil {
			lastErr = err
			g.logger.Warn().Err(err).Int("attempt", attempt+1).Msg("Generated content rejected")
			continue
		}

		g.logger.Info().
			Str("company", companyName).
			Str("provider", g.llm.ProviderName()).
			Int("attempt", attempt+1).
			Msg("Brand content generated")
		return generated, nil
	}

	g.logger.Warn().
		Err(lastErr).
		Int("attempts", g.maxRetries+1).
		Msg("Content generation exhausted retries, using fallback content")
	return fallbackContent(companyName), nil
}

// parseAndValidate extracts the JSON object from the raw model text
// and checks the full schema, cardinalities included
func (g *Generator) parseAndValidate(raw, companyName string) (models.BrandContent, error) {
	jsonText, err := extractJSON(raw)
	if err != nil {
		return models.BrandContent{}, err
	}

	var generated models.BrandContent
	if err := json.Unmarshal([]byte(jsonText), &generated); err != nil {
		return models.BrandContent{}, fmt.Errorf("response is not valid JSON: %w", err)
	}

	generated.CompanyName = companyName
	generated.Fallback = false

	if err := g.validate.Struct(&generated); err != nil {
		return models.BrandContent{}, fmt.Errorf("response failed schema validation: %w", err)
	}
	return generated, nil
}

// extractJSON pulls the outermost JSON object out of a response that
// may be wrapped in markdown fences or prose
func extractJSON(raw string) (string, error) {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, "```") {
		lines := strings.Split(text, "\n")
		var kept []string
		for _, line := range lines[1:] {
			if strings.TrimSpace(line) == "```" {
				break
			}
			kept = append(kept, line)
		}
		text = strings.Join(kept, "\n")
	}

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return "", fmt.Errorf("no JSON object in response")
	}
	return text[start : end+1], nil
}
