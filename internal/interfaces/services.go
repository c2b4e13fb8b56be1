package interfaces

import (
	"context"

	"github.com/ternarybob/brandforge/internal/models"
)

// ScraperService renders a site headlessly and returns a bounded
// snapshot of its pages, stylesheets and assets
type ScraperService interface {
	Scrape(ctx context.Context, targetURL string) (*models.ScrapedSite, error)
	Close() error
}

// ColorExtractor derives a ranked color palette from a scraped site
type ColorExtractor interface {
	Extract(ctx context.Context, site *models.ScrapedSite) (models.ColorPalette, error)
}

// TypographyExtractor derives the typography system from a scraped site
type TypographyExtractor interface {
	Extract(ctx context.Context, site *models.ScrapedSite) (models.TypographySpec, error)
}

// LogoExtractor locates and downloads the best logo candidates
type LogoExtractor interface {
	Extract(ctx context.Context, site *models.ScrapedSite) (models.LogoAsset, error)
}

// ContentGenerator produces the narrative brand content for a site,
// falling back to deterministic templated content when generation is
// unavailable or invalid
type ContentGenerator interface {
	Generate(ctx context.Context, site *models.ScrapedSite, palette models.ColorPalette) (models.BrandContent, error)
}

// Assembler renders an extracted brand into a finished PDF document
type Assembler interface {
	Build(ctx context.Context, brand *models.ExtractedBrand) ([]byte, error)
}

// LLMService defines the interface for text generation. Implementations
// wrap a single provider; provider selection happens at construction.
type LLMService interface {
	// Complete sends the prompt and returns the raw model text
	Complete(ctx context.Context, system string, prompt string) (string, error)

	// ProviderName returns the short provider identifier ("claude", "gemini")
	ProviderName() string

	// IsAvailable reports whether the provider is configured with credentials
	IsAvailable() bool
}
