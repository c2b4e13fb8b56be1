package typography

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/models"
)

func TestParseWebFontLinks_V1(t *testing.T) {
	html := `<link href="https://fonts.googleapis.com/css?family=Roboto:400,700|Open+Sans" rel="stylesheet">`

	fonts := parseWebFontLinks(html)
	require.Len(t, fonts, 2)
	assert.Equal(t, "Roboto", fonts[0])
	assert.Equal(t, "Open Sans", fonts[1])
}

func TestParseWebFontLinks_V2(t *testing.T) {
	html := `<link href="https://fonts.googleapis.com/css2?family=Inter:wght@400;700&family=Playfair+Display&display=swap">`

	fonts := parseWebFontLinks(html)
	require.Len(t, fonts, 2)
	assert.Equal(t, "Inter", fonts[0])
	assert.Equal(t, "Playfair Display", fonts[1])
}

func TestParseWebFontLinks_Dedup(t *testing.T) {
	html := `
		<link href="https://fonts.googleapis.com/css?family=Lato">
		<link href="https://fonts.googleapis.com/css2?family=Lato:wght@400">
	`
	fonts := parseWebFontLinks(html)
	assert.Equal(t, []string{"Lato"}, fonts)
}

func TestParseWebFontLinks_NoFonts(t *testing.T) {
	assert.Empty(t, parseWebFontLinks(`<link href="https://example.com/style.css">`))
}

func TestCleanFamilyParam(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Roboto:400,700", "Roboto"},
		{"Open+Sans", "Open Sans"},
		{"Playfair%20Display", "Playfair Display"},
		{"Inter:wght@400;700", "Inter"},
		{"Lato&display=swap", "Lato"},
		{"  Merriweather  ", "Merriweather"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanFamilyParam(tt.input), "input=%q", tt.input)
	}
}

func TestDeclaredFamilies(t *testing.T) {
	site := &models.ScrapedSite{
		CSS: `
			body { font-family: "Source Sans Pro", Arial, sans-serif; }
			h1 { font-family: Merriweather, serif; }
			code { font-family: monospace; }
			.x { font-family: inherit; }
		`,
		Fonts: []models.FontAsset{{Family: "Custom Face"}},
	}

	families := declaredFamilies(site)
	assert.Equal(t, []string{"Custom Face", "Source Sans Pro", "Merriweather"}, families)
}

func TestBuildSpec_PrefersWebFonts(t *testing.T) {
	spec := buildSpec([]string{"Inter", "Playfair Display"}, []string{"Arial"})

	assert.Equal(t, "Inter", spec.Primary.Name)
	assert.Equal(t, models.FontSourceWebFont, spec.Primary.Source)
	assert.Contains(t, spec.Primary.DownloadURL, "fonts.google.com/specimen/Inter")

	require.NotNil(t, spec.Secondary)
	assert.Equal(t, "Playfair Display", spec.Secondary.Name)
	assert.Contains(t, spec.Secondary.DownloadURL, "Playfair+Display")
}

func TestBuildSpec_DeclaredOnly(t *testing.T) {
	spec := buildSpec(nil, []string{"Helvetica Neue"})

	assert.Equal(t, "Helvetica Neue", spec.Primary.Name)
	assert.Equal(t, models.FontSourceDeclared, spec.Primary.Source)
	assert.Empty(t, spec.Primary.DownloadURL)
	assert.Nil(t, spec.Secondary)
}

func TestBuildSpec_InterFallbackWhenNoFonts(t *testing.T) {
	spec := buildSpec(nil, nil)

	assert.Equal(t, "Inter", spec.Primary.Name)
	assert.Equal(t, models.FontSourceWebFont, spec.Primary.Source)
	assert.Nil(t, spec.Secondary)
	assert.Equal(t, systemFallback, spec.Fallback)
}

func TestBuildSpec_SecondarySkipsDuplicateOfPrimary(t *testing.T) {
	spec := buildSpec([]string{"Lato"}, []string{"Lato", "Georgia"})

	assert.Equal(t, "Lato", spec.Primary.Name)
	require.NotNil(t, spec.Secondary)
	assert.Equal(t, "Georgia", spec.Secondary.Name)
}

func TestDefaultHierarchy_EveryRoleResolvesToExtractedFont(t *testing.T) {
	spec := buildSpec([]string{"Inter", "Merriweather"}, nil)
	hierarchy := defaultHierarchy(spec)

	require.Len(t, hierarchy, len(models.TypeRoles))
	known := map[string]bool{"Inter": true, "Merriweather": true}
	for _, role := range models.TypeRoles {
		style, ok := hierarchy[role]
		require.True(t, ok, "missing role %s", role)
		assert.True(t, known[style.FontName], "role %s uses unknown font %s", role, style.FontName)
		assert.Greater(t, style.SizePx, float64(0))
		assert.Greater(t, style.Weight, 0)
	}

	// Body copy uses the secondary face when one exists
	assert.Equal(t, "Merriweather", hierarchy[models.TypeRoleBody].FontName)
	assert.Equal(t, "Inter", hierarchy[models.TypeRoleHeading1].FontName)
}

func TestExtract_EndToEnd(t *testing.T) {
	site := &models.ScrapedSite{
		Pages: map[models.PageRole]*models.ScrapedPage{
			models.PageRoleHome: {
				HTML: `<html><head><link href="https://fonts.googleapis.com/css2?family=Inter:wght@400;700"></head></html>`,
			},
		},
		CSS: `body { font-family: Inter, sans-serif; }`,
	}

	e := NewExtractor(arbor.NewLogger())
	spec, err := e.Extract(context.Background(), site)
	require.NoError(t, err)

	assert.Equal(t, "Inter", spec.Primary.Name)
	assert.Equal(t, models.FontSourceWebFont, spec.Primary.Source)
	assert.Len(t, spec.Hierarchy, 8)
}
