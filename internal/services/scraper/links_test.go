package scraper

import (
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/brandforge/internal/models"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc
}

func TestClassifyLink(t *testing.T) {
	tests := []struct {
		url    string
		anchor string
		want   models.PageRole
	}{
		{"https://example.com/about", "About", models.PageRoleAbout},
		{"https://example.com/about-us", "", models.PageRoleAbout},
		{"https://example.com/our-story.html", "", models.PageRoleAbout},
		{"https://example.com/company/team", "", models.PageRoleAbout},
		{"https://example.com/contact", "", models.PageRoleContact},
		{"https://example.com/get-in-touch", "", models.PageRoleContact},
		{"https://example.com/products", "", models.PageRoleProducts},
		{"https://example.com/pricing", "", models.PageRoleProducts},
		{"https://example.com/x", "What we do", models.PageRoleProducts},
		{"https://example.com/x", "Contact", models.PageRoleContact},
		// Token matching, not substring: /contractor is not a contact page
		{"https://example.com/contractor", "", models.PageRoleHome},
		{"https://example.com/blog", "Blog", models.PageRoleHome},
		{"https://example.com/", "", models.PageRoleHome},
	}

	for _, tt := range tests {
		got := classifyLink(tt.url, tt.anchor)
		assert.Equal(t, tt.want, got, "url=%q anchor=%q", tt.url, tt.anchor)
	}
}

func TestContainsToken(t *testing.T) {
	assert.True(t, containsToken("/about", "about"))
	assert.True(t, containsToken("/pages/about.html", "about"))
	assert.True(t, containsToken("/about_us/team", "team"))
	assert.False(t, containsToken("/aboutface", "about"))
	assert.False(t, containsToken("/contractor", "contact"))
}

func TestDiscoverLinks(t *testing.T) {
	base, _ := url.Parse("https://example.com/")
	doc := parseDoc(t, `<html><body>
		<a href="/about">About Us</a>
		<a href="/about-the-team">Another about page</a>
		<a href="/contact">Contact</a>
		<a href="/products">Products</a>
		<a href="/blog">Blog</a>
		<a href="https://other-host.com/about">External about</a>
	</body></html>`)

	found := discoverLinks(doc, base)

	require.Len(t, found, 3)
	// First matching link per role wins
	assert.Equal(t, "https://example.com/about", found[models.PageRoleAbout])
	assert.Equal(t, "https://example.com/contact", found[models.PageRoleContact])
	assert.Equal(t, "https://example.com/products", found[models.PageRoleProducts])
}

func TestDiscoverLinks_SameHostOnly(t *testing.T) {
	base, _ := url.Parse("https://example.com/")
	doc := parseDoc(t, `<html><body>
		<a href="https://partner.example.org/about">About</a>
		<a href="mailto:hi@example.com">Contact</a>
	</body></html>`)

	found := discoverLinks(doc, base)
	assert.Empty(t, found)
}

func TestDiscoverLinks_WWWVariant(t *testing.T) {
	base, _ := url.Parse("https://example.com/")
	doc := parseDoc(t, `<a href="https://www.example.com/contact">Contact</a>`)

	found := discoverLinks(doc, base)
	require.Len(t, found, 1)
	assert.Equal(t, "https://www.example.com/contact", found[models.PageRoleContact])
}

func TestHarvestMeta(t *testing.T) {
	doc := parseDoc(t, `<html lang="en-AU"><head>
		<meta name="description" content="We build things">
		<meta property="og:title" content="Acme Corp">
		<meta property="og:description" content="Acme builds things">
		<meta property="og:image" content="/hero.png">
		<link rel="icon" href="/favicon.svg">
		<link rel="apple-touch-icon" href="/touch.png">
	</head></html>`)

	meta := harvestMeta(doc, "Acme Corp | Home")

	assert.Equal(t, "Acme Corp | Home", meta.Title)
	assert.Equal(t, "en-AU", meta.Language)
	assert.Equal(t, "We build things", meta.Description)
	assert.Equal(t, "Acme Corp", meta.OGTitle)
	assert.Equal(t, "Acme builds things", meta.OGDescription)
	assert.Equal(t, "/hero.png", meta.OGImage)
	assert.Equal(t, "/favicon.svg", meta.Favicon)
	assert.Equal(t, "/touch.png", meta.AppleTouchIcon)
}

func TestHarvestMeta_Sparse(t *testing.T) {
	doc := parseDoc(t, `<html><head></head><body></body></html>`)

	meta := harvestMeta(doc, "Bare")
	assert.Equal(t, "Bare", meta.Title)
	assert.Empty(t, meta.Description)
	assert.Empty(t, meta.OGImage)
	assert.Empty(t, meta.Favicon)
}
