package logos

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/common"
	"github.com/ternarybob/brandforge/internal/interfaces"
	"github.com/ternarybob/brandforge/internal/models"
)

// logoPatterns mark a URL, alt text, class or id as logo-like
var logoPatterns = []string{"logo", "brand", "mark", "icon"}

const (
	minLogoEdge   = 16  // smallest edge a plausible brand mark can have
	maxLogoAspect = 6.0 // width:height ratio beyond which an image is a banner or spacer
)

// Extractor locates the best logo candidate across detection tiers,
// highest confidence first: structured markup, header imagery, svg
// links, favicon. Finding nothing is a valid result.
type Extractor struct {
	client    *http.Client
	userAgent string
	logger    arbor.ILogger
}

func NewExtractor(config *common.ScraperConfig, logger arbor.ILogger) interfaces.LogoExtractor {
	return &Extractor{
		client:    &http.Client{Timeout: config.RequestTimeout},
		userAgent: config.UserAgent,
		logger:    logger,
	}
}

func (e *Extractor) Extract(ctx context.Context, site *models.ScrapedSite) (models.LogoAsset, error) {
	home := site.Home()
	if home == nil {
		return models.LogoAsset{}, fmt.Errorf("no root page in snapshot")
	}

	base, err := url.Parse(home.URL)
	if err != nil {
		return models.LogoAsset{}, fmt.Errorf("invalid base url: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(home.HTML))
	if err != nil {
		return models.LogoAsset{}, fmt.Errorf("failed to parse root page: %w", err)
	}

	// Gather one candidate per tier so lower tiers become variations
	var candidates []models.LogoCandidate
	add := func(rawURL string, tier models.LogoTier) {
		resolved := common.ResolveURL(rawURL, base)
		if resolved == "" {
			return
		}
		for _, c := range candidates {
			if c.SourceURL == resolved {
				return
			}
		}
		candidates = append(candidates, models.LogoCandidate{
			SourceURL: resolved,
			Format:    detectFormat(resolved),
			Tier:      tier,
		})
	}

	if u := findSchemaLogo(doc); u != "" {
		add(u, models.LogoTierMeta)
	}
	if og := site.Meta.OGImage; og != "" && looksLikeLogo(og) {
		add(og, models.LogoTierMeta)
	}
	if u := findHeaderLogo(doc); u != "" {
		add(u, models.LogoTierHeader)
	}
	if u := findSVGLogo(doc); u != "" {
		add(u, models.LogoTierInlineSVG)
	}
	add(findFavicon(doc, site.Meta), models.LogoTierFavicon)

	// Download in tier order; the first success is the primary
	asset := models.LogoAsset{}
	for _, cand := range candidates {
		data, err := e.download(ctx, cand.SourceURL)
		if err != nil {
			e.logger.Debug().Err(err).Str("url", cand.SourceURL).Msg("Logo candidate download skipped")
			continue
		}
		if err := plausibleLogo(cand.Format, data); err != nil {
			e.logger.Debug().Err(err).Str("url", cand.SourceURL).Msg("Logo candidate rejected")
			continue
		}
		cand.Data = data

		if asset.Primary == nil {
			c := cand
			asset.Primary = &c
			asset.Found = true
		} else {
			asset.Variations = append(asset.Variations, cand)
		}
	}

	e.logger.Debug().
		Bool("found", asset.Found).
		Int("candidates", len(candidates)).
		Int("variations", len(asset.Variations)).
		Msg("Logo extraction complete")

	return asset, nil
}

// findSchemaLogo reads logo URLs out of JSON-LD blocks and microdata
func findSchemaLogo(doc *goquery.Document) string {
	var found string

	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var raw interface{}
		if err := json.Unmarshal([]byte(sel.Text()), &raw); err != nil {
			return true
		}

		items := []interface{}{raw}
		if arr, ok := raw.([]interface{}); ok {
			items = arr
		}
		for _, item := range items {
			obj, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			switch logo := obj["logo"].(type) {
			case string:
				found = logo
				return false
			case map[string]interface{}:
				if u, ok := logo["url"].(string); ok {
					found = u
					return false
				}
				if u, ok := logo["contentUrl"].(string); ok {
					found = u
					return false
				}
			}
		}
		return true
	})
	if found != "" {
		return found
	}

	// Microdata fallback
	elem := doc.Find(`[itemprop="logo"]`).First()
	for _, attr := range []string{"src", "content", "href"} {
		if v, ok := elem.Attr(attr); ok && v != "" {
			return v
		}
	}
	return ""
}

// findHeaderLogo scans header and nav containers for logo-like images
func findHeaderLogo(doc *goquery.Document) string {
	var found string

	doc.Find(`header, nav, [class*="header"], [class*="nav"], [id*="header"], [id*="nav"]`).
		EachWithBreak(func(_ int, container *goquery.Selection) bool {
			container.Find("img[src]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
				src, _ := img.Attr("src")
				alt, _ := img.Attr("alt")
				class, _ := img.Attr("class")
				id, _ := img.Attr("id")
				if looksLikeLogo(src) || looksLikeLogo(alt) || looksLikeLogo(class) || looksLikeLogo(id) {
					found = src
					return false
				}
				return true
			})
			if found != "" {
				return false
			}

			// Logo-classed links wrapping an image
			container.Find("a[class]").EachWithBreak(func(_ int, link *goquery.Selection) bool {
				class, _ := link.Attr("class")
				if !looksLikeLogo(class) {
					return true
				}
				if src, ok := link.Find("img").First().Attr("src"); ok {
					found = src
					return false
				}
				return true
			})
			return found == ""
		})

	return found
}

// findSVGLogo looks for logo-named .svg image links
func findSVGLogo(doc *goquery.Document) string {
	var found string
	doc.Find("img[src]").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, _ := img.Attr("src")
		if strings.Contains(strings.ToLower(src), ".svg") && looksLikeLogo(src) {
			found = src
			return false
		}
		return true
	})
	return found
}

// findFavicon prefers the apple-touch-icon, then the declared favicon,
// then the conventional path
func findFavicon(doc *goquery.Document, meta models.SiteMeta) string {
	if meta.AppleTouchIcon != "" {
		return meta.AppleTouchIcon
	}
	if href, ok := doc.Find(`link[rel*="apple-touch-icon"]`).First().Attr("href"); ok && href != "" {
		return href
	}
	if meta.Favicon != "" {
		return meta.Favicon
	}
	return "/favicon.ico"
}

func looksLikeLogo(s string) bool {
	s = strings.ToLower(s)
	for _, p := range logoPatterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func detectFormat(rawURL string) string {
	lower := strings.ToLower(rawURL)
	switch {
	case strings.Contains(lower, ".svg"):
		return "svg"
	case strings.Contains(lower, ".jpg"), strings.Contains(lower, ".jpeg"):
		return "jpeg"
	case strings.Contains(lower, ".ico"):
		return "ico"
	}
	return "png"
}

func (e *Extractor) download(ctx context.Context, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", e.userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "image") && !hasImageExtension(target) {
		return nil, fmt.Errorf("not an image: %s", contentType)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, 10*1024*1024))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty response body")
	}
	return data, nil
}

// plausibleLogo rejects raster images too small or too stretched to be
// a brand mark: tracking pixels, spacers, decorative banners. Formats
// without a registered decoder (svg, ico, webp) pass unchecked.
func plausibleLogo(format string, data []byte) error {
	switch format {
	case "png", "jpeg", "gif":
	default:
		return nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("undecodable %s image: %w", format, err)
	}
	if cfg.Width < minLogoEdge || cfg.Height < minLogoEdge {
		return fmt.Errorf("image is %dx%d, below the minimum logo size", cfg.Width, cfg.Height)
	}

	aspect := float64(cfg.Width) / float64(cfg.Height)
	if aspect > maxLogoAspect || aspect < 1/maxLogoAspect {
		return fmt.Errorf("image is %dx%d, aspect ratio implausible for a logo", cfg.Width, cfg.Height)
	}
	return nil
}

func hasImageExtension(target string) bool {
	lower := strings.ToLower(target)
	for _, ext := range []string{".png", ".jpg", ".jpeg", ".svg", ".ico", ".gif", ".webp"} {
		if strings.HasSuffix(lower, ext) || strings.Contains(lower, ext+"?") {
			return true
		}
	}
	return false
}
