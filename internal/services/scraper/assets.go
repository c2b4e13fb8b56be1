package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"sync"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/common"
	"github.com/ternarybob/brandforge/internal/models"
	"golang.org/x/time/rate"
)

var (
	fontFaceRe = regexp.MustCompile(`(?s)@font-face\s*\{[^}]*\}`)
	fontSrcRe  = regexp.MustCompile(`url\(\s*['"]?([^'")]+)['"]?\s*\)(?:\s*format\(\s*['"]?([^'")]+)['"]?\s*\))?`)
	familyRe   = regexp.MustCompile(`font-family\s*:\s*['"]?([^;'"}]+)['"]?`)
	importRe   = regexp.MustCompile(`@import\s+(?:url\()?\s*['"]?([^'")\s;]+)`)
)

// assetFetcher downloads stylesheets, images and font files within a
// shared budget and per-kind count caps. Failed downloads are logged
// and skipped, never fatal.
type assetFetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	config  *common.ScraperConfig
	logger  arbor.ILogger
}

func newAssetFetcher(config *common.ScraperConfig, logger arbor.ILogger) *assetFetcher {
	return &assetFetcher{
		client: &http.Client{
			Timeout: config.RequestTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		config:  config,
		logger:  logger,
	}
}

// fetch consumes one budget unit, blocks on the rate limiter, then
// downloads at most MaxAssetSize bytes
func (f *assetFetcher) fetch(ctx context.Context, budget *common.Budget, target string) ([]byte, string, error) {
	if !budget.Take() {
		return nil, "", fmt.Errorf("asset budget exhausted")
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", f.config.UserAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, f.config.MaxAssetSize+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(data)) > f.config.MaxAssetSize {
		return nil, "", fmt.Errorf("asset exceeds size cap (%d bytes)", f.config.MaxAssetSize)
	}

	return data, resp.Header.Get("Content-Type"), nil
}

// collectCSS gathers stylesheet text: inline <style> blocks first,
// then linked stylesheets up to the count cap, deduplicated by URL
func (f *assetFetcher) collectCSS(ctx context.Context, budget *common.Budget, site *models.ScrapedSite) string {
	var parts []string
	seen := make(map[string]bool)

	for _, page := range site.Pages {
		parts = append(parts, page.InlineCSS...)

		pageURL, err := url.Parse(page.URL)
		if err != nil {
			continue
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
		if err != nil {
			continue
		}

		doc.Find(`link[rel="stylesheet"]`).Each(func(_ int, sel *goquery.Selection) {
			href, _ := sel.Attr("href")
			resolved := common.ResolveURL(href, pageURL)
			if resolved == "" || seen[resolved] || len(seen) >= f.config.MaxStylesheets {
				return
			}
			seen[resolved] = true

			data, _, err := f.fetch(ctx, budget, resolved)
			if err != nil {
				f.logger.Debug().Err(err).Str("url", resolved).Msg("Stylesheet fetch skipped")
				return
			}
			parts = append(parts, string(data))

			// One level of @import resolution
			sheetURL, _ := url.Parse(resolved)
			for _, m := range importRe.FindAllStringSubmatch(string(data), 3) {
				imp := common.ResolveURL(m[1], sheetURL)
				if imp == "" || seen[imp] {
					continue
				}
				seen[imp] = true
				if sub, _, err := f.fetch(ctx, budget, imp); err == nil {
					parts = append(parts, string(sub))
				}
			}
		})
	}

	return strings.Join(parts, "\n")
}

// collectImages downloads the og:image plus home-page images, up to
// the image cap. Downloads run MaxConcurrency at a time; the rate
// limiter still paces individual requests.
func (f *assetFetcher) collectImages(ctx context.Context, budget *common.Budget, site *models.ScrapedSite) []models.ImageAsset {
	var targets []string
	seen := make(map[string]bool)

	add := func(target string) {
		if target == "" || seen[target] || len(targets) >= f.config.MaxImages {
			return
		}
		seen[target] = true
		targets = append(targets, target)
	}

	base, err := url.Parse(site.BaseURL)
	if err != nil {
		return nil
	}

	if site.Meta.OGImage != "" {
		add(common.ResolveURL(site.Meta.OGImage, base))
	}

	if home := site.Home(); home != nil {
		if homeURL, err := url.Parse(home.URL); err == nil {
			if doc, err := goquery.NewDocumentFromReader(strings.NewReader(home.HTML)); err == nil {
				doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
					src, _ := sel.Attr("src")
					add(common.ResolveURL(src, homeURL))
				})
			}
		}
	}

	return f.fetchImages(ctx, budget, targets)
}

// fetchImages downloads the targets in parallel, preserving discovery
// order in the result
func (f *assetFetcher) fetchImages(ctx context.Context, budget *common.Budget, targets []string) []models.ImageAsset {
	concurrency := f.config.MaxConcurrency
	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]*models.ImageAsset, len(targets))
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup

	for i, target := range targets {
		wg.Add(1)
		go func(i int, target string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			data, mime, err := f.fetch(ctx, budget, target)
			if err != nil {
				f.logger.Debug().Err(err).Str("url", target).Msg("Image fetch skipped")
				return
			}
			results[i] = &models.ImageAsset{SourceURL: target, MIME: mime, Data: data}
		}(i, target)
	}
	wg.Wait()

	var assets []models.ImageAsset
	for _, r := range results {
		if r != nil {
			assets = append(assets, *r)
		}
	}
	return assets
}

// collectFonts parses @font-face blocks out of the gathered CSS and
// downloads font files up to the font cap. Fonts that fail to
// download are still recorded by family so typography extraction can
// use the declaration alone.
func (f *assetFetcher) collectFonts(ctx context.Context, budget *common.Budget, css string, baseURL string) []models.FontAsset {
	var fonts []models.FontAsset
	seenFamily := make(map[string]bool)

	base, err := url.Parse(baseURL)
	if err != nil {
		return fonts
	}

	for _, block := range fontFaceRe.FindAllString(css, -1) {
		family := ""
		if m := familyRe.FindStringSubmatch(block); m != nil {
			family = strings.TrimSpace(strings.Trim(m[1], `'" `))
		}
		if family == "" || seenFamily[family] {
			continue
		}
		seenFamily[family] = true

		src := fontSrcRe.FindStringSubmatch(block)
		if src == nil {
			continue
		}
		resolved := common.ResolveURL(src[1], base)
		if resolved == "" {
			continue
		}

		font := models.FontAsset{SourceURL: resolved, Family: family, Format: src[2]}
		if len(fonts) < f.config.MaxFonts {
			if data, _, err := f.fetch(ctx, budget, resolved); err == nil {
				font.Data = data
			} else {
				f.logger.Debug().Err(err).Str("family", family).Msg("Font fetch skipped")
			}
		}
		fonts = append(fonts, font)
	}

	return fonts
}
