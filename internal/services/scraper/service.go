package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/common"
	"github.com/ternarybob/brandforge/internal/interfaces"
	"github.com/ternarybob/brandforge/internal/models"
)

// Service renders a site in a headless browser and assembles the
// immutable snapshot every extractor works from. The root page is
// mandatory; secondary pages and assets degrade silently.
type Service struct {
	pool    *BrowserPool
	fetcher *assetFetcher
	config  *common.ScraperConfig
	logger  arbor.ILogger
}

// NewService creates the scraper with its own browser pool
func NewService(config *common.ScraperConfig, logger arbor.ILogger) (interfaces.ScraperService, error) {
	pool, err := NewBrowserPool(config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to start browser pool: %w", err)
	}

	return &Service{
		pool:    pool,
		fetcher: newAssetFetcher(config, logger),
		config:  config,
		logger:  logger,
	}, nil
}

func (s *Service) Scrape(ctx context.Context, targetURL string) (*models.ScrapedSite, error) {
	base, err := url.Parse(targetURL)
	if err != nil {
		return nil, fmt.Errorf("invalid target url: %w", err)
	}

	site := &models.ScrapedSite{
		BaseURL:   targetURL,
		Pages:     make(map[models.PageRole]*models.ScrapedPage),
		ScrapedAt: time.Now(),
	}

	// The root page must render; without it there is nothing to extract
	home, err := s.renderPage(ctx, targetURL, models.PageRoleHome)
	if err != nil {
		return nil, fmt.Errorf("failed to render root page: %w", err)
	}
	site.Pages[models.PageRoleHome] = home

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(home.HTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse root page: %w", err)
	}
	site.Meta = harvestMeta(doc, home.Title)

	// Secondary pages share a count budget with the root page
	pageBudget := common.NewCountBudget(s.config.MaxPages)
	pageBudget.Take() // root page

	links := discoverLinks(doc, base)
	for _, role := range TargetRoles {
		link, ok := links[role]
		if !ok {
			continue
		}
		if !pageBudget.Take() {
			break
		}

		page, err := s.renderPage(ctx, link, role)
		if err != nil {
			site.PagesFailed++
			s.logger.Warn().Err(err).Str("url", link).Str("role", string(role)).Msg("Secondary page render failed")
			continue
		}
		site.Pages[role] = page
	}

	// Assets run under a single wall-clock window so a slow CDN cannot
	// stall the whole pipeline
	assetBudget := common.NewTimeBudget(0, s.config.AssetTimeBudget)
	site.CSS = s.fetcher.collectCSS(ctx, assetBudget, site)
	site.Images = s.fetcher.collectImages(ctx, assetBudget, site)
	site.Fonts = s.fetcher.collectFonts(ctx, assetBudget, site.CSS, targetURL)

	s.logger.Info().
		Str("url", targetURL).
		Int("pages", len(site.Pages)).
		Int("pages_failed", site.PagesFailed).
		Int("css_bytes", len(site.CSS)).
		Int("images", len(site.Images)).
		Int("fonts", len(site.Fonts)).
		Msg("Scrape complete")

	return site, nil
}

// renderPage navigates a pooled browser to the URL, waits for scripts
// to settle, and captures HTML, title and a full-page screenshot
func (s *Service) renderPage(ctx context.Context, pageURL string, role models.PageRole) (*models.ScrapedPage, error) {
	browser, err := s.pool.Acquire()
	if err != nil {
		return nil, err
	}

	// A tab per page: navigation state never leaks between renders
	tabCtx, tabCancel := chromedp.NewContext(browser)
	defer tabCancel()

	pageCtx, cancel := context.WithTimeout(tabCtx, s.config.PageTimeout)
	defer cancel()

	// Honor pipeline cancellation without waiting out the page timeout
	go func() {
		select {
		case <-ctx.Done():
			cancel()
		case <-pageCtx.Done():
		}
	}()

	var html, title string
	var screenshot []byte

	// Capture the HTTP status of the document response; SPA frameworks
	// render an error page without failing navigation, so chromedp alone
	// cannot tell a 404 from a 200
	var statusCode int64
	chromedp.ListenTarget(pageCtx, func(ev interface{}) {
		if resp, ok := ev.(*network.EventResponseReceived); ok {
			if resp.Type == network.ResourceTypeDocument && statusCode == 0 {
				statusCode = resp.Response.Status
			}
		}
	})

	start := time.Now()
	err = chromedp.Run(pageCtx,
		network.Enable(),
		chromedp.Navigate(pageURL),
		chromedp.Sleep(s.config.JavaScriptWaitTime),
		chromedp.Title(&title),
		chromedp.OuterHTML("html", &html),
		chromedp.FullScreenshot(&screenshot, 80),
	)
	if err != nil {
		return nil, fmt.Errorf("page render failed: %w", err)
	}
	if statusCode >= 400 {
		return nil, fmt.Errorf("page returned HTTP %d", statusCode)
	}

	page := &models.ScrapedPage{
		URL:        pageURL,
		Role:       role,
		StatusCode: int(statusCode),
		HTML:       html,
		Title:      strings.TrimSpace(title),
		Screenshot: screenshot,
	}

	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(html)); err == nil {
		doc.Find("style").Each(func(_ int, sel *goquery.Selection) {
			if css := strings.TrimSpace(sel.Text()); css != "" {
				page.InlineCSS = append(page.InlineCSS, css)
			}
		})
	}

	s.logger.Debug().
		Str("url", pageURL).
		Str("role", string(role)).
		Dur("render_time", time.Since(start)).
		Int("html_bytes", len(html)).
		Msg("Page rendered")

	return page, nil
}

// harvestMeta pulls title, description, open graph and icon metadata
// from the root document
func harvestMeta(doc *goquery.Document, pageTitle string) models.SiteMeta {
	meta := models.SiteMeta{Title: pageTitle}

	if lang, ok := doc.Find("html").Attr("lang"); ok {
		meta.Language = strings.TrimSpace(lang)
	}

	metaContent := func(selector string) string {
		content, _ := doc.Find(selector).First().Attr("content")
		return strings.TrimSpace(content)
	}
	meta.Description = metaContent(`meta[name="description"]`)
	meta.OGTitle = metaContent(`meta[property="og:title"]`)
	meta.OGDescription = metaContent(`meta[property="og:description"]`)
	meta.OGImage = metaContent(`meta[property="og:image"]`)

	iconHref := func(selector string) string {
		href, _ := doc.Find(selector).First().Attr("href")
		return strings.TrimSpace(href)
	}
	meta.Favicon = iconHref(`link[rel="icon"], link[rel="shortcut icon"]`)
	meta.AppleTouchIcon = iconHref(`link[rel="apple-touch-icon"]`)

	return meta
}

func (s *Service) Close() error {
	return s.pool.Shutdown()
}
