package scraper

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/common"
)

// BrowserPool manages a fixed set of headless browser contexts with
// round-robin allocation. Instances are created once at startup and
// reused across jobs.
type BrowserPool struct {
	browsers         []context.Context
	browserCancels   []context.CancelFunc
	allocatorCancels []context.CancelFunc
	mu               sync.Mutex
	currentIndex     int
	logger           arbor.ILogger
	initialized      bool
}

// NewBrowserPool creates and starts the pool. Instance startup
// failures are tolerated as long as at least one browser comes up.
func NewBrowserPool(config *common.ScraperConfig, logger arbor.ILogger) (*BrowserPool, error) {
	if config.BrowserInstances <= 0 {
		return nil, fmt.Errorf("browser_instances must be greater than 0, got: %d", config.BrowserInstances)
	}

	p := &BrowserPool{logger: logger}

	logger.Info().
		Int("pool_size", config.BrowserInstances).
		Bool("headless", config.Headless).
		Msg("Initializing browser pool")

	var lastErr error
	for i := 0; i < config.BrowserInstances; i++ {
		if err := p.createInstance(i, config); err != nil {
			lastErr = err
			logger.Warn().Err(err).Int("browser_index", i).Msg("Failed to create browser instance")
		}
	}

	if len(p.browsers) == 0 {
		return nil, fmt.Errorf("failed to create any browser instances: %w", lastErr)
	}
	if len(p.browsers) < config.BrowserInstances {
		logger.Warn().
			Int("requested", config.BrowserInstances).
			Int("created", len(p.browsers)).
			Msg("Created fewer browser instances than requested")
	}

	p.initialized = true
	return p, nil
}

func (p *BrowserPool) createInstance(index int, config *common.ScraperConfig) error {
	startTime := time.Now()

	allocatorOpts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", config.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", config.NoSandbox),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(config.UserAgent),
	)

	allocatorCtx, allocatorCancel := chromedp.NewExecAllocator(context.Background(), allocatorOpts...)
	browserCtx, browserCancel := chromedp.NewContext(allocatorCtx)

	// Startup probe so a broken chrome install fails fast here
	// instead of inside the first job
	testCtx, testCancel := context.WithTimeout(browserCtx, config.PageTimeout)
	defer testCancel()

	if err := chromedp.Run(testCtx, chromedp.Navigate("about:blank")); err != nil {
		browserCancel()
		allocatorCancel()
		return fmt.Errorf("browser instance failed startup test: %w", err)
	}

	p.browsers = append(p.browsers, browserCtx)
	p.browserCancels = append(p.browserCancels, browserCancel)
	p.allocatorCancels = append(p.allocatorCancels, allocatorCancel)

	p.logger.Debug().
		Int("browser_index", index).
		Dur("startup_time", time.Since(startTime)).
		Msg("Browser instance created")
	return nil
}

// Acquire returns a browser context from the pool
func (p *BrowserPool) Acquire() (context.Context, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized || len(p.browsers) == 0 {
		return nil, fmt.Errorf("browser pool not initialized")
	}

	index := p.currentIndex % len(p.browsers)
	p.currentIndex = (p.currentIndex + 1) % len(p.browsers)
	return p.browsers[index], nil
}

// Shutdown cancels every browser and allocator context
func (p *BrowserPool) Shutdown() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil
	}

	p.logger.Info().Int("browser_count", len(p.browsers)).Msg("Shutting down browser pool")

	done := make(chan struct{})
	go func() {
		for _, cancel := range p.browserCancels {
			cancel()
		}
		for _, cancel := range p.allocatorCancels {
			cancel()
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(30 * time.Second):
		p.logger.Warn().Msg("Browser pool shutdown timed out")
	}

	p.browsers = nil
	p.browserCancels = nil
	p.allocatorCancels = nil
	p.initialized = false
	return nil
}
