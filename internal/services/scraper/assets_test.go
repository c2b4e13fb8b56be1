package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/common"
	"github.com/ternarybob/brandforge/internal/models"
)

func testFetcherConfig() *common.ScraperConfig {
	return &common.ScraperConfig{
		UserAgent:         "brandforge-test",
		MaxAssetSize:      1 << 20,
		MaxStylesheets:    5,
		MaxImages:         5,
		MaxFonts:          5,
		RequestTimeout:    5 * time.Second,
		RequestsPerSecond: 1000,
	}
}

func newTestFetcher(cfg *common.ScraperConfig) *assetFetcher {
	return newAssetFetcher(cfg, arbor.NewLogger())
}

func TestFetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/css")
		w.Write([]byte("body { color: red }"))
	}))
	defer srv.Close()

	f := newTestFetcher(testFetcherConfig())
	budget := common.NewCountBudget(3)

	data, mime, err := f.fetch(context.Background(), budget, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "body { color: red }", string(data))
	assert.Equal(t, "text/css", mime)
	assert.Equal(t, "brandforge-test", gotUA)
	assert.Equal(t, 1, budget.Used())
}

func TestFetch_BudgetExhausted(t *testing.T) {
	f := newTestFetcher(testFetcherConfig())
	budget := common.NewCountBudget(1)
	require.True(t, budget.Take())

	_, _, err := f.fetch(context.Background(), budget, "http://unreachable.invalid/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "budget")
}

func TestFetch_SizeCap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(make([]byte, 2048))
	}))
	defer srv.Close()

	cfg := testFetcherConfig()
	cfg.MaxAssetSize = 1024
	f := newTestFetcher(cfg)

	_, _, err := f.fetch(context.Background(), common.NewCountBudget(3), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "size cap")
}

func TestFetch_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestFetcher(testFetcherConfig())
	_, _, err := f.fetch(context.Background(), common.NewCountBudget(3), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestCollectCSS(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/main.css", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`@import url("/imported.css"); h1 { font-family: Lora }`))
	})
	mux.HandleFunc("/imported.css", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("p { color: blue }"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	site := &models.ScrapedSite{
		BaseURL: srv.URL,
		Pages: map[models.PageRole]*models.ScrapedPage{
			models.PageRoleHome: {
				URL:       srv.URL + "/",
				HTML:      `<html><head><link rel="stylesheet" href="/main.css"></head></html>`,
				InlineCSS: []string{"body { margin: 0 }"},
			},
		},
	}

	f := newTestFetcher(testFetcherConfig())
	css := f.collectCSS(context.Background(), common.NewCountBudget(10), site)

	assert.Contains(t, css, "body { margin: 0 }")
	assert.Contains(t, css, "font-family: Lora")
	assert.Contains(t, css, "color: blue")
}

func TestCollectCSS_StylesheetCap(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("a {}"))
	}))
	defer srv.Close()

	var links strings.Builder
	for _, name := range []string{"a", "b", "c", "d"} {
		links.WriteString(`<link rel="stylesheet" href="/` + name + `.css">`)
	}
	site := &models.ScrapedSite{
		BaseURL: srv.URL,
		Pages: map[models.PageRole]*models.ScrapedPage{
			models.PageRoleHome: {URL: srv.URL + "/", HTML: "<head>" + links.String() + "</head>"},
		},
	}

	cfg := testFetcherConfig()
	cfg.MaxStylesheets = 2
	f := newTestFetcher(cfg)
	f.collectCSS(context.Background(), common.NewCountBudget(10), site)

	assert.Equal(t, 2, hits)
}

func TestCollectImages(t *testing.T) {
	mux := http.NewServeMux()
	serveImage := func(path string) {
		mux.HandleFunc(path, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "image/png")
			w.Write([]byte("png-bytes"))
		})
	}
	serveImage("/og.png")
	serveImage("/hero.png")
	srv := httptest.NewServer(mux)
	defer srv.Close()

	site := &models.ScrapedSite{
		BaseURL: srv.URL,
		Meta:    models.SiteMeta{OGImage: "/og.png"},
		Pages: map[models.PageRole]*models.ScrapedPage{
			models.PageRoleHome: {
				URL:  srv.URL + "/",
				HTML: `<body><img src="/hero.png"><img src="/og.png"></body>`,
			},
		},
	}

	f := newTestFetcher(testFetcherConfig())
	images := f.collectImages(context.Background(), common.NewCountBudget(10), site)

	// og:image first, duplicate URL fetched once
	require.Len(t, images, 2)
	assert.Equal(t, srv.URL+"/og.png", images[0].SourceURL)
	assert.Equal(t, "image/png", images[0].MIME)
	assert.Equal(t, srv.URL+"/hero.png", images[1].SourceURL)
}

func TestCollectImages_ParallelBounded(t *testing.T) {
	var inflight, peak int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cur := atomic.AddInt32(&inflight, 1)
		for {
			p := atomic.LoadInt32(&peak)
			if cur <= p || atomic.CompareAndSwapInt32(&peak, p, cur) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inflight, -1)
		w.Header().Set("Content-Type", "image/png")
		w.Write([]byte("png-bytes"))
	}))
	defer srv.Close()

	var imgs strings.Builder
	for _, name := range []string{"a", "b", "c", "d"} {
		imgs.WriteString(`<img src="/` + name + `.png">`)
	}
	site := &models.ScrapedSite{
		BaseURL: srv.URL,
		Pages: map[models.PageRole]*models.ScrapedPage{
			models.PageRoleHome: {URL: srv.URL + "/", HTML: imgs.String()},
		},
	}

	cfg := testFetcherConfig()
	cfg.MaxConcurrency = 2
	f := newTestFetcher(cfg)
	images := f.collectImages(context.Background(), common.NewCountBudget(10), site)

	require.Len(t, images, 4)
	for i, name := range []string{"a", "b", "c", "d"} {
		assert.Equal(t, srv.URL+"/"+name+".png", images[i].SourceURL)
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
}

func TestCollectImages_FailedDownloadSkipped(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	site := &models.ScrapedSite{
		BaseURL: srv.URL,
		Pages: map[models.PageRole]*models.ScrapedPage{
			models.PageRoleHome: {URL: srv.URL + "/", HTML: `<img src="/missing.png">`},
		},
	}

	f := newTestFetcher(testFetcherConfig())
	images := f.collectImages(context.Background(), common.NewCountBudget(10), site)
	assert.Empty(t, images)
}

func TestCollectFonts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("woff2-bytes"))
	}))
	defer srv.Close()

	css := `
	@font-face {
		font-family: 'Lora';
		src: url('/fonts/lora.woff2') format('woff2');
	}
	@font-face {
		font-family: "Inter";
		src: url(/fonts/inter.woff2) format("woff2");
	}
	@font-face {
		font-family: 'Lora';
		src: url('/fonts/lora-bold.woff2');
	}`

	f := newTestFetcher(testFetcherConfig())
	fonts := f.collectFonts(context.Background(), common.NewCountBudget(10), css, srv.URL)

	// Duplicate family collapsed
	require.Len(t, fonts, 2)
	assert.Equal(t, "Lora", fonts[0].Family)
	assert.Equal(t, "woff2", fonts[0].Format)
	assert.Equal(t, []byte("woff2-bytes"), fonts[0].Data)
	assert.Equal(t, "Inter", fonts[1].Family)
}

func TestCollectFonts_DeclarationSurvivesFailedDownload(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	css := `@font-face { font-family: 'Lora'; src: url('/gone.woff2') format('woff2'); }`

	f := newTestFetcher(testFetcherConfig())
	fonts := f.collectFonts(context.Background(), common.NewCountBudget(10), css, srv.URL)

	require.Len(t, fonts, 1)
	assert.Equal(t, "Lora", fonts[0].Family)
	assert.Empty(t, fonts[0].Data)
}
