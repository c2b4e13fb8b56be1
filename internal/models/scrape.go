package models

import "time"

// PageRole classifies a scraped page by its likely purpose
type PageRole string

const (
	PageRoleHome     PageRole = "home"
	PageRoleAbout    PageRole = "about"
	PageRoleContact  PageRole = "contact"
	PageRoleProducts PageRole = "products"
)

// ScrapedPage holds the rendered output of a single page
type ScrapedPage struct {
	URL        string   `json:"url"`
	Role       PageRole `json:"role"`
	StatusCode int      `json:"status_code"` // HTTP status of the document response, 0 when not observed
	HTML       string   `json:"-"`
	Title      string   `json:"title"`
	InlineCSS  []string `json:"-"`
	Screenshot []byte   `json:"-"`
}

// ImageAsset is a downloaded image with provenance
type ImageAsset struct {
	SourceURL string `json:"source_url"`
	MIME      string `json:"mime"`
	Data      []byte `json:"-"`
}

// FontAsset is a downloaded or referenced font file with its declared family
type FontAsset struct {
	SourceURL string `json:"source_url"`
	Family    string `json:"family"`
	Format    string `json:"format"`
	Data      []byte `json:"-"`
}

// SiteMeta holds metadata harvested from the root page
type SiteMeta struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Language       string `json:"language"`
	OGTitle        string `json:"og_title"`
	OGDescription  string `json:"og_description"`
	OGImage        string `json:"og_image"`
	Favicon        string `json:"favicon"`
	AppleTouchIcon string `json:"apple_touch_icon"`
}

// ScrapedSite is the immutable bundle of fetched material for one job.
// The scraper owns construction; every extractor reads it as a snapshot
// and never re-fetches. Asset blobs always carry their origin URL.
type ScrapedSite struct {
	BaseURL     string                    `json:"base_url"`
	Pages       map[PageRole]*ScrapedPage `json:"pages"`
	CSS         string                    `json:"-"` // concatenated, deduplicated stylesheet text
	Images      []ImageAsset              `json:"images"`
	Fonts       []FontAsset               `json:"fonts"`
	Meta        SiteMeta                  `json:"meta"`
	ScrapedAt   time.Time                 `json:"scraped_at"`
	PagesFailed int                       `json:"pages_failed"`
}

// Home returns the root page, which is always present in a successful scrape
func (s *ScrapedSite) Home() *ScrapedPage {
	return s.Pages[PageRoleHome]
}

// Screenshots returns every captured page screenshot, home first
func (s *ScrapedSite) Screenshots() [][]byte {
	var shots [][]byte
	if home := s.Home(); home != nil && len(home.Screenshot) > 0 {
		shots = append(shots, home.Screenshot)
	}
	for role, page := range s.Pages {
		if role == PageRoleHome || page == nil || len(page.Screenshot) == 0 {
			continue
		}
		shots = append(shots, page.Screenshot)
	}
	return shots
}
