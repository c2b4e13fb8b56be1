package content

import (
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/brandforge/internal/common"
	"github.com/ternarybob/brandforge/internal/models"
)

// maxSampleLength bounds the text handed to the model to stay well
// inside prompt limits
const maxSampleLength = 15000

// textSample converts scraped pages to markdown, stripping chrome
// (scripts, nav, footers), and concatenates them home-first up to the
// length cap
func textSample(site *models.ScrapedSite) string {
	converter := md.NewConverter("", true, nil)

	var sb strings.Builder
	appendPage := func(page *models.ScrapedPage) {
		if page == nil || sb.Len() >= maxSampleLength {
			return
		}

		doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
		if err != nil {
			return
		}
		doc.Find("script, style, noscript, nav, footer, iframe, svg").Remove()

		body := doc.Find("body")
		if body.Length() == 0 {
			return
		}
		bodyHTML, err := body.Html()
		if err != nil {
			return
		}
		text, err := converter.ConvertString(bodyHTML)
		if err != nil || strings.TrimSpace(text) == "" {
			return
		}

		sb.WriteString("## Page: ")
		sb.WriteString(string(page.Role))
		sb.WriteString("\n\n")
		sb.WriteString(strings.TrimSpace(text))
		sb.WriteString("\n\n")
	}

	appendPage(site.Home())
	for _, role := range []models.PageRole{models.PageRoleAbout, models.PageRoleProducts, models.PageRoleContact} {
		appendPage(site.Pages[role])
	}

	sample := sb.String()
	if len(sample) > maxSampleLength {
		sample = sample[:maxSampleLength]
	}
	return sample
}

// CompanyName derives the display name: og:title first, then the page
// title, then the capitalized domain stem. Separator suffixes like
// "Acme | Home" are stripped.
func CompanyName(site *models.ScrapedSite) string {
	name := site.Meta.OGTitle
	if name == "" {
		name = site.Meta.Title
	}
	if name == "" {
		stem := common.DomainOf(site.BaseURL)
		if i := strings.Index(stem, "."); i > 0 {
			stem = stem[:i]
		}
		name = capitalize(stem)
	}

	for _, sep := range []string{"|", " - ", " – "} {
		if i := strings.Index(name, sep); i > 0 {
			name = name[:i]
		}
	}
	return strings.TrimSpace(name)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
