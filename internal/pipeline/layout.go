package pipeline

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/brandforge/internal/models"
)

// analyzeLayout derives component-count heuristics from the home page
// markup. Best-effort: a parse failure yields empty notes.
func analyzeLayout(site *models.ScrapedSite) models.LayoutNotes {
	home := site.Home()
	if home == nil {
		return models.LayoutNotes{}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(home.HTML))
	if err != nil {
		return models.LayoutNotes{}
	}

	notes := models.LayoutNotes{
		NavLinks: doc.Find("nav a, header a").Length(),
		Buttons:  doc.Find(`button, a[class*="btn"], a[class*="button"], input[type="submit"]`).Length(),
		Forms:    doc.Find("form").Length(),
		CardSections: doc.Find(`[class*="card"], [class*="tile"], [class*="grid-item"]`).
			Length(),
	}
	notes.UsesHero = doc.Find(`[class*="hero"], [id*="hero"], [class*="banner"], [class*="jumbotron"]`).Length() > 0

	return notes
}
