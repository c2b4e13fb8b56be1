package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/ternarybob/brandforge/internal/common"
	"github.com/ternarybob/brandforge/internal/models"
)

// roleKeywords maps a page role to the substrings that identify it in
// a link's path or anchor text. Candidates are considered in
// TargetRoles order; first link found for a role wins.
var roleKeywords = map[models.PageRole][]string{
	models.PageRoleAbout:    {"about", "about-us", "aboutus", "who-we-are", "our-story", "company", "team"},
	models.PageRoleContact:  {"contact", "contact-us", "contactus", "get-in-touch", "reach-us"},
	models.PageRoleProducts: {"product", "products", "services", "solutions", "offerings", "shop", "pricing", "what-we-do"},
}

// TargetRoles is the discovery order for secondary pages
var TargetRoles = []models.PageRole{
	models.PageRoleAbout,
	models.PageRoleContact,
	models.PageRoleProducts,
}

// discoverLinks parses the home page and returns one candidate URL per
// secondary role, same-host only
func discoverLinks(doc *goquery.Document, base *url.URL) map[models.PageRole]string {
	found := make(map[models.PageRole]string)

	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		resolved := common.ResolveURL(href, base)
		if resolved == "" || !common.SameHost(base, resolved) {
			return
		}

		role := classifyLink(resolved, sel.Text())
		if role == models.PageRoleHome {
			return
		}
		if _, taken := found[role]; !taken {
			found[role] = resolved
		}
	})

	return found
}

// classifyLink assigns a role from the URL path and anchor text.
// Returns PageRoleHome when nothing matches, which callers treat as
// "not interesting".
func classifyLink(rawURL, anchorText string) models.PageRole {
	path := ""
	if parsed, err := url.Parse(rawURL); err == nil {
		path = strings.ToLower(parsed.Path)
	}
	text := strings.ToLower(strings.TrimSpace(anchorText))

	for _, role := range TargetRoles {
		for _, kw := range roleKeywords[role] {
			if containsToken(path, kw) || text == kw || strings.Contains(text, strings.ReplaceAll(kw, "-", " ")) {
				return role
			}
		}
	}
	return models.PageRoleHome
}

// containsToken reports whether kw appears in path as a whole path
// segment token, so "contact" does not match "/contractor"
func containsToken(path, kw string) bool {
	for _, seg := range strings.FieldsFunc(path, func(r rune) bool {
		return r == '/' || r == '.' || r == '_'
	}) {
		if seg == kw {
			return true
		}
	}
	return false
}
