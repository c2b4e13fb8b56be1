package typography

import (
	"context"
	"regexp"
	"strings"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/interfaces"
	"github.com/ternarybob/brandforge/internal/models"
)

const systemFallback = "Arial, Helvetica, sans-serif"

var fontFamilyRe = regexp.MustCompile(`font-family\s*:\s*([^;}]+)`)

// genericFamilies are CSS keywords, never brand typefaces
var genericFamilies = map[string]bool{
	"serif": true, "sans-serif": true, "monospace": true,
	"cursive": true, "fantasy": true, "system-ui": true,
	"ui-serif": true, "ui-sans-serif": true, "ui-monospace": true,
	"inherit": true, "initial": true, "unset": true, "revert": true,
}

// Extractor derives the typography system from markup and stylesheets
type Extractor struct {
	logger arbor.ILogger
}

func NewExtractor(logger arbor.ILogger) interfaces.TypographyExtractor {
	return &Extractor{logger: logger}
}

func (e *Extractor) Extract(ctx context.Context, site *models.ScrapedSite) (models.TypographySpec, error) {
	combined := site.CSS
	for _, page := range site.Pages {
		combined += "\n" + page.HTML
	}

	webFonts := parseWebFontLinks(combined)
	declared := declaredFamilies(site)

	spec := buildSpec(webFonts, declared)
	spec.Hierarchy = defaultHierarchy(spec)

	e.logger.Debug().
		Str("primary", spec.Primary.Name).
		Int("web_fonts", len(webFonts)).
		Int("declared", len(declared)).
		Msg("Typography extracted")

	return spec, nil
}

// declaredFamilies collects the lead font of every font-family stack
// plus every @font-face family the scraper recorded, minus generics
func declaredFamilies(site *models.ScrapedSite) []string {
	var families []string
	seen := make(map[string]bool)

	add := func(name string) {
		name = strings.Trim(strings.TrimSpace(name), `'"`)
		if name == "" || genericFamilies[strings.ToLower(name)] || seen[name] {
			return
		}
		seen[name] = true
		families = append(families, name)
	}

	for _, font := range site.Fonts {
		add(font.Family)
	}
	for _, m := range fontFamilyRe.FindAllStringSubmatch(site.CSS, -1) {
		first, _, _ := strings.Cut(m[1], ",")
		add(first)
	}

	return families
}

// buildSpec picks primary and secondary typefaces, preferring hosted
// web fonts because they come with a public specimen page. No fonts
// at all falls back to Inter.
func buildSpec(webFonts, declared []string) models.TypographySpec {
	isWebFont := make(map[string]bool, len(webFonts))
	for _, f := range webFonts {
		isWebFont[f] = true
	}

	makeFont := func(name string) models.FontSpec {
		font := models.FontSpec{
			Name:   name,
			Stack:  name + ", " + systemFallback,
			Source: models.FontSourceDeclared,
		}
		if isWebFont[name] {
			font.Source = models.FontSourceWebFont
			font.DownloadURL = specimenURL(name)
		}
		return font
	}

	all := append(append([]string{}, webFonts...), declared...)

	spec := models.TypographySpec{Fallback: systemFallback}
	if len(all) == 0 {
		spec.Primary = models.FontSpec{
			Name:        "Inter",
			Stack:       "Inter, " + systemFallback,
			Source:      models.FontSourceWebFont,
			DownloadURL: specimenURL("Inter"),
		}
		return spec
	}

	spec.Primary = makeFont(all[0])
	for _, name := range all[1:] {
		if name != spec.Primary.Name {
			secondary := makeFont(name)
			spec.Secondary = &secondary
			break
		}
	}
	return spec
}

// defaultHierarchy maps the type scale onto the extracted fonts:
// headings use the primary face, body and caption use the secondary
// when one exists
func defaultHierarchy(spec models.TypographySpec) map[models.TypeRole]models.TypeStyle {
	bodyFont := spec.Primary.Name
	if spec.Secondary != nil {
		bodyFont = spec.Secondary.Name
	}

	return map[models.TypeRole]models.TypeStyle{
		models.TypeRoleHeading1: {FontName: spec.Primary.Name, SizePx: 48, Weight: 700},
		models.TypeRoleHeading2: {FontName: spec.Primary.Name, SizePx: 36, Weight: 700},
		models.TypeRoleHeading3: {FontName: spec.Primary.Name, SizePx: 28, Weight: 600},
		models.TypeRoleHeading4: {FontName: spec.Primary.Name, SizePx: 24, Weight: 600},
		models.TypeRoleHeading5: {FontName: spec.Primary.Name, SizePx: 20, Weight: 500},
		models.TypeRoleHeading6: {FontName: spec.Primary.Name, SizePx: 18, Weight: 500},
		models.TypeRoleBody:     {FontName: bodyFont, SizePx: 16, Weight: 400},
		models.TypeRoleCaption:  {FontName: bodyFont, SizePx: 13, Weight: 400},
	}
}
