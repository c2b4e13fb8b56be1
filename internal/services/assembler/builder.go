package assembler

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/interfaces"
	"github.com/ternarybob/brandforge/internal/models"
)

// Builder renders an extracted brand into a multi-page guidelines
// document. Missing extraction results render as labelled placeholder
// states, never as blank pages.
type Builder struct {
	logger arbor.ILogger
}

func NewBuilder(logger arbor.ILogger) interfaces.Assembler {
	return &Builder{logger: logger}
}

// doc wraps one render pass so section methods share brand data and
// palette-derived ink colors
type doc struct {
	pdf   *fpdf.Fpdf
	brand *models.ExtractedBrand
	dark  models.RGB // cover and divider background
	ink   models.RGB // accent ink
}

func (b *Builder) Build(ctx context.Context, brand *models.ExtractedBrand) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.SetTitle(brand.CompanyName+" Brand Guidelines", false)
	pdf.SetAuthor("BrandForge", false)

	d := &doc{
		pdf:   pdf,
		brand: brand,
		dark:  models.RGB{R: 26, G: 26, B: 46},
		ink:   models.RGB{R: 0, G: 102, B: 255},
	}
	if brand.Colors.Primary != nil {
		d.dark = brand.Colors.Primary.RGB
	}
	if brand.Colors.Accent != nil {
		d.ink = brand.Colors.Accent.RGB
	}

	d.cover()
	d.contents()
	d.strategy()
	d.voice()
	d.palette()
	d.typography()
	d.logo()
	d.layout()
	d.accessibility()
	d.photography()
	d.resources()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf render failed: %w", err)
	}

	pages, err := verifyDocument(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("rendered pdf failed verification: %w", err)
	}

	b.logger.Info().
		Str("company", brand.CompanyName).
		Int("pages", pages).
		Int("bytes", buf.Len()).
		Msg("Guidelines document built")

	return buf.Bytes(), nil
}

// ---- page chrome ----

func (d *doc) darkPage() {
	d.pdf.AddPage()
	w, h := d.pdf.GetPageSize()
	d.pdf.SetFillColor(d.dark.R, d.dark.G, d.dark.B)
	d.pdf.Rect(0, 0, w, h, "F")
}

func (d *doc) lightPage(section string) {
	d.pdf.AddPage()
	d.pdf.SetTextColor(130, 130, 130)
	d.pdf.SetFont("Helvetica", "", 8)
	d.pdf.SetXY(15, 10)
	d.pdf.CellFormat(0, 5, d.brand.CompanyName+"  /  "+section, "", 0, "L", false, 0, "")
	d.pdf.SetXY(15, 25)
	d.pdf.SetTextColor(0, 0, 0)
}

func (d *doc) heading(text string) {
	d.pdf.SetFont("Helvetica", "B", 24)
	d.pdf.SetTextColor(d.dark.R, d.dark.G, d.dark.B)
	d.pdf.MultiCell(0, 10, text, "", "L", false)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.Ln(4)
}

func (d *doc) subheading(text string) {
	d.pdf.SetFont("Helvetica", "B", 13)
	d.pdf.SetTextColor(d.ink.R, d.ink.G, d.ink.B)
	d.pdf.MultiCell(0, 7, text, "", "L", false)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.Ln(1)
}

func (d *doc) body(text string) {
	if text == "" {
		return
	}
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.MultiCell(0, 5.5, text, "", "L", false)
	d.pdf.Ln(3)
}

func (d *doc) placeholder(text string) {
	d.pdf.SetFont("Helvetica", "I", 10)
	d.pdf.SetTextColor(130, 130, 130)
	d.pdf.MultiCell(0, 5.5, text, "", "L", false)
	d.pdf.SetTextColor(0, 0, 0)
	d.pdf.Ln(3)
}

// ---- sections ----

func (d *doc) cover() {
	d.darkPage()
	w, _ := d.pdf.GetPageSize()

	d.pdf.SetTextColor(255, 255, 255)
	d.pdf.SetFont("Helvetica", "B", 34)
	d.pdf.SetXY(20, 110)
	d.pdf.MultiCell(w-40, 14, d.brand.CompanyName, "", "L", false)

	d.pdf.SetFont("Helvetica", "", 14)
	d.pdf.MultiCell(w-40, 8, "Brand Guidelines", "", "L", false)

	if d.brand.Content.Tagline != "" {
		d.pdf.Ln(6)
		d.pdf.SetFont("Helvetica", "I", 11)
		d.pdf.MultiCell(w-40, 6, d.brand.Content.Tagline, "", "L", false)
	}

	d.pdf.SetFont("Helvetica", "", 9)
	d.pdf.SetXY(20, 270)
	d.pdf.CellFormat(0, 5, d.brand.SourceURL, "", 0, "L", false, 0, "")
	d.pdf.SetTextColor(0, 0, 0)
}

func (d *doc) contents() {
	d.lightPage("Contents")
	d.heading("Contents")

	entries := []string{
		"Brand Strategy", "Voice and Messaging", "Color", "Typography",
		"Logo", "Layout", "Accessibility", "Photography", "Resources",
	}
	d.pdf.SetFont("Helvetica", "", 12)
	for i, entry := range entries {
		d.pdf.CellFormat(12, 9, fmt.Sprintf("%02d", i+1), "", 0, "L", false, 0, "")
		d.pdf.CellFormat(0, 9, entry, "", 1, "L", false, 0, "")
	}
}

func (d *doc) strategy() {
	c := d.brand.Content

	d.lightPage("Brand Strategy")
	d.heading("Positioning")
	d.subheading(c.PositioningHeadline)
	d.body(c.PositioningDescription)

	d.subheading("Mission")
	d.body(c.Mission)
	d.body(c.MissionDescription)

	d.subheading("Vision")
	d.body(c.Vision)
	d.body(c.VisionDescription)

	d.lightPage("Brand Strategy")
	d.heading("Pillars")
	for _, pillar := range c.Pillars {
		d.subheading(pillar.Title)
		d.body(pillar.Description)
	}

	if c.Promise != "" {
		d.subheading("Our Promise")
		d.body(c.Promise)
		d.body(c.PromiseDescription)
	}

	d.lightPage("Brand Strategy")
	d.heading("Personality")
	for _, trait := range c.Traits {
		d.subheading(trait.Name)
		d.body(trait.Description)
	}
}

func (d *doc) voice() {
	c := d.brand.Content

	d.lightPage("Voice and Messaging")
	d.heading("Voice")
	for _, vg := range c.VoiceGuidelines {
		d.subheading(fmt.Sprintf("%s, not %s", vg.IsTrait, vg.IsNotTrait))
		d.body("Do: " + vg.IsExample)
		d.body("Avoid: " + vg.IsNotExample)
	}

	d.lightPage("Voice and Messaging")
	d.heading("Boilerplate")
	d.subheading("Short")
	d.body(c.BoilerplateShort)
	d.subheading("Long")
	d.body(c.BoilerplateLong)
}

func (d *doc) logo() {
	d.lightPage("Logo")
	d.heading("Logo")

	logo := d.brand.Logo
	if !logo.Found || logo.Primary == nil {
		d.placeholder("No logo could be detected on the website. Supply brand marks separately before publishing these guidelines.")
		return
	}

	if name, ok := d.registerImage("logo-primary", logo.Primary); ok {
		d.pdf.ImageOptions(name, 15, d.pdf.GetY()+4, 70, 0, false, fpdf.ImageOptions{}, 0, "")
		d.pdf.SetY(d.pdf.GetY() + 60)
	} else {
		d.placeholder(fmt.Sprintf("Primary logo detected (%s, %s format) but not renderable in this document.", logo.Primary.SourceURL, logo.Primary.Format))
	}

	d.subheading("Source")
	d.body(fmt.Sprintf("Detected via %s markup at %s.", logo.Primary.Tier, logo.Primary.SourceURL))

	if len(logo.Variations) > 0 {
		d.subheading("Variations")
		for i := range logo.Variations {
			v := &logo.Variations[i]
			if name, ok := d.registerImage(fmt.Sprintf("logo-var-%d", i), v); ok {
				d.pdf.ImageOptions(name, 15, d.pdf.GetY()+2, 35, 0, false, fpdf.ImageOptions{}, 0, "")
				d.pdf.SetY(d.pdf.GetY() + 32)
			}
			d.body(fmt.Sprintf("%s (%s)", v.SourceURL, v.Tier))
		}
	}
}

// registerImage feeds a downloaded logo into the renderer; formats the
// renderer cannot place (svg, ico) report not-ok
func (d *doc) registerImage(name string, c *models.LogoCandidate) (string, bool) {
	switch c.Format {
	case "png", "jpeg", "gif":
	default:
		return "", false
	}
	if len(c.Data) == 0 {
		return "", false
	}

	opts := fpdf.ImageOptions{ImageType: c.Format, ReadDpi: true}
	d.pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(c.Data))
	if d.pdf.Err() {
		// Recover the document; a bad image only loses its slot
		d.pdf.ClearError()
		return "", false
	}
	return name, true
}

func (d *doc) palette() {
	d.lightPage("Color")
	d.heading("Color")

	entries := d.brand.Colors.Entries()
	if len(entries) == 0 {
		d.placeholder("No brand colors could be extracted from the website.")
		return
	}

	for _, spec := range entries {
		d.pdf.SetFillColor(spec.RGB.R, spec.RGB.G, spec.RGB.B)
		d.pdf.Rect(15, d.pdf.GetY(), 26, 18, "F")

		d.pdf.SetXY(46, d.pdf.GetY())
		d.pdf.SetFont("Helvetica", "B", 11)
		d.pdf.CellFormat(0, 6, spec.Name, "", 1, "L", false, 0, "")
		d.pdf.SetX(46)
		d.pdf.SetFont("Helvetica", "", 9)
		line := fmt.Sprintf("%s   RGB %d, %d, %d   CMYK %d, %d, %d, %d",
			spec.Hex, spec.RGB.R, spec.RGB.G, spec.RGB.B,
			spec.CMYK.C, spec.CMYK.M, spec.CMYK.Y, spec.CMYK.K)
		if spec.Pantone != "" {
			line += "   " + spec.Pantone
		}
		d.pdf.CellFormat(0, 5, line, "", 1, "L", false, 0, "")
		d.pdf.Ln(9)
	}
}

func (d *doc) accessibility() {
	d.lightPage("Accessibility")
	d.heading("Accessibility")

	notes := d.brand.Colors.Contrast
	if len(notes) == 0 {
		d.placeholder("No contrast data is available for this palette.")
		return
	}

	d.body("WCAG 2.1 contrast ratios for each brand color. AA requires 4.5:1 for body text.")
	d.pdf.SetFont("Helvetica", "", 9)
	status := func(pass bool) string {
		if pass {
			return "passes AA"
		}
		return "fails AA"
	}
	for _, note := range notes {
		d.pdf.MultiCell(0, 5, fmt.Sprintf("%s (%s) on white: %.2f:1 (%s), on black: %.2f:1 (%s)",
			note.Role, note.Hex, note.OnWhite, status(note.AAOnWhite), note.OnBlack, status(note.AAOnBlack)),
			"", "L", false)
	}
}

func (d *doc) typography() {
	d.lightPage("Typography")
	d.heading("Typography")

	t := d.brand.Typography

	d.subheading("Primary Typeface")
	d.body(t.Primary.Name)
	if t.Primary.DownloadURL != "" {
		d.body("Available at " + t.Primary.DownloadURL)
	}

	if t.Secondary != nil {
		d.subheading("Secondary Typeface")
		d.body(t.Secondary.Name)
		if t.Secondary.DownloadURL != "" {
			d.body("Available at " + t.Secondary.DownloadURL)
		}
	}

	d.subheading("System Fallback")
	d.body(t.Fallback)

	d.subheading("Type Scale")
	d.pdf.SetFont("Helvetica", "", 9)
	for _, role := range models.TypeRoles {
		style, ok := t.Hierarchy[role]
		if !ok {
			continue
		}
		d.pdf.CellFormat(30, 6, string(role), "", 0, "L", false, 0, "")
		d.pdf.CellFormat(0, 6, fmt.Sprintf("%s  %.0fpx  weight %d", style.FontName, style.SizePx, style.Weight), "", 1, "L", false, 0, "")
	}
}

func (d *doc) layout() {
	d.lightPage("Layout")
	d.heading("Layout")

	n := d.brand.LayoutNotes
	if n.NavLinks == 0 && n.Buttons == 0 && n.Forms == 0 && n.CardSections == 0 && !n.UsesHero {
		d.placeholder("No layout structure could be observed on the website.")
		return
	}

	d.body("Component usage observed on the website, as a starting point for layout conventions:")
	d.pdf.SetFont("Helvetica", "", 10)
	if n.UsesHero {
		d.pdf.CellFormat(0, 6, "- Prominent hero section on the home page", "", 1, "L", false, 0, "")
	}
	d.pdf.CellFormat(0, 6, fmt.Sprintf("- %d navigation links", n.NavLinks), "", 1, "L", false, 0, "")
	d.pdf.CellFormat(0, 6, fmt.Sprintf("- %d buttons and calls to action", n.Buttons), "", 1, "L", false, 0, "")
	d.pdf.CellFormat(0, 6, fmt.Sprintf("- %d forms", n.Forms), "", 1, "L", false, 0, "")
	d.pdf.CellFormat(0, 6, fmt.Sprintf("- %d card-style sections", n.CardSections), "", 1, "L", false, 0, "")
}

func (d *doc) photography() {
	d.lightPage("Photography")
	d.heading("Photography")

	if d.brand.Content.PhotoStyle == "" {
		d.placeholder("No photography direction was generated for this brand.")
		return
	}
	d.body(d.brand.Content.PhotoStyle)
}

func (d *doc) resources() {
	d.lightPage("Resources")
	d.heading("Resources")

	d.subheading("About this document")
	d.body(fmt.Sprintf("Generated from %s. Extracted colors, typography and logo candidates reflect the website at generation time; regenerate after a site redesign.", d.brand.SourceURL))

	if d.brand.Content.Fallback {
		d.body("Narrative sections use standard template copy; no generated brand content was available for this run.")
	}

	d.subheading("Changelog")
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.CellFormat(0, 6, "1.0  Initial guidelines generated from "+d.brand.Domain, "", 1, "L", false, 0, "")
}
