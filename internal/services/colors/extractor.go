package colors

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strconv"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/brandforge/internal/interfaces"
	"github.com/ternarybob/brandforge/internal/models"
)

const (
	clusterThreshold = 30 // RGB distance below which colors merge
	maxRankedColors  = 10
	contrastAAFloor  = 4.5
)

// Default palette used when a site yields no usable colors at all
var fallbackPalette = struct{ primary, secondary, accent string }{
	primary:   "#1A1A2E",
	secondary: "#4A4A6A",
	accent:    "#0066FF",
}

var hslRe = regexp.MustCompile(`hsla?\s*\(\s*(\d+)\s*,\s*(\d+)%?\s*,\s*(\d+)%?`)

// Extractor derives a ranked brand palette from stylesheet text and
// downloaded imagery
type Extractor struct {
	logger arbor.ILogger
}

func NewExtractor(logger arbor.ILogger) interfaces.ColorExtractor {
	return &Extractor{logger: logger}
}

func (e *Extractor) Extract(ctx context.Context, site *models.ScrapedSite) (models.ColorPalette, error) {
	candidates := parseCSSColors(site.CSS)
	candidates = append(candidates, parseHSLColors(site.CSS)...)
	candidates = append(candidates, dominantColors(site.Images)...)
	candidates = append(candidates, screenshotColors(site.Screenshots())...)

	ranked := rankColors(candidates)
	palette := buildPalette(ranked)
	palette.Contrast = contrastNotes(&palette)

	e.logger.Debug().
		Int("candidates", len(candidates)).
		Int("ranked", len(ranked)).
		Bool("fallback", len(ranked) == 0).
		Msg("Color palette extracted")

	return palette, nil
}

// parseHSLColors converts hsl()/hsla() literals to hex
func parseHSLColors(css string) []string {
	var out []string
	for _, m := range hslRe.FindAllStringSubmatch(css, -1) {
		h, _ := strconv.Atoi(m[1])
		s, _ := strconv.Atoi(m[2])
		l, _ := strconv.Atoi(m[3])
		if h > 360 || s > 100 || l > 100 {
			continue
		}
		out = append(out, RGBToHex(hslToRGB(h, float64(s)/100, float64(l)/100)))
	}
	return out
}

func hslToRGB(h int, s, l float64) models.RGB {
	if s == 0 {
		v := int(l * 255)
		return models.RGB{R: v, G: v, B: v}
	}

	hueToRGB := func(p, q, t float64) float64 {
		if t < 0 {
			t++
		}
		if t > 1 {
			t--
		}
		switch {
		case t < 1.0/6:
			return p + (q-p)*6*t
		case t < 1.0/2:
			return q
		case t < 2.0/3:
			return p + (q-p)*(2.0/3-t)*6
		}
		return p
	}

	var q float64
	if l < 0.5 {
		q = l * (1 + s)
	} else {
		q = l + s - l*s
	}
	p := 2*l - q
	hn := float64(h) / 360

	return models.RGB{
		R: int(hueToRGB(p, q, hn+1.0/3) * 255),
		G: int(hueToRGB(p, q, hn) * 255),
		B: int(hueToRGB(p, q, hn-1.0/3) * 255),
	}
}

// rankColors filters near-white/near-black values, merges similar
// colors into clusters, and returns the top clusters by frequency
func rankColors(candidates []string) []string {
	counts := make(map[string]int)
	var order []string

	for _, hex := range candidates {
		rgb, err := HexToRGB(hex)
		if err != nil || isNearWhite(rgb) || isNearBlack(rgb) {
			continue
		}
		if _, seen := counts[hex]; !seen {
			order = append(order, hex)
		}
		counts[hex]++
	}

	// Greedy clustering in first-seen order; each cluster absorbs the
	// counts of every unclaimed color within the threshold
	merged := make(map[string]int)
	used := make(map[string]bool)
	var mergedOrder []string

	for _, hex := range order {
		if used[hex] {
			continue
		}
		used[hex] = true
		rgb, _ := HexToRGB(hex)

		total := counts[hex]
		for _, other := range order {
			if used[other] {
				continue
			}
			orgb, _ := HexToRGB(other)
			if Distance(rgb, orgb) < clusterThreshold {
				total += counts[other]
				used[other] = true
			}
		}
		merged[hex] = total
		mergedOrder = append(mergedOrder, hex)
	}

	sort.SliceStable(mergedOrder, func(i, j int) bool {
		return merged[mergedOrder[i]] > merged[mergedOrder[j]]
	})

	if len(mergedOrder) > maxRankedColors {
		mergedOrder = mergedOrder[:maxRankedColors]
	}
	return mergedOrder
}

// buildPalette assigns ranked colors to roles in order: primary,
// secondary, accent, then up to four neutrals. An empty ranking gets
// the default palette.
func buildPalette(ranked []string) models.ColorPalette {
	if len(ranked) == 0 {
		return models.ColorPalette{
			Primary:   makeSpec(fallbackPalette.primary, "Primary"),
			Secondary: makeSpec(fallbackPalette.secondary, "Secondary"),
			Accent:    makeSpec(fallbackPalette.accent, "Accent"),
		}
	}

	palette := models.ColorPalette{Primary: makeSpec(ranked[0], "Primary")}
	if len(ranked) > 1 {
		palette.Secondary = makeSpec(ranked[1], "Secondary")
	}
	if len(ranked) > 2 {
		palette.Accent = makeSpec(ranked[2], "Accent")
	}
	for i := 3; i < len(ranked) && i < 7; i++ {
		palette.Neutrals = append(palette.Neutrals, *makeSpec(ranked[i], "Neutral "+strconv.Itoa(i-2)))
	}
	return palette
}

func makeSpec(hex, name string) *models.ColorSpec {
	rgb, _ := HexToRGB(hex)
	return &models.ColorSpec{
		Name:    name,
		Hex:     NormalizeHex(hex),
		RGB:     rgb,
		CMYK:    RGBToCMYK(rgb),
		Pantone: NearestPantone(hex),
	}
}

// contrastNotes computes WCAG ratios for each palette color against
// white and black backgrounds
func contrastNotes(p *models.ColorPalette) []models.ContrastNote {
	white := models.RGB{R: 255, G: 255, B: 255}
	black := models.RGB{}

	var notes []models.ContrastNote
	for _, spec := range p.Entries() {
		onWhite := ContrastRatio(spec.RGB, white)
		onBlack := ContrastRatio(spec.RGB, black)
		notes = append(notes, models.ContrastNote{
			Role:      spec.Name,
			Hex:       spec.Hex,
			OnWhite:   round2(onWhite),
			OnBlack:   round2(onBlack),
			AAOnWhite: onWhite >= contrastAAFloor,
			AAOnBlack: onBlack >= contrastAAFloor,
		})
	}
	return notes
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
