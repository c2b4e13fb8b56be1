package colors

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ternarybob/brandforge/internal/models"
)

var (
	hexRe = regexp.MustCompile(`#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})\b`)
	rgbRe = regexp.MustCompile(`rgba?\(\s*(\d{1,3})\s*,\s*(\d{1,3})\s*,\s*(\d{1,3})`)
)

// NormalizeHex expands shorthand and returns uppercase #RRGGBB,
// or "" when the value is not a valid hex color
func NormalizeHex(raw string) string {
	raw = strings.TrimSpace(strings.TrimPrefix(raw, "#"))
	switch len(raw) {
	case 3:
		var b strings.Builder
		for _, c := range raw {
			b.WriteRune(c)
			b.WriteRune(c)
		}
		raw = b.String()
	case 6:
	default:
		return ""
	}
	if _, err := strconv.ParseUint(raw, 16, 32); err != nil {
		return ""
	}
	return "#" + strings.ToUpper(raw)
}

// HexToRGB converts a normalized hex string to its channel triple
func HexToRGB(hex string) (models.RGB, error) {
	hex = NormalizeHex(hex)
	if hex == "" {
		return models.RGB{}, fmt.Errorf("invalid hex color")
	}
	v, _ := strconv.ParseUint(hex[1:], 16, 32)
	return models.RGB{
		R: int(v >> 16 & 0xFF),
		G: int(v >> 8 & 0xFF),
		B: int(v & 0xFF),
	}, nil
}

// RGBToHex renders the triple as uppercase #RRGGBB
func RGBToHex(c models.RGB) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// RGBToCMYK converts to print channels, each 0-100
func RGBToCMYK(c models.RGB) models.CMYK {
	if c.R == 0 && c.G == 0 && c.B == 0 {
		return models.CMYK{K: 100}
	}

	r := float64(c.R) / 255
	g := float64(c.G) / 255
	b := float64(c.B) / 255

	k := 1 - math.Max(r, math.Max(g, b))
	return models.CMYK{
		C: int(math.Round((1 - r - k) / (1 - k) * 100)),
		M: int(math.Round((1 - g - k) / (1 - k) * 100)),
		Y: int(math.Round((1 - b - k) / (1 - k) * 100)),
		K: int(math.Round(k * 100)),
	}
}

// RelativeLuminance implements the WCAG 2.1 definition
func RelativeLuminance(c models.RGB) float64 {
	linear := func(v int) float64 {
		s := float64(v) / 255
		if s <= 0.03928 {
			return s / 12.92
		}
		return math.Pow((s+0.055)/1.055, 2.4)
	}
	return 0.2126*linear(c.R) + 0.7152*linear(c.G) + 0.0722*linear(c.B)
}

// ContrastRatio returns the WCAG contrast ratio between two colors,
// always >= 1
func ContrastRatio(a, b models.RGB) float64 {
	la, lb := RelativeLuminance(a), RelativeLuminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// Distance is the Euclidean distance between two colors in RGB space
func Distance(a, b models.RGB) float64 {
	dr := float64(a.R - b.R)
	dg := float64(a.G - b.G)
	db := float64(a.B - b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// isNearWhite reports colors with every channel at or above 240
func isNearWhite(c models.RGB) bool {
	return c.R >= 240 && c.G >= 240 && c.B >= 240
}

// isNearBlack reports colors with every channel at or below 15
func isNearBlack(c models.RGB) bool {
	return c.R <= 15 && c.G <= 15 && c.B <= 15
}

// parseCSSColors extracts every hex and rgb() literal from stylesheet
// text, returning normalized hex values in order of appearance
func parseCSSColors(css string) []string {
	var out []string

	for _, m := range hexRe.FindAllString(css, -1) {
		if hex := NormalizeHex(m); hex != "" {
			out = append(out, hex)
		}
	}

	for _, m := range rgbRe.FindAllStringSubmatch(css, -1) {
		r, _ := strconv.Atoi(m[1])
		g, _ := strconv.Atoi(m[2])
		b, _ := strconv.Atoi(m[3])
		if r > 255 || g > 255 || b > 255 {
			continue
		}
		out = append(out, RGBToHex(models.RGB{R: r, G: g, B: b}))
	}

	return out
}
