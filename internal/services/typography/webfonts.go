package typography

import (
	"regexp"
	"strings"
)

var (
	gfV1Re = regexp.MustCompile(`fonts\.googleapis\.com/css\?[^"'\s]*?family=([^"'&\s]+)`)
	gfV2Re = regexp.MustCompile(`fonts\.googleapis\.com/css2\?[^"'\s]*?family=([^"'\s]+)`)
)

// parseWebFontLinks extracts hosted web-font family names from markup
// and stylesheet text. Handles the v1 pipe-separated format and the v2
// repeated family= format, stripping weight and axis suffixes.
func parseWebFontLinks(text string) []string {
	var fonts []string
	seen := make(map[string]bool)

	add := func(name string) {
		name = cleanFamilyParam(name)
		if name != "" && !seen[name] {
			seen[name] = true
			fonts = append(fonts, name)
		}
	}

	for _, m := range gfV1Re.FindAllStringSubmatch(text, -1) {
		for _, name := range strings.Split(m[1], "|") {
			add(name)
		}
	}

	for _, m := range gfV2Re.FindAllStringSubmatch(text, -1) {
		for _, name := range strings.Split(m[1], "&family=") {
			add(name)
		}
	}

	return fonts
}

// cleanFamilyParam decodes a family URL parameter and strips weight
// specs like ":400,700" and ":wght@400;700"
func cleanFamilyParam(raw string) string {
	raw = strings.ReplaceAll(raw, "%20", " ")
	raw = strings.ReplaceAll(raw, "+", " ")
	if i := strings.IndexAny(raw, ":@&"); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(raw)
}

// specimenURL returns the public specimen page for a hosted web font
func specimenURL(family string) string {
	return "https://fonts.google.com/specimen/" + strings.ReplaceAll(family, " ", "+")
}
