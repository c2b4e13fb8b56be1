package colors

// pantoneTable is an advisory approximation; exact Pantone matching
// needs proprietary color data, so matches beyond the distance cap
// report no Pantone at all.
var pantoneTable = map[string]string{
	"#FF0000": "Pantone 185 C",
	"#FF6600": "Pantone 1505 C",
	"#FFCC00": "Pantone 116 C",
	"#00FF00": "Pantone 802 C",
	"#00CCFF": "Pantone 2995 C",
	"#0066FF": "Pantone 2728 C",
	"#0000FF": "Pantone 286 C",
	"#6600FF": "Pantone 2685 C",
	"#FF00FF": "Pantone 807 C",
	"#000000": "Pantone Black C",
	"#FFFFFF": "Pantone White",
	"#1A1A2E": "Pantone 5395 C",
	"#4A4A6A": "Pantone 5275 C",
}

const pantoneMaxDistance = 100

// NearestPantone returns the closest table entry within the distance
// cap, or "" when nothing is close enough
func NearestPantone(hex string) string {
	target, err := HexToRGB(hex)
	if err != nil {
		return ""
	}

	best := ""
	bestDist := float64(pantoneMaxDistance)
	for ph, name := range pantoneTable {
		ref, err := HexToRGB(ph)
		if err != nil {
			continue
		}
		if d := Distance(target, ref); d < bestDist {
			bestDist = d
			best = name
		}
	}
	return best
}
